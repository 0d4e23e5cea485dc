// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package compile

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"minilang/safety"
)

// SafetyError reports every use-before-definition the safety pass found.
// It is returned only when Options.Safety is enabled.
type SafetyError struct {
	Violations []safety.Violation
}

func (e *SafetyError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("safety check failed:\n  %s", strings.Join(msgs, "\n  "))
}

// InvalidRegisterBudgetError reports a register budget too small to fit
// the 4 reserved registers (r_in, r_out, r_a, r_b).
type InvalidRegisterBudgetError struct {
	N int
}

func (e *InvalidRegisterBudgetError) Error() string {
	return fmt.Sprintf("invalid register budget %d: must be at least 4", e.N)
}

// InternalInvariantError wraps a panic recovered from one of the
// compiler passes, which always indicates a bug in the compiler itself
// rather than a problem with the input program. Cause carries a stack
// trace captured at the point of recovery, via errors.WithStack.
type InternalInvariantError struct {
	Stage string
	Cause error
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s stage: %v", e.Stage, e.Cause)
}

// Unwrap lets errors.As/errors.Is see through to the recovered panic
// value and its stack trace. errors.Cause from github.com/pkg/errors does
// not follow Unwrap and stops at the InternalInvariantError itself.
func (e *InternalInvariantError) Unwrap() error {
	return e.Cause
}
