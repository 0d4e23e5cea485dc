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

// Package compile wires the full pipeline together: parse, build the
// source CFG, lower to target IR, optionally check safety, optionally
// coalesce, allocate registers and linearize.
package compile

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"minilang/cfg"
	"minilang/coalesce"
	"minilang/dataflow"
	"minilang/linearize"
	"minilang/parser"
	"minilang/regalloc"
	"minilang/safety"
	"minilang/translate"
)

// Options configures a single compilation.
type Options struct {
	// N is the register budget, including the 4 reserved registers.
	N int
	// Safety runs the use-before-definition check and fails the build
	// on any violation.
	Safety bool
	// Optimize runs register coalescing before allocation.
	Optimize bool
	// EliminateDeadStores drops spill stores for registers never read
	// again. It takes effect only when Optimize is also set: Run passes
	// Optimize && EliminateDeadStores on to regalloc, which computes its
	// own liveness for it.
	EliminateDeadStores bool
	// Verbose enables extra diagnostic output on the Result.
	Verbose bool
	// Dump, when set, populates Result.Dump with a full structural dump
	// of the allocated target CFG, for debugging a miscompilation.
	Dump bool
}

// Result carries the linearized program and the bookkeeping a verbose
// build reports.
type Result struct {
	Output  string
	Kept    int
	Spilled int
	// Dump holds a go-spew rendering of the allocated target CFG when
	// Options.Dump is set; empty otherwise.
	Dump string
}

// Run compiles source (attributing diagnostics to sourceName) per opts.
func Run(sourceName, source string, opts Options) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InternalInvariantError{Stage: "compile", Cause: errors.WithStack(fmt.Errorf("%v", r))}
		}
	}()

	if opts.N < regalloc.ReservedCount {
		return Result{}, &InvalidRegisterBudgetError{N: opts.N}
	}

	prog, perr := parser.ParseSource(sourceName, source)
	if perr != nil {
		return Result{}, errors.Wrap(perr, "compile: parse failed")
	}

	srcCFG := cfg.Build(prog)
	targetCFG := translate.Lower(srcCFG)

	if opts.Safety {
		u := dataflow.CollectUniverse(targetCFG)
		assignment := dataflow.DefiniteAssignment(targetCFG, u)
		if violations := safety.Check(targetCFG, u, assignment); len(violations) > 0 {
			return Result{}, &SafetyError{Violations: violations}
		}
	}

	if opts.Optimize {
		targetCFG = coalesce.Coalesce(targetCFG).CFG
	}

	allocated := regalloc.Allocate(targetCFG, regalloc.Options{
		N:                   opts.N,
		EliminateDeadStores: opts.Optimize && opts.EliminateDeadStores,
	})

	output := linearize.Linearize(allocated.CFG)
	res = Result{Output: output, Kept: len(allocated.Kept), Spilled: len(allocated.Spilled)}
	if opts.Verbose {
		res.Output = fmt.Sprintf("; kept=%d spilled=%d\n%s", res.Kept, res.Spilled, output)
	}
	if opts.Dump {
		res.Dump = spew.Sdump(allocated.CFG)
	}
	return res, nil
}
