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

// Package ir describes the three-address, load/store target instruction
// set: registers, labels and the fixed instruction shapes, plus the
// used/defined register sets each instruction contributes to the
// dataflow framework.
package ir

import "fmt"

// Register is a symbolic name, virtual or physical. The distinguished
// names r_in, r_out, r_a and r_b never collide with generated names
// (r0, r1, ...) because those are always produced through Virtual.
type Register struct {
	Name string
}

func (r Register) String() string { return r.Name }

var (
	RIn  = Register{"r_in"}
	ROut = Register{"r_out"}
	RA   = Register{"r_a"}
	RB   = Register{"r_b"}
)

// IsReserved reports whether r is one of the four distinguished names
// that are never candidates for coalescing or spilling.
func (r Register) IsReserved() bool {
	return r == RIn || r == ROut || r == RA || r == RB
}

// Virtual produces the n-th generated virtual register name, r0, r1, ....
func Virtual(n int) Register {
	return Register{fmt.Sprintf("r%d", n)}
}
