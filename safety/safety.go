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

// Package safety checks that no instruction reads a register before a
// value has definitely been assigned to it, using the results of the
// definite-assignment analysis.
package safety

import (
	"fmt"

	"minilang/cfg"
	"minilang/dataflow"
	"minilang/ir"
)

// Violation describes a single use-before-definition.
type Violation struct {
	Block    cfg.BlockID
	Index    int // -1 for the terminator
	Register ir.Register
}

func (v Violation) Error() string {
	if v.Index < 0 {
		return fmt.Sprintf("register %s used by the terminator of block %d before it is definitely assigned", v.Register, v.Block)
	}
	return fmt.Sprintf("register %s used by instruction %d of block %d before it is definitely assigned", v.Register, v.Index, v.Block)
}

// Check walks every instruction of c and reports every register used
// before dataflow.Assignment guarantees it holds a value. Reserved
// registers (r_in, r_out, r_a, r_b) are exempt: r_in is bound at entry
// and r_a/r_b are compiler-introduced spill scratch that the regalloc
// pass alone is responsible for keeping sound.
func Check(c *cfg.TargetCFG, u *dataflow.Universe, a *dataflow.Assignment) []Violation {
	var violations []Violation
	for _, id := range c.Order() {
		blk := c.Blocks[id]
		assigned := a.In(id).Clone()
		for i, instr := range blk.Instrs {
			for _, r := range instr.Used() {
				if r.IsReserved() {
					continue
				}
				if !assigned.Contains(r) {
					violations = append(violations, Violation{Block: id, Index: i, Register: r})
				}
			}
			assigned.AddAll(instr.Defined())
		}
		if blk.Terminator != nil {
			for _, r := range blk.Terminator.Used() {
				if r.IsReserved() {
					continue
				}
				if !assigned.Contains(r) {
					violations = append(violations, Violation{Block: id, Index: -1, Register: r})
				}
			}
		}
	}
	return violations
}
