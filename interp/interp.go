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

// Package interp is a test-only tree-walking evaluator for the target
// IR: it never affects the compiled output, it only lets tests check
// that a program still computes the right thing after translation,
// coalescing and allocation.
package interp

import (
	"fmt"

	"minilang/cfg"
	"minilang/ir"
	"minilang/utils"
)

// Run executes c starting from its entry block with r_in bound to
// input, and returns the final value of r_out.
func Run(c *cfg.TargetCFG, input int) (int, error) {
	regs := map[ir.Register]int{ir.RIn: input}
	mem := map[int]int{}

	id := c.Entry
	steps := 0
	for {
		steps++
		if steps > 10_000_000 {
			return 0, fmt.Errorf("interp: did not terminate within %d steps", steps)
		}
		blk := c.Blocks[id]
		for _, instr := range blk.Instrs {
			exec(instr, regs, mem)
		}
		if blk.Terminator == nil {
			utils.Assert(id == c.Exit, "interp: block %d has no terminator but is not the exit block", id)
			return regs[ir.ROut], nil
		}
		id = next(blk.Terminator, regs)
	}
}

func exec(instr ir.Instr, regs map[ir.Register]int, mem map[int]int) {
	switch i := instr.(type) {
	case ir.Copy:
		regs[i.Dst] = regs[i.Src]
	case ir.LoadImm:
		regs[i.Dst] = i.Imm
	case ir.Load:
		regs[i.Dst] = mem[regs[i.Addr]]
	case ir.Store:
		mem[regs[i.Addr]] = regs[i.Val]
	case ir.Bin:
		regs[i.Dst] = evalBin(i.Op, regs[i.R1], regs[i.R2])
	case ir.Not:
		regs[i.Dst] = boolToInt(regs[i.Src] == 0)
	case ir.Nop:
	default:
		panic("interp: unknown instruction kind")
	}
}

func evalBin(op ir.BinOp, a, b int) int {
	switch op {
	case ir.Add:
		return a + b
	case ir.Sub:
		return a - b
	case ir.Mult:
		return a * b
	case ir.And:
		return boolToInt(a != 0 && b != 0)
	case ir.Less:
		return boolToInt(a < b)
	default:
		panic("interp: unknown binop")
	}
}

func next(t ir.Terminator, regs map[ir.Register]int) cfg.BlockID {
	switch term := t.(type) {
	case ir.Jump:
		return cfg.BlockID(term.Target)
	case ir.CJump:
		if regs[term.Cond] != 0 {
			return cfg.BlockID(term.TrueL)
		}
		return cfg.BlockID(term.FalseL)
	default:
		panic("interp: unknown terminator kind")
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
