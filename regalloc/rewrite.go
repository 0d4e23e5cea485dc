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
package regalloc

import (
	"minilang/cfg"
	"minilang/dataflow"
	"minilang/ir"
)

// rewrite produces a new target CFG where every reference to a spilled
// register is replaced by swap-register sequences through r_a/r_b.
func rewrite(c *cfg.TargetCFG, spilled map[ir.Register]int, liveness *dataflow.Liveness, eliminateDeadStores bool) *cfg.TargetCFG {
	out := cfg.NewTargetCFG()
	for _, id := range c.Order() {
		out.NewBlock(id)
	}
	for _, id := range c.Order() {
		for _, e := range c.Succs(id) {
			out.AddEdge(id, e.To, e.Label)
		}
	}
	out.Entry, out.Exit = c.Entry, c.Exit

	for _, id := range c.Order() {
		src := c.Blocks[id]
		dst := out.Blocks[id]
		points := liveness.PointsLiveness(c, id)
		for i, instr := range src.Instrs {
			liveAfter := points[ir.AfterPoint(int(id), i)]
			dst.Instrs = append(dst.Instrs, rewriteInstr(instr, spilled, liveAfter, eliminateDeadStores)...)
		}
		if src.Terminator != nil {
			pre, term := rewriteTerminator(src.Terminator, spilled)
			dst.Instrs = append(dst.Instrs, pre...)
			dst.Terminator = term
		}
		if len(dst.Instrs) == 0 {
			dst.Instrs = append(dst.Instrs, ir.Nop{})
		}
	}
	return out
}

// sourceOperands returns the fixed, ordered list of register fields an
// instruction reads from, paired with the swap register each would use
// if spilled: the first source maps to r_a, the second (if any) to r_b.
func sourceOperands(instr ir.Instr) []ir.Register {
	switch v := instr.(type) {
	case ir.Copy:
		return []ir.Register{v.Src}
	case ir.LoadImm:
		return nil
	case ir.Load:
		return []ir.Register{v.Addr}
	case ir.Store:
		return []ir.Register{v.Val, v.Addr}
	case ir.Bin:
		return []ir.Register{v.R1, v.R2}
	case ir.Not:
		return []ir.Register{v.Src}
	case ir.Nop:
		return nil
	default:
		panic("regalloc: unknown instruction kind")
	}
}

func definedOperand(instr ir.Instr) (ir.Register, bool) {
	d := instr.Defined()
	if len(d) == 0 {
		return ir.Register{}, false
	}
	return d[0], true
}

// rewriteInstr expands instr into a sequence with no references to
// spilled registers, materializing sources into r_a/r_b (in that fixed
// order) and, if the instruction's own result is spilled, computing it
// into whichever swap register its last spilled source did not occupy
// before storing it out. liveAfter is the live-after set at instr's
// program point, used to drop a dead spill store.
func rewriteInstr(instr ir.Instr, spilled map[ir.Register]int, liveAfter *dataflow.RegSet, eliminateDeadStores bool) []ir.Instr {
	sources := sourceOperands(instr)
	swapOf := map[ir.Register]ir.Register{}
	var out []ir.Instr
	var lastSourceSwap ir.Register
	haveLastSourceSwap := false

	swapNames := []ir.Register{ir.RA, ir.RB}
	for i, src := range sources {
		if i >= len(swapNames) {
			break // the instruction set never has more than two sources
		}
		addr, isSpilled := spilled[src]
		if !isSpilled {
			continue
		}
		swap := swapNames[i]
		out = append(out,
			ir.LoadImm{Imm: addr, Dst: swap},
			ir.Load{Addr: swap, Dst: swap},
		)
		swapOf[src] = swap
		lastSourceSwap = swap
		haveLastSourceSwap = true
	}

	rename := func(r ir.Register) ir.Register {
		if swap, ok := swapOf[r]; ok {
			return swap
		}
		return r
	}

	dst, hasDst := definedOperand(instr)
	dstAddr, dstSpilled := spilled[dst]
	if !hasDst || !dstSpilled {
		out = append(out, ir.RenameInstr(instr, rename))
		return out
	}

	if eliminateDeadStores && !liveAfter.Contains(dst) {
		return out
	}

	valueSwap, addrSwap := ir.RB, ir.RA
	if haveLastSourceSwap {
		addrSwap = lastSourceSwap
		if lastSourceSwap == ir.RA {
			valueSwap = ir.RB
		} else {
			valueSwap = ir.RA
		}
	}

	renamedWithDst := func(r ir.Register) ir.Register {
		if r == dst {
			return valueSwap
		}
		return rename(r)
	}
	out = append(out, ir.RenameInstr(instr, renamedWithDst))
	out = append(out,
		ir.LoadImm{Imm: dstAddr, Dst: addrSwap},
		ir.Store{Val: valueSwap, Addr: addrSwap},
	)
	return out
}

func rewriteTerminator(t ir.Terminator, spilled map[ir.Register]int) ([]ir.Instr, ir.Terminator) {
	cj, ok := t.(ir.CJump)
	if !ok {
		return nil, t
	}
	addr, isSpilled := spilled[cj.Cond]
	if !isSpilled {
		return nil, t
	}
	pre := []ir.Instr{
		ir.LoadImm{Imm: addr, Dst: ir.RA},
		ir.Load{Addr: ir.RA, Dst: ir.RA},
	}
	return pre, ir.CJump{Cond: ir.RA, TrueL: cj.TrueL, FalseL: cj.FalseL}
}
