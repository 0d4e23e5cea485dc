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
	"testing"

	"github.com/stretchr/testify/assert"

	"minilang/cfg"
	"minilang/dataflow"
	"minilang/interp"
	"minilang/ir"
)

// universeWith builds a dataflow.Universe containing exactly regs, so
// tests can hand-construct RegSet fixtures without a full CFG.
func universeWith(regs ...ir.Register) *dataflow.Universe {
	c := cfg.NewTargetCFG()
	blk := c.NewBlock(0)
	c.Entry, c.Exit = 0, 0
	for _, r := range regs {
		blk.Instrs = append(blk.Instrs, ir.Copy{Src: r, Dst: r})
	}
	return dataflow.CollectUniverse(c)
}

func regSet(u *dataflow.Universe, regs ...ir.Register) *dataflow.RegSet {
	s := u.Empty()
	for _, r := range regs {
		s.Add(r)
	}
	return s
}

func arithmeticCFG() *cfg.TargetCFG {
	c := cfg.NewTargetCFG()
	blk := c.NewBlock(0)
	c.Entry, c.Exit = 0, 0
	blk.Instrs = []ir.Instr{
		ir.LoadImm{Imm: 5, Dst: ir.Virtual(0)},
		ir.LoadImm{Imm: 3, Dst: ir.Virtual(1)},
		ir.Bin{Op: ir.Add, R1: ir.Virtual(0), R2: ir.Virtual(1), Dst: ir.Virtual(2)},
		ir.Bin{Op: ir.Add, R1: ir.Virtual(2), R2: ir.Virtual(0), Dst: ir.Virtual(3)},
		ir.Copy{Src: ir.Virtual(3), Dst: ir.ROut},
	}
	return c
}

func TestAllocateRanksByFrequencyAndKeepsTop(t *testing.T) {
	c := arithmeticCFG()
	// r0 is used in two Bin instructions plus its own definition (3
	// occurrences); r1/r2/r3 each occur twice, tied, broken by name.
	result := Allocate(c, Options{N: 5}) // budget = 1

	assert.Equal(t, []ir.Register{ir.Virtual(0)}, result.Kept)
	assert.Equal(t, 4096, result.Spilled[ir.Virtual(1)])
	assert.Equal(t, 4097, result.Spilled[ir.Virtual(2)])
	assert.Equal(t, 4098, result.Spilled[ir.Virtual(3)])
}

func TestAllocatePreservesProgramSemantics(t *testing.T) {
	c := arithmeticCFG()
	before, err := interp.Run(c, 0)
	assert.NoError(t, err)

	result := Allocate(c, Options{N: 5})
	after, err := interp.Run(result.CFG, 0)
	assert.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, 13, after) // (5+3)+5
}

func TestAllocateWithGenerousBudgetSpillsNothing(t *testing.T) {
	c := arithmeticCFG()
	result := Allocate(c, Options{N: 8})

	assert.Len(t, result.Kept, 4)
	assert.Empty(t, result.Spilled)
}

func TestRewriteInstrDefaultSwapsWhenNoSourceSpills(t *testing.T) {
	spilled := map[ir.Register]int{ir.Virtual(0): 4096}
	instr := ir.LoadImm{Imm: 7, Dst: ir.Virtual(0)}
	u := universeWith(ir.Virtual(0))

	out := rewriteInstr(instr, spilled, regSet(u, ir.Virtual(0)), false)

	assert.Equal(t, []ir.Instr{
		ir.LoadImm{Imm: 7, Dst: ir.RB},
		ir.LoadImm{Imm: 4096, Dst: ir.RA},
		ir.Store{Val: ir.RB, Addr: ir.RA},
	}, out)
}

func TestRewriteInstrLoadsSpilledSourceIntoRA(t *testing.T) {
	spilled := map[ir.Register]int{ir.Virtual(1): 4096}
	instr := ir.Bin{Op: ir.Add, R1: ir.Virtual(1), R2: ir.Virtual(2), Dst: ir.Virtual(3)}
	u := universeWith(ir.Virtual(1), ir.Virtual(2), ir.Virtual(3))

	out := rewriteInstr(instr, spilled, regSet(u), false)

	assert.Equal(t, []ir.Instr{
		ir.LoadImm{Imm: 4096, Dst: ir.RA},
		ir.Load{Addr: ir.RA, Dst: ir.RA},
		ir.Bin{Op: ir.Add, R1: ir.RA, R2: ir.Virtual(2), Dst: ir.Virtual(3)},
	}, out)
}

func TestRewriteInstrDropsDeadSpillStore(t *testing.T) {
	spilled := map[ir.Register]int{ir.Virtual(0): 4096}
	instr := ir.LoadImm{Imm: 7, Dst: ir.Virtual(0)}
	u := universeWith(ir.Virtual(0))

	out := rewriteInstr(instr, spilled, regSet(u), true)

	assert.Empty(t, out)
}

func TestAllocateDropsDeadSpillStoreButKeepsLiveOne(t *testing.T) {
	// x is overwritten immediately (dead store candidate) before the
	// second definition, which is read below: elimination must be
	// point-specific, not "x is read somewhere in the program".
	c := cfg.NewTargetCFG()
	blk := c.NewBlock(0)
	c.Entry, c.Exit = 0, 0
	x, y := ir.Virtual(0), ir.Virtual(1)
	blk.Instrs = []ir.Instr{
		ir.LoadImm{Imm: 1, Dst: x},
		ir.LoadImm{Imm: 2, Dst: x},
		ir.Copy{Src: x, Dst: y},
		ir.Copy{Src: y, Dst: ir.ROut},
	}

	result := Allocate(c, Options{N: 4, EliminateDeadStores: true})

	xAddr := result.Spilled[x]
	instrs := result.CFG.Blocks[0].Instrs
	storesToXAddr := 0
	for i := 0; i+1 < len(instrs); i++ {
		li, ok1 := instrs[i].(ir.LoadImm)
		st, ok2 := instrs[i+1].(ir.Store)
		if ok1 && ok2 && li.Imm == xAddr && li.Dst == st.Addr {
			storesToXAddr++
		}
	}
	assert.Equal(t, 1, storesToXAddr, "the first, overwritten-before-use store to x must be dropped")

	after, err := interp.Run(result.CFG, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, after)
}

func TestRewriteTerminatorLoadsSpilledConditionIntoRA(t *testing.T) {
	spilled := map[ir.Register]int{ir.Virtual(0): 4096}
	cjump := ir.CJump{Cond: ir.Virtual(0), TrueL: ir.Label(1), FalseL: ir.Label(2)}

	pre, term := rewriteTerminator(cjump, spilled)

	assert.Equal(t, []ir.Instr{
		ir.LoadImm{Imm: 4096, Dst: ir.RA},
		ir.Load{Addr: ir.RA, Dst: ir.RA},
	}, pre)
	assert.Equal(t, ir.CJump{Cond: ir.RA, TrueL: ir.Label(1), FalseL: ir.Label(2)}, term)
}
