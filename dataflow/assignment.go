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
package dataflow

import (
	"minilang/cfg"
	"minilang/ir"
)

// Assignment is the result of the definite-assignment analysis: the set
// of registers guaranteed to hold a value on every path reaching a given
// program point.
type Assignment struct {
	universe *Universe
	in       map[cfg.BlockID]*RegSet
}

// In returns the registers definitely assigned at the entry of block id.
func (a *Assignment) In(id cfg.BlockID) *RegSet { return a.in[id] }

// AtPoint walks forward from In(id) through id's instructions, returning
// the assigned-set that holds at p.
func (a *Assignment) AtPoint(c *cfg.TargetCFG, p ir.Point) *RegSet {
	id := cfg.BlockID(p.Block)
	set := a.in[id].Clone()
	if p.Kind == ir.Entry {
		return set
	}
	blk := c.Blocks[id]
	for i := 0; i <= p.Index && i < len(blk.Instrs); i++ {
		set.AddAll(blk.Instrs[i].Defined())
	}
	return set
}

// DefiniteAssignment computes, for every block, the registers definitely
// assigned on entry: a forward must-analysis (meet = intersection),
// solved as a greatest fixpoint seeded from Top (every non-entry block
// starts optimistic, then loses registers as real predecessor facts
// arrive) with r_in fixed assigned from the program's first instruction.
func DefiniteAssignment(c *cfg.TargetCFG, u *Universe) *Assignment {
	in := make(map[cfg.BlockID]*RegSet, len(c.Order()))
	out := make(map[cfg.BlockID]*RegSet, len(c.Order()))

	for _, id := range c.Order() {
		if id == c.Entry {
			in[id] = u.Empty()
			if _, ok := u.index[ir.RIn]; ok {
				in[id].Add(ir.RIn)
			}
		} else {
			in[id] = u.Full()
		}
		out[id] = in[id].Clone()
		applyGen(c, id, out[id])
	}

	changed := true
	for changed {
		changed = false
		for _, id := range c.Order() {
			if id == c.Entry {
				continue
			}
			preds := c.PredIDs(id)
			var newIn *RegSet
			if len(preds) == 0 {
				newIn = u.Full()
			} else {
				newIn = out[preds[0]].Clone()
				for _, p := range preds[1:] {
					newIn.IntersectWith(out[p])
				}
			}
			if !newIn.Equals(in[id]) {
				in[id] = newIn
				changed = true
			}
			newOut := in[id].Clone()
			applyGen(c, id, newOut)
			if !newOut.Equals(out[id]) {
				out[id] = newOut
				changed = true
			}
		}
	}

	return &Assignment{universe: u, in: in}
}

func applyGen(c *cfg.TargetCFG, id cfg.BlockID, set *RegSet) {
	blk := c.Blocks[id]
	for _, instr := range blk.Instrs {
		set.AddAll(instr.Defined())
	}
}
