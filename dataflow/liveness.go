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

// Liveness is the result of the liveness analysis: the set of registers
// that may still be read before being overwritten at a given point.
type Liveness struct {
	universe *Universe
	in, out  map[cfg.BlockID]*RegSet
}

func (l *Liveness) In(id cfg.BlockID) *RegSet  { return l.in[id] }
func (l *Liveness) Out(id cfg.BlockID) *RegSet { return l.out[id] }

// ComputeLiveness runs the backward may-analysis (meet = union) to a
// least fixpoint seeded from the empty set at the exit block.
func ComputeLiveness(c *cfg.TargetCFG, u *Universe) *Liveness {
	in := make(map[cfg.BlockID]*RegSet, len(c.Order()))
	out := make(map[cfg.BlockID]*RegSet, len(c.Order()))
	for _, id := range c.Order() {
		in[id] = u.Empty()
		out[id] = u.Empty()
	}

	changed := true
	for changed {
		changed = false
		for i := len(c.Order()) - 1; i >= 0; i-- {
			id := c.Order()[i]
			newOut := u.Empty()
			for _, s := range c.SuccIDs(id) {
				newOut.UnionWith(in[s])
			}
			if !newOut.Equals(out[id]) {
				out[id] = newOut
				changed = true
			}
			newIn := blockTransfer(c, id, out[id])
			if !newIn.Equals(in[id]) {
				in[id] = newIn
				changed = true
			}
		}
	}

	return &Liveness{universe: u, in: in, out: out}
}

// blockTransfer applies block id's instructions (and terminator) in
// reverse to outSet, yielding the live-in set.
func blockTransfer(c *cfg.TargetCFG, id cfg.BlockID, outSet *RegSet) *RegSet {
	set := outSet.Clone()
	blk := c.Blocks[id]
	if blk.Terminator != nil {
		set.AddAll(blk.Terminator.Used())
	}
	for i := len(blk.Instrs) - 1; i >= 0; i-- {
		instr := blk.Instrs[i]
		set.RemoveAll(instr.Defined())
		set.AddAll(instr.Used())
	}
	return set
}

// PointsLiveness gives the live-after set at every instruction-level
// point of block id, refining Out(id) backward through the terminator
// and each instruction in turn.
func (l *Liveness) PointsLiveness(c *cfg.TargetCFG, id cfg.BlockID) map[ir.Point]*RegSet {
	blk := c.Blocks[id]
	n := len(blk.Instrs)
	result := make(map[ir.Point]*RegSet)

	last := n - 1
	cur := l.out[id].Clone()
	if blk.Terminator != nil {
		result[ir.AfterPoint(int(id), n)] = cur.Clone()
		cur = cur.Clone()
		cur.AddAll(blk.Terminator.Used())
	}
	for i := last; i >= 0; i-- {
		result[ir.AfterPoint(int(id), i)] = cur.Clone()
		next := cur.Clone()
		next.RemoveAll(blk.Instrs[i].Defined())
		next.AddAll(blk.Instrs[i].Used())
		cur = next
	}
	result[ir.EntryPoint(int(id))] = cur.Clone()
	return result
}
