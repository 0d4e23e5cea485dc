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

// Package dataflow runs the two monotonic fixpoint analyses the compiler
// needs over a bitvector-set lattice: definite-assignment (forward,
// must, meet=intersection) and liveness (backward, may, meet=union).
package dataflow

import (
	"minilang/cfg"
	"minilang/ir"
	"minilang/utils"
)

// Universe assigns each register appearing in a target CFG a dense index
// so it can be tracked in a utils.BitMap.
type Universe struct {
	regs  []ir.Register
	index map[ir.Register]int
}

// CollectUniverse walks every block of c and numbers every register it
// mentions, in first-sight block order, so results are deterministic.
func CollectUniverse(c *cfg.TargetCFG) *Universe {
	u := &Universe{index: make(map[ir.Register]int)}
	add := func(r ir.Register) {
		if _, ok := u.index[r]; !ok {
			u.index[r] = len(u.regs)
			u.regs = append(u.regs, r)
		}
	}
	for _, id := range c.Order() {
		blk := c.Blocks[id]
		for _, instr := range blk.Instrs {
			for _, r := range instr.Used() {
				add(r)
			}
			for _, r := range instr.Defined() {
				add(r)
			}
		}
		if blk.Terminator != nil {
			for _, r := range blk.Terminator.Used() {
				add(r)
			}
		}
	}
	return u
}

func (u *Universe) Size() int { return len(u.regs) }

func (u *Universe) Index(r ir.Register) int {
	i, ok := u.index[r]
	utils.Assert(ok, "dataflow: register %s is not in the universe", r.Name)
	return i
}

func (u *Universe) RegisterAt(i int) ir.Register { return u.regs[i] }

// Registers returns every register in the universe, in first-sight order.
func (u *Universe) Registers() []ir.Register { return u.regs }

func (u *Universe) Empty() *RegSet {
	return &RegSet{universe: u, bm: utils.NewBitMap(u.Size())}
}

func (u *Universe) Full() *RegSet {
	return &RegSet{universe: u, bm: utils.NewFullBitMap(u.Size())}
}

// RegSet is a set of registers over a fixed Universe, backed by a
// utils.BitMap.
type RegSet struct {
	universe *Universe
	bm       *utils.BitMap
}

func (s *RegSet) Add(r ir.Register)    { s.bm.Set(s.universe.Index(r)) }
func (s *RegSet) Remove(r ir.Register) { s.bm.Reset(s.universe.Index(r)) }

func (s *RegSet) AddAll(rs []ir.Register) {
	for _, r := range rs {
		s.Add(r)
	}
}

func (s *RegSet) RemoveAll(rs []ir.Register) {
	for _, r := range rs {
		s.Remove(r)
	}
}

func (s *RegSet) Contains(r ir.Register) bool { return s.bm.IsSet(s.universe.Index(r)) }
func (s *RegSet) IsEmpty() bool               { return s.bm.IsEmpty() }
func (s *RegSet) Intersects(o *RegSet) bool    { return s.bm.Intersects(o.bm) }
func (s *RegSet) Equals(o *RegSet) bool        { return s.bm.Equals(o.bm) }

// UnionWith mutates s to s ∪ o, reporting whether it changed.
func (s *RegSet) UnionWith(o *RegSet) bool { return s.bm.Unite(o.bm) }

// IntersectWith mutates s to s ∩ o, reporting whether it changed.
func (s *RegSet) IntersectWith(o *RegSet) bool { return s.bm.Intersect(o.bm) }

func (s *RegSet) Clone() *RegSet {
	return &RegSet{universe: s.universe, bm: s.bm.Copy()}
}

func (s *RegSet) ForEach(f func(ir.Register)) {
	s.bm.ForEach(func(i int) { f(s.universe.RegisterAt(i)) })
}
