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

// Package coalesce merges non-interfering virtual registers, reducing
// register pressure before allocation.
package coalesce

import (
	"strings"

	"golang.org/x/exp/slices"

	"minilang/cfg"
	"minilang/dataflow"
	"minilang/ir"
	"minilang/utils"
)

// Result records what coalescing did, so later passes (and tests) can
// report the rename applied to each surviving register.
type Result struct {
	CFG    *cfg.TargetCFG
	Rename map[ir.Register]ir.Register
}

// Coalesce collects every non-reserved register's instruction-level live
// point set, sorts the registers deterministically by name, and greedily
// bin-packs them into groups: each register joins the first existing
// group whose accumulated live set does not interfere with its own,
// or starts a new group if none does. r_in and r_out are never
// candidates and always rename to themselves.
func Coalesce(c *cfg.TargetCFG) Result {
	u := dataflow.CollectUniverse(c)
	liveness := dataflow.ComputeLiveness(c, u)

	points := newPointSets()
	for _, id := range c.Order() {
		for p, set := range liveness.PointsLiveness(c, id) {
			set.ForEach(func(r ir.Register) { points.add(r, p) })
		}
	}

	rename := make(map[ir.Register]ir.Register)
	var candidates []ir.Register
	for _, r := range u.Registers() {
		if r.IsReserved() {
			rename[r] = r
			continue
		}
		candidates = append(candidates, r)
	}
	slices.SortFunc(candidates, func(a, b ir.Register) int { return strings.Compare(a.Name, b.Name) })

	var groups []ir.Register // representatives, in the order their groups were started
	for _, r := range candidates {
		placed := false
		for _, rep := range groups {
			if points.interfere(rep, r) {
				continue
			}
			rename[r] = rep
			points.merge(rep, r, rep)
			placed = true
			break
		}
		if !placed {
			rename[r] = r
			groups = append(groups, r)
		}
	}
	renameFn := func(r ir.Register) ir.Register { return rename[r] }

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
		for _, instr := range src.Instrs {
			renamed := ir.RenameInstr(instr, renameFn)
			if cp, ok := renamed.(ir.Copy); ok && cp.Src == cp.Dst {
				continue
			}
			dst.Instrs = append(dst.Instrs, renamed)
		}
		if len(dst.Instrs) == 0 {
			dst.Instrs = append(dst.Instrs, ir.Nop{})
		}
		dst.Terminator = ir.RenameTerminator(src.Terminator, renameFn)
	}

	return Result{CFG: out, Rename: rename}
}

// -----------------------------------------------------------------------------
// pointSets tracks, per group representative, the set of live-points it
// occupies, so interference is a plain set-intersection test.

type pointSets struct {
	byReg map[ir.Register]*utils.Set[ir.Point]
}

func newPointSets() *pointSets {
	return &pointSets{byReg: make(map[ir.Register]*utils.Set[ir.Point])}
}

func (p *pointSets) add(r ir.Register, pt ir.Point) {
	s, ok := p.byReg[r]
	if !ok {
		s = utils.NewSet[ir.Point]()
		p.byReg[r] = s
	}
	s.Add(pt)
}

func (p *pointSets) interfere(a, b ir.Register) bool {
	sa, sb := p.byReg[a], p.byReg[b]
	if sa == nil || sb == nil {
		return false
	}
	if sa.Length() > sb.Length() {
		sa, sb = sb, sa
	}
	interferes := false
	sa.ForEach(func(pt ir.Point) {
		if sb.Contains(pt) {
			interferes = true
		}
	})
	return interferes
}

// merge folds b's live point set into a's (a is already the group
// representative, so the result stays keyed at a).
func (p *pointSets) merge(a, b ir.Register, canonical ir.Register) {
	merged := utils.NewSet[ir.Point]()
	if sa, ok := p.byReg[a]; ok {
		sa.ForEach(func(pt ir.Point) { merged.Add(pt) })
	}
	if sb, ok := p.byReg[b]; ok {
		sb.ForEach(func(pt ir.Point) { merged.Add(pt) })
	}
	p.byReg[canonical] = merged
}
