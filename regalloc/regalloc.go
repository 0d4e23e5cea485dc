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

// Package regalloc ranks virtual registers by occurrence frequency,
// keeps as many as the register budget allows and spills the rest to
// memory, rewriting every spilled reference through the r_a/r_b swap
// registers.
package regalloc

import (
	"golang.org/x/exp/slices"

	"minilang/cfg"
	"minilang/dataflow"
	"minilang/ir"
	"minilang/utils"
)

// ReservedCount is the number of machine registers the four distinguished
// names (r_in, r_out, r_a, r_b) always occupy.
const ReservedCount = 4

const reservedCount = ReservedCount

const spillBase = 4096
const spillStride = 1

// Options configures allocation.
type Options struct {
	// N is the total register budget, including the 4 reserved registers.
	N int
	// EliminateDeadStores drops the spill store for a spilled register
	// at any point where it is not in the live-after set, i.e. where the
	// stored value can never reach a later read.
	EliminateDeadStores bool
}

// Result is the outcome of allocation.
type Result struct {
	CFG     *cfg.TargetCFG
	Kept    []ir.Register
	Spilled map[ir.Register]int // register -> memory address
}

// Allocate ranks every distinct non-reserved register in c by occurrence
// frequency, keeps the N-4 most frequent, and spills the rest to memory
// addresses starting at 0x1000. Callers must validate N >= 4 themselves;
// Allocate only asserts it.
func Allocate(c *cfg.TargetCFG, opts Options) Result {
	utils.Assert(opts.N >= reservedCount, "regalloc: register budget %d below the %d reserved registers", opts.N, reservedCount)
	budget := opts.N - reservedCount

	freq := frequencies(c)
	ranked := make([]ir.Register, 0, len(freq))
	for r := range freq {
		ranked = append(ranked, r)
	}
	slices.SortFunc(ranked, func(a, b ir.Register) int {
		if freq[a] != freq[b] {
			return freq[b] - freq[a] // descending frequency
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})

	var kept []ir.Register
	spilled := make(map[ir.Register]int)
	addr := spillBase
	for i, r := range ranked {
		if i < budget {
			kept = append(kept, r)
			continue
		}
		spilled[r] = addr
		addr += spillStride
	}

	liveness := dataflow.ComputeLiveness(c, dataflow.CollectUniverse(c))
	out := rewrite(c, spilled, liveness, opts.EliminateDeadStores)

	return Result{CFG: out, Kept: kept, Spilled: spilled}
}

func frequencies(c *cfg.TargetCFG) map[ir.Register]int {
	freq := make(map[ir.Register]int)
	count := func(r ir.Register) {
		if !r.IsReserved() {
			freq[r]++
		}
	}
	for _, id := range c.Order() {
		blk := c.Blocks[id]
		for _, instr := range blk.Instrs {
			for _, r := range instr.Used() {
				count(r)
			}
			for _, r := range instr.Defined() {
				count(r)
			}
		}
		if blk.Terminator != nil {
			for _, r := range blk.Terminator.Used() {
				count(r)
			}
		}
	}
	return freq
}

