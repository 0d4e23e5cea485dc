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
package cfg

import "minilang/ir"

// TargetBlock is a maximal run of target instructions with at most one
// trailing terminator (jump/cjump); the exit block carries none.
type TargetBlock struct {
	ID         BlockID
	Label      ir.Label
	Instrs     []ir.Instr
	Terminator ir.Terminator
}

type TargetCFG struct {
	*Graph
	Blocks map[BlockID]*TargetBlock
}

func NewTargetCFG() *TargetCFG {
	return &TargetCFG{Graph: NewGraph(), Blocks: make(map[BlockID]*TargetBlock)}
}

func (t *TargetCFG) NewBlock(id BlockID) *TargetBlock {
	blk := &TargetBlock{ID: id, Label: ir.Label(id)}
	t.Blocks[id] = blk
	t.AddBlock(id)
	return blk
}

// AllPoints enumerates every instruction-level point of block id in
// program order: Entry, then one AfterInstr per instruction, then one
// more for the terminator if present.
func (t *TargetCFG) AllPoints(id BlockID) []ir.Point {
	blk := t.Blocks[id]
	points := make([]ir.Point, 0, len(blk.Instrs)+2)
	points = append(points, ir.EntryPoint(int(id)))
	n := len(blk.Instrs)
	for i := 0; i < n; i++ {
		points = append(points, ir.AfterPoint(int(id), i))
	}
	if blk.Terminator != nil {
		points = append(points, ir.AfterPoint(int(id), n))
	}
	return points
}
