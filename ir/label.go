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
package ir

import "fmt"

// Label names a basic block for branch targets. It mirrors the block id
// it was derived from; the linearizer alone decides to print the entry
// block's label as "main".
type Label int

func (l Label) String() string { return fmt.Sprintf("L%d", int(l)) }

// PointKind distinguishes the two kinds of instruction point within a
// block: the point before its first instruction, and the point right
// after a given instruction (or its terminator).
type PointKind int

const (
	Entry PointKind = iota
	AfterInstr
)

// Point identifies a program point for instruction-level liveness:
// (block, Entry) precedes (block, AfterInstr(0)) precedes
// (block, AfterInstr(1)) and so on.
type Point struct {
	Block int
	Kind  PointKind
	Index int // meaningful only when Kind == AfterInstr
}

func EntryPoint(block int) Point { return Point{Block: block, Kind: Entry} }

func AfterPoint(block, index int) Point {
	return Point{Block: block, Kind: AfterInstr, Index: index}
}

// Less gives the within-block point order: Entry precedes every
// AfterInstr of that block, and AfterInstr indices order naturally.
func (p Point) Less(o Point) bool {
	if p.Block != o.Block {
		return p.Block < o.Block
	}
	if p.Kind != o.Kind {
		return p.Kind == Entry
	}
	return p.Index < o.Index
}
