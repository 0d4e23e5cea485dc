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

// Package linearize renders a target CFG as flat, deterministic text:
// one label per block in CFG order, one instruction per line.
package linearize

import (
	"fmt"
	"strings"

	"minilang/cfg"
)

// Linearize prints c's blocks in the order they were created, labeling
// the entry block "main" and every other block by its numeric label.
func Linearize(c *cfg.TargetCFG) string {
	var b strings.Builder
	for _, id := range c.Order() {
		blk := c.Blocks[id]
		fmt.Fprintf(&b, "%s:\n", labelName(c, id))
		for _, instr := range blk.Instrs {
			fmt.Fprintf(&b, "  %s\n", instr)
		}
		if blk.Terminator != nil {
			fmt.Fprintf(&b, "  %s\n", blk.Terminator)
		}
	}
	return b.String()
}

func labelName(c *cfg.TargetCFG, id cfg.BlockID) string {
	if id == c.Entry {
		return "main"
	}
	return c.Blocks[id].Label.String()
}
