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

// hexThreshold is the immediate value at and above which loadi prints
// its operand in hex; spill addresses (>= 0x1000) read far more clearly
// that way than as plain decimal.
const hexThreshold = 4096

func (i Copy) String() string  { return fmt.Sprintf("copy %s => %s", i.Src, i.Dst) }
func (i Load) String() string  { return fmt.Sprintf("load %s => %s", i.Addr, i.Dst) }
func (i Store) String() string { return fmt.Sprintf("store %s => %s", i.Val, i.Addr) }
func (i Not) String() string   { return fmt.Sprintf("not %s => %s", i.Src, i.Dst) }
func (Nop) String() string     { return "nop" }
func (i Jump) String() string  { return fmt.Sprintf("jump %s", i.Target) }

func (i Bin) String() string {
	return fmt.Sprintf("%s %s %s => %s", i.Op, i.R1, i.R2, i.Dst)
}

func (i CJump) String() string {
	return fmt.Sprintf("cjump %s %s %s", i.Cond, i.TrueL, i.FalseL)
}

func (i LoadImm) String() string {
	if i.Imm >= hexThreshold {
		return fmt.Sprintf("loadi 0x%x => %s", i.Imm, i.Dst)
	}
	return fmt.Sprintf("loadi %d => %s", i.Imm, i.Dst)
}
