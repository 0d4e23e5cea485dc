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

// RenameInstr returns a copy of i with every register passed through
// ren. Used by coalescing (merging registers) and by spill rewriting
// (substituting a spilled register for a swap register).
func RenameInstr(i Instr, ren func(Register) Register) Instr {
	switch v := i.(type) {
	case Copy:
		return Copy{Src: ren(v.Src), Dst: ren(v.Dst)}
	case LoadImm:
		return LoadImm{Imm: v.Imm, Dst: ren(v.Dst)}
	case Load:
		return Load{Addr: ren(v.Addr), Dst: ren(v.Dst)}
	case Store:
		return Store{Val: ren(v.Val), Addr: ren(v.Addr)}
	case Bin:
		return Bin{Op: v.Op, R1: ren(v.R1), R2: ren(v.R2), Dst: ren(v.Dst)}
	case Not:
		return Not{Src: ren(v.Src), Dst: ren(v.Dst)}
	case Nop:
		return v
	default:
		panic("ir: unknown instruction kind in RenameInstr")
	}
}

func RenameTerminator(t Terminator, ren func(Register) Register) Terminator {
	switch v := t.(type) {
	case Jump:
		return v
	case CJump:
		return CJump{Cond: ren(v.Cond), TrueL: v.TrueL, FalseL: v.FalseL}
	case nil:
		return nil
	default:
		panic("ir: unknown terminator kind in RenameTerminator")
	}
}
