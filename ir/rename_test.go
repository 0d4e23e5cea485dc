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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenameInstrSubstitutesEveryOperand(t *testing.T) {
	ren := func(r Register) Register {
		if r == Virtual(0) {
			return RA
		}
		return r
	}

	assert.Equal(t, Copy{Src: RA, Dst: Virtual(1)}, RenameInstr(Copy{Src: Virtual(0), Dst: Virtual(1)}, ren))
	assert.Equal(t, Bin{Op: Add, R1: RA, R2: Virtual(1), Dst: RA}, RenameInstr(Bin{Op: Add, R1: Virtual(0), R2: Virtual(1), Dst: Virtual(0)}, ren))
	assert.Equal(t, Nop{}, RenameInstr(Nop{}, ren))
}

func TestRenameTerminatorLeavesJumpAlone(t *testing.T) {
	ren := func(r Register) Register { return RB }

	jump := Jump{Target: Label(3)}
	assert.Equal(t, jump, RenameTerminator(jump, ren))

	cjump := CJump{Cond: Virtual(0), TrueL: Label(1), FalseL: Label(2)}
	assert.Equal(t, CJump{Cond: RB, TrueL: Label(1), FalseL: Label(2)}, RenameTerminator(cjump, ren))

	assert.Nil(t, RenameTerminator(nil, ren))
}
