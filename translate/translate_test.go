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
package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"minilang/ast"
	"minilang/cfg"
	"minilang/ir"
)

func TestInAndOutBindDirectlyToReservedRegisters(t *testing.T) {
	prog := &ast.Program{InputVar: "in", OutputVar: "out", Body: ast.Assign{Var: "out", Expr: ast.IntVar{Name: "in"}}}
	tgt := translateProgram(t, prog)

	open := tgt.Blocks[1]
	assert.Equal(t, []ir.Instr{ir.Copy{Src: ir.RIn, Dst: ir.ROut}}, open.Instrs)
}

func TestSelfAssignmentEmitsNoCopy(t *testing.T) {
	prog := &ast.Program{Body: ast.Assign{Var: "x", Expr: ast.IntVar{Name: "x"}}}
	tgt := translateProgram(t, prog)

	open := tgt.Blocks[1]
	// the lone reference to x allocates r0; assigning it to itself is a no-op.
	assert.Equal(t, []ir.Instr{ir.Nop{}}, open.Instrs)
}

func TestAdditiveIdentityEliminatesBinOp(t *testing.T) {
	prog := &ast.Program{InputVar: "in", OutputVar: "out", Body: ast.Assign{
		Var:  "out",
		Expr: ast.IntBinExpr{Op: ast.OpAdd, Left: ast.IntLit{Value: 0}, Right: ast.IntVar{Name: "in"}},
	}}
	tgt := translateProgram(t, prog)

	open := tgt.Blocks[1]
	assert.Equal(t, []ir.Instr{ir.Copy{Src: ir.RIn, Dst: ir.ROut}}, open.Instrs)
}

func TestMultiplicativeZeroFoldsToLoadImmZero(t *testing.T) {
	prog := &ast.Program{InputVar: "in", OutputVar: "out", Body: ast.Assign{
		Var:  "out",
		Expr: ast.IntBinExpr{Op: ast.OpMul, Left: ast.IntVar{Name: "in"}, Right: ast.IntLit{Value: 0}},
	}}
	tgt := translateProgram(t, prog)

	open := tgt.Blocks[1]
	assert.Equal(t, []ir.Instr{
		ir.LoadImm{Imm: 0, Dst: ir.Virtual(0)},
		ir.Copy{Src: ir.Virtual(0), Dst: ir.ROut},
	}, open.Instrs)
}

func TestConstantFoldingOfBothLiteralOperands(t *testing.T) {
	prog := &ast.Program{OutputVar: "out", Body: ast.Assign{
		Var:  "out",
		Expr: ast.IntBinExpr{Op: ast.OpAdd, Left: ast.IntLit{Value: 2}, Right: ast.IntLit{Value: 3}},
	}}
	tgt := translateProgram(t, prog)

	open := tgt.Blocks[1]
	assert.Equal(t, []ir.Instr{
		ir.LoadImm{Imm: 5, Dst: ir.Virtual(0)},
		ir.Copy{Src: ir.Virtual(0), Dst: ir.ROut},
	}, open.Instrs)
}

func TestDoubleNegationOnWhileCondition(t *testing.T) {
	prog := &ast.Program{InputVar: "in", Body: ast.While{
		Cond: ast.NotExpr{Operand: ast.NotExpr{Operand: ast.LessExpr{
			Left: ast.IntVar{Name: "in"}, Right: ast.IntLit{Value: 10},
		}}},
		Body: ast.Skip{},
	}}
	tgt := translateProgram(t, prog)

	test := tgt.Blocks[2]
	// !!e eliminates to e itself: a single Less, no Not instructions.
	for _, instr := range test.Instrs {
		_, isNot := instr.(ir.Not)
		assert.False(t, isNot, "expected double negation to be eliminated")
	}
}

func TestEmptyBlockGetsNop(t *testing.T) {
	prog := &ast.Program{Body: ast.Skip{}}
	tgt := translateProgram(t, prog)

	entry := tgt.Blocks[0]
	assert.Equal(t, []ir.Instr{ir.Nop{}}, entry.Instrs)
	assert.Equal(t, ir.Jump{Target: ir.Label(1)}, entry.Terminator)

	exit := tgt.Blocks[2]
	assert.Equal(t, []ir.Instr{ir.Nop{}}, exit.Instrs)
	assert.Nil(t, exit.Terminator)
}

func translateProgram(t *testing.T, prog *ast.Program) *cfg.TargetCFG {
	t.Helper()
	srcCFG := cfg.Build(prog)
	return Lower(srcCFG)
}
