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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"minilang/ast"
)

func TestBuildSkipHasNopEntryAndExit(t *testing.T) {
	prog := &ast.Program{Body: ast.Skip{}}
	g := Build(prog)

	assert.Equal(t, []BlockID{0, 1, 2}, g.Order())
	assert.Equal(t, BlockID(0), g.Entry)
	assert.Equal(t, BlockID(2), g.Exit)
	assert.Equal(t, []BlockID{1}, g.SuccIDs(0))
	assert.Equal(t, []BlockID{2}, g.SuccIDs(1))
	assert.Empty(t, g.SuccIDs(2))
}

func TestBuildAssignAccumulatesIntoOpenBlock(t *testing.T) {
	prog := &ast.Program{Body: ast.Seq{
		First:  ast.Assign{Var: "x", Expr: ast.IntLit{Value: 1}},
		Second: ast.Assign{Var: "y", Expr: ast.IntLit{Value: 2}},
	}}
	g := Build(prog)

	open := g.Blocks[1]
	assert.Len(t, open.Stmts, 2)
	assert.Nil(t, open.Cond)
}

func TestBuildIfForksAndRejoins(t *testing.T) {
	prog := &ast.Program{Body: ast.If{
		Cond: ast.LessExpr{Left: ast.IntVar{Name: "x"}, Right: ast.IntLit{Value: 0}},
		Then: ast.Assign{Var: "x", Expr: ast.IntLit{Value: 1}},
		Else: ast.Assign{Var: "x", Expr: ast.IntLit{Value: 2}},
	}}
	g := Build(prog)

	test := g.Blocks[1]
	assert.NotNil(t, test.Cond)

	var trueTo, falseTo BlockID
	for _, e := range g.Succs(1) {
		switch e.Label {
		case True:
			trueTo = e.To
		case False:
			falseTo = e.To
		}
	}
	assert.Equal(t, BlockID(2), trueTo)
	assert.Equal(t, BlockID(3), falseTo)

	// then and else both flow into the same join block.
	join := g.SuccIDs(trueTo)[0]
	assert.Equal(t, join, g.SuccIDs(falseTo)[0])

	assert.Equal(t, BlockID(5), g.Exit)
}

func TestBuildWhileLoopsBackToTest(t *testing.T) {
	prog := &ast.Program{Body: ast.While{
		Cond: ast.LessExpr{Left: ast.IntVar{Name: "x"}, Right: ast.IntLit{Value: 10}},
		Body: ast.Assign{Var: "x", Expr: ast.IntBinExpr{Op: ast.OpAdd, Left: ast.IntVar{Name: "x"}, Right: ast.IntLit{Value: 1}}},
	}}
	g := Build(prog)

	// the open block (1) jumps unconditionally into the loop test (2).
	assert.Equal(t, []BlockID{2}, g.SuccIDs(1))
	test := g.Blocks[2]
	assert.NotNil(t, test.Cond)

	var bodyID, afterID BlockID
	for _, e := range g.Succs(2) {
		switch e.Label {
		case True:
			bodyID = e.To
		case False:
			afterID = e.To
		}
	}
	assert.Equal(t, []BlockID{2}, g.SuccIDs(bodyID)) // body loops back to the test
	assert.Equal(t, BlockID(4), afterID)
}
