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
package parser

import "minilang/ast"

// Program is the grammar entry point: the "def main with input ... output
// ... as" header declaring the program's I/O variable names, followed by
// its command sequence.
type Program struct {
	InputVar  string      `"def" "main" "with" "input" @Ident`
	OutputVar string      `"output" @Ident "as"`
	Body      *CommandSeq `@@`
}

func (p *Program) ToAST() *ast.Program {
	return &ast.Program{InputVar: p.InputVar, OutputVar: p.OutputVar, Body: p.Body.ToAST()}
}

// CommandSeq is right-associative "; "-separated composition.
type CommandSeq struct {
	First *CommandAtom `@@`
	Rest  *CommandSeq  `( ";" @@ )?`
}

func (c *CommandSeq) ToAST() ast.Command {
	first := c.First.ToAST()
	if c.Rest == nil {
		return first
	}
	return ast.Seq{First: first, Second: c.Rest.ToAST()}
}

type CommandAtom struct {
	Skip   *SkipCmd    `(  @@`
	Assign *AssignCmd  ` | @@`
	If     *IfCmd      ` | @@`
	While  *WhileCmd   ` | @@`
	Paren  *CommandSeq `| "(" @@ ")" )`
}

func (c *CommandAtom) ToAST() ast.Command {
	switch {
	case c.Skip != nil:
		return ast.Skip{}
	case c.Assign != nil:
		return c.Assign.ToAST()
	case c.If != nil:
		return c.If.ToAST()
	case c.While != nil:
		return c.While.ToAST()
	case c.Paren != nil:
		return c.Paren.ToAST()
	default:
		panic("parser: empty command atom")
	}
}

type SkipCmd struct {
	Skip string `@"skip"`
}

type AssignCmd struct {
	Var  string   `@Ident ":="`
	Expr *IntExpr `@@`
}

func (c *AssignCmd) ToAST() ast.Command {
	return ast.Assign{Var: c.Var, Expr: c.Expr.ToAST()}
}

type IfCmd struct {
	Cond *BoolExpr    `"if" @@`
	Then *CommandAtom `"then" @@`
	Else *CommandAtom `"else" @@`
}

func (c *IfCmd) ToAST() ast.Command {
	return ast.If{Cond: c.Cond.ToAST(), Then: c.Then.ToAST(), Else: c.Else.ToAST()}
}

type WhileCmd struct {
	Cond *BoolExpr    `"while" @@`
	Body *CommandAtom `"do" @@`
}

func (c *WhileCmd) ToAST() ast.Command {
	return ast.While{Cond: c.Cond.ToAST(), Body: c.Body.ToAST()}
}

// -----------------------------------------------------------------------------
// Boolean expressions: BoolExpr (&&) > BoolTerm (!) > BoolFactor

type BoolExpr struct {
	Left  *BoolTerm   `@@`
	Right []*BoolTerm `( "&&" @@ )*`
}

func (b *BoolExpr) ToAST() ast.BoolExpr {
	result := b.Left.ToAST()
	for _, r := range b.Right {
		result = ast.AndExpr{Left: result, Right: r.ToAST()}
	}
	return result
}

type BoolTerm struct {
	Not    bool        `( @"!" )?`
	Factor *BoolFactor `@@`
}

func (t *BoolTerm) ToAST() ast.BoolExpr {
	f := t.Factor.ToAST()
	if t.Not {
		return ast.NotExpr{Operand: f}
	}
	return f
}

type BoolFactor struct {
	True  bool      `(  @"true"`
	False bool      ` | @"false"`
	Less  *LessExpr ` | @@`
	Paren *BoolExpr `| "(" @@ ")" )`
}

func (f *BoolFactor) ToAST() ast.BoolExpr {
	switch {
	case f.True:
		return ast.BoolLit{Value: true}
	case f.False:
		return ast.BoolLit{Value: false}
	case f.Less != nil:
		return f.Less.ToAST()
	case f.Paren != nil:
		return f.Paren.ToAST()
	default:
		panic("parser: empty bool factor")
	}
}

type LessExpr struct {
	Left  *IntExpr `@@`
	Right *IntExpr `"<" @@`
}

func (e *LessExpr) ToAST() ast.BoolExpr {
	return ast.LessExpr{Left: e.Left.ToAST(), Right: e.Right.ToAST()}
}

// -----------------------------------------------------------------------------
// Integer expressions: IntExpr (+ -) > IntTerm (*) > IntFactor

type IntExpr struct {
	Left  *IntTerm       `@@`
	Right []*IntExprTail `@@*`
}

type IntExprTail struct {
	Op   string   `@("+" | "-")`
	Term *IntTerm `@@`
}

func (e *IntExpr) ToAST() ast.IntExpr {
	result := e.Left.ToAST()
	for _, tail := range e.Right {
		op := ast.OpAdd
		if tail.Op == "-" {
			op = ast.OpSub
		}
		result = ast.IntBinExpr{Op: op, Left: result, Right: tail.Term.ToAST()}
	}
	return result
}

type IntTerm struct {
	Left  *IntFactor   `@@`
	Right []*IntFactor `( "*" @@ )*`
}

func (t *IntTerm) ToAST() ast.IntExpr {
	result := t.Left.ToAST()
	for _, r := range t.Right {
		result = ast.IntBinExpr{Op: ast.OpMul, Left: result, Right: r.ToAST()}
	}
	return result
}

type IntFactor struct {
	Int   *int     `(  @Integer`
	Var   string   ` | @Ident`
	Paren *IntExpr `| "(" @@ ")" )`
}

func (f *IntFactor) ToAST() ast.IntExpr {
	switch {
	case f.Int != nil:
		return ast.IntLit{Value: *f.Int}
	case f.Var != "":
		return ast.IntVar{Name: f.Var}
	case f.Paren != nil:
		return f.Paren.ToAST()
	default:
		panic("parser: empty int factor")
	}
}
