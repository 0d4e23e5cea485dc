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

// Package translate lowers a source CFG into the target IR, performing
// algebraic simplification (constant folding, identity elimination)
// structurally as it emits instructions.
package translate

import (
	"minilang/ast"
	"minilang/cfg"
	"minilang/ir"
)

type lowerer struct {
	src      *cfg.SourceCFG
	dst      *cfg.TargetCFG
	varReg   map[string]ir.Register
	nextTemp int
}

// Lower translates src into a target CFG with the same block identities
// and edges, each source assignment replaced by the instructions that
// compute and store it, and each test block's condition replaced by a
// cjump on the register holding its boolean value.
func Lower(src *cfg.SourceCFG) *cfg.TargetCFG {
	l := &lowerer{src: src, dst: cfg.NewTargetCFG(), varReg: make(map[string]ir.Register)}
	l.varReg[src.InputVar] = ir.RIn
	l.varReg[src.OutputVar] = ir.ROut

	for _, id := range src.Order() {
		l.dst.NewBlock(id)
	}
	for _, id := range src.Order() {
		for _, e := range src.Succs(id) {
			l.dst.AddEdge(id, e.To, e.Label)
		}
	}
	l.dst.Entry = src.Entry
	l.dst.Exit = src.Exit

	for _, id := range src.Order() {
		l.lowerBlock(src.Blocks[id])
	}
	return l.dst
}

func (l *lowerer) lowerBlock(sb *cfg.SourceBlock) {
	blk := l.dst.Blocks[sb.ID]

	for _, stmt := range sb.Stmts {
		l.lowerStmt(stmt, blk)
	}

	if sb.Cond != nil {
		cond := l.lowerBool(sb.Cond, blk)
		trueID, falseID := l.branchTargets(sb.ID)
		blk.Terminator = ir.CJump{Cond: cond, TrueL: ir.Label(trueID), FalseL: ir.Label(falseID)}
	} else if sb.ID != l.src.Exit {
		succs := l.dst.SuccIDs(sb.ID)
		blk.Terminator = ir.Jump{Target: ir.Label(succs[0])}
	}

	if len(blk.Instrs) == 0 {
		blk.Instrs = append(blk.Instrs, ir.Nop{})
	}
}

// branchTargets recovers the True/False successor ids of a test block.
func (l *lowerer) branchTargets(id cfg.BlockID) (trueID, falseID cfg.BlockID) {
	for _, e := range l.dst.Succs(id) {
		switch e.Label {
		case cfg.True:
			trueID = e.To
		case cfg.False:
			falseID = e.To
		}
	}
	return
}

func (l *lowerer) lowerStmt(c ast.Command, blk *cfg.TargetBlock) {
	assign, ok := c.(ast.Assign)
	if !ok {
		return // ast.Skip contributes nothing
	}
	src := l.lowerInt(assign.Expr, blk)
	dst := l.varRegister(assign.Var)
	if src == dst {
		return
	}
	blk.Instrs = append(blk.Instrs, ir.Copy{Src: src, Dst: dst})
}

// varRegister returns the dedicated register for a source variable,
// allocating a fresh virtual one on first reference. The program's
// declared input/output variable names are pre-bound (in Lower) directly
// to the reserved r_in/r_out registers instead of being copied through
// them.
func (l *lowerer) varRegister(name string) ir.Register {
	if reg, ok := l.varReg[name]; ok {
		return reg
	}
	reg := ir.Virtual(l.nextTemp)
	l.nextTemp++
	l.varReg[name] = reg
	return reg
}

func (l *lowerer) newTemp() ir.Register {
	reg := ir.Virtual(l.nextTemp)
	l.nextTemp++
	return reg
}

func (l *lowerer) lowerInt(e ast.IntExpr, blk *cfg.TargetBlock) ir.Register {
	switch expr := e.(type) {
	case ast.IntLit:
		dst := l.newTemp()
		blk.Instrs = append(blk.Instrs, ir.LoadImm{Imm: expr.Value, Dst: dst})
		return dst
	case ast.IntVar:
		return l.varRegister(expr.Name)
	case ast.IntBinExpr:
		return l.lowerIntBin(expr, blk)
	default:
		panic("translate: unknown int expression kind")
	}
}

func (l *lowerer) lowerIntBin(e ast.IntBinExpr, blk *cfg.TargetBlock) ir.Register {
	if lit, ok := e.Left.(ast.IntLit); ok {
		if rlit, ok := e.Right.(ast.IntLit); ok {
			return l.foldInt(e.Op, lit.Value, rlit.Value, blk)
		}
	}
	switch e.Op {
	case ast.OpAdd:
		if isZero(e.Left) {
			return l.lowerInt(e.Right, blk)
		}
		if isZero(e.Right) {
			return l.lowerInt(e.Left, blk)
		}
	case ast.OpSub:
		if isZero(e.Right) {
			return l.lowerInt(e.Left, blk)
		}
	case ast.OpMul:
		if isZero(e.Left) || isZero(e.Right) {
			dst := l.newTemp()
			blk.Instrs = append(blk.Instrs, ir.LoadImm{Imm: 0, Dst: dst})
			return dst
		}
		if isOne(e.Left) {
			return l.lowerInt(e.Right, blk)
		}
		if isOne(e.Right) {
			return l.lowerInt(e.Left, blk)
		}
	}

	lhs := l.lowerInt(e.Left, blk)
	rhs := l.lowerInt(e.Right, blk)
	dst := l.newTemp()
	blk.Instrs = append(blk.Instrs, ir.Bin{Op: binOpOf(e.Op), R1: lhs, R2: rhs, Dst: dst})
	return dst
}

func (l *lowerer) foldInt(op ast.IntBinOp, a, b int, blk *cfg.TargetBlock) ir.Register {
	var v int
	switch op {
	case ast.OpAdd:
		v = a + b
	case ast.OpSub:
		v = a - b
	case ast.OpMul:
		v = a * b
	}
	dst := l.newTemp()
	blk.Instrs = append(blk.Instrs, ir.LoadImm{Imm: v, Dst: dst})
	return dst
}

func (l *lowerer) lowerBool(e ast.BoolExpr, blk *cfg.TargetBlock) ir.Register {
	switch expr := e.(type) {
	case ast.BoolLit:
		dst := l.newTemp()
		blk.Instrs = append(blk.Instrs, ir.LoadImm{Imm: boolToInt(expr.Value), Dst: dst})
		return dst
	case ast.LessExpr:
		lhs := l.lowerInt(expr.Left, blk)
		rhs := l.lowerInt(expr.Right, blk)
		dst := l.newTemp()
		blk.Instrs = append(blk.Instrs, ir.Bin{Op: ir.Less, R1: lhs, R2: rhs, Dst: dst})
		return dst
	case ast.AndExpr:
		lhs := l.lowerBool(expr.Left, blk)
		rhs := l.lowerBool(expr.Right, blk)
		dst := l.newTemp()
		blk.Instrs = append(blk.Instrs, ir.Bin{Op: ir.And, R1: lhs, R2: rhs, Dst: dst})
		return dst
	case ast.NotExpr:
		if inner, ok := expr.Operand.(ast.NotExpr); ok {
			return l.lowerBool(inner.Operand, blk)
		}
		src := l.lowerBool(expr.Operand, blk)
		dst := l.newTemp()
		blk.Instrs = append(blk.Instrs, ir.Not{Src: src, Dst: dst})
		return dst
	default:
		panic("translate: unknown bool expression kind")
	}
}

func isZero(e ast.IntExpr) bool {
	lit, ok := e.(ast.IntLit)
	return ok && lit.Value == 0
}

func isOne(e ast.IntExpr) bool {
	lit, ok := e.(ast.IntLit)
	return ok && lit.Value == 1
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func binOpOf(op ast.IntBinOp) ir.BinOp {
	switch op {
	case ast.OpAdd:
		return ir.Add
	case ast.OpSub:
		return ir.Sub
	case ast.OpMul:
		return ir.Mult
	default:
		panic("translate: unknown int binop")
	}
}
