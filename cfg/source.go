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

import "minilang/ast"

// SourceBlock is a maximal run of straight-line source commands (Assign
// or Skip). Its condition is set only for blocks whose two successors
// are the true/false arms of an If or While test.
type SourceBlock struct {
	ID    BlockID
	Stmts []ast.Command
	Cond  ast.BoolExpr // nil for blocks with an unconditional or no successor
}

type SourceCFG struct {
	*Graph
	Blocks map[BlockID]*SourceBlock
	// InputVar and OutputVar are the declared names translate.Lower binds
	// directly to r_in/r_out, carried over from ast.Program.
	InputVar, OutputVar string
}

func NewSourceCFG() *SourceCFG {
	return &SourceCFG{Graph: NewGraph(), Blocks: make(map[BlockID]*SourceBlock)}
}

// sourceBuilder constructs the maximal basic-block CFG for a command,
// threading a current open block the way falcon's ssa.GraphBuilder
// threads its current block while walking the AST.
type sourceBuilder struct {
	cfg     *SourceCFG
	nextID  BlockID
	current *SourceBlock
}

// Build lowers prog into its source CFG: a nop-only entry block feeding
// an open block, straight-line commands accumulating into the current
// block, and If/While forking and rejoining control flow, ending at a
// nop-only exit block.
func Build(prog *ast.Program) *SourceCFG {
	b := &sourceBuilder{cfg: NewSourceCFG()}
	b.cfg.InputVar = prog.InputVar
	b.cfg.OutputVar = prog.OutputVar

	entry := b.newBlock()
	b.cfg.Entry = entry.ID
	b.cfg.AddBlock(entry.ID)

	open := b.newBlock()
	b.cfg.AddBlock(open.ID)
	b.cfg.AddEdge(entry.ID, open.ID, Unconditional)
	b.current = open

	b.walk(prog.Body)

	exit := b.newBlock()
	b.cfg.AddBlock(exit.ID)
	b.cfg.AddEdge(b.current.ID, exit.ID, Unconditional)
	b.cfg.Exit = exit.ID

	return b.cfg
}

func (b *sourceBuilder) newBlock() *SourceBlock {
	id := b.nextID
	b.nextID++
	blk := &SourceBlock{ID: id}
	b.cfg.Blocks[id] = blk
	return blk
}

// openNew starts a fresh current block with no predecessor wired yet;
// callers wire the edge(s) in.
func (b *sourceBuilder) openNew() *SourceBlock {
	blk := b.newBlock()
	b.cfg.AddBlock(blk.ID)
	return blk
}

func (b *sourceBuilder) walk(c ast.Command) {
	switch cmd := c.(type) {
	case ast.Skip:
		// contributes no instruction; an empty block still prints a nop.
	case ast.Assign:
		b.current.Stmts = append(b.current.Stmts, cmd)
	case ast.Seq:
		b.walk(cmd.First)
		b.walk(cmd.Second)
	case ast.If:
		b.walkIf(cmd)
	case ast.While:
		b.walkWhile(cmd)
	default:
		panic("cfg: unknown command kind")
	}
}

func (b *sourceBuilder) walkIf(c ast.If) {
	testBlock := b.current
	testBlock.Cond = c.Cond

	thenBlock := b.openNew()
	b.cfg.AddEdge(testBlock.ID, thenBlock.ID, True)
	b.current = thenBlock
	b.walk(c.Then)
	thenEnd := b.current

	elseBlock := b.openNew()
	b.cfg.AddEdge(testBlock.ID, elseBlock.ID, False)
	b.current = elseBlock
	b.walk(c.Else)
	elseEnd := b.current

	join := b.openNew()
	b.cfg.AddEdge(thenEnd.ID, join.ID, Unconditional)
	b.cfg.AddEdge(elseEnd.ID, join.ID, Unconditional)
	b.current = join
}

func (b *sourceBuilder) walkWhile(c ast.While) {
	pred := b.current
	testBlock := b.openNew()
	b.cfg.AddEdge(pred.ID, testBlock.ID, Unconditional)
	testBlock.Cond = c.Cond

	bodyBlock := b.openNew()
	b.cfg.AddEdge(testBlock.ID, bodyBlock.ID, True)
	b.current = bodyBlock
	b.walk(c.Body)
	bodyEnd := b.current
	b.cfg.AddEdge(bodyEnd.ID, testBlock.ID, Unconditional)

	after := b.openNew()
	b.cfg.AddEdge(testBlock.ID, after.ID, False)
	b.current = after
}
