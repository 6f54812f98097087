package ast

import (
	"keel/internal/source"
)

// Hints suggest arena capacities for a Builder.
type Hints struct{ Files, Items, Stmts, Exprs uint }

// Builder owns every arena of one syntax tree. The external front end (or
// a test) fills it; the semantic pipeline mutates it in place.
type Builder struct {
	Files           *Files
	Items           *Items
	Stmts           *Stmts
	Exprs           *Exprs
	TypeExprs       *TypeExprs
	StringsInterner *source.Interner
}

// NewBuilder creates a Builder; strings may be nil to allocate a fresh
// interner.
func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Items:           NewItems(hints.Items),
		Stmts:           NewStmts(hints.Stmts),
		Exprs:           NewExprs(hints.Exprs),
		TypeExprs:       NewTypeExprs(hints.Items),
		StringsInterner: strings,
	}
}

// Intern is shorthand for interning a name.
func (b *Builder) Intern(s string) source.StringID {
	return b.StringsInterner.Intern(s)
}

// Name resolves an interned name back to its string.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.StringsInterner.Lookup(id)
	return s
}

// PushItem appends a declaration to the file root.
func (b *Builder) PushItem(file FileID, item ItemID) {
	node := b.Files.Get(file)
	node.Items = append(node.Items, item)
}

// PushStmt appends a top-level statement to the file root.
func (b *Builder) PushStmt(file FileID, stmt StmtID) {
	node := b.Files.Get(file)
	node.Stmts = append(node.Stmts, stmt)
}
