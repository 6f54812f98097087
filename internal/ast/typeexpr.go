package ast

import (
	"keel/internal/source"
)

// TypeExpr is a syntactic type annotation: a named type with an optional
// nilable suffix ("Int32?").
type TypeExpr struct {
	Span    source.Span
	Name    source.StringID
	Nilable bool
}

// TypeExprs stores every type annotation of the tree.
type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

// New allocates a type annotation node.
func (t *TypeExprs) New(sp source.Span, name source.StringID, nilable bool) TypeExprID {
	return TypeExprID(t.Arena.Allocate(TypeExpr{Span: sp, Name: name, Nilable: nilable}))
}

// Get returns the annotation for the ID, or nil for NoTypeExprID.
func (t *TypeExprs) Get(id TypeExprID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
