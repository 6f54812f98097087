package ast

import (
	"keel/internal/source"
)

// ExprKind tags the closed set of expression nodes. Every pass switches
// exhaustively over these, so adding a kind surfaces every place that
// needs updating.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLitInt
	ExprLitFloat
	ExprLitString
	ExprLitTrue
	ExprLitFalse
	ExprLitNil
	ExprIdent
	ExprSelf
	ExprFieldAccess
	ExprCall
	ExprBinary
	ExprUnary
)

func (k ExprKind) String() string {
	switch k {
	case ExprLitInt:
		return "int_literal"
	case ExprLitFloat:
		return "float_literal"
	case ExprLitString:
		return "string_literal"
	case ExprLitTrue:
		return "true"
	case ExprLitFalse:
		return "false"
	case ExprLitNil:
		return "nil"
	case ExprIdent:
		return "ident"
	case ExprSelf:
		return "self"
	case ExprFieldAccess:
		return "field_access"
	case ExprCall:
		return "call"
	case ExprBinary:
		return "binary"
	case ExprUnary:
		return "unary"
	default:
		return "invalid"
	}
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnNeg UnaryOp = iota
	UnNot
)

// Expr is the arena header for one expression node.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// LiteralExpr carries the raw text of a literal.
type LiteralExpr struct {
	Text source.StringID
}

// IdentExpr references a plain name: a local, a global, or a type name
// used as a receiver.
type IdentExpr struct {
	Name source.StringID
}

// FieldAccessExpr is recv.name; Recv is NoExprID for the bare "field x"
// shorthand inside method bodies (implicit self).
type FieldAccessExpr struct {
	Recv ExprID
	Name source.StringID
}

// CallExpr is recv.name(args); Recv is NoExprID for free-function calls.
type CallExpr struct {
	Recv ExprID
	Name source.StringID
	Args []ExprID
}

// BinaryExpr is l op r.
type BinaryExpr struct {
	Op   BinaryOp
	Left ExprID
	Rite ExprID
}

// UnaryExpr is op x.
type UnaryExpr struct {
	Op UnaryOp
	X  ExprID
}

// Exprs aggregates the expression arenas.
type Exprs struct {
	Arena         *Arena[Expr]
	Literals      *Arena[LiteralExpr]
	Idents        *Arena[IdentExpr]
	FieldAccesses *Arena[FieldAccessExpr]
	Calls         *Arena[CallExpr]
	Binaries      *Arena[BinaryExpr]
	Unaries       *Arena[UnaryExpr]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:         NewArena[Expr](capHint),
		Literals:      NewArena[LiteralExpr](capHint),
		Idents:        NewArena[IdentExpr](capHint),
		FieldAccesses: NewArena[FieldAccessExpr](capHint),
		Calls:         NewArena[CallExpr](capHint),
		Binaries:      NewArena[BinaryExpr](capHint),
		Unaries:       NewArena[UnaryExpr](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, sp source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: sp, Payload: payload}))
}

// Get returns the expression header, or nil for NoExprID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewLiteral allocates a literal node of the given literal kind.
func (e *Exprs) NewLiteral(sp source.Span, kind ExprKind, text source.StringID) ExprID {
	payload := PayloadID(e.Literals.Allocate(LiteralExpr{Text: text}))
	return e.new(kind, sp, payload)
}

// NewIdent allocates an identifier reference.
func (e *Exprs) NewIdent(sp source.Span, name source.StringID) ExprID {
	payload := PayloadID(e.Idents.Allocate(IdentExpr{Name: name}))
	return e.new(ExprIdent, sp, payload)
}

// NewSelf allocates a self reference.
func (e *Exprs) NewSelf(sp source.Span) ExprID {
	return e.new(ExprSelf, sp, NoPayloadID)
}

// NewFieldAccess allocates recv.name.
func (e *Exprs) NewFieldAccess(sp source.Span, recv ExprID, name source.StringID) ExprID {
	payload := PayloadID(e.FieldAccesses.Allocate(FieldAccessExpr{Recv: recv, Name: name}))
	return e.new(ExprFieldAccess, sp, payload)
}

// NewCall allocates recv.name(args).
func (e *Exprs) NewCall(sp source.Span, recv ExprID, name source.StringID, args []ExprID) ExprID {
	payload := PayloadID(e.Calls.Allocate(CallExpr{Recv: recv, Name: name, Args: args}))
	return e.new(ExprCall, sp, payload)
}

// NewBinary allocates l op r.
func (e *Exprs) NewBinary(sp source.Span, op BinaryOp, left, rite ExprID) ExprID {
	payload := PayloadID(e.Binaries.Allocate(BinaryExpr{Op: op, Left: left, Rite: rite}))
	return e.new(ExprBinary, sp, payload)
}

// NewUnary allocates op x.
func (e *Exprs) NewUnary(sp source.Span, op UnaryOp, x ExprID) ExprID {
	payload := PayloadID(e.Unaries.Allocate(UnaryExpr{Op: op, X: x}))
	return e.new(ExprUnary, sp, payload)
}

// Ident returns the identifier payload for the expression.
func (e *Exprs) Ident(id ExprID) *IdentExpr {
	node := e.Get(id)
	if node == nil || node.Kind != ExprIdent {
		return nil
	}
	return e.Idents.Get(uint32(node.Payload))
}

// FieldAccess returns the field-access payload for the expression.
func (e *Exprs) FieldAccess(id ExprID) *FieldAccessExpr {
	node := e.Get(id)
	if node == nil || node.Kind != ExprFieldAccess {
		return nil
	}
	return e.FieldAccesses.Get(uint32(node.Payload))
}

// Call returns the call payload for the expression.
func (e *Exprs) Call(id ExprID) *CallExpr {
	node := e.Get(id)
	if node == nil || node.Kind != ExprCall {
		return nil
	}
	return e.Calls.Get(uint32(node.Payload))
}

// Binary returns the binary payload for the expression.
func (e *Exprs) Binary(id ExprID) *BinaryExpr {
	node := e.Get(id)
	if node == nil || node.Kind != ExprBinary {
		return nil
	}
	return e.Binaries.Get(uint32(node.Payload))
}

// Unary returns the unary payload for the expression.
func (e *Exprs) Unary(id ExprID) *UnaryExpr {
	node := e.Get(id)
	if node == nil || node.Kind != ExprUnary {
		return nil
	}
	return e.Unaries.Get(uint32(node.Payload))
}
