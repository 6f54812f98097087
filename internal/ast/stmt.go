package ast

import (
	"keel/internal/source"
)

// StmtKind tags the closed set of statement nodes.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtExpr
	StmtAssign
	StmtReturn
	StmtIf
	StmtWhile
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "expr"
	case StmtAssign:
		return "assign"
	case StmtReturn:
		return "return"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	default:
		return "invalid"
	}
}

// Stmt is the arena header for one statement node.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// ExprStmt evaluates an expression for effect.
type ExprStmt struct {
	Expr ExprID
}

// AssignStmt writes Value into Target (ident, field access).
type AssignStmt struct {
	Target ExprID
	Value  ExprID
}

// ReturnStmt leaves the enclosing method; Value may be NoExprID.
type ReturnStmt struct {
	Value ExprID
}

// IfStmt branches on Cond; Else may be empty.
type IfStmt struct {
	Cond ExprID
	Then []StmtID
	Else []StmtID
}

// WhileStmt loops on Cond.
type WhileStmt struct {
	Cond ExprID
	Body []StmtID
}

// Stmts aggregates the statement arenas.
type Stmts struct {
	Arena   *Arena[Stmt]
	Exprs   *Arena[ExprStmt]
	Assigns *Arena[AssignStmt]
	Returns *Arena[ReturnStmt]
	Ifs     *Arena[IfStmt]
	Whiles  *Arena[WhileStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Exprs:   NewArena[ExprStmt](capHint),
		Assigns: NewArena[AssignStmt](capHint),
		Returns: NewArena[ReturnStmt](capHint),
		Ifs:     NewArena[IfStmt](capHint),
		Whiles:  NewArena[WhileStmt](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, sp source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: sp, Payload: payload}))
}

// Get returns the statement header, or nil for NoStmtID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// NewExpr allocates an expression statement.
func (s *Stmts) NewExpr(sp source.Span, expr ExprID) StmtID {
	payload := PayloadID(s.Exprs.Allocate(ExprStmt{Expr: expr}))
	return s.new(StmtExpr, sp, payload)
}

// NewAssign allocates target = value.
func (s *Stmts) NewAssign(sp source.Span, target, value ExprID) StmtID {
	payload := PayloadID(s.Assigns.Allocate(AssignStmt{Target: target, Value: value}))
	return s.new(StmtAssign, sp, payload)
}

// NewReturn allocates a return statement.
func (s *Stmts) NewReturn(sp source.Span, value ExprID) StmtID {
	payload := PayloadID(s.Returns.Allocate(ReturnStmt{Value: value}))
	return s.new(StmtReturn, sp, payload)
}

// NewIf allocates a conditional.
func (s *Stmts) NewIf(sp source.Span, cond ExprID, then, els []StmtID) StmtID {
	payload := PayloadID(s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els}))
	return s.new(StmtIf, sp, payload)
}

// NewWhile allocates a loop.
func (s *Stmts) NewWhile(sp source.Span, cond ExprID, body []StmtID) StmtID {
	payload := PayloadID(s.Whiles.Allocate(WhileStmt{Cond: cond, Body: body}))
	return s.new(StmtWhile, sp, payload)
}

// Expr returns the expression-statement payload.
func (s *Stmts) Expr(id StmtID) *ExprStmt {
	node := s.Get(id)
	if node == nil || node.Kind != StmtExpr {
		return nil
	}
	return s.Exprs.Get(uint32(node.Payload))
}

// Assign returns the assignment payload.
func (s *Stmts) Assign(id StmtID) *AssignStmt {
	node := s.Get(id)
	if node == nil || node.Kind != StmtAssign {
		return nil
	}
	return s.Assigns.Get(uint32(node.Payload))
}

// Return returns the return payload.
func (s *Stmts) Return(id StmtID) *ReturnStmt {
	node := s.Get(id)
	if node == nil || node.Kind != StmtReturn {
		return nil
	}
	return s.Returns.Get(uint32(node.Payload))
}

// If returns the conditional payload.
func (s *Stmts) If(id StmtID) *IfStmt {
	node := s.Get(id)
	if node == nil || node.Kind != StmtIf {
		return nil
	}
	return s.Ifs.Get(uint32(node.Payload))
}

// While returns the loop payload.
func (s *Stmts) While(id StmtID) *WhileStmt {
	node := s.Get(id)
	if node == nil || node.Kind != StmtWhile {
		return nil
	}
	return s.Whiles.Get(uint32(node.Payload))
}
