package sema

import (
	"testing"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/types"
)

// prog assembles a one-file syntax tree the way the external front end
// would, with throwaway spans so diagnostics have somewhere to point.
type prog struct {
	t    *testing.T
	b    *ast.Builder
	file ast.FileID
	off  uint32
}

func newProg(t *testing.T) *prog {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, nil)
	return &prog{t: t, b: b, file: b.Files.New(source.Span{File: 1})}
}

func (p *prog) span() source.Span {
	p.off += 10
	return source.Span{File: 1, Start: p.off, End: p.off + 5}
}

func (p *prog) ty(name string) ast.TypeExprID {
	return p.b.TypeExprs.New(p.span(), p.b.Intern(name), false)
}

func (p *prog) tyNilable(name string) ast.TypeExprID {
	return p.b.TypeExprs.New(p.span(), p.b.Intern(name), true)
}

func (p *prog) param(name string, typ ast.TypeExprID) ast.ParamID {
	return p.b.Items.NewParam(p.span(), p.b.Intern(name), typ)
}

func (p *prog) class(name string, kind ast.ClassKind, super string, abstract bool, members ...ast.ItemID) ast.ItemID {
	superID := source.NoStringID
	if super != "" {
		superID = p.b.Intern(super)
	}
	item := p.b.Items.NewClass(p.span(), ast.ClassItem{
		Name:     p.b.Intern(name),
		Kind:     kind,
		Super:    superID,
		Abstract: abstract,
		Members:  members,
	})
	p.b.PushItem(p.file, item)
	return item
}

// member builds a declaration without attaching it to the file root, for
// use inside a class body.
func (p *prog) method(name string, classLevel, abstract bool, params []ast.ParamID, ret ast.TypeExprID, body ...ast.StmtID) ast.ItemID {
	return p.b.Items.NewMethod(p.span(), ast.MethodItem{
		Name:       p.b.Intern(name),
		Params:     params,
		ReturnType: ret,
		ClassLevel: classLevel,
		Abstract:   abstract,
		HasBody:    !abstract,
		Body:       body,
	})
}

func (p *prog) field(scope ast.FieldScope, name string, typ ast.TypeExprID, init ast.ExprID) ast.ItemID {
	return p.b.Items.NewField(p.span(), ast.FieldItem{
		Scope: scope,
		Name:  p.b.Intern(name),
		Type:  typ,
		Init:  init,
	})
}

func (p *prog) freeMethod(name string, params []ast.ParamID, ret ast.TypeExprID, body ...ast.StmtID) ast.ItemID {
	item := p.method(name, false, false, params, ret, body...)
	p.b.PushItem(p.file, item)
	return item
}

func (p *prog) global(name string, typ ast.TypeExprID, init ast.ExprID) ast.ItemID {
	item := p.b.Items.NewGlobal(p.span(), ast.GlobalItem{
		Name: p.b.Intern(name),
		Type: typ,
		Init: init,
	})
	p.b.PushItem(p.file, item)
	return item
}

// Expression shorthand.

func (p *prog) intLit(text string) ast.ExprID {
	return p.b.Exprs.NewLiteral(p.span(), ast.ExprLitInt, p.b.Intern(text))
}

func (p *prog) strLit(text string) ast.ExprID {
	return p.b.Exprs.NewLiteral(p.span(), ast.ExprLitString, p.b.Intern(text))
}

func (p *prog) nilLit() ast.ExprID {
	return p.b.Exprs.NewLiteral(p.span(), ast.ExprLitNil, source.NoStringID)
}

func (p *prog) trueLit() ast.ExprID {
	return p.b.Exprs.NewLiteral(p.span(), ast.ExprLitTrue, source.NoStringID)
}

func (p *prog) ident(name string) ast.ExprID {
	return p.b.Exprs.NewIdent(p.span(), p.b.Intern(name))
}

func (p *prog) selfExpr() ast.ExprID {
	return p.b.Exprs.NewSelf(p.span())
}

func (p *prog) selfField(name string) ast.ExprID {
	return p.b.Exprs.NewFieldAccess(p.span(), p.selfExpr(), p.b.Intern(name))
}

func (p *prog) call(recv ast.ExprID, name string, args ...ast.ExprID) ast.ExprID {
	return p.b.Exprs.NewCall(p.span(), recv, p.b.Intern(name), args)
}

func (p *prog) freeCall(name string, args ...ast.ExprID) ast.ExprID {
	return p.call(ast.NoExprID, name, args...)
}

// Statement shorthand.

func (p *prog) assign(target, value ast.ExprID) ast.StmtID {
	return p.b.Stmts.NewAssign(p.span(), target, value)
}

func (p *prog) exprStmt(expr ast.ExprID) ast.StmtID {
	return p.b.Stmts.NewExpr(p.span(), expr)
}

func (p *prog) ret(value ast.ExprID) ast.StmtID {
	return p.b.Stmts.NewReturn(p.span(), value)
}

func (p *prog) top(stmt ast.StmtID) {
	p.b.PushStmt(p.file, stmt)
}

// Pipeline shorthand.

func (p *prog) context() (*Context, *diag.Bag) {
	bag := diag.NewBag(64)
	ctx := NewContext(p.b, &diag.BagReporter{Bag: bag})
	ctx.AddFile(p.file)
	return ctx, bag
}

func (p *prog) analyze() (Result, *diag.Bag) {
	ctx, bag := p.context()
	return Analyze(ctx, nil), bag
}

func (p *prog) analyzeDecls() (Result, *diag.Bag) {
	ctx, bag := p.context()
	return AnalyzeDecls(ctx, nil), bag
}

// Assertion helpers.

func wantCode(t *testing.T, bag *diag.Bag, code diag.Code) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected diagnostic %s, got %v", code, bag.Items())
}

func wantNoCode(t *testing.T, bag *diag.Bag, code diag.Code) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			t.Fatalf("unexpected diagnostic %s: %s", code, d.Message)
		}
	}
}

func wantClean(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
}

func entryNamed(t *testing.T, ctx *Context, name string) *types.Entry {
	t.Helper()
	entry, ok := ctx.Types.Lookup(ctx.Builder.Intern(name))
	if !ok {
		t.Fatalf("type %q not collected", name)
	}
	return entry
}
