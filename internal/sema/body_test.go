package sema

import (
	"testing"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/types"
)

func TestBodyTypesAttachedToExpressions(t *testing.T) {
	p := newProg(t)
	lit := p.intLit("41")
	sum := p.b.Exprs.NewBinary(p.span(), ast.BinAdd, lit, p.intLit("1"))
	p.top(p.assign(p.ident("total"), sum))

	res, bag := p.analyze()
	wantClean(t, bag)
	if !res.Complete {
		t.Fatal("pipeline did not complete")
	}

	ctx := res.Ctx
	if ctx.ExprTypes[lit] != ctx.Types.Builtins().Int32 {
		t.Fatalf("literal typed as %s", ctx.Types.TypeString(ctx.ExprTypes[lit]))
	}
	if ctx.ExprTypes[sum] != ctx.Types.Builtins().Int32 {
		t.Fatalf("sum typed as %s", ctx.Types.TypeString(ctx.ExprTypes[sum]))
	}
}

func TestBodyUnknownName(t *testing.T) {
	p := newProg(t)
	p.top(p.exprStmt(p.ident("mystery")))

	_, bag := p.analyze()
	wantCode(t, bag, diag.SemaUnknownName)
}

func TestBodyStringPlusIntRejected(t *testing.T) {
	p := newProg(t)
	p.top(p.exprStmt(p.b.Exprs.NewBinary(p.span(), ast.BinAdd, p.strLit("a"), p.intLit("1"))))

	_, bag := p.analyze()
	wantCode(t, bag, diag.SemaTypeMismatch)
}

func TestBodyLocalWidensThroughNil(t *testing.T) {
	p := newProg(t)
	target := p.ident("x")
	p.top(p.assign(p.ident("x"), p.intLit("5")))
	p.top(p.assign(target, p.nilLit()))

	res, bag := p.analyze()
	wantClean(t, bag)

	ctx := res.Ctx
	got := ctx.ExprTypes[target]
	if !ctx.Types.IsNilable(got) || ctx.Types.Strip(got) != ctx.Types.Builtins().Int32 {
		t.Fatalf("local widened to %s, want Int32?", ctx.Types.TypeString(got))
	}
}

func TestBodyOverloadResolution(t *testing.T) {
	p := newProg(t)
	p.freeMethod("emit",
		[]ast.ParamID{p.param("n", p.ty("Int32"))}, p.ty("Int32"),
		p.ret(p.ident("n")),
	)
	p.freeMethod("emit",
		[]ast.ParamID{p.param("s", p.ty("String"))}, p.ty("String"),
		p.ret(p.ident("s")),
	)
	call := p.freeCall("emit", p.strLit("hello"))
	p.top(p.exprStmt(call))

	res, bag := p.analyze()
	wantClean(t, bag)

	ctx := res.Ctx
	target := ctx.CallTargets[call]
	if target == nil {
		t.Fatal("no call target recorded")
	}
	if target.Params[0].Type != ctx.Types.Builtins().String {
		t.Fatal("overload resolution picked the wrong candidate")
	}
	if ctx.ExprTypes[call] != ctx.Types.Builtins().String {
		t.Fatalf("call typed as %s", ctx.Types.TypeString(ctx.ExprTypes[call]))
	}
}

func TestBodyNoOverloadMatches(t *testing.T) {
	p := newProg(t)
	p.freeMethod("emit",
		[]ast.ParamID{p.param("n", p.ty("Int32"))}, ast.NoTypeExprID,
		p.ret(ast.NoExprID),
	)
	p.top(p.exprStmt(p.freeCall("emit", p.strLit("nope"))))

	_, bag := p.analyze()
	wantCode(t, bag, diag.SemaNoOverload)
}

func TestBodyConstructorCallTypesAsInstance(t *testing.T) {
	p := newProg(t)
	p.class("Foo", ast.ClassClass, "", false,
		p.method("init", false, false,
			[]ast.ParamID{p.param("x", p.ty("Int32"))}, ast.NoTypeExprID,
			p.assign(p.selfField("x"), p.ident("x")),
		),
	)
	call := p.call(p.ident("Foo"), "new", p.intLit("1"))
	p.top(p.assign(p.ident("foo"), call))

	res, bag := p.analyze()
	wantClean(t, bag)

	ctx := res.Ctx
	foo := entryNamed(t, ctx, "Foo")
	if ctx.ExprTypes[call] != ctx.Types.EntryType(foo.ID) {
		t.Fatalf("Foo.new typed as %s", ctx.Types.TypeString(ctx.ExprTypes[call]))
	}
}

func TestBodyAbstractInstantiationRejected(t *testing.T) {
	p := newProg(t)
	p.class("Shape", ast.ClassClass, "", true,
		p.method("init", false, false, nil, ast.NoTypeExprID),
	)
	p.top(p.exprStmt(p.call(p.ident("Shape"), "new")))

	_, bag := p.analyze()
	wantCode(t, bag, diag.SemaTypeMismatch)
}

func TestBodyMethodCallOnInstance(t *testing.T) {
	p := newProg(t)
	p.class("Greeter", ast.ClassClass, "", false,
		p.method("greeting", false, false, nil, p.ty("String"),
			p.ret(p.strLit("hi")),
		),
	)
	call := p.call(p.call(p.ident("Greeter"), "new"), "greeting")
	p.top(p.exprStmt(call))

	res, bag := p.analyze()
	wantClean(t, bag)

	ctx := res.Ctx
	if ctx.ExprTypes[call] != ctx.Types.Builtins().String {
		t.Fatalf("greeting() typed as %s", ctx.Types.TypeString(ctx.ExprTypes[call]))
	}
}

func TestBodyReturnTypeInference(t *testing.T) {
	p := newProg(t)
	p.freeMethod("answer", nil, ast.NoTypeExprID,
		p.ret(p.intLit("42")),
	)
	call := p.freeCall("answer")
	p.top(p.exprStmt(call))

	res, bag := p.analyze()
	wantClean(t, bag)

	ctx := res.Ctx
	var answer *types.Method
	for _, m := range ctx.Types.Free {
		if m.Name == ctx.Builder.Intern("answer") {
			answer = m
		}
	}
	if answer == nil || answer.ReturnType != ctx.Types.Builtins().Int32 {
		t.Fatal("return type was not inferred from the body")
	}
	if ctx.ExprTypes[call] != ctx.Types.Builtins().Int32 {
		t.Fatalf("call typed as %s", ctx.Types.TypeString(ctx.ExprTypes[call]))
	}
}

func TestBodyReturnAgainstDeclaredType(t *testing.T) {
	p := newProg(t)
	p.freeMethod("answer", nil, p.ty("String"),
		p.ret(p.intLit("42")),
	)
	p.top(p.exprStmt(p.freeCall("answer")))

	_, bag := p.analyze()
	wantCode(t, bag, diag.SemaTypeMismatch)
}

func TestBodyConditionMustBeBoolOrNilable(t *testing.T) {
	p := newProg(t)
	p.top(p.b.Stmts.NewIf(p.span(), p.intLit("1"),
		[]ast.StmtID{p.exprStmt(p.trueLit())}, nil))

	_, bag := p.analyze()
	wantCode(t, bag, diag.SemaTypeMismatch)
}

func TestBodySubclassAssignableToAncestorField(t *testing.T) {
	p := newProg(t)
	p.class("Animal", ast.ClassClass, "", false)
	p.class("Dog", ast.ClassClass, "Animal", false)
	p.class("Pen", ast.ClassClass, "", false,
		p.field(ast.FieldInstance, "occupant", p.ty("Animal"), ast.NoExprID),
		p.method("init", false, false, nil, ast.NoTypeExprID,
			p.assign(p.selfField("occupant"), p.call(p.ident("Dog"), "new")),
		),
	)
	p.top(p.exprStmt(p.call(p.ident("Pen"), "new")))

	_, bag := p.analyze()
	wantClean(t, bag)
}
