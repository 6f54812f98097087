package sema

import (
	"testing"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/types"
)

func resolveProg(t *testing.T, p *prog) (*Context, *diag.Bag, *Pending) {
	t.Helper()
	ctx, bag := p.context()
	Collect(ctx)
	SynthesizeConstructors(ctx)
	pending := ResolveDeclarations(ctx)
	return ctx, bag, pending
}

func TestResolveAnnotationBinding(t *testing.T) {
	p := newProg(t)
	p.global("counter", p.ty("Int64"), ast.NoExprID)
	p.global("label", p.tyNilable("String"), ast.NoExprID)

	ctx, bag, _ := resolveProg(t, p)
	wantClean(t, bag)

	counter, _ := ctx.Types.Global(ctx.Builder.Intern("counter"))
	if counter.Type != ctx.Types.Builtins().Int64 {
		t.Fatalf("counter = %s, want Int64", ctx.Types.TypeString(counter.Type))
	}
	label, _ := ctx.Types.Global(ctx.Builder.Intern("label"))
	if !label.Nilable {
		t.Fatal("String? annotation did not mark the global nilable")
	}
	if ctx.Types.Strip(label.Type) != ctx.Types.Builtins().String {
		t.Fatalf("label core type = %s, want String", ctx.Types.TypeString(label.Type))
	}
}

func TestResolveInferenceFromAssignments(t *testing.T) {
	p := newProg(t)
	p.global("count", ast.NoTypeExprID, p.intLit("1"))
	p.top(p.assign(p.ident("count"), p.intLit("2")))

	ctx, bag, _ := resolveProg(t, p)
	wantClean(t, bag)

	count, _ := ctx.Types.Global(ctx.Builder.Intern("count"))
	if count.Type != ctx.Types.Builtins().Int32 {
		t.Fatalf("count = %s, want Int32", ctx.Types.TypeString(count.Type))
	}
}

func TestResolveNilAssignmentWidensToNilable(t *testing.T) {
	p := newProg(t)
	p.global("maybe", ast.NoTypeExprID, p.intLit("1"))
	p.top(p.assign(p.ident("maybe"), p.nilLit()))

	ctx, bag, _ := resolveProg(t, p)
	wantClean(t, bag)

	maybe, _ := ctx.Types.Global(ctx.Builder.Intern("maybe"))
	if !maybe.Nilable {
		t.Fatal("nil assignment did not widen the inferred type")
	}
	if ctx.Types.Strip(maybe.Type) != ctx.Types.Builtins().Int32 {
		t.Fatalf("core type = %s, want Int32", ctx.Types.TypeString(maybe.Type))
	}
}

func TestResolveConflictingAssignments(t *testing.T) {
	p := newProg(t)
	p.global("thing", ast.NoTypeExprID, p.intLit("1"))
	conflicting := p.strLit("two")
	p.top(p.assign(p.ident("thing"), conflicting))

	_, bag, _ := resolveProg(t, p)
	wantCode(t, bag, diag.SemaTypeMismatch)

	// The error points at the assignment that broke unification, not at
	// the declaration.
	want := p.b.Exprs.Get(conflicting).Span
	for _, d := range bag.Items() {
		if d.Code == diag.SemaTypeMismatch && d.Primary != want {
			t.Fatalf("conflict reported at %v, want the conflicting value at %v", d.Primary, want)
		}
	}
}

func TestResolveNoAnnotationNoAssignment(t *testing.T) {
	p := newProg(t)
	p.class("Box", ast.ClassClass, "", false,
		p.field(ast.FieldInstance, "payload", ast.NoTypeExprID, ast.NoExprID),
	)

	_, bag, _ := resolveProg(t, p)
	wantCode(t, bag, diag.SemaUnresolvedType)
}

func TestResolveUnknownAnnotation(t *testing.T) {
	p := newProg(t)
	p.global("g", p.ty("Ghost"), ast.NoExprID)

	_, bag, _ := resolveProg(t, p)
	wantCode(t, bag, diag.SemaUnresolvedType)
}

// Nilable class field without initializer passes finalization; the same
// field with a non-nilable type fails.
func TestPendingCarrierNilableClassField(t *testing.T) {
	p := newProg(t)
	p.class("Config", ast.ClassClass, "", false,
		p.field(ast.FieldClass, "root", p.tyNilable("String"), ast.NoExprID),
	)

	ctx, bag, pending := resolveProg(t, p)
	wantClean(t, bag)
	if n := pending.Finalize(ctx); n != 0 {
		t.Fatalf("nilable class field flagged: %d errors", n)
	}
	wantNoCode(t, bag, diag.SemaClassFieldNeedsInitializer)
}

func TestPendingCarrierNonNilableClassField(t *testing.T) {
	p := newProg(t)
	p.class("Config", ast.ClassClass, "", false,
		p.field(ast.FieldClass, "root", p.ty("String"), ast.NoExprID),
		p.field(ast.FieldClass, "depth", p.ty("Int32"), ast.NoExprID),
	)

	ctx, bag, pending := resolveProg(t, p)
	wantClean(t, bag)

	if n := pending.Finalize(ctx); n != 2 {
		t.Fatalf("expected both fields batched, got %d", n)
	}
	wantCode(t, bag, diag.SemaClassFieldNeedsInitializer)

	// A second finalization is a no-op.
	if n := pending.Finalize(ctx); n != 0 {
		t.Fatalf("repeated finalization reported %d errors", n)
	}
}

func TestClassFieldWithInitializerNotPending(t *testing.T) {
	p := newProg(t)
	p.class("Config", ast.ClassClass, "", false,
		p.field(ast.FieldClass, "depth", p.ty("Int32"), p.intLit("3")),
	)

	ctx, bag, pending := resolveProg(t, p)
	wantClean(t, bag)
	if len(pending.Items()) != 0 {
		t.Fatalf("initialized class field still pending: %v", pending.Items())
	}
	_ = ctx
}

func TestResolveFieldDeclaredByConstructorWrite(t *testing.T) {
	p := newProg(t)
	p.class("Foo", ast.ClassClass, "", false,
		p.method("init", false, false,
			[]ast.ParamID{p.param("x", p.ty("Int32"))}, ast.NoTypeExprID,
			p.assign(p.selfField("x"), p.ident("x")),
		),
	)

	ctx, bag, _ := resolveProg(t, p)
	wantClean(t, bag)

	foo := entryNamed(t, ctx, "Foo")
	x := foo.FindInstanceField(ctx.Builder.Intern("x"))
	if x == nil {
		t.Fatal("constructor write did not declare the field")
	}
	if x.Type != ctx.Types.Builtins().Int32 {
		t.Fatalf("field x = %s, want Int32", ctx.Types.TypeString(x.Type))
	}
}

func TestResolveSignatures(t *testing.T) {
	p := newProg(t)
	p.freeMethod("scale",
		[]ast.ParamID{p.param("v", p.ty("Float64"))},
		p.ty("Float64"),
		p.ret(p.ident("v")),
	)

	ctx, bag, _ := resolveProg(t, p)
	wantClean(t, bag)

	var scale *types.Method
	for _, m := range ctx.Types.Free {
		if m.Name == ctx.Builder.Intern("scale") {
			scale = m
		}
	}
	if scale == nil {
		t.Fatal("free function not collected")
	}
	f64 := ctx.Types.Builtins().Float64
	if scale.Params[0].Type != f64 || scale.ReturnType != f64 {
		t.Fatal("signature did not resolve to Float64")
	}
}
