package sema

import (
	"testing"

	"keel/internal/ast"
	"keel/internal/types"
)

func findAllocator(entry *types.Entry, ctx *Context, arity int) *types.Method {
	for _, m := range entry.OwnMethods(ctx.ctorNames.newName, true) {
		if m.Arity() == arity {
			return m
		}
	}
	return nil
}

// A class with `init(x: Int32)` assigning the field gets a matching
// class-level allocator and an Int32 instance field.
func TestSynthesizeAllocatorFromInit(t *testing.T) {
	p := newProg(t)
	p.class("Foo", ast.ClassClass, "", false,
		p.method("init", false, false,
			[]ast.ParamID{p.param("x", p.ty("Int32"))}, ast.NoTypeExprID,
			p.assign(p.selfField("x"), p.ident("x")),
		),
	)

	ctx, bag := p.context()
	Collect(ctx)
	SynthesizeConstructors(ctx)
	ResolveDeclarations(ctx)
	wantClean(t, bag)

	foo := entryNamed(t, ctx, "Foo")
	alloc := findAllocator(foo, ctx, 1)
	if alloc == nil {
		t.Fatal("no Foo.new(x) synthesized")
	}
	if !alloc.Synthesized {
		t.Fatal("allocator not marked synthesized")
	}
	if alloc.Params[0].Type != ctx.Types.Builtins().Int32 {
		t.Fatalf("allocator param type = %s", ctx.Types.TypeString(alloc.Params[0].Type))
	}

	x := foo.FindInstanceField(ctx.Builder.Intern("x"))
	if x == nil || x.Type != ctx.Types.Builtins().Int32 {
		t.Fatal("instance field x did not resolve to Int32")
	}
}

func TestSynthesizeDefaultConstructor(t *testing.T) {
	p := newProg(t)
	p.class("Bare", ast.ClassClass, "", false)

	ctx, bag := p.context()
	Collect(ctx)
	SynthesizeConstructors(ctx)
	wantClean(t, bag)

	bare := entryNamed(t, ctx, "Bare")
	if len(bare.OwnMethods(ctx.ctorNames.initName, false)) != 1 {
		t.Fatal("no zero-argument init synthesized")
	}
	if findAllocator(bare, ctx, 0) == nil {
		t.Fatal("no zero-argument allocator synthesized")
	}
}

func TestAbstractTypeGetsNoDefaultConstructor(t *testing.T) {
	p := newProg(t)
	p.class("Shape", ast.ClassClass, "", true)

	ctx, bag := p.context()
	Collect(ctx)
	SynthesizeConstructors(ctx)
	wantClean(t, bag)

	shape := entryNamed(t, ctx, "Shape")
	if len(shape.Methods) != 0 {
		t.Fatalf("abstract type got %d synthesized methods", len(shape.Methods))
	}
}

func TestExplicitAllocatorWins(t *testing.T) {
	p := newProg(t)
	p.class("Foo", ast.ClassClass, "", false,
		p.method("init", false, false, nil, ast.NoTypeExprID),
		p.method("new", true, false, nil, p.ty("Foo"), p.ret(p.nilLit())),
	)

	ctx, bag := p.context()
	Collect(ctx)
	SynthesizeConstructors(ctx)
	wantClean(t, bag)

	foo := entryNamed(t, ctx, "Foo")
	allocs := foo.OwnMethods(ctx.ctorNames.newName, true)
	if len(allocs) != 1 {
		t.Fatalf("expected the explicit allocator only, got %d", len(allocs))
	}
	if allocs[0].Synthesized {
		t.Fatal("explicit allocator was replaced by a synthesized one")
	}
}

func TestAllocatorPerInitOverload(t *testing.T) {
	p := newProg(t)
	p.class("Foo", ast.ClassClass, "", false,
		p.field(ast.FieldInstance, "x", p.tyNilable("Int32"), ast.NoExprID),
		p.method("init", false, false, nil, ast.NoTypeExprID),
		p.method("init", false, false,
			[]ast.ParamID{p.param("x", p.ty("Int32"))}, ast.NoTypeExprID,
			p.assign(p.selfField("x"), p.ident("x")),
		),
	)

	ctx, bag := p.context()
	Collect(ctx)
	SynthesizeConstructors(ctx)
	wantClean(t, bag)

	foo := entryNamed(t, ctx, "Foo")
	if findAllocator(foo, ctx, 0) == nil || findAllocator(foo, ctx, 1) == nil {
		t.Fatal("expected one allocator per init overload")
	}
}
