package sema

import (
	"strings"
	"testing"

	"keel/internal/ast"
	"keel/internal/diag"
)

func checkAbstract(t *testing.T, p *prog) (*Context, *diag.Bag) {
	t.Helper()
	ctx, bag := p.context()
	Collect(ctx)
	SynthesizeConstructors(ctx)
	ResolveDeclarations(ctx)
	CheckAbstractCompleteness(ctx)
	return ctx, bag
}

// abstract class Shape { abstract area() }; class Circle : Shape {} fails
// naming both the type and the method.
func TestMissingOverrideReported(t *testing.T) {
	p := newProg(t)
	p.class("Shape", ast.ClassClass, "", true,
		p.method("area", false, true, nil, p.ty("Float64")),
	)
	p.class("Circle", ast.ClassClass, "Shape", false)

	_, bag := checkAbstract(t, p)
	wantCode(t, bag, diag.SemaAbstractMethodNotImplemented)

	for _, d := range bag.Items() {
		if d.Code != diag.SemaAbstractMethodNotImplemented {
			continue
		}
		if !strings.Contains(d.Message, "Circle") || !strings.Contains(d.Message, "area") {
			t.Fatalf("error does not name the type and method: %s", d.Message)
		}
	}
}

func TestConcreteOverrideSatisfies(t *testing.T) {
	p := newProg(t)
	p.class("Shape", ast.ClassClass, "", true,
		p.method("area", false, true, nil, p.ty("Float64")),
	)
	p.class("Circle", ast.ClassClass, "Shape", false,
		p.method("area", false, false, nil, p.ty("Float64"), p.ret(p.intLit("0"))),
	)

	_, bag := checkAbstract(t, p)
	wantNoCode(t, bag, diag.SemaAbstractMethodNotImplemented)
}

func TestOverrideOnIntermediateAncestorSatisfies(t *testing.T) {
	p := newProg(t)
	p.class("Shape", ast.ClassClass, "", true,
		p.method("area", false, true, nil, p.ty("Float64")),
	)
	p.class("Round", ast.ClassClass, "Shape", true,
		p.method("area", false, false, nil, p.ty("Float64"), p.ret(p.intLit("0"))),
	)
	p.class("Circle", ast.ClassClass, "Round", false)

	_, bag := checkAbstract(t, p)
	wantNoCode(t, bag, diag.SemaAbstractMethodNotImplemented)
}

func TestAbstractSubtypeNotChecked(t *testing.T) {
	p := newProg(t)
	p.class("Shape", ast.ClassClass, "", true,
		p.method("area", false, true, nil, p.ty("Float64")),
	)
	p.class("Round", ast.ClassClass, "Shape", true)

	_, bag := checkAbstract(t, p)
	wantNoCode(t, bag, diag.SemaAbstractMethodNotImplemented)
}

// An override with a different parameter type is a different signature and
// does not satisfy the abstract declaration.
func TestOverrideMustMatchParameterTypes(t *testing.T) {
	p := newProg(t)
	p.class("Sink", ast.ClassClass, "", true,
		p.method("write", false, true,
			[]ast.ParamID{p.param("line", p.ty("String"))}, ast.NoTypeExprID),
	)
	p.class("Console", ast.ClassClass, "Sink", false,
		p.method("write", false, false,
			[]ast.ParamID{p.param("n", p.ty("Int32"))}, ast.NoTypeExprID),
	)

	_, bag := checkAbstract(t, p)
	wantCode(t, bag, diag.SemaAbstractMethodNotImplemented)
}
