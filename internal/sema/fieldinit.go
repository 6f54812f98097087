package sema

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/types"
)

// MergeInstanceInitializers folds instance-field default values into every
// constructor of the owning type. Each field with an initializer gets a
// synthetic `field = expr` assignment prepended to each "init" body that
// does not already assign the field, so later passes see one uniform
// shape: all instance state flows through constructors.
//
// Initializer expressions are type-checked here against the resolved
// field types; mismatches are reported and the assignment is still
// merged so the body analyzer does not cascade unknown-field errors.
func MergeInstanceInitializers(ctx *Context) {
	bc := newBodyChecker(ctx)

	for _, entry := range ctx.Types.Entries() {
		if entry.Builtin || entry.Kind == types.EntryModule {
			continue
		}
		mergeEntry(ctx, bc, entry)
	}
}

func mergeEntry(ctx *Context, bc *bodyChecker, entry *types.Entry) {
	var defaulted []*types.FieldDecl
	for _, f := range entry.InstanceFields {
		if !f.HasInit {
			continue
		}
		checkFieldInit(ctx, bc, entry, f)
		defaulted = append(defaulted, f)
	}

	inits := entry.OwnMethods(ctx.ctorNames.initName, false)
	for _, init := range inits {
		if init.Abstract {
			continue
		}
		if init.Synthesized {
			init.HasBody = true
		}
		if len(defaulted) == 0 {
			continue
		}
		// Prepend in declaration order; walk the list backwards so the
		// first field ends up first.
		for i := len(defaulted) - 1; i >= 0; i-- {
			f := defaulted[i]
			if assignsField(ctx, init.Body, f.Name) {
				continue
			}
			target := ctx.Builder.Exprs.NewFieldAccess(f.Decl, ast.NoExprID, f.Name)
			stmt := ctx.Builder.Stmts.NewAssign(f.Decl, target, f.Init)
			ctx.ExprTypes[target] = f.Type
			ctx.mergedDefaults[stmt] = true
			init.Body = append([]ast.StmtID{stmt}, init.Body...)
		}
	}
}

func checkFieldInit(ctx *Context, bc *bodyChecker, entry *types.Entry, f *types.FieldDecl) {
	sc := newScope(&types.Method{Owner: entry.ID, HasBody: true}, entry)
	got := bc.typeExpr(f.Init, sc)
	if got == types.NoTypeID || f.Type == types.NoTypeID {
		return
	}
	if !ctx.Types.AssignableTo(got, f.Type) {
		ctx.errorf(diag.SemaTypeMismatch, f.Decl,
			fmt.Sprintf("field %q declared as %s but initialized with %s",
				ctx.name(f.Name), ctx.Types.TypeString(f.Type), ctx.Types.TypeString(got)))
	}
}

// assignsField reports whether any statement in the body (including
// nested branches) writes the named field of self.
func assignsField(ctx *Context, body []ast.StmtID, name source.StringID) bool {
	for _, stmtID := range body {
		stmt := ctx.Builder.Stmts.Get(stmtID)
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.StmtAssign:
			node := ctx.Builder.Stmts.Assign(stmtID)
			if isSelfFieldWrite(ctx, node.Target, name) {
				return true
			}
		case ast.StmtIf:
			node := ctx.Builder.Stmts.If(stmtID)
			if assignsField(ctx, node.Then, name) || assignsField(ctx, node.Else, name) {
				return true
			}
		case ast.StmtWhile:
			node := ctx.Builder.Stmts.While(stmtID)
			if assignsField(ctx, node.Body, name) {
				return true
			}
		}
	}
	return false
}

func isSelfFieldWrite(ctx *Context, target ast.ExprID, name source.StringID) bool {
	node := ctx.Builder.Exprs.Get(target)
	if node == nil || node.Kind != ast.ExprFieldAccess {
		return false
	}
	access := ctx.Builder.Exprs.FieldAccess(target)
	if access.Name != name {
		return false
	}
	if access.Recv == ast.NoExprID {
		return true
	}
	recv := ctx.Builder.Exprs.Get(access.Recv)
	return recv != nil && recv.Kind == ast.ExprSelf
}
