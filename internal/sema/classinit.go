package sema

import (
	"fmt"

	"keel/internal/diag"
	"keel/internal/types"
)

// EvaluateClassInitializers type-checks every class field's explicit
// initializer against the field's resolved type. Initializers run in a
// class-level scope of the owning type, so they can read other class
// fields and call class-level methods but never touch instance state.
func EvaluateClassInitializers(ctx *Context) {
	bc := newBodyChecker(ctx)

	for _, entry := range ctx.Types.Entries() {
		if entry.Builtin {
			continue
		}
		for _, f := range entry.ClassFields {
			if !f.HasInit {
				continue
			}
			sc := newScope(&types.Method{Owner: entry.ID, ClassLevel: true, HasBody: true}, entry)
			got := bc.typeExpr(f.Init, sc)
			if got == types.NoTypeID || f.Type == types.NoTypeID {
				continue
			}
			if !ctx.Types.AssignableTo(got, f.Type) {
				ctx.errorf(diag.SemaTypeMismatch, f.Decl,
					fmt.Sprintf("class field %q declared as %s but initialized with %s",
						ctx.name(f.Name), ctx.Types.TypeString(f.Type), ctx.Types.TypeString(got)))
			}
		}
	}
}
