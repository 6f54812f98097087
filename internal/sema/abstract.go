package sema

import (
	"fmt"
	"strings"

	"keel/internal/diag"
	"keel/internal/types"
)

// CheckAbstractCompleteness verifies that every instantiable (non-abstract)
// type provides a concrete override for each abstract method visible
// through its ancestor chain. Overrides must match the full signature:
// name, arity and resolved parameter types. Missing overrides are fatal;
// body analysis assumes none remain.
func CheckAbstractCompleteness(ctx *Context) {
	for _, entry := range ctx.Types.Entries() {
		if entry.Abstract || entry.Builtin || entry.Kind == types.EntryModule {
			continue
		}
		checkEntryCompleteness(ctx, entry)
	}
}

func checkEntryCompleteness(ctx *Context, entry *types.Entry) {
	ancestors := ctx.Types.Ancestors(entry.ID)
	for _, ancestor := range ancestors {
		for _, abstract := range ancestor.Methods {
			if !abstract.Abstract {
				continue
			}
			if findConcreteOverride(ancestors, abstract) == nil {
				ctx.errorf(diag.SemaAbstractMethodNotImplemented, entry.Decl,
					fmt.Sprintf("abstract method %s is not implemented by %q",
						signatureString(ctx, abstract), ctx.name(entry.Name)),
					diag.Note{Span: abstract.Decl, Msg: "abstract method declared here"})
			}
		}
	}
}

// findConcreteOverride looks for a concrete method with the same signature
// anywhere on the chain (the type itself or an ancestor between it and the
// abstract declaration).
func findConcreteOverride(ancestors []*types.Entry, abstract *types.Method) *types.Method {
	for _, entry := range ancestors {
		for _, m := range entry.Methods {
			if m.Abstract || m.ClassLevel != abstract.ClassLevel || m.Name != abstract.Name {
				continue
			}
			if sameSignature(m, abstract) {
				return m
			}
		}
	}
	return nil
}

// sameSignature compares arity and resolved parameter types. A parameter
// that never resolved compares equal, so one broken annotation does not
// cascade into a spurious missing-override error.
func sameSignature(a, b *types.Method) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		at, bt := a.Params[i].Type, b.Params[i].Type
		if at == types.NoTypeID || bt == types.NoTypeID {
			continue
		}
		if at != bt {
			return false
		}
	}
	return true
}

func signatureString(ctx *Context, m *types.Method) string {
	var sb strings.Builder
	if m.Owner != types.NoEntryID {
		if owner := ctx.Types.Get(m.Owner); owner != nil {
			sb.WriteString(ctx.name(owner.Name))
			sb.WriteByte('.')
		}
	}
	sb.WriteString(ctx.name(m.Name))
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ctx.name(p.Name))
		if p.Type != types.NoTypeID {
			sb.WriteString(": ")
			sb.WriteString(ctx.Types.TypeString(p.Type))
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
