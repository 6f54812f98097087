package sema

import (
	"keel/internal/types"
)

// SynthesizeConstructors derives a class-level allocator ("new") for every
// per-instance constructor ("init") in the context. Explicit allocators
// win: when the user already declared a "new" with the same arity, no
// duplicate is created. A non-abstract type with no constructor at all
// gets a synthesized zero-argument pair.
//
// The pass only adds method entries; field types are untouched and there
// is no user-visible failure mode.
func SynthesizeConstructors(ctx *Context) {
	for _, entry := range ctx.Types.Entries() {
		if entry.Builtin || entry.Kind == types.EntryModule {
			continue
		}
		synthesizeFor(ctx, entry)
	}
}

func synthesizeFor(ctx *Context, entry *types.Entry) {
	inits := entry.OwnMethods(ctx.ctorNames.initName, false)

	if len(inits) == 0 {
		if entry.Abstract {
			return
		}
		// Implicit default constructor.
		init := &types.Method{
			Owner:       entry.ID,
			Name:        ctx.ctorNames.initName,
			Synthesized: true,
			Decl:        entry.Decl,
		}
		entry.Methods = append(entry.Methods, init)
		inits = []*types.Method{init}
	}

	for _, init := range inits {
		if hasExplicitAllocator(ctx, entry, len(init.Params)) {
			continue
		}
		params := make([]types.MethodParam, len(init.Params))
		copy(params, init.Params)
		entry.Methods = append(entry.Methods, &types.Method{
			Owner:       entry.ID,
			Name:        ctx.ctorNames.newName,
			Params:      params,
			ClassLevel:  true,
			Synthesized: true,
			Decl:        init.Decl,
		})
	}
}

// hasExplicitAllocator reports whether the user declared their own
// class-level "new" with the given arity on this exact type.
func hasExplicitAllocator(ctx *Context, entry *types.Entry, arity int) bool {
	for _, m := range entry.OwnMethods(ctx.ctorNames.newName, true) {
		if !m.Synthesized && m.Arity() == arity {
			return true
		}
	}
	return false
}
