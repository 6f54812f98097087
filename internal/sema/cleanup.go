package sema

import (
	"keel/internal/ast"
	"keel/internal/types"
)

// Cleanup prunes declarations and statements the body analyzer proved
// dead: methods no resolved call references, and branches guarded by a
// literal condition. It runs on a fully typed tree and never changes
// anything observable through the analysis results; retained nodes keep
// their resolved types and no new diagnostics are possible here.
func Cleanup(ctx *Context) {
	used := make(map[*types.Method]bool, len(ctx.CallTargets))
	for _, m := range ctx.CallTargets {
		used[m] = true
	}

	for _, entry := range ctx.Types.Entries() {
		if entry.Builtin {
			continue
		}
		entry.Methods = pruneMethods(ctx, entry.Methods, used)
		for _, m := range entry.Methods {
			m.Body = spliceLiteralBranches(ctx, m.Body)
		}
	}
	ctx.Types.Free = pruneMethods(ctx, ctx.Types.Free, used)
	for _, m := range ctx.Types.Free {
		m.Body = spliceLiteralBranches(ctx, m.Body)
	}

	for _, fileID := range ctx.Files {
		if file := ctx.Builder.Files.Get(fileID); file != nil {
			file.Stmts = spliceLiteralBranches(ctx, file.Stmts)
		}
	}
}

// pruneMethods drops concrete methods nothing calls. Constructors,
// allocators, abstract declarations and program entry points survive
// unconditionally: constructors are reachable through allocation,
// abstract methods anchor override checking, and "main" is the root.
func pruneMethods(ctx *Context, methods []*types.Method, used map[*types.Method]bool) []*types.Method {
	kept := methods[:0]
	for _, m := range methods {
		if used[m] || m.Abstract ||
			m.Name == ctx.ctorNames.initName ||
			m.Name == ctx.ctorNames.newName ||
			m.Name == ctx.ctorNames.mainName {
			kept = append(kept, m)
		}
	}
	return kept
}

// spliceLiteralBranches flattens if statements whose condition is the
// literal true or false, keeping only the live branch. Loops guarded by
// literal false are dropped entirely.
func spliceLiteralBranches(ctx *Context, body []ast.StmtID) []ast.StmtID {
	out := make([]ast.StmtID, 0, len(body))
	for _, stmtID := range body {
		stmt := ctx.Builder.Stmts.Get(stmtID)
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.StmtIf:
			node := ctx.Builder.Stmts.If(stmtID)
			switch literalBool(ctx, node.Cond) {
			case litTrue:
				out = append(out, spliceLiteralBranches(ctx, node.Then)...)
			case litFalse:
				out = append(out, spliceLiteralBranches(ctx, node.Else)...)
			default:
				node.Then = spliceLiteralBranches(ctx, node.Then)
				node.Else = spliceLiteralBranches(ctx, node.Else)
				out = append(out, stmtID)
			}
		case ast.StmtWhile:
			node := ctx.Builder.Stmts.While(stmtID)
			if literalBool(ctx, node.Cond) == litFalse {
				continue
			}
			node.Body = spliceLiteralBranches(ctx, node.Body)
			out = append(out, stmtID)
		default:
			out = append(out, stmtID)
		}
	}
	return out
}

type litKind uint8

const (
	litUnknown litKind = iota
	litTrue
	litFalse
)

func literalBool(ctx *Context, cond ast.ExprID) litKind {
	node := ctx.Builder.Exprs.Get(cond)
	if node == nil {
		return litUnknown
	}
	switch node.Kind {
	case ast.ExprLitTrue:
		return litTrue
	case ast.ExprLitFalse, ast.ExprLitNil:
		return litFalse
	}
	return litUnknown
}
