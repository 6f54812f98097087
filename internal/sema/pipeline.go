package sema

import (
	"keel/internal/observ"
)

// Result is what a pipeline run leaves behind: the mutated context and,
// for partial runs, the unconsumed deferred-diagnostics carrier.
type Result struct {
	Ctx     *Context
	Pending *Pending
	// Complete reports whether every pass ran; false means a fatal gate
	// aborted the run early.
	Complete bool
}

// Analyze runs the full pass sequence over the context. The order is
// fixed: collect, synthesize constructors, resolve declarations, check
// abstract completeness, finalize deferred diagnostics, evaluate class
// initializers, merge instance initializers, analyze bodies, clean up,
// check value recursion. Passes that cannot tolerate a broken context
// gate the run: an error count left by them stops the sequence there.
//
// timer may be nil; when set, each pass is wrapped in a named timing
// record and semantics are unchanged.
func Analyze(ctx *Context, timer *observ.Timer) Result {
	var pending *Pending

	runPass(timer, "collect_declarations", func() { Collect(ctx) })
	if ctx.Errors() > 0 {
		return Result{Ctx: ctx}
	}

	runPass(timer, "synthesize_constructors", func() { SynthesizeConstructors(ctx) })

	runPass(timer, "resolve_declarations", func() { pending = ResolveDeclarations(ctx) })
	if ctx.Errors() > 0 {
		return Result{Ctx: ctx, Pending: pending}
	}

	runPass(timer, "check_abstract", func() { CheckAbstractCompleteness(ctx) })
	if ctx.Errors() > 0 {
		return Result{Ctx: ctx, Pending: pending}
	}

	runPass(timer, "finalize_class_fields", func() { pending.Finalize(ctx) })
	if ctx.Errors() > 0 {
		return Result{Ctx: ctx, Pending: pending}
	}

	runPass(timer, "evaluate_class_inits", func() { EvaluateClassInitializers(ctx) })
	runPass(timer, "merge_instance_inits", func() { MergeInstanceInitializers(ctx) })
	runPass(timer, "analyze_bodies", func() { AnalyzeBodies(ctx) })
	runPass(timer, "cleanup", func() { Cleanup(ctx) })
	runPass(timer, "check_value_recursion", func() { CheckValueRecursion(ctx) })

	return Result{Ctx: ctx, Pending: pending, Complete: true}
}

// AnalyzeDecls runs the declaration-shape prefix only: collect,
// constructor synthesis and declaration resolution. The deferred
// carrier is returned unfinalized, so a caller that only needs type
// shape sees no initializer or body diagnostics. Safe to call
// repeatedly on fresh contexts over the same input.
func AnalyzeDecls(ctx *Context, timer *observ.Timer) Result {
	var pending *Pending

	runPass(timer, "collect_declarations", func() { Collect(ctx) })
	if ctx.Errors() > 0 {
		return Result{Ctx: ctx}
	}

	runPass(timer, "synthesize_constructors", func() { SynthesizeConstructors(ctx) })
	runPass(timer, "resolve_declarations", func() { pending = ResolveDeclarations(ctx) })

	return Result{Ctx: ctx, Pending: pending, Complete: ctx.Errors() == 0}
}

func runPass(timer *observ.Timer, name string, fn func()) {
	if timer == nil {
		fn()
		return
	}
	idx := timer.Begin(name)
	fn()
	timer.End(idx, "")
}
