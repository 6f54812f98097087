package sema

import (
	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/types"
)

// Context is the single shared mutable state of a semantic run: the type
// and method tables, the macro and global registries, the syntax tree and
// the expression-type side table. The pipeline driver owns it and passes
// it by reference into every pass; no pass reaches it through ambient
// state, and no pass keeps a private copy.
type Context struct {
	Builder *ast.Builder
	Types   *types.Table
	Files   []ast.FileID

	// ExprTypes annotates expression nodes with their resolved types.
	ExprTypes map[ast.ExprID]types.TypeID
	// CallTargets records the method each call expression resolved to.
	CallTargets map[ast.ExprID]*types.Method

	reporter  diag.Reporter
	errors    int
	supers    map[types.EntryID]source.StringID // super names pending resolution
	ctorNames ctorNames

	// bodyStates tracks which methods the body checker already analyzed,
	// shared across the initializer and body passes so no body is checked
	// (and its diagnostics emitted) twice.
	bodyStates map[*types.Method]methodState
	// mergedDefaults marks assignments synthesized by the initializer
	// merger; they are typed and validated at merge time, so the body
	// analyzer skips them.
	mergedDefaults map[ast.StmtID]bool
}

type ctorNames struct {
	initName source.StringID
	newName  source.StringID
	mainName source.StringID
}

// NewContext creates a fresh context around the tree. The reporter may be
// nil; diagnostics are then counted but discarded.
func NewContext(builder *ast.Builder, reporter diag.Reporter) *Context {
	if builder == nil {
		builder = ast.NewBuilder(ast.Hints{}, nil)
	}
	strings := builder.StringsInterner
	return &Context{
		Builder:        builder,
		Types:          types.NewTable(strings),
		ExprTypes:      make(map[ast.ExprID]types.TypeID),
		CallTargets:    make(map[ast.ExprID]*types.Method),
		reporter:       reporter,
		supers:         make(map[types.EntryID]source.StringID),
		bodyStates:     make(map[*types.Method]methodState),
		mergedDefaults: make(map[ast.StmtID]bool),
		ctorNames: ctorNames{
			initName: strings.Intern("init"),
			newName:  strings.Intern("new"),
			mainName: strings.Intern("main"),
		},
	}
}

// AddFile registers a file root with the context.
func (ctx *Context) AddFile(file ast.FileID) {
	if file != ast.NoFileID {
		ctx.Files = append(ctx.Files, file)
	}
}

// Errors returns the number of error-severity diagnostics reported so far.
func (ctx *Context) Errors() int { return ctx.errors }

func (ctx *Context) report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		ctx.errors++
	}
	if ctx.reporter == nil {
		return
	}
	b := diag.NewReportBuilder(ctx.reporter, sev, code, primary, msg)
	for _, note := range notes {
		b.WithNote(note.Span, note.Msg)
	}
	b.Emit()
}

func (ctx *Context) errorf(code diag.Code, primary source.Span, msg string, notes ...diag.Note) {
	ctx.report(code, diag.SevError, primary, msg, notes)
}

func (ctx *Context) name(id source.StringID) string {
	return ctx.Builder.Name(id)
}
