package sema

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/types"
)

// Pending is the deferred-diagnostics carrier produced by the declaration
// type resolver: every class field without an explicit initializer, tagged
// with its resolved nilability. The finalization check is a separate,
// explicit call so that nilability is judged from the declared or inferred
// type alone, independent of when initializer expressions are analyzed.
type Pending struct {
	items     []PendingInit
	finalized bool
}

// PendingInit is one class field awaiting the initializer check.
type PendingInit struct {
	Owner *types.Entry
	Field *types.FieldDecl
}

// Items exposes the pending findings for tooling. READONLY.
func (p *Pending) Items() []PendingInit { return p.items }

// Finalize consumes the carrier: every non-nilable class field without an
// initializer becomes a ClassFieldNeedsInitializer error. All offending
// fields are reported together rather than stopping at the first. Returns
// the number of errors reported; repeated calls are no-ops.
func (p *Pending) Finalize(ctx *Context) int {
	if p == nil || p.finalized {
		return 0
	}
	p.finalized = true
	count := 0
	for _, item := range p.items {
		if item.Field.Type == types.NoTypeID || item.Field.Nilable {
			continue
		}
		count++
		ctx.errorf(diag.SemaClassFieldNeedsInitializer, item.Field.Decl,
			fmt.Sprintf("class field %q of %q has non-nilable type %s and no initializer",
				ctx.name(item.Field.Name), ctx.name(item.Owner.Name),
				ctx.Types.TypeString(item.Field.Type)))
	}
	return count
}

// ResolveDeclarations binds explicit type annotations and infers the rest
// for every instance field, class field and global variable, unifying the
// shallow types of all direct assignments observed across the program.
// Method signatures (parameter and return annotations) resolve here too,
// so later passes can rely on full signatures.
func ResolveDeclarations(ctx *Context) *Pending {
	r := resolver{
		ctx:     ctx,
		fields:  make(map[*types.FieldDecl][]assignRec),
		globals: make(map[*types.Global][]assignRec),
	}

	r.resolveSignatures()
	r.bindAnnotations()
	r.scanAssignments()
	r.inferDeclarations()
	return r.pendingInits()
}

type assignRec struct {
	span source.Span // the assigned value, where conflicts are reported
	typ  types.TypeID
}

type resolver struct {
	ctx     *Context
	fields  map[*types.FieldDecl][]assignRec
	globals map[*types.Global][]assignRec
}

// declScope is the lexical context of one scanned body.
type declScope struct {
	method    *types.Method
	selfEntry *types.Entry
}

// resolveTypeExpr resolves a syntactic annotation to an interned type,
// reporting UnresolvedType for unknown names.
func (r *resolver) resolveTypeExpr(id ast.TypeExprID) types.TypeID {
	te := r.ctx.Builder.TypeExprs.Get(id)
	if te == nil {
		return types.NoTypeID
	}
	entry, ok := r.ctx.Types.Lookup(te.Name)
	if !ok {
		r.ctx.errorf(diag.SemaUnresolvedType, te.Span,
			fmt.Sprintf("unknown type %q", r.ctx.name(te.Name)))
		return types.NoTypeID
	}
	typ := r.ctx.Types.EntryType(entry.ID)
	if te.Nilable {
		typ = r.ctx.Types.Nilable(typ)
	}
	return typ
}

func (r *resolver) resolveSignatures() {
	resolve := func(m *types.Method) {
		for i := range m.Params {
			if m.Params[i].TypeExpr != ast.NoTypeExprID {
				m.Params[i].Type = r.resolveTypeExpr(m.Params[i].TypeExpr)
			}
		}
		if m.RetExpr != ast.NoTypeExprID {
			m.ReturnType = r.resolveTypeExpr(m.RetExpr)
		}
	}
	for _, entry := range r.ctx.Types.Entries() {
		for _, m := range entry.Methods {
			resolve(m)
		}
	}
	for _, m := range r.ctx.Types.Free {
		resolve(m)
	}
}

func (r *resolver) bindAnnotations() {
	for _, entry := range r.ctx.Types.Entries() {
		for _, f := range entry.InstanceFields {
			if f.TypeExpr != ast.NoTypeExprID {
				f.Type = r.resolveTypeExpr(f.TypeExpr)
			}
		}
		for _, f := range entry.ClassFields {
			if f.TypeExpr != ast.NoTypeExprID {
				f.Type = r.resolveTypeExpr(f.TypeExpr)
			}
		}
	}
	for _, g := range r.ctx.Types.Globals() {
		if g.TypeExpr != ast.NoTypeExprID {
			g.Type = r.resolveTypeExpr(g.TypeExpr)
		}
	}
}

// scanAssignments walks every method body and top-level statement once,
// recording the shallow type of each direct assignment to a field or
// global.
func (r *resolver) scanAssignments() {
	for _, entry := range r.ctx.Types.Entries() {
		for _, m := range entry.Methods {
			if !m.HasBody {
				continue
			}
			sc := &declScope{method: m, selfEntry: entry}
			r.scanStmts(m.Body, sc)
		}
	}
	for _, m := range r.ctx.Types.Free {
		if m.HasBody {
			r.scanStmts(m.Body, &declScope{method: m})
		}
	}
	for _, fileID := range r.ctx.Files {
		file := r.ctx.Builder.Files.Get(fileID)
		if file != nil {
			r.scanStmts(file.Stmts, &declScope{})
		}
	}
}

func (r *resolver) scanStmts(stmts []ast.StmtID, sc *declScope) {
	for _, stmtID := range stmts {
		stmt := r.ctx.Builder.Stmts.Get(stmtID)
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.StmtAssign:
			assign := r.ctx.Builder.Stmts.Assign(stmtID)
			r.recordAssign(assign.Target, assign.Value, sc)
		case ast.StmtIf:
			node := r.ctx.Builder.Stmts.If(stmtID)
			r.scanStmts(node.Then, sc)
			r.scanStmts(node.Else, sc)
		case ast.StmtWhile:
			node := r.ctx.Builder.Stmts.While(stmtID)
			r.scanStmts(node.Body, sc)
		case ast.StmtExpr, ast.StmtReturn, ast.StmtInvalid:
			// no declarations inside
		}
	}
}

func (r *resolver) exprSpan(id ast.ExprID) source.Span {
	if node := r.ctx.Builder.Exprs.Get(id); node != nil {
		return node.Span
	}
	return source.Span{}
}

func (r *resolver) recordAssign(target, value ast.ExprID, sc *declScope) {
	node := r.ctx.Builder.Exprs.Get(target)
	if node == nil {
		return
	}
	rec := assignRec{span: r.exprSpan(value), typ: r.shallowType(value, sc)}

	switch node.Kind {
	case ast.ExprFieldAccess:
		access := r.ctx.Builder.Exprs.FieldAccess(target)
		if field := r.fieldForWrite(access, node.Span, sc); field != nil {
			r.fields[field] = append(r.fields[field], rec)
		}
	case ast.ExprIdent:
		ident := r.ctx.Builder.Exprs.Ident(target)
		if g, ok := r.ctx.Types.Global(ident.Name); ok {
			r.globals[g] = append(r.globals[g], rec)
		}
		// otherwise a local: body analysis handles it
	default:
	}
}

// fieldForWrite resolves an assignment target to its field declaration.
// Writing through self (explicit or implicit) to a name no declaration
// covers declares the field on the spot: the language has no separate
// field-declaration requirement inside constructors, the first write is
// the declaration.
func (r *resolver) fieldForWrite(access *ast.FieldAccessExpr, span source.Span, sc *declScope) *types.FieldDecl {
	if field := r.fieldForAccess(access, sc); field != nil {
		return field
	}
	if sc.selfEntry == nil || !selfReceiver(r.ctx, access.Recv) {
		return nil
	}
	field := &types.FieldDecl{
		Owner: sc.selfEntry.ID,
		Name:  access.Name,
		Decl:  span,
	}
	if sc.method != nil && sc.method.ClassLevel {
		field.Scope = ast.FieldClass
		sc.selfEntry.ClassFields = append(sc.selfEntry.ClassFields, field)
	} else {
		sc.selfEntry.InstanceFields = append(sc.selfEntry.InstanceFields, field)
	}
	return field
}

func selfReceiver(ctx *Context, recv ast.ExprID) bool {
	if recv == ast.NoExprID {
		return true
	}
	node := ctx.Builder.Exprs.Get(recv)
	return node != nil && node.Kind == ast.ExprSelf
}

// fieldForAccess classifies an assignment target as an instance field,
// class field, or neither.
func (r *resolver) fieldForAccess(access *ast.FieldAccessExpr, sc *declScope) *types.FieldDecl {
	if access == nil {
		return nil
	}

	// Explicit receiver naming a type: class field.
	if access.Recv != ast.NoExprID {
		recv := r.ctx.Builder.Exprs.Get(access.Recv)
		if recv != nil && recv.Kind == ast.ExprIdent {
			ident := r.ctx.Builder.Exprs.Ident(access.Recv)
			if entry, ok := r.ctx.Types.Lookup(ident.Name); ok {
				return r.ctx.Types.LookupClassField(entry.ID, access.Name)
			}
		}
		if recv == nil || recv.Kind != ast.ExprSelf {
			return nil
		}
	}

	// Implicit or self receiver.
	if sc.selfEntry == nil {
		return nil
	}
	if sc.method != nil && sc.method.ClassLevel {
		return r.ctx.Types.LookupClassField(sc.selfEntry.ID, access.Name)
	}
	return r.ctx.Types.LookupInstanceField(sc.selfEntry.ID, access.Name)
}

// shallowType types an expression using declaration-level knowledge only:
// literals, constructor calls, annotated parameters and already-bound
// declarations. Anything deeper is left for body analysis and contributes
// nothing to inference.
func (r *resolver) shallowType(id ast.ExprID, sc *declScope) types.TypeID {
	node := r.ctx.Builder.Exprs.Get(id)
	if node == nil {
		return types.NoTypeID
	}
	builtins := r.ctx.Types.Builtins()

	switch node.Kind {
	case ast.ExprLitInt:
		return builtins.Int32
	case ast.ExprLitFloat:
		return builtins.Float64
	case ast.ExprLitString:
		return builtins.String
	case ast.ExprLitTrue, ast.ExprLitFalse:
		return builtins.Bool
	case ast.ExprLitNil:
		return builtins.Nil

	case ast.ExprSelf:
		if sc.selfEntry != nil {
			return r.ctx.Types.EntryType(sc.selfEntry.ID)
		}
		return types.NoTypeID

	case ast.ExprIdent:
		ident := r.ctx.Builder.Exprs.Ident(id)
		if sc.method != nil {
			for i := range sc.method.Params {
				if sc.method.Params[i].Name == ident.Name {
					return sc.method.Params[i].Type
				}
			}
		}
		if g, ok := r.ctx.Types.Global(ident.Name); ok {
			return g.Type
		}
		return types.NoTypeID

	case ast.ExprFieldAccess:
		access := r.ctx.Builder.Exprs.FieldAccess(id)
		if field := r.fieldForAccess(access, sc); field != nil {
			return field.Type
		}
		return types.NoTypeID

	case ast.ExprCall:
		call := r.ctx.Builder.Exprs.Call(id)
		if call.Name != r.ctx.ctorNames.newName || call.Recv == ast.NoExprID {
			return types.NoTypeID
		}
		recv := r.ctx.Builder.Exprs.Get(call.Recv)
		if recv == nil || recv.Kind != ast.ExprIdent {
			return types.NoTypeID
		}
		ident := r.ctx.Builder.Exprs.Ident(call.Recv)
		if entry, ok := r.ctx.Types.Lookup(ident.Name); ok {
			return r.ctx.Types.EntryType(entry.ID)
		}
		return types.NoTypeID

	case ast.ExprUnary:
		unary := r.ctx.Builder.Exprs.Unary(id)
		operand := r.shallowType(unary.X, sc)
		if unary.Op == ast.UnNot {
			return builtins.Bool
		}
		return operand

	case ast.ExprBinary:
		binary := r.ctx.Builder.Exprs.Binary(id)
		switch binary.Op {
		case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe, ast.BinAnd, ast.BinOr:
			return builtins.Bool
		default:
			left := r.shallowType(binary.Left, sc)
			if left != types.NoTypeID && left == r.shallowType(binary.Rite, sc) {
				return left
			}
			return types.NoTypeID
		}

	default:
		return types.NoTypeID
	}
}

func (r *resolver) inferDeclarations() {
	for _, entry := range r.ctx.Types.Entries() {
		if entry.Builtin {
			continue
		}
		for _, f := range entry.InstanceFields {
			r.inferField(entry, f)
		}
		for _, f := range entry.ClassFields {
			r.inferField(entry, f)
		}
	}
	for _, g := range r.ctx.Types.Globals() {
		r.inferGlobal(g)
	}
}

func (r *resolver) inferField(entry *types.Entry, f *types.FieldDecl) {
	if f.Type == types.NoTypeID && f.TypeExpr == ast.NoTypeExprID {
		var recs []assignRec
		if f.HasInit {
			// The initializer runs at declaration, so it folds first and
			// later assignments carry the blame for conflicts.
			recs = append(recs, assignRec{span: r.exprSpan(f.Init), typ: r.shallowType(f.Init, &declScope{selfEntry: entry})})
		}
		recs = append(recs, r.fields[f]...)
		f.Type = r.unifyRecs(recs, f.Decl, "field", r.ctx.name(f.Name))
	}
	f.Nilable = r.ctx.Types.IsNilable(f.Type)
}

func (r *resolver) inferGlobal(g *types.Global) {
	if g.Type == types.NoTypeID && g.TypeExpr == ast.NoTypeExprID {
		var recs []assignRec
		if g.HasInit {
			recs = append(recs, assignRec{span: r.exprSpan(g.Init), typ: r.shallowType(g.Init, &declScope{})})
		}
		recs = append(recs, r.globals[g]...)
		g.Type = r.unifyRecs(recs, g.Decl, "global variable", r.ctx.name(g.Name))
	}
	g.Nilable = r.ctx.Types.IsNilable(g.Type)
}

// unifyRecs folds the observed assignment types into one declaration
// type. Conflicts are reported at the assignment that broke unification,
// not at the declaration.
func (r *resolver) unifyRecs(recs []assignRec, span source.Span, what, name string) types.TypeID {
	result := types.NoTypeID
	sawTyped := false
	for _, rec := range recs {
		if rec.typ == types.NoTypeID {
			continue
		}
		if !sawTyped {
			result = rec.typ
			sawTyped = true
			continue
		}
		unified, ok := r.ctx.Types.Unify(result, rec.typ)
		if !ok {
			at := rec.span
			if at.Empty() {
				at = span
			}
			r.ctx.errorf(diag.SemaTypeMismatch, at,
				fmt.Sprintf("%s %q assigned both %s and %s", what, name,
					r.ctx.Types.TypeString(result), r.ctx.Types.TypeString(rec.typ)))
			return types.NoTypeID
		}
		result = unified
	}
	if !sawTyped {
		r.ctx.errorf(diag.SemaUnresolvedType, span,
			fmt.Sprintf("%s %q has no type annotation and no inferable assignment", what, name))
		return types.NoTypeID
	}
	return result
}

func (r *resolver) pendingInits() *Pending {
	p := &Pending{}
	for _, entry := range r.ctx.Types.Entries() {
		if entry.Builtin {
			continue
		}
		for _, f := range entry.ClassFields {
			if !f.HasInit {
				p.items = append(p.items, PendingInit{Owner: entry, Field: f})
			}
		}
	}
	return p
}
