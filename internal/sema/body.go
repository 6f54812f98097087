package sema

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/types"
)

// AnalyzeBodies is the "main" pass: full type-checking and inference over
// every method body and top-level statement. It attaches a resolved type
// to every expression it visits and records resolved call targets. It is
// the only pass allowed to report general type errors inside bodies;
// errors are batched per occurrence so sibling methods still get checked.
//
// It assumes the context has all declarations, constructors and field
// types resolved, and no missing-override errors remain.
func AnalyzeBodies(ctx *Context) {
	bc := newBodyChecker(ctx)

	for _, entry := range ctx.Types.Entries() {
		if entry.Builtin {
			continue
		}
		for _, m := range entry.Methods {
			bc.ensureAnalyzed(m)
		}
	}
	for _, m := range ctx.Types.Free {
		bc.ensureAnalyzed(m)
	}

	for _, fileID := range ctx.Files {
		file := ctx.Builder.Files.Get(fileID)
		if file == nil {
			continue
		}
		sc := newScope(nil, nil)
		bc.checkStmts(file.Stmts, sc)
	}
}

type methodState uint8

const (
	stNone methodState = iota
	stInProgress
	stDone
)

type bodyChecker struct {
	ctx    *Context
	states map[*types.Method]methodState
}

func newBodyChecker(ctx *Context) *bodyChecker {
	return &bodyChecker{ctx: ctx, states: ctx.bodyStates}
}

// scope is the lexical environment of one body.
type scope struct {
	method    *types.Method
	selfEntry *types.Entry
	locals    map[source.StringID]types.TypeID
	returns   []types.TypeID
}

func newScope(m *types.Method, selfEntry *types.Entry) *scope {
	return &scope{
		method:    m,
		selfEntry: selfEntry,
		locals:    make(map[source.StringID]types.TypeID),
	}
}

func (sc *scope) classLevel() bool {
	return sc.method != nil && sc.method.ClassLevel
}

// ensureAnalyzed checks the method body once and fixes its return type.
// Recursive calls see the in-progress marker and fall back to the declared
// annotation (or no type), which keeps the walk terminating.
func (bc *bodyChecker) ensureAnalyzed(m *types.Method) {
	if m == nil || m.Abstract || !m.HasBody {
		return
	}
	if bc.states[m] != stNone {
		return
	}
	bc.states[m] = stInProgress

	var selfEntry *types.Entry
	if m.Owner != types.NoEntryID {
		selfEntry = bc.ctx.Types.Get(m.Owner)
	}
	sc := newScope(m, selfEntry)
	bc.checkStmts(m.Body, sc)

	if m.ReturnType == types.NoTypeID {
		m.ReturnType = bc.foldReturns(sc.returns)
	}
	bc.states[m] = stDone
}

// foldReturns unifies the observed return types; a body without returns
// yields Nil.
func (bc *bodyChecker) foldReturns(returns []types.TypeID) types.TypeID {
	result := types.NoTypeID
	for _, rt := range returns {
		if rt == types.NoTypeID {
			continue
		}
		if result == types.NoTypeID {
			result = rt
			continue
		}
		if unified, ok := bc.ctx.Types.Unify(result, rt); ok {
			result = unified
		}
	}
	if result == types.NoTypeID {
		return bc.ctx.Types.Builtins().Nil
	}
	return result
}

// returnTypeOf resolves a callee's result type, analyzing the callee first
// when its return type is still being inferred.
func (bc *bodyChecker) returnTypeOf(m *types.Method) types.TypeID {
	if m.Synthesized && m.Name == bc.ctx.ctorNames.newName {
		return bc.ctx.Types.EntryType(m.Owner)
	}
	if m.ReturnType != types.NoTypeID {
		return m.ReturnType
	}
	if bc.states[m] == stInProgress {
		return types.NoTypeID
	}
	bc.ensureAnalyzed(m)
	return m.ReturnType
}

func (bc *bodyChecker) checkStmts(stmts []ast.StmtID, sc *scope) {
	for _, stmtID := range stmts {
		bc.checkStmt(stmtID, sc)
	}
}

func (bc *bodyChecker) checkStmt(stmtID ast.StmtID, sc *scope) {
	stmt := bc.ctx.Builder.Stmts.Get(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtExpr:
		node := bc.ctx.Builder.Stmts.Expr(stmtID)
		bc.typeExpr(node.Expr, sc)

	case ast.StmtAssign:
		// Merged field defaults were typed and validated by the merger;
		// rechecking would repeat the diagnostic.
		if bc.ctx.mergedDefaults[stmtID] {
			return
		}
		node := bc.ctx.Builder.Stmts.Assign(stmtID)
		bc.checkAssign(node, sc)

	case ast.StmtReturn:
		node := bc.ctx.Builder.Stmts.Return(stmtID)
		rt := bc.ctx.Types.Builtins().Nil
		if node.Value != ast.NoExprID {
			rt = bc.typeExpr(node.Value, sc)
		}
		sc.returns = append(sc.returns, rt)
		if sc.method != nil && sc.method.ReturnType != types.NoTypeID && rt != types.NoTypeID {
			if !bc.ctx.Types.AssignableTo(rt, sc.method.ReturnType) {
				bc.ctx.errorf(diag.SemaTypeMismatch, stmt.Span,
					fmt.Sprintf("cannot return %s from a method declared to return %s",
						bc.ctx.Types.TypeString(rt), bc.ctx.Types.TypeString(sc.method.ReturnType)))
			}
		}

	case ast.StmtIf:
		node := bc.ctx.Builder.Stmts.If(stmtID)
		bc.checkCondition(node.Cond, sc)
		bc.checkStmts(node.Then, sc)
		bc.checkStmts(node.Else, sc)

	case ast.StmtWhile:
		node := bc.ctx.Builder.Stmts.While(stmtID)
		bc.checkCondition(node.Cond, sc)
		bc.checkStmts(node.Body, sc)

	case ast.StmtInvalid:
	}
}

func (bc *bodyChecker) checkCondition(cond ast.ExprID, sc *scope) {
	ct := bc.typeExpr(cond, sc)
	builtins := bc.ctx.Types.Builtins()
	if ct == types.NoTypeID || ct == builtins.Bool {
		return
	}
	// A nilable value is a valid condition: nil tests as false.
	if bc.ctx.Types.IsNilable(ct) {
		return
	}
	node := bc.ctx.Builder.Exprs.Get(cond)
	bc.ctx.errorf(diag.SemaTypeMismatch, node.Span,
		fmt.Sprintf("condition must be Bool or nilable, got %s", bc.ctx.Types.TypeString(ct)))
}

func (bc *bodyChecker) checkAssign(node *ast.AssignStmt, sc *scope) {
	valueType := bc.typeExpr(node.Value, sc)
	target := bc.ctx.Builder.Exprs.Get(node.Target)
	if target == nil {
		return
	}

	switch target.Kind {
	case ast.ExprIdent:
		ident := bc.ctx.Builder.Exprs.Ident(node.Target)
		bc.assignIdent(node, target.Span, ident.Name, valueType, sc)

	case ast.ExprFieldAccess:
		access := bc.ctx.Builder.Exprs.FieldAccess(node.Target)
		field := bc.fieldTarget(access, target.Span, sc)
		if field == nil {
			return
		}
		bc.ctx.ExprTypes[node.Target] = field.Type
		if valueType != types.NoTypeID && field.Type != types.NoTypeID &&
			!bc.ctx.Types.AssignableTo(valueType, field.Type) {
			bc.ctx.errorf(diag.SemaTypeMismatch, target.Span,
				fmt.Sprintf("cannot assign %s to field %q of type %s",
					bc.ctx.Types.TypeString(valueType), bc.ctx.name(access.Name),
					bc.ctx.Types.TypeString(field.Type)))
		}

	default:
		bc.ctx.errorf(diag.SemaTypeMismatch, target.Span, "invalid assignment target")
	}
}

func (bc *bodyChecker) assignIdent(node *ast.AssignStmt, span source.Span, name source.StringID, valueType types.TypeID, sc *scope) {
	// Parameters are fixed by their declarations.
	if sc.method != nil {
		for i := range sc.method.Params {
			p := &sc.method.Params[i]
			if p.Name != name {
				continue
			}
			bc.ctx.ExprTypes[node.Target] = p.Type
			if valueType != types.NoTypeID && p.Type != types.NoTypeID &&
				!bc.ctx.Types.AssignableTo(valueType, p.Type) {
				bc.ctx.errorf(diag.SemaTypeMismatch, span,
					fmt.Sprintf("cannot assign %s to parameter %q of type %s",
						bc.ctx.Types.TypeString(valueType), bc.ctx.name(name),
						bc.ctx.Types.TypeString(p.Type)))
			}
			return
		}
	}

	if g, ok := bc.ctx.Types.Global(name); ok {
		bc.ctx.ExprTypes[node.Target] = g.Type
		if valueType != types.NoTypeID && g.Type != types.NoTypeID &&
			!bc.ctx.Types.AssignableTo(valueType, g.Type) {
			bc.ctx.errorf(diag.SemaTypeMismatch, span,
				fmt.Sprintf("cannot assign %s to global %q of type %s",
					bc.ctx.Types.TypeString(valueType), bc.ctx.name(name),
					bc.ctx.Types.TypeString(g.Type)))
		}
		return
	}

	// Locals: the first assignment declares, later ones may widen.
	if existing, ok := sc.locals[name]; ok {
		if valueType == types.NoTypeID || existing == types.NoTypeID {
			return
		}
		if bc.ctx.Types.AssignableTo(valueType, existing) {
			bc.ctx.ExprTypes[node.Target] = existing
			return
		}
		if unified, ok := bc.ctx.Types.Unify(existing, valueType); ok {
			sc.locals[name] = unified
			bc.ctx.ExprTypes[node.Target] = unified
			return
		}
		bc.ctx.errorf(diag.SemaTypeMismatch, span,
			fmt.Sprintf("local %q was %s, cannot also hold %s",
				bc.ctx.name(name), bc.ctx.Types.TypeString(existing),
				bc.ctx.Types.TypeString(valueType)))
		return
	}
	sc.locals[name] = valueType
	bc.ctx.ExprTypes[node.Target] = valueType
}

// fieldTarget resolves a field-access target to its declaration.
func (bc *bodyChecker) fieldTarget(access *ast.FieldAccessExpr, span source.Span, sc *scope) *types.FieldDecl {
	if access.Recv != ast.NoExprID {
		recv := bc.ctx.Builder.Exprs.Get(access.Recv)
		if recv != nil && recv.Kind == ast.ExprIdent {
			ident := bc.ctx.Builder.Exprs.Ident(access.Recv)
			if entry, ok := bc.ctx.Types.Lookup(ident.Name); ok {
				if f := bc.ctx.Types.LookupClassField(entry.ID, access.Name); f != nil {
					return f
				}
				bc.ctx.errorf(diag.SemaUnknownName, span,
					fmt.Sprintf("%q has no class field %q", bc.ctx.name(ident.Name), bc.ctx.name(access.Name)))
				return nil
			}
		}
		if recv == nil || recv.Kind != ast.ExprSelf {
			bc.ctx.errorf(diag.SemaTypeMismatch, span, "invalid assignment target")
			return nil
		}
	}

	if sc.selfEntry == nil {
		bc.ctx.errorf(diag.SemaUnknownName, span,
			fmt.Sprintf("field %q referenced outside a type body", bc.ctx.name(access.Name)))
		return nil
	}
	if sc.classLevel() {
		if f := bc.ctx.Types.LookupClassField(sc.selfEntry.ID, access.Name); f != nil {
			return f
		}
	} else if f := bc.ctx.Types.LookupInstanceField(sc.selfEntry.ID, access.Name); f != nil {
		return f
	}
	bc.ctx.errorf(diag.SemaUnknownName, span,
		fmt.Sprintf("%q has no field %q", bc.ctx.name(sc.selfEntry.Name), bc.ctx.name(access.Name)))
	return nil
}

// typeExpr types the expression, attaches the result to the node and
// returns it. NoTypeID flags an error already reported (or propagated).
func (bc *bodyChecker) typeExpr(id ast.ExprID, sc *scope) types.TypeID {
	t := bc.typeExprInner(id, sc)
	if id != ast.NoExprID {
		bc.ctx.ExprTypes[id] = t
	}
	return t
}

func (bc *bodyChecker) typeExprInner(id ast.ExprID, sc *scope) types.TypeID {
	node := bc.ctx.Builder.Exprs.Get(id)
	if node == nil {
		return types.NoTypeID
	}
	builtins := bc.ctx.Types.Builtins()

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
		if sc.selfEntry == nil {
			bc.ctx.errorf(diag.SemaUnknownName, node.Span, "self referenced outside a type body")
			return types.NoTypeID
		}
		return bc.ctx.Types.EntryType(sc.selfEntry.ID)

	case ast.ExprIdent:
		ident := bc.ctx.Builder.Exprs.Ident(id)
		if t, ok := sc.locals[ident.Name]; ok {
			return t
		}
		if sc.method != nil {
			for i := range sc.method.Params {
				if sc.method.Params[i].Name == ident.Name {
					return sc.method.Params[i].Type
				}
			}
		}
		if g, ok := bc.ctx.Types.Global(ident.Name); ok {
			return g.Type
		}
		if _, ok := bc.ctx.Types.Lookup(ident.Name); ok {
			bc.ctx.errorf(diag.SemaTypeMismatch, node.Span,
				fmt.Sprintf("type %q used as a value", bc.ctx.name(ident.Name)))
			return types.NoTypeID
		}
		bc.ctx.errorf(diag.SemaUnknownName, node.Span,
			fmt.Sprintf("unknown name %q", bc.ctx.name(ident.Name)))
		return types.NoTypeID

	case ast.ExprFieldAccess:
		return bc.typeFieldAccess(id, node.Span, sc)

	case ast.ExprCall:
		return bc.typeCall(id, node.Span, sc)

	case ast.ExprBinary:
		return bc.typeBinary(id, node.Span, sc)

	case ast.ExprUnary:
		unary := bc.ctx.Builder.Exprs.Unary(id)
		operand := bc.typeExpr(unary.X, sc)
		if operand == types.NoTypeID {
			return types.NoTypeID
		}
		switch unary.Op {
		case ast.UnNot:
			if operand != builtins.Bool && !bc.ctx.Types.IsNilable(operand) {
				bc.ctx.errorf(diag.SemaTypeMismatch, node.Span,
					fmt.Sprintf("operator ! requires Bool, got %s", bc.ctx.Types.TypeString(operand)))
			}
			return builtins.Bool
		default: // UnNeg
			if !bc.isNumeric(operand) {
				bc.ctx.errorf(diag.SemaTypeMismatch, node.Span,
					fmt.Sprintf("operator - requires a numeric type, got %s", bc.ctx.Types.TypeString(operand)))
				return types.NoTypeID
			}
			return operand
		}

	default:
		return types.NoTypeID
	}
}

func (bc *bodyChecker) isNumeric(t types.TypeID) bool {
	b := bc.ctx.Types.Builtins()
	return t == b.Int32 || t == b.Int64 || t == b.Float64
}

func (bc *bodyChecker) typeFieldAccess(id ast.ExprID, span source.Span, sc *scope) types.TypeID {
	access := bc.ctx.Builder.Exprs.FieldAccess(id)

	if access.Recv != ast.NoExprID {
		recv := bc.ctx.Builder.Exprs.Get(access.Recv)
		// A type name as receiver reads a class field.
		if recv != nil && recv.Kind == ast.ExprIdent {
			ident := bc.ctx.Builder.Exprs.Ident(access.Recv)
			if entry, ok := bc.ctx.Types.Lookup(ident.Name); ok {
				if f := bc.ctx.Types.LookupClassField(entry.ID, access.Name); f != nil {
					return f.Type
				}
				bc.ctx.errorf(diag.SemaUnknownName, span,
					fmt.Sprintf("%q has no class field %q", bc.ctx.name(ident.Name), bc.ctx.name(access.Name)))
				return types.NoTypeID
			}
		}
		if recv != nil && recv.Kind != ast.ExprSelf {
			recvType := bc.typeExpr(access.Recv, sc)
			if recvType == types.NoTypeID {
				return types.NoTypeID
			}
			if bc.ctx.Types.IsNilable(recvType) {
				bc.ctx.errorf(diag.SemaTypeMismatch, span,
					fmt.Sprintf("receiver of field %q may be nil (%s)",
						bc.ctx.name(access.Name), bc.ctx.Types.TypeString(recvType)))
				return types.NoTypeID
			}
			entry := bc.ctx.Types.EntryOf(recvType)
			if entry == nil {
				return types.NoTypeID
			}
			if f := bc.ctx.Types.LookupInstanceField(entry.ID, access.Name); f != nil {
				return f.Type
			}
			bc.ctx.errorf(diag.SemaUnknownName, span,
				fmt.Sprintf("%q has no field %q", bc.ctx.name(entry.Name), bc.ctx.name(access.Name)))
			return types.NoTypeID
		}
	}

	if f := bc.fieldTarget(access, span, sc); f != nil {
		return f.Type
	}
	return types.NoTypeID
}

func (bc *bodyChecker) typeCall(id ast.ExprID, span source.Span, sc *scope) types.TypeID {
	call := bc.ctx.Builder.Exprs.Call(id)

	argTypes := make([]types.TypeID, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = bc.typeExpr(arg, sc)
	}

	// Static receiver: Type.method(...), including constructors.
	if call.Recv != ast.NoExprID {
		recv := bc.ctx.Builder.Exprs.Get(call.Recv)
		if recv != nil && recv.Kind == ast.ExprIdent {
			ident := bc.ctx.Builder.Exprs.Ident(call.Recv)
			if entry, ok := bc.ctx.Types.Lookup(ident.Name); ok {
				return bc.typeStaticCall(id, span, entry, call, argTypes)
			}
		}

		recvType := bc.typeExpr(call.Recv, sc)
		if recvType == types.NoTypeID {
			return types.NoTypeID
		}
		if bc.ctx.Types.IsNilable(recvType) {
			bc.ctx.errorf(diag.SemaTypeMismatch, span,
				fmt.Sprintf("receiver of %q may be nil (%s)",
					bc.ctx.name(call.Name), bc.ctx.Types.TypeString(recvType)))
			return types.NoTypeID
		}
		entry := bc.ctx.Types.EntryOf(recvType)
		if entry == nil {
			return types.NoTypeID
		}
		candidates := bc.ctx.Types.LookupMethods(entry.ID, call.Name, false)
		return bc.dispatch(id, span, entry, call, candidates, argTypes)
	}

	// No receiver: self methods, then free functions, then macros.
	if sc.selfEntry != nil {
		candidates := bc.ctx.Types.LookupMethods(sc.selfEntry.ID, call.Name, sc.classLevel())
		if len(candidates) > 0 {
			return bc.dispatch(id, span, sc.selfEntry, call, candidates, argTypes)
		}
	}
	var free []*types.Method
	for _, m := range bc.ctx.Types.Free {
		if m.Name == call.Name {
			free = append(free, m)
		}
	}
	if len(free) > 0 {
		return bc.dispatch(id, span, nil, call, free, argTypes)
	}
	if macro, ok := bc.ctx.Types.Macro(call.Name); ok {
		if macro.Arity != len(call.Args) {
			bc.ctx.errorf(diag.SemaNoOverload, span,
				fmt.Sprintf("macro %q expects %d arguments, got %d",
					bc.ctx.name(call.Name), macro.Arity, len(call.Args)))
		}
		return bc.ctx.Types.Builtins().Nil
	}
	bc.ctx.errorf(diag.SemaUnknownName, span,
		fmt.Sprintf("unknown method %q", bc.ctx.name(call.Name)))
	return types.NoTypeID
}

func (bc *bodyChecker) typeStaticCall(id ast.ExprID, span source.Span, entry *types.Entry, call *ast.CallExpr, argTypes []types.TypeID) types.TypeID {
	if call.Name == bc.ctx.ctorNames.newName && entry.Abstract {
		bc.ctx.errorf(diag.SemaTypeMismatch, span,
			fmt.Sprintf("cannot instantiate abstract %s %q", entry.Kind, bc.ctx.name(entry.Name)))
		return bc.ctx.Types.EntryType(entry.ID)
	}
	candidates := bc.ctx.Types.LookupMethods(entry.ID, call.Name, true)
	return bc.dispatch(id, span, entry, call, candidates, argTypes)
}

// dispatch selects the nearest overload whose parameters accept the
// argument types, records the target and returns its result type.
func (bc *bodyChecker) dispatch(id ast.ExprID, span source.Span, entry *types.Entry, call *ast.CallExpr, candidates []*types.Method, argTypes []types.TypeID) types.TypeID {
	if len(candidates) == 0 {
		where := ""
		if entry != nil {
			where = fmt.Sprintf(" for %q", bc.ctx.name(entry.Name))
		}
		bc.ctx.errorf(diag.SemaUnknownName, span,
			fmt.Sprintf("unknown method %q%s", bc.ctx.name(call.Name), where))
		return types.NoTypeID
	}

	for _, m := range candidates {
		if m.Arity() != len(argTypes) || !bc.argsMatch(m, argTypes) {
			continue
		}
		bc.ctx.CallTargets[id] = m
		return bc.returnTypeOf(m)
	}

	bc.ctx.errorf(diag.SemaNoOverload, span,
		fmt.Sprintf("no overload of %q matches (%s)",
			bc.ctx.name(call.Name), bc.typeListString(argTypes)),
		diag.Note{Span: candidates[0].Decl, Msg: "candidate declared here"})
	return types.NoTypeID
}

func (bc *bodyChecker) argsMatch(m *types.Method, argTypes []types.TypeID) bool {
	for i, at := range argTypes {
		pt := m.Params[i].Type
		if at == types.NoTypeID || pt == types.NoTypeID {
			continue
		}
		if !bc.ctx.Types.AssignableTo(at, pt) {
			return false
		}
	}
	return true
}

func (bc *bodyChecker) typeListString(ts []types.TypeID) string {
	out := ""
	for i, t := range ts {
		if i > 0 {
			out += ", "
		}
		out += bc.ctx.Types.TypeString(t)
	}
	return out
}

func (bc *bodyChecker) typeBinary(id ast.ExprID, span source.Span, sc *scope) types.TypeID {
	binary := bc.ctx.Builder.Exprs.Binary(id)
	left := bc.typeExpr(binary.Left, sc)
	rite := bc.typeExpr(binary.Rite, sc)
	builtins := bc.ctx.Types.Builtins()
	if left == types.NoTypeID || rite == types.NoTypeID {
		if isBoolOp(binary.Op) {
			return builtins.Bool
		}
		return types.NoTypeID
	}

	switch binary.Op {
	case ast.BinAdd:
		if left == builtins.String && rite == builtins.String {
			return builtins.String
		}
		fallthrough
	case ast.BinSub, ast.BinMul, ast.BinDiv:
		if bc.isNumeric(left) && left == rite {
			return left
		}
		bc.ctx.errorf(diag.SemaTypeMismatch, span,
			fmt.Sprintf("operator %s not defined between %s and %s",
				binaryOpString(binary.Op), bc.ctx.Types.TypeString(left), bc.ctx.Types.TypeString(rite)))
		return types.NoTypeID

	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		if !(bc.isNumeric(left) && left == rite) {
			bc.ctx.errorf(diag.SemaTypeMismatch, span,
				fmt.Sprintf("operator %s not defined between %s and %s",
					binaryOpString(binary.Op), bc.ctx.Types.TypeString(left), bc.ctx.Types.TypeString(rite)))
		}
		return builtins.Bool

	case ast.BinEq, ast.BinNe:
		if _, ok := bc.ctx.Types.Unify(left, rite); !ok {
			bc.ctx.errorf(diag.SemaTypeMismatch, span,
				fmt.Sprintf("cannot compare %s with %s",
					bc.ctx.Types.TypeString(left), bc.ctx.Types.TypeString(rite)))
		}
		return builtins.Bool

	case ast.BinAnd, ast.BinOr:
		for _, t := range []types.TypeID{left, rite} {
			if t != builtins.Bool && !bc.ctx.Types.IsNilable(t) {
				bc.ctx.errorf(diag.SemaTypeMismatch, span,
					fmt.Sprintf("operator %s requires Bool operands, got %s",
						binaryOpString(binary.Op), bc.ctx.Types.TypeString(t)))
			}
		}
		return builtins.Bool
	}
	return types.NoTypeID
}

func isBoolOp(op ast.BinaryOp) bool {
	switch op {
	case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe, ast.BinAnd, ast.BinOr:
		return true
	}
	return false
}

func binaryOpString(op ast.BinaryOp) string {
	switch op {
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinEq:
		return "=="
	case ast.BinNe:
		return "!="
	case ast.BinLt:
		return "<"
	case ast.BinLe:
		return "<="
	case ast.BinGt:
		return ">"
	case ast.BinGe:
		return ">="
	case ast.BinAnd:
		return "&&"
	case ast.BinOr:
		return "||"
	}
	return "?"
}
