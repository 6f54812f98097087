package driver

import (
	"encoding/json"
	"fmt"

	"keel/internal/ast"
	"keel/internal/source"
)

// treeSchemaVersion is the accepted syntax-tree export format. The front
// end bumps it on every incompatible change.
const treeSchemaVersion = 1

// The external front end lexes and parses keel source and exports the
// tree as JSON. Ingest decodes one export into a Builder. Spans in the
// export are byte offsets into the original source text, which the
// export carries along so diagnostics can render real lines.

type treeFile struct {
	Schema int        `json:"schema"`
	Source string     `json:"source"`
	Text   string     `json:"text"`
	Items  []treeItem `json:"items"`
	Stmts  []treeStmt `json:"stmts"`
}

type treeSpan struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

type treeType struct {
	Name    string   `json:"name"`
	Nilable bool     `json:"nilable,omitempty"`
	Span    treeSpan `json:"span"`
}

type treeParam struct {
	Name string    `json:"name"`
	Type *treeType `json:"type,omitempty"`
	Span treeSpan  `json:"span"`
}

type treeItem struct {
	Kind string   `json:"kind"`
	Name string   `json:"name"`
	Span treeSpan `json:"span"`

	// class / value / module
	Super    string     `json:"super,omitempty"`
	Abstract bool       `json:"abstract,omitempty"`
	Members  []treeItem `json:"members,omitempty"`

	// method / macro
	Params     []treeParam `json:"params,omitempty"`
	Return     *treeType   `json:"return,omitempty"`
	ClassLevel bool        `json:"class_level,omitempty"`
	Body       []treeStmt  `json:"body,omitempty"`

	// field / global
	Scope string    `json:"scope,omitempty"`
	Type  *treeType `json:"type,omitempty"`
	Init  *treeExpr `json:"init,omitempty"`
}

type treeStmt struct {
	Kind string   `json:"kind"`
	Span treeSpan `json:"span"`

	Expr   *treeExpr  `json:"expr,omitempty"`
	Target *treeExpr  `json:"target,omitempty"`
	Value  *treeExpr  `json:"value,omitempty"`
	Cond   *treeExpr  `json:"cond,omitempty"`
	Then   []treeStmt `json:"then,omitempty"`
	Else   []treeStmt `json:"else,omitempty"`
	Body   []treeStmt `json:"body,omitempty"`
}

type treeExpr struct {
	Kind string   `json:"kind"`
	Span treeSpan `json:"span"`

	Value string     `json:"value,omitempty"` // literal text
	Name  string     `json:"name,omitempty"`
	Recv  *treeExpr  `json:"recv,omitempty"`
	Args  []treeExpr `json:"args,omitempty"`
	Op    string     `json:"op,omitempty"`
	Left  *treeExpr  `json:"left,omitempty"`
	Right *treeExpr  `json:"right,omitempty"`
	X     *treeExpr  `json:"x,omitempty"`
}

// IngestError describes a malformed export; Schema distinguishes a
// version mismatch from plain decode failures.
type IngestError struct {
	Path   string
	Schema bool
	Err    error
}

func (e *IngestError) Error() string {
	if e.Schema {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: decode failed: %v", e.Path, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// Ingest decodes one tree export into the builder. The original source
// text is registered with the file set so spans resolve; the returned
// ast.FileID roots the decoded file.
func Ingest(builder *ast.Builder, fileSet *source.FileSet, path string, data []byte) (ast.FileID, error) {
	var tree treeFile
	if err := json.Unmarshal(data, &tree); err != nil {
		return ast.NoFileID, &IngestError{Path: path, Err: err}
	}
	if tree.Schema != treeSchemaVersion {
		return ast.NoFileID, &IngestError{
			Path:   path,
			Schema: true,
			Err:    fmt.Errorf("tree schema %d, this build reads %d", tree.Schema, treeSchemaVersion),
		}
	}

	sourceName := tree.Source
	if sourceName == "" {
		sourceName = path
	}
	srcID := fileSet.AddVirtual(sourceName, []byte(tree.Text))

	in := ingester{builder: builder, file: srcID}
	fileID := builder.Files.New(source.Span{File: srcID})
	for i := range tree.Items {
		item, err := in.item(&tree.Items[i])
		if err != nil {
			return ast.NoFileID, &IngestError{Path: path, Err: err}
		}
		builder.PushItem(fileID, item)
	}
	stmts, err := in.stmts(tree.Stmts)
	if err != nil {
		return ast.NoFileID, &IngestError{Path: path, Err: err}
	}
	for _, stmt := range stmts {
		builder.PushStmt(fileID, stmt)
	}
	return fileID, nil
}

type ingester struct {
	builder *ast.Builder
	file    source.FileID
}

func (in *ingester) span(s treeSpan) source.Span {
	return source.Span{File: in.file, Start: s.Start, End: s.End}
}

func (in *ingester) typeExpr(t *treeType) ast.TypeExprID {
	if t == nil {
		return ast.NoTypeExprID
	}
	return in.builder.TypeExprs.New(in.span(t.Span), in.builder.Intern(t.Name), t.Nilable)
}

func (in *ingester) params(params []treeParam) []ast.ParamID {
	out := make([]ast.ParamID, 0, len(params))
	for i := range params {
		p := &params[i]
		out = append(out, in.builder.Items.NewParam(in.span(p.Span), in.builder.Intern(p.Name), in.typeExpr(p.Type)))
	}
	return out
}

func (in *ingester) item(t *treeItem) (ast.ItemID, error) {
	switch t.Kind {
	case "class", "value", "module":
		return in.classItem(t)

	case "method":
		body, err := in.stmts(t.Body)
		if err != nil {
			return ast.NoItemID, err
		}
		return in.builder.Items.NewMethod(in.span(t.Span), ast.MethodItem{
			Name:       in.builder.Intern(t.Name),
			Params:     in.params(t.Params),
			ReturnType: in.typeExpr(t.Return),
			ClassLevel: t.ClassLevel,
			Abstract:   t.Abstract,
			HasBody:    !t.Abstract,
			Body:       body,
		}), nil

	case "field":
		init, err := in.optExpr(t.Init)
		if err != nil {
			return ast.NoItemID, err
		}
		scope := ast.FieldInstance
		if t.Scope == "class" {
			scope = ast.FieldClass
		}
		return in.builder.Items.NewField(in.span(t.Span), ast.FieldItem{
			Scope: scope,
			Name:  in.builder.Intern(t.Name),
			Type:  in.typeExpr(t.Type),
			Init:  init,
		}), nil

	case "global":
		init, err := in.optExpr(t.Init)
		if err != nil {
			return ast.NoItemID, err
		}
		return in.builder.Items.NewGlobal(in.span(t.Span), ast.GlobalItem{
			Name: in.builder.Intern(t.Name),
			Type: in.typeExpr(t.Type),
			Init: init,
		}), nil

	case "macro":
		return in.builder.Items.NewMacro(in.span(t.Span), ast.MacroItem{
			Name:   in.builder.Intern(t.Name),
			Params: in.params(t.Params),
		}), nil

	default:
		return ast.NoItemID, fmt.Errorf("unknown item kind %q", t.Kind)
	}
}

func (in *ingester) classItem(t *treeItem) (ast.ItemID, error) {
	kind := ast.ClassClass
	switch t.Kind {
	case "value":
		kind = ast.ClassValue
	case "module":
		kind = ast.ClassModule
	}
	members := make([]ast.ItemID, 0, len(t.Members))
	for i := range t.Members {
		member, err := in.item(&t.Members[i])
		if err != nil {
			return ast.NoItemID, err
		}
		members = append(members, member)
	}
	super := source.NoStringID
	if t.Super != "" {
		super = in.builder.Intern(t.Super)
	}
	return in.builder.Items.NewClass(in.span(t.Span), ast.ClassItem{
		Name:     in.builder.Intern(t.Name),
		Kind:     kind,
		Super:    super,
		Abstract: t.Abstract,
		Members:  members,
	}), nil
}

func (in *ingester) stmts(ts []treeStmt) ([]ast.StmtID, error) {
	out := make([]ast.StmtID, 0, len(ts))
	for i := range ts {
		stmt, err := in.stmt(&ts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (in *ingester) stmt(t *treeStmt) (ast.StmtID, error) {
	switch t.Kind {
	case "expr":
		expr, err := in.expr(t.Expr)
		if err != nil {
			return ast.NoStmtID, err
		}
		return in.builder.Stmts.NewExpr(in.span(t.Span), expr), nil

	case "assign":
		target, err := in.expr(t.Target)
		if err != nil {
			return ast.NoStmtID, err
		}
		value, err := in.expr(t.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		return in.builder.Stmts.NewAssign(in.span(t.Span), target, value), nil

	case "return":
		value, err := in.optExpr(t.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		return in.builder.Stmts.NewReturn(in.span(t.Span), value), nil

	case "if":
		cond, err := in.expr(t.Cond)
		if err != nil {
			return ast.NoStmtID, err
		}
		then, err := in.stmts(t.Then)
		if err != nil {
			return ast.NoStmtID, err
		}
		els, err := in.stmts(t.Else)
		if err != nil {
			return ast.NoStmtID, err
		}
		return in.builder.Stmts.NewIf(in.span(t.Span), cond, then, els), nil

	case "while":
		cond, err := in.expr(t.Cond)
		if err != nil {
			return ast.NoStmtID, err
		}
		body, err := in.stmts(t.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		return in.builder.Stmts.NewWhile(in.span(t.Span), cond, body), nil

	default:
		return ast.NoStmtID, fmt.Errorf("unknown statement kind %q", t.Kind)
	}
}

func (in *ingester) optExpr(t *treeExpr) (ast.ExprID, error) {
	if t == nil {
		return ast.NoExprID, nil
	}
	return in.expr(t)
}

var literalKinds = map[string]ast.ExprKind{
	"int":    ast.ExprLitInt,
	"float":  ast.ExprLitFloat,
	"string": ast.ExprLitString,
	"true":   ast.ExprLitTrue,
	"false":  ast.ExprLitFalse,
	"nil":    ast.ExprLitNil,
}

var binaryOps = map[string]ast.BinaryOp{
	"+":  ast.BinAdd,
	"-":  ast.BinSub,
	"*":  ast.BinMul,
	"/":  ast.BinDiv,
	"==": ast.BinEq,
	"!=": ast.BinNe,
	"<":  ast.BinLt,
	"<=": ast.BinLe,
	">":  ast.BinGt,
	">=": ast.BinGe,
	"&&": ast.BinAnd,
	"||": ast.BinOr,
}

func (in *ingester) expr(t *treeExpr) (ast.ExprID, error) {
	if t == nil {
		return ast.NoExprID, fmt.Errorf("missing expression node")
	}
	sp := in.span(t.Span)

	if kind, ok := literalKinds[t.Kind]; ok {
		return in.builder.Exprs.NewLiteral(sp, kind, in.builder.Intern(t.Value)), nil
	}

	switch t.Kind {
	case "ident":
		return in.builder.Exprs.NewIdent(sp, in.builder.Intern(t.Name)), nil

	case "self":
		return in.builder.Exprs.NewSelf(sp), nil

	case "field":
		recv, err := in.optExpr(t.Recv)
		if err != nil {
			return ast.NoExprID, err
		}
		return in.builder.Exprs.NewFieldAccess(sp, recv, in.builder.Intern(t.Name)), nil

	case "call":
		recv, err := in.optExpr(t.Recv)
		if err != nil {
			return ast.NoExprID, err
		}
		args := make([]ast.ExprID, 0, len(t.Args))
		for i := range t.Args {
			arg, err := in.expr(&t.Args[i])
			if err != nil {
				return ast.NoExprID, err
			}
			args = append(args, arg)
		}
		return in.builder.Exprs.NewCall(sp, recv, in.builder.Intern(t.Name), args), nil

	case "binary":
		op, ok := binaryOps[t.Op]
		if !ok {
			return ast.NoExprID, fmt.Errorf("unknown binary operator %q", t.Op)
		}
		left, err := in.expr(t.Left)
		if err != nil {
			return ast.NoExprID, err
		}
		right, err := in.expr(t.Right)
		if err != nil {
			return ast.NoExprID, err
		}
		return in.builder.Exprs.NewBinary(sp, op, left, right), nil

	case "unary":
		op := ast.UnNeg
		switch t.Op {
		case "-":
		case "!":
			op = ast.UnNot
		default:
			return ast.NoExprID, fmt.Errorf("unknown unary operator %q", t.Op)
		}
		x, err := in.expr(t.X)
		if err != nil {
			return ast.NoExprID, err
		}
		return in.builder.Exprs.NewUnary(sp, op, x), nil

	default:
		return ast.NoExprID, fmt.Errorf("unknown expression kind %q", t.Kind)
	}
}
