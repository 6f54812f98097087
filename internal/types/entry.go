package types

import (
	"keel/internal/ast"
	"keel/internal/source"
)

// EntryKind classifies a named type entry.
type EntryKind uint8

const (
	EntryClass EntryKind = iota
	EntryValue
	EntryModule
)

func (k EntryKind) String() string {
	switch k {
	case EntryValue:
		return "value type"
	case EntryModule:
		return "module"
	default:
		return "class"
	}
}

// Entry is the semantic record for one named type. Reopened declarations
// merge into a single entry; passes mutate it in place.
type Entry struct {
	ID       EntryID
	Name     source.StringID
	Kind     EntryKind
	Super    EntryID // non-owning back-reference, NoEntryID at the root
	Abstract bool
	Builtin  bool
	Decl     source.Span // first declaration site

	InstanceFields []*FieldDecl
	ClassFields    []*FieldDecl
	Methods        []*Method
}

// FieldDecl is one instance or class field. Type stays NoTypeID until the
// declaration resolver binds or infers it.
type FieldDecl struct {
	Owner    EntryID
	Scope    ast.FieldScope
	Name     source.StringID
	TypeExpr ast.TypeExprID // explicit annotation, if any
	Type     TypeID
	HasInit  bool
	Init     ast.ExprID
	Nilable  bool // filled when Type resolves
	Decl     source.Span
}

// MethodParam is one resolved formal parameter.
type MethodParam struct {
	Name     source.StringID
	TypeExpr ast.TypeExprID
	Type     TypeID
	Span     source.Span
}

// Method is the semantic record for a method or free function. Abstract
// methods carry no body; synthesized allocators are marked so tooling can
// tell them from user code.
type Method struct {
	Owner       EntryID // NoEntryID for free functions
	Name        source.StringID
	Params      []MethodParam
	ClassLevel  bool
	Abstract    bool
	Synthesized bool
	HasBody     bool
	Body        []ast.StmtID
	RetExpr     ast.TypeExprID
	ReturnType  TypeID
	Decl        source.Span
}

// Arity is the number of formal parameters.
func (m *Method) Arity() int { return len(m.Params) }

// Global is a top-level variable.
type Global struct {
	Name     source.StringID
	TypeExpr ast.TypeExprID
	Type     TypeID
	HasInit  bool
	Init     ast.ExprID
	Nilable  bool
	Decl     source.Span
}

// Macro records a macro's name and arity; expansion is not this front
// end's job.
type Macro struct {
	Name  source.StringID
	Arity int
	Decl  source.Span
}

// FindInstanceField returns the instance field declared directly on the
// entry, not consulting ancestors.
func (e *Entry) FindInstanceField(name source.StringID) *FieldDecl {
	for _, f := range e.InstanceFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindClassField returns the class field declared directly on the entry.
func (e *Entry) FindClassField(name source.StringID) *FieldDecl {
	for _, f := range e.ClassFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// OwnMethods returns methods with the given name and level declared
// directly on the entry.
func (e *Entry) OwnMethods(name source.StringID, classLevel bool) []*Method {
	var out []*Method
	for _, m := range e.Methods {
		if m.Name == name && m.ClassLevel == classLevel {
			out = append(out, m)
		}
	}
	return out
}
