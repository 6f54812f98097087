package ast

import (
	"keel/internal/source"
)

// ItemKind tags the closed set of top-level (and class-member) declarations.
type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemClass
	ItemMethod
	ItemField
	ItemGlobal
	ItemMacro
)

func (k ItemKind) String() string {
	switch k {
	case ItemClass:
		return "class"
	case ItemMethod:
		return "method"
	case ItemField:
		return "field"
	case ItemGlobal:
		return "global"
	case ItemMacro:
		return "macro"
	default:
		return "invalid"
	}
}

// ClassKind distinguishes reference classes, inline value types and
// namespace-only modules.
type ClassKind uint8

const (
	ClassClass ClassKind = iota
	ClassValue
	ClassModule
)

func (k ClassKind) String() string {
	switch k {
	case ClassValue:
		return "value type"
	case ClassModule:
		return "module"
	default:
		return "class"
	}
}

// FieldScope separates per-instance fields from class-level (static) ones.
type FieldScope uint8

const (
	FieldInstance FieldScope = iota
	FieldClass
)

// Item is the arena header for one declaration.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// ClassItem is one syntactic occurrence of a type. The same name may occur
// several times (reopening); the collector merges occurrences into one
// semantic entry.
type ClassItem struct {
	Name     source.StringID
	Kind     ClassKind
	Super    source.StringID // NoStringID when no superclass clause
	Abstract bool
	Members  []ItemID // methods and fields declared in this occurrence
}

// Param is one formal parameter; Type may be NoTypeExprID.
type Param struct {
	Span source.Span
	Name source.StringID
	Type TypeExprID
}

// MethodItem is a method or free-function declaration. Abstract methods
// have no body; HasBody distinguishes "empty body" from "no body".
type MethodItem struct {
	Name       source.StringID
	Params     []ParamID
	ReturnType TypeExprID
	ClassLevel bool // declared on the type itself (self.foo)
	Abstract   bool
	HasBody    bool
	Body       []StmtID
}

// FieldItem declares an instance or class field; Init may be NoExprID.
type FieldItem struct {
	Scope FieldScope
	Name  source.StringID
	Type  TypeExprID
	Init  ExprID
}

// GlobalItem declares a top-level variable; Init may be NoExprID.
type GlobalItem struct {
	Name source.StringID
	Type TypeExprID
	Init ExprID
}

// MacroItem declares a named macro; expansion happens before this front
// end, so only the name and arity survive to semantic analysis.
type MacroItem struct {
	Name   source.StringID
	Params []ParamID
}

// Items aggregates the declaration arenas.
type Items struct {
	Arena   *Arena[Item]
	Classes *Arena[ClassItem]
	Methods *Arena[MethodItem]
	Fields  *Arena[FieldItem]
	Globals *Arena[GlobalItem]
	Macros  *Arena[MacroItem]
	Params  *Arena[Param]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:   NewArena[Item](capHint),
		Classes: NewArena[ClassItem](capHint),
		Methods: NewArena[MethodItem](capHint),
		Fields:  NewArena[FieldItem](capHint),
		Globals: NewArena[GlobalItem](capHint),
		Macros:  NewArena[MacroItem](capHint),
		Params:  NewArena[Param](capHint),
	}
}

func (it *Items) new(kind ItemKind, sp source.Span, payload PayloadID) ItemID {
	return ItemID(it.Arena.Allocate(Item{Kind: kind, Span: sp, Payload: payload}))
}

// Get returns the item header, or nil for NoItemID.
func (it *Items) Get(id ItemID) *Item {
	return it.Arena.Get(uint32(id))
}

// NewParam allocates a formal parameter.
func (it *Items) NewParam(sp source.Span, name source.StringID, typ TypeExprID) ParamID {
	return ParamID(it.Params.Allocate(Param{Span: sp, Name: name, Type: typ}))
}

// Param returns the parameter for the ID.
func (it *Items) Param(id ParamID) *Param {
	return it.Params.Get(uint32(id))
}

// NewClass allocates one class occurrence.
func (it *Items) NewClass(sp source.Span, decl ClassItem) ItemID {
	payload := PayloadID(it.Classes.Allocate(decl))
	return it.new(ItemClass, sp, payload)
}

// NewMethod allocates a method declaration.
func (it *Items) NewMethod(sp source.Span, decl MethodItem) ItemID {
	payload := PayloadID(it.Methods.Allocate(decl))
	return it.new(ItemMethod, sp, payload)
}

// NewField allocates a field declaration.
func (it *Items) NewField(sp source.Span, decl FieldItem) ItemID {
	payload := PayloadID(it.Fields.Allocate(decl))
	return it.new(ItemField, sp, payload)
}

// NewGlobal allocates a top-level variable declaration.
func (it *Items) NewGlobal(sp source.Span, decl GlobalItem) ItemID {
	payload := PayloadID(it.Globals.Allocate(decl))
	return it.new(ItemGlobal, sp, payload)
}

// NewMacro allocates a macro declaration.
func (it *Items) NewMacro(sp source.Span, decl MacroItem) ItemID {
	payload := PayloadID(it.Macros.Allocate(decl))
	return it.new(ItemMacro, sp, payload)
}

// Class returns the class payload for the item.
func (it *Items) Class(id ItemID) *ClassItem {
	node := it.Get(id)
	if node == nil || node.Kind != ItemClass {
		return nil
	}
	return it.Classes.Get(uint32(node.Payload))
}

// Method returns the method payload for the item.
func (it *Items) Method(id ItemID) *MethodItem {
	node := it.Get(id)
	if node == nil || node.Kind != ItemMethod {
		return nil
	}
	return it.Methods.Get(uint32(node.Payload))
}

// Field returns the field payload for the item.
func (it *Items) Field(id ItemID) *FieldItem {
	node := it.Get(id)
	if node == nil || node.Kind != ItemField {
		return nil
	}
	return it.Fields.Get(uint32(node.Payload))
}

// Global returns the global payload for the item.
func (it *Items) Global(id ItemID) *GlobalItem {
	node := it.Get(id)
	if node == nil || node.Kind != ItemGlobal {
		return nil
	}
	return it.Globals.Get(uint32(node.Payload))
}

// Macro returns the macro payload for the item.
func (it *Items) Macro(id ItemID) *MacroItem {
	node := it.Get(id)
	if node == nil || node.Kind != ItemMacro {
		return nil
	}
	return it.Macros.Get(uint32(node.Payload))
}
