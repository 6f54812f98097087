package sema

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/types"
)

// Collect is the declaration collector: one walk over the tree that
// creates or merges type, method, macro and global entries. After it
// returns, every name referenced elsewhere in the tree exists in the
// context, even though field types are still pending.
//
// Name collisions between incompatible kinds are fatal; the pipeline must
// not continue past them.
func Collect(ctx *Context) {
	c := collector{
		ctx:   ctx,
		sites: make(map[source.StringID]declSite),
	}
	for _, file := range ctx.Files {
		c.file(file)
	}
	c.resolveSupers()
}

type topKind uint8

const (
	topType topKind = iota
	topFunc
	topGlobal
	topMacro
)

func (k topKind) String() string {
	switch k {
	case topType:
		return "type"
	case topFunc:
		return "method"
	case topGlobal:
		return "global variable"
	case topMacro:
		return "macro"
	}
	return "declaration"
}

type declSite struct {
	kind topKind
	span source.Span
}

type collector struct {
	ctx   *Context
	sites map[source.StringID]declSite
}

func (c *collector) file(fileID ast.FileID) {
	file := c.ctx.Builder.Files.Get(fileID)
	if file == nil {
		return
	}
	for _, itemID := range file.Items {
		item := c.ctx.Builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemClass:
			c.class(itemID, item)
		case ast.ItemMethod:
			c.freeMethod(itemID, item)
		case ast.ItemGlobal:
			c.global(itemID, item)
		case ast.ItemMacro:
			c.macro(itemID, item)
		case ast.ItemField:
			// A field outside a class body is front-end breakage; treat it
			// as a structural conflict rather than crashing.
			c.ctx.errorf(diag.SemaDeclarationConflict, item.Span, "field declaration outside a type body")
		case ast.ItemInvalid:
			c.ctx.errorf(diag.SemaDeclarationConflict, item.Span, "invalid declaration")
		}
	}
}

// claim registers a top-level name under a kind, reporting a conflict when
// the name is already taken by an incompatible kind.
func (c *collector) claim(name source.StringID, kind topKind, span source.Span) bool {
	if prev, ok := c.sites[name]; ok {
		if prev.kind != kind {
			c.ctx.errorf(diag.SemaDeclarationConflict, span,
				fmt.Sprintf("%q already declared as a %s", c.ctx.name(name), prev.kind),
				diag.Note{Span: prev.span, Msg: "previous declaration here"})
			return false
		}
		return true
	}
	c.sites[name] = declSite{kind: kind, span: span}
	return true
}

func entryKindFor(kind ast.ClassKind) types.EntryKind {
	switch kind {
	case ast.ClassValue:
		return types.EntryValue
	case ast.ClassModule:
		return types.EntryModule
	default:
		return types.EntryClass
	}
}

func (c *collector) class(itemID ast.ItemID, item *ast.Item) {
	decl := c.ctx.Builder.Items.Class(itemID)
	if decl == nil {
		return
	}
	if !c.claim(decl.Name, topType, item.Span) {
		return
	}

	entry, ok := c.ctx.Types.Upsert(decl.Name, entryKindFor(decl.Kind), decl.Abstract, item.Span)
	if !ok {
		c.ctx.errorf(diag.SemaDeclarationConflict, item.Span,
			fmt.Sprintf("%q reopened as a %s but was declared as a %s",
				c.ctx.name(decl.Name), entryKindFor(decl.Kind), entry.Kind),
			diag.Note{Span: entry.Decl, Msg: "previous declaration here"})
		return
	}

	if decl.Super != source.NoStringID {
		if prev, ok := c.ctx.supers[entry.ID]; ok && prev != decl.Super {
			c.ctx.errorf(diag.SemaDeclarationConflict, item.Span,
				fmt.Sprintf("%q reopened with superclass %q but was declared with %q",
					c.ctx.name(decl.Name), c.ctx.name(decl.Super), c.ctx.name(prev)))
		} else {
			c.ctx.supers[entry.ID] = decl.Super
		}
	}

	for _, memberID := range decl.Members {
		member := c.ctx.Builder.Items.Get(memberID)
		if member == nil {
			continue
		}
		switch member.Kind {
		case ast.ItemMethod:
			c.memberMethod(entry, memberID, member)
		case ast.ItemField:
			c.memberField(entry, memberID, member)
		default:
			c.ctx.errorf(diag.SemaDeclarationConflict, member.Span,
				fmt.Sprintf("%s declaration not allowed inside a type body", member.Kind))
		}
	}
}

func (c *collector) memberMethod(entry *types.Entry, itemID ast.ItemID, item *ast.Item) {
	decl := c.ctx.Builder.Items.Method(itemID)
	if decl == nil {
		return
	}
	entry.Methods = append(entry.Methods, c.buildMethod(entry.ID, decl, item.Span))
}

func (c *collector) buildMethod(owner types.EntryID, decl *ast.MethodItem, span source.Span) *types.Method {
	params := make([]types.MethodParam, 0, len(decl.Params))
	for _, paramID := range decl.Params {
		p := c.ctx.Builder.Items.Param(paramID)
		if p == nil {
			continue
		}
		params = append(params, types.MethodParam{
			Name:     p.Name,
			TypeExpr: p.Type,
			Span:     p.Span,
		})
	}
	return &types.Method{
		Owner:      owner,
		Name:       decl.Name,
		Params:     params,
		ClassLevel: decl.ClassLevel,
		Abstract:   decl.Abstract,
		HasBody:    decl.HasBody,
		Body:       decl.Body,
		RetExpr:    decl.ReturnType,
		Decl:       span,
	}
}

func (c *collector) memberField(entry *types.Entry, itemID ast.ItemID, item *ast.Item) {
	decl := c.ctx.Builder.Items.Field(itemID)
	if decl == nil {
		return
	}

	var existing *types.FieldDecl
	if decl.Scope == ast.FieldClass {
		existing = entry.FindClassField(decl.Name)
	} else {
		existing = entry.FindInstanceField(decl.Name)
	}
	if existing != nil {
		// Reopening re-declares the field: merge additively, first
		// annotation and initializer win.
		if existing.TypeExpr == ast.NoTypeExprID {
			existing.TypeExpr = decl.Type
		}
		if !existing.HasInit && decl.Init != ast.NoExprID {
			existing.HasInit = true
			existing.Init = decl.Init
		}
		return
	}

	field := &types.FieldDecl{
		Owner:    entry.ID,
		Scope:    decl.Scope,
		Name:     decl.Name,
		TypeExpr: decl.Type,
		HasInit:  decl.Init != ast.NoExprID,
		Init:     decl.Init,
		Decl:     item.Span,
	}
	if decl.Scope == ast.FieldClass {
		entry.ClassFields = append(entry.ClassFields, field)
	} else {
		entry.InstanceFields = append(entry.InstanceFields, field)
	}
}

func (c *collector) freeMethod(itemID ast.ItemID, item *ast.Item) {
	decl := c.ctx.Builder.Items.Method(itemID)
	if decl == nil {
		return
	}
	if !c.claim(decl.Name, topFunc, item.Span) {
		return
	}
	c.ctx.Types.Free = append(c.ctx.Types.Free, c.buildMethod(types.NoEntryID, decl, item.Span))
}

func (c *collector) global(itemID ast.ItemID, item *ast.Item) {
	decl := c.ctx.Builder.Items.Global(itemID)
	if decl == nil {
		return
	}
	if !c.claim(decl.Name, topGlobal, item.Span) {
		return
	}
	c.ctx.Types.DefineGlobal(&types.Global{
		Name:     decl.Name,
		TypeExpr: decl.Type,
		HasInit:  decl.Init != ast.NoExprID,
		Init:     decl.Init,
		Decl:     item.Span,
	})
}

func (c *collector) macro(itemID ast.ItemID, item *ast.Item) {
	decl := c.ctx.Builder.Items.Macro(itemID)
	if decl == nil {
		return
	}
	if !c.claim(decl.Name, topMacro, item.Span) {
		return
	}
	c.ctx.Types.DefineMacro(&types.Macro{
		Name:  decl.Name,
		Arity: len(decl.Params),
		Decl:  item.Span,
	})
}

// resolveSupers binds recorded superclass names once every type exists.
func (c *collector) resolveSupers() {
	for _, entry := range c.ctx.Types.Entries() {
		superName, ok := c.ctx.supers[entry.ID]
		if !ok {
			continue
		}
		super, found := c.ctx.Types.Lookup(superName)
		if !found {
			c.ctx.errorf(diag.SemaUnresolvedType, entry.Decl,
				fmt.Sprintf("unknown superclass %q of %q", c.ctx.name(superName), c.ctx.name(entry.Name)))
			continue
		}
		if super.Kind == types.EntryModule || super.Kind != entry.Kind {
			c.ctx.errorf(diag.SemaDeclarationConflict, entry.Decl,
				fmt.Sprintf("%s %q cannot inherit from %s %q",
					entry.Kind, c.ctx.name(entry.Name), super.Kind, c.ctx.name(superName)),
				diag.Note{Span: super.Decl, Msg: "superclass declared here"})
			continue
		}
		entry.Super = super.ID
	}
}
