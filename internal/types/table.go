package types

import (
	"fmt"

	"fortio.org/safecast"

	"keel/internal/source"
)

// Builtins caches the predeclared value types and their interned TypeIDs.
type Builtins struct {
	Int32   TypeID
	Int64   TypeID
	Float64 TypeID
	Bool    TypeID
	String  TypeID
	Nil     TypeID
}

// Table is the semantic type side of the compilation context: named
// entries keyed by name (upsert merges reopened declarations), free
// functions, macros, globals and the type interner.
type Table struct {
	Strings *source.Interner

	entries []*Entry
	byName  map[source.StringID]EntryID

	Free    []*Method
	macros  map[source.StringID]*Macro
	globals []*Global
	byGlob  map[source.StringID]*Global

	interned []Type
	index    map[Type]TypeID

	builtins Builtins
}

// NewTable creates a table with the predeclared value types registered.
// If strings is nil, a fresh interner is allocated.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Strings:  strings,
		entries:  make([]*Entry, 0, 32),
		byName:   make(map[source.StringID]EntryID),
		macros:   make(map[source.StringID]*Macro),
		byGlob:   make(map[source.StringID]*Global),
		interned: []Type{{}}, // slot 0 reserved for NoTypeID
		index:    make(map[Type]TypeID),
	}
	t.builtins = Builtins{
		Int32:   t.registerBuiltin("Int32"),
		Int64:   t.registerBuiltin("Int64"),
		Float64: t.registerBuiltin("Float64"),
		Bool:    t.registerBuiltin("Bool"),
		String:  t.registerBuiltin("String"),
		Nil:     t.registerBuiltin("Nil"),
	}
	return t
}

func (t *Table) registerBuiltin(name string) TypeID {
	entry, _ := t.Upsert(t.Strings.Intern(name), EntryValue, false, source.Span{})
	entry.Builtin = true
	return t.EntryType(entry.ID)
}

// Builtins returns the predeclared types.
func (t *Table) Builtins() Builtins { return t.builtins }

// Upsert returns the entry for name, creating it on first sight. A second
// occurrence with a matching kind merges (type reopening); a kind clash
// returns the existing entry and false.
func (t *Table) Upsert(name source.StringID, kind EntryKind, abstract bool, decl source.Span) (*Entry, bool) {
	if id, ok := t.byName[name]; ok {
		entry := t.Get(id)
		if entry.Kind != kind {
			return entry, false
		}
		// Reopening may add the abstract modifier but never drop it.
		if abstract {
			entry.Abstract = true
		}
		return entry, true
	}

	count, err := safecast.Conv[uint32](len(t.entries) + 1)
	if err != nil {
		panic(fmt.Errorf("type entry overflow: %w", err))
	}
	entry := &Entry{
		ID:       EntryID(count),
		Name:     name,
		Kind:     kind,
		Abstract: abstract,
		Decl:     decl,
	}
	t.entries = append(t.entries, entry)
	t.byName[name] = entry.ID
	return entry, true
}

// Get returns the entry for the ID, or nil for NoEntryID.
func (t *Table) Get(id EntryID) *Entry {
	if id == NoEntryID || int(id) > len(t.entries) {
		return nil
	}
	return t.entries[id-1]
}

// Lookup finds an entry by name.
func (t *Table) Lookup(name source.StringID) (*Entry, bool) {
	id, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.Get(id), true
}

// Entries returns every entry in registration order. READONLY.
func (t *Table) Entries() []*Entry { return t.entries }

// DefineMacro records a macro, overwriting a previous same-name record.
func (t *Table) DefineMacro(m *Macro) {
	t.macros[m.Name] = m
}

// Macro finds a macro by name.
func (t *Table) Macro(name source.StringID) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// DefineGlobal records a top-level variable on first declaration and
// returns the canonical record.
func (t *Table) DefineGlobal(g *Global) *Global {
	if existing, ok := t.byGlob[g.Name]; ok {
		return existing
	}
	t.globals = append(t.globals, g)
	t.byGlob[g.Name] = g
	return g
}

// Global finds a top-level variable by name.
func (t *Table) Global(name source.StringID) (*Global, bool) {
	g, ok := t.byGlob[name]
	return g, ok
}

// Globals returns every global in declaration order. READONLY.
func (t *Table) Globals() []*Global { return t.globals }

// intern returns the canonical ID for the descriptor.
func (t *Table) intern(typ Type) TypeID {
	if id, ok := t.index[typ]; ok {
		return id
	}
	count, err := safecast.Conv[uint32](len(t.interned))
	if err != nil {
		panic(fmt.Errorf("type interner overflow: %w", err))
	}
	id := TypeID(count)
	t.interned = append(t.interned, typ)
	t.index[typ] = id
	return id
}

// TypeOf returns the descriptor for an interned ID.
func (t *Table) TypeOf(id TypeID) Type {
	if id == NoTypeID || int(id) >= len(t.interned) {
		return Type{}
	}
	return t.interned[id]
}

// EntryType returns the interned named type for an entry.
func (t *Table) EntryType(id EntryID) TypeID {
	if id == NoEntryID {
		return NoTypeID
	}
	return t.intern(Type{Kind: KindNamed, Entry: id})
}

// Nilable wraps typ with the absent-value marker. Nil and already-nilable
// types pass through unchanged.
func (t *Table) Nilable(typ TypeID) TypeID {
	if typ == NoTypeID || typ == t.builtins.Nil {
		return typ
	}
	if t.TypeOf(typ).Kind == KindNilable {
		return typ
	}
	return t.intern(Type{Kind: KindNilable, Elem: typ})
}

// IsNilable reports whether values of typ may be absent.
func (t *Table) IsNilable(typ TypeID) bool {
	desc := t.TypeOf(typ)
	return desc.Kind == KindNilable || typ == t.builtins.Nil
}

// Strip removes a nilable wrapper, returning the core type.
func (t *Table) Strip(typ TypeID) TypeID {
	desc := t.TypeOf(typ)
	if desc.Kind == KindNilable {
		return desc.Elem
	}
	return typ
}

// EntryOf returns the named entry behind typ (looking through nilable),
// or nil for non-named types.
func (t *Table) EntryOf(typ TypeID) *Entry {
	desc := t.TypeOf(t.Strip(typ))
	if desc.Kind != KindNamed {
		return nil
	}
	return t.Get(desc.Entry)
}

// Ancestors iterates the superclass chain starting at the entry itself.
// The walk is cycle-guarded; a malformed super chain terminates.
func (t *Table) Ancestors(id EntryID) []*Entry {
	var out []*Entry
	seen := make(map[EntryID]bool)
	for cur := id; cur != NoEntryID && !seen[cur]; {
		seen[cur] = true
		entry := t.Get(cur)
		if entry == nil {
			break
		}
		out = append(out, entry)
		cur = entry.Super
	}
	return out
}

// LookupMethods collects methods with the name and level visible on the
// entry through its ancestor chain, nearest-first.
func (t *Table) LookupMethods(id EntryID, name source.StringID, classLevel bool) []*Method {
	var out []*Method
	for _, entry := range t.Ancestors(id) {
		out = append(out, entry.OwnMethods(name, classLevel)...)
	}
	return out
}

// LookupInstanceField resolves an instance field through the ancestor chain.
func (t *Table) LookupInstanceField(id EntryID, name source.StringID) *FieldDecl {
	for _, entry := range t.Ancestors(id) {
		if f := entry.FindInstanceField(name); f != nil {
			return f
		}
	}
	return nil
}

// LookupClassField resolves a class field through the ancestor chain.
func (t *Table) LookupClassField(id EntryID, name source.StringID) *FieldDecl {
	for _, entry := range t.Ancestors(id) {
		if f := entry.FindClassField(name); f != nil {
			return f
		}
	}
	return nil
}
