package types

// Unify merges the types of two assignments into one declaration type, or
// reports failure. The rules are deliberately narrow:
//
//   - equal types unify to themselves
//   - Nil against T unifies to T? (nilable T)
//   - T? against T unifies to T?
//   - a subclass against its ancestor unifies to the ancestor
//
// Anything else is a disagreement the resolver turns into a diagnostic.
func (t *Table) Unify(a, b TypeID) (TypeID, bool) {
	if a == b {
		return a, true
	}
	if a == NoTypeID || b == NoTypeID {
		return NoTypeID, false
	}

	nilType := t.builtins.Nil
	if a == nilType {
		return t.Nilable(b), true
	}
	if b == nilType {
		return t.Nilable(a), true
	}

	nilable := t.IsNilable(a) || t.IsNilable(b)
	coreA, coreB := t.Strip(a), t.Strip(b)

	core := NoTypeID
	switch {
	case coreA == coreB:
		core = coreA
	case t.isAncestorType(coreA, coreB):
		core = coreA
	case t.isAncestorType(coreB, coreA):
		core = coreB
	default:
		return NoTypeID, false
	}

	if nilable {
		return t.Nilable(core), true
	}
	return core, true
}

// AssignableTo reports whether a value of src may be stored into dst.
func (t *Table) AssignableTo(src, dst TypeID) bool {
	if src == dst {
		return true
	}
	if src == NoTypeID || dst == NoTypeID {
		return false
	}
	if src == t.builtins.Nil {
		return t.IsNilable(dst)
	}
	if t.IsNilable(src) && !t.IsNilable(dst) {
		return false
	}
	coreSrc, coreDst := t.Strip(src), t.Strip(dst)
	if coreSrc == coreDst {
		return true
	}
	return t.isAncestorType(coreDst, coreSrc)
}

// isAncestorType reports whether the named type anc is a strict ancestor
// of the named type sub.
func (t *Table) isAncestorType(anc, sub TypeID) bool {
	ancEntry := t.EntryOf(anc)
	subEntry := t.EntryOf(sub)
	if ancEntry == nil || subEntry == nil || ancEntry.ID == subEntry.ID {
		return false
	}
	for _, e := range t.Ancestors(subEntry.ID) {
		if e.ID == ancEntry.ID && e.ID != subEntry.ID {
			return true
		}
	}
	return false
}

// TypeString renders a type for diagnostics.
func (t *Table) TypeString(id TypeID) string {
	if id == NoTypeID {
		return "<unresolved>"
	}
	desc := t.TypeOf(id)
	switch desc.Kind {
	case KindNamed:
		entry := t.Get(desc.Entry)
		if entry == nil {
			return "<invalid>"
		}
		name, _ := t.Strings.Lookup(entry.Name)
		return name
	case KindNilable:
		return t.TypeString(desc.Elem) + "?"
	default:
		return "<invalid>"
	}
}
