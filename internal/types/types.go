package types

import "fmt"

// TypeID uniquely identifies an interned semantic type.
type TypeID uint32

// NoTypeID marks the absence of a type (a still-pending declaration).
const NoTypeID TypeID = 0

// EntryID identifies a named type entry in the Table.
type EntryID uint32

// NoEntryID marks the absence of an entry.
const NoEntryID EntryID = 0

// Kind enumerates the interned type shapes.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindNamed is a reference to a Table entry (class, value type, module).
	KindNamed
	// KindNilable wraps another type with an explicit absent-value marker.
	KindNilable
)

func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindNilable:
		return "nilable"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any semantic type.
type Type struct {
	Kind  Kind
	Entry EntryID // for KindNamed
	Elem  TypeID  // for KindNilable
}
