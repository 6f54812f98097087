package source

import (
	"testing"
)

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("radius")
	b := in.Intern("radius")
	if a != b {
		t.Fatalf("expected shared ID, got %d and %d", a, b)
	}
	if s, ok := in.Lookup(a); !ok || s != "radius" {
		t.Fatalf("lookup = %q, %v", s, ok)
	}
}

func TestInternerEmptyStringIsNoStringID(t *testing.T) {
	in := NewInterner()
	if got := in.Intern(""); got != NoStringID {
		t.Fatalf("empty string interned as %d", got)
	}
	if in.Len() != 1 {
		t.Fatalf("len = %d", in.Len())
	}
}

func TestInternerNormalizesNFC(t *testing.T) {
	in := NewInterner()
	// "é" precomposed vs combining accent
	a := in.Intern("café")
	b := in.Intern("café")
	if a != b {
		t.Fatalf("NFC-equivalent spellings got distinct IDs %d and %d", a, b)
	}
}

func TestMustLookupPanicsOnInvalidID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	in := NewInterner()
	in.MustLookup(StringID(99))
}
