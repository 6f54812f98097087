package diag

import (
	"fmt"
)

// Code is a compact numeric identifier with a stable string form.
type Code uint16

const (
	UnknownCode Code = 0

	// Semantic analysis (3000-3999)
	SemaInfo Code = 3000
	// SemaDeclarationConflict: a name reused across incompatible kinds.
	SemaDeclarationConflict Code = 3001
	// SemaUnresolvedType: a declaration has neither an annotation nor an
	// inferable assignment, or names an unknown type.
	SemaUnresolvedType Code = 3002
	// SemaTypeMismatch: an expression's type is incompatible with the
	// declared or expected type.
	SemaTypeMismatch Code = 3003
	// SemaClassFieldNeedsInitializer: non-nilable class field without an
	// initializer expression.
	SemaClassFieldNeedsInitializer Code = 3004
	// SemaAbstractMethodNotImplemented: instantiable type missing a
	// concrete override for an inherited abstract method.
	SemaAbstractMethodNotImplemented Code = 3005
	// SemaRecursiveValueType: cycle in the value-type containment graph.
	SemaRecursiveValueType Code = 3006
	// SemaUnknownName: body analysis met an identifier that resolves to
	// nothing in scope.
	SemaUnknownName Code = 3007
	// SemaNoOverload: no method overload matches the call's arguments.
	SemaNoOverload Code = 3008

	// Input/decode (4000-4999)
	IOReadFailed    Code = 4001
	IODecodeFailed  Code = 4002
	IOBadTreeSchema Code = 4003

	// Observability (6000-6999)
	ObsTimings Code = 6000
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown diagnostic",

	SemaInfo:                         "semantic info",
	SemaDeclarationConflict:          "DeclarationConflict",
	SemaUnresolvedType:               "UnresolvedType",
	SemaTypeMismatch:                 "TypeMismatch",
	SemaClassFieldNeedsInitializer:   "ClassFieldNeedsInitializer",
	SemaAbstractMethodNotImplemented: "AbstractMethodNotImplemented",
	SemaRecursiveValueType:           "RecursiveValueType",
	SemaUnknownName:                  "UnknownName",
	SemaNoOverload:                   "NoOverload",

	IOReadFailed:    "failed to read input",
	IODecodeFailed:  "failed to decode syntax tree",
	IOBadTreeSchema: "unsupported syntax tree schema",

	ObsTimings: "pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
