package diag

import (
	"keel/internal/source"
)

// Note carries secondary context for a diagnostic ("declared here", etc.).
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding produced by a pass.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
