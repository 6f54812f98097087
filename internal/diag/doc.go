// Package diag defines the diagnostic model shared by all semantic passes.
//
// Diagnostic is the central record: severity, a stable numeric Code, a
// human-oriented message, the primary source.Span and optional notes.
// Producers emit through a Reporter so storage stays decoupled from the
// passes; BagReporter aggregates into a Bag, which supports sorting and
// deduplication for deterministic output.
//
// Package diag performs no formatting or IO. Rendering lives in
// internal/diagfmt; orchestration lives in internal/driver and the CLI.
package diag
