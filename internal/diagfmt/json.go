package diagfmt

import (
	"encoding/json"
	"io"

	"keel/internal/diag"
	"keel/internal/source"
)

// JSONDiagnostic is the wire form of one diagnostic.
type JSONDiagnostic struct {
	Severity string     `json:"severity"`
	ID       string     `json:"id"`
	Code     uint16     `json:"code"`
	Message  string     `json:"message"`
	File     string     `json:"file,omitempty"`
	Line     uint32     `json:"line,omitempty"`
	Col      uint32     `json:"col,omitempty"`
	EndLine  uint32     `json:"end_line,omitempty"`
	EndCol   uint32     `json:"end_col,omitempty"`
	Notes    []JSONNote `json:"notes,omitempty"`
}

// JSONNote is the wire form of one note.
type JSONNote struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
}

// JSONReport wraps the diagnostics with summary counts.
type JSONReport struct {
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// JSON renders the bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fileSet *source.FileSet, opts JSONOpts) error {
	report := BuildJSON(bag, fileSet, opts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// BuildJSON converts the bag without serializing, for callers that embed
// the report in a larger document.
func BuildJSON(bag *diag.Bag, fileSet *source.FileSet, opts JSONOpts) JSONReport {
	report := JSONReport{Diagnostics: make([]JSONDiagnostic, 0, bag.Len())}
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			report.Errors++
		case diag.SevWarning:
			report.Warnings++
		}
		if opts.Max > 0 && len(report.Diagnostics) >= opts.Max {
			report.Truncated = true
			continue
		}

		jd := JSONDiagnostic{
			Severity: d.Severity.String(),
			ID:       d.Code.ID(),
			Code:     uint16(d.Code),
			Message:  d.Message,
		}
		if opts.IncludePositions {
			jd.File, jd.Line, jd.Col, jd.EndLine, jd.EndCol = position(d.Primary, fileSet, opts.PathMode)
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				jn := JSONNote{Message: note.Msg}
				if opts.IncludePositions {
					jn.File, jn.Line, jn.Col, _, _ = position(note.Span, fileSet, opts.PathMode)
				}
				jd.Notes = append(jd.Notes, jn)
			}
		}
		report.Diagnostics = append(report.Diagnostics, jd)
	}
	return report
}

func position(span source.Span, fileSet *source.FileSet, mode PathMode) (path string, line, col, endLine, endCol uint32) {
	if fileSet == nil || span.Empty() {
		return "", 0, 0, 0, 0
	}
	file := fileSet.Get(span.File)
	if file == nil {
		return "", 0, 0, 0, 0
	}
	start, end := fileSet.Resolve(span)
	return file.FormatPath(mode.String(), fileSet.BaseDir()), start.Line, start.Col, end.Line, end.Col
}
