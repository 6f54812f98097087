package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"keel/internal/diag"
	"keel/internal/source"
)

func sampleBag(fs *source.FileSet) *diag.Bag {
	content := []byte("class Shape\n  def area\n    0\n  end\nend\n")
	fileID := fs.AddVirtual("shape.kl", content)

	bag := diag.NewBag(16)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaTypeMismatch,
		Message:  "expected Int32, got String",
		Primary:  source.Span{File: fileID, Start: 18, End: 22},
		Notes: []diag.Note{
			{Span: source.Span{File: fileID, Start: 6, End: 11}, Msg: "declared here"},
		},
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.SemaUnknownName,
		Message:  "unknown name radius",
		Primary:  source.Span{File: fileID, Start: 0, End: 5},
	})
	return bag
}

func TestPrettyRendersPositionAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: false, PathMode: PathModeBasename, ShowNotes: true})
	out := buf.String()

	if !strings.Contains(out, "shape.kl:2:7") {
		t.Errorf("expected position shape.kl:2:7 in output, got:\n%s", out)
	}
	if !strings.Contains(out, "ERROR [SEM3003]") {
		t.Errorf("expected severity and code in output, got:\n%s", out)
	}
	if !strings.Contains(out, "expected Int32, got String") {
		t.Errorf("expected message in output, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected caret underline in output, got:\n%s", out)
	}
	if !strings.Contains(out, "declared here") {
		t.Errorf("expected note in output, got:\n%s", out)
	}
}

func TestPrettyHidesNotes(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: false, PathMode: PathModeBasename, ShowNotes: false})

	if strings.Contains(buf.String(), "declared here") {
		t.Errorf("notes should be hidden, got:\n%s", buf.String())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var report JSONReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if report.Errors != 1 || report.Warnings != 1 {
		t.Errorf("expected 1 error and 1 warning, got %d/%d", report.Errors, report.Warnings)
	}
	if len(report.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(report.Diagnostics))
	}

	first := report.Diagnostics[0]
	if first.ID != "SEM3003" {
		t.Errorf("expected id SEM3003, got %s", first.ID)
	}
	if first.File != "shape.kl" || first.Line != 2 || first.Col != 7 {
		t.Errorf("unexpected position %s:%d:%d", first.File, first.Line, first.Col)
	}
	if len(first.Notes) != 1 || first.Notes[0].Message != "declared here" {
		t.Errorf("unexpected notes %+v", first.Notes)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	report := BuildJSON(bag, fs, JSONOpts{Max: 1})
	if len(report.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic after truncation, got %d", len(report.Diagnostics))
	}
	if !report.Truncated {
		t.Error("expected truncated flag")
	}
	if report.Errors != 1 || report.Warnings != 1 {
		t.Errorf("counts should cover all diagnostics, got %d/%d", report.Errors, report.Warnings)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	report := BuildJSON(bag, fs, JSONOpts{IncludePositions: false})
	if report.Diagnostics[0].File != "" || report.Diagnostics[0].Line != 0 {
		t.Errorf("positions should be omitted, got %+v", report.Diagnostics[0])
	}
}
