package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"keel/internal/diag"
	"keel/internal/source"
)

const greeterTree = `{
  "schema": 1,
  "source": "greeter.kl",
  "text": "class Greeter\n  def init(name: String)\n    @name = name\n  end\nend\nGreeter.new(\"keel\")\n",
  "items": [
    {
      "kind": "class", "name": "Greeter", "span": {"start": 0, "end": 70},
      "members": [
        {
          "kind": "method", "name": "init", "span": {"start": 16, "end": 60},
          "params": [{"name": "name", "type": {"name": "String", "span": {"start": 31, "end": 37}}, "span": {"start": 25, "end": 37}}],
          "body": [
            {"kind": "assign", "span": {"start": 43, "end": 55},
             "target": {"kind": "field", "name": "name", "span": {"start": 43, "end": 48}},
             "value": {"kind": "ident", "name": "name", "span": {"start": 51, "end": 55}}}
          ]
        }
      ]
    }
  ],
  "stmts": [
    {"kind": "expr", "span": {"start": 71, "end": 90},
     "expr": {"kind": "call", "name": "new", "span": {"start": 71, "end": 90},
              "recv": {"kind": "ident", "name": "Greeter", "span": {"start": 71, "end": 78}},
              "args": [{"kind": "string", "value": "keel", "span": {"start": 83, "end": 89}}]}}
  ]
}`

const brokenBodyTree = `{
  "schema": 1,
  "source": "broken.kl",
  "text": "",
  "items": [],
  "stmts": [
    {"kind": "expr", "span": {"start": 0, "end": 10},
     "expr": {"kind": "binary", "op": "+", "span": {"start": 0, "end": 10},
              "left": {"kind": "string", "value": "a", "span": {"start": 0, "end": 3}},
              "right": {"kind": "int", "value": "1", "span": {"start": 6, "end": 7}}}}
  ]
}`

func TestCheckTreeFullRun(t *testing.T) {
	fs := source.NewFileSet()
	res, err := CheckTree(fs, "greeter.kl.json", []byte(greeterTree), CheckOptions{})
	if err != nil {
		t.Fatalf("CheckTree: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if !res.Sema.Complete {
		t.Fatal("pipeline did not complete")
	}
	if fs.Len() != 1 {
		t.Fatalf("source text not registered, %d files", fs.Len())
	}
}

func TestCheckTreeDeclsOnlyHidesBodyErrors(t *testing.T) {
	fs := source.NewFileSet()
	res, err := CheckTree(fs, "broken.kl.json", []byte(brokenBodyTree), CheckOptions{DeclsOnly: true})
	if err != nil {
		t.Fatalf("CheckTree: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("declaration run surfaced body errors: %v", res.Bag.Items())
	}
	if res.Sema.Pending == nil {
		t.Fatal("declaration run returned no carrier")
	}

	full, err := CheckTree(source.NewFileSet(), "broken.kl.json", []byte(brokenBodyTree), CheckOptions{})
	if err != nil {
		t.Fatalf("CheckTree: %v", err)
	}
	if !full.HasErrors() {
		t.Fatal("full run missed the body error")
	}
}

func TestCheckTreeBadSchema(t *testing.T) {
	fs := source.NewFileSet()
	res, err := CheckTree(fs, "old.kl.json", []byte(`{"schema": 99}`), CheckOptions{})
	if err == nil {
		t.Fatal("expected a schema error")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.IOBadTreeSchema {
			found = true
		}
	}
	if !found {
		t.Fatalf("no schema diagnostic: %v", res.Bag.Items())
	}
}

func TestCheckTreeTimingsDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	res, err := CheckTree(fs, "greeter.kl.json", []byte(greeterTree), CheckOptions{Timings: true})
	if err != nil {
		t.Fatalf("CheckTree: %v", err)
	}
	if res.Timing == nil || len(res.Timing.Passes) == 0 {
		t.Fatal("no timing report collected")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			found = true
		}
	}
	if !found {
		t.Fatal("timings were not appended as a diagnostic")
	}
}

func TestCheckDirParallel(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b" + treeExt, "a" + treeExt} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(greeterTree), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	results, err := CheckDir(context.Background(), dir, CheckOptions{}, 2)
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Path order, not completion order.
	if filepath.Base(results[0].Path) != "a"+treeExt {
		t.Fatalf("results out of order: %s first", results[0].Path)
	}
	for _, res := range results {
		if res.HasErrors() {
			t.Fatalf("%s: unexpected diagnostics: %v", res.Path, res.Bag.Items())
		}
	}
}

func TestCheckFileMissing(t *testing.T) {
	fs := source.NewFileSet()
	res, err := CheckFile(fs, filepath.Join(t.TempDir(), "ghost.kl.json"), CheckOptions{})
	if err == nil {
		t.Fatal("expected a read error")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.IOReadFailed {
			found = true
		}
	}
	if !found {
		t.Fatal("read failure not reported as a diagnostic")
	}
}
