package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "keel.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write keel.toml: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"
root = "src"

[check]
max_diagnostics = 64
jobs = 4
timings = true
path_mode = "relative"
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if m.Package.Name != "demo" || m.Package.Root != "src" {
		t.Errorf("unexpected package section: %+v", m.Package)
	}
	if m.Check.MaxDiagnostics != 64 || m.Check.Jobs != 4 || !m.Check.Timings {
		t.Errorf("unexpected check section: %+v", m.Check)
	}
	if m.Check.PathMode != "relative" {
		t.Errorf("unexpected path mode %q", m.Check.PathMode)
	}
	want := filepath.Join(filepath.Dir(path), "src")
	if got := m.RootDir(path); got != want {
		t.Errorf("RootDir = %q, want %q", got, want)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if m.Package.Root != "." {
		t.Errorf("root should default to %q, got %q", ".", m.Package.Root)
	}
	if m.Check.MaxDiagnostics != 256 {
		t.Errorf("max_diagnostics should default to 256, got %d", m.Check.MaxDiagnostics)
	}
	if m.Check.PathMode != "auto" {
		t.Errorf("path_mode should default to auto, got %q", m.Check.PathMode)
	}
}

func TestLoadManifestMissingPackage(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[check]
jobs = 2
`)

	_, err := Load(path)
	if !errors.Is(err, ErrPackageSectionMissing) {
		t.Fatalf("expected ErrPackageSectionMissing, got %v", err)
	}
}

func TestLoadManifestMissingName(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
root = "src"
`)

	_, err := Load(path)
	if !errors.Is(err, ErrPackageNameMissing) {
		t.Fatalf("expected ErrPackageNameMissing, got %v", err)
	}
}

func TestFindKeelToml(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := FindKeelToml(nested)
	if err != nil {
		t.Fatalf("FindKeelToml returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected to find keel.toml")
	}
	if filepath.Dir(path) != root {
		t.Errorf("found %q, want manifest under %q", path, root)
	}
}

func TestFindKeelTomlAbsent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, ok, err := FindKeelToml(dir)
	if err != nil {
		t.Fatalf("FindKeelToml returned error: %v", err)
	}
	if ok {
		t.Error("did not expect a manifest outside a project")
	}
}
