package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is the parsed content of a keel.toml project file.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Check   CheckSection   `toml:"check"`
}

// PackageSection names the project and points at its tree root.
type PackageSection struct {
	Name string `toml:"name"`
	Root string `toml:"root"`
}

// CheckSection configures the checker defaults for the project.
type CheckSection struct {
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"`
	Timings        bool   `toml:"timings"`
	PathMode       string `toml:"path_mode"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing or empty.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// DefaultManifest returns the settings used when no keel.toml is found.
func DefaultManifest() Manifest {
	return Manifest{
		Package: PackageSection{Root: "."},
		Check: CheckSection{
			MaxDiagnostics: 256,
			PathMode:       "auto",
		},
	}
}

// Load parses a keel.toml manifest and fills in defaults for absent keys.
func Load(path string) (Manifest, error) {
	cfg := DefaultManifest()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if strings.TrimSpace(cfg.Package.Name) == "" {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if strings.TrimSpace(cfg.Package.Root) == "" {
		cfg.Package.Root = "."
	}
	if cfg.Check.MaxDiagnostics <= 0 {
		cfg.Check.MaxDiagnostics = 256
	}
	if cfg.Check.PathMode == "" {
		cfg.Check.PathMode = "auto"
	}
	return cfg, nil
}

// RootDir resolves the package root relative to the manifest location.
func (m Manifest) RootDir(manifestPath string) string {
	if filepath.IsAbs(m.Package.Root) {
		return m.Package.Root
	}
	return filepath.Join(filepath.Dir(manifestPath), m.Package.Root)
}
