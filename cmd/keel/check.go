package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"keel/internal/diagfmt"
	"keel/internal/driver"
	"keel/internal/project"
	"keel/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.kl.json|directory>",
	Short: "Check exported syntax trees for semantic errors",
	Long:  `Check runs the semantic pipeline over a tree export (or every export in a directory) and reports diagnostics`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("decls-only", false, "stop after declaration-shape resolution")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().String("path-mode", "", "path rendering (auto|absolute|relative|basename)")
	checkCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	declsOnly, err := cmd.Flags().GetBool("decls-only")
	if err != nil {
		return fmt.Errorf("failed to get decls-only flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	manifest := loadManifestFor(path, info.IsDir())
	if maxDiagnostics <= 0 {
		maxDiagnostics = manifest.Check.MaxDiagnostics
	}
	if jobs <= 0 {
		jobs = manifest.Check.Jobs
	}
	if !showTimings {
		showTimings = manifest.Check.Timings
	}
	if pathModeStr == "" {
		pathModeStr = manifest.Check.PathMode
	}
	pathMode, err := parsePathMode(pathModeStr)
	if err != nil {
		return err
	}

	uiMode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	opts := driver.CheckOptions{
		MaxDiagnostics: maxDiagnostics,
		DeclsOnly:      declsOnly,
		Timings:        showTimings,
	}

	var results []*driver.CheckResult
	if info.IsDir() {
		useTUI := shouldUseTUI(uiMode) && format == "pretty" && !quiet
		if useTUI {
			results, err = runCheckDirWithUI(cmd.Context(), path, opts, jobs)
		} else {
			results, err = driver.CheckDir(cmd.Context(), path, opts, jobs)
		}
		if err != nil {
			return err
		}
	} else {
		fileSet := source.NewFileSet()
		fileSet.SetBaseDir(filepath.Dir(path))
		// Read failures land in the bag; the result still renders.
		res, _ := driver.CheckFile(fileSet, path, opts)
		results = []*driver.CheckResult{res}
	}

	out := cmd.OutOrStdout()
	errorCount := 0
	switch format {
	case "json":
		type fileReport struct {
			Path   string             `json:"path"`
			Report diagfmt.JSONReport `json:"report"`
		}
		reports := make([]fileReport, 0, len(results))
		for _, res := range results {
			report := diagfmt.BuildJSON(res.Bag, res.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         pathMode,
				IncludeNotes:     withNotes,
			})
			errorCount += report.Errors
			reports = append(reports, fileReport{Path: res.Path, Report: report})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	default:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     colorEnabled(colorMode),
			PathMode:  pathMode,
			ShowNotes: withNotes,
		}
		for _, res := range results {
			diagfmt.Pretty(out, res.Bag, res.FileSet, prettyOpts)
			if showTimings && res.Timing != nil {
				fmt.Fprint(out, res.Timing.Summary())
			}
			if res.HasErrors() {
				errorCount++
			}
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("check found errors in %s", path)
	}
	if !quiet && format == "pretty" {
		fmt.Fprintf(out, "checked %d file(s), no errors\n", len(results))
	}
	return nil
}

// loadManifestFor applies nearest-keel.toml defaults; absence of a
// manifest is not an error.
func loadManifestFor(path string, isDir bool) project.Manifest {
	startDir := path
	if !isDir {
		startDir = filepath.Dir(path)
	}
	manifestPath, ok, err := project.FindKeelToml(startDir)
	if err != nil || !ok {
		return project.DefaultManifest()
	}
	m, err := project.Load(manifestPath)
	if err != nil {
		return project.DefaultManifest()
	}
	return m
}

func parsePathMode(value string) (diagfmt.PathMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return diagfmt.PathModeAuto, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", value)
	}
}
