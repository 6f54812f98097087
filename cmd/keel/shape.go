package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"keel/internal/driver"
	"keel/internal/source"
)

var shapeCmd = &cobra.Command{
	Use:   "shape [flags] <file.kl.json>",
	Short: "Export resolved declaration shapes as JSON",
	Long:  `Shape resolves declarations only and prints every type with its fields and method signatures; results are cached by input hash`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShape,
}

func init() {
	shapeCmd.Flags().String("cache-dir", "", "shape cache directory (empty disables the cache)")
	shapeCmd.Flags().Bool("no-cache", false, "skip the cache even when a directory is set")
}

func runShape(cmd *cobra.Command, args []string) error {
	path := args[0]

	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}

	var cache *driver.ShapeCache
	if cacheDir != "" && !noCache {
		cache, err = driver.NewShapeCache(cacheDir)
		if err != nil {
			return err
		}
	}

	var key string
	if cache != nil {
		key = cache.Key(data)
		if payload, err := cache.Load(key); err == nil {
			return writeShape(cmd.OutOrStdout(), payload.Shape)
		} else if !errors.Is(err, driver.ErrCacheMiss) {
			return err
		}
	}

	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(filepath.Dir(path))
	res, err := driver.CheckTree(fileSet, path, data, driver.CheckOptions{
		MaxDiagnostics: maxDiagnostics,
		DeclsOnly:      true,
	})
	if err != nil {
		return err
	}

	shape := driver.BuildShape(res.Ctx)
	if cache != nil {
		payload := &driver.ShapePayload{
			Path:      path,
			InputHash: key,
			Stored:    time.Now().UTC(),
			HadErrors: res.HasErrors(),
			Shape:     shape,
		}
		if err := cache.Store(key, payload); err != nil {
			return err
		}
	}
	return writeShape(cmd.OutOrStdout(), shape)
}

func writeShape(out io.Writer, shape *driver.ShapeExport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(shape)
}
