package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"keel/internal/source"
)

// treeExt is the extension of front-end tree exports.
const treeExt = ".kl.json"

// ListTreeFiles returns every tree export under dir, sorted for
// deterministic run order.
func ListTreeFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, treeExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every tree export under dir. Files are independent
// programs, so they run in parallel up to jobs goroutines (GOMAXPROCS
// when jobs <= 0); results come back in path order regardless of
// completion order. Each file gets its own FileSet and context, so no
// state is shared across goroutines.
func CheckDir(ctx context.Context, dir string, opts CheckOptions, jobs int) ([]*CheckResult, error) {
	files, err := ListTreeFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	for _, path := range files {
		emit(opts.Progress, path, StageIngest, StatusQueued, nil, 0)
	}

	// Indexes are unique per goroutine, so the slice needs no lock.
	results := make([]*CheckResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fileSet := source.NewFileSet()
			fileSet.SetBaseDir(dir)
			res, err := CheckFile(fileSet, path, opts)
			if err != nil {
				// The failure is already in the bag; the run goes on so
				// sibling files still get checked.
				res.Bag.Sort()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
