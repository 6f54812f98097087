package driver

import (
	"os"
	"time"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/observ"
	"keel/internal/sema"
	"keel/internal/source"
)

// CheckOptions configure one semantic run.
type CheckOptions struct {
	// MaxDiagnostics bounds the bag; zero means the default of 256.
	MaxDiagnostics int
	// DeclsOnly stops after declaration-shape resolution, leaving the
	// deferred carrier unfinalized.
	DeclsOnly bool
	// Timings appends the per-pass timing report as an info diagnostic.
	Timings bool
	// Progress receives stage events; may be nil.
	Progress ProgressSink
}

func (o CheckOptions) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 256
	}
	return o.MaxDiagnostics
}

// CheckResult is the outcome of checking one tree export.
type CheckResult struct {
	Path    string
	FileSet *source.FileSet
	ASTFile ast.FileID
	Ctx     *sema.Context
	Sema    sema.Result
	Bag     *diag.Bag
	Timing  *observ.Report
}

// HasErrors reports whether the run produced error diagnostics.
func (r *CheckResult) HasErrors() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// CheckFile loads one tree export from disk and runs the semantic
// pipeline over it.
func CheckFile(fileSet *source.FileSet, path string, opts CheckOptions) (*CheckResult, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		bag := diag.NewBag(opts.maxDiagnostics())
		diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOReadFailed, source.Span{},
			"failed to read input: "+err.Error()).Emit()
		emit(opts.Progress, path, StageIngest, StatusError, err, 0)
		return &CheckResult{Path: path, FileSet: fileSet, Bag: bag}, err
	}
	return CheckTree(fileSet, path, data, opts)
}

// CheckTree runs the semantic pipeline over one in-memory tree export.
func CheckTree(fileSet *source.FileSet, path string, data []byte, opts CheckOptions) (*CheckResult, error) {
	bag := diag.NewBag(opts.maxDiagnostics())
	res := &CheckResult{Path: path, FileSet: fileSet, Bag: bag}

	emit(opts.Progress, path, StageIngest, StatusWorking, nil, 0)
	start := time.Now()

	builder := ast.NewBuilder(ast.Hints{}, nil)
	fileID, err := Ingest(builder, fileSet, path, data)
	if err != nil {
		code := diag.IODecodeFailed
		if ie, ok := err.(*IngestError); ok && ie.Schema {
			code = diag.IOBadTreeSchema
		}
		diag.ReportError(diag.BagReporter{Bag: bag}, code, source.Span{}, err.Error()).Emit()
		emit(opts.Progress, path, StageIngest, StatusError, err, time.Since(start))
		return res, err
	}
	res.ASTFile = fileID

	stage := StageAnalyze
	if opts.DeclsOnly {
		stage = StageResolve
	}
	emit(opts.Progress, path, stage, StatusWorking, nil, 0)

	ctx := sema.NewContext(builder, diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
	ctx.AddFile(fileID)
	res.Ctx = ctx

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	if opts.DeclsOnly {
		res.Sema = sema.AnalyzeDecls(ctx, timer)
	} else {
		res.Sema = sema.Analyze(ctx, timer)
	}

	bag.Sort()
	if timer != nil {
		report := timer.Report()
		res.Timing = &report
		if opts.Timings {
			appendTimingDiagnostic(bag, timingPayload{
				Kind:    string(stage),
				Path:    path,
				TotalMS: report.TotalMS,
				Passes:  report.Passes,
			})
		}
	}

	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, path, stage, status, nil, time.Since(start))
	return res, nil
}
