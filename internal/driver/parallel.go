package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"minic/internal/trace"
)

// FileResult is one entry of a multi-file run. Exactly one of Result and Err is set.
type FileResult struct {
	Path   string
	Result *Result
	Err    error // load failure, size limit
}

// DirResult holds per-file results in the order of the input paths.
type DirResult struct {
	Files []FileResult
}

// OK is false when any file failed to load or did not pass.
func (d *DirResult) OK() bool {
	for _, f := range d.Files {
		if f.Err != nil || f.Result == nil || !f.Result.OK {
			return false
		}
	}
	return true
}

// Totals sums diagnostics over all files.
func (d *DirResult) Totals() (errs, warns, failedLoads int) {
	for _, f := range d.Files {
		if f.Err != nil {
			failedLoads++
			continue
		}
		errs += f.Result.Errors
		warns += f.Result.Warnings
	}
	return errs, warns, failedLoads
}

// ListSourceFiles returns every *.mc file under dir, sorted.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git, .cache) не обходим
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every source file under dir in parallel.
func CheckDir(ctx context.Context, dir string, opts Options, jobs int) (*DirResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	return CheckFiles(ctx, files, opts, jobs)
}

// CheckFiles checks paths with at most jobs workers (<= 0: GOMAXPROCS).
// Each file gets its own FileSet and bag; results keep the input order.
func CheckFiles(ctx context.Context, paths []string, opts Options, jobs int) (*DirResult, error) {
	return runFiles(ctx, paths, modeCheck, opts, jobs)
}

func runFiles(ctx context.Context, paths []string, m mode, opts Options, jobs int) (*DirResult, error) {
	out := &DirResult{Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return out, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, m.String()+"-files")
	defer span.End("")

	for _, path := range paths {
		opts.emit(path, StageLoad, StatusQueued)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fctx, fspan := trace.Start(gctx, trace.ScopeFile, "file:"+path)
			res, err := runPath(fctx, path, m, opts)
			fspan.End("")
			out.Files[i] = FileResult{Path: path, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
