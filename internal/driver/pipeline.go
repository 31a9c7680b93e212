package driver

import (
	"context"
	"fmt"
	"strconv"

	"minic/internal/checker"
	"minic/internal/diag"
	"minic/internal/lexer"
	"minic/internal/preprocess"
	"minic/internal/source"
	"minic/internal/token"
	"minic/internal/trace"
)

type mode uint8

const (
	modeTokenize mode = iota
	modeCheck
	modeFull
	modeExpand
)

func (m mode) String() string {
	switch m {
	case modeCheck:
		return "check"
	case modeFull:
		return "full"
	case modeExpand:
		return "expand"
	}
	return "tokenize"
}

// Result is the outcome of one pipeline run over one file.
type Result struct {
	FileSet *source.FileSet
	// Source is the file as loaded. File is what the lexer saw: the same file,
	// or the preprocessed text registered under the same path.
	Source *source.File
	File   *source.File
	Tokens []token.Token // nil when served from the cache
	Bag    *diag.Bag

	Preprocess *preprocess.Result // nil unless preprocessing ran
	Check      *checker.Result    // nil for Tokenize

	// Errors and Warnings count every reported diagnostic, including those
	// the bag dropped over its limit.
	Errors   int
	Warnings int
	OK       bool
	Cached   bool
}

// Tokenize loads path and lexes it.
func Tokenize(ctx context.Context, path string, opts Options) (*Result, error) {
	return runPath(ctx, path, modeTokenize, opts)
}

// Check loads path, lexes it and runs the structural checker.
func Check(ctx context.Context, path string, opts Options) (*Result, error) {
	return runPath(ctx, path, modeCheck, opts)
}

// Full preprocesses, lexes and checks path regardless of opts.Preprocess.
func Full(ctx context.Context, path string, opts Options) (*Result, error) {
	return runPath(ctx, path, modeFull, opts)
}

// Expand only preprocesses path. Tokens and Check stay nil.
func Expand(ctx context.Context, path string, opts Options) (*Result, error) {
	return runPath(ctx, path, modeExpand, opts)
}

// ExpandText is Expand for in-memory text.
func ExpandText(ctx context.Context, name string, text []byte, opts Options) *Result {
	fs, id := virtualFile(name, text, opts)
	return run(ctx, fs, id, modeExpand, opts)
}

// TokenizeText lexes in-memory text, e.g. stdin, under the given display name.
func TokenizeText(ctx context.Context, name string, text []byte, opts Options) *Result {
	fs, id := virtualFile(name, text, opts)
	return run(ctx, fs, id, modeTokenize, opts)
}

// CheckText is Check for in-memory text.
func CheckText(ctx context.Context, name string, text []byte, opts Options) *Result {
	fs, id := virtualFile(name, text, opts)
	return run(ctx, fs, id, modeCheck, opts)
}

// FullText is Full for in-memory text.
func FullText(ctx context.Context, name string, text []byte, opts Options) *Result {
	fs, id := virtualFile(name, text, opts)
	return run(ctx, fs, id, modeFull, opts)
}

func virtualFile(name string, text []byte, opts Options) (*source.FileSet, source.FileID) {
	fs := newFileSet(opts)
	content, flags := source.Normalize(text)
	return fs, fs.Add(name, content, flags|source.FileVirtual)
}

func runPath(ctx context.Context, path string, m mode, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.emit(path, StageLoad, StatusWorking)
	fs := newFileSet(opts)
	id, err := fs.Load(path, opts.maxFileSize())
	if err != nil {
		opts.emit(path, StageLoad, StatusError)
		return nil, err
	}
	return run(ctx, fs, id, m, opts), nil
}

func newFileSet(opts Options) *source.FileSet {
	fs := source.NewFileSet()
	if opts.BaseDir != "" {
		fs.SetBaseDir(opts.BaseDir)
	}
	return fs
}

func run(ctx context.Context, fs *source.FileSet, id source.FileID, m mode, opts Options) *Result {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	src := fs.Get(id)
	res := &Result{FileSet: fs, Source: src, File: src}

	if m == modeCheck && !opts.Preprocess && opts.Cache != nil {
		if hit := lookupCache(opts, src, res); hit {
			trace.Point(tracer, trace.ScopeFile, "cache-hit", src.Path, parent)
			opts.emit(src.Path, StageCheck, StatusCached)
			return res
		}
	}

	bag := diag.NewBag(opts.maxDiagnostics())
	counter := &diag.CountingReporter{Next: diag.BagReporter{Bag: bag}}
	res.Bag = bag

	if m == modeFull || m == modeExpand || opts.Preprocess {
		opts.emit(src.Path, StagePreprocess, StatusWorking)
		done := opts.Timer.Track("preprocess")
		span := trace.Begin(tracer, trace.ScopePass, "preprocess", parent)
		pp := preprocess.Process(src.Content, preprocess.Options{
			Reporter:      counter,
			File:          src.ID,
			PreserveLines: opts.PreserveLines,
			Defines:       opts.Defines,
		})
		res.Preprocess = &pp
		ppID := fs.Add(src.Path, pp.Text, src.Flags|source.FileVirtual)
		// Add may grow the backing slice, refetch both
		res.Source = fs.Get(id)
		res.File = fs.Get(ppID)
		note := fmt.Sprintf("%d directives, %d expansions", pp.Directives, pp.Expansions)
		span.WithExtra("macros", strconv.Itoa(pp.Macros.Len())).End(note)
		done(note)
	}

	if m == modeExpand {
		return finish(res, counter, m, opts)
	}

	opts.emit(src.Path, StageLex, StatusWorking)
	done := opts.Timer.Track("lex")
	span := trace.Begin(tracer, trace.ScopePass, "lex", parent)
	lexOpts := opts.Lexer
	lexOpts.Reporter = counter
	res.Tokens = lexer.Tokenize(res.File, lexOpts)
	note := strconv.Itoa(len(res.Tokens)) + " tokens"
	span.End(note)
	done(note)

	if m != modeTokenize {
		opts.emit(src.Path, StageCheck, StatusWorking)
		done := opts.Timer.Track("check")
		span := trace.Begin(tracer, trace.ScopePass, "check", parent)
		cr := checker.Check(res.Tokens, checker.Options{Reporter: counter, Strict: opts.Strict})
		res.Check = &cr
		note := fmt.Sprintf("%d functions, %d vars", cr.Functions, cr.Vars)
		span.End(note)
		done(note)
	}

	return finish(res, counter, m, opts)
}

func finish(res *Result, counter *diag.CountingReporter, m mode, opts Options) *Result {
	src := res.Source
	res.Errors = counter.Errors
	res.Warnings = counter.Warnings
	res.OK = res.Errors == 0 && (!opts.Strict || res.Warnings == 0)

	if m == modeCheck && !opts.Preprocess && opts.Cache != nil {
		storeCache(opts, res)
	}
	if res.OK {
		opts.emit(src.Path, stageOf(m), StatusDone)
	} else {
		opts.emit(src.Path, stageOf(m), StatusError)
	}
	return res
}

func stageOf(m mode) Stage {
	switch m {
	case modeTokenize:
		return StageLex
	case modeExpand:
		return StagePreprocess
	}
	return StageCheck
}
