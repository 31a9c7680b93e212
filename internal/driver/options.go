package driver

import (
	"fmt"

	"minic/internal/lexer"
	"minic/internal/observ"
)

const (
	// DefaultMaxDiagnostics caps a single file's bag.
	DefaultMaxDiagnostics = 100
	// DefaultMaxFileSize is the input limit when Options.MaxFileSize is zero.
	DefaultMaxFileSize int64 = 1 << 20
	// SourceExt is the extension collected by directory runs.
	SourceExt = ".mc"
)

// Options configures one pipeline run. The zero value lexes with the
// default width, keeps at most DefaultMaxDiagnostics and does not preprocess.
type Options struct {
	// Lexer.Reporter is ignored: the driver wires its own bag.
	Lexer lexer.Options
	// Strict makes warnings fail the run.
	Strict bool
	// MaxDiagnostics <= 0 means DefaultMaxDiagnostics.
	MaxDiagnostics int
	// MaxFileSize 0 means DefaultMaxFileSize, negative means unlimited.
	MaxFileSize int64
	// BaseDir anchors relative paths in output; empty means the working directory.
	BaseDir string

	// Preprocess runs the preprocessor before lexing; Full forces it.
	Preprocess    bool
	PreserveLines bool
	Defines       map[string]string

	Timer    *observ.Timer // nil disables phase timings
	Observer Observer      // nil disables progress events
	Cache    *DiskCache    // nil disables the check cache
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// MaxInputSize is the byte limit for any input, stdin included; 0 means unlimited.
func (o Options) MaxInputSize() int64 {
	return o.maxFileSize()
}

func (o Options) maxFileSize() int64 {
	switch {
	case o.MaxFileSize == 0:
		return DefaultMaxFileSize
	case o.MaxFileSize < 0:
		return 0
	}
	return o.MaxFileSize
}

// fingerprint covers every option that changes check output; it is part of the cache key.
func (o Options) fingerprint() string {
	return fmt.Sprintf("bits=%d overflow=%s max_tokens=%d fail_fast=%t strict=%t max_diag=%d",
		o.Lexer.MaxInt(), o.Lexer.Overflow, o.Lexer.MaxTokens, o.Lexer.FailFast, o.Strict, o.maxDiagnostics())
}

func (o Options) emit(file string, stage Stage, status Status) {
	if o.Observer != nil {
		o.Observer(Event{File: file, Stage: stage, Status: status})
	}
}
