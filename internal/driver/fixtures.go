package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFixtureModules are the suites looked up under the fixture root.
var DefaultFixtureModules = []string{"lexer", "common"}

// FixtureKind says what a fixture is expected to produce.
type FixtureKind uint8

const (
	FixtureValid   FixtureKind = iota // zero errors
	FixtureInvalid                    // at least one error
)

func (k FixtureKind) String() string {
	if k == FixtureInvalid {
		return "invalid"
	}
	return "valid"
}

// FixtureCase is the outcome of one fixture file.
type FixtureCase struct {
	Module   string
	Kind     FixtureKind
	Path     string
	Errors   int
	Warnings int
	Passed   bool
	Err      error
	Result   *Result
}

// FixtureReport aggregates a fixture run.
type FixtureReport struct {
	Cases   []FixtureCase
	Passed  int
	Failed  int
	Missing []string // modules without a directory under the root
}

// OK is true when every case passed and at least one ran.
func (r *FixtureReport) OK() bool {
	return r.Failed == 0 && r.Passed > 0
}

// RunFixtures runs root/<module>/{valid,invalid}/*.mc. The "lexer" suite
// only tokenizes; every other suite also runs the checker. Warnings never
// fail a fixture.
func RunFixtures(ctx context.Context, root string, modules []string, opts Options, jobs int) (*FixtureReport, error) {
	if len(modules) == 0 {
		modules = DefaultFixtureModules
	}
	opts.Strict = false
	opts.Cache = nil

	report := &FixtureReport{}
	for _, module := range modules {
		modDir := filepath.Join(root, module)
		if _, err := os.Stat(modDir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				report.Missing = append(report.Missing, module)
				continue
			}
			return nil, err
		}
		m := modeCheck
		if module == "lexer" {
			m = modeTokenize
		}
		for _, kind := range []FixtureKind{FixtureValid, FixtureInvalid} {
			dir := filepath.Join(modDir, kind.String())
			if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
				continue
			}
			files, err := ListSourceFiles(dir)
			if err != nil {
				return nil, err
			}
			res, err := runFiles(ctx, files, m, opts, jobs)
			if err != nil {
				return nil, err
			}
			for _, f := range res.Files {
				report.add(module, kind, f)
			}
		}
	}
	if len(report.Cases) == 0 {
		return report, fmt.Errorf("no fixtures found under %s", root)
	}
	return report, nil
}

func (r *FixtureReport) add(module string, kind FixtureKind, f FileResult) {
	c := FixtureCase{Module: module, Kind: kind, Path: f.Path, Err: f.Err, Result: f.Result}
	if f.Result != nil {
		c.Errors = f.Result.Errors
		c.Warnings = f.Result.Warnings
		switch kind {
		case FixtureValid:
			c.Passed = c.Errors == 0
		case FixtureInvalid:
			c.Passed = c.Errors > 0
		}
	}
	if c.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
	r.Cases = append(r.Cases, c)
}

// ListFixtureFiles returns every fixture file RunFixtures would visit, in
// run order. Missing modules are skipped.
func ListFixtureFiles(root string, modules []string) ([]string, error) {
	if len(modules) == 0 {
		modules = DefaultFixtureModules
	}
	var out []string
	for _, module := range modules {
		for _, kind := range []FixtureKind{FixtureValid, FixtureInvalid} {
			dir := filepath.Join(root, module, kind.String())
			if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
				continue
			}
			files, err := ListSourceFiles(dir)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
		}
	}
	return out, nil
}
