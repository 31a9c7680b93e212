package main

import (
	"fmt"
	"io"
	"os"

	"minic/internal/diag"
	"minic/internal/diagfmt"
	"minic/internal/driver"
	"minic/internal/source"
	"minic/internal/version"
)

// openOutput returns stdout for "" and "-", otherwise creates the file.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	// #nosec G304 -- path comes from --output
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// closeOutput runs closeOut and keeps its error unless *err is already set.
func closeOutput(closeOut func() error, err *error) {
	if cerr := closeOut(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close output: %w", cerr)
	}
}

func (s *settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.colorErr,
		Context:   1,
		PathMode:  s.pathMode,
		ShowNotes: true,
		ShowFixes: true,
	}
}

func (s *settings) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.pathMode,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}
}

func sarifMeta() diagfmt.SarifRunMeta {
	return diagfmt.SarifRunMeta{
		ToolName:       "minic",
		ToolVersion:    version.Version,
		InvocationArgs: os.Args[1:],
	}
}

// renderDiagnostics writes one file's diagnostics. Human formats go to
// stderr, machine formats to stdout.
func (s *settings) renderDiagnostics(stdout, stderr io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	switch s.format {
	case "json":
		return diagfmt.JSON(stdout, bag, fs, s.jsonOpts())
	case "sarif":
		return diagfmt.Sarif(stdout, bag, fs, sarifMeta())
	case "short":
		diagfmt.Short(stderr, bag, fs, s.pathMode)
	default:
		diagfmt.Pretty(stderr, bag, fs, s.prettyOpts())
		if !s.quiet && bag.Len() > 0 {
			diagfmt.Summary(stderr, bag, s.colorErr)
		}
	}
	return nil
}

// renderFiles writes a multi-file run. Load errors are reported on stderr
// in every format.
func (s *settings) renderFiles(stdout, stderr io.Writer, res *driver.DirResult) error {
	units := make([]diagfmt.Unit, 0, len(res.Files))
	paths := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", f.Path, f.Err)
			continue
		}
		units = append(units, diagfmt.Unit{Bag: f.Result.Bag, FileSet: f.Result.FileSet})
		paths = append(paths, f.Path)
	}

	switch s.format {
	case "json":
		return diagfmt.JSONUnits(stdout, paths, units, s.jsonOpts())
	case "sarif":
		return diagfmt.SarifUnits(stdout, units, sarifMeta())
	case "short":
		for _, u := range units {
			diagfmt.Short(stderr, u.Bag, u.FileSet, s.pathMode)
		}
	default:
		for _, u := range units {
			diagfmt.Pretty(stderr, u.Bag, u.FileSet, s.prettyOpts())
		}
		if !s.quiet {
			errs, warns, failed := res.Totals()
			fmt.Fprintf(stderr, "checked %s: %s, %s", plural(len(res.Files), "file"), plural(errs, "error"), plural(warns, "warning"))
			if failed > 0 {
				fmt.Fprintf(stderr, ", %d not loaded", failed)
			}
			fmt.Fprintln(stderr)
		}
	}
	return nil
}

func (s *settings) printTimings(w io.Writer) {
	if s.timer != nil {
		fmt.Fprint(w, s.timer.Summary())
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
