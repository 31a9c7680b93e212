// Package fix applies the text edits attached to diagnostics.
package fix

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"minic/internal/diag"
	"minic/internal/source"
)

// ErrNoFixes is returned when nothing could be applied.
var ErrNoFixes = errors.New("no applicable fixes found")


// Mode selects which fixes are applied.
type Mode uint8

const (
	ModeFirst Mode = iota // только первый применимый fix
	ModeAll
)

// Options configures Apply.
type Options struct {
	Mode Mode
	// Codes limits fixes to these diagnostic codes; empty means any.
	Codes []diag.Code
}

// Applied records a fix that made it into the output.
type Applied struct {
	Code  diag.Code
	Title string
	At    source.Span
	Edits int
}

// Skipped records a fix that was left out and why.
type Skipped struct {
	Code   diag.Code
	Title  string
	At     source.Span
	Reason string
}

// Result holds the rewritten text. Content is in the on-disk form: a
// stripped BOM and CRLF line endings are restored.
type Result struct {
	Path    string
	Content []byte
	Applied []Applied
	Skipped []Skipped
}

type candidate struct {
	d     diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply selects fixes for file from diagnostics and applies their edits to
// a copy of the content. Fixes are taken in source order; a fix whose edits
// overlap an already accepted one is skipped as a whole.
func Apply(file *source.File, diagnostics []diag.Diagnostic, opts Options) (*Result, error) {
	if file == nil {
		return nil, fmt.Errorf("fix: nil file")
	}
	res := &Result{Path: file.Path}

	cands := gather(file, diagnostics, opts, res)
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i].d.Primary, cands[j].d.Primary
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return cands[i].order < cands[j].order
	})

	var accepted []diag.FixEdit
	for _, c := range cands {
		if opts.Mode == ModeFirst && len(res.Applied) > 0 {
			break
		}
		if reason := validate(file, accepted, c.fix.Edits); reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Code: c.d.Code, Title: c.fix.Title, At: c.d.Primary, Reason: reason})
			continue
		}
		accepted = append(accepted, c.fix.Edits...)
		res.Applied = append(res.Applied, Applied{Code: c.d.Code, Title: c.fix.Title, At: c.d.Primary, Edits: len(c.fix.Edits)})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	res.Content = restore(rewrite(file.Content, accepted), file.Flags)
	return res, nil
}

// gather collects fixes with edits; advice-only fixes and filtered codes
// are dropped without a record.
func gather(file *source.File, diagnostics []diag.Diagnostic, opts Options, res *Result) []candidate {
	allowed := func(code diag.Code) bool {
		if len(opts.Codes) == 0 {
			return true
		}
		for _, c := range opts.Codes {
			if c == code {
				return true
			}
		}
		return false
	}

	var out []candidate
	for _, d := range diagnostics {
		if !allowed(d.Code) {
			continue
		}
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			if d.Primary.File != file.ID {
				res.Skipped = append(res.Skipped, Skipped{Code: d.Code, Title: f.Title, At: d.Primary, Reason: "diagnostic belongs to another file"})
				continue
			}
			out = append(out, candidate{d: d, fix: f, order: len(out)})
			// у диагностики применяем только первый вариант
			break
		}
	}
	return out
}

func validate(file *source.File, accepted, edits []diag.FixEdit) string {
	n := file.Len()
	for i, e := range edits {
		if e.Span.File != file.ID {
			return "edit targets another file"
		}
		if e.Span.End < e.Span.Start || e.Span.End > n {
			return "edit span out of range"
		}
		for _, prev := range accepted {
			if conflict(prev.Span, e.Span) {
				return "conflicts with an earlier fix"
			}
		}
		for _, other := range edits[:i] {
			if conflict(other.Span, e.Span) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// conflict reports whether two half-open spans overlap. Two insertions at
// the same offset conflict too: their order would be arbitrary.
func conflict(a, b source.Span) bool {
	if a.Empty() && b.Empty() {
		return a.Start == b.Start
	}
	if a.Empty() {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// rewrite applies non-overlapping edits, right to left so offsets stay valid.
func rewrite(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start > sorted[j].Span.Start
	})
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		tail := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), tail...)
	}
	return out
}

func restore(content []byte, flags source.FileFlags) []byte {
	if flags&source.FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte{'\n'}, []byte{'\r', '\n'})
	}
	if flags&source.FileHadBOM != 0 {
		content = append([]byte{0xEF, 0xBB, 0xBF}, content...)
	}
	return content
}

// Write stores res.Content over the original file, keeping its mode.
func Write(res *Result) error {
	if res == nil || res.Content == nil {
		return ErrNoFixes
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(res.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(res.Path, res.Content, mode); err != nil {
		return fmt.Errorf("write %s: %w", res.Path, err)
	}
	return nil
}
