package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"minic/internal/source"
)

// FormatGoldenDiagnostics renders diagnostics one per line as
// "severity CODE path:line:col message", in span order (IntoSorted rules).
// Notes follow their diagnostic as "note" lines when includeNotes is set.
// The result is stable and suitable for golden files and fixture expectations.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sortByStart(sorted)

	lines := make([]string, 0, len(sorted))
	for i := range sorted {
		d := &sorted[i]
		lines = append(lines, goldenLine(d.Severity.Label(), d.Code, d.Primary, d.Message, fs))
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			lines = append(lines, goldenLine("note", d.Code, note.Span, note.Msg, fs))
		}
	}
	return strings.Join(lines, "\n")
}

func goldenLine(label string, code Code, span source.Span, msg string, fs *source.FileSet) string {
	file := fs.Get(span.File)
	pos := file.Position(span.Start)
	path := normalizePath(file.FormatPath("relative", fs.BaseDir()))
	return fmt.Sprintf("%s %s %s:%d:%d %s", label, code.ID(), path, pos.Line, pos.Col, sanitizeMessage(msg))
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
