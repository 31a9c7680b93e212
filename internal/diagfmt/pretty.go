package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"minic/internal/diag"
	"minic/internal/source"
)

type palette struct {
	err, warn, info, path, gutter, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.gutter, p.note, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке позиций.
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем заметки и исправления.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.IntoSorted() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostic(s) not shown (limit %d)\n", n, bag.Cap())
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start := f.Position(d.Primary.Start)
	sevColor := pal.severity(d.Severity)

	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col),
		sevColor.Sprint(d.Severity.String()),
		sevColor.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(w, f, d.Primary, int(opts.Context), sevColor, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			np := fs.Get(n.Span.File).Position(n.Span.Start)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
				displayPath(fs, n.Span.File, opts.PathMode), np.Line, np.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.fix.Sprint("fix:"), fx.Title)
			for _, e := range fx.Edits {
				ep := fs.Get(e.Span.File).Position(e.Span.Start)
				if e.NewText == "" {
					fmt.Fprintf(w, "       delete %q at %d:%d\n", f.Slice(e.Span), ep.Line, ep.Col)
				} else {
					fmt.Fprintf(w, "       insert %q at %d:%d\n", e.NewText, ep.Line, ep.Col)
				}
			}
		}
	}
}

// writeSnippet печатает строки [line-context, line] и каретку под span.
func writeSnippet(w io.Writer, f *source.File, sp source.Span, context int, sevColor *color.Color, pal palette) {
	start := f.Position(sp.Start)
	end := f.Position(sp.End)
	first := max(int(start.Line)-context, 1)
	width := len(fmt.Sprint(start.Line))

	gutter := func(label string) string {
		return pal.gutter.Sprintf("%*s |", width, label)
	}
	for ln := first; ln <= int(start.Line); ln++ {
		fmt.Fprintf(w, "%s %s\n", gutter(fmt.Sprint(ln)), f.GetLine(uint32(ln))) // #nosec G115 -- line numbers come from the file
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col)-1, len(line))
	// многострочный span подчёркиваем до конца первой строки
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(line))
	}
	pad := caretPadding(line[:col])
	n := max(runewidth.StringWidth(line[col:max(stop, col)]), 1)
	marker := "^" + strings.Repeat("~", n-1)
	fmt.Fprintf(w, "%s %s%s\n", gutter(""), pad, sevColor.Sprint(marker))
}

// caretPadding повторяет табы и заменяет остальное пробелами по ширине рун.
func caretPadding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

// Summary печатает итоговую строку вида "2 errors, 1 warning".
func Summary(w io.Writer, bag *diag.Bag, colored bool) {
	pal := newPalette(colored)
	errs, warns := bag.ErrorCount(), bag.WarningCount()
	if errs == 0 && warns == 0 {
		fmt.Fprintln(w, pal.fix.Sprint("no problems found"))
		return
	}
	parts := make([]string, 0, 2)
	if errs > 0 {
		parts = append(parts, pal.err.Sprint(plural(errs, "error")))
	}
	if warns > 0 {
		parts = append(parts, pal.warn.Sprint(plural(warns, "warning")))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
