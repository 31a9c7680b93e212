package preprocess

import (
	"bytes"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"minic/internal/diag"
	"minic/internal/source"
)

// DefaultMaxExpansion bounds the expanded size of a single line.
const DefaultMaxExpansion = 1 << 20

type Options struct {
	Reporter diag.Reporter
	// File задаёт FileID для спанов диагностик.
	File source.FileID
	// PreserveLines blanks comments instead of removing them and keeps
	// directive and inactive lines as empty lines, so line numbers survive.
	PreserveLines bool
	// Defines are predefined macros, as from -D NAME=VALUE.
	Defines map[string]string
	// MaxExpansion is the per-line size limit in bytes; 0 means DefaultMaxExpansion.
	MaxExpansion int
}

type Result struct {
	Text       []byte
	Macros     *MacroTable // таблица на конец файла
	Directives int
	Expansions int
	Inactive   int // строки, выключенные условными директивами
	Errors     int
}

type condFrame struct {
	span      source.Span // директива, открывшая блок
	parent    bool        // активен ли внешний блок
	taken     bool        // результат #ifdef/#ifndef
	elseSeen  bool
	directive string
}

func (f condFrame) active() bool {
	return f.parent && f.taken != f.elseSeen
}

type processor struct {
	opts     Options
	reporter *diag.CountingReporter
	macros   *MacroTable
	exp      *expander
	conds    []condFrame
	reported map[string]bool // PP007 — один раз на макрос
	res      Result
}

// Process strips comments, executes directives and expands macros.
// It never fails: every problem is reported through opts.Reporter and the
// best-effort text is returned.
func Process(src []byte, opts Options) Result {
	if opts.MaxExpansion <= 0 {
		opts.MaxExpansion = DefaultMaxExpansion
	}
	p := &processor{
		opts:     opts,
		reporter: &diag.CountingReporter{Next: opts.Reporter},
		macros:   NewMacroTable(),
		reported: make(map[string]bool),
	}
	p.exp = newExpander(p.macros, opts.MaxExpansion)
	p.predefine()

	st := p.stripComments(src)
	out := make([][]byte, 0, bytes.Count(src, []byte{'\n'})+1)
	start := 0
	for {
		end := bytes.IndexByte(st.text[start:], '\n')
		if end < 0 {
			end = len(st.text)
		} else {
			end += start
		}
		if line, keep := p.processLine(src, st, start, end); keep {
			out = append(out, line)
		}
		if end == len(st.text) {
			break
		}
		start = end + 1
	}

	for _, f := range p.conds {
		diag.ReportError(p.reporter, diag.PPUnterminatedConditional, f.span,
			fmt.Sprintf("%s without matching #endif", f.directive)).
			WithNote(p.span(len(src), len(src)), "end of file here").
			Emit()
	}

	p.res.Text = bytes.Join(out, []byte{'\n'})
	p.res.Macros = p.macros
	p.res.Expansions = p.exp.count
	p.res.Errors = p.reporter.Errors
	return p.res
}

func (p *processor) predefine() {
	names := make([]string, 0, len(p.opts.Defines))
	for name := range p.opts.Defines {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := p.macros.Define(name, p.opts.Defines[name]); err != nil {
			diag.ReportError(p.reporter, diag.PPInvalidMacroName, p.span(0, 0),
				fmt.Sprintf("predefined macro: %v", err)).
				Emit()
		}
	}
}

// processLine handles the line st.text[start:end]; keep=false drops it from the output.
func (p *processor) processLine(src []byte, st stripped, start, end int) (out []byte, keep bool) {
	text := st.text[start:end]
	if d, ok := parseDirective(text, start); ok {
		if p.directive(d) && p.active() {
			return p.lineText(src, st, start, end), true
		}
		return nil, p.opts.PreserveLines
	}

	if !p.active() {
		p.res.Inactive++
		return nil, p.opts.PreserveLines
	}
	return p.expandLine(p.lineText(src, st, start, end), start, end), true
}

// lineText returns the line with comments blanked (PreserveLines) or removed.
func (p *processor) lineText(src []byte, st stripped, start, end int) []byte {
	if p.opts.PreserveLines {
		return st.text[start:end]
	}
	line := make([]byte, 0, end-start)
	for i := start; i < end; i++ {
		if !st.comment[i] {
			line = append(line, src[i])
		}
	}
	return line
}

func (p *processor) active() bool {
	if n := len(p.conds); n > 0 {
		return p.conds[n-1].active()
	}
	return true
}

// expandLine подставляет макросы в строку и репортит PP007/PP008 на слове верхнего уровня.
// Спаны точны при PreserveLines; без него комментарии удалены и спан указывает на всю строку.
func (p *processor) expandLine(line []byte, start, end int) []byte {
	if p.macros.Len() == 0 {
		return line
	}
	wordSpan := func(i, j int) source.Span {
		if p.opts.PreserveLines {
			return p.span(start+i, start+j)
		}
		return p.span(start, end)
	}

	dst := make([]byte, 0, len(line))
	for i := 0; i < len(line); {
		b := line[i]
		switch {
		case b == '"' || b == '\'':
			j := skipQuoted(line, i)
			dst = append(dst, line[i:j]...)
			i = j
		case isWordByte(b):
			j := i
			for j < len(line) && isWordByte(line[j]) {
				j++
			}
			word := string(line[i:j])
			if isDigit(b) {
				dst = append(dst, word...)
				i = j
				continue
			}
			p.exp.reset()
			dst = p.exp.expandWord(dst, word)
			if name := p.exp.recursive; name != "" && !p.reported[name] {
				p.reported[name] = true
				diag.ReportError(p.reporter, diag.PPMacroRecursion, wordSpan(i, j),
					fmt.Sprintf("recursive expansion of macro %q", name)).
					WithNote(wordSpan(i, j), fmt.Sprintf("while expanding %q", word)).
					Emit()
			}
			if p.exp.overflow {
				diag.ReportError(p.reporter, diag.PPExpansionLimit, wordSpan(i, j),
					fmt.Sprintf("expansion of %q exceeds %d bytes, left unexpanded", word, p.opts.MaxExpansion)).
					Emit()
				dst = append(dst, line[j:]...)
				return dst
			}
			i = j
		default:
			dst = append(dst, b)
			i++
		}
	}
	return dst
}

func (p *processor) span(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{File: p.opts.File, Start: s, End: e}
}
