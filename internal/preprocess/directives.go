package preprocess

import (
	"bytes"
	"fmt"
	"strings"

	"minic/internal/diag"
	"minic/internal/source"
)

// directive — разобранная строка, начинающаяся с '#'.
type directive struct {
	name  string   // "#define", "#ifdef", ... или "#" для пустой директивы
	args  []string // поля после имени
	start int      // смещение '#'
	end   int      // конец строки без хвостовых пробелов
	line  []byte   // строка от '#'
}

func parseDirective(text []byte, lineStart int) (directive, bool) {
	trimmed := bytes.TrimLeft(text, " \t\r\f\v")
	if len(trimmed) == 0 || trimmed[0] != '#' {
		return directive{}, false
	}
	body := bytes.TrimRight(trimmed, " \t\r\f\v")
	fields := strings.Fields(string(body))
	start := lineStart + len(text) - len(trimmed)
	return directive{
		name:  fields[0],
		args:  fields[1:],
		start: start,
		end:   start + len(body),
		line:  body,
	}, true
}

// argSpan returns the span of the n-th argument, or of the whole directive.
func (p *processor) argSpan(d directive, n int) source.Span {
	if n >= len(d.args) {
		return p.span(d.start, d.end)
	}
	off := len(d.name)
	for i := 0; i <= n; i++ {
		off += bytes.Index(d.line[off:], []byte(d.args[i]))
		if i < n {
			off += len(d.args[i])
		}
	}
	return p.span(d.start+off, d.start+off+len(d.args[n]))
}

// directive executes d and reports whether the line passes through unchanged.
func (p *processor) directive(d directive) bool {
	active := p.active()
	whole := p.span(d.start, d.end)

	switch d.name {
	case "#define", "#undef":
		p.res.Directives++
		if !active {
			return false
		}
		if len(d.args) == 0 {
			diag.ReportError(p.reporter, diag.PPInvalidDirective, whole,
				fmt.Sprintf("%s: missing macro name", d.name)).
				Emit()
			return false
		}
		name := d.args[0]
		if !ValidMacroName(name) {
			diag.ReportError(p.reporter, diag.PPInvalidMacroName, p.argSpan(d, 0),
				fmt.Sprintf("invalid macro name %q", name)).
				Emit()
			return false
		}
		if d.name == "#undef" {
			p.macros.Undefine(name)
			return false
		}
		_ = p.macros.Define(name, strings.Join(d.args[1:], " "))
		return false

	case "#ifdef", "#ifndef":
		p.res.Directives++
		frame := condFrame{span: whole, parent: active, directive: d.name}
		switch {
		case !active:
		case len(d.args) == 0:
			diag.ReportError(p.reporter, diag.PPInvalidDirective, whole,
				fmt.Sprintf("%s: missing macro name", d.name)).
				Emit()
		default:
			defined := p.macros.IsDefined(d.args[0])
			frame.taken = defined == (d.name == "#ifdef")
		}
		p.conds = append(p.conds, frame)
		return false

	case "#else":
		p.res.Directives++
		n := len(p.conds)
		if n == 0 {
			diag.ReportError(p.reporter, diag.PPUnmatchedElse, whole, "#else without #ifdef or #ifndef").Emit()
			return false
		}
		if p.conds[n-1].elseSeen {
			diag.ReportError(p.reporter, diag.PPUnmatchedElse, whole, "#else after #else").
				WithNote(p.conds[n-1].span, "conditional opened here").
				Emit()
			return false
		}
		p.conds[n-1].elseSeen = true
		return false

	case "#endif":
		p.res.Directives++
		n := len(p.conds)
		if n == 0 {
			diag.ReportError(p.reporter, diag.PPUnmatchedEndif, whole, "#endif without #ifdef or #ifndef").Emit()
			return false
		}
		p.conds = p.conds[:n-1]
		return false

	case "#":
		return false
	}

	// неизвестные директивы проходят как есть
	return true
}
