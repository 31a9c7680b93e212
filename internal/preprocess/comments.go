package preprocess

import (
	"bytes"

	"minic/internal/diag"
)

// stripped — исходник с замаскированными комментариями.
// text имеет ту же длину, что и вход: байты комментариев заменены пробелами,
// переводы строк сохранены. comment[i] отмечает байты комментариев (кроме '\n').
type stripped struct {
	text    []byte
	comment []bool
}

// stripComments masks // and /* */ comments outside string and char literals.
// Block comments do not nest. An unterminated block comment runs to the end
// of input and is reported as PP001 at its opener.
func (p *processor) stripComments(src []byte) stripped {
	st := stripped{
		text:    bytes.Clone(src),
		comment: make([]bool, len(src)),
	}
	mask := func(from, to int) {
		for j := from; j < to; j++ {
			if src[j] == '\n' {
				continue
			}
			st.text[j] = ' '
			st.comment[j] = true
		}
	}

	var inString, inChar, escape bool
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case escape:
			escape = false
			if c == '\n' {
				inString, inChar = false, false
			}
		case inString || inChar:
			switch {
			case c == '\\':
				escape = true
			case c == '\n':
				// литерал не переходит через строку, это уже забота лексера
				inString, inChar = false, false
			case c == '"' && inString:
				inString = false
			case c == '\'' && inChar:
				inChar = false
			}
		case c == '"':
			inString = true
		case c == '\'':
			inChar = true
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := bytes.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src)
			} else {
				end += i
			}
			mask(i, end)
			i = end - 1
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := len(src)
			if k := bytes.Index(src[i+2:], []byte("*/")); k >= 0 {
				end = i + 2 + k + 2
			} else {
				diag.ReportError(p.reporter, diag.PPUnterminatedComment, p.span(i, i+2),
					"unterminated block comment").
					WithNote(p.span(len(src), len(src)), "end of file here").
					Emit()
			}
			mask(i, end)
			i = end - 1
		}
	}
	return st
}
