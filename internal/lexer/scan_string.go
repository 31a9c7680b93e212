package lexer

import (
	"fmt"

	"minic/internal/diag"
	"minic/internal/token"
)

// "..." с escape \n \t \r \\ \" \'. Неизвестный escape — LEX006, литерал продолжается.
// Перевод строки или EOF до закрывающей кавычки — LEX002 и Invalid токен до этого места.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			return lx.tokenFrom(token.StringLit, start)
		case '\n':
			return lx.unterminatedString(start)
		case '\\':
			esc := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
				continue
			}
			next, _ := lx.peekRune()
			lx.bumpRune()
			if !isValidEscape(next) {
				sp := lx.cursor.SpanFrom(esc)
				lx.errLex(diag.LexInvalidEscape, sp,
					fmt.Sprintf("invalid escape sequence %q", string(lx.file.Content[sp.Start:sp.End]))).
					WithFix(`use one of \n, \t, \r, \\, \", \'`).
					Emit()
			}
		default:
			lx.bumpRune()
		}
	}
	return lx.unterminatedString(start)
}

func (lx *Lexer) unterminatedString(start Mark) token.Token {
	tok := lx.tokenFrom(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal").
		WithFix(`add the closing " before the end of the line`).
		Emit()
	return tok
}

func isValidEscape(r rune) bool {
	switch r {
	case 'n', 't', 'r', '\\', '"', '\'':
		return true
	}
	return false
}
