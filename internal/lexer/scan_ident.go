package lexer

import (
	"fmt"

	"minic/internal/diag"
	"minic/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Ключевые слова регистрозависимые (только lowercase). Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	tok := lx.tokenFrom(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
		return tok
	}

	if n := len(tok.Text); n > MaxIdentLength {
		lx.errLex(diag.LexIdentTooLong, tok.Span,
			fmt.Sprintf("identifier is %d characters long, the limit is %d", n, MaxIdentLength)).
			WithFix(fmt.Sprintf("shorten the name to at most %d characters", MaxIdentLength)).
			Emit()
	}
	return tok
}
