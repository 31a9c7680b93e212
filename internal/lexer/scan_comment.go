package lexer

import (
	"minic/internal/diag"
	"minic/internal/token"
)

// scanComment разбирает //... до '\n' (не включая) и вложенные /* ... */.
// Вызывается только когда atCommentStart() == true.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Bump() == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return lx.tokenFrom(token.Comment, start)
	}

	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch {
		case lx.try2('/', '*'):
			depth++
		case lx.try2('*', '/'):
			depth--
		default:
			lx.cursor.Bump()
		}
	}

	tok := lx.tokenFrom(token.Comment, start)
	if depth > 0 {
		// комментарий съедает всё до EOF, ошибка указывает на открывающий "/*"
		opener := tok.Span
		opener.End = opener.Start + 2
		lx.errLex(diag.LexUnterminatedBlockComment, opener, "reached end of file inside block comment").
			WithNote(lx.emptySpan(), "end of file here").
			WithFix("add */ to close the comment", diag.FixEdit{Span: lx.emptySpan(), NewText: "*/"}).
			Emit()
	}
	return tok
}
