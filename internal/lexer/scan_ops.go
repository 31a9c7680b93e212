package lexer

import (
	"fmt"
	"unicode/utf8"

	"minic/internal/diag"
	"minic/internal/token"
)

// Жадность: сначала 2-символьные, затем 1-символьные.
// Одиночные '&' и '|' операторами не являются и уходят в LEX001.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		return lx.tokenFrom(k, start)
	}

	switch {
	case lx.try2('&', '&'):
		return emit(token.AndAnd)
	case lx.try2('|', '|'):
		return emit(token.OrOr)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.BangEq)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	case lx.try2('+', '='):
		return emit(token.PlusAssign)
	case lx.try2('-', '='):
		return emit(token.MinusAssign)
	case lx.try2('*', '='):
		return emit(token.StarAssign)
	case lx.try2('/', '='):
		return emit(token.SlashAssign)
	}

	// односимвольные
	switch lx.cursor.Peek() {
	case '+':
		lx.cursor.Bump()
		return emit(token.Plus)
	case '-':
		lx.cursor.Bump()
		return emit(token.Minus)
	case '*':
		lx.cursor.Bump()
		return emit(token.Star)
	case '/':
		lx.cursor.Bump()
		return emit(token.Slash)
	case '%':
		lx.cursor.Bump()
		return emit(token.Percent)
	case '=':
		lx.cursor.Bump()
		return emit(token.Assign)
	case '!':
		lx.cursor.Bump()
		return emit(token.Bang)
	case '<':
		lx.cursor.Bump()
		return emit(token.Lt)
	case '>':
		lx.cursor.Bump()
		return emit(token.Gt)
	case '(':
		lx.cursor.Bump()
		return emit(token.LParen)
	case ')':
		lx.cursor.Bump()
		return emit(token.RParen)
	case '{':
		lx.cursor.Bump()
		return emit(token.LBrace)
	case '}':
		lx.cursor.Bump()
		return emit(token.RBrace)
	case '[':
		lx.cursor.Bump()
		return emit(token.LBracket)
	case ']':
		lx.cursor.Bump()
		return emit(token.RBracket)
	case ';':
		lx.cursor.Bump()
		return emit(token.Semicolon)
	case ',':
		lx.cursor.Bump()
		return emit(token.Comma)
	case ':':
		lx.cursor.Bump()
		return emit(token.Colon)
	}

	return lx.scanUnexpected()
}

// scanUnexpected consumes exactly one character (one UTF-8 rune, or one byte
// of invalid UTF-8) as an Invalid token and reports LEX001.
func (lx *Lexer) scanUnexpected() token.Token {
	start := lx.cursor.Mark()
	r, _ := lx.peekRune()
	lx.bumpRune()
	tok := lx.tokenFrom(token.Invalid, start)

	var msg string
	if r == utf8.RuneError && len(tok.Text) == 1 {
		msg = fmt.Sprintf("unexpected byte 0x%02X", tok.Text[0])
	} else {
		msg = fmt.Sprintf("unexpected character %q", r)
	}
	lx.errLex(diag.LexUnexpectedChar, tok.Span, msg).
		WithFix("remove the character", diag.FixEdit{Span: tok.Span, NewText: ""}).
		Emit()
	return tok
}
