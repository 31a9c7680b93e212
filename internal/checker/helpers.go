package checker

import (
	"fmt"

	"minic/internal/diag"
	"minic/internal/source"
	"minic/internal/token"
)

// skipTrivia пропускает Comment и Invalid токены.
func (c *Checker) skipTrivia() {
	for c.pos < len(c.toks) {
		switch c.toks[c.pos].Kind {
		case token.Comment, token.Invalid:
			c.pos++
		default:
			return
		}
	}
}

// peek returns the next significant token. A missing EOF is synthesised at the end.
func (c *Checker) peek() token.Token {
	c.skipTrivia()
	if c.pos >= len(c.toks) {
		return token.Token{Kind: token.EOF, Span: c.end}
	}
	return c.toks[c.pos]
}

func (c *Checker) at(k token.Kind) bool {
	return c.peek().Kind == k
}

// advance съедает значимый токен и обновляет счётчик вложенности. EOF не съедается.
func (c *Checker) advance() token.Token {
	tok := c.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	c.pos++
	switch tok.Kind {
	case token.LBrace:
		c.depth++
		c.res.MaxDepth = max(c.res.MaxDepth, c.depth)
	case token.RBrace:
		if c.depth > 0 {
			c.depth--
		}
	}
	return tok
}

// expect consumes k or reports code at the offending token.
func (c *Checker) expect(k token.Kind, code diag.Code, what string) (token.Token, bool) {
	tok := c.peek()
	if tok.Kind == k {
		return c.advance(), true
	}
	c.errAt(code, tok.Span, fmt.Sprintf("expected %s, found %s", what, describe(tok))).Emit()
	return tok, false
}

// expectSemicolon reports CHK010 at the following token, which may be EOF.
func (c *Checker) expectSemicolon(after token.Token, construct string) bool {
	tok := c.peek()
	if tok.Kind == token.Semicolon {
		c.advance()
		return true
	}
	insert := after.Span.AtEnd()
	c.errAt(diag.ChkExpectSemicolon, tok.Span, fmt.Sprintf("expected ';' after %s, found %s", construct, describe(tok))).
		WithNote(after.Span, construct+" ends here").
		WithFix("insert ';'", diag.FixEdit{Span: insert, NewText: ";"}).
		Emit()
	return false
}

// resync — panic-mode: пропускаем токены до ';' на текущей глубине (съедается),
// до '}' закрывающей текущий блок (не съедается) или до EOF.
// Блок, открытый во время пропуска, пропускается целиком вместе со своей '}'.
func (c *Checker) resync() {
	base := c.depth
	for {
		tok := c.peek()
		switch tok.Kind {
		case token.EOF:
			return
		case token.Semicolon:
			c.advance()
			if c.depth == base {
				return
			}
		case token.RBrace:
			if c.depth <= base {
				return
			}
			c.advance()
			if c.depth == base {
				return
			}
		default:
			c.advance()
		}
	}
}

func (c *Checker) errAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportError(c.reporter, code, sp, msg)
}

func (c *Checker) warnAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportWarning(c.reporter, code, sp, msg)
}

// describe — человекочитаемое имя найденного токена для сообщений.
func describe(tok token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return "end of file"
	case tok.IsKeyword():
		return fmt.Sprintf("keyword '%s'", tok.Text)
	case tok.IsPunctOrOp():
		return fmt.Sprintf("'%s'", tok.Text)
	default:
		return fmt.Sprintf("%s %q", tok.Kind.Symbol(), tok.Text)
	}
}
