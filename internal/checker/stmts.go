package checker

import (
	"minic/internal/diag"
	"minic/internal/token"
)

// parseBlockBody разбирает Stmt* '}' после уже съеденной '{'.
// На EOF просто выходит: CHK020 репортит Check, один раз.
func (c *Checker) parseBlockBody() {
	returned, warned := false, false
	for {
		tok := c.peek()
		switch tok.Kind {
		case token.EOF:
			return
		case token.RBrace:
			c.advance()
			return
		}

		if returned && !warned {
			c.warnAt(diag.ChkUnreachable, tok.Span, "unreachable statement after return").Emit()
			warned = true
		}
		if c.parseStmt() {
			returned = true
		}
	}
}

// parseStmt reports whether the statement was a return.
func (c *Checker) parseStmt() bool {
	tok := c.peek()
	switch tok.Kind {
	case token.KwReturn:
		c.res.Stmts++
		c.parseReturn()
		return true
	case token.KwInt:
		c.res.Stmts++
		c.parseVarDecl()
	case token.LBrace:
		c.res.Stmts++
		c.advance()
		c.parseBlockBody()
	default:
		c.errAt(diag.ChkUnexpectedStmt, tok.Span,
			"unexpected "+describe(tok)+", expected statement").
			Emit()
		c.resync()
	}
	return false
}

// parseReturn: 'return' IntLit ';'
func (c *Checker) parseReturn() {
	c.advance() // 'return'
	lit, ok := c.expect(token.IntLit, diag.ChkExpectIntLit, "integer literal")
	if !ok {
		c.resync()
		return
	}
	if !c.expectSemicolon(lit, "return statement") {
		c.resync()
	}
}
