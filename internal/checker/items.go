package checker

import (
	"minic/internal/diag"
	"minic/internal/token"
)

// parseFnDecl: 'fn' Ident '(' ')' Block
func (c *Checker) parseFnDecl() {
	c.advance() // 'fn'

	if _, ok := c.expect(token.Ident, diag.ChkExpectIdent, "function name"); !ok {
		c.resync()
		return
	}
	for _, want := range [...]struct {
		kind token.Kind
		text string
	}{
		{token.LParen, "'('"},
		{token.RParen, "')'"},
		{token.LBrace, "'{'"},
	} {
		if _, ok := c.expect(want.kind, diag.ChkExpectDelimiter, want.text); !ok {
			c.resync()
			return
		}
	}

	c.res.Functions++
	c.parseBlockBody()
}

// parseVarDecl: 'int' Ident '=' IntLit ';'
// Одинаков для верхнего уровня и для тела функции.
func (c *Checker) parseVarDecl() {
	c.advance() // 'int'

	if _, ok := c.expect(token.Ident, diag.ChkExpectIdent, "variable name"); !ok {
		c.resync()
		return
	}
	if _, ok := c.expect(token.Assign, diag.ChkExpectAssign, "'='"); !ok {
		c.resync()
		return
	}
	lit, ok := c.expect(token.IntLit, diag.ChkExpectIntLit, "integer literal")
	if !ok {
		c.resync()
		return
	}
	if !c.expectSemicolon(lit, "declaration") {
		c.resync()
		return
	}
	c.res.Vars++
}
