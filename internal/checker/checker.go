package checker

import (
	"minic/internal/diag"
	"minic/internal/source"
	"minic/internal/token"
)

type Options struct {
	Reporter diag.Reporter // nil — диагностики только считаются
	// Strict makes warnings fail the check as well.
	Strict bool
}

// Result summarises one check pass.
type Result struct {
	OK        bool
	Depth     int // глубина вложенности на EOF, > 0 значит незакрытый блок
	MaxDepth  int
	Functions int
	Vars      int // объявления int на любом уровне
	Stmts     int // операторы внутри тел функций
	Errors    int
	Warnings  int
}

// Checker — состояние структурной проверки одного потока токенов.
type Checker struct {
	toks     []token.Token
	pos      int
	end      source.Span // пустой span в конце потока для синтетического EOF
	depth    int
	reporter *diag.CountingReporter
	res      Result
}

// Check validates tokens against the minic grammar:
//
//	Program  := Item*
//	Item     := FnDecl | VarDecl
//	FnDecl   := 'fn' Ident '(' ')' Block
//	VarDecl  := 'int' Ident '=' IntLit ';'
//	Block    := '{' Stmt* '}'
//	Stmt     := 'return' IntLit ';' | VarDecl | Block
//
// Comment and Invalid tokens are skipped: the lexer has already reported the latter.
// Check never stops at the first problem; every violation becomes a diagnostic
// followed by panic-mode recovery.
func Check(toks []token.Token, opts Options) Result {
	c := &Checker{
		toks:     toks,
		reporter: &diag.CountingReporter{Next: opts.Reporter},
	}
	if n := len(toks); n > 0 {
		c.end = toks[n-1].Span.AtEnd()
	}

	c.parseItems()

	if c.depth > 0 {
		eof := c.peek()
		diag.ReportError(c.reporter, diag.ChkUnterminatedBlock, eof.Span,
			"unexpected end of input, unterminated block").
			WithFix("add the missing '}'", diag.FixEdit{Span: eof.Span, NewText: "}"}).
			Emit()
	}

	c.res.Depth = c.depth
	c.res.Errors = c.reporter.Errors
	c.res.Warnings = c.reporter.Warnings
	c.res.OK = c.res.Errors == 0 && (!opts.Strict || c.res.Warnings == 0)
	return c.res
}

// parseItems — цикл верхнего уровня до EOF.
func (c *Checker) parseItems() {
	for {
		tok := c.peek()
		switch tok.Kind {
		case token.EOF:
			return
		case token.KwFn:
			c.parseFnDecl()
		case token.KwInt:
			c.parseVarDecl()
		case token.RBrace:
			c.advance()
			c.errAt(diag.ChkUnmatchedRBrace, tok.Span, "unmatched closing brace").
				WithFix("remove the '}'", diag.FixEdit{Span: tok.Span}).
				Emit()
		default:
			c.errAt(diag.ChkUnexpectedItem, tok.Span,
				"unexpected "+describe(tok)+", expected 'fn' or 'int' declaration").
				Emit()
			c.resync()
		}
	}
}
