package lexer

import (
	"minic/internal/diag"
	"minic/internal/source"
	"minic/internal/token"
)

type Lexer struct {
	file     *source.File
	cursor   Cursor
	opts     Options
	reporter *diag.CountingReporter
	look     *token.Token // 1 элементный буфер для токена
	emitted  int          // выданные значимые токены, без EOF
	stopped  bool         // после лимита или fail-fast отдаём только EOF
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		opts:     opts,
		reporter: &diag.CountingReporter{Next: opts.Reporter},
	}
}

// Tokenize lexes the whole file. The result always ends with exactly one EOF token.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/3+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next возвращает следующий токен, включая комментарии.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.stopped {
		return lx.eof()
	}

	lx.skipWhitespace()
	if lx.cursor.EOF() {
		return lx.eof()
	}

	if lx.opts.MaxTokens > 0 && lx.emitted >= lx.opts.MaxTokens {
		lx.stopped = true
		lx.errLex(diag.LexTokenLimit, lx.emptySpan(), "too many tokens, lexing stopped").
			WithNote(lx.file.EndSpan(), "the rest of the file was not tokenized").
			Emit()
		return lx.eof()
	}

	errorsBefore := lx.reporter.Errors

	// Посмотреть текущий байт и выбрать сканер
	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '/' && lx.atCommentStart():
		tok = lx.scanComment()

	case isDec(ch):
		tok = lx.scanNumber()

	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case ch == '"':
		tok = lx.scanString()

	default:
		// операторы, пунктуация и всё неизвестное (LEX001)
		tok = lx.scanOperatorOrPunct()
	}

	lx.emitted++
	if lx.opts.FailFast && lx.reporter.Errors > errorsBefore {
		lx.stopped = true
	}
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// ErrorCount returns the number of errors reported so far.
func (lx *Lexer) ErrorCount() int {
	return lx.reporter.Errors
}

// eof всегда позиционирован в конце буфера, даже после остановки.
func (lx *Lexer) eof() token.Token {
	return token.Token{Kind: token.EOF, Span: lx.file.EndSpan()}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) skipWhitespace() {
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// tokenFrom builds a token whose Text is the exact source slice since m.
func (lx *Lexer) tokenFrom(k token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
