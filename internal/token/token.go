package token

import (
	"minic/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Value uint64 // IntLit only, after the overflow policy was applied
}

// Category groups kinds for statistics output.
type Category uint8

const (
	CatInvalid Category = iota
	CatKeyword
	CatIdent
	CatLiteral
	CatOperator
	CatDelimiter
	CatComment
	CatEOF
)

func (c Category) String() string {
	switch c {
	case CatKeyword:
		return "keyword"
	case CatIdent:
		return "identifier"
	case CatLiteral:
		return "literal"
	case CatOperator:
		return "operator"
	case CatDelimiter:
		return "delimiter"
	case CatComment:
		return "comment"
	case CatEOF:
		return "eof"
	default:
		return "invalid"
	}
}

// Category classifies the token kind.
func (k Kind) Category() Category {
	switch {
	case k == EOF:
		return CatEOF
	case k == Comment:
		return CatComment
	case k == Ident:
		return CatIdent
	case k >= KwFn && k <= KwStruct:
		return CatKeyword
	case k >= IntLit && k <= BoolLit:
		return CatLiteral
	case k >= Plus && k <= OrOr:
		return CatOperator
	case k >= LParen && k <= Colon:
		return CatDelimiter
	default:
		return CatInvalid
	}
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool { return t.Kind.Category() == CatLiteral }

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	c := t.Kind.Category()
	return c == CatOperator || c == CatDelimiter
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.Category() == CatKeyword }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsComment reports whether the token is a comment.
func (t Token) IsComment() bool { return t.Kind == Comment }

// IsEOF reports whether the token terminates the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// StripComments returns the tokens without Comment tokens. The input is not modified.
func StripComments(toks []Token) []Token {
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != Comment {
			out = append(out, t)
		}
	}
	return out
}
