package diag

import (
	"fmt"
	"slices"
	"strings"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические: 1000 + n -> LEXnnn
	LexUnexpectedChar           Code = 1001
	LexUnterminatedString       Code = 1002
	LexMalformedNumber          Code = 1003
	LexIdentTooLong             Code = 1004
	LexUnterminatedBlockComment Code = 1005
	LexInvalidEscape            Code = 1006
	LexTokenLimit               Code = 1007
	// предупреждения лексера начинаются со 100
	LexIntOverflow Code = 1100

	// Структурные проверки: 2000 + n -> CHKnnn
	ChkUnexpectedItem    Code = 2001
	ChkUnexpectedStmt    Code = 2002
	ChkExpectIdent       Code = 2003
	ChkExpectDelimiter   Code = 2004
	ChkExpectAssign      Code = 2005
	ChkExpectIntLit      Code = 2006
	ChkExpectSemicolon   Code = 2010
	ChkUnmatchedRBrace   Code = 2011
	ChkUnterminatedBlock Code = 2020
	// предупреждения
	ChkUnreachable Code = 2030

	// Препроцессор: 3000 + n -> PPnnn
	PPUnterminatedComment     Code = 3001
	PPInvalidDirective        Code = 3002
	PPUnmatchedEndif          Code = 3003
	PPUnmatchedElse           Code = 3004
	PPUnterminatedConditional Code = 3005
	PPInvalidMacroName        Code = 3006
	PPMacroRecursion          Code = 3007
	PPExpansionLimit          Code = 3008
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown error",

	LexUnexpectedChar:           "unexpected character",
	LexUnterminatedString:       "unterminated string literal",
	LexMalformedNumber:          "malformed number literal",
	LexIdentTooLong:             "identifier too long",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexInvalidEscape:            "invalid escape sequence",
	LexTokenLimit:               "token limit exceeded",
	LexIntOverflow:              "integer literal overflows",

	ChkUnexpectedItem:    "unexpected token at item level",
	ChkUnexpectedStmt:    "unexpected token in statement",
	ChkExpectIdent:       "expected identifier",
	ChkExpectDelimiter:   "expected delimiter",
	ChkExpectAssign:      "expected '='",
	ChkExpectIntLit:      "expected integer literal",
	ChkExpectSemicolon:   "expected ';'",
	ChkUnmatchedRBrace:   "unmatched closing brace",
	ChkUnterminatedBlock: "unexpected end of input, unterminated block",
	ChkUnreachable:       "unreachable statement",

	PPUnterminatedComment:     "unterminated block comment",
	PPInvalidDirective:        "invalid preprocessor directive",
	PPUnmatchedEndif:          "unmatched #endif",
	PPUnmatchedElse:           "unmatched #else",
	PPUnterminatedConditional: "unterminated conditional block",
	PPInvalidMacroName:        "invalid macro name",
	PPMacroRecursion:          "recursive macro expansion",
	PPExpansionLimit:          "macro expansion too large",
}

// ID returns the stable external identifier, e.g. LEX001 or CHK020.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%03d", ic-1000)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CHK%03d", ic-2000)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PP%03d", ic-3000)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

// ParseCode maps an external identifier such as "CHK010" back to its code.
func ParseCode(id string) (Code, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	for c := range codeDescription {
		if c != UnknownCode && c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
