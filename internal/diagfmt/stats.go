package diagfmt

import (
	"fmt"
	"io"

	"minic/internal/diag"
	"minic/internal/token"
)

// TokenStats — счётчики токенов по категориям.
type TokenStats struct {
	Total       int `json:"total_tokens"` // без EOF
	Keywords    int `json:"keywords"`
	Identifiers int `json:"identifiers"`
	Literals    int `json:"literals"`
	Operators   int `json:"operators"`
	Delimiters  int `json:"delimiters"`
	Comments    int `json:"comments"`
	Invalid     int `json:"invalid"`
	Errors      int `json:"error_count"`
	Warnings    int `json:"warning_count"`
}

// ComputeTokenStats counts tokens per category; bag may be nil.
func ComputeTokenStats(tokens []token.Token, bag *diag.Bag) TokenStats {
	var s TokenStats
	for _, tok := range tokens {
		switch tok.Kind.Category() {
		case token.CatEOF:
			continue
		case token.CatKeyword:
			s.Keywords++
		case token.CatIdent:
			s.Identifiers++
		case token.CatLiteral:
			s.Literals++
		case token.CatOperator:
			s.Operators++
		case token.CatDelimiter:
			s.Delimiters++
		case token.CatComment:
			s.Comments++
		case token.CatInvalid:
			s.Invalid++
		}
		s.Total++
	}
	if bag != nil {
		s.Errors = bag.ErrorCount()
		s.Warnings = bag.WarningCount()
	}
	return s
}

// FormatStats печатает статистику в виде таблицы.
func FormatStats(w io.Writer, s TokenStats) {
	rows := []struct {
		name string
		n    int
	}{
		{"tokens", s.Total},
		{"keywords", s.Keywords},
		{"identifiers", s.Identifiers},
		{"literals", s.Literals},
		{"operators", s.Operators},
		{"delimiters", s.Delimiters},
		{"comments", s.Comments},
		{"invalid", s.Invalid},
		{"errors", s.Errors},
		{"warnings", s.Warnings},
	}
	fmt.Fprintln(w, "statistics:")
	for _, r := range rows {
		fmt.Fprintf(w, "  %-12s %d\n", r.name, r.n)
	}
}
