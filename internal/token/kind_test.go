package token_test

import (
	"testing"

	"minic/internal/source"
	"minic/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.BoolLit, token.StringLit}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwInt, token.Plus, token.LParen, token.Comment}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign,
		token.EqEq, token.Bang, token.BangEq,
		token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.AndAnd, token.OrOr,
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.Semicolon, token.Comma, token.Colon,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwIf, token.IntLit, token.EOF, token.Invalid}
	for _, k := range non {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct/op", k)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, text := range token.Keywords() {
		k, ok := token.LookupKeyword(text)
		if !ok {
			t.Fatalf("LookupKeyword(%q) failed", text)
		}
		if text == "true" || text == "false" {
			if k != token.BoolLit {
				t.Errorf("%q -> %v, want BoolLit", text, k)
			}
			continue
		}
		if !tok(k).IsKeyword() {
			t.Errorf("%q -> %v must be keyword", text, k)
		}
		if k.Symbol() != text {
			t.Errorf("%v.Symbol() = %q, want %q", k, k.Symbol(), text)
		}
	}
	// регистр важен
	if _, ok := token.LookupKeyword("Int"); ok {
		t.Error("keywords are case sensitive")
	}
}

func TestEveryKindHasNameAndCategory(t *testing.T) {
	seen := make(map[string]token.Kind)
	for _, k := range token.Kinds() {
		name := k.String()
		if name == "" || name == "Kind(?)" {
			t.Fatalf("kind %d has no name", k)
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("kinds %d and %d share name %q", prev, k, name)
		}
		seen[name] = k
		if k != token.Invalid && k.Category() == token.CatInvalid {
			t.Errorf("%v has no category", k)
		}
	}
}

func TestSymbol(t *testing.T) {
	tests := []struct {
		k    token.Kind
		want string
	}{
		{token.Semicolon, ";"},
		{token.LBrace, "{"},
		{token.AndAnd, "&&"},
		{token.Ident, "identifier"},
		{token.IntLit, "integer literal"},
		{token.EOF, "end of file"},
		{token.KwReturn, "return"},
	}
	for _, tt := range tests {
		if got := tt.k.Symbol(); got != tt.want {
			t.Errorf("%v.Symbol() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestStripComments(t *testing.T) {
	in := []token.Token{tok(token.Comment), tok(token.KwInt), tok(token.Comment), tok(token.EOF)}
	out := token.StripComments(in)
	if len(out) != 2 || out[0].Kind != token.KwInt || out[1].Kind != token.EOF {
		t.Fatalf("StripComments = %v", out)
	}
	if in[0].Kind != token.Comment {
		t.Fatal("input must not be modified")
	}
}
