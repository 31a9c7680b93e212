package diagfmt

import (
	"fmt"
	"io"

	"minic/internal/source"
	"minic/internal/token"
)

// TokenOutput — токен в JSON выводе.
type TokenOutput struct {
	Kind     string      `json:"kind"`
	Category string      `json:"category"`
	Text     string      `json:"text,omitempty"`
	Value    *uint64     `json:"value,omitempty"`
	Span     source.Span `json:"span"`
	Line     uint32      `json:"line"`
	Column   uint32      `json:"column"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате, с позициями.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		r := fs.Get(tok.Span.File).Range(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if tok.Kind == token.IntLit {
			fmt.Fprintf(w, " = %d", tok.Value)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n",
			r.Start.Line, r.Start.Col,
			r.End.Line, r.End.Col)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensMinimal печатает только вид и текст, EOF пропускается.
func FormatTokensMinimal(w io.Writer, tokens []token.Token) error {
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		if _, err := fmt.Fprintf(w, "%s %q\n", tok.Kind, tok.Text); err != nil {
			return err
		}
	}
	return nil
}

// BuildTokens converts tokens to their JSON form.
func BuildTokens(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos := fs.Get(tok.Span.File).Position(tok.Span.Start)
		to := TokenOutput{
			Kind:     tok.Kind.String(),
			Category: tok.Kind.Category().String(),
			Text:     tok.Text,
			Span:     tok.Span,
			Line:     pos.Line,
			Column:   pos.Col,
		}
		if tok.Kind == token.IntLit {
			v := tok.Value
			to.Value = &v
		}
		out = append(out, to)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return encodeJSON(w, BuildTokens(tokens, fs))
}
