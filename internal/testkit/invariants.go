package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"minic/internal/source"
	"minic/internal/token"
)

// CheckTokenInvariants verifies the tiling contract of a complete token stream:
//  1. the stream is non-empty and ends with exactly one EOF token
//  2. EOF is empty and sits at the end of the buffer
//  3. every other token is non-empty, belongs to sf and Text equals its source slice
//  4. spans strictly increase and never overlap
//  5. bytes between consecutive tokens are whitespace only
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 1) и 2)
	last := toks[len(toks)-1]
	if last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %v, want EOF", last.Kind)
	}
	if !last.Span.Empty() || last.Span.Start != lenContent {
		return fmt.Errorf("EOF span %v is not empty at end %d", last.Span, lenContent)
	}

	var prevEnd uint32
	for i, tok := range toks[:len(toks)-1] {
		sp := tok.Span
		// 3)
		if tok.Kind == token.EOF {
			return fmt.Errorf("token %d: EOF before the end of stream", i)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d (%v): empty span %v", i, tok.Kind, sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("token %d: span %v beyond content %d", i, sp, lenContent)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != tok.Text {
			return fmt.Errorf("token %d: text %q does not match source %q", i, tok.Text, got)
		}
		// 4)
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d: span %v overlaps previous end %d", i, sp, prevEnd)
		}
		// 5)
		if err := whitespaceOnly(sf.Content, prevEnd, sp.Start); err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		prevEnd = sp.End
	}
	return whitespaceOnly(sf.Content, prevEnd, lenContent)
}

func whitespaceOnly(content []byte, from, to uint32) error {
	for off := from; off < to; off++ {
		switch content[off] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			return fmt.Errorf("gap byte %q at offset %d is not whitespace", content[off], off)
		}
	}
	return nil
}
