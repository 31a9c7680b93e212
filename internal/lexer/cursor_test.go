package lexer

import (
	"testing"

	"minic/internal/source"
)

func TestCursor(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("c.mc", []byte("ab")))
	c := NewCursor(f)

	if c.EOF() || c.Peek() != 'a' {
		t.Fatalf("fresh cursor: eof=%v peek=%q", c.EOF(), c.Peek())
	}
	b0, b1, ok := c.Peek2()
	if !ok || b0 != 'a' || b1 != 'b' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	m := c.Mark()
	if c.Bump() != 'a' {
		t.Fatal("Bump must return the first byte")
	}
	if _, _, ok := c.Peek2(); ok {
		t.Fatal("Peek2 must fail with one byte left")
	}
	if c.Bump() != 'b' || !c.EOF() {
		t.Fatal("Bump past last byte")
	}
	if c.Bump() != 0 || c.Peek() != 0 {
		t.Fatal("reads at EOF must return 0")
	}
	if sp := c.SpanFrom(m); sp.Start != 0 || sp.End != 2 || sp.File != f.ID {
		t.Fatalf("SpanFrom = %v", sp)
	}
	c.Advance(10)
	if c.Off != c.Limit {
		t.Fatalf("Advance must clamp to limit, off=%d", c.Off)
	}
}
