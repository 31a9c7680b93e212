package source

import "testing"

func TestSpanHelpers(t *testing.T) {
	s := Span{File: 3, Start: 5, End: 9}
	if s.Len() != 4 || s.Empty() {
		t.Fatalf("Len/Empty wrong for %v", s)
	}
	if got := s.AtEnd(); got != (Span{File: 3, Start: 9, End: 9}) {
		t.Errorf("AtEnd = %v", got)
	}
	if s.String() != "3:5-9" {
		t.Errorf("String = %q", s.String())
	}
}
