package diag

import (
	"testing"

	"minic/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/testdata/common/invalid/sample.mc", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     LexIntOverflow,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     ChkExpectSemicolon,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error CHK010 testdata/common/invalid/sample.mc:1:1 first line second\n" +
		"note CHK010 testdata/common/invalid/sample.mc:2:1 note line\n" +
		"warning LEX100 testdata/common/invalid/sample.mc:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	// входной срез не переупорядочивается
	if diags[0].Code != LexIntOverflow {
		t.Fatal("input slice was reordered")
	}
}

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnexpectedChar, "LEX001"},
		{LexIntOverflow, "LEX100"},
		{ChkExpectSemicolon, "CHK010"},
		{ChkUnmatchedRBrace, "CHK011"},
		{ChkUnterminatedBlock, "CHK020"},
		{PPMacroRecursion, "PP007"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if got := Code(9999).Title(); got != "unknown error" {
		t.Errorf("unknown code title = %q", got)
	}
}

func TestCodesSortedAndUnique(t *testing.T) {
	codes := Codes()
	seen := make(map[string]bool)
	for i, c := range codes {
		if i > 0 && codes[i-1] >= c {
			t.Fatalf("codes not ascending at %d", i)
		}
		if seen[c.ID()] {
			t.Fatalf("duplicate id %s", c.ID())
		}
		seen[c.ID()] = true
	}
}

func TestParseCode(t *testing.T) {
	for _, c := range Codes() {
		got, ok := ParseCode(c.ID())
		if !ok || got != c {
			t.Errorf("ParseCode(%q) = %v, %v", c.ID(), got, ok)
		}
	}
	if got, ok := ParseCode(" chk010 "); !ok || got != ChkExpectSemicolon {
		t.Errorf("lower-case lookup = %v, %v", got, ok)
	}
	if _, ok := ParseCode("XYZ001"); ok {
		t.Error("unknown id must not parse")
	}
}
