package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"minic/internal/diag"
	"minic/internal/lexer"
	"minic/internal/source"
)

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.mc", []byte("int x = 7;\n")))
	toks := lexer.Tokenize(file, lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`  1: KwInt           "int" at 1:1-1:4`,
		`  2: Ident           "x" at 1:5-1:6`,
		`  3: Assign          "=" at 1:7-1:8`,
		`  4: IntLit          "7" = 7 at 1:9-1:10`,
		`  5: Semicolon       ";" at 1:10-1:11`,
		`  6: EOF             at 2:1-2:1`,
		``,
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatTokensMinimal(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.mc", []byte("fn f")))
	var buf bytes.Buffer
	if err := FormatTokensMinimal(&buf, lexer.Tokenize(file, lexer.Options{})); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "KwFn \"fn\"\nIdent \"f\"\n" {
		t.Fatalf("got %q", got)
	}
}

func TestLexReport(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("lex.mc", []byte("// c\nint x@ = 42;")))
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	report := BuildLexReport(file, toks, bag, fs, JSONOpts{IncludePositions: true})
	if report.Success {
		t.Error("report with LEX001 must not succeed")
	}
	want := TokenStats{Total: 7, Keywords: 1, Identifiers: 1, Literals: 1, Operators: 1, Delimiters: 1, Comments: 1, Invalid: 1, Errors: 1}
	if report.Statistics != want {
		t.Errorf("stats = %+v\nwant   %+v", report.Statistics, want)
	}

	var buf bytes.Buffer
	if err := WriteLexReport(&buf, report); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"success", "tokens", "diagnostics", "statistics"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report lacks %q", key)
		}
	}
	tokens := decoded["tokens"].([]any)
	lit := tokens[5].(map[string]any)
	if lit["kind"] != "IntLit" || lit["value"].(float64) != 42 || lit["line"].(float64) != 2 {
		t.Errorf("literal token = %v", lit)
	}
}

func TestFormatStats(t *testing.T) {
	var buf bytes.Buffer
	FormatStats(&buf, TokenStats{Total: 3, Keywords: 1})
	out := buf.String()
	if !strings.HasPrefix(out, "statistics:\n") || !strings.Contains(out, "  keywords     1\n") {
		t.Errorf("unexpected stats output:\n%s", out)
	}
}
