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

// setup лексирует вход и возвращает всё, что нужно рендерерам.
func setup(t *testing.T, path, src string) (*source.FileSet, *source.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, []byte(src)))
	bag := diag.NewBag(0)
	lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return fs, file, bag
}

func TestPrettyCaret(t *testing.T) {
	fs, _, bag := setup(t, "demo.mc", "int x@ = 1;\n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowFixes: true})
	want := strings.Join([]string{
		"demo.mc:1:6: ERROR LEX001: unexpected character '@'",
		"1 | int x@ = 1;",
		"  |      ^",
		"  fix: remove the character",
		`       delete "@" at 1:6`,
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("pretty output mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyUnderlineWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.mc", []byte("\t世 = \"open\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: id, Start: 7, End: 12}, "unterminated string literal"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	// таб повторяется, 世 занимает две колонки
	if lines[2] != "  | \t     ^~~~~" {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs, _, bag := setup(t, "n.mc", "int a = 1;\nint b = 2;\n/* open")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	out := buf.String()
	for _, want := range []string{
		"n.mc:3:1: ERROR LEX005:",
		"2 | int b = 2;",
		"3 | /* open",
		"  | ^~",
		"note: n.mc:3:8: end of file here",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPrettyColorToggle(t *testing.T) {
	fs, _, bag := setup(t, "c.mc", "@")
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{Color: false})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output lacks escape codes")
	}
}

func TestPrettyReportsDropped(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("d.mc", []byte("@ @ @")))
	bag := diag.NewBag(1)
	lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "2 more diagnostic(s) not shown (limit 1)") {
		t.Errorf("dropped line missing:\n%s", buf.String())
	}
}

func TestShort(t *testing.T) {
	fs, _, bag := setup(t, "s.mc", "int x = 99999999999; $")
	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeAuto)
	want := "s.mc:1:9: warning[LEX100]: integer literal 99999999999 overflows 32-bit unsigned range, saturated to 4294967295\n" +
		"s.mc:1:22: error[LEX001]: unexpected character '$'\n"
	if got := buf.String(); got != want {
		t.Fatalf("short output mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestJSONOutput(t *testing.T) {
	fs, _, bag := setup(t, "j.mc", "int x@ = 1;")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeFixes: true, IncludePreviews: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "LEX001" || d.Severity != "error" {
		t.Errorf("got %s %s", d.Severity, d.Code)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 6 || d.Location.StartByte != 5 || d.Location.EndByte != 6 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.OldText != "@" || len(edit.AfterLines) != 1 || edit.AfterLines[0] != "int x = 1;" {
		t.Errorf("edit = %+v", edit)
	}
}

func TestLexReportNFC(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"ascii", "int x;", true},
		{"composed", "// \u00e9\nint x;", true},
		{"decomposed", "// e\u0301\nint x;", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			content, flags := source.Normalize([]byte(tt.src))
			file := fs.Get(fs.Add("n.mc", content, flags|source.FileVirtual))
			bag := diag.NewBag(0)
			toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
			report := BuildLexReport(file, toks, bag, fs, JSONOpts{})
			if report.NFC != tt.want {
				t.Errorf("NFC = %v, want %v", report.NFC, tt.want)
			}
			for _, tok := range toks {
				if lexeme := string(content[tok.Span.Start:tok.Span.End]); tok.Text != lexeme {
					t.Errorf("token text %q, source lexeme %q", tok.Text, lexeme)
				}
			}
		})
	}
}

func TestJSONMax(t *testing.T) {
	fs, _, bag := setup(t, "m.mc", "@ # $")
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
}

func TestSarif(t *testing.T) {
	fs, _, bag := setup(t, "r.mc", "@\n@")
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "minic", ToolVersion: "0.1.0", InvocationArgs: []string{"check", "r.mc"}}); err != nil {
		t.Fatal(err)
	}
	var log map[string]any
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if log["version"] != "2.1.0" {
		t.Errorf("version = %v", log["version"])
	}
	runs := log["runs"].([]any)
	run := runs[0].(map[string]any)
	results := run["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	rules := run["tool"].(map[string]any)["driver"].(map[string]any)["rules"].([]any)
	if len(rules) != 1 {
		t.Errorf("rules must be deduplicated, got %d", len(rules))
	}
	second := results[1].(map[string]any)["locations"].([]any)[0].(map[string]any)
	region := second["physicalLocation"].(map[string]any)["region"].(map[string]any)
	if region["startLine"].(float64) != 2 {
		t.Errorf("region = %v", region)
	}
}

func TestJSONUnits(t *testing.T) {
	fsA, _, bagA := setup(t, "a.mc", "@ $")
	fsB, _, bagB := setup(t, "b.mc", "int x = 1;")

	var buf bytes.Buffer
	units := []Unit{{Bag: bagA, FileSet: fsA}, {Bag: bagB, FileSet: fsB}}
	if err := JSONUnits(&buf, []string{"a.mc", "b.mc"}, units, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var out MultiOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 2 || len(out.Files) != 2 {
		t.Fatalf("count=%d files=%d", out.Count, len(out.Files))
	}
	if out.Files[0].Path != "a.mc" || out.Files[0].Count != 2 {
		t.Errorf("first = %+v", out.Files[0])
	}
	// файл без диагностик всё равно присутствует
	if out.Files[1].Path != "b.mc" || out.Files[1].Count != 0 {
		t.Errorf("second = %+v", out.Files[1])
	}
}

func TestSarifUnits(t *testing.T) {
	fsA, _, bagA := setup(t, "a.mc", "@")
	fsB, _, bagB := setup(t, "b.mc", "\n$")

	var buf bytes.Buffer
	units := []Unit{{Bag: bagA, FileSet: fsA}, {Bag: bagB, FileSet: fsB}}
	if err := SarifUnits(&buf, units, SarifRunMeta{ToolName: "minic"}); err != nil {
		t.Fatal(err)
	}
	var log map[string]any
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	run := log["runs"].([]any)[0].(map[string]any)
	results := run["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	loc := results[1].(map[string]any)["locations"].([]any)[0].(map[string]any)["physicalLocation"].(map[string]any)
	uri := loc["artifactLocation"].(map[string]any)["uri"].(string)
	if !strings.HasSuffix(uri, "b.mc") {
		t.Errorf("uri = %q", uri)
	}
	if line := loc["region"].(map[string]any)["startLine"].(float64); line != 2 {
		t.Errorf("startLine = %v", line)
	}
}
