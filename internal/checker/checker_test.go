package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minic/internal/checker"
	"minic/internal/diag"
	"minic/internal/lexer"
	"minic/internal/source"
	"minic/internal/token"
)

type checked struct {
	res   checker.Result
	diags []diag.Diagnostic
	lex   []diag.Diagnostic
	file  *source.File
	toks  []token.Token
}

func runCheck(t *testing.T, src string, strict bool) checked {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("check.mc", []byte(src)))

	lexBag := diag.NewBag(0)
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: lexBag}})

	bag := diag.NewBag(0)
	res := checker.Check(toks, checker.Options{Reporter: diag.BagReporter{Bag: bag}, Strict: strict})
	return checked{res: res, diags: bag.Items(), lex: lexBag.Items(), file: file, toks: toks}
}

func ids(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestValidProgram(t *testing.T) {
	c := runCheck(t, "fn main() { return 42; }", false)
	require.Empty(t, c.diags)
	assert.True(t, c.res.OK)
	assert.Equal(t, 1, c.res.Functions)
	assert.Equal(t, 1, c.res.Stmts)
	assert.Equal(t, 1, c.res.MaxDepth)
	assert.Equal(t, 0, c.res.Depth)
}

func TestEmptyProgramIsValid(t *testing.T) {
	for _, src := range []string{"", "   \n", "// only a comment\n", "/* block */"} {
		c := runCheck(t, src, true)
		assert.Empty(t, c.diags, "input %q", src)
		assert.True(t, c.res.OK, "input %q", src)
	}
}

func TestCheckWithoutEOFToken(t *testing.T) {
	res := checker.Check(nil, checker.Options{})
	assert.True(t, res.OK)
	assert.Zero(t, res.Errors)
}

func TestMissingSemicolonAtEOF(t *testing.T) {
	c := runCheck(t, "int x = 10", false)
	require.Equal(t, []string{"CHK010"}, ids(c.diags))
	d := c.diags[0]
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, c.file.Len(), d.Primary.Start, "CHK010 must be anchored at EOF")
	assert.True(t, d.Primary.Empty())
	require.Len(t, d.Fixes, 1)
	assert.Equal(t, ";", d.Fixes[0].Edits[0].NewText)
	assert.Equal(t, uint32(10), d.Fixes[0].Edits[0].Span.Start)
	assert.False(t, c.res.OK)
}

func TestMissingSemicolonAnchoredAtFollowingToken(t *testing.T) {
	c := runCheck(t, "fn f() { return 1 }", false)
	require.Equal(t, []string{"CHK010"}, ids(c.diags))
	assert.Equal(t, "}", c.file.Slice(c.diags[0].Primary))
	assert.Equal(t, 0, c.res.Depth)
}

func TestUnterminatedBlock(t *testing.T) {
	c := runCheck(t, "fn main() { { return 1; }", false)
	require.Equal(t, []string{"CHK020"}, ids(c.diags))
	assert.Equal(t, c.file.Len(), c.diags[0].Primary.Start)
	assert.Equal(t, 1, c.res.Depth)
	assert.Equal(t, 2, c.res.MaxDepth)
	assert.False(t, c.res.OK)
}

func TestUnterminatedBlockReportedOnce(t *testing.T) {
	c := runCheck(t, "fn a() { { { int x = 1;", false)
	require.Equal(t, []string{"CHK020"}, ids(c.diags))
	assert.Equal(t, 3, c.res.Depth)
}

func TestUnmatchedClosingBrace(t *testing.T) {
	c := runCheck(t, "} fn f() { } }", false)
	require.Equal(t, []string{"CHK011", "CHK011"}, ids(c.diags))
	assert.Equal(t, 0, c.res.Depth, "depth is clamped at zero")
	assert.Equal(t, 1, c.res.Functions)
}

func TestSingleErrorCases(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		at   string
	}{
		{"item keyword", "return 1;", "CHK001", "return"},
		{"item ident", "x = 1;", "CHK001", "x"},
		{"fn name", "fn 1() {}", "CHK003", "1"},
		{"fn lparen", "fn f) {}", "CHK004", ")"},
		{"fn rparen", "fn f( {}", "CHK004", "{"},
		{"fn lbrace", "fn f() return 1;", "CHK004", "return"},
		{"var name", "int = 1;", "CHK003", "="},
		{"var assign", "int y 2;", "CHK005", "2"},
		{"var literal", "int x = y;", "CHK006", "y"},
		{"var float", "int x = 1.5;", "CHK006", "1.5"},
		{"return literal", "fn f() { return; }", "CHK006", ";"},
		{"statement", "fn f() { x = 1; }", "CHK002", "x"},
		{"empty statement", "fn f() { ; }", "CHK002", ";"},
		{"nested fn", "fn f() { fn g() {} }", "CHK002", "fn"},
		{"extra keyword", "fn f() { while; }", "CHK002", "while"},
		{"extra brace", "fn f() { int x = 1; } }", "CHK011", "}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := runCheck(t, tt.src, false)
			require.Equal(t, []string{tt.code}, ids(c.diags), "input %q", tt.src)
			assert.Equal(t, tt.at, c.file.Slice(c.diags[0].Primary))
			assert.False(t, c.res.OK)
		})
	}
}

func TestIndependentErrorsAllReported(t *testing.T) {
	src := "int = 1;\nint y 2;\nfn 3() { return 1; }\nint z = 4;\nfn ok() { return 0; }\n"
	c := runCheck(t, src, false)
	assert.Equal(t, []string{"CHK003", "CHK005", "CHK003"}, ids(c.diags))
	assert.Equal(t, 1, c.res.Vars)
	assert.Equal(t, 1, c.res.Functions)
	assert.Equal(t, 3, c.res.Errors)
}

func TestRecoveryStopsAtEnclosingBrace(t *testing.T) {
	// ошибка в теле не должна съесть закрывающую '}' и следующий item
	c := runCheck(t, "fn f() { int x = ; }\nfn g() { return 1; }", false)
	assert.Equal(t, []string{"CHK006"}, ids(c.diags))
	assert.Equal(t, 2, c.res.Functions)
	assert.Equal(t, 0, c.res.Depth)
}

func TestRecoverySkipsNestedBlock(t *testing.T) {
	c := runCheck(t, "fn f( { int x = 1; }\nint y = 2;", false)
	assert.Equal(t, []string{"CHK004"}, ids(c.diags))
	assert.Equal(t, 1, c.res.Vars, "only the declaration after the skipped block counts")
	assert.Equal(t, 0, c.res.Depth)
}

func TestUnreachableWarning(t *testing.T) {
	src := "fn f() { return 1; int x = 2; return 3; }"

	c := runCheck(t, src, false)
	require.Equal(t, []string{"CHK030"}, ids(c.diags))
	assert.Equal(t, diag.SevWarning, c.diags[0].Severity)
	assert.Equal(t, "int", c.file.Slice(c.diags[0].Primary))
	assert.True(t, c.res.OK, "warnings never fail a normal check")
	assert.Equal(t, 1, c.res.Warnings)

	strict := runCheck(t, src, true)
	assert.False(t, strict.res.OK, "strict mode fails on warnings")
}

func TestInvalidTokensAreSkipped(t *testing.T) {
	c := runCheck(t, "int x@ = 1;", false)
	assert.Equal(t, []string{"LEX001"}, ids(c.lex))
	assert.Empty(t, c.diags)
	assert.Equal(t, 1, c.res.Vars)
}

func TestCommentTransparency(t *testing.T) {
	pairs := [][2]string{
		{"int x = 5;", "// comment\nint x = 5;"},
		{"fn main() { return 42; }", "fn /* c */ main() { // c\n return 42; }"},
		{"int x = 10", "int x = 10 // missing semicolon"},
		{"fn f() { x; }", "fn f() { /* a */ x /* b */; }"},
	}
	for _, p := range pairs {
		plain := runCheck(t, p[0], false)
		commented := runCheck(t, p[1], false)
		assert.Equal(t, ids(plain.diags), ids(commented.diags), "%q vs %q", p[0], p[1])
		assert.Equal(t, plain.res.OK, commented.res.OK)
		assert.Equal(t, plain.res.Stmts, commented.res.Stmts)
	}
}

func TestCheckDeterministic(t *testing.T) {
	src := "fn f( { } int = ; } fn g() { { return 1 }"
	a := runCheck(t, src, false)
	b := runCheck(t, src, false)
	assert.Equal(t, a.diags, b.diags)
	assert.Equal(t, a.res, b.res)
}

func TestNilReporterStillCounts(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("nil.mc", []byte("int x = 1")))
	res := checker.Check(lexer.Tokenize(file, lexer.Options{}), checker.Options{})
	assert.False(t, res.OK)
	assert.Equal(t, 1, res.Errors)
}
