package preprocess_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minic/internal/diag"
	"minic/internal/preprocess"
)

func run(t *testing.T, src string, opts preprocess.Options) (preprocess.Result, []diag.Diagnostic) {
	t.Helper()
	bag := diag.NewBag(0)
	opts.Reporter = diag.BagReporter{Bag: bag}
	return preprocess.Process([]byte(src), opts), bag.Items()
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestCommentRemoval(t *testing.T) {
	src := `
// line comment
int x = 42; // trailing
/* multi
   line */
int y = /* inline */ 100;
`
	res, diags := run(t, src, preprocess.Options{})
	require.Empty(t, diags)
	out := string(res.Text)
	assert.NotContains(t, out, "//")
	assert.NotContains(t, out, "/*")
	assert.NotContains(t, out, "*/")
	assert.Contains(t, out, "int x = 42;")
	assert.Contains(t, out, "int y =  100;")
}

func TestPreserveLinesKeepsOffsets(t *testing.T) {
	src := "line1\n// comment\nint y = /* c */ 1;\nline4"
	res, diags := run(t, src, preprocess.Options{PreserveLines: true})
	require.Empty(t, diags)
	assert.Len(t, res.Text, len(src), "blanked comments keep byte offsets")
	assert.Equal(t, "line1\n          \nint y =         1;\nline4", string(res.Text))
}

func TestMultibyteCommentBlankedPerByte(t *testing.T) {
	src := "int x = 1; // комментарий\nint y = 2;"
	res, _ := run(t, src, preprocess.Options{PreserveLines: true})
	require.Len(t, res.Text, len(src))
	assert.True(t, strings.HasSuffix(string(res.Text), "\nint y = 2;"))
}

func TestCommentsInsideStrings(t *testing.T) {
	src := `s = "// not a comment"; t = "/* nor this */"; c = '/'; // but this is`
	res, diags := run(t, src, preprocess.Options{})
	require.Empty(t, diags)
	out := string(res.Text)
	assert.Contains(t, out, `"// not a comment"`)
	assert.Contains(t, out, `"/* nor this */"`)
	assert.Contains(t, out, `'/'`)
	assert.NotContains(t, out, "but this is")
}

func TestEscapedQuoteInString(t *testing.T) {
	res, _ := run(t, `s = "a\" // still string"; // gone`, preprocess.Options{})
	assert.Contains(t, string(res.Text), `"a\" // still string"`)
	assert.NotContains(t, string(res.Text), "gone")
}

func TestBlockCommentsDoNotNest(t *testing.T) {
	res, diags := run(t, "/* outer /* inner */ tail */", preprocess.Options{})
	require.Empty(t, diags)
	assert.Equal(t, " tail */", string(res.Text))
}

func TestUnterminatedComment(t *testing.T) {
	src := "int x = 1;\n/* open\nint y = 2;"
	res, diags := run(t, src, preprocess.Options{PreserveLines: true})
	require.Equal(t, []string{"PP001"}, codes(diags))
	assert.Equal(t, uint32(11), diags[0].Primary.Start)
	assert.Equal(t, uint32(13), diags[0].Primary.End)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, "int x = 1;\n       \n          ", string(res.Text))
}

func TestSimpleMacro(t *testing.T) {
	src := "#define MAX 100\nint x = MAX;\nint y = MAX * 2;\n"
	res, diags := run(t, src, preprocess.Options{})
	require.Empty(t, diags)
	out := string(res.Text)
	assert.Contains(t, out, "int x = 100;")
	assert.Contains(t, out, "int y = 100 * 2;")
	assert.NotContains(t, out, "MAX")
	assert.Equal(t, 2, res.Expansions)
	assert.Equal(t, 1, res.Directives)
}

func TestMacroIdentifierBoundaries(t *testing.T) {
	src := "#define N 7\nint NN = N; int N_2 = 1N; s = \"N\";"
	res, _ := run(t, src, preprocess.Options{})
	assert.Equal(t, "int NN = 7; int N_2 = 1N; s = \"N\";", string(res.Text))
}

func TestNestedMacroExpansion(t *testing.T) {
	src := "#define A B + 1\n#define B C\n#define C 5\nint x = A;"
	res, diags := run(t, src, preprocess.Options{})
	require.Empty(t, diags)
	assert.Equal(t, "int x = 5 + 1;", string(res.Text))
	assert.Equal(t, 3, res.Expansions)
}

func TestMultiWordMacroValue(t *testing.T) {
	res, _ := run(t, "#define DECL   int   z =   3;\nDECL", preprocess.Options{})
	assert.Equal(t, "int z = 3;", string(res.Text))
}

func TestMacroRecursionReportedOnce(t *testing.T) {
	src := "#define A B\n#define B A\nint x = A;\nint y = A;\n"
	res, diags := run(t, src, preprocess.Options{PreserveLines: true})
	require.Equal(t, []string{"PP007"}, codes(diags))
	assert.Contains(t, diags[0].Message, "recursive")
	assert.Equal(t, "A", string([]byte(src)[diags[0].Primary.Start:diags[0].Primary.End]))
	assert.Equal(t, "\n\nint x = A;\nint y = A;\n", string(res.Text))
}

func TestSelfReferentialMacro(t *testing.T) {
	res, diags := run(t, "#define X X + 1\nX", preprocess.Options{})
	require.Equal(t, []string{"PP007"}, codes(diags))
	assert.Equal(t, "X + 1", string(res.Text))
}

func TestExpansionLimit(t *testing.T) {
	src := "#define A B B B B\n#define B C C C C\n#define C D D D D\n#define D 1234567890\nA"
	res, diags := run(t, src, preprocess.Options{MaxExpansion: 64})
	require.Equal(t, []string{"PP008"}, codes(diags))
	assert.Less(t, len(res.Text), 256)
}

func TestConditionals(t *testing.T) {
	src := "#ifdef DEBUG\nint debug = 1;\n#else\nint debug = 0;\n#endif\n"

	withDebug, diags := run(t, src, preprocess.Options{Defines: map[string]string{"DEBUG": "1"}})
	require.Empty(t, diags)
	assert.Contains(t, string(withDebug.Text), "int debug = 1;")
	assert.NotContains(t, string(withDebug.Text), "int debug = 0;")
	assert.Equal(t, 1, withDebug.Inactive)

	without, diags := run(t, src, preprocess.Options{})
	require.Empty(t, diags)
	assert.NotContains(t, string(without.Text), "int debug = 1;")
	assert.Contains(t, string(without.Text), "int debug = 0;")
}

func TestIfndefAndNesting(t *testing.T) {
	src := strings.Join([]string{
		"#ifndef RELEASE",
		"a",
		"#ifdef VERBOSE",
		"b",
		"#else",
		"c",
		"#endif",
		"#else",
		"d",
		"#ifdef VERBOSE",
		"e",
		"#endif",
		"#endif",
	}, "\n")
	res, diags := run(t, src, preprocess.Options{})
	require.Empty(t, diags)
	assert.Equal(t, "a\nc", string(res.Text))

	res, _ = run(t, src, preprocess.Options{Defines: map[string]string{"RELEASE": "", "VERBOSE": ""}})
	assert.Equal(t, "d\ne", string(res.Text))
}

func TestDefinesInsideInactiveBlockIgnored(t *testing.T) {
	src := "#ifdef NOPE\n#define X 1\n#endif\nX"
	res, diags := run(t, src, preprocess.Options{})
	require.Empty(t, diags)
	assert.Equal(t, "X", string(res.Text))
	assert.False(t, res.Macros.IsDefined("X"))
}

func TestUndef(t *testing.T) {
	src := "#define X 1\nX\n#undef X\nX"
	res, _ := run(t, src, preprocess.Options{})
	assert.Equal(t, "1\nX", string(res.Text))
}

func TestPreserveLinesForDirectives(t *testing.T) {
	src := "#define X 1\n#ifdef Y\nhidden\n#endif\nint v = X;"
	res, diags := run(t, src, preprocess.Options{PreserveLines: true})
	require.Empty(t, diags)
	lines := strings.Split(string(res.Text), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "int v = 1;", lines[4])
	assert.Equal(t, []string{"", "", "", ""}, lines[:4])
}

func TestDirectiveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"define without name", "#define", []string{"PP002"}},
		{"undef without name", "#undef   ", []string{"PP002"}},
		{"ifdef without name", "#ifdef\n#endif", []string{"PP002"}},
		{"bad macro name", "#define 9x 1", []string{"PP006"}},
		{"unmatched endif", "#endif", []string{"PP003"}},
		{"unmatched else", "#else", []string{"PP004"}},
		{"double else", "#ifdef A\n#else\n#else\n#endif", []string{"PP004"}},
		{"unterminated", "#ifdef A\n#ifndef B\nx", []string{"PP005", "PP005"}},
		{"bad predefine", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := run(t, tt.src, preprocess.Options{})
			assert.Equal(t, tt.want, nilIfEmpty(codes(diags)))
		})
	}

	_, diags := run(t, "", preprocess.Options{Defines: map[string]string{"1bad": ""}})
	assert.Equal(t, []string{"PP006"}, codes(diags))
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestBadMacroNameSpan(t *testing.T) {
	src := "  #define   9x 1"
	_, diags := run(t, src, preprocess.Options{})
	require.Len(t, diags, 1)
	assert.Equal(t, "9x", src[diags[0].Primary.Start:diags[0].Primary.End])
}

func TestUnknownDirectivePassesThrough(t *testing.T) {
	res, diags := run(t, "#pragma once\n#\nint x = 1;", preprocess.Options{})
	require.Empty(t, diags)
	assert.Equal(t, "#pragma once\nint x = 1;", string(res.Text))
}

func TestEmptyInput(t *testing.T) {
	res, diags := run(t, "", preprocess.Options{PreserveLines: true})
	assert.Empty(t, diags)
	assert.Empty(t, res.Text)
}

func TestTrailingNewlineKept(t *testing.T) {
	res, _ := run(t, "int x = 1;\n", preprocess.Options{PreserveLines: true})
	assert.Equal(t, "int x = 1;\n", string(res.Text))
}

func TestParseDefine(t *testing.T) {
	name, value, err := preprocess.ParseDefine("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", name)
	assert.Equal(t, "1", value)

	name, value, err = preprocess.ParseDefine("N=42")
	require.NoError(t, err)
	assert.Equal(t, "N", name)
	assert.Equal(t, "42", value)

	_, _, err = preprocess.ParseDefine("4x=1")
	require.ErrorIs(t, err, preprocess.ErrInvalidMacroName)
}

func TestMacroTableNamesSorted(t *testing.T) {
	tbl := preprocess.NewMacroTable()
	require.NoError(t, tbl.Define("b", "2"))
	require.NoError(t, tbl.Define("_a", "1"))
	require.Error(t, tbl.Define("", "x"))
	assert.Equal(t, []string{"_a", "b"}, tbl.Names())
	tbl.Undefine("b")
	assert.Equal(t, 1, tbl.Len())
}
