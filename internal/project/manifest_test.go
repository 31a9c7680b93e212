package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minic/internal/lexer"
)

const fullManifest = `
[project]
name = "demo"
requires = ">= 0.1.0"

[lexer]
int_bits = 16
overflow = "wrap"
max_tokens = 500

[check]
strict = true
max_diagnostics = 20
jobs = 4
max_file_size = 4096

[preprocess]
enabled = true
preserve_lines = false
defines = { DEBUG = "1", LEVEL = "3" }

[fixtures]
root = "fixtures"
modules = ["lexer"]
`

func TestParseFullManifest(t *testing.T) {
	cfg, err := Parse("minic.toml", fullManifest, "0.1.0-dev")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Project.Name != "demo" {
		t.Errorf("name = %q", cfg.Project.Name)
	}
	if cfg.Lexer.IntBits != 16 || cfg.Lexer.Overflow != "wrap" || cfg.Lexer.MaxTokens != 500 {
		t.Errorf("lexer = %+v", cfg.Lexer)
	}
	if !cfg.Check.Strict || cfg.Check.MaxDiagnostics != 20 || cfg.Check.Jobs != 4 || cfg.Check.MaxFileSize != 4096 {
		t.Errorf("check = %+v", cfg.Check)
	}
	if !cfg.Preprocess.Enabled || cfg.Preprocess.PreserveLines {
		t.Errorf("preprocess = %+v", cfg.Preprocess)
	}
	if got := strings.Join(cfg.DefineNames(), ","); got != "DEBUG,LEVEL" {
		t.Errorf("DefineNames = %q", got)
	}
	if len(cfg.Fixtures.Modules) != 1 || cfg.Fixtures.Modules[0] != "lexer" {
		t.Errorf("fixtures = %+v", cfg.Fixtures)
	}

	opts := cfg.LexerOptions()
	if opts.IntBits != 16 || opts.Overflow != lexer.OverflowWrap || opts.MaxTokens != 500 {
		t.Errorf("LexerOptions = %+v", opts)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse("minic.toml", "", "0.1.0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := Defaults()
	if cfg.Lexer != def.Lexer || cfg.Check != def.Check {
		t.Errorf("got %+v / %+v, want defaults", cfg.Lexer, cfg.Check)
	}
	if !cfg.Preprocess.PreserveLines {
		t.Error("preserve_lines should default to true")
	}
	if cfg.Fixtures.Root != "testdata" || len(cfg.Fixtures.Modules) != 2 {
		t.Errorf("fixtures = %+v", cfg.Fixtures)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[lexer\nint_bits = 3", "failed to parse TOML"},
		{"unknown key", "[lexer]\nbits = 8", "unknown keys: lexer.bits"},
		{"unknown table", "[parser]\nx = 1", "unknown keys"},
		{"int bits zero", "[lexer]\nint_bits = 0", "int_bits must be in 1..64"},
		{"int bits big", "[lexer]\nint_bits = 65", "int_bits must be in 1..64"},
		{"overflow", "[lexer]\noverflow = \"clamp\"", "unknown overflow policy"},
		{"max tokens", "[lexer]\nmax_tokens = -1", "max_tokens"},
		{"jobs", "[check]\njobs = -2", "jobs"},
		{"file size", "[check]\nmax_file_size = -1", "max_file_size"},
		{"define name", "[preprocess]\ndefines = { \"1X\" = \"1\" }", "invalid macro name"},
		{"fixture module", "[fixtures]\nmodules = [\"../x\"]", "invalid module"},
		{"empty name", "[project]\nname = \" \"", "name is empty"},
		{"bad constraint", "[project]\nrequires = \">>> 1\"", "requires"},
		{"wrong type", "[check]\nstrict = \"yes\"", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("minic.toml", tt.data, "0.1.0")
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
			if !strings.HasPrefix(err.Error(), "minic.toml: ") {
				t.Errorf("error %q is not prefixed with the file name", err)
			}
		})
	}
}

func TestCheckRequires(t *testing.T) {
	tests := []struct {
		constraint string
		version    string
		ok         bool
	}{
		{">= 0.1.0", "0.1.0", true},
		{">= 0.1.0", "0.1.0-dev", true},
		{">= 0.2.0", "0.1.9", false},
		{"^1.2", "1.4.0", true},
		{"^1.2", "2.0.0", false},
		{"~0.1.0", "0.1.7", true},
	}
	for _, tt := range tests {
		err := CheckRequires(tt.constraint, tt.version)
		if tt.ok && err != nil {
			t.Errorf("CheckRequires(%q, %q) = %v", tt.constraint, tt.version, err)
		}
		if !tt.ok && !errors.Is(err, ErrVersionMismatch) {
			t.Errorf("CheckRequires(%q, %q) = %v, want ErrVersionMismatch", tt.constraint, tt.version, err)
		}
	}
	if err := CheckRequires(">= 1", "not-a-version"); err == nil {
		t.Error("expected error for a bad tool version")
	}
}

func TestRequiresSkippedWithoutToolVersion(t *testing.T) {
	if _, err := Parse("m", "[project]\nrequires = \">= 9.0.0\"", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Parse("m", "[project]\nrequires = \">= 9.0.0\"", "0.1.0"); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("want ErrVersionMismatch, got %v", err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(root, ManifestName)
	if err := os.WriteFile(manifest, []byte("[project]\nname = \"x\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.EvalSymlinks(manifest)
	if gotReal, _ := filepath.EvalSymlinks(got); gotReal != want {
		t.Errorf("FindManifest = %q, want %q", got, manifest)
	}

	dir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || filepath.Base(dir) != filepath.Base(root) {
		t.Errorf("FindProjectRoot = %q %v %v", dir, ok, err)
	}
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)
	data := "[fixtures]\nroot = \"cases\"\n[check]\nstrict = true\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(root, "0.1.0")
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if !m.Config.Check.Strict {
		t.Error("strict not loaded")
	}
	if got := m.FixturesRoot(); got != filepath.Join(m.Root, "cases") {
		t.Errorf("FixturesRoot = %q", got)
	}
}

func TestLoadManifestBadFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)
	if err := os.WriteFile(path, []byte("[check]\nstrictt = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, ok, err := LoadManifest(root, "")
	if !ok {
		t.Fatal("manifest should be found")
	}
	if err == nil || !strings.Contains(err.Error(), "check.strictt") {
		t.Fatalf("want unknown key error, got %v", err)
	}
}
