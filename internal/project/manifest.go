package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	semver "github.com/Masterminds/semver/v3"

	"minic/internal/lexer"
	"minic/internal/preprocess"
)

// DefaultMaxFileSize is the input limit used when [check].max_file_size is absent.
const DefaultMaxFileSize = 1 << 20

var ErrVersionMismatch = errors.New("tool version does not satisfy requires")

// Manifest is a decoded minic.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Project    ProjectConfig    `toml:"project"`
	Lexer      LexerConfig      `toml:"lexer"`
	Check      CheckConfig      `toml:"check"`
	Preprocess PreprocessConfig `toml:"preprocess"`
	Fixtures   FixturesConfig   `toml:"fixtures"`
}

type ProjectConfig struct {
	Name     string `toml:"name"`
	Requires string `toml:"requires"`
}

type LexerConfig struct {
	IntBits   int    `toml:"int_bits"`
	Overflow  string `toml:"overflow"`
	MaxTokens int    `toml:"max_tokens"`
}

type CheckConfig struct {
	Strict         bool  `toml:"strict"`
	MaxDiagnostics int   `toml:"max_diagnostics"`
	Jobs           int   `toml:"jobs"`
	MaxFileSize    int64 `toml:"max_file_size"`
}

type PreprocessConfig struct {
	Enabled       bool              `toml:"enabled"`
	PreserveLines bool              `toml:"preserve_lines"`
	Defines       map[string]string `toml:"defines"`
}

type FixturesConfig struct {
	Root    string   `toml:"root"`
	Modules []string `toml:"modules"`
}

// Defaults returns the configuration used when no manifest is present.
func Defaults() Config {
	return Config{
		Lexer: LexerConfig{
			IntBits:  lexer.DefaultIntBits,
			Overflow: lexer.OverflowSaturate.String(),
		},
		Check: CheckConfig{
			MaxDiagnostics: 100,
			MaxFileSize:    DefaultMaxFileSize,
		},
		Preprocess: PreprocessConfig{
			PreserveLines: true,
		},
		Fixtures: FixturesConfig{
			Root:    "testdata",
			Modules: []string{"lexer", "common"},
		},
	}
}

// LoadManifest finds minic.toml above startDir and decodes it.
// ok is false when there is no manifest; that is not an error.
func LoadManifest(startDir, toolVersion string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(manifestPath, toolVersion)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Load decodes the manifest at path. An empty toolVersion skips the requires check.
func Load(path, toolVersion string) (*Manifest, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := finish(path, meta, &cfg, toolVersion); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// Parse decodes manifest text; name is only used in error messages.
func Parse(name, data, toolVersion string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if err := finish(name, meta, &cfg, toolVersion); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func finish(path string, meta toml.MetaData, cfg *Config, toolVersion string) error {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("project", "name") && strings.TrimSpace(cfg.Project.Name) == "" {
		return fmt.Errorf("%s: [project].name is empty", path)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if toolVersion != "" && strings.TrimSpace(cfg.Project.Requires) != "" {
		if err := CheckRequires(cfg.Project.Requires, toolVersion); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Validate checks value ranges that TOML typing cannot express.
func (c Config) Validate() error {
	if c.Lexer.IntBits < 1 || c.Lexer.IntBits > 64 {
		return fmt.Errorf("[lexer].int_bits must be in 1..64, got %d", c.Lexer.IntBits)
	}
	if _, err := lexer.ParseOverflowPolicy(c.Lexer.Overflow); err != nil {
		return fmt.Errorf("[lexer].overflow: %w", err)
	}
	if c.Lexer.MaxTokens < 0 {
		return fmt.Errorf("[lexer].max_tokens must not be negative")
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("[check].max_diagnostics must not be negative")
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative")
	}
	if c.Check.MaxFileSize < 0 {
		return fmt.Errorf("[check].max_file_size must not be negative")
	}
	for _, name := range c.DefineNames() {
		if !preprocess.ValidMacroName(name) {
			return fmt.Errorf("[preprocess].defines: invalid macro name %q", name)
		}
	}
	for _, m := range c.Fixtures.Modules {
		if m == "" || strings.ContainsAny(m, `/\`) || m == "." || m == ".." {
			return fmt.Errorf("[fixtures].modules: invalid module %q", m)
		}
	}
	return nil
}

// CheckRequires reports whether toolVersion satisfies the constraint.
// Pre-release tags of the tool are ignored so "0.1.0-dev" satisfies ">= 0.1.0".
func CheckRequires(constraint, toolVersion string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("[project].requires: %w", err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("tool version %q: %w", toolVersion, err)
	}
	core, err := v.SetPrerelease("")
	if err != nil {
		return fmt.Errorf("tool version %q: %w", toolVersion, err)
	}
	if !c.Check(&core) {
		return fmt.Errorf("%w: %s does not match %q", ErrVersionMismatch, core.String(), constraint)
	}
	return nil
}

// DefineNames returns the predefined macro names in sorted order.
func (c Config) DefineNames() []string {
	names := make([]string, 0, len(c.Preprocess.Defines))
	for name := range c.Preprocess.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LexerOptions converts the [lexer] section. Validate must have passed.
func (c Config) LexerOptions() lexer.Options {
	policy, err := lexer.ParseOverflowPolicy(c.Lexer.Overflow)
	if err != nil {
		policy = lexer.OverflowSaturate
	}
	bits, err := safecast.Conv[uint8](c.Lexer.IntBits)
	if err != nil || bits == 0 || bits > 64 {
		bits = lexer.DefaultIntBits
	}
	return lexer.Options{
		IntBits:   bits,
		Overflow:  policy,
		MaxTokens: c.Lexer.MaxTokens,
	}
}

// FixturesRoot resolves [fixtures].root against the manifest directory.
func (m *Manifest) FixturesRoot() string {
	root := m.Config.Fixtures.Root
	if root == "" {
		root = "testdata"
	}
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(m.Root, filepath.FromSlash(root))
}
