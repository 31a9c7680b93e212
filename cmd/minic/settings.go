package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"minic/internal/diagfmt"
	"minic/internal/driver"
	"minic/internal/lexer"
	"minic/internal/observ"
	"minic/internal/preprocess"
	"minic/internal/project"
	"minic/internal/version"
)

// settings merges global flags with minic.toml. Flags that were set on the
// command line win over the manifest.
type settings struct {
	colorErr bool
	colorOut bool
	quiet    bool
	timings  bool
	format   string
	pathMode diagfmt.PathMode

	manifest *project.Manifest // nil without minic.toml
	cfg      project.Config
	timer    *observ.Timer
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

func useColor(mode string, f *os.File) bool {
	return mode == "on" || (mode == "auto" && isTerminal(f))
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	pf := cmd.Root().PersistentFlags()
	s := &settings{cfg: project.Defaults()}

	colorMode, err := pf.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	s.colorErr = useColor(colorMode, os.Stderr)
	s.colorOut = useColor(colorMode, os.Stdout)

	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.timings {
		s.timer = observ.NewTimer()
	}
	if s.format, err = pf.GetString("format"); err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	s.format = strings.ToLower(s.format)
	switch s.format {
	case "pretty", "short", "json", "sarif":
	default:
		return nil, fmt.Errorf("unknown format %q (expected pretty|short|json|sarif)", s.format)
	}
	pathMode, err := pf.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	s.pathMode = diagfmt.ParsePathMode(pathMode)

	configPath, err := pf.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		m, err := project.Load(configPath, version.Version)
		if err != nil {
			return nil, err
		}
		s.manifest = m
	} else {
		m, ok, err := project.LoadManifest(".", version.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			s.manifest = m
		}
	}
	if s.manifest != nil {
		s.cfg = s.manifest.Config
	}

	if pf.Changed("max-diagnostics") {
		if s.cfg.Check.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	return s, nil
}

// driverOptions builds pipeline options from the merged config and the
// lexer flags every pipeline command shares.
func (s *settings) driverOptions(cmd *cobra.Command) (driver.Options, error) {
	cfg := s.cfg
	if err := overrideInt(cmd, "int-bits", &cfg.Lexer.IntBits); err != nil {
		return driver.Options{}, err
	}
	if err := overrideString(cmd, "overflow", &cfg.Lexer.Overflow); err != nil {
		return driver.Options{}, err
	}
	if err := overrideInt(cmd, "max-tokens", &cfg.Lexer.MaxTokens); err != nil {
		return driver.Options{}, err
	}
	if err := cfg.Validate(); err != nil {
		return driver.Options{}, fmt.Errorf("invalid options: %w", err)
	}

	opts := driver.Options{
		Lexer:          cfg.LexerOptions(),
		Strict:         cfg.Check.Strict,
		MaxDiagnostics: cfg.Check.MaxDiagnostics,
		MaxFileSize:    cfg.Check.MaxFileSize,
		Preprocess:     cfg.Preprocess.Enabled,
		PreserveLines:  cfg.Preprocess.PreserveLines,
		Defines:        cfg.Preprocess.Defines,
		Timer:          s.timer,
	}
	if s.manifest != nil {
		opts.BaseDir = s.manifest.Root
	}
	if err := overrideBool(cmd, "strict", &opts.Strict); err != nil {
		return driver.Options{}, err
	}
	if err := overrideBool(cmd, "fail-fast", &opts.Lexer.FailFast); err != nil {
		return driver.Options{}, err
	}
	if err := overrideBool(cmd, "preserve-lines", &opts.PreserveLines); err != nil {
		return driver.Options{}, err
	}
	if err := overrideBool(cmd, "preprocess", &opts.Preprocess); err != nil {
		return driver.Options{}, err
	}
	defines, err := definesFlag(cmd)
	if err != nil {
		return driver.Options{}, err
	}
	opts.Defines = mergeDefines(opts.Defines, defines)
	return opts, nil
}

// lexerFlags registers the lexer knobs shared by lex, check and full.
func lexerFlags(cmd *cobra.Command) {
	cmd.Flags().Int("int-bits", lexer.DefaultIntBits, "width of integer literals in bits (1..64)")
	cmd.Flags().String("overflow", "saturate", "integer overflow policy (saturate|wrap)")
	cmd.Flags().Int("max-tokens", 0, "stop after this many tokens (0 = unlimited)")
}

func defineFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("define", "D", nil, "predefine a macro: NAME or NAME=VALUE")
	cmd.Flags().Bool("preserve-lines", true, "keep line numbers by blanking comments and directives")
}

func definesFlag(cmd *cobra.Command) (map[string]string, error) {
	if cmd.Flags().Lookup("define") == nil {
		return nil, nil
	}
	raw, err := cmd.Flags().GetStringArray("define")
	if err != nil {
		return nil, fmt.Errorf("failed to get define flag: %w", err)
	}
	return parseDefines(raw)
}

func parseDefines(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, arg := range raw {
		name, value, err := preprocess.ParseDefine(arg)
		if err != nil {
			return nil, fmt.Errorf("-D %s: %w", arg, err)
		}
		out[name] = value
	}
	return out, nil
}

// mergeDefines returns base overlaid with extra; neither map is modified.
func mergeDefines(base, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) error {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideInt(cmd *cobra.Command, name string, dst *int) error {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}
