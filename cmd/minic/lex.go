package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"minic/internal/diagfmt"
	"minic/internal/driver"
	"minic/internal/source"
)

var lexCmd = &cobra.Command{
	Use:     "lex [flags] [file.mc]",
	Aliases: []string{"tokenize"},
	Short:   "Tokenize a minic source file",
	Long: `Lex breaks a minic source file into tokens and prints them together with
any lexical diagnostics. The exit status is 1 when an error was reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	lexCmd.Flags().StringP("input", "i", "", "input file (alternative to the positional argument)")
	lexCmd.Flags().BoolP("verbose", "v", false, "print tokens with kinds, values and spans")
	lexCmd.Flags().Bool("stdin", false, "read the source from standard input")
	lexCmd.Flags().StringP("output", "o", "", "write tokens to file instead of stdout")
	lexCmd.Flags().Bool("fail-fast", false, "stop at the first lexical error")
	lexCmd.Flags().String("tokens", "", "token listing (pretty|minimal|json|none); default depends on --verbose")
	lexCmd.Flags().Bool("stats", false, "print token statistics")
	lexerFlags(lexCmd)
}

// resolveInput picks the source: --stdin or "-", a positional file, or --input.
func resolveInput(cmd *cobra.Command, args []string) (path string, fromStdin bool, err error) {
	stdin := false
	if cmd.Flags().Lookup("stdin") != nil {
		if stdin, err = cmd.Flags().GetBool("stdin"); err != nil {
			return "", false, fmt.Errorf("failed to get stdin flag: %w", err)
		}
	}
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return "", false, fmt.Errorf("failed to get input flag: %w", err)
	}
	if len(args) > 0 && input != "" {
		return "", false, fmt.Errorf("give the input either as an argument or with --input, not both")
	}
	if len(args) > 0 {
		input = args[0]
	}
	if stdin || input == "-" {
		return "<stdin>", true, nil
	}
	if input == "" {
		return "", false, fmt.Errorf("no input file (pass a path, --input or --stdin)")
	}
	return input, false, nil
}

// readStdin reads the whole input; limit <= 0 means no limit.
func readStdin(cmd *cobra.Command, limit int64) ([]byte, error) {
	r := cmd.InOrStdin()
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("stdin: %w (limit %d bytes)", source.ErrFileTooLarge, limit)
	}
	return data, nil
}

func runLex(cmd *cobra.Command, args []string) (err error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := s.driverOptions(cmd)
	if err != nil {
		return err
	}
	path, fromStdin, err := resolveInput(cmd, args)
	if err != nil {
		return err
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	tokensMode, err := cmd.Flags().GetString("tokens")
	if err != nil {
		return fmt.Errorf("failed to get tokens flag: %w", err)
	}
	if tokensMode == "" {
		tokensMode = "minimal"
		if verbose {
			tokensMode = "pretty"
		}
	}
	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	ctx := cmd.Context()
	var res *driver.Result
	if fromStdin {
		data, err := readStdin(cmd, opts.MaxInputSize())
		if err != nil {
			return err
		}
		res = driver.TokenizeText(ctx, path, data, opts)
	} else {
		res, err = driver.Tokenize(ctx, path, opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
	}

	out, closeOut, err := openOutput(outPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOutput(closeOut, &err)

	if s.format == "json" {
		// один JSON-документ: токены, диагностики и статистика
		report := diagfmt.BuildLexReport(res.File, res.Tokens, res.Bag, res.FileSet, s.jsonOpts())
		if err := diagfmt.WriteLexReport(out, report); err != nil {
			return err
		}
	} else {
		if err := writeTokens(out, tokensMode, res); err != nil {
			return err
		}
		if err := s.renderDiagnostics(out, cmd.ErrOrStderr(), res.Bag, res.FileSet); err != nil {
			return err
		}
		if showStats {
			diagfmt.FormatStats(out, diagfmt.ComputeTokenStats(res.Tokens, res.Bag))
		}
	}
	s.printTimings(cmd.ErrOrStderr())

	if res.Errors > 0 {
		return errFailed
	}
	return nil
}

func writeTokens(w io.Writer, mode string, res *driver.Result) error {
	switch mode {
	case "pretty":
		return diagfmt.FormatTokensPretty(w, res.Tokens, res.FileSet)
	case "minimal":
		return diagfmt.FormatTokensMinimal(w, res.Tokens)
	case "json":
		return diagfmt.FormatTokensJSON(w, res.Tokens, res.FileSet)
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown token listing %q (expected pretty|minimal|json|none)", mode)
	}
}

