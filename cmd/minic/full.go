package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"minic/internal/driver"
)

var fullCmd = &cobra.Command{
	Use:   "full [flags] <file.mc>",
	Short: "Preprocess, lex and check a file",
	Long: `Full runs the whole pipeline on one file: the preprocessor output is
tokenized and checked. Diagnostics from every stage are reported together.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFull,
}

func init() {
	fullCmd.Flags().StringP("input", "i", "", "input file (alternative to the positional argument)")
	fullCmd.Flags().Bool("stdin", false, "read the source from standard input")
	fullCmd.Flags().Bool("strict", false, "treat warnings as errors")
	fullCmd.Flags().Bool("fail-fast", false, "stop lexing at the first error")
	fullCmd.Flags().String("tokens", "none", "also print tokens (pretty|minimal|json|none)")
	fullCmd.Flags().StringP("output", "o", "", "write tokens to file instead of stdout")
	defineFlags(fullCmd)
	lexerFlags(fullCmd)
}

func runFull(cmd *cobra.Command, args []string) (err error) {
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
	tokensMode, err := cmd.Flags().GetString("tokens")
	if err != nil {
		return fmt.Errorf("failed to get tokens flag: %w", err)
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	var res *driver.Result
	if fromStdin {
		data, err := readStdin(cmd, opts.MaxInputSize())
		if err != nil {
			return err
		}
		res = driver.FullText(cmd.Context(), path, data, opts)
	} else {
		res, err = driver.Full(cmd.Context(), path, opts)
		if err != nil {
			return fmt.Errorf("pipeline failed: %w", err)
		}
	}

	if tokensMode != "none" {
		out, closeOut, openErr := openOutput(outPath, cmd.OutOrStdout())
		if openErr != nil {
			return openErr
		}
		defer closeOutput(closeOut, &err)
		if err := writeTokens(out, tokensMode, res); err != nil {
			return err
		}
	}
	if err := s.renderDiagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr(), res.Bag, res.FileSet); err != nil {
		return err
	}
	if !s.quiet && s.format == "pretty" && res.Check != nil {
		c := res.Check
		fmt.Fprintf(cmd.ErrOrStderr(), "%s, %s, %s, max depth %d\n",
			plural(c.Functions, "function"), plural(c.Vars, "variable"), plural(c.Stmts, "statement"), c.MaxDepth)
	}
	s.printTimings(cmd.ErrOrStderr())

	if !res.OK {
		return errFailed
	}
	return nil
}
