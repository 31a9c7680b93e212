package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"minic/internal/diag"
	"minic/internal/driver"
	"minic/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.mc>",
	Short: "Apply suggested fixes to a source file",
	Long: `Fix checks a file and applies the text edits suggested by its
diagnostics: inserting a missing ';', removing a stray character, closing a
block comment. By default only the first fix is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	fixCmd.Flags().Bool("dry-run", false, "print the fixed text instead of writing the file")
	fixCmd.Flags().StringSlice("code", nil, "only apply fixes for these codes (e.g. CHK010,LEX001)")
	lexerFlags(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := s.driverOptions(cmd)
	if err != nil {
		return err
	}
	// правки относятся к исходному тексту, не к выходу препроцессора
	opts.Preprocess = false

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	rawCodes, err := cmd.Flags().GetStringSlice("code")
	if err != nil {
		return fmt.Errorf("failed to get code flag: %w", err)
	}
	fixOpts := fix.Options{Mode: fix.ModeFirst}
	if all {
		fixOpts.Mode = fix.ModeAll
	}
	for _, raw := range rawCodes {
		code, ok := diag.ParseCode(raw)
		if !ok {
			return fmt.Errorf("unknown diagnostic code %q", raw)
		}
		fixOpts.Codes = append(fixOpts.Codes, code)
	}

	res, err := driver.Check(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	out, err := fix.Apply(res.Source, res.Bag.IntoSorted(), fixOpts)
	if errors.Is(err, fix.ErrNoFixes) {
		if !s.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "no applicable fixes")
		}
		return nil
	}
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	for _, a := range out.Applied {
		pos := res.Source.Position(a.At.Start)
		fmt.Fprintf(stderr, "fixed %s:%d:%d %s: %s\n", res.Source.Path, pos.Line, pos.Col, a.Code.ID(), a.Title)
	}
	for _, sk := range out.Skipped {
		pos := res.Source.Position(sk.At.Start)
		fmt.Fprintf(stderr, "skipped %s:%d:%d %s: %s (%s)\n", res.Source.Path, pos.Line, pos.Col, sk.Code.ID(), sk.Title, sk.Reason)
	}

	if dryRun {
		_, err := cmd.OutOrStdout().Write(out.Content)
		return err
	}
	return fix.Write(out)
}
