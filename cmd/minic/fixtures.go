package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"minic/internal/diagfmt"
	"minic/internal/driver"
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures [flags] [root]",
	Short: "Run the valid/invalid fixture suites",
	Long: `Fixtures runs every *.mc file under <root>/<module>/valid and
<root>/<module>/invalid. Valid fixtures must produce no errors, invalid ones
at least one. The root and module list default to the [fixtures] table of
minic.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFixtures,
}

func init() {
	fixturesCmd.Flags().StringSliceP("module", "m", nil, "suites to run (default: [fixtures].modules)")
	fixturesCmd.Flags().IntP("jobs", "j", 0, "max parallel workers (0 = auto)")
	fixturesCmd.Flags().BoolP("verbose", "v", false, "list passing cases too")
	fixturesCmd.Flags().Bool("diagnostics", false, "print diagnostics of failing cases")
	fixturesCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	lexerFlags(fixturesCmd)
}

func runFixtures(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := s.driverOptions(cmd)
	if err != nil {
		return err
	}

	root := s.cfg.Fixtures.Root
	if s.manifest != nil {
		root = s.manifest.FixturesRoot()
	}
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root = "testdata"
	}
	modules := s.cfg.Fixtures.Modules
	if cmd.Flags().Changed("module") {
		if modules, err = cmd.Flags().GetStringSlice("module"); err != nil {
			return fmt.Errorf("failed to get module flag: %w", err)
		}
	}
	jobs := s.cfg.Check.Jobs
	if err := overrideInt(cmd, "jobs", &jobs); err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	showDiags, err := cmd.Flags().GetBool("diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	modeStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(modeStr)
	if err != nil {
		return err
	}

	files, err := driver.ListFixtureFiles(root, modules)
	if err != nil {
		return err
	}
	var report *driver.FixtureReport
	if shouldUseTUI(mode, s.format, len(files)) {
		report, err = runFixturesWithUI(cmd.Context(), root, modules, files, opts, jobs)
	} else {
		report, err = driver.RunFixtures(cmd.Context(), root, modules, opts, jobs)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writeFixtureReport(out, root, report, verbose)
	if showDiags {
		for _, c := range report.Cases {
			if !c.Passed && c.Result != nil {
				popts := s.prettyOpts()
				popts.Color = s.colorOut
				fmt.Fprintf(out, "\n%s:\n", c.Path)
				diagfmt.Pretty(out, c.Result.Bag, c.Result.FileSet, popts)
			}
		}
	}
	s.printTimings(cmd.ErrOrStderr())
	if !report.OK() {
		return errFailed
	}
	return nil
}

func writeFixtureReport(w io.Writer, root string, report *driver.FixtureReport, verbose bool) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	for _, c := range report.Cases {
		rel := c.Path
		if r, err := filepath.Rel(root, c.Path); err == nil {
			rel = filepath.ToSlash(r)
		}
		switch {
		case c.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", fail("FAIL"), rel, c.Err)
		case !c.Passed && c.Kind == driver.FixtureValid:
			fmt.Fprintf(w, "%s %s: expected no errors, got %d\n", fail("FAIL"), rel, c.Errors)
		case !c.Passed:
			fmt.Fprintf(w, "%s %s: expected errors, got none\n", fail("FAIL"), rel)
		case verbose:
			fmt.Fprintf(w, "%s %s (%s, %s)\n", pass("ok  "), rel, plural(c.Errors, "error"), plural(c.Warnings, "warning"))
		}
	}
	for _, m := range report.Missing {
		fmt.Fprintf(w, "skip %s: no directory under %s\n", m, root)
	}
	summary := fmt.Sprintf("%d passed, %d failed", report.Passed, report.Failed)
	if report.OK() {
		fmt.Fprintln(w, pass(summary))
	} else {
		fmt.Fprintln(w, fail(summary))
	}
}
