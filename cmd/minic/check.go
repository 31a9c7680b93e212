package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"minic/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.mc|dir...]",
	Short: "Lex and structurally check minic sources",
	Long: `Check tokenizes each input and verifies its structure: balanced brackets,
statement terminators, function and variable declarations. Directories are
searched recursively for *.mc files and checked in parallel. Without
arguments the current directory is checked.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("input", "i", "", "input file (alternative to the positional argument)")
	checkCmd.Flags().Bool("stdin", false, "read the source from standard input")
	checkCmd.Flags().Bool("strict", false, "treat warnings as errors")
	checkCmd.Flags().Bool("fail-fast", false, "stop lexing at the first error")
	checkCmd.Flags().IntP("jobs", "j", 0, "max parallel workers (0 = auto)")
	checkCmd.Flags().Bool("no-cache", false, "do not read or write the check cache")
	checkCmd.Flags().BoolP("watch", "w", false, "re-check when inputs change")
	checkCmd.Flags().Bool("preprocess", false, "run the preprocessor before lexing")
	checkCmd.Flags().String("ui", "auto", "progress view for multi-file runs (auto|on|off)")
	defineFlags(checkCmd)
	lexerFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := s.driverOptions(cmd)
	if err != nil {
		return err
	}

	stdin, err := cmd.Flags().GetBool("stdin")
	if err != nil {
		return fmt.Errorf("failed to get stdin flag: %w", err)
	}
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}
	if stdin || input == "-" || (len(args) == 1 && args[0] == "-") {
		data, err := readStdin(cmd, opts.MaxInputSize())
		if err != nil {
			return err
		}
		res := driver.CheckText(cmd.Context(), "<stdin>", data, opts)
		return s.finishSingle(cmd, res)
	}
	paths := args
	if input != "" {
		paths = append([]string{input}, paths...)
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	jobs := s.cfg.Check.Jobs
	if err := overrideInt(cmd, "jobs", &jobs); err != nil {
		return err
	}
	modeStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(modeStr)
	if err != nil {
		return err
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if !noCache {
		cache, err := driver.OpenDiskCache("minic")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: check cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}

	run := func(ctx context.Context) error {
		return s.checkPaths(ctx, cmd, paths, opts, jobs, mode)
	}
	if !watch {
		return run(cmd.Context())
	}

	// первый прогон сразу, дальше по событиям файловой системы
	if err := run(cmd.Context()); err != nil && !errors.Is(err, errFailed) {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for changes (Ctrl-C to stop)\n", plural(len(paths), "path"))
	err = driver.Watch(cmd.Context(), paths, driver.DefaultDebounce, func(ctx context.Context, changed []string) error {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n[%s] %s changed\n", time.Now().Format("15:04:05"), plural(len(changed), "file"))
		if err := run(ctx); err != nil && !errors.Is(err, errFailed) {
			return err
		}
		return nil
	})
	if err != nil && cmd.Context().Err() == nil {
		return err
	}
	return nil
}

// checkPaths checks one file directly, or expands directories and runs the
// parallel driver.
func (s *settings) checkPaths(ctx context.Context, cmd *cobra.Command, paths []string, opts driver.Options, jobs int, mode uiMode) error {
	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && !info.IsDir() {
			res, err := driver.Check(ctx, paths[0], opts)
			if err != nil {
				return err
			}
			return s.finishSingle(cmd, res)
		}
	}

	files, err := expandPaths(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", driver.SourceExt)
	}

	var res *driver.DirResult
	if shouldUseTUI(mode, s.format, len(files)) {
		res, err = checkFilesWithUI(ctx, files, opts, jobs)
	} else {
		res, err = driver.CheckFiles(ctx, files, opts, jobs)
	}
	if err != nil {
		return err
	}
	if err := s.renderFiles(cmd.OutOrStdout(), cmd.ErrOrStderr(), res); err != nil {
		return err
	}
	s.printTimings(cmd.ErrOrStderr())
	if !res.OK() {
		return errFailed
	}
	return nil
}

func (s *settings) finishSingle(cmd *cobra.Command, res *driver.Result) error {
	if err := s.renderDiagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr(), res.Bag, res.FileSet); err != nil {
		return err
	}
	s.printTimings(cmd.ErrOrStderr())
	if !res.OK {
		return errFailed
	}
	return nil
}

// expandPaths replaces directories with the source files under them.
// Duplicates are dropped, order is kept.
func expandPaths(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		files, err := driver.ListSourceFiles(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}
