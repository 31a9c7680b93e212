package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"minic/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "minic",
	Short: "minic lexer, checker and preprocessor",
	Long: `minic tokenizes, preprocesses and structurally checks programs written in
the minic language, and reports problems as diagnostics.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupCommand,
}

// errFailed marks a run whose diagnostics already explain the failure.
// main exits with status 1 without printing anything else.
var errFailed = errors.New("diagnostics reported")

// cleanups run after the command, in reverse order.
var cleanups []func()

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(preprocessCmd)
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to keep per file")
	pf.String("format", "pretty", "diagnostic format (pretty|short|json|sarif)")
	pf.String("path-mode", "auto", "how paths are shown (auto|relative|absolute|basename)")
	pf.String("config", "", "path to minic.toml (default: search upwards from the working directory)")
	pf.String("trace", "", "trace output file ('-' for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		dumpTraceRing(os.Stderr)
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "minic: %v\n", err)
		}
		runCleanups()
		os.Exit(1)
	}
	runCleanups()
}

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// setupCommand runs before every subcommand: colors, tracing, profiling.
func setupCommand(cmd *cobra.Command, _ []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProf)

	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopTrace)
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
