package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"minic/internal/driver"
)

var preprocessCmd = &cobra.Command{
	Use:     "preprocess [flags] <file.mc>",
	Aliases: []string{"pp"},
	Short:   "Strip comments and expand macros",
	Long: `Preprocess removes comments, evaluates #define, #undef, #ifdef, #ifndef,
#else and #endif, expands object-like macros and prints the result.
Diagnostics go to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreprocess,
}

func init() {
	preprocessCmd.Flags().StringP("input", "i", "", "input file (alternative to the positional argument)")
	preprocessCmd.Flags().Bool("stdin", false, "read the source from standard input")
	preprocessCmd.Flags().StringP("output", "o", "", "write the expanded text to file instead of stdout")
	preprocessCmd.Flags().Bool("macros", false, "list the macros defined at end of file")
	defineFlags(preprocessCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) (err error) {
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
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	showMacros, err := cmd.Flags().GetBool("macros")
	if err != nil {
		return fmt.Errorf("failed to get macros flag: %w", err)
	}

	var res *driver.Result
	if fromStdin {
		data, err := readStdin(cmd, opts.MaxInputSize())
		if err != nil {
			return err
		}
		res = driver.ExpandText(cmd.Context(), path, data, opts)
	} else {
		res, err = driver.Expand(cmd.Context(), path, opts)
		if err != nil {
			return fmt.Errorf("preprocessing failed: %w", err)
		}
	}

	out, closeOut, err := openOutput(outPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOutput(closeOut, &err)
	if _, err := out.Write(res.Preprocess.Text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// JSON и SARIF пишут в stdout, текст уже там: диагностики уводим в stderr
	stdout := cmd.OutOrStdout()
	if outPath == "" || outPath == "-" {
		stdout = cmd.ErrOrStderr()
	}
	if err := s.renderDiagnostics(stdout, cmd.ErrOrStderr(), res.Bag, res.FileSet); err != nil {
		return err
	}
	if showMacros {
		w := cmd.ErrOrStderr()
		for _, name := range res.Preprocess.Macros.Names() {
			value, _ := res.Preprocess.Macros.Lookup(name)
			fmt.Fprintf(w, "#define %s %s\n", name, value)
		}
	}
	if !s.quiet && s.format == "pretty" {
		pp := res.Preprocess
		fmt.Fprintf(cmd.ErrOrStderr(), "%s, %s, %d inactive lines\n",
			plural(pp.Directives, "directive"), plural(pp.Expansions, "expansion"), pp.Inactive)
	}
	s.printTimings(cmd.ErrOrStderr())

	if !res.OK {
		return errFailed
	}
	return nil
}
