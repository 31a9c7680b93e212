package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"minic/internal/diag"
	"minic/internal/token"
)

var infoCmd = &cobra.Command{
	Use:       "info [keywords|operators|codes]",
	Short:     "Describe the language and the diagnostic codes",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"keywords", "operators", "codes"},
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := "all"
		if len(args) > 0 {
			topic = strings.ToLower(args[0])
		}
		out := cmd.OutOrStdout()
		switch topic {
		case "keywords":
			writeKeywords(out)
		case "operators":
			writeOperators(out)
		case "codes":
			return writeCodes(out)
		case "all":
			writeKeywords(out)
			fmt.Fprintln(out)
			writeOperators(out)
			fmt.Fprintln(out)
			return writeCodes(out)
		default:
			return fmt.Errorf("unknown topic %q (expected keywords|operators|codes)", topic)
		}
		return nil
	},
}

func writeKeywords(w io.Writer) {
	fmt.Fprintln(w, "keywords:")
	fmt.Fprintf(w, "  %s\n", strings.Join(token.Keywords(), " "))
}

func writeOperators(w io.Writer) {
	var ops, delims []string
	for _, k := range token.Kinds() {
		switch k.Category() {
		case token.CatOperator:
			ops = append(ops, k.Symbol())
		case token.CatDelimiter:
			delims = append(delims, k.Symbol())
		}
	}
	fmt.Fprintln(w, "operators:")
	fmt.Fprintf(w, "  %s\n", strings.Join(ops, " "))
	fmt.Fprintln(w, "delimiters:")
	fmt.Fprintf(w, "  %s\n", strings.Join(delims, " "))
}

// writeCodes renders the code table; colors follow what w supports.
func writeCodes(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	rows := make([][]string, 0, len(diag.Codes()))
	for _, c := range diag.Codes() {
		rows = append(rows, []string{c.ID(), c.Title()})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("6"))).
		Headers("CODE", "TITLE").
		Rows(rows...)
	_, err := fmt.Fprintf(w, "diagnostic codes:\n%s\n", t.Render())
	return err
}
