// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/jsltcheck/lint"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

const docWidth = 72

// ChecksCommand creates the "checks" command describing every analyzer.
func ChecksCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	return &cobra.Command{
		Use:   "checks [names...]",
		Short: "Describe the available lint checks",
		Long: `Describe the available lint checks.

With no arguments every check is described. Otherwise only the named
checks are.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzers, err := cfg.selectAnalyzers(args)
			if err != nil {
				return err
			}
			writeChecks(cmd.OutOrStdout(), analyzers)
			return nil
		},
	}
}

func writeChecks(w io.Writer, analyzers []*lint.Analyzer) {
	for i, a := range analyzers {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", a.Name, a.Severity)
		fmt.Fprintln(w, formatDoc(a.Doc))
	}
}

// formatDoc wraps each paragraph of doc and indents it under the check
// name.
func formatDoc(doc string) string {
	paras := strings.Split(strings.TrimSpace(doc), "\n\n")
	for i, p := range paras {
		p = strings.Join(strings.Fields(p), " ")
		paras[i] = indent.String(wordwrap.String(p, docWidth), 2)
	}
	return strings.Join(paras, "\n\n")
}

func init() {
	rootCmd.AddCommand(ChecksCommand())
}
