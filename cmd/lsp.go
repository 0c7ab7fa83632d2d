// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/jsltcheck/lsp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command with optional embedder
// configuration. Embedders can pass WithBuiltins or WithAnalyzers to make
// the server aware of functions and checks their runtime adds.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the JSLT Language Server Protocol server",
		Long: `Start an LSP server for JSLT source files.

The language server publishes the lint diagnostics as you type and provides
go-to-definition (including into imported files), find references, hover,
rename, document and workspace symbols, folding and semantic highlighting.

Search paths, extra builtins, checks and hints are taken from the same
configuration as "jsltcheck lint".

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  jsltcheck lsp                      Start with stdio transport
  jsltcheck lsp --stdio              Same as above (explicit)
  jsltcheck lsp --port 7998          Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "jsltcheck lsp --stdio" for .jslt files.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			serverOpts, err := lspOptions(cfg)
			if err != nil {
				return err
			}
			srv := lsp.New(serverOpts...)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.WithField("addr", addr).Info("JSLT LSP server listening")
				if err := srv.RunTCP(addr); err != nil {
					return fmt.Errorf("lsp server error: %w", err)
				}
				return nil
			}
			if err := srv.RunStdio(); err != nil {
				return fmt.Errorf("lsp server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

// lspOptions translates the loaded settings into server options.
func lspOptions(cfg *cmdConfig) ([]lsp.Option, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	analyzers, err := cfg.selectAnalyzers(s.Checks)
	if err != nil {
		return nil, err
	}
	return []lsp.Option{
		lsp.WithSearchPaths(s.Paths...),
		lsp.WithBuiltins(cfg.builtinSet(s.Builtins)),
		lsp.WithHints(s.Hints),
		lsp.WithAnalyzers(analyzers),
	}, nil
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
