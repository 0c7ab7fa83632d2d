// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/diagnostic"
	"github.com/luthersystems/jsltcheck/lint"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes shared by the commands.
const (
	exitClean    = 0
	exitFindings = 1
	exitUsage    = 2
)

// exitError carries a process exit code out of a command's RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCode(err error) int {
	if err == nil {
		return exitClean
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type lintOptions struct {
	format   string
	checks   []string
	excludes []string
	hints    bool
	paths    []string
	builtins []string
	color    diagnostic.ColorMode
}

// lintRunner lints files with one import loader, so a file imported by
// several linted files is read and parsed once per run.
type lintRunner struct {
	linter   *lint.Linter
	loader   *analysis.Loader
	builtins analysis.BuiltinSet
	excludes excludeSet
	opts     lintOptions
	stdout   io.Writer
	stderr   io.Writer
	log      *log.Entry
}

func newLintRunner(cfg *cmdConfig, opts lintOptions, stdout, stderr io.Writer) (*lintRunner, error) {
	analyzers, err := cfg.selectAnalyzers(opts.checks)
	if err != nil {
		return nil, err
	}
	excludes, err := compileExcludes(opts.excludes)
	if err != nil {
		return nil, err
	}
	return &lintRunner{
		linter:   &lint.Linter{Analyzers: analyzers},
		loader:   analysis.NewLoader(opts.paths...),
		builtins: cfg.builtinSet(opts.builtins),
		excludes: excludes,
		opts:     opts,
		stdout:   stdout,
		stderr:   stderr,
		log:      log.WithField("component", "lint"),
	}, nil
}

// lintSource analyzes src as the file named filename.  Imports are looked
// up relative to the file's absolute location.
func (r *lintRunner) lintSource(ctx context.Context, src []byte, filename string) ([]lint.Diagnostic, error) {
	importer := filename
	if abs, err := filepath.Abs(filename); err == nil {
		importer = abs
	}
	cfg := &analysis.Config{
		Builtins: r.builtins,
		Files:    r.loader.For(ctx, importer),
		Filename: filename,
	}
	return r.linter.LintFile(src, filename, cfg)
}

func (r *lintRunner) lintFile(ctx context.Context, path string) ([]lint.Diagnostic, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r.lintSource(ctx, src, path)
}

// run lints args (stdin when empty) once and returns the exit code.
func (r *lintRunner) run(ctx context.Context, args []string, stdin io.Reader) int {
	var all []lint.Diagnostic
	if len(args) == 0 {
		src, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(r.stderr, "reading stdin: %v\n", err)
			return exitUsage
		}
		all, err = r.lintSource(ctx, src, "<stdin>")
		if err != nil {
			fmt.Fprintln(r.stderr, err)
			return exitUsage
		}
	} else {
		paths, err := expandArgs(args, r.excludes)
		if err != nil {
			fmt.Fprintln(r.stderr, err)
			return exitUsage
		}
		for _, path := range paths {
			diags, err := r.lintFile(ctx, path)
			if err != nil {
				fmt.Fprintln(r.stderr, err)
				return exitUsage
			}
			all = append(all, diags...)
		}
		r.log.WithField("files", len(paths)).Debug("lint finished")
	}
	return r.report(all)
}

// report writes diags in the selected format.  Informational diagnostics
// are dropped unless hints are enabled, and never fail the run.
func (r *lintRunner) report(diags []lint.Diagnostic) int {
	if !r.opts.hints {
		diags = lint.FilterSeverity(diags, lint.SeverityWarning)
	}
	var err error
	switch r.opts.format {
	case formatJSON:
		err = lint.FormatJSON(r.stdout, diags)
	case formatYAML:
		err = lint.FormatYAML(r.stdout, diags)
	default:
		if len(diags) > 0 {
			err = renderLintDiagnostics(r.stderr, r.opts.color, diags)
		}
	}
	if err != nil {
		fmt.Fprintln(r.stderr, err)
		return exitUsage
	}
	if len(lint.FilterSeverity(diags, lint.SeverityWarning)) > 0 {
		return exitFindings
	}
	return exitClean
}

// LintCommand creates the "lint" cobra command with optional embedder
// configuration.  Embedders can pass WithBuiltins or WithAnalyzers to make
// the checks aware of functions and rules their runtime adds.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		jsonOut bool
		yamlOut bool
		listAll bool
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on JSLT source files",
		Long: `Run static analysis checks on JSLT source files.

The linter reports likely mistakes in JSLT code, similar to "go vet" for Go.
Each check is an independent analyzer that examines the parsed syntax tree
and reports diagnostics. Run "jsltcheck checks" for a description of each.

With no files, reads from stdin. With files, analyzes each file and reports
all findings to stderr (or stdout with --json / --yaml). An argument ending
in "/..." expands to every .jslt file below that directory.

Imports are looked up next to the importing file, then in each --path
directory in order.

Exit codes:
  0  No problems found
  1  One or more errors or warnings were reported
  2  Bad invocation (invalid flags, unreadable files)

To suppress a specific diagnostic, add a comment on the same line:
  let x = 1 // nolint:unused-symbol

To suppress all checks on a line:
  let x = 1 // nolint

Available checks (use --checks to select specific ones):
  ` + strings.Join(analyzerNames(cfg.allAnalyzers()), "\n  ") + `

Examples:
  jsltcheck lint transform.jslt                    # Lint a single file
  jsltcheck lint --json transform.jslt             # Output diagnostics as JSON
  jsltcheck lint --checks=call-arity ./...         # Run only specific checks
  jsltcheck lint --path lib ./...                  # Search lib/ for imports
  jsltcheck lint --exclude='generated_*' ./...     # Exclude files by name
  jsltcheck lint --watch ./...                     # Re-lint on every change
  cat transform.jslt | jsltcheck lint              # Lint from stdin`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listAll {
				for _, name := range analyzerNames(cfg.allAnalyzers()) {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			fail := func(err error) error {
				fmt.Fprintf(cmd.ErrOrStderr(), "jsltcheck lint: %v\n", err)
				return &exitError{code: exitUsage}
			}
			if jsonOut && yamlOut {
				return fail(errors.New("--json and --yaml are mutually exclusive"))
			}
			s, err := loadSettings()
			if err != nil {
				return fail(err)
			}
			color, err := diagnostic.ParseColorMode(s.Color)
			if err != nil {
				return fail(fmt.Errorf("config: %w", err))
			}
			lopts := lintOptions{
				format:   formatText,
				checks:   s.Checks,
				excludes: s.Exclude,
				hints:    s.Hints,
				paths:    s.Paths,
				builtins: s.Builtins,
				color:    color,
			}
			switch {
			case jsonOut:
				lopts.format = formatJSON
			case yamlOut:
				lopts.format = formatYAML
			}
			r, err := newLintRunner(cfg, lopts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return fail(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if watch {
				if len(args) == 0 {
					return fail(errors.New("--watch needs at least one file or directory"))
				}
				if err := r.watch(ctx, args); err != nil {
					return fail(err)
				}
				return nil
			}
			if code := r.run(ctx, args, cmd.InOrStdin()); code != exitClean {
				return &exitError{code: code}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON.")
	flags.BoolVar(&yamlOut, "yaml", false,
		"Output diagnostics as YAML.")
	flags.StringSlice("checks", nil,
		"Comma-separated list of checks to run (default: all).")
	flags.BoolVar(&listAll, "list", false,
		"List available checks and exit.")
	flags.StringArray("exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	flags.Bool("hints", false,
		"Also report informational classification hints.")
	flags.StringArray("path", nil,
		"Directory searched for imports (may be repeated).")
	flags.BoolVar(&watch, "watch", false,
		"Keep running and re-lint when a .jslt file changes.")

	_ = viper.BindPFlag("checks", flags.Lookup("checks"))
	_ = viper.BindPFlag("exclude", flags.Lookup("exclude"))
	_ = viper.BindPFlag("hints", flags.Lookup("hints"))
	_ = viper.BindPFlag("paths", flags.Lookup("path"))

	return cmd
}

func analyzerNames(analyzers []*lint.Analyzer) []string {
	names := make([]string, 0, len(analyzers))
	for _, a := range analyzers {
		names = append(names, a.Name)
	}
	return names
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
