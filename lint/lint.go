// Copyright © 2024 The ELPS authors

// Package lint provides static analysis for JSLT source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that subscribes to the node kinds it inspects.  The framework handles
// parsing, visiting every node of the tree once, collecting results, and
// formatting output.
//
// Analyzers are composable and extensible.  Embedders can define custom
// checks alongside the built-in set.
package lint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/parser"
	"github.com/luthersystems/jsltcheck/parser/token"
	"github.com/luthersystems/jsltcheck/syntax"
	"gopkg.in/yaml.v3"
)

// SyntaxAnalyzer is the analyzer name carried by parse error diagnostics.
const SyntaxAnalyzer = "syntax"

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity returns the severity named by str.
func ParseSeverity(str string) (Severity, error) {
	switch str {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	}
	return severityUnset, fmt.Errorf("unknown severity: %q", str)
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sev, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// MarshalYAML serializes the severity as a YAML string.
func (s Severity) MarshalYAML() (interface{}, error) {
	if s == severityUnset {
		return "warning", nil
	}
	return s.String(), nil
}

// UnmarshalYAML deserializes a severity from a YAML scalar.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	sev, err := ParseSeverity(value.Value)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "unused-symbol").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Kinds lists the node kinds passed to Run.
	Kinds []syntax.Kind

	// Run inspects one node of a subscribed kind.  It should call
	// pass.Report() for each finding.  A returned error aborts linting.
	Run func(pass *Pass, id syntax.NodeID) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Tree is the parsed file.
	Tree *syntax.Tree

	// Resolver answers scope queries against Tree.
	Resolver *analysis.Resolver

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	if d.Pos.File == "" {
		d.Pos.File = p.Filename
	}
	if d.EndPos.File == "" && d.EndPos.Line > 0 {
		d.EndPos.File = d.Pos.File
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic spanning rng.
func (p *Pass) Reportf(rng syntax.Range, format string, args ...interface{}) {
	d := Diagnostic{Message: fmt.Sprintf(format, args...)}
	d.Pos, d.EndPos = p.span(rng)
	p.Report(d)
}

// ReportNodef reports a diagnostic at the identifier of node id, or the
// whole node when it has no identifier.
func (p *Pass) ReportNodef(id syntax.NodeID, format string, args ...interface{}) {
	p.Reportf(p.Tree.NameRange(id), format, args...)
}

// ReportSeverityf reports a diagnostic with an explicit severity.
func (p *Pass) ReportSeverityf(sev Severity, rng syntax.Range, format string, args ...interface{}) {
	d := Diagnostic{Message: fmt.Sprintf(format, args...), Severity: sev}
	d.Pos, d.EndPos = p.span(rng)
	p.Report(d)
}

func (p *Pass) span(rng syntax.Range) (Position, Position) {
	return PositionOf(p.Filename, rng.Start), PositionOf(p.Filename, rng.End)
}

// Diagnostic is a single reported problem.  It spans [Pos, EndPos).
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos" yaml:"pos"`

	// EndPos is the end of the problem range.  It is zero when only a
	// single point is known.
	EndPos Position `json:"end,omitempty" yaml:"end,omitempty"`

	// Message is a human-readable description of the problem.
	Message string `json:"message" yaml:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer" yaml:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity" yaml:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Col    int    `json:"col,omitempty" yaml:"col,omitempty"`
	Offset int    `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// PositionOf converts a syntax position in file to a Position.
func PositionOf(file string, pos syntax.Position) Position {
	return Position{File: file, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (analyzer)
// with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer
}

// LintFile parses and analyzes a single source file and returns all
// diagnostics.  A syntax error is returned as a single error diagnostic from
// the "syntax" analyzer rather than as an error.  A nil cfg is
// analysis.DefaultConfig().
func (l *Linter) LintFile(source []byte, filename string, cfg *analysis.Config) ([]Diagnostic, error) {
	tree, err := parser.Parse(filename, source)
	if err != nil {
		d, ok := SyntaxDiagnostic(filename, err)
		if !ok {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return []Diagnostic{d}, nil
	}
	return l.LintTree(tree, cfg)
}

// LintTree analyzes a parsed file.  Every node is visited once in document
// order and handed to each analyzer subscribed to its kind.  Diagnostics are
// returned sorted by position; diagnostics at the same position keep
// analyzer order.
func (l *Linter) LintTree(tree *syntax.Tree, cfg *analysis.Config) ([]Diagnostic, error) {
	if cfg == nil {
		cfg = analysis.DefaultConfig()
	}
	filename := cfg.Filename
	if filename == "" {
		filename = tree.File
	}
	resolver := analysis.NewResolver(tree, cfg)

	passes := make([]*Pass, len(l.Analyzers))
	for i, analyzer := range l.Analyzers {
		passes[i] = &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Tree:     tree,
			Resolver: resolver,
		}
	}
	if err := visit(tree, passes); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	var all []Diagnostic
	for _, pass := range passes {
		all = append(all, pass.diagnostics...)
	}

	// Filter suppressed diagnostics (// nolint comments)
	all = filterSuppressed(all, tree.Comments)

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Pos, all[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})

	return all, nil
}

// SyntaxDiagnostic converts a parse error carrying a source location into an
// error diagnostic.
func SyntaxDiagnostic(filename string, err error) (Diagnostic, bool) {
	var lerr *token.LocationError
	if !errors.As(err, &lerr) || lerr.Source == nil {
		return Diagnostic{}, false
	}
	file := lerr.Source.File
	if file == "" {
		file = filename
	}
	return Diagnostic{
		Pos:      Position{File: file, Line: lerr.Source.Line, Col: lerr.Source.Col, Offset: lerr.Source.Pos},
		Message:  lerr.Err.Error(),
		Analyzer: SyntaxAnalyzer,
		Severity: SeverityError,
	}, true
}

// FilterSeverity returns the diagnostics at least as severe as level.
func FilterSeverity(diags []Diagnostic, level Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity != severityUnset && d.Severity <= level {
			out = append(out, d)
		}
	}
	return out
}

// filterSuppressed removes diagnostics on lines with // nolint comments.
func filterSuppressed(diags []Diagnostic, comments []syntax.Comment) []Diagnostic {
	// Build a map of line -> nolint directives from comments
	nolintLines := make(map[int]string) // line -> "" (all) or "analyzer1,analyzer2"
	for _, c := range comments {
		checkNolintComment(c, nolintLines)
	}
	if len(nolintLines) == 0 {
		return diags
	}

	var filtered []Diagnostic
	for _, d := range diags {
		directive, ok := nolintLines[d.Pos.Line]
		if !ok {
			filtered = append(filtered, d)
			continue
		}
		// Empty directive = suppress all
		if directive == "" {
			continue
		}
		// Check if this specific analyzer is suppressed
		suppressed := false
		for _, name := range strings.Split(directive, ",") {
			if strings.TrimSpace(name) == d.Analyzer {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func checkNolintComment(c syntax.Comment, lines map[int]string) {
	text := strings.TrimSpace(c.Text)
	// Strip comment prefix
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "nolint") {
		return
	}
	rest := strings.TrimPrefix(text, "nolint")
	if rest == "" {
		lines[c.Range.Start.Line] = ""
		return
	}
	if strings.HasPrefix(rest, ":") {
		lines[c.Range.Start.Line] = strings.TrimPrefix(rest, ":")
	}
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// FormatYAML writes diagnostics as a YAML sequence.
func FormatYAML(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(diags); err != nil {
		return err
	}
	return enc.Close()
}
