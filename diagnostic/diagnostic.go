// Copyright © 2024 The ELPS authors

// Package diagnostic provides Rust-style annotated rendering of JSLT
// diagnostics for CLI output.  It does not depend on the analysis packages,
// so any command can render its own messages with it.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
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

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File    string // path for reading source; display name if unreadable
	Line    int    // 1-based line number
	Col     int    // 1-based start column
	EndLine int    // 1-based end line (0 = same as Line)
	EndCol  int    // 1-based inclusive end column (0 = auto-detect from source)
	Label   string // text shown under the underline
}

// Diagnostic represents a single error, warning, or informational hint with
// optional source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // check name shown after the severity, e.g. error[unused-symbol]
	Spans    []Span
	Notes    []string // "= note:" lines
}
