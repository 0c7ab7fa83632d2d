// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/jsltcheck/diagnostic"
	"github.com/luthersystems/jsltcheck/lint"
)

func renderSeverity(sev lint.Severity) diagnostic.Severity {
	switch sev {
	case lint.SeverityError:
		return diagnostic.SeverityError
	case lint.SeverityInfo:
		return diagnostic.SeverityInfo
	default:
		return diagnostic.SeverityWarning
	}
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
// Lint ranges are half-open; rendered spans end on an inclusive column.
func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: renderSeverity(ld.Severity),
		Message:  ld.Message,
		Code:     ld.Analyzer,
	}
	if ld.Pos.Line > 0 {
		span := diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		}
		switch {
		case ld.EndPos.Line > ld.Pos.Line:
			span.EndLine = ld.EndPos.Line
		case ld.EndPos.Line == ld.Pos.Line && ld.EndPos.Col > ld.Pos.Col:
			span.EndCol = ld.EndPos.Col - 1
		}
		d.Spans = append(d.Spans, span)
	}
	d.Notes = append(d.Notes, ld.Notes...)
	if ld.Analyzer != lint.SyntaxAnalyzer {
		d.Notes = append(d.Notes, "to suppress: add \"// nolint:"+ld.Analyzer+"\" as a comment on this line")
	}
	return d
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting.
func renderLintDiagnostics(w io.Writer, mode diagnostic.ColorMode, diags []lint.Diagnostic) error {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	r := &diagnostic.Renderer{Color: mode}
	return r.RenderAll(w, ds)
}
