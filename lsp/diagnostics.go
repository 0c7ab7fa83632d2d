// Copyright © 2024 The ELPS authors

package lsp

import (
	"time"

	"github.com/luthersystems/jsltcheck/lint"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const debounceDelay = 300 * time.Millisecond

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay analysis to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() { _ = recover() }() // don't crash the server on analysis panic
		s.reanalyzeOpenDocuments()
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)

	// The saved file may be imported by files that are not open.
	s.loader.Reset()
	s.reanalyzeOpenDocuments()
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	// Importers now see the file on disk instead of the buffer.
	s.reanalyzeOpenDocuments()
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish runs the linter on a document and publishes the
// resulting diagnostics to the client.
func (s *Server) analyzeAndPublish(doc *Document) {
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: s.diagnostics(doc),
	})
}

// diagnostics computes the LSP diagnostics of a document.
func (s *Server) diagnostics(doc *Document) []protocol.Diagnostic {
	path := uriToPath(doc.URI)
	tree, parseErr := doc.snapshot()

	var lintDiags []lint.Diagnostic
	if parseErr != nil {
		d, ok := lint.SyntaxDiagnostic(path, parseErr)
		if !ok {
			d = lint.Diagnostic{
				Pos:      lint.Position{File: path, Line: 1, Col: 1},
				Message:  parseErr.Error(),
				Analyzer: lint.SyntaxAnalyzer,
				Severity: lint.SeverityError,
			}
		}
		lintDiags = []lint.Diagnostic{d}
	} else {
		var err error
		lintDiags, err = s.linter.LintTree(tree, s.analysisConfig(doc.URI))
		if err != nil {
			s.log.WithError(err).WithField("uri", doc.URI).Warn("lint failed")
			lintDiags = nil
		}
	}
	if !s.hints {
		lintDiags = lint.FilterSeverity(lintDiags, lint.SeverityWarning)
	}

	diags := make([]protocol.Diagnostic, 0, len(lintDiags))
	for _, d := range lintDiags {
		diags = append(diags, convertLintDiagnostic(d))
	}
	return diags
}

// convertLintDiagnostic converts a lint.Diagnostic to an LSP Diagnostic.
// A diagnostic with no end position covers one character.
func convertLintDiagnostic(d lint.Diagnostic) protocol.Diagnostic {
	start := protocol.Position{Line: safeUint(d.Pos.Line - 1), Character: safeUint(d.Pos.Col - 1)}
	end := protocol.Position{Line: start.Line, Character: start.Character + 1}
	if d.EndPos.Line > 0 {
		end = protocol.Position{Line: safeUint(d.EndPos.Line - 1), Character: safeUint(d.EndPos.Col - 1)}
	}
	sev := mapLintSeverity(d.Severity)
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &sev,
		Source:   strPtr("jsltcheck"),
		Code:     &protocol.IntegerOrString{Value: d.Analyzer},
		Message:  d.Message,
	}
}

// mapLintSeverity converts a lint.Severity to a protocol.DiagnosticSeverity.
func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case lint.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func strPtr(s string) *string {
	return &s
}
