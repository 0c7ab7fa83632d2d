// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	r, id := s.nodeAt(doc, params.Position)
	if id == syntax.NoNode {
		return nil, nil
	}
	sym := symbolOf(r, id)
	if sym == nil {
		return nil, nil
	}
	rng := syntaxToLSPRange(r.Tree().NameRange(id))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: buildHoverContent(sym),
		},
		Range: &rng,
	}, nil
}

// buildHoverContent builds Markdown hover text for a symbol.
func buildHoverContent(sym *analysis.Symbol) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", sym.Kind, sym.Name)

	switch sym.Kind {
	case analysis.SymFunction:
		fmt.Fprintf(&sb, "\n\n```jslt\ndef %s%s\n```", sym.Name, formatSignature(sym.Tree, sym.Node))
	case analysis.SymImportAlias:
		path, _ := astutil.ImportPath(sym.Tree, sym.Node)
		fmt.Fprintf(&sb, "\n\n```jslt\nimport %q as %s\n```", path, sym.Name)
	}

	if sym.Tree != nil && sym.Node != syntax.NoNode {
		fmt.Fprintf(&sb, "\n\n*Defined in %s:%d*", sym.Tree.File, sym.Range().Start.Line)
	}
	return sb.String()
}
