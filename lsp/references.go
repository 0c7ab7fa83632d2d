// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences handles the textDocument/references request.
// References are collected from the requesting document.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	r, id := s.nodeAt(doc, params.Position)
	if id == syntax.NoNode {
		return nil, nil
	}
	sym := symbolOf(r, id)
	if sym == nil || sym.Tree == nil {
		return nil, nil
	}

	var locs []protocol.Location
	if params.Context.IncludeDeclaration {
		if loc, ok := symbolLocation(doc, sym); ok {
			locs = append(locs, loc)
		}
	}
	tree := r.Tree()
	for _, use := range usagesOf(r, sym) {
		locs = append(locs, protocol.Location{
			URI:   params.TextDocument.URI,
			Range: syntaxToLSPRange(tree.NameRange(use)),
		})
	}
	return locs, nil
}

// usagesOf returns the usages in the resolver's tree that refer to sym, in
// document order.  An import alias is used by every call qualified with it.
func usagesOf(r *analysis.Resolver, sym *analysis.Symbol) []syntax.NodeID {
	tree := r.Tree()
	var uses []syntax.NodeID
	astutil.Walk(tree, tree.Root, func(id syntax.NodeID, _ int) {
		if !tree.Kind(id).IsUsage() {
			return
		}
		if sym.Kind == analysis.SymImportAlias {
			if sym.Tree == tree && tree.Node(id).Alias == sym.Name {
				uses = append(uses, id)
			}
			return
		}
		if sameSymbol(r.Resolve(id).Symbol, sym) {
			uses = append(uses, id)
		}
	})
	return uses
}
