// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
// It lists the file's imports, top-level lets and functions.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	tree, _ := doc.snapshot()
	if tree == nil {
		return nil, nil
	}

	var decls []syntax.NodeID
	decls = append(decls, analysis.ImportDeclarations(tree)...)
	decls = append(decls, analysis.TopLevelLets(tree)...)
	decls = append(decls, analysis.FileFunctions(tree)...)
	sort.Slice(decls, func(i, j int) bool {
		return tree.Range(decls[i]).Start.Offset < tree.Range(decls[j]).Start.Offset
	})

	symbols := make([]protocol.DocumentSymbol, 0, len(decls))
	for _, decl := range decls {
		symbols = append(symbols, documentSymbol(tree, decl))
	}
	return symbols, nil
}

func documentSymbol(tree *syntax.Tree, decl syntax.NodeID) protocol.DocumentSymbol {
	sym := analysis.SymbolOf(tree, decl)
	ds := protocol.DocumentSymbol{
		Name:           sym.Name,
		Kind:           mapSymbolKind(sym.Kind),
		Range:          syntaxToLSPRange(tree.Range(declarationSpan(tree, decl))),
		SelectionRange: syntaxToLSPRange(tree.NameRange(decl)),
	}
	if sym.Kind == analysis.SymFunction {
		detail := formatSignature(tree, decl)
		ds.Detail = &detail
		for _, p := range analysis.Params(tree, decl) {
			r := syntaxToLSPRange(tree.NameRange(p))
			ds.Children = append(ds.Children, protocol.DocumentSymbol{
				Name:           tree.Name(p),
				Kind:           protocol.SymbolKindVariable,
				Range:          r,
				SelectionRange: r,
			})
		}
	}
	return ds
}

// declarationSpan returns the node spanning a declaration's full text: the
// let assignment of a LetDecl, otherwise the declaration itself.
func declarationSpan(tree *syntax.Tree, decl syntax.NodeID) syntax.NodeID {
	if tree.Kind(decl) == syntax.KindLetDecl {
		return tree.Parent(decl)
	}
	return decl
}
