// Copyright © 2024 The ELPS authors

package lsp

import (
	"context"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	r, id := s.nodeAt(doc, params.Position)
	if id == syntax.NoNode {
		return nil, nil
	}
	tree := r.Tree()

	// The path of an import navigates to the imported file.
	if tree.Kind(id) == syntax.KindLiteral {
		path := astutil.Unquote(tree.Text(id))
		_, loc, err := s.loader.Load(context.Background(), uriToPath(doc.URI), path)
		if err != nil {
			return nil, nil
		}
		return protocol.Location{URI: pathToURI(loc)}, nil
	}

	loc, ok := symbolLocation(doc, symbolOf(r, id))
	if !ok {
		return nil, nil
	}
	return loc, nil
}

// nodeAt returns a resolver for the document and the node under pos.
func (s *Server) nodeAt(doc *Document, pos protocol.Position) (*analysis.Resolver, syntax.NodeID) {
	r := s.resolver(doc)
	if r == nil {
		return nil, syntax.NoNode
	}
	return r, nodeAtPosition(r.Tree(), int(pos.Line), int(pos.Character))
}

// symbolOf returns the symbol a declaration declares or a usage refers to.
func symbolOf(r *analysis.Resolver, id syntax.NodeID) *analysis.Symbol {
	tree := r.Tree()
	if tree.Kind(id).IsDeclaration() {
		return analysis.SymbolOf(tree, id)
	}
	return r.Resolve(id).Symbol
}

// symbolLocation returns the location of a symbol's declared identifier.
// Built-ins have no location.
func symbolLocation(doc *Document, sym *analysis.Symbol) (protocol.Location, bool) {
	if sym == nil || sym.Tree == nil || sym.Node == syntax.NoNode {
		return protocol.Location{}, false
	}
	uri := doc.URI
	if sym.Tree.File != uriToPath(doc.URI) {
		uri = pathToURI(sym.Tree.File)
	}
	return protocol.Location{URI: uri, Range: syntaxToLSPRange(sym.Range())}, true
}

// sameSymbol reports whether a and b name the same declaration.  Imported
// files may be reparsed between lookups, so trees are compared by file.
func sameSymbol(a, b *analysis.Symbol) bool {
	if a == nil || b == nil || a.Tree == nil || b.Tree == nil {
		return false
	}
	return a.Node == b.Node && a.Kind == b.Kind && a.Tree.File == b.Tree.File
}
