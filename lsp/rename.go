// Copyright © 2024 The ELPS authors

package lsp

import (
	"errors"
	"fmt"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentPrepareRename validates that the symbol under the cursor
// is renameable and returns its range.
func (s *Server) textDocumentPrepareRename(_ *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil // no document, nothing to rename
	}
	r, id := s.nodeAt(doc, params.Position)
	if id == syntax.NoNode {
		return nil, nil
	}
	sym := symbolOf(r, id)
	// Per LSP spec, prepareRename returns null (not error) for
	// non-renameable symbols.
	if !renameable(r, sym) {
		return nil, nil
	}
	return &protocol.RangeWithPlaceholder{
		Range:       syntaxToLSPRange(identRange(r.Tree(), id, sym)),
		Placeholder: sym.Name,
	}, nil
}

// textDocumentRename handles the textDocument/rename request.
func (s *Server) textDocumentRename(_ *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, errors.New("document not found")
	}
	r, id := s.nodeAt(doc, params.Position)
	if id == syntax.NoNode {
		return nil, errors.New("no symbol at position")
	}
	sym := symbolOf(r, id)
	if sym == nil {
		return nil, errors.New("no symbol at position")
	}
	if !renameable(r, sym) {
		return nil, fmt.Errorf("cannot rename %s: %s", sym.Kind, sym.Name)
	}

	tree := r.Tree()
	edits := []protocol.TextEdit{{
		Range:   syntaxToLSPRange(identRange(tree, sym.Node, sym)),
		NewText: params.NewName,
	}}
	for _, use := range usagesOf(r, sym) {
		edits = append(edits, protocol.TextEdit{
			Range:   syntaxToLSPRange(identRange(tree, use, sym)),
			NewText: params.NewName,
		})
	}
	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{params.TextDocument.URI: edits},
	}, nil
}

// renameable reports whether sym is declared in the resolver's own tree.
// Built-ins and functions of imported files are not renamed.
func renameable(r *analysis.Resolver, sym *analysis.Symbol) bool {
	return sym != nil && sym.Kind != analysis.SymBuiltin && sym.Tree == r.Tree()
}

// identRange returns the part of node id that spells sym's name: the name
// after the $ of a variable, the alias or the name of a qualified call.
func identRange(tree *syntax.Tree, id syntax.NodeID, sym *analysis.Symbol) syntax.Range {
	rng := tree.NameRange(id)
	n := tree.Node(id)
	switch {
	case n.Kind == syntax.KindVariableUsage:
		rng.Start = advance(rng.Start, 1)
	case n.Kind == syntax.KindFunctionName && n.Alias != "":
		if sym.Kind == analysis.SymImportAlias {
			rng.End = advance(rng.Start, len(n.Alias))
		} else {
			rng.Start = advance(rng.Start, len(n.Alias)+1)
		}
	}
	return rng
}

// advance moves pos n bytes along its line.
func advance(pos syntax.Position, n int) syntax.Position {
	pos.Col += n
	pos.Offset += n
	return pos
}
