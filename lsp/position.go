// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// syntaxToLSPPosition converts a 1-based tree position to a 0-based LSP
// position.
func syntaxToLSPPosition(pos syntax.Position) protocol.Position {
	return protocol.Position{
		Line:      safeUint(pos.Line - 1),
		Character: safeUint(pos.Col - 1),
	}
}

// syntaxToLSPRange converts a tree range to an LSP range.
func syntaxToLSPRange(rng syntax.Range) protocol.Range {
	return protocol.Range{
		Start: syntaxToLSPPosition(rng.Start),
		End:   syntaxToLSPPosition(rng.End),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// nodeAtPosition returns the usage or declaration whose identifier lies
// under the 0-based LSP position.  The path literal of an import counts as
// well.  A cursor just past the end of an identifier selects it when no
// identifier starts there.
func nodeAtPosition(tree *syntax.Tree, line, col int) syntax.NodeID {
	// Convert LSP 0-based to tree 1-based.
	pos := syntax.Position{Line: line + 1, Col: col + 1}
	touching := syntax.NoNode
	hit := astutil.Search(tree, tree.Root, func(id syntax.NodeID) bool {
		if !isNavigable(tree, id) {
			return false
		}
		rng := tree.NameRange(id)
		if before(pos, rng.Start) || before(rng.End, pos) {
			return false
		}
		if rng.End.Line == pos.Line && rng.End.Col == pos.Col {
			if touching == syntax.NoNode {
				touching = id
			}
			return false
		}
		return true
	})
	if hit != syntax.NoNode {
		return hit
	}
	return touching
}

func isNavigable(tree *syntax.Tree, id syntax.NodeID) bool {
	k := tree.Kind(id)
	if k == syntax.KindLiteral {
		return tree.Kind(tree.Parent(id)) == syntax.KindImportDeclaration
	}
	return k.IsDeclaration() || k.IsUsage()
}

// before reports whether a precedes b, comparing lines and columns only.
func before(a, b syntax.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}

// mapSymbolKind converts an analysis.SymbolKind to an LSP SymbolKind.
func mapSymbolKind(kind analysis.SymbolKind) protocol.SymbolKind {
	switch kind {
	case analysis.SymFunction, analysis.SymBuiltin:
		return protocol.SymbolKindFunction
	case analysis.SymImportAlias:
		return protocol.SymbolKindModule
	default:
		return protocol.SymbolKindVariable
	}
}

// formatSignature renders the parameter list of a function declaration,
// e.g. "(a, b)".
func formatSignature(tree *syntax.Tree, fn syntax.NodeID) string {
	var names []string
	for _, p := range analysis.Params(tree, fn) {
		names = append(names, tree.Name(p))
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
