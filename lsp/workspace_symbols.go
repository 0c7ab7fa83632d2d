// Copyright © 2024 The ELPS authors

package lsp

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceSymbol handles the workspace/symbol request.  It returns the
// top-level functions and lets of every JSLT file under the workspace root
// and of every open document that match the query.  An empty query returns
// all symbols.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	var results []protocol.SymbolInformation
	for _, path := range s.workspaceFiles() {
		tree, loc, err := s.loader.Load(context.Background(), "", path)
		if err != nil {
			continue
		}
		uri := pathToURI(loc)
		container := filepath.Base(path)
		var decls []syntax.NodeID
		decls = append(decls, analysis.FileFunctions(tree)...)
		decls = append(decls, analysis.TopLevelLets(tree)...)
		for _, decl := range decls {
			sym := analysis.SymbolOf(tree, decl)
			if !matchesQuery(sym.Name, query) {
				continue
			}
			results = append(results, protocol.SymbolInformation{
				Name:          sym.Name,
				Kind:          mapSymbolKind(sym.Kind),
				Location:      protocol.Location{URI: uri, Range: syntaxToLSPRange(sym.Range())},
				ContainerName: &container,
			})
		}
	}
	return results, nil
}

// workspaceFiles returns the JSLT files under the root and the paths of the
// open documents, without duplicates.
func (s *Server) workspaceFiles() []string {
	seen := make(map[string]bool)
	var files []string
	if s.rootPath != "" {
		scanned, err := analysis.ScanWorkspace(s.rootPath)
		if err != nil {
			s.log.WithError(err).Warn("workspace scan failed")
		}
		for _, f := range scanned {
			seen[f] = true
			files = append(files, f)
		}
	}
	for _, doc := range s.docs.All() {
		path := uriToPath(doc.URI)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files
}

// matchesQuery performs case-insensitive substring matching. An empty query
// matches everything (per LSP spec: empty string requests all symbols).
func matchesQuery(name, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), lowerQuery)
}
