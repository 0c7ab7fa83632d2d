// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Semantic token type indices; must match the order in semanticTokenLegend().
const (
	semTokenNamespace = iota
	semTokenParameter
	semTokenVariable
	semTokenFunction
	semTokenKeyword
	semTokenComment
	semTokenString
	semTokenNumber
)

// Semantic token modifier bit flags; must match the order in semanticTokenLegend().
const (
	semModDefinition = 1 << iota
	semModDefaultLibrary
)

// semanticTokenLegend returns the legend that the client uses to decode tokens.
func semanticTokenLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes: []string{
			"namespace", // 0
			"parameter", // 1
			"variable",  // 2
			"function",  // 3
			"keyword",   // 4
			"comment",   // 5
			"string",    // 6
			"number",    // 7
		},
		TokenModifiers: []string{
			"definition",     // bit 0
			"defaultLibrary", // bit 1
		},
	}
}

// rawToken is an intermediate representation before delta encoding.
type rawToken struct {
	line      int // 0-based
	startChar int // 0-based
	length    int
	tokenType int
	modifiers int
}

// textDocumentSemanticTokensFull handles the textDocument/semanticTokens/full
// request.  Names are classified by what they resolve to, the same way the
// classification check labels them.
func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	r := s.resolver(doc)
	if r == nil {
		return nil, nil
	}
	tokens := collectSemanticTokens(r)

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].line != tokens[j].line {
			return tokens[i].line < tokens[j].line
		}
		return tokens[i].startChar < tokens[j].startChar
	})
	return &protocol.SemanticTokens{Data: deltaEncode(tokens)}, nil
}

func collectSemanticTokens(r *analysis.Resolver) []rawToken {
	tree := r.Tree()
	var tokens []rawToken
	emit := func(pos syntax.Position, length, typ, mods int) {
		if pos.Line == 0 || length <= 0 {
			return
		}
		tokens = append(tokens, rawToken{
			line:      pos.Line - 1,
			startChar: pos.Col - 1,
			length:    length,
			tokenType: typ,
			modifiers: mods,
		})
	}

	astutil.Walk(tree, tree.Root, func(id syntax.NodeID, _ int) {
		n := tree.Node(id)
		rng := tree.NameRange(id)
		switch n.Kind {
		case syntax.KindLetDecl, syntax.KindParam, syntax.KindFunctionDecl, syntax.KindImportDeclaration:
			sym := analysis.SymbolOf(tree, id)
			emit(rng.Start, tokenLength(rng), symbolKindToTokenType(sym.Kind), semModDefinition)
		case syntax.KindVariableUsage:
			typ := semTokenVariable
			if sym := r.ResolveVariable(id).Symbol; sym != nil {
				typ = symbolKindToTokenType(sym.Kind)
			}
			emit(rng.Start, tokenLength(rng), typ, 0)
		case syntax.KindFunctionName:
			start := rng.Start
			if n.Alias != "" {
				emit(start, len(n.Alias), semTokenNamespace, 0)
				start.Col += len(n.Alias) + 1
			}
			mods := 0
			if r.ResolveFunction(id).Kind == analysis.Builtin {
				mods = semModDefaultLibrary
			}
			emit(start, len(n.Name), semTokenFunction, mods)
		case syntax.KindLiteral:
			emit(n.Range.Start, tokenLength(n.Range), literalTokenType(n.Text), 0)
		}
	})
	for _, c := range tree.Comments {
		emit(c.Range.Start, tokenLength(c.Range), semTokenComment, 0)
	}
	return tokens
}

func symbolKindToTokenType(kind analysis.SymbolKind) int {
	switch kind {
	case analysis.SymParameter:
		return semTokenParameter
	case analysis.SymFunction, analysis.SymBuiltin:
		return semTokenFunction
	case analysis.SymImportAlias:
		return semTokenNamespace
	default:
		return semTokenVariable
	}
}

func literalTokenType(text string) int {
	switch {
	case strings.HasPrefix(text, `"`):
		return semTokenString
	case text == "true" || text == "false" || text == "null":
		return semTokenKeyword
	default:
		return semTokenNumber
	}
}

// tokenLength returns the length of a single-line range.  Tokens spanning
// lines are not reported.
func tokenLength(rng syntax.Range) int {
	if rng.Start.Line != rng.End.Line {
		return 0
	}
	return rng.End.Col - rng.Start.Col
}

// deltaEncode converts sorted raw tokens into the LSP delta-encoded format.
// Each token is 5 integers: [deltaLine, deltaStartChar, length, tokenType, tokenModifiers].
func deltaEncode(tokens []rawToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	prevLine := 0
	prevChar := 0
	for _, tok := range tokens {
		deltaLine := tok.line - prevLine
		deltaChar := tok.startChar
		if deltaLine == 0 {
			deltaChar = tok.startChar - prevChar
		}
		data = append(data,
			safeUint(deltaLine),
			safeUint(deltaChar),
			safeUint(tok.length),
			safeUint(tok.tokenType),
			safeUint(tok.modifiers),
		)
		prevLine = tok.line
		prevChar = tok.startChar
	}
	return data
}
