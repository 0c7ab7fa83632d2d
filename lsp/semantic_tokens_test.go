// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func semanticTokens(t *testing.T, s *Server, uri string) []rawToken {
	t.Helper()
	result, err := s.textDocumentSemanticTokensFull(mockContext(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return decodeTokens(result.Data)
}

func TestSemanticTokensFull(t *testing.T) {
	s := testServer()

	t.Run("declarations and references", func(t *testing.T) {
		doc := openDoc(s, "file:///test/tokens.jslt", "let x = 1\ndef f(a) $a\nf($x)")
		assert.Equal(t, []rawToken{
			{0, 4, 1, semTokenVariable, semModDefinition},
			{0, 8, 1, semTokenNumber, 0},
			{1, 4, 1, semTokenFunction, semModDefinition},
			{1, 6, 1, semTokenParameter, semModDefinition},
			{1, 9, 2, semTokenParameter, 0},
			{2, 0, 1, semTokenFunction, 0},
			{2, 2, 2, semTokenVariable, 0},
		}, semanticTokens(t, s, doc.URI))
	})

	t.Run("qualified call", func(t *testing.T) {
		doc := openDoc(s, "file:///test/qualified.jslt", "import \"l.jslt\" as l\nl:g(true)")
		assert.Equal(t, []rawToken{
			{0, 7, 8, semTokenString, 0},
			{0, 19, 1, semTokenNamespace, semModDefinition},
			{1, 0, 1, semTokenNamespace, 0},
			{1, 2, 1, semTokenFunction, 0},
			{1, 4, 4, semTokenKeyword, 0},
		}, semanticTokens(t, s, doc.URI))
	})

	t.Run("builtin and comment", func(t *testing.T) {
		doc := openDoc(s, "file:///test/builtin.jslt", "// size\nsize(\"ab\")")
		assert.Equal(t, []rawToken{
			{0, 0, 7, semTokenComment, 0},
			{1, 0, 4, semTokenFunction, semModDefaultLibrary},
			{1, 5, 4, semTokenString, 0},
		}, semanticTokens(t, s, doc.URI))
	})

	t.Run("unresolved variable", func(t *testing.T) {
		doc := openDoc(s, "file:///test/unresolved.jslt", "$nope")
		assert.Equal(t, []rawToken{{0, 0, 5, semTokenVariable, 0}}, semanticTokens(t, s, doc.URI))
	})

	t.Run("nil doc returns nil", func(t *testing.T) {
		result, err := s.textDocumentSemanticTokensFull(mockContext(), &protocol.SemanticTokensParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.jslt"},
		})
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}

func TestDeltaEncode(t *testing.T) {
	tokens := []rawToken{
		{line: 0, startChar: 0, length: 3, tokenType: semTokenKeyword, modifiers: 0},
		{line: 0, startChar: 5, length: 4, tokenType: semTokenFunction, modifiers: semModDefinition},
		{line: 1, startChar: 2, length: 1, tokenType: semTokenVariable, modifiers: 0},
	}
	assert.Equal(t, []protocol.UInteger{
		0, 0, 3, semTokenKeyword, 0,
		0, 5, 4, semTokenFunction, semModDefinition,
		1, 2, 1, semTokenVariable, 0,
	}, deltaEncode(tokens))
	assert.Equal(t, tokens, decodeTokens(deltaEncode(tokens)))
}

func TestSemanticTokenLegend(t *testing.T) {
	legend := semanticTokenLegend()
	assert.Equal(t, "namespace", legend.TokenTypes[semTokenNamespace])
	assert.Equal(t, "parameter", legend.TokenTypes[semTokenParameter])
	assert.Equal(t, "variable", legend.TokenTypes[semTokenVariable])
	assert.Equal(t, "function", legend.TokenTypes[semTokenFunction])
	assert.Equal(t, "keyword", legend.TokenTypes[semTokenKeyword])
	assert.Equal(t, "comment", legend.TokenTypes[semTokenComment])
	assert.Equal(t, "string", legend.TokenTypes[semTokenString])
	assert.Equal(t, "number", legend.TokenTypes[semTokenNumber])
	assert.Equal(t, "definition", legend.TokenModifiers[0])
	assert.Equal(t, "defaultLibrary", legend.TokenModifiers[1])
}

// decodeTokens converts delta-encoded data back to raw tokens for testing.
func decodeTokens(data []protocol.UInteger) []rawToken {
	var tokens []rawToken
	prevLine := 0
	prevChar := 0
	for i := 0; i+4 < len(data); i += 5 {
		line := prevLine + int(data[i])
		char := int(data[i+1])
		if data[i] == 0 {
			char = prevChar + int(data[i+1])
		}
		tokens = append(tokens, rawToken{
			line:      line,
			startChar: char,
			length:    int(data[i+2]),
			tokenType: int(data[i+3]),
			modifiers: int(data[i+4]),
		})
		prevLine = line
		prevChar = char
	}
	return tokens
}
