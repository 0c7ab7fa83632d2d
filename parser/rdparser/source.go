// Copyright © 2018 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/jsltcheck/parser/lexer"
	"github.com/luthersystems/jsltcheck/parser/token"
)

// TokenStream is an arbitrary sequence of tokens.  Typically, a TokenStream
// will be a *lexer.Lexer.
type TokenStream interface {
	// ReadToken returns a set of token from an input source.  When no more
	// tokens can be generated ReadToken returns a token with type token.EOF.
	// ReadToken never returns an empty slice.
	ReadToken() []*token.Token
}

// TokenSource abstracts a TokenStream by adding one token of lookahead.
// Comment tokens never reach the parser; they are handed to OnComment.
type TokenSource struct {
	lex       TokenStream
	Token     *token.Token
	peek      []*token.Token
	OnComment func(*token.Token)
}

func NewTokenStreamSource(stream TokenStream) *TokenSource {
	return &TokenSource{
		lex: stream,
	}
}

// NewTokenSource initializes and returns a new TokenSource that scans tokens
// from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return NewTokenStreamSource(lexer.New(scanner))
}

func (s *TokenSource) Peek() *token.Token {
	for len(s.peek) == 0 {
		for _, tok := range s.lex.ReadToken() {
			if tok.Type == token.COMMENT {
				if s.OnComment != nil {
					s.OnComment(tok)
				}
				continue
			}
			s.peek = append(s.peek, tok)
		}
	}
	return s.peek[0]
}

func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	for _, typ := range typ {
		if s.Peek().Type == typ {
			s.scan()
			return true
		}
	}
	return false
}

func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.scan()
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}

func (s *TokenSource) scan() {
	s.Token = s.Peek()
	s.peek = s.peek[1:]
}
