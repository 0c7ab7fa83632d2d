// Copyright © 2018 The ELPS authors

// Package lexer converts JSLT source text into tokens.
package lexer

import (
	"fmt"
	"unicode"

	"github.com/luthersystems/jsltcheck/parser/token"
)

type LexFn func(*Lexer) []*token.Token

type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
}

// ReadToken returns the next tokens in the input.  At the end of input it
// returns a single token.EOF token on every call.
func (lex *Lexer) ReadToken() []*token.Token {
	return lex.lex(lex)
}

func (lex *Lexer) readToken() []*token.Token {
	lex.skipWhitespace()
	if lex.scanner.EOF() {
		if err := lex.scanner.Err(); err != nil {
			return lex.emitError(err)
		}
		return lex.emit(token.EOF, "")
	}
	if err := lex.scanner.ScanRune(); err != nil {
		return lex.emitError(err)
	}
	c := lex.scanner.Rune()
	switch c {
	case '(':
		return lex.charToken(token.PAREN_L)
	case ')':
		return lex.charToken(token.PAREN_R)
	case '[':
		return lex.charToken(token.BRACKET_L)
	case ']':
		return lex.charToken(token.BRACKET_R)
	case '{':
		return lex.charToken(token.BRACE_L)
	case '}':
		return lex.charToken(token.BRACE_R)
	case ',':
		return lex.charToken(token.COMMA)
	case ':':
		return lex.charToken(token.COLON)
	case '|':
		return lex.charToken(token.PIPE)
	case '+':
		return lex.charToken(token.PLUS)
	case '-':
		return lex.charToken(token.MINUS)
	case '*':
		return lex.charToken(token.STAR)
	case '%':
		return lex.charToken(token.PERCENT)
	case '/':
		if lex.scanner.AcceptRune('/') {
			lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
			return lex.charToken(token.COMMENT)
		}
		return lex.charToken(token.SLASH)
	case '=':
		if lex.scanner.AcceptRune('=') {
			return lex.charToken(token.EQ)
		}
		return lex.charToken(token.ASSIGN)
	case '!':
		if lex.scanner.AcceptRune('=') {
			return lex.charToken(token.NEQ)
		}
		return lex.errorf("unexpected character %q", c)
	case '<':
		if lex.scanner.AcceptRune('=') {
			return lex.charToken(token.LTE)
		}
		return lex.charToken(token.LT)
	case '>':
		if lex.scanner.AcceptRune('=') {
			return lex.charToken(token.GTE)
		}
		return lex.charToken(token.GT)
	case '.':
		if lex.scanner.Accept(isWordStart) {
			lex.scanner.AcceptSeq(isWord)
			return lex.charToken(token.DOTKEY)
		}
		return lex.charToken(token.DOT)
	case '$':
		if !lex.scanner.Accept(isWordStart) {
			return lex.errorf("variable name expected after $")
		}
		lex.scanner.AcceptSeq(isWord)
		return lex.charToken(token.VARIABLE)
	case '"':
		return lex.readString()
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			return lex.readIdent()
		}
		err := fmt.Errorf("unexpected text starting with %q", c)
		return lex.emit(token.INVALID, err.Error())
	}
}

func (lex *Lexer) readString() []*token.Token {
	for {
		if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
			return lex.errorf("unterminated string literal")
		}
		switch lex.scanner.Rune() {
		case '"':
			return lex.charToken(token.STRING)
		case '\\':
			// The escaped character is validated when the literal is used.
			if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
				return lex.errorf("unterminated string literal")
			}
		}
	}
}

func (lex *Lexer) readIdent() []*token.Token {
	lex.scanner.AcceptSeq(isWord)
	if r, ok := lex.scanner.Peek(); ok && r == ':' {
		if r2, ok := lex.scanner.Peek2(); ok && isWordStart(r2) {
			lex.scanner.AcceptRune(':')
			lex.scanner.AcceptSeq(isWord)
			return lex.charToken(token.PIDENT)
		}
	}
	if typ, ok := token.Keywords[lex.scanner.Text()]; ok {
		return lex.charToken(typ)
	}
	return lex.charToken(token.IDENT)
}

func (lex *Lexer) readNumber() []*token.Token {
	lex.scanner.AcceptSeqDigit() // the first digit already scanned
	typ := token.INT
	if r, ok := lex.scanner.Peek(); ok && r == '.' {
		if r2, ok := lex.scanner.Peek2(); ok && isDigit(r2) {
			lex.scanner.AcceptRune('.')
			lex.scanner.AcceptSeqDigit()
			typ = token.DECIMAL
		}
	}
	if lex.scanner.AcceptAny("eE") {
		lex.scanner.AcceptAny("+-")
		if lex.scanner.AcceptSeqDigit() == 0 {
			return lex.errorf("invalid number literal starting: %v", lex.scanner.Text())
		}
		typ = token.DECIMAL
	}
	return lex.charToken(typ)
}

func (lex *Lexer) charToken(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := []*token.Token{{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
		End:    lex.scanner.Loc(),
	}}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error) []*token.Token {
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) []*token.Token {
	return lex.emitError(fmt.Errorf(format, v...))
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || isDigit(c) || c == '_' || c == '-'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
