// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from JSLT source text.  The
// whole input is held in memory so that parsed nodes can slice their source
// text directly.
type Scanner struct {
	file string
	buf  []byte

	start     int // byte index of the start of the current token
	startLine int
	startCol  int

	next int // byte index of the rune following c
	line int // line of the rune at next
	col  int // column of the rune at next

	c       rune
	readErr error
}

// NewScanner initializes and returns a new Scanner reading all of r.  A read
// failure is reported by Err once the bytes read before it are consumed.
func NewScanner(file string, r io.Reader) *Scanner {
	buf, err := io.ReadAll(r)
	s := NewScannerBytes(file, buf)
	s.readErr = err
	return s
}

// NewScannerBytes initializes and returns a Scanner over src.
func NewScannerBytes(file string, src []byte) *Scanner {
	return &Scanner{
		file:      file,
		buf:       src,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// Source returns the complete input.
func (s *Scanner) Source() []byte {
	return s.buf
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
		End:    s.Loc(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.next])
}

// Rune returns the last rune that was scanned.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned, if there are any.
func (s *Scanner) Peek() (rune, bool) {
	return s.peekAt(s.next)
}

// Peek2 returns the rune following the one returned by Peek.
func (s *Scanner) Peek2() (rune, bool) {
	_, n := utf8.DecodeRune(s.buf[min(s.next, len(s.buf)):])
	if n == 0 {
		return 0, false
	}
	return s.peekAt(s.next + n)
}

func (s *Scanner) peekAt(i int) (rune, bool) {
	if i >= len(s.buf) {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.buf[i:])
	if c == utf8.RuneError && n == 1 {
		return utf8.RuneError, false
	}
	return c, true
}

// ScanRune attempts to scan a utf-8 rune from the input for inclusion in the
// current token.
func (s *Scanner) ScanRune() error {
	if s.next >= len(s.buf) {
		return io.EOF
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	if c == utf8.RuneError && n == 1 {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.next])
	}
	s.c = c
	s.next += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Err returns an error encountered while reading the input stream.
func (s *Scanner) Err() error {
	if s.readErr == nil || s.readErr == io.EOF {
		return nil
	}
	if s.next < len(s.buf) {
		return nil
	}
	return s.readErr
}

func (s *Scanner) EOF() bool {
	return s.next >= len(s.buf)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	return s.AcceptSeq(func(c rune) bool { return '0' <= c && c <= '9' })
}

func (s *Scanner) AcceptSeqSpace() int {
	return s.AcceptSeq(unicode.IsSpace)
}

func (s *Scanner) AcceptString(literal string) (int, bool) {
	var n int
	for _, c := range literal {
		if !s.AcceptRune(c) {
			return n, false
		}
		n++
	}
	return n, true
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position, just
// beyond the last scanned rune.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.next,
		Line: s.line,
		Col:  s.col,
	}
}

// File returns the name of the source stream.
func (s *Scanner) File() string {
	return s.file
}
