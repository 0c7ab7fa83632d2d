// Copyright © 2018 The ELPS authors

package token

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEmitToken(t *testing.T) {
	s := NewScannerBytes("t.jslt", []byte("let x\n= 1"))
	n := s.AcceptSeq(unicode.IsLetter)
	assert.Equal(t, 3, n)
	tok := s.EmitToken(LET)
	assert.Equal(t, "let", tok.Text)
	assert.Equal(t, &Location{File: "t.jslt", Pos: 0, Line: 1, Col: 1}, tok.Source)
	assert.Equal(t, &Location{File: "t.jslt", Pos: 3, Line: 1, Col: 4}, tok.End)

	s.AcceptSeqSpace()
	s.Ignore()
	require.True(t, s.AcceptRune('x'))
	tok = s.EmitToken(IDENT)
	assert.Equal(t, "x", tok.Text)
	assert.Equal(t, 5, tok.Source.Col)

	s.AcceptSeqSpace()
	s.Ignore()
	require.True(t, s.AcceptRune('='))
	tok = s.EmitToken(ASSIGN)
	assert.Equal(t, 2, tok.Source.Line)
	assert.Equal(t, 1, tok.Source.Col)
	assert.Equal(t, 6, tok.Source.Pos)
}

func TestScannerPeek(t *testing.T) {
	s := NewScannerBytes("", []byte("aé"))
	c, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 'a', c)
	c, ok = s.Peek2()
	assert.True(t, ok)
	assert.Equal(t, 'é', c)

	require.NoError(t, s.ScanRune())
	require.NoError(t, s.ScanRune())
	assert.Equal(t, 'é', s.Rune())
	assert.Equal(t, 3, s.Loc().Col)
	assert.True(t, s.EOF())
	_, ok = s.Peek()
	assert.False(t, ok)
	_, ok = s.Peek2()
	assert.False(t, ok)
	assert.Equal(t, io.EOF, s.ScanRune())
}

func TestScannerAcceptString(t *testing.T) {
	s := NewScannerBytes("", []byte("import x"))
	n, ok := s.AcceptString("import")
	assert.True(t, ok)
	assert.Equal(t, 6, n)

	s = NewScannerBytes("", []byte("impart"))
	n, ok = s.AcceptString("import")
	assert.False(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, "imp", s.Text())
}

func TestScannerAcceptDigits(t *testing.T) {
	s := NewScannerBytes("", []byte("1234.5"))
	assert.Equal(t, 4, s.AcceptSeqDigit())
	assert.True(t, s.AcceptAny(".,"))
	assert.False(t, s.AcceptAny(".,"))
	assert.Equal(t, 1, s.AcceptSeqDigit())
}

func TestScannerInvalidUTF8(t *testing.T) {
	s := NewScannerBytes("", []byte{'a', 0xff})
	require.NoError(t, s.ScanRune())
	err := s.ScanRune()
	assert.ErrorContains(t, err, "invalid utf-8")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestScannerReadError(t *testing.T) {
	s := NewScanner("f", io.MultiReader(strings.NewReader("ab"), failingReader{}))
	assert.NoError(t, s.Err(), "error is deferred until the buffered input is consumed")
	require.NoError(t, s.ScanRune())
	require.NoError(t, s.ScanRune())
	assert.EqualError(t, s.Err(), "boom")
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "f", (&Location{File: "f", Pos: -1}).String())
	assert.Equal(t, "f[4]", (&Location{File: "f", Pos: 4}).String())
	assert.Equal(t, "f:2", (&Location{File: "f", Pos: 4, Line: 2}).String())
	assert.Equal(t, "f:2:3", (&Location{File: "f", Pos: 4, Line: 2, Col: 3}).String())

	err := &LocationError{Err: errors.New("unexpected token"), Source: &Location{File: "f", Line: 1, Col: 2}}
	assert.Equal(t, "f:1:2: unexpected token", err.Error())
	assert.True(t, errors.Is(err, err.Err))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "{", BRACE_L.String())
	assert.Equal(t, typeStrings[INVALID], Type(10000).String())
}
