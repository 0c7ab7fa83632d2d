// Copyright © 2018 The ELPS authors

// Package parser is the entry point for turning JSLT source into a
// syntax.Tree.
package parser

import (
	"bytes"
	"io"

	"github.com/luthersystems/jsltcheck/parser/rdparser"
	"github.com/luthersystems/jsltcheck/parser/token"
	"github.com/luthersystems/jsltcheck/syntax"
)

// Parse parses a complete JSLT file.  A syntax error is returned as a
// *token.LocationError.
func Parse(filename string, src []byte) (*syntax.Tree, error) {
	return rdparser.New(token.NewScannerBytes(filename, src)).ParseFile()
}

// ParseReader reads r fully and parses it.
func ParseReader(filename string, r io.Reader) (*syntax.Tree, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return Parse(filename, buf.Bytes())
}
