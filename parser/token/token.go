// Copyright © 2018 The ELPS authors

package token

import "fmt"

type Token struct {
	Type   Type
	Text   string
	Source *Location // first byte of the token
	End    *Location // just past the last byte of the token
}

type Type uint

// Type constants used by the JSLT lexer and parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	COMMENT

	// Atoms & literals
	IDENT    // name
	PIDENT   // alias:name
	VARIABLE // $name
	DOTKEY   // .name
	STRING
	INT
	DECIMAL

	// Keywords
	IMPORT
	AS
	LET
	DEF
	IF
	ELSE
	FOR
	TRUE
	FALSE
	NULL
	AND
	OR

	// Operators
	ASSIGN
	PIPE
	EQ
	NEQ
	LT
	LTE
	GT
	GTE
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT

	// Delimiters
	DOT
	COMMA
	COLON
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R
	BRACE_L
	BRACE_R

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID:   "invalid",
	ERROR:     "error",
	EOF:       "EOF",
	COMMENT:   "//",
	IDENT:     "identifier",
	PIDENT:    "prefixed-identifier",
	VARIABLE:  "variable",
	DOTKEY:    "dot-key",
	STRING:    "string",
	INT:       "int",
	DECIMAL:   "decimal",
	IMPORT:    "import",
	AS:        "as",
	LET:       "let",
	DEF:       "def",
	IF:        "if",
	ELSE:      "else",
	FOR:       "for",
	TRUE:      "true",
	FALSE:     "false",
	NULL:      "null",
	AND:       "and",
	OR:        "or",
	ASSIGN:    "=",
	PIPE:      "|",
	EQ:        "==",
	NEQ:       "!=",
	LT:        "<",
	LTE:       "<=",
	GT:        ">",
	GTE:       ">=",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DOT:       ".",
	COMMA:     ",",
	COLON:     ":",
	PAREN_L:   "(",
	PAREN_R:   ")",
	BRACKET_L: "[",
	BRACKET_R: "]",
	BRACE_L:   "{",
	BRACE_R:   "}",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Keywords maps reserved words to their token types.
var Keywords = map[string]Type{
	"import": IMPORT,
	"as":     AS,
	"let":    LET,
	"def":    DEF,
	"if":     IF,
	"else":   ELSE,
	"for":    FOR,
	"true":   TRUE,
	"false":  FALSE,
	"null":   NULL,
	"and":    AND,
	"or":     OR,
}

type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
