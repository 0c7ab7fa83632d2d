// Copyright © 2018 The ELPS authors

// Package rdparser is a recursive-descent parser for JSLT.  It produces a
// syntax.Tree shaped for semantic analysis: declarations carry their names
// and name ranges, and every node retains the source text it spans.
package rdparser

import (
	"fmt"
	"strings"

	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/parser/token"
	"github.com/luthersystems/jsltcheck/syntax"
)

// Parser builds a syntax.Tree from a token stream.  A Parser stops at the
// first syntax error.
type Parser struct {
	src  *TokenSource
	b    *syntax.Builder
	text []byte
	file string
	err  error
}

// bailout unwinds the parser stack after p.err has been set.
type bailout struct{}

// New initializes and returns a new Parser reading source from scanner.
func New(scanner *token.Scanner) *Parser {
	return &Parser{
		src:  NewTokenSource(scanner),
		text: scanner.Source(),
		file: scanner.File(),
	}
}

// ParseFile parses a complete JSLT module:
//
//	import* (let | def)* expr?
//
// The returned error is a *token.LocationError.
func (p *Parser) ParseFile() (tree *syntax.Tree, err error) {
	p.b = syntax.NewBuilder(p.file)
	p.src.OnComment = func(tok *token.Token) {
		p.b.Comment(syntax.Comment{Text: tok.Text, Range: tokenRange(tok)})
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			tree, err = nil, p.err
		}
	}()
	root := p.b.Root()
	p.parseImports(root)
	for {
		switch p.peekType() {
		case token.LET:
			p.parseLet(root)
			continue
		case token.DEF:
			p.parseDef(root)
			continue
		}
		break
	}
	if !p.src.IsEOF() {
		p.parseExpr(root)
	}
	eof := p.expect(token.EOF)
	n := p.b.Node(root)
	n.Range = syntax.Range{
		Start: syntax.Position{Offset: 0, Line: 1, Col: 1},
		End:   position(eof.Source),
	}
	n.Text = string(p.text)
	return p.b.Finish(), nil
}

func (p *Parser) parseImports(root syntax.NodeID) {
	if p.peekType() != token.IMPORT {
		return
	}
	group := p.add(root, syntax.KindImportAliasGroup, p.src.Peek())
	for p.peekType() == token.IMPORT {
		kw := p.next()
		decl := p.add(group, syntax.KindImportDeclaration, kw)
		path := p.expect(token.STRING)
		p.finish(p.add(decl, syntax.KindLiteral, path))
		p.expect(token.AS)
		alias := p.expect(token.IDENT)
		p.name(decl, alias, alias.Text)
		p.finish(decl)
	}
	p.finish(group)
}

func (p *Parser) parseLets(parent syntax.NodeID) {
	for p.peekType() == token.LET {
		p.parseLet(parent)
	}
}

// let name = expr
func (p *Parser) parseLet(parent syntax.NodeID) {
	kw := p.expect(token.LET)
	assign := p.add(parent, syntax.KindLetAssignment, kw)
	name := p.expect(token.IDENT)
	decl := p.add(assign, syntax.KindLetDecl, name)
	p.name(decl, name, name.Text)
	p.finish(decl)
	p.expect(token.ASSIGN)
	p.parseExpr(assign)
	p.finish(assign)
}

// def name(param, ...) let* expr
func (p *Parser) parseDef(parent syntax.NodeID) {
	kw := p.expect(token.DEF)
	fn := p.add(parent, syntax.KindFunctionDecl, kw)
	name := p.expect(token.IDENT)
	p.name(fn, name, name.Text)
	p.expect(token.PAREN_L)
	if p.peekType() != token.PAREN_R {
		for {
			tok := p.expect(token.IDENT)
			param := p.add(fn, syntax.KindParam, tok)
			p.name(param, tok, tok.Text)
			p.finish(param)
			if !p.src.AcceptType(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.PAREN_R)
	p.parseLets(fn)
	p.parseExpr(fn)
	p.finish(fn)
}

// Binary operators grouped from lowest to highest precedence.  All are left
// associative.
var binaryLevels = [][]token.Type{
	{token.PIPE},
	{token.OR},
	{token.AND},
	{token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE},
	{token.PLUS, token.MINUS},
	{token.STAR, token.SLASH, token.PERCENT},
}

func (p *Parser) parseExpr(parent syntax.NodeID) syntax.NodeID {
	return p.parseBinary(parent, 0)
}

func (p *Parser) parseBinary(parent syntax.NodeID, level int) syntax.NodeID {
	if level == len(binaryLevels) {
		return p.parseUnary(parent)
	}
	left := p.parseBinary(parent, level+1)
	for p.peekIn(binaryLevels[level]) {
		op := p.next()
		id := p.b.Wrap(left, syntax.KindOperator)
		p.b.Node(id).Name = op.Text
		p.parseBinary(id, level+1)
		p.finish(id)
		left = id
	}
	return left
}

func (p *Parser) parseUnary(parent syntax.NodeID) syntax.NodeID {
	if p.peekType() != token.MINUS {
		return p.parsePostfix(parent)
	}
	op := p.next()
	id := p.add(parent, syntax.KindOperator, op)
	p.b.Node(id).Name = op.Text
	p.parseUnary(id)
	p.finish(id)
	return id
}

// parsePostfix parses a primary followed by any number of .key, ."key",
// [index] and [from:to] accessors.
func (p *Parser) parsePostfix(parent syntax.NodeID) syntax.NodeID {
	base := p.parsePrimary(parent)
	for {
		var id syntax.NodeID
		switch p.peekType() {
		case token.DOTKEY:
			tok := p.next()
			id = p.b.Wrap(base, syntax.KindAccessor)
			p.b.Node(id).Name = tok.Text[1:]
		case token.DOT:
			p.next()
			key := p.expect(token.STRING)
			id = p.b.Wrap(base, syntax.KindAccessor)
			p.b.Node(id).Name = astutil.Unquote(key.Text)
		case token.BRACKET_L:
			p.next()
			id = p.b.Wrap(base, syntax.KindAccessor)
			p.b.Node(id).Name = "[]"
			if p.peekType() != token.COLON {
				p.parseExpr(id)
			}
			if p.src.AcceptType(token.COLON) && p.peekType() != token.BRACKET_R {
				p.parseExpr(id)
			}
			p.expect(token.BRACKET_R)
		default:
			return base
		}
		p.finish(id)
		base = id
	}
}

func (p *Parser) parsePrimary(parent syntax.NodeID) syntax.NodeID {
	tok := p.src.Peek()
	switch tok.Type {
	case token.STRING, token.INT, token.DECIMAL, token.TRUE, token.FALSE, token.NULL:
		p.next()
		id := p.add(parent, syntax.KindLiteral, tok)
		p.finish(id)
		return id
	case token.VARIABLE:
		p.next()
		id := p.add(parent, syntax.KindVariableUsage, tok)
		p.name(id, tok, strings.TrimPrefix(tok.Text, "$"))
		p.finish(id)
		return id
	case token.DOT:
		p.next()
		id := p.add(parent, syntax.KindAccessor, tok)
		if p.peekType() == token.STRING {
			p.b.Node(id).Name = astutil.Unquote(p.next().Text)
		}
		p.finish(id)
		return id
	case token.DOTKEY:
		p.next()
		id := p.add(parent, syntax.KindAccessor, tok)
		p.b.Node(id).Name = tok.Text[1:]
		p.finish(id)
		return id
	case token.IDENT, token.PIDENT:
		return p.parseCall(parent)
	case token.PAREN_L:
		p.next()
		id := p.add(parent, syntax.KindParen, tok)
		p.parseExpr(id)
		p.expect(token.PAREN_R)
		p.finish(id)
		return id
	case token.BRACKET_L:
		return p.parseArray(parent)
	case token.BRACE_L:
		return p.parseObject(parent)
	case token.IF:
		return p.parseIf(parent)
	case token.ERROR, token.INVALID:
		p.errorf(tok, "%s", tok.Text)
	case token.EOF:
		p.errorf(tok, "unexpected end of input")
	}
	p.errorf(tok, "unexpected %s", describe(tok))
	return syntax.NoNode
}

// name(args, ...) or alias:name(args, ...)
func (p *Parser) parseCall(parent syntax.NodeID) syntax.NodeID {
	tok := p.next()
	call := p.add(parent, syntax.KindFunctionCall, tok)
	fname := p.add(call, syntax.KindFunctionName, tok)
	alias, name, ok := strings.Cut(tok.Text, ":")
	if !ok {
		alias, name = "", tok.Text
	}
	p.name(fname, tok, name)
	p.b.Node(fname).Alias = alias
	p.finish(fname)
	p.expect(token.PAREN_L)
	if p.peekType() != token.PAREN_R {
		for {
			p.parseExpr(call)
			if !p.src.AcceptType(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.PAREN_R)
	p.finish(call)
	return call
}

// [expr, ...] or [for (expr) let* expr if (expr)]
func (p *Parser) parseArray(parent syntax.NodeID) syntax.NodeID {
	open := p.next()
	if p.peekType() == token.FOR {
		id := p.add(parent, syntax.KindFor, open)
		p.b.Node(id).Name = open.Text
		p.parseForHead(id)
		p.parseExpr(id)
		p.parseForFilter(id)
		p.expect(token.BRACKET_R)
		p.finish(id)
		return id
	}
	id := p.add(parent, syntax.KindArray, open)
	for p.peekType() != token.BRACKET_R {
		p.parseExpr(id)
		if !p.src.AcceptType(token.COMMA) {
			break
		}
	}
	p.expect(token.BRACKET_R)
	p.finish(id)
	return id
}

// {let* (key : expr | * : expr), ...} or {for (expr) let* key : expr if (expr)}
func (p *Parser) parseObject(parent syntax.NodeID) syntax.NodeID {
	open := p.next()
	if p.peekType() == token.FOR {
		id := p.add(parent, syntax.KindFor, open)
		p.b.Node(id).Name = open.Text
		p.parseForHead(id)
		p.parsePair(id)
		p.parseForFilter(id)
		p.expect(token.BRACE_R)
		p.finish(id)
		return id
	}
	id := p.add(parent, syntax.KindPairGroup, open)
	p.parseLets(id)
	for p.peekType() != token.BRACE_R {
		if p.peekType() == token.STAR {
			p.parseMatcher(id)
		} else {
			p.parsePair(id)
		}
		if !p.src.AcceptType(token.COMMA) {
			break
		}
	}
	p.expect(token.BRACE_R)
	p.finish(id)
	return id
}

func (p *Parser) parsePair(parent syntax.NodeID) {
	pair := p.add(parent, syntax.KindPair, p.src.Peek())
	p.parseExpr(pair)
	p.expect(token.COLON)
	p.parseExpr(pair)
	p.finish(pair)
}

// * - "key", ... : expr
func (p *Parser) parseMatcher(parent syntax.NodeID) {
	star := p.next()
	m := p.add(parent, syntax.KindObjectMatcher, star)
	if p.src.AcceptType(token.MINUS) {
		for {
			key := p.expect(token.STRING)
			p.finish(p.add(m, syntax.KindLiteral, key))
			if !p.src.AcceptType(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.COLON)
	p.parseExpr(m)
	p.finish(m)
}

func (p *Parser) parseForHead(id syntax.NodeID) {
	p.expect(token.FOR)
	p.expect(token.PAREN_L)
	p.parseExpr(id)
	p.expect(token.PAREN_R)
	p.parseLets(id)
}

func (p *Parser) parseForFilter(id syntax.NodeID) {
	if !p.src.AcceptType(token.IF) {
		return
	}
	p.expect(token.PAREN_L)
	p.parseExpr(id)
	p.expect(token.PAREN_R)
}

// if (expr) let* expr [else let* expr]
//
// The else branch is wrapped in its own node so that its let chain is
// separate from the then branch.
func (p *Parser) parseIf(parent syntax.NodeID) syntax.NodeID {
	kw := p.next()
	id := p.add(parent, syntax.KindIf, kw)
	p.expect(token.PAREN_L)
	p.parseExpr(id)
	p.expect(token.PAREN_R)
	p.parseLets(id)
	p.parseExpr(id)
	if p.peekType() == token.ELSE {
		el := p.add(id, syntax.KindElse, p.next())
		p.parseLets(el)
		p.parseExpr(el)
		p.finish(el)
	}
	p.finish(id)
	return id
}

func (p *Parser) add(parent syntax.NodeID, kind syntax.Kind, start *token.Token) syntax.NodeID {
	return p.b.Add(parent, syntax.Node{
		Kind:  kind,
		Range: syntax.Range{Start: position(start.Source)},
	})
}

func (p *Parser) name(id syntax.NodeID, tok *token.Token, name string) {
	n := p.b.Node(id)
	n.Name = name
	n.NameRange = tokenRange(tok)
}

// finish closes node id at the end of the most recently consumed token.
func (p *Parser) finish(id syntax.NodeID) {
	n := p.b.Node(id)
	n.Range.End = position(p.src.Token.End)
	start, end := n.Range.Start.Offset, n.Range.End.Offset
	if 0 <= start && start <= end && end <= len(p.text) {
		n.Text = string(p.text[start:end])
	}
}

func (p *Parser) next() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) peekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) peekIn(types []token.Type) bool {
	typ := p.peekType()
	for _, t := range types {
		if t == typ {
			return true
		}
	}
	return false
}

func (p *Parser) expect(typ token.Type) *token.Token {
	tok := p.src.Peek()
	if tok.Type == typ {
		if typ == token.EOF {
			p.src.Token = tok
			return tok
		}
		return p.next()
	}
	switch tok.Type {
	case token.ERROR, token.INVALID:
		p.errorf(tok, "%s", tok.Text)
	}
	p.errorf(tok, "expected %s but found %s", typ, describe(tok))
	return nil
}

func (p *Parser) errorf(tok *token.Token, format string, v ...interface{}) {
	p.err = &token.LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: tok.Source,
	}
	panic(bailout{})
}

func describe(tok *token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.STRING:
		return "string " + tok.Text
	}
	if tok.Text == "" {
		return tok.Type.String()
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

func position(loc *token.Location) syntax.Position {
	if loc == nil {
		return syntax.Position{}
	}
	return syntax.Position{Offset: loc.Pos, Line: loc.Line, Col: loc.Col}
}

func tokenRange(tok *token.Token) syntax.Range {
	return syntax.Range{Start: position(tok.Source), End: position(tok.End)}
}
