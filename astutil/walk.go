// Copyright © 2024 The ELPS authors

// Package astutil provides shared tree walking utilities for JSLT syntax
// trees.
//
// These helpers are used by both the lint and analysis packages.  All
// traversals use an explicit stack so that deep expression nesting cannot
// exhaust the goroutine stack and searches can stop early without panics.
package astutil

import "github.com/luthersystems/jsltcheck/syntax"

// Walk calls fn for every node in the subtree rooted at root, in document
// order (pre-order, children left to right).  depth is 0 for root.
func Walk(t *syntax.Tree, root syntax.NodeID, fn func(id syntax.NodeID, depth int)) {
	if !t.Valid(root) {
		return
	}
	type frame struct {
		id    syntax.NodeID
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(top.id, top.depth)
		children := t.Children(top.id)
		// Push in reverse so the leftmost child is visited first.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], top.depth + 1})
		}
	}
}

// WalkKind calls fn for every node of the given kind under root, in document
// order.
func WalkKind(t *syntax.Tree, root syntax.NodeID, kind syntax.Kind, fn func(id syntax.NodeID)) {
	Walk(t, root, func(id syntax.NodeID, _ int) {
		if t.Kind(id) == kind {
			fn(id)
		}
	})
}

// Search returns the first node under root, in document order, for which
// match returns true.  The traversal stops at the first match.  Search
// returns syntax.NoNode when nothing matches.
func Search(t *syntax.Tree, root syntax.NodeID, match func(id syntax.NodeID) bool) syntax.NodeID {
	if !t.Valid(root) {
		return syntax.NoNode
	}
	stack := []syntax.NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if match(id) {
			return id
		}
		children := t.Children(id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return syntax.NoNode
}

// Enclosing returns the nearest proper ancestor of id whose kind is one of
// kinds, or syntax.NoNode.
func Enclosing(t *syntax.Tree, id syntax.NodeID, kinds ...syntax.Kind) syntax.NodeID {
	for p := t.Parent(id); p != syntax.NoNode; p = t.Parent(p) {
		k := t.Kind(p)
		for _, want := range kinds {
			if k == want {
				return p
			}
		}
	}
	return syntax.NoNode
}

// CallTarget returns the FunctionName child of a FunctionCall node.
func CallTarget(t *syntax.Tree, call syntax.NodeID) syntax.NodeID {
	if t.Kind(call) != syntax.KindFunctionCall {
		return syntax.NoNode
	}
	return t.FirstChildOfKind(call, syntax.KindFunctionName)
}

// ArgCount returns the number of argument expressions of a FunctionCall
// node (every child except the function name).
func ArgCount(t *syntax.Tree, call syntax.NodeID) int {
	n := 0
	for _, c := range t.Children(call) {
		if t.Kind(c) != syntax.KindFunctionName {
			n++
		}
	}
	return n
}

// ImportPath returns the unquoted path of an ImportDeclaration and the id
// of the literal that spells it.
func ImportPath(t *syntax.Tree, decl syntax.NodeID) (string, syntax.NodeID) {
	lit := t.FirstChildOfKind(decl, syntax.KindLiteral)
	if lit == syntax.NoNode {
		return "", syntax.NoNode
	}
	return Unquote(t.Text(lit)), lit
}

// PairKey returns the key expression of a Pair node.
func PairKey(t *syntax.Tree, pair syntax.NodeID) syntax.NodeID {
	children := t.Children(pair)
	if t.Kind(pair) != syntax.KindPair || len(children) == 0 {
		return syntax.NoNode
	}
	return children[0]
}

// Unquote strips the surrounding double quotes of a JSLT string literal and
// resolves its escapes.  Text that is not a well formed literal is returned
// with only the outer quotes trimmed.
func Unquote(text string) string {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return text
	}
	body := text[1 : len(text)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			out = append(out, c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		default:
			out = append(out, body[i])
		}
	}
	return string(out)
}
