// Copyright © 2024 The ELPS authors

package analysis

import "github.com/luthersystems/jsltcheck/syntax"

// ScopeKind classifies the kind of scope.
type ScopeKind int

const (
	ScopeFile     ScopeKind = iota // top-level let chain
	ScopeFunction                  // def parameters and body lets
	ScopeLet                       // let chain of an object, if, else or for
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFile:
		return "file"
	case ScopeFunction:
		return "function"
	case ScopeLet:
		return "let"
	default:
		return "unknown"
	}
}

// Scope is a region of the tree that introduces variable bindings.  Node is
// the node owning the bindings.
type Scope struct {
	Kind ScopeKind
	Node syntax.NodeID
	Tree *syntax.Tree
}

// Lookup returns the declaration of name in s alone, or syntax.NoNode.  In a
// function scope parameters take priority over the body's let chain.
func (s Scope) Lookup(name string) syntax.NodeID {
	if s.Kind == ScopeFunction {
		if id := findByName(s.Tree, Params(s.Tree, s.Node), name); id != syntax.NoNode {
			return id
		}
	}
	return findByName(s.Tree, LetDecls(s.Tree, s.Node), name)
}

// ScopeChain returns the scopes enclosing node id, innermost first.  The
// last element is always the file scope.  The lets of an if's then branch
// are not in scope inside its else branch, and the lets of a for or if are
// not in scope inside its iterable or condition.
func ScopeChain(tree *syntax.Tree, id syntax.NodeID) []Scope {
	var chain []Scope
	from := id
	for p := tree.Parent(id); p != syntax.NoNode; from, p = p, tree.Parent(p) {
		switch {
		case p == tree.Root:
			chain = append(chain, Scope{Kind: ScopeFile, Node: p, Tree: tree})
		case tree.Kind(p) == syntax.KindFunctionDecl:
			chain = append(chain, Scope{Kind: ScopeFunction, Node: p, Tree: tree})
		case tree.Kind(p) == syntax.KindIf && tree.Kind(from) == syntax.KindElse:
		case precedesLets(tree, p, from):
		case tree.FirstChildOfKind(p, syntax.KindLetAssignment) != syntax.NoNode:
			chain = append(chain, Scope{Kind: ScopeLet, Node: p, Tree: tree})
		}
	}
	return chain
}

// precedesLets reports whether child comes before the first let assignment
// of p.
func precedesLets(tree *syntax.Tree, p, child syntax.NodeID) bool {
	for _, c := range tree.Children(p) {
		switch {
		case tree.Kind(c) == syntax.KindLetAssignment:
			return false
		case c == child:
			return true
		}
	}
	return false
}
