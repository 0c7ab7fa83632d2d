// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
)

// VisibilityRoot returns the smallest subtree in which decl can be
// referenced.  Top-level lets, functions and import aliases are visible in
// the whole file, a local let in its let chain's owner and a parameter in
// its function.
func VisibilityRoot(tree *syntax.Tree, decl syntax.NodeID) syntax.NodeID {
	switch tree.Kind(decl) {
	case syntax.KindLetDecl:
		return tree.Parent(tree.Parent(decl))
	case syntax.KindParam:
		return tree.Parent(decl)
	case syntax.KindFunctionDecl, syntax.KindImportDeclaration:
		return tree.Root
	}
	return syntax.NoNode
}

// IsUsed reports whether some usage in the visibility root of decl resolves
// to decl.  An import alias is used by any qualified function name carrying
// it, whether or not the qualified name itself resolves.  Declarations
// without a name are reported as used.
func IsUsed(r *Resolver, decl syntax.NodeID) bool {
	tree := r.Tree()
	name := tree.Name(decl)
	if name == "" {
		return true
	}
	root := VisibilityRoot(tree, decl)
	if root == syntax.NoNode {
		return true
	}
	var match func(id syntax.NodeID) bool
	switch tree.Kind(decl) {
	case syntax.KindImportDeclaration:
		match = func(id syntax.NodeID) bool {
			n := tree.Node(id)
			return n.Kind == syntax.KindFunctionName && n.Alias == name
		}
	case syntax.KindFunctionDecl:
		match = func(id syntax.NodeID) bool {
			n := tree.Node(id)
			if n.Kind != syntax.KindFunctionName || n.Alias != "" || n.Name != name {
				return false
			}
			return r.ResolveFunction(id).Symbol.Is(tree, decl)
		}
	default:
		match = func(id syntax.NodeID) bool {
			n := tree.Node(id)
			if n.Kind != syntax.KindVariableUsage || n.Name != name {
				return false
			}
			return r.ResolveVariable(id).Symbol.Is(tree, decl)
		}
	}
	return astutil.Search(tree, root, match) != syntax.NoNode
}
