// Copyright © 2024 The ELPS authors

package analysis

import "github.com/luthersystems/jsltcheck/syntax"

// FileFunctions returns the top-level function declarations of tree in
// declaration order.
func FileFunctions(tree *syntax.Tree) []syntax.NodeID {
	return tree.ChildrenOfKind(tree.Root, syntax.KindFunctionDecl)
}

// ImportDeclarations returns the import declarations of tree in declaration
// order.
func ImportDeclarations(tree *syntax.Tree) []syntax.NodeID {
	var out []syntax.NodeID
	for _, group := range tree.ChildrenOfKind(tree.Root, syntax.KindImportAliasGroup) {
		out = append(out, tree.ChildrenOfKind(group, syntax.KindImportDeclaration)...)
	}
	return out
}

// TopLevelLets returns the LetDecl nodes of the file-level let chain.
func TopLevelLets(tree *syntax.Tree) []syntax.NodeID {
	return LetDecls(tree, tree.Root)
}

// LetDecls returns the LetDecl nodes of the let chain owned by node owner.
func LetDecls(tree *syntax.Tree, owner syntax.NodeID) []syntax.NodeID {
	var out []syntax.NodeID
	for _, assign := range tree.ChildrenOfKind(owner, syntax.KindLetAssignment) {
		if decl := tree.FirstChildOfKind(assign, syntax.KindLetDecl); decl != syntax.NoNode {
			out = append(out, decl)
		}
	}
	return out
}

// Params returns the parameters of a function declaration.
func Params(tree *syntax.Tree, fn syntax.NodeID) []syntax.NodeID {
	return tree.ChildrenOfKind(fn, syntax.KindParam)
}

// FindFunction returns the first top-level function of tree named name.
func FindFunction(tree *syntax.Tree, name string) syntax.NodeID {
	return findByName(tree, FileFunctions(tree), name)
}

// FindImport returns the first import declaration of tree with the given
// alias.
func FindImport(tree *syntax.Tree, alias string) syntax.NodeID {
	return findByName(tree, ImportDeclarations(tree), alias)
}

func findByName(tree *syntax.Tree, decls []syntax.NodeID, name string) syntax.NodeID {
	for _, id := range decls {
		if tree.Name(id) == name {
			return id
		}
	}
	return syntax.NoNode
}

// Siblings returns the declarations of the construct that declares decl:
// the enclosing let chain, parameter list, import group, or the file's
// function set.  Names must be unique within the returned slice.
func Siblings(tree *syntax.Tree, decl syntax.NodeID) []syntax.NodeID {
	switch tree.Kind(decl) {
	case syntax.KindLetDecl:
		return LetDecls(tree, tree.Parent(tree.Parent(decl)))
	case syntax.KindParam:
		return Params(tree, tree.Parent(decl))
	case syntax.KindImportDeclaration:
		return tree.ChildrenOfKind(tree.Parent(decl), syntax.KindImportDeclaration)
	case syntax.KindFunctionDecl:
		return tree.ChildrenOfKind(tree.Parent(decl), syntax.KindFunctionDecl)
	}
	return nil
}

// CountDeclarations returns how many declarations of decl's construct share
// its name.  The result is 0 when decl is not a declaration.
func CountDeclarations(tree *syntax.Tree, decl syntax.NodeID) int {
	name := tree.Name(decl)
	n := 0
	for _, id := range Siblings(tree, decl) {
		if tree.Name(id) == name {
			n++
		}
	}
	return n
}
