// Copyright © 2024 The ELPS authors

package analysis

import "github.com/luthersystems/jsltcheck/syntax"

// SymbolKind classifies a symbol definition.
type SymbolKind int

const (
	SymVariable    SymbolKind = iota // let binding
	SymFunction                      // def
	SymParameter                     // function parameter
	SymImportAlias                   // import "path" as alias
	SymBuiltin                       // builtin function
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "variable"
	case SymFunction:
		return "function"
	case SymParameter:
		return "parameter"
	case SymImportAlias:
		return "import alias"
	case SymBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Symbol describes a declaration.  Two symbols denote the same declaration
// exactly when their Tree and Node are equal; builtins have no Node.
type Symbol struct {
	Name string
	Kind SymbolKind
	Node syntax.NodeID
	Tree *syntax.Tree
}

// Is reports whether sym is the declaration node decl of tree.
func (sym *Symbol) Is(tree *syntax.Tree, decl syntax.NodeID) bool {
	return sym != nil && sym.Tree == tree && sym.Node == decl && decl != syntax.NoNode
}

// Range returns the range of the declared identifier.
func (sym *Symbol) Range() syntax.Range {
	if sym == nil || sym.Tree == nil {
		return syntax.Range{}
	}
	return sym.Tree.NameRange(sym.Node)
}

// SymbolOf returns the Symbol declared by node decl, or nil when decl is
// not a declaration.
func SymbolOf(tree *syntax.Tree, decl syntax.NodeID) *Symbol {
	var kind SymbolKind
	switch tree.Kind(decl) {
	case syntax.KindLetDecl:
		kind = SymVariable
	case syntax.KindParam:
		kind = SymParameter
	case syntax.KindFunctionDecl:
		kind = SymFunction
	case syntax.KindImportDeclaration:
		kind = SymImportAlias
	default:
		return nil
	}
	return &Symbol{Name: tree.Name(decl), Kind: kind, Node: decl, Tree: tree}
}

func builtinSymbol(name string) *Symbol {
	return &Symbol{Name: name, Kind: SymBuiltin, Node: syntax.NoNode}
}
