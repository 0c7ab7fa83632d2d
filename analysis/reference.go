// Copyright © 2024 The ELPS authors

package analysis

import "github.com/luthersystems/jsltcheck/syntax"

// ResolutionKind is the outcome of resolving a usage.
type ResolutionKind int

const (
	Unresolved     ResolutionKind = iota // no declaration reachable
	Resolved                             // Symbol names the declaration
	Builtin                              // a built-in function name
	UndefinedAlias                       // alias:name whose alias is not imported
	NotInImport                          // alias:name whose name is absent from the imported file
)

func (k ResolutionKind) String() string {
	switch k {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case Builtin:
		return "builtin"
	case UndefinedAlias:
		return "undefined-alias"
	case NotInImport:
		return "not-in-import"
	default:
		return "unknown"
	}
}

// Resolution records the result of resolving one usage.
type Resolution struct {
	Kind ResolutionKind

	// Symbol is set for Resolved and Builtin results.  A qualified
	// function resolves to a Symbol whose Tree is the imported file.
	Symbol *Symbol

	// Import is the ImportDeclaration a qualified name was resolved
	// through, or syntax.NoNode.
	Import syntax.NodeID
	// ImportPath is the path written in Import.
	ImportPath string
}

// OK reports whether the usage refers to something that exists.
func (r Resolution) OK() bool {
	return r.Kind == Resolved || r.Kind == Builtin
}

// Target returns the declaration node the usage resolved to, or
// syntax.NoNode.
func (r Resolution) Target() syntax.NodeID {
	if r.Kind != Resolved || r.Symbol == nil {
		return syntax.NoNode
	}
	return r.Symbol.Node
}

func unresolved() Resolution {
	return Resolution{Kind: Unresolved, Import: syntax.NoNode}
}
