// Copyright © 2024 The ELPS authors

// Package syntax defines the immutable syntax tree consumed by the JSLT
// analyzer.
//
// Nodes live in an arena owned by a Tree and refer to each other by NodeID.
// Parent links are plain ids so a tree has no cyclic ownership, and analysis
// results can name a declaration by identity without holding pointers into
// the tree.
package syntax

import "fmt"

// NodeID identifies a node within one Tree.
type NodeID int32

// NoNode is the null NodeID.
const NoNode NodeID = -1

// Position is a point in source text.  Line and Col are 1-based; Offset is a
// 0-based byte offset.  The zero Position is "unknown".
type Position struct {
	Offset int
	Line   int
	Col    int
}

func (p Position) String() string {
	if p.Line == 0 {
		return fmt.Sprintf("[%d]", p.Offset)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Range is the half-open source interval [Start, End).
type Range struct {
	Start Position
	End   Position
}

// IsZero reports whether r carries no position information.
func (r Range) IsZero() bool {
	return r.Start.Line == 0 && r.End.Line == 0 && r.Start.Offset == 0 && r.End.Offset == 0
}

// ContainsOffset reports whether the byte offset falls inside r.
func (r Range) ContainsOffset(offset int) bool {
	return r.Start.Offset <= offset && offset < r.End.Offset
}

// Node is a single element of a syntax tree.
type Node struct {
	Kind     Kind
	Parent   NodeID
	Children []NodeID

	// Range spans the whole node.  NameRange spans the identifier of a
	// declaring or referencing node and is zero for other kinds.
	Range     Range
	NameRange Range

	// Name is the declared or referenced identifier.  For an
	// ImportDeclaration it is the alias.
	Name string
	// Alias is the qualifier of an alias:name function reference.
	Alias string
	// Text is the source text spanned by the node.
	Text string
}

// Comment is a source comment retained for directive processing.
type Comment struct {
	Text  string
	Range Range
}

// Tree is a parsed JSLT file.  A Tree must not be modified after it is
// returned from Builder.Finish; it is then safe for concurrent readers.
type Tree struct {
	File     string
	Nodes    []Node
	Root     NodeID
	Comments []Comment
}

// Valid reports whether id names a node of t.
func (t *Tree) Valid(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.Nodes)
}

// Node returns the node with the given id or nil if id is not valid.
func (t *Tree) Node(id NodeID) *Node {
	if !t.Valid(id) {
		return nil
	}
	return &t.Nodes[id]
}

// Kind returns the kind of node id, or KindInvalid.
func (t *Tree) Kind(id NodeID) Kind {
	if !t.Valid(id) {
		return KindInvalid
	}
	return t.Nodes[id].Kind
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.Valid(id) {
		return NoNode
	}
	return t.Nodes[id].Parent
}

// Children returns the ordered children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Valid(id) {
		return nil
	}
	return t.Nodes[id].Children
}

// Name returns the identifier carried by id.
func (t *Tree) Name(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.Nodes[id].Name
}

// Text returns the source text of id.
func (t *Tree) Text(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.Nodes[id].Text
}

// Range returns the full range of id.
func (t *Tree) Range(id NodeID) Range {
	if !t.Valid(id) {
		return Range{}
	}
	return t.Nodes[id].Range
}

// NameRange returns the identifier range of id, falling back to the full
// node range when the node has no separate identifier range.
func (t *Tree) NameRange(id NodeID) Range {
	if !t.Valid(id) {
		return Range{}
	}
	n := &t.Nodes[id]
	if n.NameRange.IsZero() {
		return n.Range
	}
	return n.NameRange
}

// Qualified reports whether id is a FunctionName written as alias:name.
func (t *Tree) Qualified(id NodeID) bool {
	return t.Kind(id) == KindFunctionName && t.Nodes[id].Alias != ""
}

// IsTopLevel reports whether id is a direct child of the file root.
func (t *Tree) IsTopLevel(id NodeID) bool {
	p := t.Parent(id)
	return p != NoNode && p == t.Root
}

// FirstChildOfKind returns the first child of id with the given kind.
func (t *Tree) FirstChildOfKind(id NodeID, kind Kind) NodeID {
	for _, c := range t.Children(id) {
		if t.Nodes[c].Kind == kind {
			return c
		}
	}
	return NoNode
}

// ChildrenOfKind returns the children of id with the given kind in order.
func (t *Tree) ChildrenOfKind(id NodeID, kind Kind) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.Nodes[c].Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// String returns a short description of node id for debugging.
func (t *Tree) String(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return "<nil>"
	}
	switch {
	case n.Alias != "":
		return fmt.Sprintf("%s(%s:%s)@%s", n.Kind, n.Alias, n.Name, n.Range.Start)
	case n.Name != "":
		return fmt.Sprintf("%s(%s)@%s", n.Kind, n.Name, n.Range.Start)
	default:
		return fmt.Sprintf("%s@%s", n.Kind, n.Range.Start)
	}
}
