// Copyright © 2024 The ELPS authors

package syntax

// Builder assembles a Tree.  Nodes are appended under an explicit parent so
// children are always kept in source order.
type Builder struct {
	tree *Tree
}

// NewBuilder returns a Builder whose tree already contains a File root.
func NewBuilder(file string) *Builder {
	b := &Builder{tree: &Tree{File: file}}
	b.tree.Nodes = append(b.tree.Nodes, Node{Kind: KindFile, Parent: NoNode})
	b.tree.Root = 0
	return b
}

// Root returns the id of the File node.
func (b *Builder) Root() NodeID {
	return b.tree.Root
}

// Add appends n as the last child of parent and returns its id.  The Parent
// and Children fields of n are overwritten.
func (b *Builder) Add(parent NodeID, n Node) NodeID {
	id := NodeID(len(b.tree.Nodes))
	n.Parent = parent
	n.Children = nil
	b.tree.Nodes = append(b.tree.Nodes, n)
	if parent != NoNode {
		p := &b.tree.Nodes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

// Wrap inserts a new node of the given kind in place of child and makes child
// its first child.  It is used to build infix expressions whose left operand
// is parsed before the operator is known.
func (b *Builder) Wrap(child NodeID, kind Kind) NodeID {
	parent := b.tree.Nodes[child].Parent
	id := NodeID(len(b.tree.Nodes))
	b.tree.Nodes = append(b.tree.Nodes, Node{
		Kind:     kind,
		Parent:   parent,
		Children: []NodeID{child},
		Range:    Range{Start: b.tree.Nodes[child].Range.Start},
	})
	b.tree.Nodes[child].Parent = id
	if parent != NoNode {
		siblings := b.tree.Nodes[parent].Children
		for i, c := range siblings {
			if c == child {
				siblings[i] = id
				break
			}
		}
	}
	return id
}

// Node returns a mutable reference to node id.  The reference is invalidated
// by the next call to Add or Wrap.
func (b *Builder) Node(id NodeID) *Node {
	return &b.tree.Nodes[id]
}

// Comment records a source comment.
func (b *Builder) Comment(c Comment) {
	b.tree.Comments = append(b.tree.Comments, c)
}

// Finish returns the completed tree.  The Builder must not be used
// afterwards.
func (b *Builder) Finish() *Tree {
	t := b.tree
	b.tree = nil
	return t
}
