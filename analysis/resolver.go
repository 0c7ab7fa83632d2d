// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
)

// Resolver resolves usages in one tree to their declarations.
type Resolver struct {
	tree *syntax.Tree
	cfg  *Config
}

// NewResolver returns a Resolver for tree.  A nil cfg is DefaultConfig().
func NewResolver(tree *syntax.Tree, cfg *Config) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Resolver{tree: tree, cfg: cfg}
}

// Tree returns the tree being resolved.
func (r *Resolver) Tree() *syntax.Tree {
	return r.tree
}

// Config returns the resolver configuration.
func (r *Resolver) Config() *Config {
	return r.cfg
}

// Resolve dispatches on the kind of node id.  A FunctionCall resolves its
// target name.  Nodes that are not usages are Unresolved.
func (r *Resolver) Resolve(id syntax.NodeID) Resolution {
	switch r.tree.Kind(id) {
	case syntax.KindVariableUsage:
		return r.ResolveVariable(id)
	case syntax.KindFunctionName:
		return r.ResolveFunction(id)
	case syntax.KindFunctionCall:
		return r.ResolveFunction(astutil.CallTarget(r.tree, id))
	}
	return unresolved()
}

// ResolveVariable resolves a VariableUsage through the enclosing scopes,
// innermost first.
func (r *Resolver) ResolveVariable(usage syntax.NodeID) Resolution {
	name := r.tree.Name(usage)
	if name == "" {
		return unresolved()
	}
	for _, scope := range ScopeChain(r.tree, usage) {
		if decl := scope.Lookup(name); decl != syntax.NoNode {
			return r.resolved(r.tree, decl)
		}
	}
	return unresolved()
}

// ResolveFunction resolves a FunctionName.  Unqualified names are looked up
// among the file's functions and then the built-ins.  Qualified names are
// looked up in the file imported under their alias.
func (r *Resolver) ResolveFunction(fname syntax.NodeID) Resolution {
	n := r.tree.Node(fname)
	if n == nil || n.Kind != syntax.KindFunctionName || n.Name == "" {
		return unresolved()
	}
	if n.Alias != "" {
		return r.resolveQualified(n.Alias, n.Name)
	}
	if fn := FindFunction(r.tree, n.Name); fn != syntax.NoNode {
		return r.resolved(r.tree, fn)
	}
	if r.cfg.isBuiltin(n.Name) {
		return Resolution{Kind: Builtin, Symbol: builtinSymbol(n.Name), Import: syntax.NoNode}
	}
	return unresolved()
}

func (r *Resolver) resolveQualified(alias, name string) Resolution {
	decl := FindImport(r.tree, alias)
	if decl == syntax.NoNode {
		return Resolution{Kind: UndefinedAlias, Import: syntax.NoNode}
	}
	path, _ := astutil.ImportPath(r.tree, decl)
	res := Resolution{Kind: NotInImport, Import: decl, ImportPath: path}
	imported, ok := r.ImportTree(decl)
	if !ok {
		return res
	}
	if fn := FindFunction(imported, name); fn != syntax.NoNode {
		res.Kind = Resolved
		res.Symbol = SymbolOf(imported, fn)
	}
	return res
}

// ImportTree returns the tree of the file named by an ImportDeclaration.
func (r *Resolver) ImportTree(decl syntax.NodeID) (*syntax.Tree, bool) {
	path, _ := astutil.ImportPath(r.tree, decl)
	if path == "" {
		return nil, false
	}
	return r.cfg.files().FindFileTree(path)
}

func (r *Resolver) resolved(tree *syntax.Tree, decl syntax.NodeID) Resolution {
	return Resolution{Kind: Resolved, Symbol: SymbolOf(tree, decl), Import: syntax.NoNode}
}
