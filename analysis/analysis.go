// Copyright © 2024 The ELPS authors

// Package analysis provides scope-aware semantic analysis for JSLT source.
//
// Resolution is pull based.  A Resolver answers one query at a time by
// walking the immutable syntax tree from the usage towards the file root;
// nothing is cached between queries, so a Resolver may be shared by
// concurrent readers of the same tree.  Imported files are reached through
// a FileResolver supplied in the Config, and only one level of import
// indirection is ever followed.
package analysis

import "github.com/luthersystems/jsltcheck/syntax"

// Config controls the behavior of the analyzer.
type Config struct {
	// Builtins is the set of reserved built-in function names.  Calls to
	// these names resolve without a declaration and are not arity checked.
	Builtins BuiltinSet

	// Files locates the trees of imported files.  A nil Files finds
	// nothing.
	Files FileResolver

	// Filename is the source file being analyzed.
	Filename string
}

// DefaultConfig returns a Config with the standard JSLT function catalog and
// no import lookup.
func DefaultConfig() *Config {
	return &Config{Builtins: DefaultBuiltins()}
}

func (cfg *Config) files() FileResolver {
	if cfg == nil || cfg.Files == nil {
		return noFiles{}
	}
	return cfg.Files
}

func (cfg *Config) isBuiltin(name string) bool {
	return cfg != nil && cfg.Builtins.Has(name)
}

// FileResolver locates the syntax tree of an imported file by the path
// written in its import declaration.
type FileResolver interface {
	FindFileTree(path string) (*syntax.Tree, bool)
}

// FileResolverFunc adapts an ordinary function to a FileResolver.
type FileResolverFunc func(path string) (*syntax.Tree, bool)

// FindFileTree calls fn(path).
func (fn FileResolverFunc) FindFileTree(path string) (*syntax.Tree, bool) {
	return fn(path)
}

// MapFiles is an in-memory FileResolver keyed by import path.
type MapFiles map[string]*syntax.Tree

// FindFileTree implements FileResolver.
func (m MapFiles) FindFileTree(path string) (*syntax.Tree, bool) {
	t, ok := m[path]
	return t, ok && t != nil
}

type noFiles struct{}

func (noFiles) FindFileTree(string) (*syntax.Tree, bool) { return nil, false }
