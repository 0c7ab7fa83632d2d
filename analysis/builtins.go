// Copyright © 2024 The ELPS authors

package analysis

import "sort"

// BuiltinSet is a set of reserved built-in function names.
type BuiltinSet map[string]struct{}

// NewBuiltinSet returns a set containing names.
func NewBuiltinSet(names ...string) BuiltinSet {
	s := make(BuiltinSet, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Has reports whether name is a built-in function.
func (s BuiltinSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// With returns a copy of s extended with names.
func (s BuiltinSet) With(names ...string) BuiltinSet {
	out := make(BuiltinSet, len(s)+len(names))
	for name := range s {
		out[name] = struct{}{}
	}
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out
}

// Names returns the members of s in sorted order.
func (s BuiltinSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// jsltFunctions is the JSLT standard function library.
var jsltFunctions = []string{
	// general
	"contains", "size", "error", "fallback", "min", "max",
	// numeric
	"is-number", "is-integer", "is-decimal", "number", "round", "floor",
	"ceiling", "random", "sum", "mod", "hash-int",
	// string
	"is-string", "string", "test", "capture", "split", "join", "lowercase",
	"uppercase", "sha256-hex", "starts-with", "ends-with", "from-json",
	"to-json", "replace", "trim", "uuid",
	// boolean
	"is-boolean", "boolean", "not",
	// array
	"is-array", "array", "flatten", "all", "any", "zip", "zip-with-index",
	"index-of",
	// object
	"is-object", "get-key", "group-by",
	// time
	"now", "parse-time", "format-time",
	// url
	"parse-url",
}

// DefaultBuiltins returns a new set holding the JSLT standard functions.
func DefaultBuiltins() BuiltinSet {
	return NewBuiltinSet(jsltFunctions...)
}
