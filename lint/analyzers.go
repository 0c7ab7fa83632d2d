// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
)

var declarationKinds = []syntax.Kind{
	syntax.KindLetDecl,
	syntax.KindFunctionDecl,
	syntax.KindParam,
	syntax.KindImportDeclaration,
}

// AnalyzerUnknownVariable warns about variable references with no reachable
// declaration.
var AnalyzerUnknownVariable = &Analyzer{
	Name:     "unknown-variable",
	Doc:      "Warn when a $variable does not resolve to a let binding or parameter.\n\nVariables are looked up from the innermost enclosing let chain outwards: object, if, else and for let chains, then the function's parameters and body lets, then the file's top-level lets.",
	Severity: SeverityWarning,
	Kinds:    []syntax.Kind{syntax.KindVariableUsage},
	Run: func(pass *Pass, id syntax.NodeID) error {
		if pass.Resolver.ResolveVariable(id).Kind == analysis.Unresolved {
			pass.ReportNodef(id, "unknown variable '%s'", pass.Tree.Name(id))
		}
		return nil
	},
}

// AnalyzerUndefinedFunction reports function calls whose target cannot be
// found.  Unqualified names fall back to the built-in function catalog.
var AnalyzerUndefinedFunction = &Analyzer{
	Name:     "undefined-function",
	Doc:      "Report calls to functions that are not declared.\n\nAn unqualified name must be a function declared in the file or a built-in. A qualified alias:name must use an imported alias, and name must be declared in the imported file. Alias errors are reported separately from missing functions.",
	Severity: SeverityWarning,
	Kinds:    []syntax.Kind{syntax.KindFunctionName},
	Run: func(pass *Pass, id syntax.NodeID) error {
		n := pass.Tree.Node(id)
		res := pass.Resolver.ResolveFunction(id)
		rng := pass.Tree.NameRange(id)
		switch res.Kind {
		case analysis.Unresolved:
			pass.Reportf(rng, "undefined function '%s'", n.Name)
		case analysis.UndefinedAlias:
			pass.ReportSeverityf(SeverityError, rng, "undefined import alias '%s'", n.Alias)
		case analysis.NotInImport:
			pass.ReportSeverityf(SeverityError, rng, "function '%s' not found in imported file '%s'", n.Name, res.ImportPath)
		}
		return nil
	},
}

// AnalyzerDuplicateDeclaration reports names declared more than once by the
// same let chain, parameter list, import group or file.
var AnalyzerDuplicateDeclaration = &Analyzer{
	Name:     "duplicate-declaration",
	Doc:      "Report names declared more than once in one construct.\n\nEvery declaration of the repeated name is reported. Uniqueness is checked per let chain, parameter list, import group and the file's function set; a let that shadows a binding of an enclosing scope is not a duplicate.",
	Severity: SeverityError,
	Kinds:    declarationKinds,
	Run: func(pass *Pass, id syntax.NodeID) error {
		name := pass.Tree.Name(id)
		if name == "" || analysis.CountDeclarations(pass.Tree, id) < 2 {
			return nil
		}
		if pass.Tree.Kind(id) == syntax.KindImportDeclaration {
			pass.ReportNodef(id, "duplicate import alias '%s'", name)
			return nil
		}
		pass.ReportNodef(id, "duplicate %s declaration '%s'", declarationNoun(pass.Tree.Kind(id)), name)
		return nil
	},
}

// AnalyzerDuplicateKey reports object keys repeated within one object
// literal.
var AnalyzerDuplicateKey = &Analyzer{
	Name:     "duplicate-key",
	Doc:      "Report object keys repeated within one object literal.\n\nKeys are compared by their source text, so \"a\" and .a are different keys. The first occurrence is accepted and each later one is reported.",
	Severity: SeverityError,
	Kinds:    []syntax.Kind{syntax.KindPair},
	Run: func(pass *Pass, id syntax.NodeID) error {
		t := pass.Tree
		group := t.Parent(id)
		if t.Kind(group) != syntax.KindPairGroup {
			return nil
		}
		key := astutil.PairKey(t, id)
		if key == syntax.NoNode {
			return nil
		}
		text := t.Text(key)
		for _, sibling := range t.ChildrenOfKind(group, syntax.KindPair) {
			if sibling == id {
				return nil
			}
			if t.Text(astutil.PairKey(t, sibling)) == text {
				pass.Reportf(t.Range(key), "duplicate key %s", text)
				return nil
			}
		}
		return nil
	},
}

// AnalyzerUnusedSymbol warns about declarations that nothing refers to.
var AnalyzerUnusedSymbol = &Analyzer{
	Name:     "unused-symbol",
	Doc:      "Warn when a variable, function, parameter or import alias is never used.\n\nA use must resolve to the declaration itself: a reference to a shadowing binding of the same name does not count. An import alias is used by any alias:name call. Names reported by duplicate-declaration are not also reported here.",
	Severity: SeverityWarning,
	Kinds:    declarationKinds,
	Run: func(pass *Pass, id syntax.NodeID) error {
		name := pass.Tree.Name(id)
		if name == "" || analysis.CountDeclarations(pass.Tree, id) > 1 {
			return nil
		}
		if !analysis.IsUsed(pass.Resolver, id) {
			pass.ReportNodef(id, "unused %s '%s'", declarationNoun(pass.Tree.Kind(id)), name)
		}
		return nil
	},
}

// AnalyzerCallArity checks calls to user-defined functions against the
// number of declared parameters.
var AnalyzerCallArity = &Analyzer{
	Name:     "call-arity",
	Doc:      "Check that calls to user-defined functions pass one argument per parameter.\n\nFunctions declared in the file and in imported files are checked. Built-in function arity is not checked.",
	Severity: SeverityError,
	Kinds:    []syntax.Kind{syntax.KindFunctionCall},
	Run: func(pass *Pass, id syntax.NodeID) error {
		res := pass.Resolver.Resolve(id)
		if res.Kind != analysis.Resolved || res.Symbol.Kind != analysis.SymFunction {
			return nil
		}
		want := len(analysis.Params(res.Symbol.Tree, res.Symbol.Node))
		got := astutil.ArgCount(pass.Tree, id)
		if want != got {
			pass.Reportf(pass.Tree.Range(id), "function '%s' expects %d parameter(s), but %d provided", res.Symbol.Name, want, got)
		}
		return nil
	},
}

// AnalyzerImportFile reports imports whose file cannot be located.
var AnalyzerImportFile = &Analyzer{
	Name:     "import-file",
	Doc:      "Report import declarations whose file cannot be found.\n\nImport paths are looked up relative to the importing file and then in the configured search paths.",
	Severity: SeverityError,
	Kinds:    []syntax.Kind{syntax.KindImportDeclaration},
	Run: func(pass *Pass, id syntax.NodeID) error {
		path, lit := astutil.ImportPath(pass.Tree, id)
		if lit == syntax.NoNode {
			return nil
		}
		if _, ok := pass.Resolver.ImportTree(id); !ok {
			pass.Reportf(pass.Tree.Range(lit), "referenced import file not found: %s", path)
		}
		return nil
	},
}

// AnalyzerClassification emits informational hints that classify
// references to parameters, local variables and built-in functions.  Editors
// use them for semantic highlighting; they never indicate a problem.
var AnalyzerClassification = &Analyzer{
	Name:     "classification",
	Doc:      "Classify references to parameters, local variables and built-in functions.\n\nThese informational hints drive semantic highlighting. References to top-level lets are not classified.",
	Severity: SeverityInfo,
	Kinds:    []syntax.Kind{syntax.KindVariableUsage, syntax.KindFunctionName},
	Run: func(pass *Pass, id syntax.NodeID) error {
		t := pass.Tree
		res := pass.Resolver.Resolve(id)
		switch {
		case res.Kind == analysis.Builtin:
			pass.ReportNodef(id, "built-in function")
		case res.Kind != analysis.Resolved || t.Kind(id) != syntax.KindVariableUsage:
		case res.Symbol.Kind == analysis.SymParameter:
			pass.ReportNodef(id, "function parameter")
		case res.Symbol.Kind == analysis.SymVariable && !t.IsTopLevel(t.Parent(res.Symbol.Node)):
			pass.ReportNodef(id, "local variable")
		}
		return nil
	},
}

func declarationNoun(k syntax.Kind) string {
	switch k {
	case syntax.KindLetDecl:
		return "variable"
	case syntax.KindFunctionDecl:
		return "function"
	case syntax.KindParam:
		return "parameter"
	case syntax.KindImportDeclaration:
		return "import alias"
	}
	return k.String()
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerUnknownVariable,
		AnalyzerUndefinedFunction,
		AnalyzerDuplicateDeclaration,
		AnalyzerDuplicateKey,
		AnalyzerUnusedSymbol,
		AnalyzerCallArity,
		AnalyzerImportFile,
		AnalyzerClassification,
	}
}

// AnalyzerNames returns the names of the default analyzers in sorted order.
func AnalyzerNames() []string {
	var names []string
	for _, a := range DefaultAnalyzers() {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns the documentation of the named default analyzer.
func AnalyzerDoc(name string) (string, bool) {
	for _, a := range DefaultAnalyzers() {
		if a.Name == name {
			return a.Doc, true
		}
	}
	return "", false
}

// SelectAnalyzers returns the default analyzers named in names, in default
// order.  An empty names selects every default analyzer.
func SelectAnalyzers(names []string) ([]*Analyzer, error) {
	all := DefaultAnalyzers()
	if len(names) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		want[name] = true
	}
	var selected []*Analyzer
	for _, a := range all {
		if want[a.Name] {
			selected = append(selected, a)
			delete(want, a.Name)
		}
	}
	if len(want) > 0 {
		var unknown []string
		for name := range want {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check(s): %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
