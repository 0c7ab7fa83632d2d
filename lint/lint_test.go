// Copyright © 2024 The ELPS authors

package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/parser"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const libSource = `
def helper(a) $a
def pair(a, b) [$a, $b]
`

func testConfig(t *testing.T) *analysis.Config {
	t.Helper()
	lib, err := parser.Parse("lib.jslt", []byte(libSource))
	require.NoError(t, err)
	return &analysis.Config{
		Builtins: analysis.DefaultBuiltins(),
		Files:    analysis.MapFiles{"lib.jslt": lib},
		Filename: "test.jslt",
	}
}

// lintSource runs all default analyzers except classification hints on the
// given source and returns diagnostics.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte(source), "test.jslt", testConfig(t))
	require.NoError(t, err)
	return FilterSeverity(diags, SeverityWarning)
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}}
	diags, err := l.LintFile([]byte(source), "test.jslt", testConfig(t))
	require.NoError(t, err)
	return diags
}

func messages(diags []Diagnostic) []string {
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

// assertHasDiag checks that at least one diagnostic contains the given substring.
func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, messages(diags))
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		t.Errorf("expected no diagnostics, got %d: %v", len(diags), msgs)
	}
}

// assertDiagOnLine checks that a diagnostic exists on the given line with the given substring.
func assertDiagOnLine(t *testing.T, diags []Diagnostic, line int, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Pos.Line == line && strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", d.Pos.Line, d.Message))
	}
	t.Errorf("expected diagnostic on line %d containing %q, got: %v", line, substr, msgs)
}

// --- Position.String() ---

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "test.jslt", Position{File: "test.jslt"}.String())
	assert.Equal(t, "test.jslt:10", Position{File: "test.jslt", Line: 10}.String())
	assert.Equal(t, "test.jslt:10:5", Position{File: "test.jslt", Line: 10, Col: 5}.String())
}

// --- Diagnostic.String() ---

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Pos:      Position{File: "test.jslt", Line: 10},
		Message:  "unused variable 'x'",
		Analyzer: "unused-symbol",
		Notes:    []string{"remove it"},
	}
	assert.Equal(t, "test.jslt:10: unused variable 'x' (unused-symbol)\n  = note: remove it", d.String())
}

// --- Framework ---

func TestLintFile_AnalyzerError(t *testing.T) {
	errAnalyzer := &Analyzer{
		Name:  "fail",
		Doc:   "Always fails.",
		Kinds: []syntax.Kind{syntax.KindLiteral},
		Run: func(pass *Pass, id syntax.NodeID) error {
			return fmt.Errorf("intentional failure")
		},
	}
	l := &Linter{Analyzers: []*Analyzer{errAnalyzer}}
	_, err := l.LintFile([]byte("1 + 2"), "test.jslt", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intentional failure")
	assert.Contains(t, err.Error(), "analyzer fail")
	assert.Contains(t, err.Error(), "test.jslt")
}

func TestLintFile_SyntaxError(t *testing.T) {
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte("let x = "), "bad.jslt", nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, SyntaxAnalyzer, diags[0].Analyzer)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "bad.jslt", diags[0].Pos.File)
	assert.Equal(t, 1, diags[0].Pos.Line)
	assert.Equal(t, 9, diags[0].Pos.Col)
}

func TestLintTree_VisitsEachNodeOnce(t *testing.T) {
	tree, err := parser.Parse("test.jslt", []byte(`let x = 1 def f(a) $a {"k": f($x)}`))
	require.NoError(t, err)
	seen := make(map[syntax.NodeID]int)
	var order []syntax.NodeID
	counter := &Analyzer{
		Name:  "counter",
		Kinds: []syntax.Kind{syntax.KindLetDecl, syntax.KindParam, syntax.KindVariableUsage, syntax.KindLetDecl},
		Run: func(pass *Pass, id syntax.NodeID) error {
			seen[id]++
			order = append(order, id)
			return nil
		},
	}
	l := &Linter{Analyzers: []*Analyzer{counter}}
	_, err = l.LintTree(tree, nil)
	require.NoError(t, err)
	assert.Len(t, seen, 4)
	for id, n := range seen {
		assert.Equal(t, 1, n, "node %s", tree.String(id))
	}
	for i := 1; i < len(order); i++ {
		assert.Less(t, tree.Range(order[i-1]).Start.Offset, tree.Range(order[i]).Start.Offset)
	}
}

func TestLintTree_OrderStable(t *testing.T) {
	source := `let y = $nope let y = 2 {"k": 1, "k": 2}`
	first := lintSource(t, source)
	second := lintSource(t, source)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(t, first[i-1].Pos.Offset, first[i].Pos.Offset)
	}
}

func TestLintTree_DefaultConfig(t *testing.T) {
	tree, err := parser.Parse("tree.jslt", []byte(`size($x)`))
	require.NoError(t, err)
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintTree(tree, nil)
	require.NoError(t, err)
	diags = FilterSeverity(diags, SeverityWarning)
	require.Len(t, diags, 1)
	assert.Equal(t, "unknown variable 'x'", diags[0].Message)
	assert.Equal(t, "tree.jslt", diags[0].Pos.File)
}

// --- Scenarios ---

func TestScenario_UnusedLet(t *testing.T) {
	diags := lintSource(t, "let x = 1\nlet y = 2\n$x")
	require.Len(t, diags, 1)
	assert.Equal(t, "unused variable 'y'", diags[0].Message)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, Position{File: "test.jslt", Line: 2, Col: 5, Offset: 14}, diags[0].Pos)
	assert.Equal(t, 6, diags[0].EndPos.Col)
}

func TestScenario_CallArity(t *testing.T) {
	diags := lintSource(t, "def f(a, b) $a\nf(1)")
	require.Len(t, diags, 2)
	assert.Equal(t, "unused parameter 'b'", diags[0].Message)
	assert.Equal(t, "function 'f' expects 2 parameter(s), but 1 provided", diags[1].Message)
	assert.Equal(t, SeverityError, diags[1].Severity)
	assert.Equal(t, 2, diags[1].Pos.Line)
	assert.Equal(t, 1, diags[1].Pos.Col)
	assert.Equal(t, 5, diags[1].EndPos.Col)
}

func TestScenario_DuplicateKey(t *testing.T) {
	diags := lintSource(t, `{"k": 1, "k": 2}`)
	require.Len(t, diags, 1)
	assert.Equal(t, `duplicate key "k"`, diags[0].Message)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, 10, diags[0].Pos.Col)
	assert.Equal(t, 13, diags[0].EndPos.Col)
}

func TestScenario_Builtin(t *testing.T) {
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte(`size(.x)`), "test.jslt", testConfig(t))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "built-in function", diags[0].Message)
	assert.Equal(t, SeverityInfo, diags[0].Severity)
	assert.Equal(t, "classification", diags[0].Analyzer)
}

func TestScenario_ImportAlias(t *testing.T) {
	diags := lintSource(t, `import "lib.jslt" as lib
1`)
	require.Len(t, diags, 1)
	assert.Equal(t, "unused import alias 'lib'", diags[0].Message)
	assert.Equal(t, 22, diags[0].Pos.Col)

	diags = lintSource(t, `import "lib.jslt" as lib
lib:nothing()`)
	require.Len(t, diags, 1)
	assert.Equal(t, "function 'nothing' not found in imported file 'lib.jslt'", diags[0].Message)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "undefined-function", diags[0].Analyzer)
}

// --- unknown-variable ---

func TestUnknownVariable(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnknownVariable, "let a = 1\n{\"x\": $a, \"y\": $b}")
	require.Len(t, diags, 1)
	assert.Equal(t, "unknown variable 'b'", diags[0].Message)
	assertDiagOnLine(t, diags, 2, "'b'")

	assertNoDiags(t, lintCheck(t, AnalyzerUnknownVariable, `def f(a) let b = $a $b f(1)`))
	assertNoDiags(t, lintCheck(t, AnalyzerUnknownVariable, `[for (.xs) let v = . $v]`))
}

func TestUnknownVariable_LetChainBoundary(t *testing.T) {
	tests := []struct {
		name   string
		source string
		col    int
	}{
		{"for iterable", `[for ($x) let x = . $x]`, 7},
		{"object for iterable", `{for ($x) let x = .a "k": $x}`, 7},
		{"if condition", `if ($x) let x = 1 $x else 2`, 5},
		{"else branch", `if (true) let x = 1 $x else $x`, 29},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			diags := lintCheck(t, AnalyzerUnknownVariable, test.source)
			require.Len(t, diags, 1)
			assert.Equal(t, "unknown variable 'x'", diags[0].Message)
			assert.Equal(t, 1, diags[0].Pos.Line)
			assert.Equal(t, test.col, diags[0].Pos.Col)
		})
	}

	assertNoDiags(t, lintCheck(t, AnalyzerUnknownVariable, `[for (.xs) let v = . 1 if ($v)]`))
}

func TestLetChainBoundary_AllChecks(t *testing.T) {
	diags := lintSource(t, `[for ($x) let x = . 1]`)
	assert.Equal(t, []string{"unknown variable 'x'", "unused variable 'x'"}, messages(diags))

	hints := lintCheck(t, AnalyzerClassification, `if ($a) let a = 1 $a else 2`)
	require.Len(t, hints, 1)
	assert.Equal(t, 19, hints[0].Pos.Col)
	assert.Equal(t, "local variable", hints[0].Message)
}

func TestUnknownVariable_ContinuesAfterFailure(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnknownVariable, `[$a, $b, $c]`)
	assert.Equal(t, []string{"unknown variable 'a'", "unknown variable 'b'", "unknown variable 'c'"}, messages(diags))
}

// --- undefined-function ---

func TestUndefinedFunction(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		messages []string
		severity Severity
	}{
		{"declared", `def f() 1 f()`, nil, 0},
		{"builtin", `contains(1, [1])`, nil, 0},
		{"undefined", `nope()`, []string{"undefined function 'nope'"}, SeverityWarning},
		{"undefined alias", `oops:helper()`, []string{"undefined import alias 'oops'"}, SeverityError},
		{"resolved import", `import "lib.jslt" as lib lib:helper(1)`, nil, 0},
		{"not in import", `import "lib.jslt" as lib lib:gone()`, []string{"function 'gone' not found in imported file 'lib.jslt'"}, SeverityError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			diags := lintCheck(t, AnalyzerUndefinedFunction, test.source)
			assert.Equal(t, test.messages, messages(diags))
			for _, d := range diags {
				assert.Equal(t, test.severity, d.Severity)
			}
		})
	}
}

func TestUndefinedFunction_NotInImportNoUnknownWarning(t *testing.T) {
	diags := lintSource(t, `import "lib.jslt" as lib lib:gone()`)
	require.Len(t, diags, 1)
	assert.NotContains(t, diags[0].Message, "undefined function")
}

// --- duplicate-declaration ---

func TestDuplicateDeclaration(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		messages []string
	}{
		{"let chain", `let x = 1 let x = 2 let x = 3 $x`, []string{
			"duplicate variable declaration 'x'",
			"duplicate variable declaration 'x'",
			"duplicate variable declaration 'x'",
		}},
		{"params", `def f(a, a) $a f(1, 2)`, []string{
			"duplicate parameter declaration 'a'",
			"duplicate parameter declaration 'a'",
		}},
		{"functions", `def f() 1 def f() 2 f()`, []string{
			"duplicate function declaration 'f'",
			"duplicate function declaration 'f'",
		}},
		{"imports", `import "lib.jslt" as lib import "lib.jslt" as lib lib:helper(1)`, []string{
			"duplicate import alias 'lib'",
			"duplicate import alias 'lib'",
		}},
		{"separate chains", `let x = 1 {let x = 2 "a": $x}`, nil},
		{"param and body let", `def f(a) let a = 1 $a f(1)`, nil},
		{"object lets", `{let k = 1 let k = 2 "a": $k}`, []string{
			"duplicate variable declaration 'k'",
			"duplicate variable declaration 'k'",
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			diags := lintCheck(t, AnalyzerDuplicateDeclaration, test.source)
			assert.Equal(t, test.messages, messages(diags))
			for _, d := range diags {
				assert.Equal(t, SeverityError, d.Severity)
			}
		})
	}
}

func TestDuplicateDeclaration_NotAlsoUnused(t *testing.T) {
	diags := lintSource(t, `let x = 1 let x = 2 1`)
	assert.Equal(t, []string{
		"duplicate variable declaration 'x'",
		"duplicate variable declaration 'x'",
	}, messages(diags))
}

// --- duplicate-key ---

func TestDuplicateKey(t *testing.T) {
	diags := lintCheck(t, AnalyzerDuplicateKey, `{"a": 1, "b": 2, "a": 3, "a": 4}`)
	assert.Equal(t, []string{`duplicate key "a"`, `duplicate key "a"`}, messages(diags))
	assert.Equal(t, 18, diags[0].Pos.Col)

	assertNoDiags(t, lintCheck(t, AnalyzerDuplicateKey, `{"a": 1, "b": {"a": 2}}`))
	assertNoDiags(t, lintCheck(t, AnalyzerDuplicateKey, `[{"a": 1}, {"a": 2}]`))
	assertNoDiags(t, lintCheck(t, AnalyzerDuplicateKey, `{"a": 1, .a: 2}`))
	assertNoDiags(t, lintCheck(t, AnalyzerDuplicateKey, `{for (.xs) .k : .v}`))
}

// --- unused-symbol ---

func TestUnusedSymbol(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		messages []string
	}{
		{"all used", `let x = 1 def f(a) $a f($x)`, nil},
		{"unused function", `def f() 1 2`, []string{"unused function 'f'"}},
		{"unused param", `def f(a, b) $b f(1, 2)`, []string{"unused parameter 'a'"}},
		{"unused local", `{let z = 1 "a": 2}`, []string{"unused variable 'z'"}},
		{"shadowed", `let x = 1 def f(x) $x f(2)`, []string{"unused variable 'x'"}},
		{"unused import", `import "lib.jslt" as lib 1`, []string{"unused import alias 'lib'"}},
		{"import used by failing call", `import "lib.jslt" as lib lib:gone()`, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			diags := lintCheck(t, AnalyzerUnusedSymbol, test.source)
			assert.Equal(t, test.messages, messages(diags))
			for _, d := range diags {
				assert.Equal(t, SeverityWarning, d.Severity)
			}
		})
	}
}

func TestUnusedSymbol_DisappearsWhenUsed(t *testing.T) {
	assert.Len(t, lintCheck(t, AnalyzerUnusedSymbol, `let x = 1 let y = 2 $x`), 1)
	assertNoDiags(t, lintCheck(t, AnalyzerUnusedSymbol, `let x = 1 let y = 2 $x + {"k": $y}.k`))
}

// --- call-arity ---

func TestCallArity(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		messages []string
	}{
		{"match", `def f(a, b) [$a, $b] f(1, 2)`, nil},
		{"too few", `def f(a, b) [$a, $b] f(1)`, []string{"function 'f' expects 2 parameter(s), but 1 provided"}},
		{"too many", `def f() 1 f(1, 2)`, []string{"function 'f' expects 0 parameter(s), but 2 provided"}},
		{"builtin unchecked", `size(1, 2, 3)`, nil},
		{"imported", `import "lib.jslt" as lib lib:pair(1)`, []string{"function 'pair' expects 2 parameter(s), but 1 provided"}},
		{"unresolved unchecked", `nope(1)`, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.messages, messages(lintCheck(t, AnalyzerCallArity, test.source)))
		})
	}
}

// --- import-file ---

func TestImportFile(t *testing.T) {
	diags := lintCheck(t, AnalyzerImportFile, "import \"lib.jslt\" as lib\nimport \"gone.jslt\" as gone\n1")
	require.Len(t, diags, 1)
	assert.Equal(t, "referenced import file not found: gone.jslt", diags[0].Message)
	assert.Equal(t, Position{File: "test.jslt", Line: 2, Col: 8, Offset: 32}, diags[0].Pos)
	assert.Equal(t, 19, diags[0].EndPos.Col)
}

func TestImportFile_AllChecks(t *testing.T) {
	diags := lintSource(t, `import "gone.jslt" as gone 1`)
	assert.Equal(t, []string{
		"referenced import file not found: gone.jslt",
		"unused import alias 'gone'",
	}, messages(diags))
}

// --- classification ---

func TestClassification(t *testing.T) {
	diags := lintCheck(t, AnalyzerClassification, `let top = 1
def f(p) let loc = $p {"r": [$loc, $top, size($p)]}
f(1)`)
	assert.Equal(t, []string{
		"function parameter",
		"local variable",
		"built-in function",
		"function parameter",
	}, messages(diags))
	for _, d := range diags {
		assert.Equal(t, SeverityInfo, d.Severity)
	}
}

// --- suppression ---

func TestNolint(t *testing.T) {
	source := "let x = 1 // nolint\nlet y = 2 // nolint:duplicate-key\nlet z = 3 // nolint:unused-symbol,call-arity\n1"
	diags := lintSource(t, source)
	require.Len(t, diags, 1)
	assert.Equal(t, "unused variable 'y'", diags[0].Message)
}

// --- selection ---

func TestSelectAnalyzers(t *testing.T) {
	all, err := SelectAnalyzers(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultAnalyzers()))

	sel, err := SelectAnalyzers([]string{"unused-symbol", " call-arity "})
	require.NoError(t, err)
	require.Len(t, sel, 2)
	assert.Equal(t, "unused-symbol", sel[0].Name)
	assert.Equal(t, "call-arity", sel[1].Name)

	_, err = SelectAnalyzers([]string{"bogus", "call-arity", "zzz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus, zzz")
}

func TestAnalyzerNames(t *testing.T) {
	names := AnalyzerNames()
	assert.Contains(t, names, "unknown-variable")
	assert.Contains(t, names, "classification")
	assert.IsIncreasing(t, names)
	for _, a := range DefaultAnalyzers() {
		doc, ok := AnalyzerDoc(a.Name)
		assert.True(t, ok)
		assert.NotEmpty(t, doc)
		assert.NotEmpty(t, a.Kinds, a.Name)
		assert.NotZero(t, a.Severity, a.Name)
	}
	_, ok := AnalyzerDoc("bogus")
	assert.False(t, ok)
}

// --- output ---

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	FormatText(&buf, lintSource(t, "let y = 2\n1"))
	assert.Equal(t, "test.jslt:1:5: unused variable 'y' (unused-symbol)\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, lintSource(t, "let y = 2\n1")))
	var decoded []Diagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, SeverityWarning, decoded[0].Severity)
	assert.Equal(t, "unused-symbol", decoded[0].Analyzer)
	assert.Contains(t, buf.String(), `"severity": "warning"`)

	buf.Reset()
	require.NoError(t, FormatJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatYAML(&buf, lintSource(t, "let y = 2\n1")))
	assert.Contains(t, buf.String(), "severity: warning")
	assert.Contains(t, buf.String(), "analyzer: unused-symbol")

	var decoded []Diagnostic
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, SeverityWarning, decoded[0].Severity)
	assert.Equal(t, 1, decoded[0].Pos.Line)
}

func TestSeverity_Unmarshal(t *testing.T) {
	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"info"`), &s))
	assert.Equal(t, SeverityInfo, s)
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
	assert.Error(t, yaml.Unmarshal([]byte(`fatal`), &s))
	b, err := json.Marshal(severityUnset)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))
}

func TestFilterSeverity(t *testing.T) {
	diags := []Diagnostic{
		{Message: "e", Severity: SeverityError},
		{Message: "w", Severity: SeverityWarning},
		{Message: "i", Severity: SeverityInfo},
	}
	assert.Equal(t, []string{"e"}, messages(FilterSeverity(diags, SeverityError)))
	assert.Equal(t, []string{"e", "w"}, messages(FilterSeverity(diags, SeverityWarning)))
	assert.Len(t, FilterSeverity(diags, SeverityInfo), 3)
}
