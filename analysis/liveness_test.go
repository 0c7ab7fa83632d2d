// Copyright © 2024 The ELPS authors

package analysis

import (
	"testing"

	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/stretchr/testify/assert"
)

func TestIsUsed(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   syntax.Kind
		decl   string
		index  int
		used   bool
	}{
		{"used let", `let x = 1 let y = 2 $x`, syntax.KindLetDecl, "x", 0, true},
		{"unused let", `let x = 1 let y = 2 $x`, syntax.KindLetDecl, "y", 0, false},
		{"let used by sibling", `let x = 1 let y = $x $y`, syntax.KindLetDecl, "x", 0, true},
		{"used param", `def f(a, b) $a f(1, 2)`, syntax.KindParam, "a", 0, true},
		{"unused param", `def f(a, b) $a f(1, 2)`, syntax.KindParam, "b", 0, false},
		{"param used by body let", `def f(a) let b = $a $b f(1)`, syntax.KindParam, "a", 0, true},
		{"called function", `def f(a, b) $a f(1, 2)`, syntax.KindFunctionDecl, "f", 0, true},
		{"uncalled function", `def f() 1 2`, syntax.KindFunctionDecl, "f", 0, false},
		{"function called by function", `def f() 1 def g() f() g()`, syntax.KindFunctionDecl, "f", 0, true},
		{"shadowed top-level let", `let x = 1 def f(x) $x f(1)`, syntax.KindLetDecl, "x", 0, false},
		{"shadowed object let", `let x = 1 {let x = 2 "a": $x}`, syntax.KindLetDecl, "x", 0, false},
		{"inner object let", `let x = 1 {let x = 2 "a": $x}`, syntax.KindLetDecl, "x", 1, true},
		{"unused local let", `{let z = 2 "a": 1}`, syntax.KindLetDecl, "z", 0, false},
		{"unused import", `import "lib.jslt" as lib 1`, syntax.KindImportDeclaration, "lib", 0, false},
		{"import used by undefined function", `import "lib.jslt" as lib lib:nothing()`, syntax.KindImportDeclaration, "lib", 0, true},
		{"import used by resolved function", `import "lib.jslt" as lib lib:helper(1)`, syntax.KindImportDeclaration, "lib", 0, true},
		{"same name in other alias", `import "lib.jslt" as lib other:lib()`, syntax.KindImportDeclaration, "lib", 0, false},
		{"function name is not a variable", `let f = 1 def f() 1 f()`, syntax.KindLetDecl, "f", 0, false},
		{"else does not see then lets", `if (.a) let y = 1 2 else $y`, syntax.KindLetDecl, "y", 0, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tree := mustParse(t, test.source)
			r := NewResolver(tree, &Config{Builtins: DefaultBuiltins(), Files: libFiles(t)})
			decl := node(t, tree, test.kind, test.decl, test.index)
			assert.Equal(t, test.used, IsUsed(r, decl))
		})
	}
}

func TestIsUsed_AddingUsageClearsWarning(t *testing.T) {
	tree := mustParse(t, `def f(a, b) $a f(1, 2)`)
	assert.False(t, IsUsed(NewResolver(tree, nil), node(t, tree, syntax.KindParam, "b", 0)))

	tree = mustParse(t, `def f(a, b) $a + [$b][0] f(1, 2)`)
	assert.True(t, IsUsed(NewResolver(tree, nil), node(t, tree, syntax.KindParam, "b", 0)))
}

func TestIsUsed_Unnamed(t *testing.T) {
	b := syntax.NewBuilder("x.jslt")
	assign := b.Add(b.Root(), syntax.Node{Kind: syntax.KindLetAssignment})
	decl := b.Add(assign, syntax.Node{Kind: syntax.KindLetDecl})
	tree := b.Finish()
	assert.True(t, IsUsed(NewResolver(tree, nil), decl))
	assert.True(t, IsUsed(NewResolver(tree, nil), tree.Root))
}

func TestVisibilityRoot(t *testing.T) {
	tree := mustParse(t, `
import "lib.jslt" as lib
let x = 1
def f(a) let b = 1 {let c = 2 "k": $a + $b + $c}
f($x)`)
	fn := node(t, tree, syntax.KindFunctionDecl, "f", 0)
	assert.Equal(t, tree.Root, VisibilityRoot(tree, node(t, tree, syntax.KindImportDeclaration, "lib", 0)))
	assert.Equal(t, tree.Root, VisibilityRoot(tree, node(t, tree, syntax.KindLetDecl, "x", 0)))
	assert.Equal(t, tree.Root, VisibilityRoot(tree, fn))
	assert.Equal(t, fn, VisibilityRoot(tree, node(t, tree, syntax.KindParam, "a", 0)))
	assert.Equal(t, fn, VisibilityRoot(tree, node(t, tree, syntax.KindLetDecl, "b", 0)))
	c := VisibilityRoot(tree, node(t, tree, syntax.KindLetDecl, "c", 0))
	assert.Equal(t, syntax.KindPairGroup, tree.Kind(c))
	assert.Equal(t, syntax.NoNode, VisibilityRoot(tree, tree.Root))
}
