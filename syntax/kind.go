// Copyright © 2024 The ELPS authors

package syntax

// Kind tags a syntax tree node.  The set of kinds is closed; analyzers
// dispatch on it with exhaustive switches.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Binding and reference structure
	KindFile
	KindImportAliasGroup
	KindImportDeclaration
	KindLetAssignment
	KindLetDecl
	KindFunctionDecl
	KindParam
	KindFunctionCall
	KindFunctionName
	KindVariableUsage
	KindPairGroup
	KindPair

	// Plain expressions
	KindLiteral
	KindArray
	KindAccessor
	KindOperator
	KindIf
	KindElse
	KindFor
	KindObjectMatcher
	KindParen

	numKinds
)

// NumKinds is the number of distinct node kinds, including KindInvalid.  It
// is useful for sizing dispatch tables indexed by Kind.
const NumKinds = int(numKinds)

var kindStrings = [numKinds]string{
	KindInvalid:           "invalid",
	KindFile:              "file",
	KindImportAliasGroup:  "import-alias-group",
	KindImportDeclaration: "import-declaration",
	KindLetAssignment:     "let-assignment",
	KindLetDecl:           "let-decl",
	KindFunctionDecl:      "function-decl",
	KindParam:             "param",
	KindFunctionCall:      "function-call",
	KindFunctionName:      "function-name",
	KindVariableUsage:     "variable-usage",
	KindPairGroup:         "pair-group",
	KindPair:              "pair",
	KindLiteral:           "literal",
	KindArray:             "array",
	KindAccessor:          "accessor",
	KindOperator:          "operator",
	KindIf:                "if",
	KindElse:              "else",
	KindFor:               "for",
	KindObjectMatcher:     "object-matcher",
	KindParen:             "paren",
}

func (k Kind) String() string {
	if k >= numKinds {
		return kindStrings[KindInvalid]
	}
	return kindStrings[k]
}

// IsDeclaration reports whether nodes of kind k introduce a name.
func (k Kind) IsDeclaration() bool {
	switch k {
	case KindLetDecl, KindParam, KindFunctionDecl, KindImportDeclaration:
		return true
	}
	return false
}

// IsUsage reports whether nodes of kind k reference a name.
func (k Kind) IsUsage() bool {
	return k == KindVariableUsage || k == KindFunctionName
}
