// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line functions, lets, objects, arrays
// and conditionals, and for blocks of consecutive comment lines.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	tree, _ := doc.snapshot()
	if tree == nil {
		return nil, nil
	}

	var ranges []protocol.FoldingRange
	astutil.Walk(tree, tree.Root, func(id syntax.NodeID, _ int) {
		if !isFoldable(tree.Kind(id)) {
			return
		}
		rng := tree.Range(id)
		if rng.End.Line > rng.Start.Line {
			ranges = append(ranges, foldingRange(rng.Start.Line, rng.End.Line, protocol.FoldingRangeKindRegion))
		}
	})
	ranges = append(ranges, commentFoldingRanges(tree.Comments)...)
	return ranges, nil
}

func isFoldable(k syntax.Kind) bool {
	switch k {
	case syntax.KindFunctionDecl, syntax.KindLetAssignment, syntax.KindPairGroup,
		syntax.KindArray, syntax.KindIf, syntax.KindFor, syntax.KindFunctionCall:
		return true
	}
	return false
}

// commentFoldingRanges produces a folding range for each block of two or
// more comments on consecutive lines.
func commentFoldingRanges(comments []syntax.Comment) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	for i := 0; i < len(comments); {
		j := i
		for j+1 < len(comments) && comments[j+1].Range.Start.Line == comments[j].Range.Start.Line+1 {
			j++
		}
		if j > i {
			ranges = append(ranges, foldingRange(comments[i].Range.Start.Line, comments[j].Range.Start.Line, protocol.FoldingRangeKindComment))
		}
		i = j + 1
	}
	return ranges
}

// foldingRange builds a range from 1-based start and end lines.
func foldingRange(start, end int, kind protocol.FoldingRangeKind) protocol.FoldingRange {
	k := string(kind)
	return protocol.FoldingRange{
		StartLine: safeUint(start - 1),
		EndLine:   safeUint(end - 1),
		Kind:      &k,
	}
}
