// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"

	"github.com/luthersystems/jsltcheck/astutil"
	"github.com/luthersystems/jsltcheck/syntax"
)

// dispatch maps each node kind to the passes subscribed to it, in analyzer
// order.
type dispatch [syntax.NumKinds][]*Pass

func newDispatch(passes []*Pass) *dispatch {
	var d dispatch
	for _, pass := range passes {
		seen := make(map[syntax.Kind]bool, len(pass.Analyzer.Kinds))
		for _, k := range pass.Analyzer.Kinds {
			if int(k) >= syntax.NumKinds || seen[k] {
				continue
			}
			seen[k] = true
			d[k] = append(d[k], pass)
		}
	}
	return &d
}

// visit walks tree once in document order and runs every subscribed
// analyzer on each node.  The first analyzer error stops the walk.
func visit(tree *syntax.Tree, passes []*Pass) error {
	d := newDispatch(passes)
	var err error
	astutil.Search(tree, tree.Root, func(id syntax.NodeID) bool {
		for _, pass := range d[tree.Kind(id)] {
			if rerr := pass.Analyzer.Run(pass, id); rerr != nil {
				err = fmt.Errorf("analyzer %s: %w", pass.Analyzer.Name, rerr)
				return true
			}
		}
		return false
	})
	return err
}
