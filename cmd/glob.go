// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/luthersystems/jsltcheck/analysis"
)

// excludeSet matches paths against --exclude patterns.  A pattern matches
// when it matches the whole slash-separated path, the base name, or any
// single directory component.
type excludeSet []glob.Glob

func compileExcludes(patterns []string) (excludeSet, error) {
	var set excludeSet
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		set = append(set, g)
	}
	return set, nil
}

func (s excludeSet) matches(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, g := range s {
		if g.Match(slashed) {
			return true
		}
		for _, part := range splitPath(slashed) {
			if g.Match(part) {
				return true
			}
		}
	}
	return false
}

func (s excludeSet) filter(paths []string) []string {
	if len(s) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !s.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// splitPath returns the components of a slash-separated path without empty
// and "." elements.
func splitPath(path string) []string {
	var parts []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .jslt files found recursively under the given directory, minus excluded
// paths.  Non-pattern arguments pass through unchanged.
func expandArgs(args []string, excludes excludeSet) ([]string, error) {
	var out []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, "/...")
		if !ok && arg == "..." {
			dir, ok = "", true
		}
		if !ok {
			out = append(out, arg)
			continue
		}
		if dir == "" {
			dir = "."
		}
		files, err := analysis.ScanWorkspace(dir)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		out = append(out, excludes.filter(files)...)
	}
	return out, nil
}

// watchRoots returns the directories to watch for the given arguments.
func watchRoots(args []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, "/...")
		if !ok {
			dir = filepath.Dir(arg)
		}
		if dir == "" || arg == "..." {
			dir = "."
		}
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	return roots
}
