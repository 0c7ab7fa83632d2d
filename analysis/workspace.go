// Copyright © 2024 The ELPS authors

package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/luthersystems/jsltcheck/parser"
	"github.com/luthersystems/jsltcheck/syntax"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// FileExt is the extension of JSLT source files.
const FileExt = ".jslt"

// ErrNoLocation is returned by Loader.Load when an import path yields no
// candidate location.
var ErrNoLocation = errors.New("no candidate location")

// Loader reads and parses imported files through an afs.Service, so imports
// may name local paths or any URL scheme afs supports.  Parsed trees are
// memoised per location until Reset or Invalidate is called.  A Loader is
// safe for concurrent use.
type Loader struct {
	// Paths are searched, in order, after the importing file's directory.
	Paths []string

	// Overlay, when set, supplies content that takes precedence over
	// storage, such as unsaved editor buffers.  Overlay content is parsed on
	// every load and never cached.
	Overlay func(location string) ([]byte, bool)

	fs    afs.Service
	log   *logrus.Entry
	mu    sync.Mutex
	cache map[string]*loadedFile
}

type loadedFile struct {
	tree *syntax.Tree
	err  error
}

// NewLoader returns a Loader searching paths after the importer's directory.
func NewLoader(paths ...string) *Loader {
	return &Loader{
		Paths: paths,
		fs:    afs.New(),
		log:   logrus.WithField("component", "loader"),
		cache: make(map[string]*loadedFile),
	}
}

// For returns a FileResolver for imports written in the file importer.
func (l *Loader) For(ctx context.Context, importer string) FileResolver {
	return FileResolverFunc(func(path string) (*syntax.Tree, bool) {
		tree, _, err := l.Load(ctx, importer, path)
		return tree, err == nil
	})
}

// Load returns the tree of the file imported as path from importer along
// with the location it was read from.  A file that exists but does not parse
// yields a tree with no declarations.
func (l *Loader) Load(ctx context.Context, importer, path string) (*syntax.Tree, string, error) {
	err := fmt.Errorf("%s: %w", path, ErrNoLocation)
	for _, loc := range l.candidates(importer, path) {
		tree, lerr := l.load(ctx, loc)
		if lerr == nil {
			l.log.WithFields(logrus.Fields{"import": path, "location": loc}).Debug("import resolved")
			return tree, loc, nil
		}
		err = lerr
	}
	l.log.WithFields(logrus.Fields{"import": path, "importer": importer}).Debug("import not found")
	return nil, "", err
}

// Invalidate drops the cached tree for location.
func (l *Loader) Invalidate(location string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, location)
}

// Reset drops every cached tree.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*loadedFile)
}

func (l *Loader) load(ctx context.Context, loc string) (*syntax.Tree, error) {
	if l.Overlay != nil {
		if src, ok := l.Overlay(loc); ok {
			return l.parse(loc, src), nil
		}
	}
	l.mu.Lock()
	f, ok := l.cache[loc]
	l.mu.Unlock()
	if ok {
		return f.tree, f.err
	}
	f = &loadedFile{}
	src, err := l.fs.DownloadWithURL(ctx, loc)
	if err != nil {
		f.err = fmt.Errorf("%s: %w", loc, err)
	} else {
		f.tree = l.parse(loc, src)
	}
	l.mu.Lock()
	l.cache[loc] = f
	l.mu.Unlock()
	return f.tree, f.err
}

func (l *Loader) parse(loc string, src []byte) *syntax.Tree {
	tree, err := parser.Parse(loc, src)
	if err != nil {
		l.log.WithError(err).WithField("location", loc).Warn("imported file does not parse")
		return syntax.NewBuilder(loc).Finish()
	}
	return tree
}

func (l *Loader) candidates(importer, path string) []string {
	if path == "" {
		return nil
	}
	if isAbsLocation(path) {
		return []string{path}
	}
	var locs []string
	if i := strings.LastIndex(importer, "/"); i >= 0 {
		locs = append(locs, url.Join(importer[:i], path))
	} else {
		locs = append(locs, path)
	}
	for _, dir := range l.Paths {
		locs = append(locs, url.Join(dir, path))
	}
	return locs
}

func isAbsLocation(path string) bool {
	return strings.HasPrefix(path, "/") || strings.Contains(path, "://")
}

// ScanWorkspace walks a directory tree and returns the JSLT files under it
// in lexical order.  It skips hidden directories and node_modules.
func ScanWorkspace(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == FileExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// shouldSkipDir returns true for directories that should not be walked.
// It skips hidden directories (e.g. .git, .vscode) and node_modules,
// but not "." or ".." which represent the current/parent directory.
func shouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	return name == "node_modules"
}
