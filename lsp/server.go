// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server for JSLT.
// It publishes analyzer diagnostics for open documents and provides
// go-to-definition, references, hover, rename, document and workspace
// symbols, folding ranges and semantic tokens.
package lsp

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/lint"
	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "jsltcheck-lsp"

// Server is the JSLT language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	// Imported files are read through the loader; open documents shadow
	// their file on disk.
	loader   *analysis.Loader
	builtins analysis.BuiltinSet
	hints    bool

	// Linter instance shared across diagnostics runs.
	linter *lint.Linter

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	log *logrus.Entry

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithSearchPaths sets the directories searched for imports after the
// importing file's directory.
func WithSearchPaths(paths ...string) Option {
	return func(s *Server) { s.loader.Paths = append(s.loader.Paths, paths...) }
}

// WithBuiltins replaces the set of built-in function names.
func WithBuiltins(builtins analysis.BuiltinSet) Option {
	return func(s *Server) { s.builtins = builtins }
}

// WithHints enables publishing of informational classification hints.
func WithHints(enabled bool) Option {
	return func(s *Server) { s.hints = enabled }
}

// WithAnalyzers replaces the default analyzers.
func WithAnalyzers(analyzers []*lint.Analyzer) Option {
	return func(s *Server) { s.linter = &lint.Linter{Analyzers: analyzers} }
}

// New creates a new JSLT LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:     NewDocumentStore(),
		loader:   analysis.NewLoader(),
		builtins: analysis.DefaultBuiltins(),
		linter:   &lint.Linter{Analyzers: lint.DefaultAnalyzers()},
		debounce: make(map[string]*time.Timer),
		log:      logrus.WithField("component", "lsp"),
		exitFn:   os.Exit,
	}
	s.loader.Overlay = s.overlay
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentRename:         s.textDocumentRename,
		TextDocumentPrepareRename:  s.textDocumentPrepareRename,
		TextDocumentFoldingRange:   s.textDocumentFoldingRange,

		TextDocumentSemanticTokensFull: s.textDocumentSemanticTokensFull,

		WorkspaceSymbol: s.workspaceSymbol,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	s.log.WithField("root", s.rootPath).Debug("initialize")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}

	// Enable prepare rename.
	capabilities.RenameProvider = &protocol.RenameOptions{
		PrepareProvider: boolPtr(true),
	}

	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: semanticTokenLegend(),
		Full:   true,
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// overlay supplies open document content to the import loader.
func (s *Server) overlay(location string) ([]byte, bool) {
	doc := s.docs.Get(pathToURI(location))
	if doc == nil {
		return nil, false
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return []byte(doc.Content), true
}

// analysisConfig returns the analysis configuration for a document.
func (s *Server) analysisConfig(uri string) *analysis.Config {
	path := uriToPath(uri)
	return &analysis.Config{
		Builtins: s.builtins,
		Files:    s.loader.For(context.Background(), path),
		Filename: path,
	}
}

// resolver returns a resolver for the document's current tree, or nil when
// the document does not parse.
func (s *Server) resolver(doc *Document) *analysis.Resolver {
	doc.mu.Lock()
	tree := doc.tree
	doc.mu.Unlock()
	if tree == nil {
		return nil
	}
	return analysis.NewResolver(tree, s.analysisConfig(doc.URI))
}

// reanalyzeOpenDocuments re-publishes diagnostics for every open document.
// Documents import each other, so an edit to one can change the
// diagnostics of the rest.
func (s *Server) reanalyzeOpenDocuments() {
	for _, doc := range s.docs.All() {
		s.analyzeAndPublish(doc)
	}
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
