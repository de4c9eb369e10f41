// Package lsp serves parse diagnostics over the Language Server Protocol.
// Every open document is parsed with one grammar on open and on each
// change; structural errors and mismatches are published as diagnostics.
package lsp

import (
	"context"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/parsnip/parse"
)

const lsName = "parsnip"

// CheckTimeout bounds the parse of one document version.
var CheckTimeout = 5 * time.Second

var log = commonlog.GetLogger("parsnip.lsp")

type Server struct {
	check   func(ctx context.Context, text string) []protocol.Diagnostic
	handler protocol.Handler
	server  *server.Server
	version string

	mu      sync.Mutex
	pending map[protocol.DocumentUri]*job
	running sync.WaitGroup
}

// job is one running check of a document.
type job struct {
	cancel context.CancelFunc
}

// NewServer returns a server checking documents against p.
func NewServer[T any](p parse.Parser[T], version string) *Server {
	return newServer(func(ctx context.Context, text string) []protocol.Diagnostic {
		return Diagnose(ctx, p, text)
	}, version)
}

func newServer(check func(ctx context.Context, text string) []protocol.Diagnostic, version string) *Server {
	s := &Server{
		check:   check,
		version: version,
		pending: make(map[protocol.DocumentUri]*job),
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	for uri, j := range s.pending {
		j.cancel()
		delete(s.pending, uri)
	}
	s.mu.Unlock()
	s.running.Wait()
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.publish(ctx.Notify, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.publish(ctx.Notify, params.TextDocument.URI, whole.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.pending[params.TextDocument.URI]; ok {
		j.cancel()
		delete(s.pending, params.TextDocument.URI)
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.publish(ctx.Notify, params.TextDocument.URI, *params.Text)
	}
	return nil
}

// publish starts a check of text and sends the diagnostics for uri when it
// finishes. Handlers run one at a time, so the check runs in its own
// goroutine; a check still running for an older version of the same
// document is cancelled and its result dropped.
func (s *Server) publish(notify glsp.NotifyFunc, uri protocol.DocumentUri, text string) {
	checkCtx, cancel := context.WithTimeout(context.Background(), CheckTimeout)
	j := &job{cancel: cancel}

	s.mu.Lock()
	if previous, ok := s.pending[uri]; ok {
		previous.cancel()
	}
	s.pending[uri] = j
	s.mu.Unlock()

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		defer cancel()
		diagnostics := s.check(checkCtx, text)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.pending[uri] != j {
			log.Debugf("%s: check superseded", uri)
			return
		}
		delete(s.pending, uri)
		log.Debugf("%s: %d diagnostics", uri, len(diagnostics))
		notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: diagnostics,
		})
	}()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
