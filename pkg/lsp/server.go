package lsp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/walteh/identicolor/pkg/config"
	"github.com/walteh/identicolor/pkg/document"
	"github.com/walteh/identicolor/pkg/highlight"
	"github.com/walteh/identicolor/pkg/lsp/protocol"
	"gitlab.com/tozd/go/errors"
)

// Server is the identicolor sidecar: it tracks document content through
// standard text document sync and answers identicolor/highlights requests
// with the identifier grouping for a client-supplied token stream.
type Server struct {
	// Document management
	documents *document.Manager

	// Classification configuration
	cfg *config.Config

	// Server state
	initialized bool
	shutdown    bool

	// Server identification
	id    string
	debug bool
}

type ServerOption func(*Server)

// WithDebug mirrors server logs to the client as window/logMessage
// notifications, on top of whatever local log stream is configured.
func WithDebug(debug bool) ServerOption {
	return func(s *Server) {
		s.debug = debug
	}
}

func NewServer(ctx context.Context, cfg *config.Config, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		id:        xid.New().String(),
		documents: document.NewManager(nil),
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Documents exposes the document store, mainly for tests.
func (s *Server) Documents() *document.Manager {
	return s.documents
}

// Serve runs the JSON-RPC loop over the given stream (normally stdio) until
// the client disconnects.
func (s *Server) Serve(ctx context.Context, stream io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(stream, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(s.handle),
	)

	zerolog.Ctx(ctx).Info().Str("server_id", s.id).Msg("language server listening")

	select {
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	if s.debug && conn != nil {
		ctx = s.ApplyLSPWriter(ctx, conn)
	}

	zerolog.Ctx(ctx).Trace().Str("method", req.Method).Msg("request received")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(ctx, req)
	case "initialized":
		s.initialized = true
		return nil, nil
	case "shutdown":
		s.shutdown = true
		return nil, nil
	case "exit":
		return nil, conn.Close()
	case "textDocument/didOpen":
		return s.handleTextDocumentDidOpen(ctx, req)
	case "textDocument/didChange":
		return s.handleTextDocumentDidChange(ctx, req)
	case "textDocument/didClose":
		return s.handleTextDocumentDidClose(ctx, req)
	case protocol.MethodHighlights:
		return s.handleHighlights(ctx, req)
	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: "method not supported: " + req.Method,
		}
	}
}

func (s *Server) handleInitialize(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.InitializeParams
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, errors.Errorf("unmarshalling initialize params: %w", err)
		}
	}

	zerolog.Ctx(ctx).Debug().Str("root_uri", string(params.RootURI)).Msg("initializing server")

	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.SyncIncremental,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name: "identicolor",
		},
	}, nil
}

func (s *Server) handleTextDocumentDidOpen(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, errors.Errorf("unmarshalling didOpen params: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document opened")

	doc := document.New(
		string(params.TextDocument.URI),
		params.TextDocument.LanguageID,
		params.TextDocument.Version,
		params.TextDocument.Text,
	)
	s.documents.Store(string(params.TextDocument.URI), doc)

	return nil, nil
}

func (s *Server) handleTextDocumentDidChange(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, errors.Errorf("unmarshalling didChange params: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document changed")

	doc, ok := s.documents.GetNoFallback(string(params.TextDocument.URI))
	if !ok {
		return nil, errors.Errorf("document not found: %s", params.TextDocument.URI)
	}

	doc.Version = params.TextDocument.Version
	for _, change := range params.ContentChanges {
		if change.Range == nil {
			doc.SetContent(change.Text)
			continue
		}
		if err := doc.Splice(change.Range.Internal(), change.Text); err != nil {
			return nil, errors.Errorf("applying incremental change: %w", err)
		}
	}

	s.documents.Store(string(params.TextDocument.URI), doc)
	return nil, nil
}

func (s *Server) handleTextDocumentDidClose(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, errors.Errorf("unmarshalling didClose params: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document closed")

	s.documents.Delete(string(params.TextDocument.URI))
	return nil, nil
}

func (s *Server) handleHighlights(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.HighlightsParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, errors.Errorf("unmarshalling highlights params: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("uri", string(params.TextDocument.URI)).
		Int("data_length", len(params.Data)).
		Msg("highlights request received")

	doc, ok := s.documents.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, errors.Errorf("document not found: %s: %w", params.TextDocument.URI, document.ErrSourceUnavailable)
	}

	languageID := params.LanguageID
	if languageID == "" {
		languageID = doc.LanguageID
	}

	opts := s.cfg.Options()
	if params.Options != nil {
		if params.Options.IncludeGlobals != nil {
			opts.IncludeGlobals = *params.Options.IncludeGlobals
		}
		if params.Options.IncludeClasses != nil {
			opts.IncludeClasses = *params.Options.IncludeClasses
		}
	}

	groups, err := highlight.GroupIdentifiers(ctx, params.Data, params.Legend, doc, opts, languageID)
	if err != nil {
		logger.Error().Err(err).Msg("classification failed")
		return nil, errors.Errorf("grouping identifiers: %w", err)
	}

	result := protocol.HighlightsResult{
		ResultID: uuid.NewString(),
		Groups:   make(map[string][]protocol.Range, len(groups)),
	}
	for name, ranges := range groups {
		wire := make([]protocol.Range, len(ranges))
		for i, rng := range ranges {
			wire[i] = protocol.FromRange(rng)
		}
		result.Groups[name] = wire
	}

	logger.Debug().Int("group_count", len(result.Groups)).Msg("highlights computed")

	return result, nil
}
