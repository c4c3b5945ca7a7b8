package lsp

import (
	"context"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/identicolor/pkg/document"
	"github.com/walteh/identicolor/pkg/lsp/protocol"
	"github.com/walteh/identicolor/pkg/position"
	"github.com/walteh/identicolor/pkg/semtok"
	"gitlab.com/tozd/go/errors"
)

var testLegend = semtok.Legend{
	TokenTypes:     []string{"variable", "parameter", "class"},
	TokenModifiers: []string{"declaration", "global", "label"},
}

func request(t *testing.T, method string, params interface{}) *jsonrpc2.Request {
	t.Helper()
	req := &jsonrpc2.Request{Method: method}
	if params != nil {
		require.NoError(t, req.SetParams(params))
	}
	return req
}

func openDocument(t *testing.T, s *Server, uri, languageID, text string) {
	t.Helper()
	_, err := s.handle(context.Background(), nil, request(t, "textDocument/didOpen", protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentURI(uri),
			LanguageID: languageID,
			Version:    1,
			Text:       text,
		},
	}))
	require.NoError(t, err)
}

func TestInitialize(t *testing.T) {
	s := NewServer(context.Background(), nil)

	res, err := s.handle(context.Background(), nil, request(t, "initialize", protocol.InitializeParams{
		RootURI: "file:///workspace",
	}))
	require.NoError(t, err)

	result, ok := res.(protocol.InitializeResult)
	require.True(t, ok)
	assert.True(t, result.Capabilities.TextDocumentSync.OpenClose)
	assert.Equal(t, protocol.SyncIncremental, result.Capabilities.TextDocumentSync.Change)
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "identicolor", result.ServerInfo.Name)
}

func TestHighlightsOverOpenedDocument(t *testing.T) {
	s := NewServer(context.Background(), nil)

	openDocument(t, s, "file:///tmp/demo.ts", "typescript", "let alpha = 1;\nprint(alpha);\n")

	data := semtok.Encode([]semtok.Token{
		{Range: position.NewTokenRange(0, 4, 5), Kind: semtok.KindVariable, Modifiers: semtok.ModifierSet{}},
		{Range: position.NewTokenRange(1, 6, 5), Kind: semtok.KindVariable, Modifiers: semtok.ModifierSet{}},
	}, testLegend)

	res, err := s.handle(context.Background(), nil, request(t, protocol.MethodHighlights, protocol.HighlightsParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/demo.ts"},
		Legend:       testLegend,
		Data:         data,
	}))
	require.NoError(t, err)

	result, ok := res.(protocol.HighlightsResult)
	require.True(t, ok)
	assert.NotEmpty(t, result.ResultID)

	require.Contains(t, result.Groups, "alpha")
	assert.Equal(t, []protocol.Range{
		{Start: protocol.Position{Line: 0, Character: 4}, End: protocol.Position{Line: 0, Character: 9}},
		{Start: protocol.Position{Line: 1, Character: 6}, End: protocol.Position{Line: 1, Character: 11}},
	}, result.Groups["alpha"])
}

func TestHighlightsMissingDocument(t *testing.T) {
	s := NewServer(context.Background(), nil)

	_, err := s.handle(context.Background(), nil, request(t, protocol.MethodHighlights, protocol.HighlightsParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///definitely/not/opened.ts"},
		Legend:       testLegend,
		Data:         []uint32{},
	}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrSourceUnavailable))
}

func TestHighlightsPerRequestOptionOverride(t *testing.T) {
	s := NewServer(context.Background(), nil)

	openDocument(t, s, "file:///tmp/g.ts", "typescript", "id = 1;\n")

	data := semtok.Encode([]semtok.Token{
		{Range: position.NewTokenRange(0, 0, 2), Kind: semtok.KindVariable, Modifiers: semtok.NewModifierSet("global")},
	}, testLegend)

	params := protocol.HighlightsParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/g.ts"},
		Legend:       testLegend,
		Data:         data,
	}

	// Default config drops the short global name.
	res, err := s.handle(context.Background(), nil, request(t, protocol.MethodHighlights, params))
	require.NoError(t, err)
	assert.NotContains(t, res.(protocol.HighlightsResult).Groups, "id")

	// A per-request override keeps it without touching the config.
	includeGlobals := true
	params.Options = &protocol.HighlightOptions{IncludeGlobals: &includeGlobals}
	res, err = s.handle(context.Background(), nil, request(t, protocol.MethodHighlights, params))
	require.NoError(t, err)
	assert.Contains(t, res.(protocol.HighlightsResult).Groups, "id")
}

func TestDidChangeIncrementalSync(t *testing.T) {
	s := NewServer(context.Background(), nil)

	openDocument(t, s, "file:///tmp/c.ts", "typescript", "let alpha = 1;\n")

	_, err := s.handle(context.Background(), nil, request(t, "textDocument/didChange", protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{URI: "file:///tmp/c.ts", Version: 2},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 4},
					End:   protocol.Position{Line: 0, Character: 9},
				},
				Text: "gamma",
			},
		},
	}))
	require.NoError(t, err)

	doc, ok := s.Documents().GetNoFallback("file:///tmp/c.ts")
	require.True(t, ok)
	assert.Equal(t, "let gamma = 1;\n", doc.Content())
	assert.EqualValues(t, 2, doc.Version)
}

func TestDidCloseDropsDocument(t *testing.T) {
	s := NewServer(context.Background(), nil)

	openDocument(t, s, "file:///tmp/d.ts", "typescript", "x\n")

	_, err := s.handle(context.Background(), nil, request(t, "textDocument/didClose", protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/d.ts"},
	}))
	require.NoError(t, err)

	_, ok := s.Documents().GetNoFallback("file:///tmp/d.ts")
	assert.False(t, ok)
}

func TestUnknownMethod(t *testing.T) {
	s := NewServer(context.Background(), nil)

	_, err := s.handle(context.Background(), nil, request(t, "textDocument/hover", nil))
	require.Error(t, err)

	var rpcErr *jsonrpc2.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)
}
