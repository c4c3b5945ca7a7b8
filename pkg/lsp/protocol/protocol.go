package protocol

// Hand-written subset of the LSP types this server speaks, based on the
// specification:
// https://microsoft.github.io/language-server-protocol/specifications/specification-current/

import (
	"github.com/walteh/identicolor/pkg/position"
	"github.com/walteh/identicolor/pkg/semtok"
)

type DocumentURI string

type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// FromRange converts an internal range to the wire form.
func FromRange(r position.Range) Range {
	return Range{
		Start: Position{Line: uint32(r.Start.Line), Character: uint32(r.Start.Character)},
		End:   Position{Line: uint32(r.End.Line), Character: uint32(r.End.Character)},
	}
}

// Internal converts a wire range to the internal form.
func (r Range) Internal() position.Range {
	return position.Range{
		Start: position.Place{Line: int(r.Start.Line), Character: int(r.Start.Character)},
		End:   position.Place{Line: int(r.End.Line), Character: int(r.End.Character)},
	}
}

type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     DocumentURI `json:"uri"`
	Version int32       `json:"version"`
}

type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int32       `json:"version"`
	Text       string      `json:"text"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type InitializeParams struct {
	ProcessID             int         `json:"processId,omitempty"`
	RootURI               DocumentURI `json:"rootUri"`
	InitializationOptions interface{} `json:"initializationOptions,omitempty"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type ServerCapabilities struct {
	TextDocumentSync TextDocumentSyncOptions `json:"textDocumentSync"`
}

type TextDocumentSyncOptions struct {
	OpenClose bool                 `json:"openClose"`
	Change    TextDocumentSyncKind `json:"change"`
}

type TextDocumentSyncKind int

const (
	SyncNone        TextDocumentSyncKind = 0
	SyncFull        TextDocumentSyncKind = 1
	SyncIncremental TextDocumentSyncKind = 2
)

// MethodHighlights is the custom request: the client hands over the semantic
// token stream it received from whichever language server analyzed the
// document, and gets back the identifier grouping.
const MethodHighlights = "identicolor/highlights"

type HighlightsParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`

	// LanguageID overrides the stored document's language when set; useful
	// when the document was read from disk rather than opened by the client.
	LanguageID string `json:"languageId,omitempty"`

	Legend semtok.Legend `json:"legend"`
	Data   []uint32      `json:"data"`

	Options *HighlightOptions `json:"options,omitempty"`
}

// HighlightOptions optionally overrides the server's configured toggles for
// one request. Nil fields inherit the configuration.
type HighlightOptions struct {
	IncludeGlobals *bool `json:"includeGlobals,omitempty"`
	IncludeClasses *bool `json:"includeClasses,omitempty"`
}

type HighlightsResult struct {
	ResultID string             `json:"resultId"`
	Groups   map[string][]Range `json:"groups"`
}
