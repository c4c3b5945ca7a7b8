package lsp

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/walteh/identicolor/pkg/debug"
	"github.com/walteh/identicolor/pkg/lsp/protocol"
)

// LSPWriter implements io.Writer to redirect logs to the client as
// window/logMessage notifications.
type LSPWriter struct {
	mu   sync.Mutex
	conn *jsonrpc2.Conn
	ctx  context.Context
}

func NewLSPWriter(ctx context.Context, conn *jsonrpc2.Conn) *LSPWriter {
	return &LSPWriter{
		conn: conn,
		ctx:  ctx,
	}
}

// ApplyLSPWriter returns a context whose logger writes through the
// connection instead of a local stream.
func (s *Server) ApplyLSPWriter(ctx context.Context, conn *jsonrpc2.Conn) context.Context {
	writer := NewLSPWriter(ctx, conn)

	return zerolog.New(writer).With().
		Logger().
		Hook(debug.CustomTimeHook{}).
		Hook(debug.CustomCallerHook{}).
		WithContext(ctx)
}

func (w *LSPWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var entry map[string]any
	if err := json.Unmarshal(p, &entry); err != nil {
		return len(p), nil // skip malformed entries
	}

	level := protocol.Unknown
	if l, ok := entry["level"].(string); ok {
		level = protocol.ParseMessageTypeFromZerolog(l)
		delete(entry, "level")
	}

	msg := ""
	if m, ok := entry["message"].(string); ok {
		msg = m
		delete(entry, "message")
	}

	timestamp := ""
	if t, ok := entry["time"].(string); ok {
		timestamp = t
		delete(entry, "time")
	}

	source := ""
	if c, ok := entry["caller"].(string); ok {
		source = c
		delete(entry, "caller")
	}

	err := w.conn.Notify(w.ctx, "window/logMessage", protocol.LogMessageParams{
		Type:    level,
		Message: msg,
		Source:  source,
		Time:    timestamp,
		Extra:   entry,
	})
	return len(p), err
}
