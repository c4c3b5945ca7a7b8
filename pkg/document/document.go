package document

import (
	"strings"

	"github.com/walteh/identicolor/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// ErrSourceUnavailable is the recoverable failure of the source-text
// accessor: the document is gone or the requested range does not exist in
// its current content. Callers abort and retry with fresh input.
var ErrSourceUnavailable = errors.Base("source text unavailable")

// Document is a text document with its metadata.
type Document struct {
	URI        string
	LanguageID string
	Version    int32

	content string
	lines   []string
}

func New(uri, languageID string, version int32, content string) *Document {
	return &Document{
		URI:        uri,
		LanguageID: languageID,
		Version:    version,
		content:    content,
	}
}

// Content returns the full document text.
func (d *Document) Content() string {
	return d.content
}

// SetContent replaces the document text and invalidates the line index.
func (d *Document) SetContent(content string) {
	d.content = content
	d.lines = nil
}

func (d *Document) lineTable() []string {
	if d.lines == nil {
		d.lines = strings.Split(d.content, "\n")
	}
	return d.lines
}

// TextAt resolves a single-line range to the exact text under it. It is the
// sourceTextOf collaborator of the highlight package: pure, side-effect-free,
// and deterministic for a fixed content. A range outside the current content
// (or one spanning lines) resolves to ErrSourceUnavailable.
func (d *Document) TextAt(rng position.Range) (string, error) {
	if !rng.SingleLine() {
		return "", errors.Errorf("range %s spans lines: %w", rng, ErrSourceUnavailable)
	}

	lines := d.lineTable()
	if rng.Start.Line < 0 || rng.Start.Line >= len(lines) {
		return "", errors.Errorf("line %d out of range: %w", rng.Start.Line, ErrSourceUnavailable)
	}

	line := lines[rng.Start.Line]
	if rng.Start.Character < 0 || rng.End.Character > len(line) || rng.Start.Character > rng.End.Character {
		return "", errors.Errorf("range %s out of range on line of length %d: %w", rng, len(line), ErrSourceUnavailable)
	}

	return line[rng.Start.Character:rng.End.Character], nil
}

// Splice replaces the text under rng with repl, used for incremental sync.
// The range end may point one past the last line's end.
func (d *Document) Splice(rng position.Range, repl string) error {
	start, err := d.offsetOf(rng.Start)
	if err != nil {
		return err
	}
	end, err := d.offsetOf(rng.End)
	if err != nil {
		return err
	}
	if start > end {
		return errors.Errorf("inverted range %s: %w", rng, ErrSourceUnavailable)
	}
	d.SetContent(d.content[:start] + repl + d.content[end:])
	return nil
}

func (d *Document) offsetOf(p position.Place) (int, error) {
	lines := d.lineTable()
	if p.Line < 0 || p.Line >= len(lines) {
		return 0, errors.Errorf("line %d out of range: %w", p.Line, ErrSourceUnavailable)
	}
	offset := 0
	for i := 0; i < p.Line; i++ {
		offset += len(lines[i]) + 1
	}
	if p.Character < 0 || p.Character > len(lines[p.Line]) {
		return 0, errors.Errorf("character %d out of range on line %d: %w", p.Character, p.Line, ErrSourceUnavailable)
	}
	return offset + p.Character, nil
}
