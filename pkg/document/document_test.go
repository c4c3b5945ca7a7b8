package document_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/identicolor/pkg/document"
	"github.com/walteh/identicolor/pkg/position"
	"gitlab.com/tozd/go/errors"
)

func TestTextAt(t *testing.T) {
	doc := document.New("file:///tmp/main.go", "go", 1, "package demo\n\nfunc sum(alpha int) int {\n\treturn alpha\n}\n")

	tests := []struct {
		name     string
		rng      position.Range
		expected string
		wantErr  bool
	}{
		{
			name:     "test_first_line",
			rng:      position.NewTokenRange(0, 8, 4),
			expected: "demo",
		},
		{
			name:     "test_identifier_mid_line",
			rng:      position.NewTokenRange(2, 9, 5),
			expected: "alpha",
		},
		{
			name:     "test_after_tab",
			rng:      position.NewTokenRange(3, 8, 5),
			expected: "alpha",
		},
		{
			name:    "test_line_out_of_range",
			rng:     position.NewTokenRange(42, 0, 1),
			wantErr: true,
		},
		{
			name:    "test_character_out_of_range",
			rng:     position.NewTokenRange(0, 10, 20),
			wantErr: true,
		},
		{
			name:    "test_multi_line_range_rejected",
			rng:     position.Range{Start: position.Place{Line: 0, Character: 0}, End: position.Place{Line: 1, Character: 0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.TextAt(tt.rng)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, document.ErrSourceUnavailable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplice(t *testing.T) {
	t.Run("test_replace_within_line", func(t *testing.T) {
		doc := document.New("u", "go", 1, "let alpha = 1\n")
		err := doc.Splice(position.NewTokenRange(0, 4, 5), "beta")
		require.NoError(t, err)
		assert.Equal(t, "let beta = 1\n", doc.Content())
	})

	t.Run("test_replace_across_lines", func(t *testing.T) {
		doc := document.New("u", "go", 1, "one\ntwo\nthree")
		err := doc.Splice(position.Range{
			Start: position.Place{Line: 0, Character: 3},
			End:   position.Place{Line: 2, Character: 0},
		}, " ")
		require.NoError(t, err)
		assert.Equal(t, "one three", doc.Content())
	})

	t.Run("test_splice_out_of_range", func(t *testing.T) {
		doc := document.New("u", "go", 1, "one")
		err := doc.Splice(position.NewTokenRange(5, 0, 1), "x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, document.ErrSourceUnavailable))
	})

	t.Run("test_text_at_sees_new_content", func(t *testing.T) {
		doc := document.New("u", "go", 1, "let alpha = 1")
		require.NoError(t, doc.Splice(position.NewTokenRange(0, 4, 5), "gamma"))

		got, err := doc.TextAt(position.NewTokenRange(0, 4, 5))
		require.NoError(t, err)
		assert.Equal(t, "gamma", got)
	})
}

func TestNormalizeURI(t *testing.T) {
	assert.Equal(t, "/tmp/main.go", document.NormalizeURI("file:///tmp/main.go"))
	assert.Equal(t, "/tmp/main.go", document.NormalizeURI("/tmp/main.go"))
}

func TestManager(t *testing.T) {
	t.Run("test_store_and_get", func(t *testing.T) {
		m := document.NewManager(afero.NewMemMapFs())
		doc := document.New("/tmp/a.go", "go", 1, "package a\n")
		m.Store("file:///tmp/a.go", doc)

		got, ok := m.Get("/tmp/a.go")
		require.True(t, ok)
		assert.Equal(t, doc, got)
	})

	t.Run("test_filesystem_fallback", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/tmp/b.go", []byte("package b\n"), 0o644))

		m := document.NewManager(fsys)

		got, ok := m.Get("file:///tmp/b.go")
		require.True(t, ok)
		assert.Equal(t, "package b\n", got.Content())

		// Cached now: available without the fallback.
		_, ok = m.GetNoFallback("/tmp/b.go")
		assert.True(t, ok)
	})

	t.Run("test_no_fallback_misses_unopened", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/tmp/c.go", []byte("package c\n"), 0o644))

		m := document.NewManager(fsys)
		_, ok := m.GetNoFallback("/tmp/c.go")
		assert.False(t, ok)
	})

	t.Run("test_delete", func(t *testing.T) {
		m := document.NewManager(afero.NewMemMapFs())
		m.Store("/tmp/d.go", document.New("/tmp/d.go", "go", 1, ""))
		m.Delete("/tmp/d.go")

		_, ok := m.GetNoFallback("/tmp/d.go")
		assert.False(t, ok)
	})
}
