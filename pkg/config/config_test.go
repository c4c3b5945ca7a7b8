package config_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/identicolor/pkg/config"
)

func writeConfig(t *testing.T, path, content string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	return fsys
}

func TestLoadHCL(t *testing.T) {
	fsys := writeConfig(t, "/etc/identicolor.hcl", `
highlight {
	include_globals = true
}

language "zig" {
	assume_declared = true
}
`)

	cfg, err := config.Load(fsys, "/etc/identicolor.hcl")
	require.NoError(t, err)

	require.NotNil(t, cfg.Highlight)
	assert.True(t, cfg.Highlight.IncludeGlobals)
	assert.False(t, cfg.Highlight.IncludeClasses)

	require.Len(t, cfg.Languages, 1)
	assert.Equal(t, "zig", cfg.Languages[0].ID)
	assert.True(t, cfg.Languages[0].AssumeDeclared)
}

func TestLoadYAML(t *testing.T) {
	fsys := writeConfig(t, "/etc/identicolor.yaml", `
highlight:
  include_classes: true
languages:
  - id: cpp
    assume_declared: true
`)

	cfg, err := config.Load(fsys, "/etc/identicolor.yaml")
	require.NoError(t, err)

	require.NotNil(t, cfg.Highlight)
	assert.True(t, cfg.Highlight.IncludeClasses)

	require.Len(t, cfg.Languages, 1)
	assert.Equal(t, "cpp", cfg.Languages[0].ID)
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	fsys := writeConfig(t, "/etc/identicolor.yaml", `
highlite:
  include_classes: true
`)

	_, err := config.Load(fsys, "/etc/identicolor.yaml")
	require.Error(t, err)
}

func TestLoadHCLSyntaxError(t *testing.T) {
	fsys := writeConfig(t, "/etc/identicolor.hcl", `highlight {`)

	_, err := config.Load(fsys, "/etc/identicolor.hcl")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(afero.NewMemMapFs(), "/nope.hcl")
	require.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := config.Default().Options()

	assert.False(t, opts.IncludeGlobals)
	assert.False(t, opts.IncludeClasses)
	assert.Contains(t, opts.Policies, "cpp")
}

func TestOptionsPolicyTable(t *testing.T) {
	cfg := &config.Config{
		Highlight: &config.HighlightBlock{IncludeGlobals: true},
		Languages: []*config.LanguageBlock{
			{ID: "zig", AssumeDeclared: true},
			{ID: "rust", AssumeDeclared: false},
		},
	}

	opts := cfg.Options()

	assert.True(t, opts.IncludeGlobals)
	assert.Contains(t, opts.Policies, "zig")
	assert.NotContains(t, opts.Policies, "rust")

	// Built-in entries survive unless a block disables them.
	assert.Contains(t, opts.Policies, "cpp")
}

func TestOptionsDisableBuiltinPolicy(t *testing.T) {
	cfg := &config.Config{
		Languages: []*config.LanguageBlock{
			{ID: "cpp", AssumeDeclared: false},
		},
	}

	assert.NotContains(t, cfg.Options().Policies, "cpp")
}
