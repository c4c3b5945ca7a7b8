package config

import (
	"bytes"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/walteh/identicolor/pkg/highlight"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Config is the user-facing configuration surface, loadable from
// .identicolor.hcl or .identicolor.yaml.
type Config struct {
	// Highlight settings block
	Highlight *HighlightBlock `json:"highlight,omitempty" hcl:"highlight,block" yaml:"highlight,omitempty"`

	// Per-language backend overrides
	Languages []*LanguageBlock `json:"languages,omitempty" hcl:"language,block" yaml:"languages,omitempty"`
}

// HighlightBlock toggles the classification passes.
type HighlightBlock struct {
	IncludeGlobals bool `json:"include_globals,omitempty" yaml:"include_globals,omitempty" hcl:"include_globals,optional"`
	IncludeClasses bool `json:"include_classes,omitempty" yaml:"include_classes,omitempty" hcl:"include_classes,optional"`
}

// LanguageBlock names a language backend quirk.
type LanguageBlock struct {
	ID string `json:"id" yaml:"id" hcl:"id,label"`

	// AssumeDeclared treats every parameter as declared for this language,
	// for backends that never report the declaration modifier.
	AssumeDeclared bool `json:"assume_declared,omitempty" yaml:"assume_declared,omitempty" hcl:"assume_declared,optional"`
}

// Default returns the zero-config behavior: globals and classes off, cpp
// assumed declared.
func Default() *Config {
	return &Config{
		Highlight: &HighlightBlock{},
		Languages: []*LanguageBlock{
			{ID: "cpp", AssumeDeclared: true},
		},
	}
}

// Load reads a config file, dispatching on extension (supports YAML and HCL).
func Load(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		var cfg Config
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, errors.Errorf("parsing yaml config %s: %w", path, err)
		}
		return &cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing hcl config %s: %w", path, diags)
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, errors.Errorf("decoding hcl config %s: %w", path, diags)
	}

	return &cfg, nil
}

// Options translates the config into highlight options. Language blocks
// adjust the built-in policy table: assume_declared = true adds the policy,
// an explicit false removes it (so a config can switch the cpp quirk off).
func (c *Config) Options() highlight.Options {
	opts := highlight.Options{
		Policies: highlight.DefaultPolicies(),
	}
	if c.Highlight != nil {
		opts.IncludeGlobals = c.Highlight.IncludeGlobals
		opts.IncludeClasses = c.Highlight.IncludeClasses
	}
	for _, lang := range c.Languages {
		if lang.AssumeDeclared {
			opts.Policies[lang.ID] = highlight.AssumeDeclared
		} else {
			delete(opts.Policies, lang.ID)
		}
	}
	return opts
}
