package semtok

import (
	"sort"

	"github.com/walteh/identicolor/pkg/position"
)

// Legend mirrors the LSP SemanticTokensLegend: kind names indexed by the
// record's kindIndex, modifier names indexed by bit position in modifierBits.
type Legend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// Token kind names the classifier keys on. These are legend entries, so the
// strings are the contract, not the indices.
const (
	KindVariable  = "variable"
	KindParameter = "parameter"
	KindClass     = "class"
)

// Modifier names the classifier keys on.
const (
	ModDeclaration = "declaration"
	ModGlobal      = "global"
	ModLabel       = "label"
)

// ModifierSet is the named form of a record's modifier bits. Bit arithmetic
// stays inside Decode/Encode; everything downstream works with names.
type ModifierSet map[string]bool

// NewModifierSet builds a set from modifier names.
func NewModifierSet(names ...string) ModifierSet {
	mods := make(ModifierSet, len(names))
	for _, name := range names {
		mods[name] = true
	}
	return mods
}

// Has reports whether the named modifier is present.
func (m ModifierSet) Has(name string) bool {
	return m[name]
}

// Names returns the modifiers in sorted order, for logging and tests.
func (m ModifierSet) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Token is one decoded semantic token: an absolute single-line range, a named
// kind, and a named modifier set.
type Token struct {
	Range     position.Range
	Kind      string
	Modifiers ModifierSet
}
