package semtok

import (
	"github.com/walteh/identicolor/pkg/position"
)

// Decode expands a delta-encoded token stream into tokens with absolute
// single-line ranges.
//
// Position accumulation follows the LSP rules: a record with deltaLine == 0
// continues the previous token's line, so deltaChar is relative to the
// previous token's start character; with deltaLine > 0 the token opens a new
// line and deltaChar is the absolute start character on that line.
//
// The stream is trusted input from the token producer: len(data) must be a
// multiple of 5, every kindIndex must be covered by legend.TokenTypes, and
// modifier bits beyond len(legend.TokenModifiers) must be zero. Malformed
// input is a contract violation upstream, not a handled error here.
func Decode(data []uint32, legend Legend) []Token {
	tokens := make([]Token, 0, len(data)/5)

	line, char := 0, 0
	for i := 0; i+5 <= len(data); i += 5 {
		deltaLine := int(data[i])
		deltaChar := int(data[i+1])
		length := int(data[i+2])

		if deltaLine == 0 {
			char += deltaChar
		} else {
			char = deltaChar
		}
		line += deltaLine

		tokens = append(tokens, Token{
			Range:     position.NewTokenRange(line, char, length),
			Kind:      legend.TokenTypes[data[i+3]],
			Modifiers: decodeModifiers(data[i+4], legend),
		})
	}

	return tokens
}

// decodeModifiers turns a bit flag word into a named set by testing each bit
// position against the legend's modifier table.
func decodeModifiers(bits uint32, legend Legend) ModifierSet {
	mods := make(ModifierSet)
	for b, name := range legend.TokenModifiers {
		if bits&(1<<uint(b)) != 0 {
			mods[name] = true
		}
	}
	return mods
}
