package semtok

import (
	"sort"
)

// Encode converts absolute tokens back to the delta-encoded wire format.
// It is the inverse of Decode for position-sorted input; unsorted input is
// sorted first because the relative encoding requires document order.
//
// Kinds and modifiers not present in the legend encode as index 0 and no bit
// respectively, matching how producers treat an out-of-legend entry.
func Encode(tokens []Token, legend Legend) []uint32 {
	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Before(sorted[j].Range.Start)
	})

	kindIndex := make(map[string]uint32, len(legend.TokenTypes))
	for i, name := range legend.TokenTypes {
		kindIndex[name] = uint32(i)
	}
	modifierBit := make(map[string]uint32, len(legend.TokenModifiers))
	for i, name := range legend.TokenModifiers {
		modifierBit[name] = 1 << uint(i)
	}

	data := make([]uint32, 0, len(sorted)*5)
	var prevLine, prevChar uint32

	for _, tok := range sorted {
		line := uint32(tok.Range.Start.Line)
		char := uint32(tok.Range.Start.Character)

		deltaLine := line - prevLine
		deltaChar := char
		if deltaLine == 0 {
			deltaChar = char - prevChar
		}

		var bits uint32
		for name, on := range tok.Modifiers {
			if !on {
				continue
			}
			bits |= modifierBit[name]
		}

		data = append(data, deltaLine, deltaChar, uint32(tok.Range.Length()), kindIndex[tok.Kind], bits)

		prevLine = line
		prevChar = char
	}

	return data
}
