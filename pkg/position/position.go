package position

import "fmt"

// Place is a zero-based line/character location in a document, matching the
// LSP convention (line 0 is the first line, character 0 is the first column).
type Place struct {
	Line      int
	Character int
}

// Before reports whether p comes before other in document order.
func (p Place) Before(other Place) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open [Start, End) span between two places.
type Range struct {
	Start Place
	End   Place
}

// NewTokenRange builds the range covered by a token of the given length
// starting at line/character. Token ranges never cross a line boundary.
func NewTokenRange(line, character, length int) Range {
	return Range{
		Start: Place{Line: line, Character: character},
		End:   Place{Line: line, Character: character + length},
	}
}

// SingleLine reports whether the range starts and ends on the same line.
func (r Range) SingleLine() bool {
	return r.Start.Line == r.End.Line
}

// Length returns the character width of a single-line range.
func (r Range) Length() int {
	return r.End.Character - r.Start.Character
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}
