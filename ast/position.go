package ast

import "fmt"

// Position represents a position in template source.
type Position struct {
	Offset int // Byte offset from start of file
	Line   int // 1-indexed line number
	Column int // 1-indexed column number (in runes)
}

// Range represents a span of source code.
type Range struct {
	Start Position
	End   Position
}

// IsValid returns true if the position has been set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String formats the position as line:column.
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the range has been set.
func (r Range) IsValid() bool {
	return r.Start.IsValid()
}

// To returns a range spanning from the start of r to the end of other.
func (r Range) To(other Range) Range {
	return Range{Start: r.Start, End: other.End}
}
