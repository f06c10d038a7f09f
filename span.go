package cdecl

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Location is a single point in the input: a 1-based line/column pair
// plus the raw byte cursor it resolves to.
type Location struct {
	Line   int32
	Column int32
	Cursor int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span is a half-open [Start, End) range expressed as two Locations.
// Every AST node and every Diagnostic carries one.
type Span struct {
	Start Location
	End   Location
}

// NewSpan builds a Span from two locations. Invariant (§8.5): Start
// must precede or equal End.
func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		if s.Start.Column == s.End.Column {
			return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
		}
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// LineIndex allows fast conversion from byte cursor offsets to
// line/column pairs. It stores the start byte offset of each line and
// binary searches it, amortizing the cost of locating many spans
// against one input buffer.
type LineIndex struct {
	input     []byte
	lineStart []int
}

// NewLineIndex builds a LineIndex over input. Construction is O(n).
func NewLineIndex(input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{input: input, lineStart: lineStart}
}

// Span converts a byte [start, end) range into a full Span.
func (li *LineIndex) Span(start, end int) Span {
	return Span{Start: li.LocationAt(start), End: li.LocationAt(end)}
}

// LocationAt returns the Location for byte offset cursor.
func (li *LineIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}

	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := li.lineStart[lineIdx]
	col := int32(utf8.RuneCount(li.input[lineStart:cursor])) + 1

	return Location{
		Line:   int32(lineIdx + 1),
		Column: col,
		Cursor: cursor,
	}
}
