package parser

import "fmt"

// Span is a half-open [Start, End) range of UTF-8 byte offsets into the source
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// NewSpan creates a span, swapping the bounds if they are reversed
func NewSpan(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Contains reports whether other lies within s
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// String returns a string representation of the span
func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// TextOf returns the source text covered by span. Both bounds are clamped to
// [0, len(source)]; a stale or malformed span yields "".
func TextOf(span Span, source []byte) string {
	start := clamp(span.Start, 0, len(source))
	end := clamp(span.End, 0, len(source))
	if start >= end {
		return ""
	}
	return string(source[start:end])
}

// LineIndex maps byte offsets to 1-based line numbers in O(1).
//
// The table holds one entry per byte plus one for the end-of-input offset, so
// every offset a Span can carry has an entry. The line number increments on
// the byte following each '\n'.
type LineIndex struct {
	lines []uint32
}

// BuildLineIndex builds the offset table for source in a single pass
func BuildLineIndex(source []byte) *LineIndex {
	lines := make([]uint32, len(source)+1)
	line := uint32(1)
	for i, c := range source {
		lines[i] = line
		if c == '\n' {
			line++
		}
	}
	lines[len(source)] = line
	return &LineIndex{lines: lines}
}

// LineAt returns the line containing offset. Offsets outside the source are
// clamped to the nearest valid entry.
func (li *LineIndex) LineAt(offset int) int {
	if li == nil || len(li.lines) == 0 {
		return 1
	}
	return int(li.lines[clamp(offset, 0, len(li.lines)-1)])
}

// TotalLines returns the number of lines in the source, which is the number
// of line terminators plus one
func (li *LineIndex) TotalLines() int {
	if li == nil || len(li.lines) == 0 {
		return 1
	}
	return int(li.lines[len(li.lines)-1])
}

// Len returns the length in bytes of the indexed source
func (li *LineIndex) Len() int {
	if li == nil || len(li.lines) == 0 {
		return 0
	}
	return len(li.lines) - 1
}

// LinesOf returns the inclusive line range of span
func (li *LineIndex) LinesOf(span Span) (int, int) {
	start := li.LineAt(span.Start)
	end := li.LineAt(span.End)
	if end < start {
		end = start
	}
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
