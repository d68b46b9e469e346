package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	s := NewSpan(10, 4)
	assert.Equal(t, Span{Start: 4, End: 10}, s, "reversed bounds are swapped")
	assert.Equal(t, 6, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, Span{Start: 3, End: 3}.IsEmpty())
	assert.Equal(t, "[4, 10)", s.String())

	assert.True(t, s.Contains(Span{Start: 4, End: 10}))
	assert.True(t, s.Contains(Span{Start: 5, End: 6}))
	assert.False(t, s.Contains(Span{Start: 3, End: 6}))

	assert.True(t, s.Overlaps(Span{Start: 9, End: 12}))
	assert.False(t, s.Overlaps(Span{Start: 10, End: 12}), "half-open spans that touch do not overlap")
}

func TestTextOf(t *testing.T) {
	source := []byte("hello world")

	tests := []struct {
		name string
		span Span
		want string
	}{
		{"full", Span{Start: 0, End: 11}, "hello world"},
		{"inner", Span{Start: 6, End: 11}, "world"},
		{"empty", Span{Start: 3, End: 3}, ""},
		{"end past source", Span{Start: 6, End: 100}, "world"},
		{"negative start", Span{Start: -5, End: 5}, "hello"},
		{"start past source", Span{Start: 50, End: 60}, ""},
		{"reversed", Span{Start: 8, End: 2}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TextOf(tt.span, source))
		})
	}

	assert.Equal(t, "", TextOf(Span{Start: 0, End: 4}, nil))
}

func TestLineIndex(t *testing.T) {
	source := []byte("ab\ncd\n\nef")
	li := BuildLineIndex(source)

	assert.Equal(t, len(source), li.Len())
	assert.Equal(t, 4, li.TotalLines())

	want := map[int]int{
		0: 1, 1: 1,
		2: 1, // the terminator belongs to the line it ends
		3: 2, 5: 2,
		6: 3,
		7: 4, 8: 4,
		9: 4, // end-of-input offset
	}
	for offset, line := range want {
		assert.Equal(t, line, li.LineAt(offset), "offset %d", offset)
	}
}

func TestLineIndex_Clamps(t *testing.T) {
	li := BuildLineIndex([]byte("a\nb"))

	assert.Equal(t, 1, li.LineAt(-10))
	assert.Equal(t, 2, li.LineAt(1000))

	var nilIndex *LineIndex
	assert.Equal(t, 1, nilIndex.LineAt(5))
	assert.Equal(t, 1, nilIndex.TotalLines())
	assert.Equal(t, 0, nilIndex.Len())
}

func TestLineIndex_Empty(t *testing.T) {
	li := BuildLineIndex(nil)

	assert.Equal(t, 1, li.TotalLines())
	assert.Equal(t, 1, li.LineAt(0))
	start, end := li.LinesOf(Span{})
	assert.Equal(t, 1, start)
	assert.Equal(t, 1, end)
}

func TestLineIndex_Monotonic(t *testing.T) {
	source := []byte("x\n\n  y\r\nz\n")
	li := BuildLineIndex(source)

	prev := li.LineAt(0)
	for i := 1; i <= len(source); i++ {
		line := li.LineAt(i)
		require.GreaterOrEqual(t, line, prev, "offset %d", i)
		if source[i-1] == '\n' {
			assert.Equal(t, prev+1, line, "increment after terminator at %d", i-1)
		} else {
			assert.Equal(t, prev, line, "no increment at %d", i)
		}
		prev = line
	}
}

func TestLineIndex_Idempotent(t *testing.T) {
	source := []byte("first\nsecond\nthird")
	a := BuildLineIndex(source)
	b := BuildLineIndex(source)

	for i := 0; i <= len(source); i++ {
		assert.Equal(t, a.LineAt(i), b.LineAt(i))
	}
}

func TestLineIndex_MultiByte(t *testing.T) {
	// Each of these characters is several bytes wide; lines must follow
	// byte offsets, not character counts.
	source := []byte("const s = \"héllo 世界\";\nconst t = '🎉';\nlet u;")
	li := BuildLineIndex(source)

	second := []byte("const t")
	idx := indexOf(source, second)
	require.Positive(t, idx)
	assert.Equal(t, 2, li.LineAt(idx))
	assert.Equal(t, 1, li.LineAt(idx-1), "the newline before line 2 is on line 1")

	third := indexOf(source, []byte("let u"))
	assert.Equal(t, 3, li.LineAt(third))
	assert.Equal(t, 3, li.TotalLines())
}

func TestLinesOf(t *testing.T) {
	li := BuildLineIndex([]byte("a\nbb\nccc\n"))

	start, end := li.LinesOf(Span{Start: 2, End: 8})
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)

	start, end = li.LinesOf(Span{Start: 5, End: 2})
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end, "end line never precedes start line")
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}
