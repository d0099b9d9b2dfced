// Package syntax provides the source model the formatter works on: byte spans,
// a snippet provider over the original text, a lexer, the AST and a
// recursive-descent parser for the supported language subset.
package syntax

import (
	"sort"
	"strings"
)

// Span is a half-open byte range [Lo, Hi) into a source file.
type Span struct {
	Lo int
	Hi int
}

// Sp builds a span from its bounds.
func Sp(lo, hi int) Span {
	return Span{Lo: lo, Hi: hi}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.Hi - s.Lo
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Hi <= s.Lo
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Lo && pos < s.Hi
}

// To returns the smallest span covering both s and other.
func (s Span) To(other Span) Span {
	return Span{Lo: min(s.Lo, other.Lo), Hi: max(s.Hi, other.Hi)}
}

// WithLo returns a copy of s with its start moved to lo.
func (s Span) WithLo(lo int) Span {
	return Span{Lo: lo, Hi: s.Hi}
}

// WithHi returns a copy of s with its end moved to hi.
func (s Span) WithHi(hi int) Span {
	return Span{Lo: s.Lo, Hi: hi}
}

// File is an immutable source file together with a line index.
// It is the snippet provider every formatting rule reads through.
type File struct {
	// Name is the display path of the file, "<stdin>" for standard input.
	Name string

	// Src is the full text of the file.
	Src string

	// lineStarts holds the byte offset of the first byte of each line.
	lineStarts []int
}

// NewFile indexes src for line lookups.
func NewFile(name, src string) *File {
	starts := []int{0}
	for idx := 0; idx < len(src); idx++ {
		if src[idx] == '\n' {
			starts = append(starts, idx+1)
		}
	}
	return &File{Name: name, Src: src, lineStarts: starts}
}

// Snippet returns the exact source text covered by span.
// Out-of-range bounds are clamped.
func (f *File) Snippet(span Span) string {
	lo := clamp(span.Lo, 0, len(f.Src))
	hi := clamp(span.Hi, lo, len(f.Src))
	return f.Src[lo:hi]
}

// Len returns the byte length of the file.
func (f *File) Len() int {
	return len(f.Src)
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Line returns the 1-based line containing pos.
func (f *File) Line(pos int) int {
	line, _ := f.LineCol(pos)
	return line
}

// LineCol converts a byte offset to a 1-based line and a 1-based byte column.
func (f *File) LineCol(pos int) (int, int) {
	pos = clamp(pos, 0, len(f.Src))
	idx := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > pos
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, pos - f.lineStarts[idx] + 1
}

// LineText returns the text of the 1-based line without its terminator.
func (f *File) LineText(line int) string {
	if line < 1 || line > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[line-1]
	end := len(f.Src)
	if line < len(f.lineStarts) {
		end = f.lineStarts[line] - 1
	}
	return strings.TrimSuffix(f.Src[start:end], "\r")
}

// LineSpan returns the 1-based first and last lines touched by span.
func (f *File) LineSpan(span Span) (int, int) {
	hi := span.Hi
	if hi > span.Lo {
		hi--
	}
	return f.Line(span.Lo), f.Line(hi)
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
