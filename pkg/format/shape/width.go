package shape

import (
	"strings"

	"github.com/rivo/uniseg"
)

// TextWidth is the display width of s in columns. s must not contain
// newlines; tabs count as one column.
func TextWidth(s string) int {
	if isASCII(s) {
		return len(s)
	}
	return uniseg.StringWidth(s)
}

// DisplayWidth is the display width of a single line with tabs expanded to
// the next multiple of tabSpaces.
func DisplayWidth(line string, tabSpaces int) int {
	if !strings.Contains(line, "\t") {
		return TextWidth(line)
	}
	col := 0
	state := -1
	rest := line
	var cluster string
	var width int
	for rest != "" {
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			col += tabSpaces - col%tabSpaces
			continue
		}
		col += width
	}
	return col
}

// FirstLineWidth is the width of the first line of s.
func FirstLineWidth(s string) int {
	line, _, _ := strings.Cut(s, "\n")
	return TextWidth(line)
}

// LastLineWidth is the width of the last line of s.
func LastLineWidth(s string) int {
	return TextWidth(s[strings.LastIndexByte(s, '\n')+1:])
}

// TrimmedLastLineWidth is the width of the last line of s without its
// leading whitespace.
func TrimmedLastLineWidth(s string) int {
	return TextWidth(strings.TrimLeft(s[strings.LastIndexByte(s, '\n')+1:], " \t"))
}

// MaxLineWidth is the width of the widest line of s.
func MaxLineWidth(s string) int {
	widest := 0
	for line := range strings.SplitSeq(s, "\n") {
		widest = max(widest, TextWidth(line))
	}
	return widest
}

// IsMultiline reports whether s spans more than one line.
func IsMultiline(s string) bool {
	return strings.Contains(s, "\n")
}

// FitsSingleLine reports whether s is one line no wider than width.
func FitsSingleLine(s string, width int) bool {
	return !IsMultiline(s) && TextWidth(s) <= width
}

// FitsText reports whether the first line of text fits the shape's width
// and every later line, indentation included, ends before the shape's
// right edge.
func (s Shape) FitsText(text string) bool {
	first, rest, multi := strings.Cut(text, "\n")
	if TextWidth(first) > s.Width {
		return false
	}
	if !multi {
		return true
	}
	limit := s.Width + s.UsedWidth()
	for line := range strings.SplitSeq(rest, "\n") {
		if TextWidth(line) > limit {
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
