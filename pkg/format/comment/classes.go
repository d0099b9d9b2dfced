// Package comment classifies source text into code, comments and string
// literals, and rewrites comments to fit a shape.
package comment

import "strings"

// Class is the lexical class of a byte of source text.
type Class uint8

const (
	Code Class = iota
	StartComment
	InComment
	EndComment
	InString
)

// IsComment reports whether the byte belongs to a comment, delimiters
// included.
func (c Class) IsComment() bool {
	return c == StartComment || c == InComment || c == EndComment
}

// IsCode reports whether the byte is ordinary code outside comments and
// literals.
func (c Class) IsCode() bool {
	return c == Code
}

// Classes classifies every byte of src. A line comment ends before its
// newline; nested block comments are tracked to their outermost closer.
// Text is assumed to start outside any comment or literal.
func Classes(src string) []Class {
	classes := make([]Class, len(src))
	i := 0
	mark := func(from, to int, class Class) {
		for j := from; j < to; j++ {
			classes[j] = class
		}
	}
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src)
			} else {
				end += i
			}
			markComment(classes, i, end)
			i = end
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := blockCommentEnd(src, i)
			markComment(classes, i, end)
			i = end
		case c == '"':
			end := quotedEnd(src, i+1, '"')
			mark(i, end, InString)
			i = end
		case c == '\'':
			if end, ok := charLiteralEnd(src, i); ok {
				mark(i, end, InString)
				i = end
			} else {
				i++
			}
		case (c == 'r' || c == 'b' || c == 'c') && !identBefore(src, i):
			if end, ok := rawStringEnd(src, i); ok {
				mark(i, end, InString)
				i = end
			} else {
				i++
			}
		default:
			i++
		}
	}
	return classes
}

func markComment(classes []Class, from, to int) {
	for j := from; j < to; j++ {
		classes[j] = InComment
	}
	if to > from {
		classes[from] = StartComment
		classes[to-1] = EndComment
	}
}

// blockCommentEnd returns the offset just past the block comment starting
// at i, or len(src) when it is unterminated.
func blockCommentEnd(src string, i int) int {
	depth := 0
	for i < len(src) {
		switch {
		case strings.HasPrefix(src[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(src[i:], "*/"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return len(src)
}

// quotedEnd returns the offset just past the closing quote, honoring
// backslash escapes.
func quotedEnd(src string, i int, quote byte) int {
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return len(src)
}

// charLiteralEnd distinguishes a character literal from a lifetime or
// label, both of which start with a single quote.
func charLiteralEnd(src string, i int) (int, bool) {
	if i+1 >= len(src) {
		return 0, false
	}
	if src[i+1] == '\\' {
		return quotedEnd(src, i+1, '\''), true
	}
	// Skip one UTF-8 encoded rune.
	j := i + 2
	for j < len(src) && src[j]&0xC0 == 0x80 {
		j++
	}
	if j < len(src) && src[j] == '\'' {
		return j + 1, true
	}
	return 0, false
}

// rawStringEnd recognizes r"..", r#".."#, br".." and cr"..", as well as
// b".." and c"..", at i.
func rawStringEnd(src string, i int) (int, bool) {
	j := i
	if src[j] == 'b' || src[j] == 'c' {
		j++
		if j < len(src) && src[j] == '"' {
			return quotedEnd(src, j+1, '"'), true
		}
		if src[i] == 'b' && j < len(src) && src[j] == '\'' {
			end, ok := charLiteralEnd(src, j)
			return end, ok
		}
	}
	if j >= len(src) || src[j] != 'r' {
		return 0, false
	}
	j++
	hashes := 0
	for j < len(src) && src[j] == '#' {
		hashes++
		j++
	}
	if j >= len(src) || src[j] != '"' {
		return 0, false
	}
	closer := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(src[j+1:], closer)
	if end < 0 {
		return len(src), true
	}
	return j + 1 + end + len(closer), true
}

func identBefore(src string, i int) bool {
	if i == 0 {
		return false
	}
	c := src[i-1]
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

// FindUncommented returns the offset of the first occurrence of pat in s
// that lies entirely in code, or -1.
func FindUncommented(s, pat string) int {
	if pat == "" {
		return 0
	}
	classes := Classes(s)
	for start := 0; ; {
		idx := strings.Index(s[start:], pat)
		if idx < 0 {
			return -1
		}
		idx += start
		if allCode(classes[idx : idx+len(pat)]) {
			return idx
		}
		start = idx + 1
	}
}

// FindLastUncommented returns the offset of the last occurrence of pat in s
// that lies entirely in code, or -1.
func FindLastUncommented(s, pat string) int {
	classes := Classes(s)
	for end := len(s); end > 0; {
		idx := strings.LastIndex(s[:end], pat)
		if idx < 0 {
			return -1
		}
		if allCode(classes[idx : idx+len(pat)]) {
			return idx
		}
		end = idx + len(pat) - 1
	}
	return -1
}

func allCode(classes []Class) bool {
	for _, c := range classes {
		if !c.IsCode() {
			return false
		}
	}
	return true
}

// ContainsComment reports whether s contains a comment outside string
// literals.
func ContainsComment(s string) bool {
	if !strings.Contains(s, "//") && !strings.Contains(s, "/*") {
		return false
	}
	for _, c := range Classes(s) {
		if c.IsComment() {
			return true
		}
	}
	return false
}

// SliceKind is the kind of a Slice.
type SliceKind uint8

const (
	SliceCode SliceKind = iota
	SliceComment
)

// Slice is a maximal run of code or a single comment.
type Slice struct {
	Kind  SliceKind
	Start int
	Text  string
}

// End is the offset just past the slice.
func (s Slice) End() int {
	return s.Start + len(s.Text)
}

// Slices splits s into alternating runs of code and individual comments.
// Whitespace is part of the code runs.
func Slices(s string) []Slice {
	classes := Classes(s)
	var out []Slice
	start := 0
	for i := 0; i < len(s); {
		if classes[i] != StartComment {
			i++
			continue
		}
		if i > start {
			out = append(out, Slice{Kind: SliceCode, Start: start, Text: s[start:i]})
		}
		end := i + 1
		for end < len(s) && classes[end-1] != EndComment {
			end++
		}
		out = append(out, Slice{Kind: SliceComment, Start: i, Text: s[i:end]})
		i = end
		start = end
	}
	if start < len(s) {
		out = append(out, Slice{Kind: SliceCode, Start: start, Text: s[start:]})
	}
	return out
}

// Comments returns the comments of s in order.
func Comments(s string) []string {
	var out []string
	for _, slice := range Slices(s) {
		if slice.Kind == SliceComment {
			out = append(out, slice.Text)
		}
	}
	return out
}

// StripComments returns s with every comment removed.
func StripComments(s string) string {
	var sb strings.Builder
	for _, slice := range Slices(s) {
		if slice.Kind == SliceCode {
			sb.WriteString(slice.Text)
		}
	}
	return sb.String()
}

// CommentEnd returns the offset just past the comment at the start of s,
// or 0 when s does not start with a comment. A line comment ends before
// its newline.
func CommentEnd(s string) int {
	switch {
	case strings.HasPrefix(s, "//"):
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			return nl
		}
		return len(s)
	case strings.HasPrefix(s, "/*"):
		return blockCommentEnd(s, 0)
	default:
		return 0
	}
}
