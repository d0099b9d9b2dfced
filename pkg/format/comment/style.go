package comment

import "strings"

// Style is the syntactic form of a comment.
type Style uint8

const (
	// DoubleSlash is a `//` line comment.
	DoubleSlash Style = iota
	// TripleSlash is a `///` outer doc comment.
	TripleSlash
	// Doc is a `//!` inner doc comment.
	Doc
	// SingleBullet is a `/* */` block comment.
	SingleBullet
	// DoubleBullet is a `/** */` outer doc block comment.
	DoubleBullet
	// Exclamation is a `/*! */` inner doc block comment.
	Exclamation
)

// StyleOf detects the style of the comment orig. With normalize set, block
// comments map to the line style of the same kind.
func StyleOf(orig string, normalize bool) Style {
	tripleSlash := strings.HasPrefix(orig, "///") && !strings.HasPrefix(orig, "////")
	doubleBullet := strings.HasPrefix(orig, "/**") && !strings.HasPrefix(orig, "/**/")
	if normalize {
		switch {
		case tripleSlash || doubleBullet:
			return TripleSlash
		case strings.HasPrefix(orig, "//!") || strings.HasPrefix(orig, "/*!"):
			return Doc
		default:
			return DoubleSlash
		}
	}
	switch {
	case doubleBullet:
		return DoubleBullet
	case strings.HasPrefix(orig, "/*!"):
		return Exclamation
	case strings.HasPrefix(orig, "/*"):
		return SingleBullet
	case tripleSlash:
		return TripleSlash
	case strings.HasPrefix(orig, "//!"):
		return Doc
	default:
		return DoubleSlash
	}
}

// IsLine reports whether the style runs to the end of the line.
func (s Style) IsLine() bool {
	return s == DoubleSlash || s == TripleSlash || s == Doc
}

// IsBlock reports whether the style is delimited by `/*` and `*/`.
func (s Style) IsBlock() bool {
	return !s.IsLine()
}

// IsDoc reports whether the style is a doc comment.
func (s Style) IsDoc() bool {
	return s != DoubleSlash && s != SingleBullet
}

// Opener is the text that starts the comment, with its trailing space.
func (s Style) Opener() string {
	switch s {
	case TripleSlash:
		return "/// "
	case Doc:
		return "//! "
	case SingleBullet:
		return "/* "
	case DoubleBullet:
		return "/** "
	case Exclamation:
		return "/*! "
	default:
		return "// "
	}
}

// Closer is the text that ends the comment.
func (s Style) Closer() string {
	if s.IsBlock() {
		return " */"
	}
	return ""
}

// LineStart is the prefix of every continuation line.
func (s Style) LineStart() string {
	switch s {
	case SingleBullet, DoubleBullet, Exclamation:
		return " * "
	default:
		return s.Opener()
	}
}

// LineWithSameStyle reports whether line is a comment that can continue a
// group of comments of this style.
func (s Style) LineWithSameStyle(line string, normalize bool) bool {
	line = strings.TrimLeft(line, " \t")
	if !s.IsLine() || !strings.HasPrefix(line, "//") {
		return false
	}
	return StyleOf(line, normalize) == s
}

// IsLineComment reports whether the comment text s is a line comment.
func IsLineComment(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "//")
}

// LastLineIsLineComment reports whether the last line of s ends inside a
// line comment, so that nothing more can follow it on that line.
func LastLineIsLineComment(s string) bool {
	last := s[strings.LastIndexByte(s, '\n')+1:]
	if !strings.Contains(last, "//") {
		return false
	}
	classes := Classes(last)
	return len(classes) > 0 && classes[len(classes)-1].IsComment() && !strings.HasSuffix(last, "*/")
}
