// Package shape describes the space available to a rewrite: how wide the
// remaining line is and where continuation lines start.
package shape

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// Indent is the indentation of a line. BlockIndent is always a multiple of
// the tab width; Alignment is visual padding that is always written as
// spaces.
type Indent struct {
	BlockIndent int
	Alignment   int
}

// NewIndent returns an Indent with the given block indent and alignment.
func NewIndent(block, alignment int) Indent {
	return Indent{BlockIndent: block, Alignment: alignment}
}

// FromWidth returns an Indent of width columns, expressed as block indent
// where possible.
func FromWidth(cfg *config.Config, width int) Indent {
	if cfg.HardTabs {
		tabs := width / cfg.TabSpaces
		return Indent{BlockIndent: tabs * cfg.TabSpaces, Alignment: width % cfg.TabSpaces}
	}
	return Indent{BlockIndent: width}
}

// Empty is the zero indent.
func Empty() Indent {
	return Indent{}
}

// BlockOnly drops the alignment.
func (i Indent) BlockOnly() Indent {
	return Indent{BlockIndent: i.BlockIndent}
}

// BlockIndentBy returns the indent one block level deeper.
func (i Indent) BlockIndentBy(cfg *config.Config) Indent {
	if i.Alignment == 0 {
		return Indent{BlockIndent: i.BlockIndent + cfg.TabSpaces}
	}
	return Indent{BlockIndent: i.BlockIndent, Alignment: i.Alignment + cfg.TabSpaces}
}

// BlockUnindent returns the indent one block level shallower.
func (i Indent) BlockUnindent(cfg *config.Config) Indent {
	if i.BlockIndent < cfg.TabSpaces {
		return Indent{BlockIndent: i.BlockIndent, Alignment: max(0, i.Alignment-cfg.TabSpaces)}
	}
	return Indent{BlockIndent: i.BlockIndent - cfg.TabSpaces, Alignment: i.Alignment}
}

// Width is the number of columns the indent occupies.
func (i Indent) Width() int {
	return i.BlockIndent + i.Alignment
}

// Add returns the sum of two indents.
func (i Indent) Add(o Indent) Indent {
	return Indent{BlockIndent: i.BlockIndent + o.BlockIndent, Alignment: i.Alignment + o.Alignment}
}

// AddWidth returns i with n more columns of alignment.
func (i Indent) AddWidth(n int) Indent {
	return Indent{BlockIndent: i.BlockIndent, Alignment: i.Alignment + n}
}

// SubWidth returns i with n fewer columns, taken from alignment first.
func (i Indent) SubWidth(n int) Indent {
	if n <= i.Alignment {
		return Indent{BlockIndent: i.BlockIndent, Alignment: i.Alignment - n}
	}
	return Indent{BlockIndent: max(0, i.BlockIndent-(n-i.Alignment))}
}

// String renders the indent as leading whitespace.
func (i Indent) String(cfg *config.Config) string {
	return i.render(cfg, false)
}

// StringWithNewline renders a newline followed by the indent.
func (i Indent) StringWithNewline(cfg *config.Config) string {
	return i.render(cfg, true)
}

func (i Indent) render(cfg *config.Config, newline bool) string {
	var sb strings.Builder
	if newline {
		sb.WriteByte('\n')
	}
	if cfg.HardTabs {
		sb.WriteString(strings.Repeat("\t", i.BlockIndent/cfg.TabSpaces))
		sb.WriteString(strings.Repeat(" ", i.Alignment))
	} else {
		sb.WriteString(strings.Repeat(" ", i.Width()))
	}
	return sb.String()
}

// Shape is the space available to a rewrite. Width is the number of
// columns left on the first line, Indent is where following lines start and
// Offset is the visual indent of the first line past Indent.
type Shape struct {
	Width  int
	Indent Indent
	Offset int
}

// Legacy is a visual shape whose offset equals its alignment.
func Legacy(width int, indent Indent) Shape {
	return Shape{Width: width, Indent: indent, Offset: indent.Alignment}
}

// Indented is a shape at indent with the width left on a line of
// cfg.MaxWidth, saturating at zero.
func Indented(indent Indent, cfg *config.Config) Shape {
	return Shape{Width: max(0, cfg.MaxWidth-indent.Width()), Indent: indent, Offset: indent.Alignment}
}

// WithMaxWidth resets the width to what is left of a full line at the
// shape's indent.
func (s Shape) WithMaxWidth(cfg *config.Config) Shape {
	s.Width = max(0, cfg.MaxWidth-s.Indent.Width())
	return s
}

// VisualIndent moves the indent to the current column plus n.
func (s Shape) VisualIndent(n int) Shape {
	alignment := s.Offset + n
	return Shape{
		Width:  s.Width,
		Indent: Indent{BlockIndent: s.Indent.BlockIndent, Alignment: alignment},
		Offset: alignment,
	}
}

// BlockIndent increases the indent by n columns of block indent, or of
// alignment when the shape is already visually aligned.
func (s Shape) BlockIndent(n int) Shape {
	if s.Indent.Alignment == 0 {
		return Shape{Width: s.Width, Indent: Indent{BlockIndent: s.Indent.BlockIndent + n}, Offset: 0}
	}
	return Shape{
		Width:  s.Width,
		Indent: s.Indent.AddWidth(n),
		Offset: s.Indent.Alignment + n,
	}
}

// BlockLeft indents by n columns and reduces the width accordingly.
func (s Shape) BlockLeft(n int) (Shape, bool) {
	return s.BlockIndent(n).SubWidth(n)
}

// BlockOnly drops the alignment.
func (s Shape) BlockOnly() Shape {
	return Shape{Width: s.Width, Indent: s.Indent.BlockOnly(), Offset: 0}
}

// Block drops the alignment, moving it into the first-line offset.
func (s Shape) Block() Shape {
	return Shape{Width: s.Width, Indent: s.Indent.BlockOnly(), Offset: s.Offset}
}

// AddOffset moves the first line right by n columns without changing the
// width.
func (s Shape) AddOffset(n int) Shape {
	s.Offset += n
	return s
}

// SubWidth reduces the width by n.
func (s Shape) SubWidth(n int) (Shape, bool) {
	if n > s.Width {
		return s, false
	}
	s.Width -= n
	return s, true
}

// ShrinkLeft moves both the first line and the continuation lines right by
// n columns.
func (s Shape) ShrinkLeft(n int) (Shape, bool) {
	if n > s.Width {
		return s, false
	}
	return Shape{Width: s.Width - n, Indent: s.Indent.AddWidth(n), Offset: s.Offset + n}, true
}

// OffsetLeft moves the first line right by n columns.
func (s Shape) OffsetLeft(n int) (Shape, bool) {
	if n > s.Width {
		return s, false
	}
	return Shape{Width: s.Width - n, Indent: s.Indent, Offset: s.Offset + n}, true
}

// UsedWidth is the number of columns consumed before the shape starts.
func (s Shape) UsedWidth() int {
	return s.Indent.BlockIndent + s.Offset
}

// RHSOverhead is the number of columns reserved after the shape's width
// on a full line.
func (s Shape) RHSOverhead(cfg *config.Config) int {
	return max(0, cfg.MaxWidth-(s.UsedWidth()+s.Width))
}

// Comment narrows the width to what comment_width allows at this indent.
func (s Shape) Comment(cfg *config.Config) Shape {
	s.Width = min(s.Width, max(0, cfg.CommentWidth-s.Indent.Width()))
	return s
}

// Fits reports whether a single line of w columns fits.
func (s Shape) Fits(w int) bool {
	return w <= s.Width
}
