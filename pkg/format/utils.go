package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func visibilityStr(vis *syntax.Visibility) string {
	if vis == nil {
		return ""
	}
	switch vis.Kind {
	case syntax.VisPublic:
		return "pub "
	case syntax.VisCrate:
		return "pub(crate) "
	case syntax.VisRestricted:
		return "pub(" + vis.Path + ") "
	default:
		return ""
	}
}

// fitsShape reports whether s can be placed at sh: the first line within
// sh.Width, the others within max_width, and the last one leaving room for
// whatever the caller appends after it.
func fitsShape(ctx *RewriteContext, s string, sh shape.Shape) bool {
	if s == "" {
		return true
	}
	if shape.FirstLineWidth(s) > sh.Width {
		return false
	}
	if !shape.IsMultiline(s) {
		return true
	}
	lines := strings.Split(s, "\n")
	for _, line := range lines[1:] {
		if shape.TextWidth(line) > ctx.Config.MaxWidth {
			return false
		}
	}
	return shape.LastLineWidth(s) <= sh.UsedWidth()+sh.Width
}

// wrapStr refuses s when it does not fit sh.
func wrapStr(ctx *RewriteContext, s string, sh shape.Shape) (string, bool) {
	if !fitsShape(ctx, s, sh) {
		return "", false
	}
	return s, true
}

// lastLineExtendable reports whether the last line of s is made only of
// closing delimiters, so more text may follow it on the same line.
func lastLineExtendable(s string) bool {
	if !shape.IsMultiline(s) {
		return false
	}
	last := s[strings.LastIndexByte(s, '\n')+1:]
	for _, c := range strings.TrimSpace(last) {
		switch c {
		case ')', ']', '}', '?', '>':
		default:
			return false
		}
	}
	return true
}

// firstLineEndsWith reports whether the first line of s ends in c.
func firstLineEndsWith(s string, c byte) bool {
	first, _, _ := strings.Cut(s, "\n")
	return strings.HasSuffix(first, string(c))
}

func countNewlines(s string) int {
	return strings.Count(s, "\n")
}

func trimTrailingSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// spanLo and spanHi adapt node spans for the list itemizer.
func spanLo[T syntax.Node](n T) int { return n.Span().Lo }

func spanHi[T syntax.Node](n T) int { return n.Span().Hi }

// attrsLo is where a node with outer attributes starts in the source.
func attrsLo(attrs []*syntax.Attribute, lo int) int {
	if len(attrs) > 0 && attrs[0].Sp.Lo < lo {
		return attrs[0].Sp.Lo
	}
	return lo
}

// labelStr renders a loop or block label prefix.
func labelStr(label string) string {
	if label == "" {
		return ""
	}
	return label + ": "
}

// reindent moves every line of a verbatim snippet after the first by the
// difference between its original column and indent.
func reindent(ctx *RewriteContext, snippet string, origCol int, indent shape.Indent) string {
	lines := strings.Split(snippet, "\n")
	if len(lines) == 1 || newlineInString(snippet) {
		return snippet
	}
	target := indent.String(ctx.Config)
	minIndent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w := shape.DisplayWidth(line[:len(line)-len(strings.TrimLeft(line, " \t"))], ctx.tabSpaces())
		if minIndent < 0 || w < minIndent {
			minIndent = w
		}
	}
	if minIndent < 0 || minIndent < origCol {
		return trimTrailingSpaces(snippet)
	}
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		extra := shape.DisplayWidth(lead, ctx.tabSpaces()) - origCol
		lines[i] = target + strings.Repeat(" ", extra) + strings.TrimRight(strings.TrimLeft(line, " \t"), " \t")
	}
	return strings.Join(lines, "\n")
}

// newlineInString reports whether a line break of s sits inside a string
// literal, where changing indentation would change the program.
func newlineInString(s string) bool {
	classes := comment.Classes(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && classes[i] == comment.InString {
			return true
		}
	}
	return false
}

// sourceIndent is the indentation width of the source line holding pos.
func sourceIndent(ctx *RewriteContext, pos int) int {
	line := ctx.File.LineText(ctx.File.Line(pos))
	lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return shape.DisplayWidth(lead, ctx.tabSpaces())
}
