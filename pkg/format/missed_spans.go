package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
)

// tailMode selects what happens after the last comment of a gap.
type tailMode uint8

const (
	// tailPlain copies the trailing text of the gap as it is.
	tailPlain tailMode = iota
	// tailIndent ends the gap at the start of a fresh, indented line.
	tailIndent
	// tailNoIndent drops trailing blanks and leaves the cursor in place.
	tailNoIndent
)

// formatMissing copies the source between lastPos and end.
func (v *FmtVisitor) formatMissing(end int) {
	v.formatMissingInner(end, tailPlain)
}

// formatMissingWithIndent copies the source between lastPos and end and
// leaves the buffer at the start of an indented line, ready for the next
// node.
func (v *FmtVisitor) formatMissingWithIndent(end int) {
	v.formatMissingInner(end, tailIndent)
}

func (v *FmtVisitor) formatMissingNoIndent(end int) {
	v.formatMissingInner(end, tailNoIndent)
}

func (v *FmtVisitor) formatMissingInner(end int, mode tailMode) {
	start := v.lastPos
	if start > end {
		return
	}
	v.lastPos = end
	gap := v.ctx.File.Src[start:end]
	if len(v.buf) == 0 {
		gap = strings.TrimLeft(gap, " \t\r\n")
		if gap == "" {
			return
		}
	}
	if mode == tailPlain && gap == ";" {
		v.push(";")
		return
	}
	if strings.TrimSpace(gap) == "" {
		if n := strings.Count(gap, "\n"); n > 0 || mode == tailIndent {
			v.pushVerticalSpaces(n)
		}
		v.processTail("", mode)
		return
	}
	v.writeSnippet(gap, mode)
}

// writeSnippet replays a gap holding comments or unparsed code.
func (v *FmtVisitor) writeSnippet(gap string, mode tailMode) {
	slices := comment.Slices(gap)
	tail := ""
	for i, sl := range slices {
		switch {
		case sl.Kind == comment.SliceComment:
			v.processComment(sl.Text)
		case isBlankCode(sl.Text):
			n := strings.Count(sl.Text, "\n")
			if n == 0 {
				if i == len(slices)-1 {
					tail = sl.Text
				}
				continue
			}
			v.pushVerticalSpaces(n)
		default:
			v.processMissingCode(sl.Text)
		}
	}
	v.processTail(tail, mode)
}

// isBlankCode reports code that carries nothing but layout: whitespace and
// stray semicolons.
func isBlankCode(s string) bool {
	return strings.Trim(s, " \t\r\n;") == ""
}

func (v *FmtVisitor) processTail(tail string, mode tailMode) {
	switch mode {
	case tailPlain:
		v.push(tail)
	case tailNoIndent:
		v.push(strings.TrimRight(tail, " \t"))
	case tailIndent:
		if len(v.buf) == 0 {
			return
		}
		switch {
		case v.endsWith('\n'):
			v.trimTrailingBlanks()
			v.push(v.indent.String(v.ctx.Config))
		case v.afterBlockComment && tail != "":
			v.push(" ")
		default:
			v.trimTrailingBlanks()
			v.push(v.indent.StringWithNewline(v.ctx.Config))
		}
	}
}

// pushVerticalSpaces emits the line breaks of a gap, clamped so that the
// number of blank lines stays within the configured bounds.
func (v *FmtVisitor) pushVerticalSpaces(n int) {
	cfg := v.ctx.Config
	v.trimTrailingBlanks()
	have := v.trailingNewlines()
	upper := cfg.BlankLinesUpperBound + 1
	lower := cfg.BlankLinesLowerBound + 1
	if have+n > upper {
		n = max(0, upper-have)
	}
	if have+n < lower {
		n = lower - have
	}
	v.push(strings.Repeat("\n", n))
}

// processComment emits one comment of a gap, either on a line of its own
// or after the code that precedes it.
func (v *FmtVisitor) processComment(text string) {
	cfg := v.ctx.Config
	last := v.lastNonBlank()
	var indent shape.Indent
	switch last {
	case 0, '{', '\n':
		v.trimTrailingBlanks()
		if last == '{' {
			v.push("\n")
		}
		v.push(v.indent.String(cfg))
		indent = v.indent
	default:
		v.trimTrailingBlanks()
		v.push(" ")
		indent = shape.FromWidth(cfg, v.lastLineWidth())
	}

	width := min(cfg.CommentWidth, cfg.MaxWidth-v.indent.Width())
	rewritten, ok := comment.Rewrite(text, false, shape.Legacy(max(0, width), indent), cfg)
	if !ok {
		rewritten = text
	}
	v.push(rewritten)
	v.afterBlockComment = !comment.IsLineComment(text)
}

// processMissingCode emits source the parser kept no node for.
func (v *FmtVisitor) processMissingCode(code string) {
	lines := strings.Split(code, "\n")
	for i := range lines[:len(lines)-1] {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	text := strings.Join(lines, "\n")
	if v.endsWith('\n') {
		text = v.indent.String(v.ctx.Config) + strings.TrimLeft(text, " \t")
	}
	v.push(text)
}

// closeBlock emits the comments between the last statement of a block and
// its closing brace at end, then the brace itself. With unindent the
// comments are written at the indentation of the brace.
func (v *FmtVisitor) closeBlock(end int, unindent bool) {
	cfg := v.ctx.Config
	if unindent {
		v.indent = v.indent.BlockUnindent(cfg)
	}
	gap := ""
	if v.lastPos < end {
		gap = v.ctx.File.Src[v.lastPos:end]
	}
	lastHi := 0
	prevEndsWithNewline := false
	extraNewline := false
	for _, sl := range comment.Slices(gap) {
		switch {
		case sl.Kind == comment.SliceComment:
			between := gap[lastHi:sl.Start]
			sh := shape.Indented(v.indent, cfg).Comment(cfg)
			sameLine := !strings.Contains(between, "\n") && v.lastNonBlank() != '{' && len(v.buf) > 0
			if sameLine {
				offset := 1 + max(0, v.lastLineWidth()-v.indent.Width())
				narrowed, ok := sh.VisualIndent(offset).SubWidth(offset)
				if ok {
					sh = narrowed
				} else {
					sameLine = false
				}
			}
			v.trimTrailingBlanks()
			if sameLine {
				v.push(" ")
			} else {
				if strings.Count(between, "\n") >= 2 || extraNewline {
					v.push("\n")
				}
				v.push(v.indent.StringWithNewline(cfg))
			}
			rewritten, ok := comment.Rewrite(sl.Text, false, sh, cfg)
			if !ok {
				rewritten = sl.Text
			}
			v.push(rewritten)
			extraNewline = false
		case isBlankCode(sl.Text):
			extraNewline = prevEndsWithNewline && strings.Contains(sl.Text, "\n")
			continue
		default:
			v.trimTrailingBlanks()
			v.push(v.indent.StringWithNewline(cfg))
			v.push(strings.TrimSpace(sl.Text))
		}
		prevEndsWithNewline = strings.HasSuffix(sl.Text, "\n")
		lastHi = sl.End()
	}

	if !unindent {
		v.indent = v.indent.BlockUnindent(cfg)
	}
	v.trimTrailingBlanks()
	v.push(v.indent.StringWithNewline(cfg))
	v.push("}")
	v.lastPos = end + 1
}
