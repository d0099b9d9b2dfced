package comment

import (
	"strings"
	"unicode"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
)

// Rewrite re-indents one or more comments separated only by whitespace so
// that continuation lines start at sh.Indent. With normalize_comments or
// wrap_comments set the comment bodies are re-rendered in their
// (normalized) style and wrapped to comment_width. With block set, plain
// comments are rendered as `/* */`. The result is false when orig holds
// code or cannot be re-rendered safely.
func Rewrite(orig string, block bool, sh shape.Shape, cfg *config.Config) (string, bool) {
	orig = strings.TrimSpace(orig)
	if orig == "" {
		return "", true
	}

	groups, ok := groupComments(orig, cfg.NormalizeComments)
	if !ok {
		return "", false
	}

	indent := sh.Indent.String(cfg)
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			switch {
			case g.newlinesBefore == 0:
				sb.WriteByte(' ')
			case g.newlinesBefore > 1:
				sb.WriteString("\n\n")
				sb.WriteString(indent)
			default:
				sb.WriteByte('\n')
				sb.WriteString(indent)
			}
		}
		text, ok := rewriteGroup(g.text, block, sh, cfg)
		if !ok {
			return "", false
		}
		sb.WriteString(text)
	}
	return sb.String(), true
}

type group struct {
	text           string
	newlinesBefore int
}

// groupComments splits orig into runs of line comments of one style on
// consecutive lines, and single block comments.
func groupComments(orig string, normalize bool) ([]group, bool) {
	var groups []group
	newlines := 0
	for _, slice := range Slices(orig) {
		if slice.Kind == SliceCode {
			if strings.TrimSpace(slice.Text) != "" {
				return nil, false
			}
			newlines = strings.Count(slice.Text, "\n")
			continue
		}
		if n := len(groups); n > 0 && newlines == 1 && IsLineComment(slice.Text) {
			prev := &groups[n-1]
			if IsLineComment(prev.text) && StyleOf(prev.text, normalize).LineWithSameStyle(slice.Text, normalize) {
				prev.text += "\n" + slice.Text
				newlines = 0
				continue
			}
		}
		groups = append(groups, group{text: slice.Text, newlinesBefore: newlines})
		newlines = 0
	}
	return groups, true
}

func rewriteGroup(orig string, block bool, sh shape.Shape, cfg *config.Config) (string, bool) {
	style := StyleOf(orig, cfg.NormalizeComments)
	forceBlock := block && (style == DoubleSlash || style == SingleBullet)
	if forceBlock {
		style = SingleBullet
	}

	if !forceBlock && !cfg.NormalizeComments && !cfg.WrapComments {
		if style.IsBlock() && hasBareLines(orig) {
			return trimLeftPreserveLayout(orig, sh.Indent, cfg), true
		}
		return lightRewrite(orig, sh.Indent, cfg, style.IsDoc()), true
	}

	lines := commentBody(orig)
	if forceBlock && IsLineComment(orig) {
		for _, line := range lines {
			if strings.Contains(line, "/*") || strings.Contains(line, "*/") {
				return "", false
			}
		}
	}

	if cfg.WrapComments {
		commentShape := sh.Comment(cfg)
		width := commentShape.Width - len(style.Opener())
		if style.IsBlock() {
			width -= len(style.Closer())
		}
		lines = wrapLines(lines, max(1, width))
	}
	return render(lines, style, sh.Indent.String(cfg)), true
}

// commentBody returns the text lines of a comment with delimiters and line
// prefixes removed.
func commentBody(orig string) []string {
	var lines []string
	if strings.HasPrefix(orig, "//") {
		for line := range strings.SplitSeq(orig, "\n") {
			line = strings.TrimLeft(line, " \t")
			switch {
			case strings.HasPrefix(line, "///") && !strings.HasPrefix(line, "////"),
				strings.HasPrefix(line, "//!"):
				line = line[3:]
			default:
				line = line[2:]
			}
			lines = append(lines, trimBodyLine(line))
		}
		return lines
	}

	body := orig
	switch {
	case strings.HasPrefix(body, "/**") && !strings.HasPrefix(body, "/**/"),
		strings.HasPrefix(body, "/*!"):
		body = body[3:]
	default:
		body = body[2:]
	}
	body = strings.TrimSuffix(body, "*/")

	for i, line := range strings.Split(body, "\n") {
		if i > 0 {
			line = strings.TrimLeft(line, " \t")
			if strings.HasPrefix(line, "*") {
				line = line[1:]
			}
		}
		lines = append(lines, trimBodyLine(line))
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// trimBodyLine drops the single space separating a prefix from the text
// and any trailing whitespace.
func trimBodyLine(line string) string {
	line = strings.TrimPrefix(line, " ")
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

func render(lines []string, style Style, indent string) string {
	if style.IsBlock() && len(lines) == 1 && lines[0] == "" {
		return strings.TrimRight(style.Opener(), " ") + style.Closer()
	}

	var sb strings.Builder
	if style.IsLine() {
		for i, line := range lines {
			if i > 0 {
				sb.WriteByte('\n')
				sb.WriteString(indent)
			}
			if line == "" {
				sb.WriteString(strings.TrimRight(style.Opener(), " "))
				continue
			}
			sb.WriteString(style.Opener())
			sb.WriteString(line)
		}
		return sb.String()
	}

	for i, line := range lines {
		if i == 0 {
			sb.WriteString(style.Opener())
		} else {
			sb.WriteByte('\n')
			sb.WriteString(indent)
			if line == "" {
				sb.WriteString(strings.TrimRight(style.LineStart(), " "))
				continue
			}
			sb.WriteString(style.LineStart())
		}
		sb.WriteString(line)
	}
	sb.WriteString(style.Closer())
	return sb.String()
}

// lightRewrite only re-indents: every line is trimmed, keeping one space
// before a leading `*` so it lines up under `/*`.
func lightRewrite(orig string, indent shape.Indent, cfg *config.Config, doc bool) string {
	lines := strings.Split(orig, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") && len(trimmed) < len(line) {
			trimmed = " " + trimmed
		}
		lines[i] = trimEndUnlessLineBreak(trimmed, doc)
	}
	return strings.Join(lines, indent.StringWithNewline(cfg))
}

// trimEndUnlessLineBreak trims trailing whitespace but keeps the
// two-space Markdown line break of doc comments.
func trimEndUnlessLineBreak(s string, doc bool) string {
	trimmed := strings.TrimRight(s, " \t")
	if doc && len(s)-len(trimmed) == 2 && strings.HasSuffix(s, "  ") {
		return s
	}
	return trimmed
}

// hasBareLines reports whether a block comment has continuation lines that
// do not start with `*`.
func hasBareLines(orig string) bool {
	lines := strings.Split(orig, "\n")
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed != "" && !strings.HasPrefix(trimmed, "*") {
			return true
		}
	}
	return false
}

// trimLeftPreserveLayout re-indents the lines of a block comment keeping
// their indentation relative to each other.
func trimLeftPreserveLayout(orig string, indent shape.Indent, cfg *config.Config) string {
	lines := strings.Split(orig, "\n")
	minIndent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w := leadingWidth(line, cfg.TabSpaces)
		if minIndent < 0 || w < minIndent {
			minIndent = w
		}
	}
	prefix := indent.String(cfg)
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(lines[0], " \t"))
	for _, line := range lines[1:] {
		sb.WriteByte('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		sb.WriteString(prefix)
		sb.WriteString(strings.Repeat(" ", leadingWidth(line, cfg.TabSpaces)-minIndent))
		sb.WriteString(trimmed)
	}
	return sb.String()
}

func leadingWidth(line string, tabSpaces int) int {
	trimmed := strings.TrimLeft(line, " \t")
	return shape.DisplayWidth(line[:len(line)-len(trimmed)], tabSpaces)
}

// wrapLines breaks lines wider than width at spaces. The remainder of a
// broken line flows into the following line when that line continues the
// same paragraph. Fenced code blocks and structural Markdown lines are left
// alone.
func wrapLines(lines []string, width int) []string {
	lines = append([]string(nil), lines...)
	out := make([]string, 0, len(lines))
	inFence := false
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence || !isPlainText(line) || shape.TextWidth(line) <= width {
			out = append(out, line)
			continue
		}
		for shape.TextWidth(line) > width {
			cut := breakPoint(line, width)
			if cut < 0 {
				break
			}
			out = append(out, strings.TrimRight(line[:cut], " "))
			line = strings.TrimLeft(line[cut:], " ")
			if i+1 < len(lines) && isPlainText(lines[i+1]) && !strings.HasPrefix(strings.TrimSpace(lines[i+1]), "```") {
				lines[i+1] = line + " " + strings.TrimLeft(lines[i+1], " ")
				line = ""
				break
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// breakPoint returns the offset of the last space at which line can be
// broken within width, the first space when the first word is already too
// wide, or -1 when the line has no space.
func breakPoint(line string, width int) int {
	last := -1
	for i := 1; i < len(line); i++ {
		if line[i] != ' ' {
			continue
		}
		if shape.TextWidth(line[:i]) > width {
			if last < 0 {
				return i
			}
			return last
		}
		last = i
	}
	return last
}

// isPlainText reports whether line is paragraph text that may be reflowed.
func isPlainText(line string) bool {
	if strings.HasPrefix(line, "    ") {
		return false
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '-', '*', '+', '#', '>', '|', '`', '@':
		return false
	}
	digits := strings.TrimLeft(trimmed, "0123456789")
	if len(digits) < len(trimmed) && (strings.HasPrefix(digits, ".") || strings.HasPrefix(digits, ")")) {
		return false
	}
	return true
}
