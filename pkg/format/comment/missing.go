package comment

import (
	"slices"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
)

// RecoverMissingComment rewrites the comments found in gap, a stretch of
// source text between two rendered pieces. Code such as separators is
// ignored. The result is empty when gap holds no comment.
func RecoverMissingComment(gap string, sh shape.Shape, cfg *config.Config) (string, bool) {
	var parts []string
	var sb strings.Builder
	pending := ""
	for _, slice := range Slices(gap) {
		if slice.Kind == SliceCode {
			if len(parts) > 0 {
				pending = whitespaceOnly(slice.Text)
			}
			continue
		}
		if len(parts) > 0 {
			sb.WriteString(pending)
		}
		sb.WriteString(slice.Text)
		parts = append(parts, slice.Text)
	}
	if len(parts) == 0 {
		return "", true
	}
	return Rewrite(sb.String(), false, sh, cfg)
}

// whitespaceOnly keeps the line structure of s: its newlines, or a single
// space when s has none.
func whitespaceOnly(s string) string {
	if n := strings.Count(s, "\n"); n > 0 {
		return strings.Repeat("\n", n)
	}
	return " "
}

// CombineWithMissingComments joins prev and next, re-emitting the comments
// of gap, the source text between them. Layout of the original is kept
// where possible: a comment that started on the same line as prev stays
// there, and pieces are joined on one line when allowExtend is set and the
// result fits.
func CombineWithMissingComments(
	prev, next, gap string,
	sh shape.Shape,
	cfg *config.Config,
	allowExtend bool,
) (string, bool) {
	var sb strings.Builder
	sb.WriteString(prev)

	allowOneLine := !shape.IsMultiline(prev) && !shape.IsMultiline(next)
	firstSep := " "
	if prev == "" || next == "" || shape.TrimmedLastLineWidth(prev) == 0 {
		firstSep = ""
	}
	oneLineWidth := shape.LastLineWidth(prev) + shape.FirstLineWidth(next) + len(firstSep)
	newline := sh.Indent.StringWithNewline(cfg)

	missing, ok := RecoverMissingComment(gap, sh, cfg)
	if !ok {
		return "", false
	}
	if missing == "" {
		switch {
		case allowExtend && oneLineWidth <= sh.Width:
			sb.WriteString(firstSep)
		case prev != "":
			sb.WriteString(newline)
		}
		sb.WriteString(next)
		return sb.String(), true
	}

	preferSameLine := !strings.Contains(gap, "\n")
	if pos := strings.IndexByte(gap, '/'); pos >= 0 {
		preferSameLine = !strings.Contains(gap[:pos], "\n")
	}

	oneLineWidth -= len(firstSep)
	firstSep = ""
	if prev != "" {
		width := shape.LastLineWidth(prev) + shape.FirstLineWidth(missing) + 1
		if preferSameLine && width <= sh.Width {
			firstSep = " "
		} else {
			firstSep = newline
		}
	}
	sb.WriteString(firstSep)
	sb.WriteString(missing)

	if next != "" {
		oneLineWidth += shape.TextWidth(missing) + len(firstSep) + 1
		lineComment := LastLineIsLineComment(missing)
		allowOneLine = allowOneLine && !lineComment && !shape.IsMultiline(missing)
		if !lineComment && preferSameLine && allowOneLine && oneLineWidth <= sh.Width {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(newline)
		}
		sb.WriteString(next)
	}
	return sb.String(), true
}

// Changed reports whether the comments of rewritten differ in content from
// the comments of orig. Delimiters, line prefixes, whitespace and line
// breaks are not content.
func Changed(orig, rewritten string) bool {
	return !slices.Equal(commentWords(orig), commentWords(rewritten))
}

func commentWords(s string) []string {
	var words []string
	for _, c := range Comments(s) {
		for _, line := range commentBody(c) {
			words = append(words, strings.Fields(line)...)
		}
	}
	return words
}
