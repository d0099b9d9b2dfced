package lists

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// Source describes a list in the source file to be itemized.
type Source[T any] struct {
	File  *syntax.File
	Items []T

	// Separator sits between items; Terminator closes the list, e.g. ")".
	Separator  string
	Terminator string

	// Lo and Hi give the source span of an item, attributes included.
	Lo func(T) int
	Hi func(T) int

	// Render formats one item. A false result marks the item refused.
	Render func(T) (string, bool)

	// Start is the offset just after the opening delimiter and End the
	// offset of the closing one.
	Start int
	End   int

	// LeaveLast keeps the last item unrendered; its comments are still
	// collected.
	LeaveLast bool
}

// Itemize walks the items in source order, rendering each and collecting
// the comments between it and its neighbours.
func Itemize[T any](src Source[T]) []ListItem {
	out := make([]ListItem, 0, len(src.Items))
	prevEnd := src.Start
	for i, item := range src.Items {
		isLast := i == len(src.Items)-1

		pre := src.File.Snippet(syntax.Sp(prevEnd, src.Lo(item)))
		preComment, style := ExtractPreComment(pre)

		nextStart := src.End
		if !isLast {
			nextStart = src.Lo(src.Items[i+1])
		}
		post := src.File.Snippet(syntax.Sp(src.Hi(item), nextStart))
		end := postCommentEnd(post, src.Separator, src.Terminator, isLast)

		li := ListItem{
			PreComment:      preComment,
			PreCommentStyle: style,
			PostComment:     ExtractPostComment(post, end, src.Separator, isLast),
			NewLines:        hasExtraNewline(post, end),
		}
		if !isLast || !src.LeaveLast {
			text, ok := src.Render(item)
			li.Item = text
			li.Refused = !ok
		}
		out = append(out, li)
		prevEnd = src.Hi(item) + end
	}
	return out
}

// ExtractPreComment returns the comment found before an item and where it
// sits. A comment ending on the item's line stays SameLine.
func ExtractPreComment(pre string) (string, CommentStyle) {
	trimmed := strings.TrimSpace(pre)
	switch {
	case strings.HasSuffix(trimmed, "*/"):
		end := strings.LastIndexByte(pre, '/')
		if strings.Contains(pre[end:], "\n") {
			return trimmed, DifferentLine
		}
		return trimmed, SameLine
	case strings.HasPrefix(trimmed, "//"), strings.HasPrefix(trimmed, "/*"):
		return trimmed, DifferentLine
	default:
		return "", NoComment
	}
}

// ExtractPostComment returns the comment in post[:end] that belongs to the
// item before it, with the separator stripped.
func ExtractPostComment(post string, end int, sep string, isLast bool) string {
	const blanks = " \t"
	post = strings.TrimSpace(post[:end])

	lastLineCommentEndsWithSep := false
	if isLast && post != "" {
		lines := strings.Split(post, "\n")
		line := lines[len(lines)-1]
		lastLineCommentEndsWithSep = strings.HasSuffix(line, sep) &&
			strings.HasPrefix(strings.TrimLeft(line, blanks), "//")
	}

	trimmed := post
	switch {
	case strings.HasPrefix(post, ","), strings.HasPrefix(post, ":"):
		trimmed = strings.Trim(post[1:], blanks)
	case sep != "" && strings.HasPrefix(post, sep):
		trimmed = strings.Trim(post[len(sep):], blanks)
	case lastLineCommentEndsWithSep:
		trimmed = strings.Trim(post, blanks)
	case strings.HasSuffix(post, ",") && (!strings.HasPrefix(post, "//") || strings.Contains(post, "\n")):
		trimmed = strings.Trim(post[:len(post)-1], blanks)
	}

	body := strings.TrimSpace(trimmed)
	if strings.HasPrefix(body, "//") || strings.HasPrefix(body, "/*") {
		return trimmed
	}
	return ""
}

// postCommentEnd finds where the comments trailing an item stop and those
// of the next item begin.
func postCommentEnd(post, sep, term string, isLast bool) int {
	if isLast {
		if term != "" {
			if idx := comment.FindUncommented(post, term); idx >= 0 {
				return idx
			}
		}
		return len(post)
	}

	blockOpen := strings.Index(post, "/*")
	if blockOpen >= 0 {
		if slash := strings.IndexByte(post, '/'); slash < blockOpen || strings.HasSuffix(post[:blockOpen], "/") {
			blockOpen = -1
		}
	}
	newline := strings.IndexByte(post, '\n')

	sepIdx := -1
	if sep != "" {
		sepIdx = comment.FindUncommented(post, sep)
	}
	if sepIdx < 0 {
		if newline >= 0 {
			return newline + 1
		}
		return 0
	}

	afterSep := sepIdx + len(sep)
	switch {
	case blockOpen >= 0 && newline < 0 && blockOpen > sepIdx:
		// Separator first: the block comment belongs to the next item.
		return afterSep
	case blockOpen >= 0 && (newline < 0 || blockOpen < newline):
		return max(blockOpen+comment.CommentEnd(post[blockOpen:]), afterSep)
	case newline > sepIdx:
		return newline + 1
	default:
		return len(post)
	}
}

// hasExtraNewline reports whether a blank line separates the item's trailing
// comments from the next item.
func hasExtraNewline(post string, end int) bool {
	if post == "" || end == 0 {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(post[:end])
	rest := post[end-size:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return false
	}
	rest = rest[nl:]
	if first := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsSpace(r) }); first >= 0 {
		rest = rest[:first]
	}
	return strings.Count(rest, "\n") > 1
}
