// Package lists lays out separated sequences such as call arguments,
// struct fields, enum variants and import lists, keeping the comments found
// between the items.
package lists

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
)

type tacticKind uint8

const (
	horizontal tacticKind = iota
	horizontalVertical
	limitedHorizontalVertical
	vertical
	mixed
)

// Tactic is a list layout strategy.
type Tactic struct {
	kind  tacticKind
	limit int
}

// Tactics. HorizontalVertical tries one line and falls back to one item
// per line; Mixed packs items greedily like wrapped text.
//
//nolint:gochecknoglobals // Comparable tactic values.
var (
	Horizontal         = Tactic{kind: horizontal}
	HorizontalVertical = Tactic{kind: horizontalVertical}
	Vertical           = Tactic{kind: vertical}
	Mixed              = Tactic{kind: mixed}
)

// LimitedHorizontalVertical is HorizontalVertical with the one-line width
// capped at limit.
func LimitedHorizontalVertical(limit int) Tactic {
	return Tactic{kind: limitedHorizontalVertical, limit: limit}
}

func (t Tactic) String() string {
	switch t.kind {
	case horizontal:
		return "Horizontal"
	case horizontalVertical:
		return "HorizontalVertical"
	case limitedHorizontalVertical:
		return "LimitedHorizontalVertical"
	case vertical:
		return "Vertical"
	default:
		return "Mixed"
	}
}

// SeparatorTactic is the trailing separator policy.
type SeparatorTactic uint8

const (
	SeparatorAlways SeparatorTactic = iota
	SeparatorNever
	SeparatorVertical
)

// TrailingFromConfig maps the trailing_comma option.
func TrailingFromConfig(tc config.TrailingComma) SeparatorTactic {
	switch tc {
	case config.TrailingAlways:
		return SeparatorAlways
	case config.TrailingNever:
		return SeparatorNever
	default:
		return SeparatorVertical
	}
}

// SeparatorPlace puts separators at the end of an item or in front of the
// next one.
type SeparatorPlace uint8

const (
	Back SeparatorPlace = iota
	Front
)

// PlaceFromConfig maps the binop_separator option.
func PlaceFromConfig(p config.SeparatorPlace) SeparatorPlace {
	if p == config.SeparatorBack {
		return Back
	}
	return Front
}

// SepLen is the width a separator takes between two items on one line:
// ", " for commas and " | " for operators.
func SepLen(sep string) int {
	switch sep {
	case "":
		return 1
	case ",", ";":
		return len(sep) + 1
	default:
		return len(sep) + 2
	}
}

// CommentStyle is where a pre-comment sits relative to its item.
type CommentStyle uint8

const (
	NoComment CommentStyle = iota
	SameLine
	DifferentLine
)

// ListItem is one element of a list with the comments attached to it.
type ListItem struct {
	PreComment      string
	PreCommentStyle CommentStyle
	// Item is the rendered element; Refused marks a rendering failure.
	Item    string
	Refused bool
	// PostComment is a trailing comment on the same line, or the comments
	// between the last item and the closing delimiter.
	PostComment string
	// NewLines is set when a blank line followed the item in the source.
	NewLines bool
}

// FromString is an item without comments.
func FromString(s string) ListItem {
	return ListItem{Item: s}
}

// IsMultiline reports whether the item or its comments span lines.
func (li ListItem) IsMultiline() bool {
	return strings.Contains(li.Item, "\n") ||
		strings.Contains(li.PreComment, "\n") ||
		strings.Contains(li.PostComment, "\n")
}

// HasSingleLineComment reports whether a comment of the item runs to the
// end of the line.
func (li ListItem) HasSingleLineComment() bool {
	return comment.IsLineComment(li.PreComment) || comment.IsLineComment(li.PostComment)
}

// HasComment reports whether the item carries any comment.
func (li ListItem) HasComment() bool {
	return li.PreComment != "" || li.PostComment != ""
}

func (li ListItem) isSubstantial() bool {
	return li.PreComment != "" || li.Item != "" || li.PostComment != ""
}

// commentLen is the width of a comment placed inline as ` /* .. */`.
func commentLen(c string) int {
	n := shape.TextWidth(strings.TrimSpace(c))
	if n > 0 {
		return n + 6
	}
	return 0
}

// TotalItemWidth is the one-line width of an item with its comments.
func TotalItemWidth(li ListItem) int {
	return commentLen(li.PreComment) + commentLen(li.PostComment) + shape.TextWidth(li.Item)
}

// Total is the summed one-line width of the items, without separators.
func Total(items []ListItem) int {
	total := 0
	for _, li := range items {
		total += TotalItemWidth(li)
	}
	return total
}

// OneLineWidth is the width of the items laid out on one line with sep.
func OneLineWidth(items []ListItem, sep string) int {
	if len(items) == 0 {
		return 0
	}
	return Total(items) + SepLen(sep)*(len(items)-1)
}

// DefinitiveTactic resolves tactic for items laid out in width. A comment
// that runs to the end of a line or sits on its own line forces Vertical.
// Otherwise the items go on one line when they fit and none spans lines;
// Mixed stays Mixed, anything else falls back to Vertical.
func DefinitiveTactic(items []ListItem, tactic Tactic, sep string, width int) Tactic {
	for _, li := range items {
		if li.HasSingleLineComment() || li.PreCommentStyle == DifferentLine {
			return Vertical
		}
	}

	limit := width
	switch tactic.kind {
	case horizontal:
		return Horizontal
	case vertical:
		return Vertical
	case limitedHorizontalVertical:
		limit = min(width, tactic.limit)
	}

	if OneLineWidth(items, sep) <= limit && !anyMultiline(items) {
		return Horizontal
	}
	if tactic == Mixed {
		return Mixed
	}
	return Vertical
}

func anyMultiline(items []ListItem) bool {
	for _, li := range items {
		if li.IsMultiline() {
			return true
		}
	}
	return false
}

// Formatting configures WriteList.
type Formatting struct {
	Tactic         Tactic
	Separator      string
	Trailing       SeparatorTactic
	SeparatorPlace SeparatorPlace
	Shape          shape.Shape
	// EndsWithNewline is set when the closing delimiter goes on its own
	// line after the last item.
	EndsWithNewline bool
	// PreserveNewline keeps one blank line where the source had one between
	// items of a vertical list.
	PreserveNewline bool
	// Nested puts every path-like item of a Mixed list on its own line.
	Nested bool
	Config *config.Config
}

// NewFormatting returns the default formatting: horizontal, comma
// separated, no trailing separator.
func NewFormatting(sh shape.Shape, cfg *config.Config) Formatting {
	return Formatting{
		Tactic:          Horizontal,
		Separator:       ",",
		Trailing:        SeparatorNever,
		SeparatorPlace:  Back,
		Shape:           sh,
		EndsWithNewline: true,
		Config:          cfg,
	}
}

func (f Formatting) needsTrailingSeparator() bool {
	switch f.Trailing {
	case SeparatorAlways:
		return true
	case SeparatorVertical:
		return f.Tactic == Vertical
	default:
		return false
	}
}

// placeFor keeps commas at the end of items unless the list is vertical.
func placeFor(place SeparatorPlace, tactic Tactic, sep string) SeparatorPlace {
	if tactic == Vertical || sep != "," {
		return place
	}
	return Back
}

// WriteList renders items according to f. It fails when an item was
// refused or a comment cannot be rendered.
func WriteList(items []ListItem, f Formatting) (string, bool) {
	tactic := f.Tactic
	sepLen := len(f.Separator)
	place := placeFor(f.SeparatorPlace, tactic, f.Separator)
	trailing := f.needsTrailingSeparator()
	indent := f.Shape.Indent.String(f.Config)

	var sb strings.Builder
	lineLen := 0
	prevHadPostComment := false
	prevIsNestedPath := false

	for i, li := range items {
		if li.Refused {
			return "", false
		}
		first := i == 0
		last := i == len(items)-1

		separate := !first
		if place == Back {
			separate = !last || trailing
		}
		itemSepLen := 0
		if separate {
			itemSepLen = sepLen
		}

		if !li.isSubstantial() {
			continue
		}

		switch {
		case tactic == Horizontal && !first:
			sb.WriteByte(' ')
		case tactic == Vertical && !first && li.Item != "" && sb.Len() > 0:
			sb.WriteByte('\n')
			sb.WriteString(indent)
		case tactic == Mixed:
			total := TotalItemWidth(li) + itemSepLen
			if (lineLen > 0 && lineLen+1+total > f.Shape.Width) ||
				prevHadPostComment ||
				(f.Nested && (prevIsNestedPath || (!first && strings.Contains(li.Item, "::")))) {
				sb.WriteByte('\n')
				sb.WriteString(indent)
				lineLen = 0
				if f.EndsWithNewline {
					trailing = true
				}
			} else if lineLen > 0 {
				sb.WriteByte(' ')
				lineLen++
			}
			if last && f.EndsWithNewline {
				separate = f.Trailing != SeparatorNever
			}
			lineLen += total
		}

		if li.PreComment != "" {
			text, ok := comment.Rewrite(li.PreComment, tactic == Horizontal, f.Shape, f.Config)
			if !ok {
				return "", false
			}
			sb.WriteString(text)
			if li.Item != "" {
				if tactic == Vertical || tactic == Mixed {
					keep := !f.Config.NormalizeComments && li.PreCommentStyle != DifferentLine &&
						!comment.LastLineIsLineComment(text) &&
						TotalItemWidth(li)+itemSepLen+1 <= f.Shape.Width
					if keep {
						sb.WriteByte(' ')
					} else {
						sb.WriteByte('\n')
						sb.WriteString(indent)
						lineLen = shape.TextWidth(li.Item)
					}
				} else {
					sb.WriteByte(' ')
				}
			}
		}

		if separate && place == Front && !first {
			sb.WriteString(strings.TrimSpace(f.Separator))
			sb.WriteByte(' ')
		}
		sb.WriteString(li.Item)

		if tactic == Horizontal && li.PostComment != "" {
			text, ok := comment.Rewrite(li.PostComment, true, shape.Legacy(f.Shape.Width, shape.Empty()), f.Config)
			if !ok {
				return "", false
			}
			sb.WriteByte(' ')
			sb.WriteString(text)
		}

		if separate && place == Back {
			sb.WriteString(f.Separator)
		}

		if tactic != Horizontal && li.PostComment != "" {
			text, ok := comment.Rewrite(li.PostComment, false, f.Shape, f.Config)
			if !ok {
				return "", false
			}
			if startsWithNewline(li.PostComment) {
				sb.WriteByte('\n')
				sb.WriteString(indent)
			} else {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}

		if f.PreserveNewline && !last && tactic == Vertical && li.NewLines {
			sb.WriteByte('\n')
		}

		prevHadPostComment = li.PostComment != ""
		prevIsNestedPath = strings.Contains(li.Item, "::")
	}
	return sb.String(), true
}

func startsWithNewline(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "\n")
}
