package format

import (
	"slices"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func rewriteUse(ctx *RewriteContext, u *syntax.UseItem, sh shape.Shape) (string, bool) {
	head := visibilityStr(u.Vis) + "use "
	ts, ok := sh.OffsetLeft(len(head))
	if ok {
		ts, ok = ts.SubWidth(1)
	}
	if !ok {
		return "", false
	}
	tree, ok := rewriteUseTree(ctx, u.Tree, ts)
	if !ok {
		return "", false
	}
	return head + tree + ";", true
}

func usePrefix(t *syntax.UseTree) string {
	names := make([]string, len(t.Prefix))
	for i, id := range t.Prefix {
		names[i] = id.Name
	}
	s := strings.Join(names, "::")
	if t.Global {
		s = "::" + s
	}
	return s
}

// useJoin appends "::" to a non-empty prefix.
func useJoin(prefix string) string {
	if prefix == "" || prefix == "::" {
		return prefix
	}
	return prefix + "::"
}

// rewriteUseTree renders a use tree. A braced list with one entry is
// flattened into the path; longer lists are sorted when reorder_imports
// is set and wrapped onto block-indented lines when they do not fit.
func rewriteUseTree(ctx *RewriteContext, t *syntax.UseTree, sh shape.Shape) (string, bool) {
	prefix := usePrefix(t)
	switch t.Kind {
	case syntax.UseSimple:
		if t.Rename != nil {
			prefix += " as " + t.Rename.Name
		}
		return prefix, true
	case syntax.UseGlob:
		return useJoin(prefix) + "*", true
	}

	head := useJoin(prefix)
	src := ctx.snippet(t.Sp)
	open := comment.FindUncommented(src, "{")
	if open < 0 {
		return "", false
	}
	start := t.Sp.Lo + open + 1
	end := max(start, t.Sp.Hi-1)
	inner := ctx.snippet(syntax.Sp(start, end))
	hasComment := comment.ContainsComment(inner)
	if len(t.Children) == 0 && !hasComment {
		return head + "{}", true
	}
	if len(t.Children) == 1 && !hasComment && canFlattenUse(t.Children[0]) {
		cs, ok := sh.OffsetLeft(len(head))
		if !ok {
			return "", false
		}
		child, ok := rewriteUseTree(ctx, t.Children[0], cs)
		if !ok {
			return "", false
		}
		return head + child, true
	}
	return rewriteUseList(ctx, head, t.Children, start, end, sh)
}

func canFlattenUse(child *syntax.UseTree) bool {
	if child.Global {
		return false
	}
	isSelf := child.Kind == syntax.UseSimple && len(child.Prefix) == 1 && child.Prefix[0].Name == "self"
	return !isSelf
}

func rewriteUseList(ctx *RewriteContext, head string, children []*syntax.UseTree, start, end int, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	indent := sh.Indent.BlockOnly()
	nested, ok := shape.Indented(indent.BlockIndentBy(cfg), cfg).SubWidth(1)
	if !ok {
		return "", false
	}
	items := lists.Itemize(lists.Source[*syntax.UseTree]{
		File:       ctx.File,
		Items:      children,
		Separator:  ",",
		Terminator: "}",
		Lo:         spanLo[*syntax.UseTree],
		Hi:         spanHi[*syntax.UseTree],
		Render: func(c *syntax.UseTree) (string, bool) {
			return rewriteUseTree(ctx, c, nested)
		},
		Start: start,
		End:   end,
	})
	if cfg.ReorderImports {
		items = sortUseItems(children, items)
	}

	hasNested := false
	for _, c := range children {
		if c.Kind == syntax.UseNested && len(c.Children) > 1 {
			hasNested = true
		}
	}
	remaining := 0
	if !hasNested {
		remaining = max(0, sh.Width-shape.TextWidth(head)-2)
	}
	f := lists.NewFormatting(nested, cfg)
	f.Tactic = lists.DefinitiveTactic(items, lists.Mixed, ",", remaining)
	f.EndsWithNewline = f.Tactic != lists.Horizontal
	f.Trailing = lists.SeparatorNever
	if f.EndsWithNewline && cfg.TrailingComma != config.TrailingNever {
		f.Trailing = lists.SeparatorAlways
	}
	f.PreserveNewline = true
	f.Nested = hasNested
	list, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}
	if shape.IsMultiline(list) || shape.TextWidth(list) > remaining || f.Tactic == lists.Vertical {
		return head + "{" + nested.Indent.StringWithNewline(cfg) + list + indent.StringWithNewline(cfg) + "}", true
	}
	return head + "{" + list + "}", true
}

// sortUseItems orders the rendered entries of a use list, keeping each
// entry's comments with it.
func sortUseItems(children []*syntax.UseTree, items []lists.ListItem) []lists.ListItem {
	idx := make([]int, len(children))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return compareUseTrees(children[a], children[b])
	})
	out := make([]lists.ListItem, len(items))
	for i, j := range idx {
		out[i] = items[j]
		// Blank lines follow positions, not entries.
		out[i].NewLines = items[i].NewLines
	}
	return out
}

// useSegment is one step of a use path for ordering purposes.
type useSegment struct {
	rank int
	text string
}

const (
	segSelf = iota
	segSuper
	segCrate
	segIdent
	segGlob
	segList
)

func useSegments(t *syntax.UseTree) []useSegment {
	segs := make([]useSegment, 0, len(t.Prefix)+1)
	for _, id := range t.Prefix {
		rank := segIdent
		switch id.Name {
		case "self":
			rank = segSelf
		case "super":
			rank = segSuper
		case "crate":
			rank = segCrate
		}
		segs = append(segs, useSegment{rank: rank, text: id.Name})
	}
	switch t.Kind {
	case syntax.UseGlob:
		segs = append(segs, useSegment{rank: segGlob, text: "*"})
	case syntax.UseNested:
		segs = append(segs, useSegment{rank: segList, text: flatUseList(t)})
	case syntax.UseSimple:
	}
	return segs
}

func flatUseList(t *syntax.UseTree) string {
	parts := make([]string, len(t.Children))
	for i, c := range t.Children {
		parts[i] = flatUseTree(c)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func flatUseTree(t *syntax.UseTree) string {
	prefix := usePrefix(t)
	switch t.Kind {
	case syntax.UseGlob:
		return useJoin(prefix) + "*"
	case syntax.UseNested:
		return useJoin(prefix) + flatUseList(t)
	default:
		if t.Rename != nil {
			return prefix + " as " + t.Rename.Name
		}
		return prefix
	}
}

// compareUseTrees orders use trees segment by segment: `self`, `super`
// and `crate` first, then names in version order, then globs, then
// braced lists. A tree that is a prefix of another sorts first, and a
// plain import before a renamed one.
func compareUseTrees(a, b *syntax.UseTree) int {
	if a.Global != b.Global {
		if a.Global {
			return 1
		}
		return -1
	}
	sa, sb := useSegments(a), useSegments(b)
	for i := 0; i < len(sa) && i < len(sb); i++ {
		if sa[i].rank != sb[i].rank {
			if sa[i].rank < sb[i].rank {
				return -1
			}
			return 1
		}
		if c := versionCompare(sa[i].text, sb[i].text); c != 0 {
			return c
		}
	}
	switch {
	case len(sa) < len(sb):
		return -1
	case len(sa) > len(sb):
		return 1
	}
	switch {
	case a.Rename == nil && b.Rename == nil:
		return 0
	case a.Rename == nil:
		return -1
	case b.Rename == nil:
		return 1
	}
	return versionCompare(a.Rename.Name, b.Rename.Name)
}
