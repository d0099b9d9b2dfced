package format

import (
	"slices"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

type reorderKind uint8

const (
	reorderNone reorderKind = iota
	reorderUse
	reorderExternCrate
	reorderMod
)

func itemReorderKind(cfg *config.Config, item syntax.Item) reorderKind {
	attrs := item.Base().Attrs
	if hasSkipAttr(attrs) {
		return reorderNone
	}
	switch it := item.(type) {
	case *syntax.UseItem:
		if cfg.ReorderImports {
			return reorderUse
		}
	case *syntax.ExternCrateItem:
		if cfg.ReorderImports && !hasMacroUse(attrs) {
			return reorderExternCrate
		}
	case *syntax.ModItem:
		if cfg.ReorderModules && !it.Inline {
			return reorderMod
		}
	}
	return reorderNone
}

// hasMacroUse reports `#[macro_use]`, whose position among extern crates
// changes which macros are in scope.
func hasMacroUse(attrs []*syntax.Attribute) bool {
	for _, attr := range attrs {
		if attr.Meta != nil && metaPath(attr.Meta) == "macro_use" {
			return true
		}
	}
	return false
}

// reorderRunLen is the length of the run of reorderable items of one kind
// that starts items. A blank line or a comment between two items ends the
// run.
func (v *FmtVisitor) reorderRunLen(items []syntax.Item) int {
	if len(items) == 0 {
		return 0
	}
	kind := itemReorderKind(v.ctx.Config, items[0])
	if kind == reorderNone {
		return 0
	}
	n := 1
	for n < len(items) && itemReorderKind(v.ctx.Config, items[n]) == kind {
		gap := v.ctx.snippet(syntax.Sp(items[n-1].Span().Hi, items[n].Span().Lo))
		if comment.ContainsComment(gap) || strings.Count(gap, "\n") > 1 {
			break
		}
		n++
	}
	return n
}

// visitReorderRun emits a run of items sorted, one per line. Attributes
// move with their item. When an item cannot be rendered the run is
// visited in source order instead.
func (v *FmtVisitor) visitReorderRun(items []syntax.Item) {
	type entry struct {
		item syntax.Item
		text string
	}
	sh := shape.Indented(v.indent, v.ctx.Config)
	entries := make([]entry, 0, len(items))
	for _, item := range items {
		text, ok := v.renderWithAttrs(item, sh)
		if !ok {
			for _, it := range items {
				v.visitItem(it)
			}
			return
		}
		entries = append(entries, entry{item: item, text: text})
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return compareReorderable(a.item, b.item)
	})

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.text
	}
	v.formatMissingWithIndent(items[0].Span().Lo)
	v.pushRewrite(strings.Join(texts, v.indent.StringWithNewline(v.ctx.Config)))
	v.lastPos = items[len(items)-1].Span().Hi
}

// renderWithAttrs renders item preceded by its outer attributes, refusing
// when a comment inside it would be lost.
func (v *FmtVisitor) renderWithAttrs(item syntax.Item, sh shape.Shape) (string, bool) {
	cfg := v.ctx.Config
	attrs := item.Base().Attrs
	span := item.Span()
	checkAttrs(v.ctx, attrs)
	var sb strings.Builder
	for _, attr := range attrs {
		sb.WriteString(rewriteAttr(v.ctx, attr, sh))
		sb.WriteString(v.indent.StringWithNewline(cfg))
	}
	lo := span.Lo
	if len(attrs) > 0 {
		lo = v.codeStart(attrs[len(attrs)-1].Sp.Hi, span.Hi)
	}
	text, ok := rewriteItem(v.ctx, item, lo, sh)
	if !ok {
		return "", false
	}
	sb.WriteString(text)
	if comment.Changed(v.ctx.snippet(span), sb.String()) {
		return "", false
	}
	return sb.String(), true
}

func compareReorderable(a, b syntax.Item) int {
	switch x := a.(type) {
	case *syntax.UseItem:
		if y, ok := b.(*syntax.UseItem); ok {
			if c := compareUseTrees(x.Tree, y.Tree); c != 0 {
				return c
			}
			return strings.Compare(visibilityStr(x.Vis), visibilityStr(y.Vis))
		}
	case *syntax.ExternCrateItem, *syntax.ModItem:
		return versionCompare(a.Base().Name.Name, b.Base().Name.Name)
	}
	return 0
}
