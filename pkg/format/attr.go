package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// toolNames are the attribute namespaces the formatter answers to.
//
//nolint:gochecknoglobals // Static lookup table.
var toolNames = map[string]bool{"rsfmt": true, "rustfmt": true}

// metaPath renders the path of a meta item.
func metaPath(m *syntax.MetaItem) string {
	if m == nil || m.Path == nil {
		return ""
	}
	var sb strings.Builder
	if m.Path.Global {
		sb.WriteString("::")
	}
	for i, seg := range m.Path.Segments {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(seg.Name.Name)
	}
	return sb.String()
}

// toolAttr splits `rsfmt::a::b` into ["a", "b"]. ok is false for
// attributes outside the formatter namespaces.
func toolAttr(attr *syntax.Attribute) ([]string, bool) {
	if attr.Meta == nil || attr.Meta.Path == nil || attr.Meta.Path.Global {
		return nil, false
	}
	segs := attr.Meta.Path.Segments
	if len(segs) < 2 || !toolNames[segs[0].Name.Name] {
		return nil, false
	}
	rest := make([]string, 0, len(segs)-1)
	for _, seg := range segs[1:] {
		rest = append(rest, seg.Name.Name)
	}
	return rest, true
}

func isSkipAttr(attr *syntax.Attribute) bool {
	if attr.Meta == nil || attr.Meta.Kind != syntax.MetaWord {
		return false
	}
	switch metaPath(attr.Meta) {
	case "rsfmt_skip", "rustfmt_skip":
		return true
	}
	rest, ok := toolAttr(attr)
	return ok && len(rest) == 1 && rest[0] == "skip"
}

// hasSkipAttr reports whether attrs turn formatting off for their node.
func hasSkipAttr(attrs []*syntax.Attribute) bool {
	for _, attr := range attrs {
		if isSkipAttr(attr) {
			return true
		}
	}
	return false
}

// skipMacroNames collects the names listed by `#[rsfmt::skip::macros(...)]`.
func skipMacroNames(attrs []*syntax.Attribute) []string {
	var names []string
	for _, attr := range attrs {
		rest, ok := toolAttr(attr)
		if !ok || len(rest) != 2 || rest[0] != "skip" || rest[1] != "macros" || attr.Meta.Kind != syntax.MetaList {
			continue
		}
		for _, nested := range attr.Meta.Nested {
			if nested.Meta != nil && nested.Meta.Kind == syntax.MetaWord {
				names = append(names, metaPath(nested.Meta))
			}
		}
	}
	return names
}

// checkAttrs reports deprecated and unknown formatter attributes.
func checkAttrs(ctx *RewriteContext, attrs []*syntax.Attribute) {
	for _, attr := range attrs {
		if attr.Meta != nil {
			switch metaPath(attr.Meta) {
			case "rsfmt_skip", "rustfmt_skip":
				ctx.warn(report.DeprecatedAttr, attr.Sp.Lo, "`"+metaPath(attr.Meta)+"` is deprecated; use `rsfmt::skip`")
				continue
			}
		}
		rest, ok := toolAttr(attr)
		if !ok {
			continue
		}
		switch strings.Join(rest, "::") {
		case "skip", "skip::macros", "skip::attributes":
		default:
			ctx.warn(report.BadAttr, attr.Sp.Lo, "invalid attribute `"+metaPath(attr.Meta)+"`")
		}
	}
}

// rewriteAttr renders one attribute. Attributes whose body is not a plain
// meta item, or that do not fit, are reproduced as written.
func rewriteAttr(ctx *RewriteContext, attr *syntax.Attribute, sh shape.Shape) string {
	src := ctx.snippet(attr.Sp)
	if attr.Meta == nil {
		return src
	}
	prefix := "#["
	if attr.Inner {
		prefix = "#!["
	}
	inner, ok := sh.OffsetLeft(len(prefix))
	if ok {
		inner, ok = inner.SubWidth(1)
	}
	if !ok {
		return src
	}
	meta, ok := rewriteMeta(ctx, attr.Meta, inner)
	if !ok {
		return src
	}
	text := prefix + meta + "]"
	if comment.Changed(src, text) {
		return src
	}
	return text
}

func rewriteMeta(ctx *RewriteContext, m *syntax.MetaItem, sh shape.Shape) (string, bool) {
	path := metaPath(m)
	switch m.Kind {
	case syntax.MetaNameValue:
		if m.Value == nil {
			return "", false
		}
		return wrapStr(ctx, path+" = "+m.Value.Text, sh)
	case syntax.MetaList:
		opts := delimOpts{open: "(", close: ")", maxWidth: ctx.Widths.AttrFnLike, hasTrailing: true}
		if hasTrailingComma(ctx, m.ListSpan) {
			opts.trailing = lists.SeparatorAlways
		} else {
			opts.trailing = lists.SeparatorNever
		}
		return rewriteDelimited(ctx, path, delimited[*syntax.NestedMeta]{
			items: m.Nested,
			span:  m.ListSpan,
			render: func(n *syntax.NestedMeta, s shape.Shape) (string, bool) {
				if n.Meta != nil {
					return rewriteMeta(ctx, n.Meta, s)
				}
				return wrapStr(ctx, n.Lit.Text, s)
			},
		}, opts, sh)
	default:
		return wrapStr(ctx, path, sh)
	}
}

// hasTrailingComma reports whether the delimited list at span ends with a
// separator before its closing delimiter.
func hasTrailingComma(ctx *RewriteContext, span syntax.Span) bool {
	if span.Len() < 2 {
		return false
	}
	inner := comment.StripComments(ctx.snippet(syntax.Sp(span.Lo+1, span.Hi-1)))
	return strings.HasSuffix(strings.TrimSpace(inner), ",")
}

// rewriteOuterAttrs renders the attributes of a nested node (a field, a
// parameter, a match arm) followed by the separator that leads to the node
// itself: a space when sameLine is set, otherwise a newline at sh's indent.
func rewriteOuterAttrs(ctx *RewriteContext, attrs []*syntax.Attribute, sh shape.Shape, sameLine bool) string {
	if len(attrs) == 0 {
		return ""
	}
	checkAttrs(ctx, attrs)
	sep := sh.Indent.StringWithNewline(ctx.Config)
	if sameLine {
		sep = " "
	}
	var sb strings.Builder
	for _, attr := range attrs {
		sb.WriteString(rewriteAttr(ctx, attr, sh))
		sb.WriteString(sep)
	}
	return sb.String()
}
