package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// rewritePatAt renders a pattern that follows prefixLen columns of text
// and is followed by suffixLen more, as in `let pat =`.
func rewritePatAt(ctx *RewriteContext, p syntax.Pat, sh shape.Shape, prefixLen, suffixLen int) (string, bool) {
	s, ok := sh.OffsetLeft(prefixLen)
	if ok {
		s, ok = s.SubWidth(suffixLen)
	}
	if !ok {
		return "", false
	}
	return rewritePat(ctx, p, s)
}

func rewritePat(ctx *RewriteContext, p syntax.Pat, sh shape.Shape) (string, bool) {
	switch x := p.(type) {
	case *syntax.WildPat:
		return wrapStr(ctx, "_", sh)
	case *syntax.RestPat:
		return wrapStr(ctx, "..", sh)
	case *syntax.IdentPat:
		return rewriteIdentPat(ctx, x, sh)
	case *syntax.LitPat:
		return rewriteExpr(ctx, x.X, sh)
	case *syntax.RangePat:
		return rewriteRangePat(ctx, x, sh)
	case *syntax.RefPat:
		prefix := "&"
		if x.Mut {
			prefix = "&mut "
		}
		return rewritePatPrefix(ctx, prefix, x.Pat, sh)
	case *syntax.BoxPat:
		return rewritePatPrefix(ctx, "box ", x.Pat, sh)
	case *syntax.ParenPat:
		inner, ok := sh.OffsetLeft(1)
		if ok {
			inner, ok = inner.SubWidth(1)
		}
		if !ok {
			return "", false
		}
		text, ok := rewritePat(ctx, x.Pat, inner)
		if !ok {
			return "", false
		}
		return "(" + text + ")", true
	case *syntax.TuplePat:
		single := len(x.Elems) == 1
		if single {
			_, isRest := x.Elems[0].(*syntax.RestPat)
			single = !isRest
		}
		return rewriteDelimited(ctx, "", patList(ctx, x.Elems, x.Sp), delimOpts{
			open: "(", close: ")", maxWidth: ctx.Config.MaxWidth, forceSingleTrailing: single,
		}, sh)
	case *syntax.SlicePat:
		return rewriteDelimited(ctx, "", patList(ctx, x.Elems, x.Sp), delimOpts{
			open: "[", close: "]", maxWidth: ctx.Widths.Array,
		}, sh)
	case *syntax.PathPat:
		return rewritePath(ctx, x.QSelf, x.Path, sh)
	case *syntax.TupleStructPat:
		path, ok := rewritePath(ctx, nil, x.Path, sh)
		if !ok {
			return "", false
		}
		span := syntax.Sp(x.Path.Sp.Hi, x.Sp.Hi)
		return rewriteDelimited(ctx, path, patList(ctx, x.Elems, span), delimOpts{
			open: "(", close: ")", maxWidth: ctx.Config.MaxWidth,
		}, sh)
	case *syntax.StructPat:
		return rewriteStructPat(ctx, x, sh)
	case *syntax.OrPat:
		return rewriteOrPat(ctx, x, sh)
	case *syntax.MacPat:
		return rewriteMacro(ctx, x.Mac, macroPatPos, sh)
	}
	return "", false
}

func rewritePatPrefix(ctx *RewriteContext, prefix string, p syntax.Pat, sh shape.Shape) (string, bool) {
	inner, ok := sh.OffsetLeft(len(prefix))
	if !ok {
		return "", false
	}
	text, ok := rewritePat(ctx, p, inner)
	if !ok {
		return "", false
	}
	return prefix + text, true
}

func rewriteIdentPat(ctx *RewriteContext, x *syntax.IdentPat, sh shape.Shape) (string, bool) {
	name := ""
	if x.ByRef {
		name += "ref "
	}
	if x.Mut {
		name += "mut "
	}
	name += x.Name.Name
	if x.Sub == nil {
		return wrapStr(ctx, name, sh)
	}
	return rewritePatPrefix(ctx, name+" @ ", x.Sub, sh)
}

func rewriteRangePat(ctx *RewriteContext, r *syntax.RangePat, sh shape.Shape) (string, bool) {
	sep := r.Limits
	if ctx.Config.SpacesAroundRanges {
		sep = " " + sep + " "
	}
	var lo, hi string
	if r.Lo != nil {
		text, ok := rewriteExpr(ctx, r.Lo, sh)
		if !ok {
			return "", false
		}
		lo = text
	}
	if r.Hi != nil {
		rest, ok := sh.OffsetLeft(shape.TextWidth(lo) + len(sep))
		if !ok {
			return "", false
		}
		text, ok := rewriteExpr(ctx, r.Hi, rest)
		if !ok {
			return "", false
		}
		hi = text
	}
	text := strings.TrimSpace(lo + sep + hi)
	if r.Lo != nil && r.Hi == nil {
		text = lo + strings.TrimRight(sep, " ")
	}
	return wrapStr(ctx, text, sh)
}

// rewriteOrPat renders alternatives on one line when they fit, otherwise
// one per line with `|` placed as binop_separator says.
func rewriteOrPat(ctx *RewriteContext, o *syntax.OrPat, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	for i := 1; i < len(o.Alts); i++ {
		gap := ctx.snippet(syntax.Sp(o.Alts[i-1].Span().Hi, o.Alts[i].Span().Lo))
		if comment.ContainsComment(gap) {
			return "", false
		}
	}
	alts := make([]string, len(o.Alts))
	oneLine := true
	for i, alt := range o.Alts {
		text, ok := rewritePat(ctx, alt, sh)
		if !ok {
			return "", false
		}
		alts[i] = text
		if shape.IsMultiline(text) {
			oneLine = false
		}
	}
	if joined := strings.Join(alts, " | "); oneLine && shape.TextWidth(joined) <= sh.Width {
		return joined, true
	}

	newline := sh.Indent.StringWithNewline(cfg)
	var sb strings.Builder
	for i, alt := range alts {
		switch {
		case i == 0:
		case cfg.BinopSeparator == config.SeparatorFront:
			sb.WriteString(newline + "| ")
		default:
			sb.WriteString(" |" + newline)
		}
		sb.WriteString(alt)
	}
	return sb.String(), true
}

func patList(ctx *RewriteContext, pats []syntax.Pat, span syntax.Span) delimited[syntax.Pat] {
	return delimited[syntax.Pat]{
		items: pats,
		span:  span,
		render: func(p syntax.Pat, sh shape.Shape) (string, bool) {
			return rewritePat(ctx, p, sh)
		},
		overflow: func(p syntax.Pat, count int) bool { return count == 1 && canOverflowPat(p) },
		simple:   isSimplePat,
	}
}

func canOverflowPat(p syntax.Pat) bool {
	switch x := p.(type) {
	case *syntax.StructPat, *syntax.TupleStructPat, *syntax.TuplePat, *syntax.SlicePat:
		return true
	case *syntax.RefPat:
		return canOverflowPat(x.Pat)
	case *syntax.BoxPat:
		return canOverflowPat(x.Pat)
	}
	return false
}

func isSimplePat(p syntax.Pat) bool {
	switch x := p.(type) {
	case *syntax.WildPat, *syntax.RestPat, *syntax.LitPat:
		return true
	case *syntax.IdentPat:
		return x.Sub == nil
	case *syntax.PathPat:
		return x.QSelf == nil && len(x.Path.Segments) <= 1
	case *syntax.RefPat:
		return isSimplePat(x.Pat)
	}
	return false
}

// rewriteStructPat renders `Path { a, b: c, .. }`.
func rewriteStructPat(ctx *RewriteContext, p *syntax.StructPat, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	pathShape, ok := sh.SubWidth(2)
	if !ok {
		return "", false
	}
	path, ok := rewritePath(ctx, nil, p.Path, pathShape)
	if !ok {
		return "", false
	}
	ellipsis := p.Rest != nil
	if len(p.Fields) == 0 && !ellipsis {
		return path + " {}", true
	}
	if len(p.Fields) == 0 && !comment.ContainsComment(ctx.snippet(syntax.Sp(p.Path.Sp.Hi, p.Sp.Hi))) {
		return path + " { .. }", true
	}

	suffix := 2
	if ellipsis {
		suffix += len(", ..")
	}
	hShape, hasH, vShape := lists.StructLitShape(sh, cfg, shape.TextWidth(path)+3, suffix)
	bodyLo := p.Path.Sp.Hi + strings.Index(ctx.snippet(syntax.Sp(p.Path.Sp.Hi, p.Sp.Hi)), "{") + 1
	end := p.Sp.Hi - 1
	terminator := "}"
	if ellipsis {
		end = p.Rest.Sp.Lo
		terminator = ".."
	}
	items := lists.Itemize(lists.Source[*syntax.FieldPat]{
		File:       ctx.File,
		Items:      p.Fields,
		Separator:  ",",
		Terminator: terminator,
		Lo:         func(f *syntax.FieldPat) int { return attrsLo(f.Attrs, f.Sp.Lo) },
		Hi:         spanHi[*syntax.FieldPat],
		Render: func(f *syntax.FieldPat) (string, bool) {
			return rewriteFieldPat(ctx, f, vShape)
		},
		Start: bodyLo,
		End:   end,
	})
	tactic := lists.StructLitTactic(hShape, hasH, cfg, items)
	nested := lists.ShapeForTactic(tactic, hShape, vShape)
	f := lists.StructLitFormatting(nested, tactic, cfg, false)
	fields, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}
	oneLineWidth := 0
	if hasH {
		oneLineWidth = hShape.Width
	}
	if ellipsis {
		trailing := cfg.TrailingComma == config.TrailingAlways ||
			(cfg.TrailingComma == config.TrailingVertical && tactic == lists.Vertical)
		switch {
		case shape.IsMultiline(fields) || shape.TextWidth(fields) > oneLineWidth:
			if !trailing {
				fields += ","
			}
			fields += nested.Indent.StringWithNewline(cfg)
		case fields != "" && trailing:
			fields += " "
		case fields != "":
			fields += ", "
		}
		fields += ".."
	}
	return path + " {" + wrapStructFields(ctx, fields, sh, vShape, oneLineWidth) + "}", true
}

func rewriteFieldPat(ctx *RewriteContext, f *syntax.FieldPat, sh shape.Shape) (string, bool) {
	if hasSkipAttr(f.Attrs) {
		checkAttrs(ctx, f.Attrs)
		text := ctx.snippet(syntax.Sp(attrsLo(f.Attrs, f.Sp.Lo), f.Sp.Hi))
		ctx.markVerbatim(text)
		return text, true
	}
	attrs := rewriteOuterAttrs(ctx, f.Attrs, sh, false)
	if f.Shorthand {
		text, ok := rewritePat(ctx, f.Pat, sh)
		if !ok {
			return "", false
		}
		return attrs + text, true
	}
	text, ok := rewritePatPrefix(ctx, f.Name.Name+": ", f.Pat, sh)
	if !ok {
		return "", false
	}
	return attrs + text, true
}

// wrapStructFields puts the fields between braces, on the brace line with
// surrounding spaces or on their own block-indented lines.
func wrapStructFields(ctx *RewriteContext, fields string, sh, nested shape.Shape, oneLineWidth int) string {
	cfg := ctx.Config
	vertical := shape.IsMultiline(fields) || !cfg.StructLitSingleLine || shape.TextWidth(fields) > oneLineWidth
	if vertical {
		return nested.Indent.StringWithNewline(cfg) + fields + sh.Indent.StringWithNewline(cfg)
	}
	return " " + fields + " "
}
