package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// delimOpts configures the layout of a delimited list such as call
// arguments, tuple elements or generic arguments.
type delimOpts struct {
	open, close string
	// maxWidth caps the width of the one-line layout.
	maxWidth int
	// trailing overrides the trailing_comma policy when set.
	trailing    lists.SeparatorTactic
	hasTrailing bool
	// forceSingleTrailing keeps a separator after a lone item, as in `(a,)`.
	forceSingleTrailing bool
	// mixed allows short simple items to be packed several per line.
	mixed bool
}

// delimited is the list behind a rewriteDelimited call.
type delimited[T syntax.Node] struct {
	items []T
	// span covers the list including its delimiters.
	span   syntax.Span
	render func(T, shape.Shape) (string, bool)
	// overflow reports whether the last item may spill over several lines
	// while the others stay on the opening line.
	overflow func(item T, count int) bool
	simple   func(T) bool
}

// rewriteDelimited lays out callee followed by a delimited list. The list
// goes on one line when it fits; otherwise its last item may overflow, and
// failing that every item goes on its own block-indented line.
func rewriteDelimited[T syntax.Node](
	ctx *RewriteContext,
	callee string,
	d delimited[T],
	opts delimOpts,
	sh shape.Shape,
) (string, bool) {
	cfg := ctx.Config
	src := ctx.snippet(d.span)
	openIdx := strings.Index(src, opts.open)
	if openIdx < 0 {
		openIdx = 0
	}
	start := d.span.Lo + openIdx + len(opts.open)
	end := max(start, d.span.Hi-len(opts.close))

	calleeWidth := shape.LastLineWidth(callee)
	if shape.IsMultiline(callee) {
		calleeWidth = max(0, calleeWidth-sh.UsedWidth())
	}
	delims := len(opts.open) + len(opts.close)
	oneLineWidth := max(0, sh.Width-calleeWidth-delims)
	oneLine, ok := sh.OffsetLeft(calleeWidth + len(opts.open))
	if ok {
		oneLine, ok = oneLine.SubWidth(len(opts.close))
	}
	if !ok {
		oneLine = shape.Shape{Indent: sh.Indent, Offset: sh.Offset}
	}
	nested := shape.Indented(sh.Indent.BlockOnly().BlockIndentBy(cfg), cfg)
	nested, _ = nested.SubWidth(1)

	if len(d.items) == 0 {
		return rewriteEmptyDelimited(ctx, callee, start, end, opts, sh, nested)
	}

	items := lists.Itemize(lists.Source[T]{
		File:       ctx.File,
		Items:      d.items,
		Separator:  ",",
		Terminator: opts.close,
		Lo:         spanLo[T],
		Hi:         spanHi[T],
		Render:     func(item T) (string, bool) { return d.render(item, nested) },
		Start:      start,
		End:        end,
	})

	n := len(d.items)
	last := n - 1
	maxWidth := opts.maxWidth
	if maxWidth <= 0 {
		maxWidth = ctx.Widths.FnCall
	}

	overflowLast := d.overflow != nil && !items[last].HasComment() && d.overflow(d.items[last], n)
	placeholder := ""
	if overflowLast {
		single := n == 1 && !isNestedCall(d.items[0])
		if argShape, ok := lastItemShape(items, oneLine, maxWidth, single); ok {
			if text, ok := d.render(d.items[last], argShape); ok {
				placeholder = text
				items[last].Item = firstLineOf(text)
				items[last].Refused = false
			}
		}
	}

	tactic := lists.DefinitiveTactic(items, lists.LimitedHorizontalVertical(maxWidth), ",", oneLineWidth)
	switch {
	case placeholder != "" && tactic == lists.Horizontal && n == 1 && countNewlines(placeholder) == 1:
		if text, ok := d.render(d.items[0], nested); ok && !shape.IsMultiline(text) {
			items[0].Item = text
		} else {
			items[0].Item = placeholder
		}
	case placeholder != "" && tactic == lists.Horizontal:
		items[last].Item = placeholder
	default:
		text, ok := d.render(d.items[last], nested)
		items[last].Item = text
		items[last].Refused = !ok
		if n == 1 && oneLineWidth > 0 && !items[0].HasComment() && ok &&
			!shape.IsMultiline(text) && lists.TotalItemWidth(items[0]) <= oneLineWidth {
			tactic = lists.Horizontal
		} else {
			tactic = lists.DefinitiveTactic(items, lists.LimitedHorizontalVertical(maxWidth), ",", oneLineWidth)
			if tactic == lists.Vertical && opts.mixed && d.simple != nil && shortItems(ctx, d, items) {
				tactic = lists.Mixed
			}
		}
	}

	f := lists.NewFormatting(nested, cfg)
	f.Tactic = tactic
	f.Trailing = lists.TrailingFromConfig(cfg.TrailingComma)
	if opts.hasTrailing {
		f.Trailing = opts.trailing
	}
	if opts.forceSingleTrailing && n == 1 {
		f.Trailing = lists.SeparatorAlways
	}
	if ctx.insideMacro && f.Trailing == lists.SeparatorVertical {
		f.Trailing = lists.SeparatorNever
	}
	f.EndsWithNewline = tactic == lists.Vertical || tactic == lists.Mixed
	list, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}
	return wrapDelimited(ctx, callee, list, tactic, opts, sh, nested)
}

func wrapDelimited(
	ctx *RewriteContext,
	callee, list string,
	tactic lists.Tactic,
	opts delimOpts,
	sh, nested shape.Shape,
) (string, bool) {
	cfg := ctx.Config
	width := max(0, sh.Width-shape.LastLineWidth(callee))
	extendWidth := shape.FirstLineWidth(list) + len(opts.open)
	singleLine := tactic == lists.Horizontal && extendWidth <= width
	if ctx.insideMacro && !shape.IsMultiline(list) && shape.TextWidth(list)+len(opts.open)+len(opts.close) <= width {
		singleLine = true
	}
	if singleLine {
		return callee + opts.open + list + opts.close, true
	}
	return callee + opts.open +
		nested.Indent.StringWithNewline(cfg) + list +
		sh.Indent.BlockOnly().StringWithNewline(cfg) + opts.close, true
}

// rewriteEmptyDelimited renders a list with no items, keeping the comments
// found between the delimiters.
func rewriteEmptyDelimited(
	ctx *RewriteContext,
	callee string,
	start, end int,
	opts delimOpts,
	sh, nested shape.Shape,
) (string, bool) {
	inner := ctx.snippet(syntax.Sp(start, end))
	if !comment.ContainsComment(inner) {
		return callee + opts.open + opts.close, true
	}
	text, ok := comment.RecoverMissingComment(inner, nested, ctx.Config)
	if !ok {
		return "", false
	}
	if !shape.IsMultiline(text) && !comment.IsLineComment(text) {
		return callee + opts.open + text + opts.close, true
	}
	return callee + opts.open +
		nested.Indent.StringWithNewline(ctx.Config) + text +
		sh.Indent.BlockOnly().StringWithNewline(ctx.Config) + opts.close, true
}

// lastItemShape is the shape the last item overflows into: what is left of
// the opening line after the other items.
func lastItemShape(items []lists.ListItem, sh shape.Shape, maxWidth int, single bool) (shape.Shape, bool) {
	if single {
		return sh, true
	}
	offset := 0
	for _, li := range items[:len(items)-1] {
		offset += 2 + shape.TextWidth(li.Item)
	}
	limited := sh
	limited.Width = min(maxWidth, sh.Width)
	return limited.OffsetLeft(offset)
}

func shortItems[T syntax.Node](ctx *RewriteContext, d delimited[T], items []lists.ListItem) bool {
	threshold := ctx.Config.ShortArrayElementWidth
	for i, item := range d.items {
		if !d.simple(item) || items[i].HasComment() || shape.TextWidth(items[i].Item) > threshold {
			return false
		}
	}
	return true
}

func firstLineOf(s string) string {
	first, _, _ := strings.Cut(s, "\n")
	return first
}

// isNestedCall reports arguments that are themselves argument lists.
func isNestedCall(n syntax.Node) bool {
	switch e := n.(type) {
	case *syntax.CallExpr, *syntax.MethodCallExpr:
		return true
	case *syntax.MacExpr:
		return e.Mac.Delim != syntax.DelimBrace
	}
	return false
}

// canOverflowExpr reports whether e may be the overflowing last item of a
// list of count arguments.
func canOverflowExpr(ctx *RewriteContext, e syntax.Expr, count int) bool {
	cfg := ctx.Config
	switch x := e.(type) {
	case *syntax.IfExpr, *syntax.LoopExpr, *syntax.WhileExpr, *syntax.ForExpr:
		return cfg.CombineControlExpr && count == 1
	case *syntax.MatchExpr:
		return (cfg.CombineControlExpr && count == 1) || cfg.OverflowDelimitedExpr
	case *syntax.ClosureExpr, *syntax.BlockExpr:
		return true
	case *syntax.ArrayExpr, *syntax.StructExpr, *syntax.TupleExpr:
		return cfg.OverflowDelimitedExpr || count == 1
	case *syntax.CallExpr, *syntax.MethodCallExpr:
		return cfg.OverflowDelimitedExpr || count == 1
	case *syntax.MacExpr:
		return x.Mac.Delim != syntax.DelimBrace && (cfg.OverflowDelimitedExpr || count == 1)
	case *syntax.RefExpr:
		return canOverflowExpr(ctx, x.X, count)
	case *syntax.UnaryExpr:
		return canOverflowExpr(ctx, x.X, count)
	case *syntax.TryExpr:
		return canOverflowExpr(ctx, x.X, count)
	case *syntax.CastExpr:
		return canOverflowExpr(ctx, x.X, count)
	}
	return false
}

// isSimpleExpr reports literals, short paths and simple combinations of
// them; lists of such items may be packed several per line.
func isSimpleExpr(e syntax.Expr) bool {
	switch x := e.(type) {
	case *syntax.LitExpr:
		return true
	case *syntax.PathExpr:
		return x.QSelf == nil && len(x.Path.Segments) <= 1
	case *syntax.RefExpr:
		return isSimpleExpr(x.X)
	case *syntax.CastExpr:
		return isSimpleExpr(x.X)
	case *syntax.FieldExpr:
		return isSimpleExpr(x.X)
	case *syntax.TryExpr:
		return isSimpleExpr(x.X)
	case *syntax.UnaryExpr:
		return isSimpleExpr(x.X)
	case *syntax.IndexExpr:
		return isSimpleExpr(x.X) && isSimpleExpr(x.Index)
	case *syntax.RepeatExpr:
		return isSimpleExpr(x.Elem) && isSimpleExpr(x.Count)
	}
	return false
}

// exprList is the delimited description of a list of expressions.
func exprList(ctx *RewriteContext, exprs []syntax.Expr, span syntax.Span) delimited[syntax.Expr] {
	return delimited[syntax.Expr]{
		items: exprs,
		span:  span,
		render: func(e syntax.Expr, sh shape.Shape) (string, bool) {
			return rewriteExpr(ctx, e, sh)
		},
		overflow: func(e syntax.Expr, count int) bool { return canOverflowExpr(ctx, e, count) },
		simple:   isSimpleExpr,
	}
}
