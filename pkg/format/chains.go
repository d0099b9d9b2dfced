package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// chainItem is one `.child` of a method chain: a method call, a field or
// `.await`, followed by tries `?` operators.
type chainItem struct {
	expr  syntax.Expr
	tries int
}

// collectChain splits a chain into its root expression and children. It
// fails when a comment sits between two links of the chain.
func collectChain(ctx *RewriteContext, e syntax.Expr) (syntax.Expr, int, []chainItem, bool) {
	var links []syntax.Expr
	node := e
	for done := false; !done; {
		var inner syntax.Expr
		var gap syntax.Span
		switch x := node.(type) {
		case *syntax.MethodCallExpr:
			inner, gap = x.Receiver, syntax.Sp(x.Receiver.Span().Hi, x.Method.Sp.Lo)
		case *syntax.FieldExpr:
			inner, gap = x.X, syntax.Sp(x.X.Span().Hi, x.Name.Sp.Lo)
		case *syntax.AwaitExpr:
			inner, gap = x.X, syntax.Sp(x.X.Span().Hi, x.Sp.Hi)
		case *syntax.TryExpr:
			inner, gap = x.X, syntax.Sp(x.X.Span().Hi, x.Sp.Hi)
		default:
			done = true
			continue
		}
		if comment.ContainsComment(ctx.snippet(gap)) {
			return nil, 0, nil, false
		}
		links = append(links, node)
		node = inner
	}

	root := node
	rootTries := 0
	var items []chainItem
	for i := len(links) - 1; i >= 0; i-- {
		if _, ok := links[i].(*syntax.TryExpr); ok {
			if len(items) == 0 {
				rootTries++
			} else {
				items[len(items)-1].tries++
			}
			continue
		}
		items = append(items, chainItem{expr: links[i]})
	}
	return root, rootTries, items, true
}

func rewriteChainItem(ctx *RewriteContext, item chainItem, sh shape.Shape) (string, bool) {
	suffix := strings.Repeat("?", item.tries)
	s, ok := sh.SubWidth(len(suffix))
	if !ok {
		return "", false
	}
	var text string
	switch x := item.expr.(type) {
	case *syntax.MethodCallExpr:
		callee := "." + x.Method.Name.Name
		if x.Method.Args != nil {
			if callee, ok = rewriteGenericArgs(ctx, callee, x.Method.Args, s); !ok {
				return "", false
			}
		}
		text, ok = rewriteDelimited(ctx, callee, exprList(ctx, x.Args, x.ArgsSp), delimOpts{
			open: "(", close: ")", maxWidth: ctx.Widths.FnCall,
		}, s)
	case *syntax.FieldExpr:
		text, ok = wrapStr(ctx, "."+x.Name.Name, s)
	case *syntax.AwaitExpr:
		text, ok = wrapStr(ctx, ".await", s)
	default:
		return "", false
	}
	if !ok {
		return "", false
	}
	return text + suffix, true
}

// rewriteChain lays out a method chain on one line when it fits
// chain_width, otherwise with one child per block-indented line.
func rewriteChain(ctx *RewriteContext, e syntax.Expr, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	root, rootTries, items, ok := collectChain(ctx, e)
	if !ok {
		return "", false
	}
	suffix := strings.Repeat("?", rootTries)
	rs, ok := sh.SubWidth(len(suffix))
	if !ok {
		return "", false
	}
	rootRw, ok := rewriteExpr(ctx, root, rs)
	if !ok {
		return "", false
	}
	rootRw += suffix

	childCount := len(items)
	tabWidth := max(0, cfg.TabSpaces-sh.Offset)
	for len(items) > 0 && shape.TextWidth(rootRw) <= tabWidth && !shape.IsMultiline(rootRw) {
		s, ok := sh.OffsetLeft(shape.TextWidth(rootRw))
		if !ok {
			break
		}
		rw, ok := rewriteChainItem(ctx, items[0], s)
		if !ok {
			break
		}
		rootRw += rw
		items = items[1:]
	}
	if len(items) == 0 {
		return wrapStr(ctx, rootRw, sh)
	}

	childShape := sh.BlockIndent(cfg.TabSpaces).WithMaxWidth(cfg)
	if lastLineExtendable(rootRw) {
		childShape = sh.WithMaxWidth(cfg)
	}

	rewrites := []string{rootRw}
	for _, item := range items[:len(items)-1] {
		rw, ok := rewriteChainItem(ctx, item, childShape)
		if !ok {
			return "", false
		}
		rewrites = append(rewrites, rw)
	}

	lastRw, fitsOneLine, ok := rewriteLastChild(ctx, items[len(items)-1], rewrites, childCount, sh, childShape)
	if !ok {
		return "", false
	}
	rewrites = append(rewrites, lastRw)

	if fitsOneLine {
		return wrapStr(ctx, strings.Join(rewrites, ""), sh)
	}
	return wrapStr(ctx, strings.Join(rewrites, childShape.Indent.StringWithNewline(cfg)), sh)
}

// rewriteLastChild renders the final child, deciding between keeping the
// whole chain on one line with the child overflowing, and the vertical
// layout.
func rewriteLastChild(
	ctx *RewriteContext,
	last chainItem,
	rewrites []string,
	childCount int,
	sh, childShape shape.Shape,
) (string, bool, bool) {
	cfg := ctx.Config
	extendable := len(rewrites) == 1 && lastLineExtendable(rewrites[0])
	almostTotal := 0
	if extendable {
		almostTotal = shape.LastLineWidth(rewrites[0])
	} else {
		for _, rw := range rewrites {
			almostTotal += shape.TextWidth(rw)
		}
	}
	budget := sh.Width
	if childCount > 1 {
		budget = min(sh.Width, ctx.Widths.Chain)
	}
	oneLineBudget := budget - almostTotal
	allInOneLine := oneLineBudget > 0
	for _, rw := range rewrites {
		if shape.IsMultiline(rw) {
			allInOneLine = false
		}
	}

	lastShape := sh
	switch {
	case allInOneLine:
	case extendable:
		lastShape = childShape
	default:
		var ok bool
		if lastShape, ok = childShape.SubWidth(sh.RHSOverhead(cfg)); !ok {
			return "", false, false
		}
	}

	if allInOneLine || extendable {
		if ols, ok := lastShape.OffsetLeft(almostTotal); ok {
			if rw, ok := rewriteChainItem(ctx, last, ols); ok {
				lines := countNewlines(rw) + 1
				couldFit := shape.FirstLineWidth(rw) <= oneLineBudget
				if couldFit && lines >= 5 {
					return rw, allInOneLine, true
				}
				var alt string
				altOK := false
				if vs, ok := childShape.SubWidth(sh.RHSOverhead(cfg)); ok {
					alt, altOK = rewriteChainItem(ctx, last, vs)
				}
				switch {
				case altOK && !couldFit:
					return alt, false, true
				case altOK && countNewlines(alt)+1 >= lines:
					return rw, couldFit && allInOneLine, true
				case altOK:
					return alt, false, true
				default:
					return rw, couldFit && allInOneLine, true
				}
			}
		}
	}
	rw, ok := rewriteChainItem(ctx, last, lastShape)
	return rw, false, ok
}
