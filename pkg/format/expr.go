package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// exprPos tells whether an expression stands as a statement or is nested
// in another expression. Some layouts, such as one-line if/else, are only
// used for nested expressions.
type exprPos uint8

const (
	subExpr exprPos = iota
	stmtExpr
)

func rewriteExpr(ctx *RewriteContext, e syntax.Expr, sh shape.Shape) (string, bool) {
	return formatExpr(ctx, e, subExpr, sh)
}

func formatExpr(ctx *RewriteContext, e syntax.Expr, pos exprPos, sh shape.Shape) (string, bool) {
	switch x := e.(type) {
	case *syntax.LitExpr:
		return rewriteLit(ctx, x, sh)
	case *syntax.PathExpr:
		return rewritePath(ctx, x.QSelf, x.Path, sh)
	case *syntax.UnderscoreExpr:
		return wrapStr(ctx, "_", sh)
	case *syntax.UnaryExpr:
		return rewriteUnaryPrefix(ctx, x.Op, x.X, sh)
	case *syntax.RefExpr:
		return rewriteUnaryPrefix(ctx, refPrefix(x), x.X, sh)
	case *syntax.BinaryExpr:
		return rewriteBinary(ctx, x, sh)
	case *syntax.AssignExpr:
		return rewriteAssignExpr(ctx, x, sh)
	case *syntax.CastExpr:
		return rewritePair(ctx, pairParts{infix: " as "},
			func(s shape.Shape) (string, bool) { return rewriteExpr(ctx, x.X, s) },
			func(s shape.Shape) (string, bool) { return rewriteType(ctx, x.Type, s) },
			sh, config.SeparatorFront)
	case *syntax.CallExpr:
		return rewriteCall(ctx, x, sh)
	case *syntax.MethodCallExpr, *syntax.FieldExpr, *syntax.TryExpr, *syntax.AwaitExpr:
		return rewriteChain(ctx, e, sh)
	case *syntax.IndexExpr:
		return rewriteIndex(ctx, x, sh)
	case *syntax.ParenExpr:
		return rewriteParen(ctx, x, sh)
	case *syntax.TupleExpr:
		return rewriteDelimited(ctx, "", exprList(ctx, x.Elems, x.Sp), delimOpts{
			open: "(", close: ")", maxWidth: ctx.Widths.FnCall, forceSingleTrailing: true,
		}, sh)
	case *syntax.ArrayExpr:
		return rewriteDelimited(ctx, "", exprList(ctx, x.Elems, x.Sp), delimOpts{
			open: "[", close: "]", maxWidth: ctx.Widths.Array, mixed: true,
		}, sh)
	case *syntax.RepeatExpr:
		return rewritePair(ctx, pairParts{prefix: "[", infix: "; ", suffix: "]"},
			func(s shape.Shape) (string, bool) { return rewriteExpr(ctx, x.Elem, s) },
			func(s shape.Shape) (string, bool) { return rewriteExpr(ctx, x.Count, s) },
			sh, config.SeparatorBack)
	case *syntax.StructExpr:
		return rewriteStructLit(ctx, x, sh)
	case *syntax.RangeExpr:
		return rewriteRange(ctx, x, sh)
	case *syntax.ClosureExpr:
		return rewriteClosure(ctx, x, sh)
	case *syntax.BlockExpr:
		return rewriteBlockExpr(ctx, x, pos, sh)
	case *syntax.LetExpr:
		pat, ok := rewritePatAt(ctx, x.Pat, sh, 4, 2)
		if !ok {
			return "", false
		}
		return rewriteAssignRHS(ctx, "let "+pat+" =", x.Init, sh)
	case *syntax.IfExpr:
		return rewriteIf(ctx, x, pos, sh)
	case *syntax.WhileExpr:
		return rewriteWhile(ctx, x, sh)
	case *syntax.LoopExpr:
		return rewriteControl(ctx, labelStr(x.Label)+"loop", nil, x.Body, sh)
	case *syntax.ForExpr:
		return rewriteFor(ctx, x, sh)
	case *syntax.MatchExpr:
		return rewriteMatch(ctx, x, sh)
	case *syntax.ReturnExpr:
		return rewriteKeywordValue(ctx, "return", x.X, sh)
	case *syntax.BreakExpr:
		kw := "break"
		if x.Label != "" {
			kw += " " + x.Label
		}
		return rewriteKeywordValue(ctx, kw, x.X, sh)
	case *syntax.ContinueExpr:
		kw := "continue"
		if x.Label != "" {
			kw += " " + x.Label
		}
		return wrapStr(ctx, kw, sh)
	case *syntax.MacExpr:
		return rewriteMacro(ctx, x.Mac, macroExprPos, sh)
	}
	return "", false
}

func rewriteLit(ctx *RewriteContext, lit *syntax.LitExpr, sh shape.Shape) (string, bool) {
	switch lit.Kind {
	case syntax.LitStr:
		if ctx.Config.FormatStrings {
			return rewriteStringLit(ctx, lit.Text, sh)
		}
	case syntax.LitInt:
		return wrapStr(ctx, hexLiteralCase(lit.Text, ctx.Config.HexLiteralCase), sh)
	}
	return wrapStr(ctx, lit.Text, sh)
}

func refPrefix(x *syntax.RefExpr) string {
	switch {
	case x.Raw && x.Mut:
		return "&raw mut "
	case x.Raw:
		return "&raw const "
	case x.Mut:
		return "&mut "
	default:
		return "&"
	}
}

// rewriteUnaryPrefix renders prefix immediately followed by e.
func rewriteUnaryPrefix(ctx *RewriteContext, prefix string, e syntax.Expr, sh shape.Shape) (string, bool) {
	inner, ok := sh.OffsetLeft(len(prefix))
	if !ok {
		return "", false
	}
	text, ok := rewriteExpr(ctx, e, inner)
	if !ok {
		return "", false
	}
	return prefix + text, true
}

// rewriteKeywordValue renders `return`, `break` and the like with an
// optional value.
func rewriteKeywordValue(ctx *RewriteContext, kw string, value syntax.Expr, sh shape.Shape) (string, bool) {
	if value == nil {
		return wrapStr(ctx, kw, sh)
	}
	return rewriteUnaryPrefix(ctx, kw+" ", value, sh)
}

func rewriteCall(ctx *RewriteContext, call *syntax.CallExpr, sh shape.Shape) (string, bool) {
	callee, ok := rewriteExpr(ctx, call.Fun, sh)
	if !ok {
		return "", false
	}
	return rewriteDelimited(ctx, callee, exprList(ctx, call.Args, call.ArgsSp), delimOpts{
		open: "(", close: ")", maxWidth: ctx.Widths.FnCall,
	}, sh)
}

func rewriteParen(ctx *RewriteContext, p *syntax.ParenExpr, sh shape.Shape) (string, bool) {
	inner := p.X
	if ctx.Config.RemoveNestedParens {
		for {
			nested, ok := inner.(*syntax.ParenExpr)
			if !ok || comment.ContainsComment(ctx.snippet(p.Sp)) {
				break
			}
			inner = nested.X
		}
	}
	if comment.ContainsComment(ctx.snippet(p.Sp)) {
		return "", false
	}
	sub, ok := sh.OffsetLeft(1)
	if ok {
		sub, ok = sub.SubWidth(1)
	}
	if !ok {
		return "", false
	}
	text, ok := rewriteExpr(ctx, inner, sub)
	if !ok {
		return "", false
	}
	return wrapStr(ctx, "("+text+")", sh)
}

// rewriteIndex renders `x[i]`, moving the index to the next line when it
// does not fit after the indexed expression.
func rewriteIndex(ctx *RewriteContext, ix *syntax.IndexExpr, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	base, ok := rewriteExpr(ctx, ix.X, sh)
	if !ok {
		return "", false
	}
	if after, ok := shapeAfter(ctx, sh, base, 2); ok {
		if idx, ok := rewriteExpr(ctx, ix.Index, after.AddOffset(1)); ok && !shape.IsMultiline(idx) {
			return base + "[" + idx + "]", true
		}
	}
	nested := shape.Indented(sh.Indent.BlockIndentBy(cfg), cfg)
	nested, ok = nested.OffsetLeft(1)
	if ok {
		nested, ok = nested.SubWidth(1 + sh.RHSOverhead(cfg))
	}
	if !ok {
		return "", false
	}
	idx, ok := rewriteExpr(ctx, ix.Index, nested)
	if !ok {
		return "", false
	}
	return base + nested.Indent.StringWithNewline(cfg) + "[" + idx + "]", true
}

// shapeAfter is the shape left on the last line of text placed at sh,
// keeping reserve columns for what follows.
func shapeAfter(ctx *RewriteContext, sh shape.Shape, text string, reserve int) (shape.Shape, bool) {
	if !shape.IsMultiline(text) {
		s, ok := sh.OffsetLeft(shape.TextWidth(text))
		if !ok {
			return s, false
		}
		return s.SubWidth(reserve)
	}
	cfg := ctx.Config
	col := shape.LastLineWidth(text)
	width := cfg.MaxWidth - col - sh.RHSOverhead(cfg) - reserve
	if width < 0 {
		return shape.Shape{}, false
	}
	indent := sh.Indent.BlockOnly()
	return shape.Shape{Width: width, Indent: indent, Offset: max(0, col-indent.Width())}, true
}

func rewriteRange(ctx *RewriteContext, r *syntax.RangeExpr, sh shape.Shape) (string, bool) {
	spaces := ctx.Config.SpacesAroundRanges
	switch {
	case r.Lo != nil && r.Hi != nil:
		infix := r.Limits
		switch {
		case spaces:
			infix = " " + infix + " "
		case needsSpaceBeforeRange(r.Lo):
			infix = " " + infix
		}
		if _, ok := r.Hi.(*syntax.RangeExpr); ok && !spaces && r.Hi.(*syntax.RangeExpr).Lo == nil {
			infix += " "
		}
		return rewritePair(ctx, pairParts{infix: infix},
			func(s shape.Shape) (string, bool) { return rewriteExpr(ctx, r.Lo, s) },
			func(s shape.Shape) (string, bool) { return rewriteExpr(ctx, r.Hi, s) },
			sh, ctx.Config.BinopSeparator)
	case r.Hi != nil:
		prefix := r.Limits
		if spaces {
			prefix += " "
		}
		return rewriteUnaryPrefix(ctx, prefix, r.Hi, sh)
	case r.Lo != nil:
		suffix := r.Limits
		if spaces || needsSpaceBeforeRange(r.Lo) {
			suffix = " " + suffix
		}
		sub, ok := sh.SubWidth(len(suffix))
		if !ok {
			return "", false
		}
		text, ok := rewriteExpr(ctx, r.Lo, sub)
		if !ok {
			return "", false
		}
		return text + suffix, true
	}
	return wrapStr(ctx, r.Limits, sh)
}

// needsSpaceBeforeRange keeps `1. ..2` from turning into `1...2`.
func needsSpaceBeforeRange(e syntax.Expr) bool {
	switch x := e.(type) {
	case *syntax.LitExpr:
		return x.Kind == syntax.LitFloat && strings.HasSuffix(x.Text, ".")
	case *syntax.BinaryExpr:
		return needsSpaceBeforeRange(x.Y)
	}
	return false
}

func rewriteAssignExpr(ctx *RewriteContext, a *syntax.AssignExpr, sh shape.Shape) (string, bool) {
	lhsShape, ok := sh.SubWidth(len(a.Op) + 1)
	if !ok {
		return "", false
	}
	lhs, ok := rewriteExpr(ctx, a.X, lhsShape)
	if !ok {
		return "", false
	}
	return rewriteAssignRHS(ctx, lhs+" "+a.Op, a.Y, sh)
}

// rewriteAssignRHS renders lhs (ending in `=` or similar) followed by rhs,
// on the same line when possible or block-indented on the next one.
func rewriteAssignRHS(ctx *RewriteContext, lhs string, rhs syntax.Expr, sh shape.Shape) (string, bool) {
	return rewriteAssignRHSWith(ctx, lhs, func(s shape.Shape) (string, bool) {
		return rewriteExpr(ctx, rhs, s)
	}, sh)
}

func rewriteAssignRHSWith(ctx *RewriteContext, lhs string, render func(shape.Shape) (string, bool), sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	lastWidth := shape.LastLineWidth(lhs)
	if shape.IsMultiline(lhs) {
		lastWidth = max(0, lastWidth-sh.Indent.Width())
	}
	orig, ok := sh.OffsetLeft(lastWidth + 1)
	if !ok {
		orig = shape.Shape{Width: 0, Indent: sh.Indent, Offset: sh.Offset + lastWidth + 1}
	}
	origRHS, origOK := render(orig)
	if origOK && origRHS == "" {
		return lhs, true
	}
	if origOK && !shape.IsMultiline(origRHS) && shape.TextWidth(origRHS) <= orig.Width {
		return lhs + " " + origRHS, true
	}

	next, ok := shape.Indented(sh.Indent.BlockIndentBy(cfg), cfg).SubWidth(sh.RHSOverhead(cfg))
	if !ok {
		if origOK {
			return lhs + " " + origRHS, true
		}
		return "", false
	}
	nextRHS, nextOK := render(next)
	newline := next.Indent.StringWithNewline(cfg)
	switch {
	case origOK && nextOK && !fitsShape(ctx, comment.StripComments(nextRHS), next):
		return lhs + " " + origRHS, true
	case origOK && nextOK && preferNextLine(origRHS, nextRHS):
		return lhs + newline + nextRHS, true
	case !origOK && nextOK:
		return lhs + newline + nextRHS, true
	case origOK:
		return lhs + " " + origRHS, true
	}
	return "", false
}

// preferNextLine decides between a right-hand side kept on the line of
// its left-hand side and one moved to the next line.
func preferNextLine(orig, next string) bool {
	if !shape.IsMultiline(next) || countNewlines(orig) > countNewlines(next)+1 {
		return true
	}
	for _, c := range []byte{'(', '{', '['} {
		if firstLineEndsWith(orig, c) && !firstLineEndsWith(next, c) {
			return true
		}
	}
	return false
}

// rewriteStmt renders a statement without its outer attributes; lo is
// where the statement proper starts.
func rewriteStmt(ctx *RewriteContext, stmt syntax.Stmt, sh shape.Shape, last bool) (string, bool) {
	switch s := stmt.(type) {
	case *syntax.LetStmt:
		return rewriteLet(ctx, s, sh)
	case *syntax.ExprStmt:
		suffix := ""
		if s.Semi && semicolonWanted(ctx, s.X, last) {
			suffix = ";"
		}
		sub, ok := sh.SubWidth(len(suffix))
		if !ok {
			return "", false
		}
		text, ok := formatExpr(ctx, s.X, stmtExpr, sub)
		if !ok {
			return "", false
		}
		return text + suffix, true
	case *syntax.MacStmt:
		suffix := ""
		if s.Semi {
			suffix = ";"
		}
		sub, ok := sh.SubWidth(len(suffix))
		if !ok {
			return "", false
		}
		text, ok := rewriteMacro(ctx, s.Mac, macroStmtPos, sub)
		if !ok {
			return "", false
		}
		return text + suffix, true
	}
	return "", false
}

// semicolonWanted drops the semicolon after a diverging expression that
// ends a block when trailing_semicolon is off.
func semicolonWanted(ctx *RewriteContext, e syntax.Expr, last bool) bool {
	switch e.(type) {
	case *syntax.ReturnExpr, *syntax.BreakExpr, *syntax.ContinueExpr:
		return ctx.Config.TrailingSemicolon || !last
	}
	return true
}

func rewriteLet(ctx *RewriteContext, s *syntax.LetStmt, sh shape.Shape) (string, bool) {
	pat, ok := rewritePatAt(ctx, s.Pat, sh, 4, 1)
	if !ok {
		return "", false
	}
	result := "let " + pat
	if s.Type != nil {
		tyShape, ok := shapeAfter(ctx, sh, result+": ", 1)
		if !ok {
			return "", false
		}
		ty, ok := rewriteType(ctx, s.Type, tyShape)
		if !ok {
			return "", false
		}
		result += ": " + ty
	}
	if s.Init != nil {
		nested, ok := sh.SubWidth(1)
		if !ok {
			return "", false
		}
		result, ok = rewriteAssignRHS(ctx, result+" =", s.Init, nested)
		if !ok {
			return "", false
		}
		if s.Else != nil {
			result, ok = rewriteLetElse(ctx, result, pat, s.Else, sh, nested)
			if !ok {
				return "", false
			}
		}
	}
	return result + ";", true
}

// rewriteLetElse appends the `else` block of a let-else statement.
func rewriteLetElse(ctx *RewriteContext, result, pat string, els *syntax.Block, sh, initShape shape.Shape) (string, bool) {
	cfg := ctx.Config
	forceNewline := shape.IsMultiline(pat) || !sameLineElse(result, initShape)
	if forceNewline {
		result += sh.Indent.StringWithNewline(cfg) + "else "
	} else {
		result += " else "
	}

	maxWidth := min(sh.Width, ctx.Widths.SingleLineLetElse)
	available := max(0, maxWidth-shape.TextWidth(result))
	allowSingle := !forceNewline && available > 0 && !shape.IsMultiline(result)
	block, ok := rewriteBlockInner(ctx, els, "", allowSingle, sh)
	if !ok {
		return "", false
	}
	if allowSingle && !shape.IsMultiline(block) && shape.TextWidth(block)+1 > available {
		block, ok = rewriteBlockInner(ctx, els, "", false, sh)
		if !ok {
			return "", false
		}
	}
	return result + block, true
}

// sameLineElse reports whether ` else {` can follow the initializer.
func sameLineElse(init string, sh shape.Shape) bool {
	if !shape.IsMultiline(init) {
		return sh.Width-shape.TextWidth(init) >= len(" else {")
	}
	if !strings.HasSuffix(init, ")") && !strings.HasSuffix(init, "]") && !strings.HasSuffix(init, "}") {
		return false
	}
	last := init[strings.LastIndexByte(init, '\n')+1:]
	return strings.Trim(strings.TrimSpace(last), ")]}") == ""
}

func blockRulesPrefix(rules syntax.BlockRules) string {
	switch rules {
	case syntax.BlockUnsafe:
		return "unsafe "
	case syntax.BlockAsync:
		return "async "
	case syntax.BlockAsyncMove:
		return "async move "
	case syntax.BlockConst:
		return "const "
	default:
		return ""
	}
}

func rewriteBlockExpr(ctx *RewriteContext, b *syntax.BlockExpr, pos exprPos, sh shape.Shape) (string, bool) {
	prefix := labelStr(b.Label) + blockRulesPrefix(b.Rules)
	allowSingle := pos == subExpr || b.Rules == syntax.BlockUnsafe
	return rewriteBlockInner(ctx, b.Block, prefix, allowSingle, sh)
}

// rewriteBlockInner renders a block, collapsing `{ expr }` onto one line
// when allowed and short enough.
func rewriteBlockInner(ctx *RewriteContext, b *syntax.Block, prefix string, allowSingle bool, sh shape.Shape) (string, bool) {
	text, ok := rewriteBlock(ctx, b, prefix, sh)
	if !ok {
		return "", false
	}
	if allowSingle && strings.Count(text, "\n") <= 2 {
		if single, ok := rewriteSingleLineBlock(ctx, b, prefix, sh); ok {
			return single, true
		}
	}
	return text, true
}

func rewriteSingleLineBlock(ctx *RewriteContext, b *syntax.Block, prefix string, sh shape.Shape) (string, bool) {
	x, ok := simpleBlockExpr(ctx, b)
	if !ok {
		return "", false
	}
	inner, ok := sh.OffsetLeft(shape.LastLineWidth(prefix) + 2)
	if !ok {
		return "", false
	}
	text, ok := rewriteExpr(ctx, x, inner)
	if !ok {
		return "", false
	}
	result := prefix + "{ " + text + " }"
	if shape.IsMultiline(result) || shape.TextWidth(result) > sh.Width {
		return "", false
	}
	return result, true
}

// simpleBlockExpr returns the expression of a block made of a single
// expression statement without a semicolon, attributes or comments.
func simpleBlockExpr(ctx *RewriteContext, b *syntax.Block) (syntax.Expr, bool) {
	if len(b.Stmts) != 1 || len(b.InnerAttrs) > 0 {
		return nil, false
	}
	stmt, ok := b.Stmts[0].(*syntax.ExprStmt)
	if !ok || stmt.Semi || len(stmt.Attrs) > 0 {
		return nil, false
	}
	if comment.ContainsComment(ctx.snippet(b.Sp)) {
		return nil, false
	}
	return stmt.X, true
}
