package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// rewriteMatch renders a match expression with one arm per line.
func rewriteMatch(ctx *RewriteContext, m *syntax.MatchExpr, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	condShape, ok := sh.OffsetLeft(len("match "))
	if !ok {
		return "", false
	}
	cond, ok := rewriteExpr(ctx, m.X, condShape)
	if !ok {
		return "", false
	}
	alt := sh.Indent.StringWithNewline(cfg)
	sep := " "
	switch {
	case cfg.ControlBraceStyle == config.ControlAlwaysNextLine:
		sep = alt
	case lastLineExtendable(cond):
	case shape.IsMultiline(cond) || shape.TextWidth(cond)+2 > condShape.Width:
		sep = alt
	}
	head := "match " + cond + sep + "{"

	bodyLo := m.BraceLo + 1
	bodyHi := m.Sp.Hi - 1
	if len(m.Arms) == 0 {
		if len(m.InnerAttrs) == 0 && strings.TrimSpace(ctx.snippet(syntax.Sp(bodyLo, bodyHi))) == "" {
			return head + "}", true
		}
		// Comments or inner attributes alone in a match body are kept as written.
		return ctx.snippet(m.Sp), true
	}

	armShape := sh.BlockIndent(cfg.TabSpaces).WithMaxWidth(cfg)
	nestedIndent := armShape.Indent.String(cfg)
	innerAttrs := ""
	start := bodyLo
	for _, attr := range m.InnerAttrs {
		innerAttrs += rewriteAttr(ctx, attr, armShape) + "\n" + nestedIndent
		start = attr.Sp.Hi
	}

	arms, ok := rewriteMatchArms(ctx, m, start, armShape)
	if !ok {
		return "", false
	}
	return head + "\n" + nestedIndent + innerAttrs + arms + alt + "}", true
}

func rewriteMatchArms(ctx *RewriteContext, m *syntax.MatchExpr, start int, sh shape.Shape) (string, bool) {
	last := len(m.Arms) - 1
	index := make(map[*syntax.Arm]int, len(m.Arms))
	for i, arm := range m.Arms {
		index[arm] = i
	}
	items := lists.Itemize(lists.Source[*syntax.Arm]{
		File:       ctx.File,
		Items:      m.Arms,
		Separator:  ",",
		Terminator: "}",
		Lo:         spanLo[*syntax.Arm],
		Hi:         spanHi[*syntax.Arm],
		Render: func(arm *syntax.Arm) (string, bool) {
			return rewriteArm(ctx, arm, index[arm] == last, sh)
		},
		Start: start,
		End:   m.Sp.Hi - 1,
	})
	f := lists.NewFormatting(sh, ctx.Config)
	f.Tactic = lists.Vertical
	f.Separator = ""
	f.PreserveNewline = true
	return lists.WriteList(items, f)
}

// armHasLeadingPipe reports a `|` written before the first alternative.
func armHasLeadingPipe(ctx *RewriteContext, arm *syntax.Arm) bool {
	from := arm.Sp.Lo
	if n := len(arm.Attrs); n > 0 {
		from = arm.Attrs[n-1].Sp.Hi
	}
	pos := codeStartIn(ctx, from, arm.Sp.Hi)
	return pos < len(ctx.File.Src) && ctx.File.Src[pos] == '|'
}

func rewriteArm(ctx *RewriteContext, arm *syntax.Arm, isLast bool, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	if hasSkipAttr(arm.Attrs) {
		checkAttrs(ctx, arm.Attrs)
		text := strings.TrimSuffix(ctx.snippet(arm.Sp), ",")
		ctx.markVerbatim(text)
		return text + armComma(cfg, flattenArmBody(ctx, arm.Body), isLast), true
	}

	attrs := rewriteOuterAttrs(ctx, arm.Attrs, sh, false)
	pipe := ""
	switch cfg.MatchArmLeadingPipes {
	case config.PipesAlways:
		pipe = "| "
	case config.PipesPreserve:
		if armHasLeadingPipe(ctx, arm) {
			pipe = "| "
		}
	case config.PipesNever:
	}

	reserve := len(" => {")
	if be, ok := arm.Body.(*syntax.BlockExpr); ok && be.Label != "" {
		reserve += len(be.Label) + 2
	}
	patShape, ok := sh.SubWidth(reserve)
	if ok {
		patShape, ok = patShape.OffsetLeft(len(pipe))
	}
	if !ok {
		return "", false
	}
	pat, ok := rewritePat(ctx, arm.Pat, patShape)
	if !ok {
		return "", false
	}

	patWidth := shape.TrimmedLastLineWidth(pat)
	blockLikePat := patWidth <= cfg.TabSpaces
	guard, ok := rewriteGuard(ctx, arm.Guard, sh, patWidth+len(pipe), shape.IsMultiline(pat) && !blockLikePat)
	if !ok {
		return "", false
	}
	lhs := attrs + pipe + pat + guard
	return rewriteArmBody(ctx, arm, lhs, shape.IsMultiline(guard), isLast, sh)
}

func rewriteGuard(ctx *RewriteContext, guard syntax.Expr, sh shape.Shape, patWidth int, multilinePat bool) (string, bool) {
	if guard == nil {
		return "", true
	}
	cfg := ctx.Config
	if !multilinePat {
		if cs, ok := sh.OffsetLeft(patWidth + len(" if ")); ok {
			if cs, ok = cs.SubWidth(len(" => {")); ok {
				if text, ok := rewriteExpr(ctx, guard, cs); ok &&
					(!shape.IsMultiline(text) || patWidth <= cfg.TabSpaces) {
					return " if " + text, true
				}
			}
		}
	}
	cs, ok := shape.Indented(sh.Indent.BlockIndentBy(cfg), cfg).OffsetLeft(len("if "))
	if ok {
		cs, ok = cs.SubWidth(len(" => {"))
	}
	if !ok {
		return "", false
	}
	text, ok := rewriteExpr(ctx, guard, cs)
	if !ok {
		return "", false
	}
	return cs.Indent.StringWithNewline(cfg) + "if " + text, true
}

// armComma is the separator written after an arm body.
func armComma(cfg *config.Config, body syntax.Expr, isLast bool) string {
	if isLast && cfg.TrailingComma == config.TrailingNever {
		return ""
	}
	if cfg.MatchBlockTrailingComma {
		return ","
	}
	if be, ok := body.(*syntax.BlockExpr); ok && be.Rules == syntax.BlockDefault {
		return ""
	}
	return ","
}

// flattenArmBody unwraps `{ expr }` arm bodies whose braces carry nothing
// but the expression.
func flattenArmBody(ctx *RewriteContext, body syntax.Expr) syntax.Expr {
	be, ok := body.(*syntax.BlockExpr)
	if !ok || be.Label != "" || be.Rules != syntax.BlockDefault || ctx.insideMacro {
		return body
	}
	x, ok := simpleBlockExpr(ctx, be.Block)
	if !ok {
		return body
	}
	if _, isMac := x.(*syntax.MacExpr); isMac {
		return body
	}
	if _, isBlock := x.(*syntax.BlockExpr); isBlock {
		return flattenArmBody(ctx, x)
	}
	return x
}

// canFlattenAround reports bodies that may stay on the arm's line after
// their braces were dropped.
func canFlattenAround(e syntax.Expr) bool {
	switch x := e.(type) {
	case *syntax.IfExpr, *syntax.ForExpr, *syntax.WhileExpr:
		return false
	case *syntax.LoopExpr, *syntax.MatchExpr, *syntax.BlockExpr, *syntax.ClosureExpr,
		*syntax.ArrayExpr, *syntax.CallExpr, *syntax.MethodCallExpr, *syntax.MacExpr,
		*syntax.StructExpr, *syntax.TupleExpr:
		return true
	case *syntax.RefExpr:
		return canFlattenAround(x.X)
	case *syntax.TryExpr:
		return canFlattenAround(x.X)
	case *syntax.UnaryExpr:
		return canFlattenAround(x.X)
	case *syntax.IndexExpr:
		return canFlattenAround(x.X)
	case *syntax.CastExpr:
		return canFlattenAround(x.X)
	}
	return false
}

// collapseEmptyBlock turns `{\n}` into `{}`.
func collapseEmptyBlock(s string, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") && strings.TrimSpace(s[1:len(s)-1]) == "" {
		return "{}", true
	}
	return s, true
}

func rewriteArmBody(ctx *RewriteContext, arm *syntax.Arm, lhs string, hasGuard, isLast bool, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	body := flattenArmBody(ctx, arm.Body)
	extend := !cfg.ForceMultilineBlocks && canFlattenAround(body)
	isBlock, isEmptyBlock := false, false
	if be, ok := body.(*syntax.BlockExpr); ok {
		isBlock = true
		isEmptyBlock = blockIsEmpty(ctx, be.Block)
	}
	comma := armComma(cfg, body, isLast)
	alt := sh.Indent.StringWithNewline(cfg)

	arrowComment, ok := armArrowComment(ctx, arm, sh)
	if !ok {
		return "", false
	}
	forbidSameLine := hasGuard && shape.IsMultiline(lhs) && !isEmptyBlock

	combineOrig := func(text string) (string, bool) {
		sep := " "
		if cfg.ControlBraceStyle == config.ControlAlwaysNextLine && isBlock {
			sep = alt
		}
		return lhs + " =>" + sep + text + comma, true
	}
	nextIndent := sh.Indent
	if !isBlock || isEmptyBlock {
		nextIndent = sh.Indent.BlockIndentBy(cfg)
	}
	combineNext := func(text string) (string, bool) {
		nested := nextIndent.StringWithNewline(cfg)
		result := lhs + " =>"
		if isBlock {
			if arrowComment != "" {
				result += nested + arrowComment
			}
			return result + nested + text + comma, true
		}
		prefix, suffix := "", ","
		if cfg.MatchArmBlocks && !ctx.insideMacro {
			prefix = "{"
			suffix = alt + "}"
			if cfg.MatchBlockTrailingComma {
				suffix += ","
			}
		}
		var sep string
		switch {
		case cfg.ControlBraceStyle == config.ControlAlwaysNextLine:
			sep = alt + prefix
		case prefix == "":
		case forbidSameLine || arrowComment != "":
			sep = alt + prefix
		default:
			sep = " " + prefix
		}
		if arrowComment != "" {
			result += alt + arrowComment
		}
		return result + sep + nested + text + suffix, true
	}

	var orig string
	origOK := false
	origBudget := 0
	if !forbidSameLine && arrowComment == "" {
		if bs, ok := sh.OffsetLeft(shape.LastLineWidth(lhs) + len(" => ")); ok {
			if bs, ok = bs.SubWidth(len(comma)); ok {
				origBudget = bs.Width
				orig, origOK = collapseEmptyBlock(formatExpr(ctx, body, stmtExpr, bs))
				if origOK && (isBlock || (!shape.IsMultiline(orig) && shape.TextWidth(orig) <= bs.Width)) {
					return combineOrig(orig)
				}
			}
		}
	}
	nextShape := shape.Indented(nextIndent, cfg)
	next, nextOK := collapseEmptyBlock(formatExpr(ctx, body, stmtExpr, nextShape))
	switch {
	case origOK && nextOK && preferNextLine(orig, next):
		return combineNext(next)
	case origOK && extend && shape.FirstLineWidth(orig) <= origBudget:
		return combineOrig(orig)
	case origOK && nextOK && shape.IsMultiline(orig):
		return combineNext(next)
	case !origOK && nextOK:
		return combineNext(next)
	case origOK:
		return combineOrig(orig)
	}
	return "", false
}

// armArrowComment renders a comment written between `=>` and the arm body.
func armArrowComment(ctx *RewriteContext, arm *syntax.Arm, sh shape.Shape) (string, bool) {
	gap := ctx.snippet(syntax.Sp(arm.Pat.Span().Hi, arm.Body.Span().Lo))
	idx := comment.FindLastUncommented(gap, "=>")
	if idx < 0 {
		return "", true
	}
	text := strings.TrimSpace(gap[idx+2:])
	if text == "" {
		return "", true
	}
	return comment.Rewrite(text, false, sh, ctx.Config)
}
