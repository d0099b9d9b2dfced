package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// rewriteControlHead renders a control flow keyword and its condition,
// followed by what separates them from the opening brace: a space, or a
// newline when the condition spans lines or control_brace_style asks.
func rewriteControlHead(ctx *RewriteContext, kw string, cond renderFunc, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	head := kw
	if cond != nil {
		cs, ok := sh.OffsetLeft(len(kw) + 1)
		if ok {
			cs, ok = cs.SubWidth(2)
		}
		if !ok {
			return "", false
		}
		text, ok := cond(cs)
		if !ok {
			return "", false
		}
		head += " " + text
	}
	force := shape.IsMultiline(head) && !lastLineExtendable(head)
	if cfg.ControlBraceStyle == config.ControlAlwaysNextLine || force {
		return head + sh.Indent.BlockOnly().StringWithNewline(cfg), true
	}
	return head + " ", true
}

// rewriteControl renders `kw cond { body }`; cond is nil for `loop`.
func rewriteControl(ctx *RewriteContext, kw string, cond renderFunc, body *syntax.Block, sh shape.Shape) (string, bool) {
	head, ok := rewriteControlHead(ctx, kw, cond, sh)
	if !ok {
		return "", false
	}
	return rewriteBlock(ctx, body, head, sh)
}

func rewriteWhile(ctx *RewriteContext, w *syntax.WhileExpr, sh shape.Shape) (string, bool) {
	return rewriteControl(ctx, labelStr(w.Label)+"while", func(s shape.Shape) (string, bool) {
		return rewriteExpr(ctx, w.Cond, s)
	}, w.Body, sh)
}

func rewriteFor(ctx *RewriteContext, f *syntax.ForExpr, sh shape.Shape) (string, bool) {
	return rewriteControl(ctx, labelStr(f.Label)+"for", func(s shape.Shape) (string, bool) {
		patShape, ok := s.SubWidth(3)
		if !ok {
			return "", false
		}
		pat, ok := rewritePat(ctx, f.Pat, patShape)
		if !ok {
			return "", false
		}
		return rewriteAssignRHS(ctx, pat+" in", f.Iter, s)
	}, f.Body, sh)
}

// rewriteIf renders an if/else-if/else chain. Nested in another
// expression, `if c { a } else { b }` stays on one line when it is short
// enough.
func rewriteIf(ctx *RewriteContext, x *syntax.IfExpr, pos exprPos, sh shape.Shape) (string, bool) {
	if pos == subExpr && ctx.Widths.SingleLineIfElse > 0 {
		if text, ok := rewriteSingleLineIf(ctx, x, sh); ok {
			return text, true
		}
	}
	return rewriteIfChain(ctx, x, sh)
}

func rewriteSingleLineIf(ctx *RewriteContext, x *syntax.IfExpr, sh shape.Shape) (string, bool) {
	els, ok := x.Else.(*syntax.BlockExpr)
	if !ok || els.Label != "" || els.Rules != syntax.BlockDefault {
		return "", false
	}
	if comment.ContainsComment(ctx.snippet(syntax.Sp(x.Then.Sp.Hi, els.Sp.Lo))) {
		return "", false
	}
	thenExpr, ok := simpleBlockExpr(ctx, x.Then)
	if !ok {
		return "", false
	}
	elseExpr, ok := simpleBlockExpr(ctx, els.Block)
	if !ok {
		return "", false
	}
	cs, ok := sh.OffsetLeft(3)
	if !ok {
		return "", false
	}
	cond, ok := rewriteExpr(ctx, x.Cond, cs)
	if !ok || shape.IsMultiline(cond) {
		return "", false
	}

	const fixed = len("if  {  } else {  }")
	width := sh.Width - len(cond) - fixed
	if width < 0 {
		return "", false
	}
	thenText, ok := rewriteExpr(ctx, thenExpr, shape.Legacy(width, shape.Empty()))
	if !ok || shape.IsMultiline(thenText) {
		return "", false
	}
	width -= shape.TextWidth(thenText)
	if width < 0 {
		return "", false
	}
	elseText, ok := rewriteExpr(ctx, elseExpr, shape.Legacy(width, shape.Empty()))
	if !ok || shape.IsMultiline(elseText) {
		return "", false
	}
	result := "if " + cond + " { " + thenText + " } else { " + elseText + " }"
	if w := shape.TextWidth(result); w > sh.Width || w > ctx.Widths.SingleLineIfElse {
		return "", false
	}
	return result, true
}

func rewriteIfChain(ctx *RewriteContext, x *syntax.IfExpr, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	var sb strings.Builder
	alt := sh.Indent.BlockOnly().StringWithNewline(cfg)
	betweenSep := " "
	if cfg.ControlBraceStyle != config.ControlAlwaysSameLine {
		betweenSep = alt
	}

	cur := x
	for {
		head, ok := rewriteControlHead(ctx, "if", func(s shape.Shape) (string, bool) {
			return rewriteExpr(ctx, cur.Cond, s)
		}, sh)
		if !ok {
			return "", false
		}
		text, ok := renderBlock(ctx, cur.Then, head, cur.Else != nil, sh)
		if !ok {
			return "", false
		}
		sb.WriteString(text)
		if cur.Else == nil {
			return sb.String(), true
		}

		gap := ctx.snippet(syntax.Sp(cur.Then.Sp.Hi, cur.Else.Span().Lo))
		at := comment.FindUncommented(gap, "else")
		if at < 0 {
			return "", false
		}
		before, ok := elseGapComment(ctx, gap[:at], sh)
		if !ok {
			return "", false
		}
		after, ok := elseGapComment(ctx, gap[at+len("else"):], sh)
		if !ok {
			return "", false
		}
		if before == "" {
			before = betweenSep
		}

		switch els := cur.Else.(type) {
		case *syntax.IfExpr:
			if after == "" {
				after = " "
			}
			sb.WriteString(before + "else" + after)
			cur = els
		case *syntax.BlockExpr:
			afterSep := " "
			if cfg.ControlBraceStyle == config.ControlAlwaysNextLine {
				afterSep = alt
			}
			if after != "" {
				afterSep = after
			}
			block, ok := rewriteBlock(ctx, els.Block, before+"else"+afterSep, sh)
			if !ok {
				return "", false
			}
			sb.WriteString(block)
			return sb.String(), true
		default:
			return "", false
		}
	}
}

// elseGapComment renders the comments found around an `else` keyword on
// lines of their own at the indentation of the if. It returns "" when gap
// holds no comment.
func elseGapComment(ctx *RewriteContext, gap string, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	indent := shape.Indented(sh.Indent.BlockOnly(), cfg)
	text, ok := comment.RecoverMissingComment(gap, indent.Comment(cfg), cfg)
	if !ok || text == "" {
		return "", ok
	}
	alt := indent.Indent.StringWithNewline(cfg)
	return alt + text + alt, true
}
