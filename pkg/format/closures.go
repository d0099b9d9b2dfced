package format

import (
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// rewriteClosure renders `move |params| -> Ret body`. A body made of a
// single expression loses its braces when it fits; control flow bodies
// and bodies that do not fit on one line get a block.
func rewriteClosure(ctx *RewriteContext, c *syntax.ClosureExpr, sh shape.Shape) (string, bool) {
	prefix, ok := rewriteClosureDecl(ctx, c, sh)
	if !ok {
		return "", false
	}
	bodyShape, ok := sh.OffsetLeft(shape.LastLineWidth(prefix) + 1)
	if shape.IsMultiline(prefix) {
		bodyShape, ok = shapeAfter(ctx, sh, prefix+" ", 0)
	}
	if !ok {
		return "", false
	}

	if be, isBlock := c.Body.(*syntax.BlockExpr); isBlock && be.Label == "" && be.Rules == syntax.BlockDefault {
		if blockIsEmpty(ctx, be.Block) {
			return prefix + " {}", true
		}
		if c.Ret == nil && !c.Async {
			if inner, ok := closureInnerExpr(ctx, be, prefix); ok {
				if text, ok := rewriteClosureBody(ctx, inner, prefix, sh, bodyShape); ok {
					return text, true
				}
			}
		}
		block, ok := rewriteBlockInner(ctx, be.Block, "", true, bodyShape)
		if !ok {
			return "", false
		}
		return prefix + " " + block, true
	}

	if text, ok := rewriteClosureBody(ctx, c.Body, prefix, sh, bodyShape); ok {
		return text, true
	}
	return rewriteClosureWithBlock(ctx, c.Body, prefix, sh)
}

// rewriteClosureDecl renders everything up to the body.
func rewriteClosureDecl(ctx *RewriteContext, c *syntax.ClosureExpr, sh shape.Shape) (string, bool) {
	head := ""
	if c.Async {
		head += "async "
	}
	if c.Move {
		head += "move "
	}
	nested, ok := sh.ShrinkLeft(len(head))
	if ok {
		nested, ok = nested.SubWidth(4)
	}
	if !ok {
		return "", false
	}
	paramShape, ok := nested.OffsetLeft(1)
	if !ok {
		return "", false
	}

	ret := ""
	if c.Ret != nil {
		ty, ok := rewriteType(ctx, c.Ret, paramShape)
		if !ok {
			return "", false
		}
		ret = "-> " + ty
	}

	items := lists.Itemize(lists.Source[*syntax.ClosureParam]{
		File:       ctx.File,
		Items:      c.Params,
		Separator:  ",",
		Terminator: "|",
		Lo:         func(p *syntax.ClosureParam) int { return attrsLo(p.Attrs, p.Sp.Lo) },
		Hi:         spanHi[*syntax.ClosureParam],
		Render: func(p *syntax.ClosureParam) (string, bool) {
			return rewriteClosureParam(ctx, p, paramShape)
		},
		Start: c.ParamsSp.Lo + 1,
		End:   max(c.ParamsSp.Lo+1, c.ParamsSp.Hi-1),
	})
	budget := max(0, nested.Width-len(ret)-1)
	tactic := lists.DefinitiveTactic(items, lists.HorizontalVertical, ",", budget)
	listShape := paramShape
	if tactic == lists.Horizontal {
		if listShape, ok = paramShape.SubWidth(len(ret) + 1); !ok {
			return "", false
		}
	} else {
		listShape = nested.VisualIndent(1)
	}
	f := lists.NewFormatting(listShape, ctx.Config)
	f.Tactic = tactic
	f.PreserveNewline = true
	f.EndsWithNewline = false
	list, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}

	prefix := head + "|" + list + "|"
	if ret != "" {
		if shape.IsMultiline(prefix) {
			prefix += nested.Indent.AddWidth(1).StringWithNewline(ctx.Config)
		} else {
			prefix += " "
		}
		prefix += ret
	}
	return prefix, true
}

func rewriteClosureParam(ctx *RewriteContext, p *syntax.ClosureParam, sh shape.Shape) (string, bool) {
	attrs := rewriteOuterAttrs(ctx, p.Attrs, sh, true)
	pat, ok := rewritePat(ctx, p.Pat, sh)
	if !ok {
		return "", false
	}
	text := attrs + pat
	if p.Type != nil {
		tyShape, ok := shapeAfter(ctx, sh, text+": ", 0)
		if !ok {
			return "", false
		}
		ty, ok := rewriteType(ctx, p.Type, tyShape)
		if !ok {
			return "", false
		}
		text += ": " + ty
	}
	return text, true
}

// closureInnerExpr strips braces around a single expression as long as
// nothing but the expression lives inside them.
func closureInnerExpr(ctx *RewriteContext, be *syntax.BlockExpr, prefix string) (syntax.Expr, bool) {
	if shape.IsMultiline(prefix) {
		return nil, false
	}
	x, ok := simpleBlockExpr(ctx, be.Block)
	if !ok {
		return nil, false
	}
	if nested, ok := x.(*syntax.BlockExpr); ok && nested.Label == "" && nested.Rules == syntax.BlockDefault {
		if inner, ok := closureInnerExpr(ctx, nested, prefix); ok {
			return inner, true
		}
		return nil, false
	}
	return x, true
}

func rewriteClosureBody(ctx *RewriteContext, e syntax.Expr, prefix string, sh, bodyShape shape.Shape) (string, bool) {
	if !ctx.insideMacro && blockClosureForced(e) {
		return rewriteClosureWithBlock(ctx, e, prefix, sh)
	}
	text, ok := rewriteExpr(ctx, e, bodyShape)
	if !ok {
		return "", false
	}
	veto := (!closureAllowsMultiline(e) && !ctx.insideMacro) || ctx.Config.ForceMultilineBlocks
	if veto && shape.IsMultiline(text) {
		return "", false
	}
	return prefix + " " + text, true
}

// rewriteClosureWithBlock wraps an expression body in a block.
func rewriteClosureWithBlock(ctx *RewriteContext, e syntax.Expr, prefix string, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	outer := sh.Indent.BlockOnly()
	inner := outer.BlockIndentBy(cfg)
	text, ok := formatExpr(ctx, e, stmtExpr, shape.Indented(inner, cfg))
	if !ok {
		return "", false
	}
	return prefix + " {" + inner.StringWithNewline(cfg) + text + outer.StringWithNewline(cfg) + "}", true
}

func blockClosureForced(e syntax.Expr) bool {
	switch x := e.(type) {
	case *syntax.IfExpr, *syntax.WhileExpr, *syntax.ForExpr, *syntax.LoopExpr:
		return true
	case *syntax.RefExpr:
		return blockClosureForced(x.X)
	case *syntax.UnaryExpr:
		return blockClosureForced(x.X)
	case *syntax.TryExpr:
		return blockClosureForced(x.X)
	case *syntax.CastExpr:
		return blockClosureForced(x.X)
	}
	return false
}

// closureAllowsMultiline reports bodies that may span several lines
// without braces around them.
func closureAllowsMultiline(e syntax.Expr) bool {
	switch x := e.(type) {
	case *syntax.MatchExpr, *syntax.BlockExpr, *syntax.LoopExpr, *syntax.StructExpr:
		return true
	case *syntax.RefExpr:
		return closureAllowsMultiline(x.X)
	case *syntax.UnaryExpr:
		return closureAllowsMultiline(x.X)
	case *syntax.TryExpr:
		return closureAllowsMultiline(x.X)
	case *syntax.CastExpr:
		return closureAllowsMultiline(x.X)
	}
	return false
}

