package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// macroPos is where a macro call appears; it decides which rewrites of
// the call are allowed.
type macroPos uint8

const (
	macroExprPos macroPos = iota
	macroStmtPos
	macroItemPos
	macroTypePos
	macroPatPos
)

func macroName(ctx *RewriteContext, mac *syntax.MacCall) string {
	return strings.Join(strings.Fields(ctx.snippet(mac.Path.Sp)), "") + "!"
}

// rewriteMacro renders a macro call. Arguments in parentheses or brackets
// are formatted like call arguments or array elements when they parse as
// expressions; otherwise, and for braced calls, the source is kept and
// only moved to the current indentation.
func rewriteMacro(ctx *RewriteContext, mac *syntax.MacCall, pos macroPos, sh shape.Shape) (string, bool) {
	src := ctx.snippet(mac.Sp)
	segs := mac.Path.Segments
	if len(segs) > 0 && ctx.skipMacros[segs[len(segs)-1].Name.Name] {
		ctx.markVerbatim(src)
		return src, true
	}
	if text, ok := rewriteMacroInner(ctx, mac, pos, sh); ok {
		return text, true
	}
	text := reindent(ctx, src, sourceIndent(ctx, mac.Sp.Lo), sh.Indent.BlockOnly())
	ctx.markMacroFailed(mac.Sp.Lo, macroName(ctx, mac), text)
	return text, true
}

func rewriteMacroInner(ctx *RewriteContext, mac *syntax.MacCall, pos macroPos, sh shape.Shape) (string, bool) {
	name := macroName(ctx, mac)
	if mac.Delim == syntax.DelimBrace {
		body := ctx.snippet(syntax.Sp(mac.Inner.Lo-1, mac.Inner.Hi+1))
		text := name + " " + reindent(ctx, body, sourceIndent(ctx, mac.Sp.Lo), sh.Indent.BlockOnly())
		ctx.markVerbatim(text)
		return text, true
	}

	args, err := syntax.ParseMacroArgs(ctx.File, mac.Inner)
	if err != nil {
		return "", false
	}
	mctx := ctx.inMacro()

	if name == "try!" && ctx.Config.UseTryShorthand && len(args.Exprs) == 1 &&
		(pos == macroExprPos || pos == macroStmtPos) {
		inner, ok := sh.SubWidth(1)
		if !ok {
			return "", false
		}
		text, ok := rewriteExpr(ctx, args.Exprs[0], inner)
		if !ok {
			return "", false
		}
		return text + "?", true
	}

	if args.Separator == ";" && len(args.Exprs) == 2 {
		return rewriteRepeatMacro(mctx, name, mac.Delim, args, sh)
	}

	opts := delimOpts{
		open:        mac.Delim.Open(),
		close:       mac.Delim.Close(),
		maxWidth:    ctx.Widths.FnCall,
		hasTrailing: true,
		trailing:    lists.SeparatorNever,
	}
	if args.TrailingSep {
		opts.trailing = lists.SeparatorAlways
	}
	if mac.Delim == syntax.DelimBracket {
		opts.maxWidth = ctx.Widths.Array
		opts.mixed = true
	}
	span := syntax.Sp(mac.Inner.Lo-1, mac.Inner.Hi+1)
	return rewriteDelimited(mctx, name, exprList(mctx, args.Exprs, span), opts, sh)
}

// rewriteRepeatMacro renders `vec![elem; count]`.
func rewriteRepeatMacro(ctx *RewriteContext, name string, delim syntax.MacDelim, args *syntax.MacroArgs, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	open, closeDelim := delim.Open(), delim.Close()
	if inner, ok := sh.OffsetLeft(len(name) + len(open)); ok {
		if inner, ok = inner.SubWidth(len(closeDelim)); ok {
			elem, ok1 := rewriteExpr(ctx, args.Exprs[0], inner)
			count, ok2 := rewriteExpr(ctx, args.Exprs[1], inner)
			if ok1 && ok2 {
				one := name + open + elem + "; " + count + closeDelim
				if !shape.IsMultiline(one) && shape.TextWidth(one) <= sh.Width {
					return one, true
				}
			}
		}
	}
	nested := ctx.nestedShape(sh)
	elem, ok := rewriteExpr(ctx, args.Exprs[0], shrink(nested, 1))
	if !ok {
		return "", false
	}
	count, ok := rewriteExpr(ctx, args.Exprs[1], nested)
	if !ok {
		return "", false
	}
	nl := nested.Indent.StringWithNewline(cfg)
	return name + open + nl + elem + ";" + nl + count + sh.Indent.BlockOnly().StringWithNewline(cfg) + closeDelim, true
}
