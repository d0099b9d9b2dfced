package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func rewriteType(ctx *RewriteContext, t syntax.Type, sh shape.Shape) (string, bool) {
	switch x := t.(type) {
	case *syntax.PathType:
		return rewritePath(ctx, x.QSelf, x.Path, sh)
	case *syntax.RefType:
		prefix := "&"
		if x.Lifetime != "" {
			prefix += x.Lifetime + " "
		}
		if x.Mut {
			prefix += "mut "
		}
		return rewriteTypeWrapped(ctx, prefix, x.Elem, "", sh)
	case *syntax.PtrType:
		prefix := "*const "
		if x.Mut {
			prefix = "*mut "
		}
		return rewriteTypeWrapped(ctx, prefix, x.Elem, "", sh)
	case *syntax.SliceType:
		return rewriteTypeWrapped(ctx, "[", x.Elem, "]", sh)
	case *syntax.ParenType:
		return rewriteTypeWrapped(ctx, "(", x.Elem, ")", sh)
	case *syntax.ArrayType:
		return rewritePair(ctx, pairParts{prefix: "[", infix: "; ", suffix: "]"},
			func(s shape.Shape) (string, bool) { return rewriteType(ctx, x.Elem, s) },
			func(s shape.Shape) (string, bool) { return rewriteExpr(ctx, x.Len, s) },
			sh, config.SeparatorBack)
	case *syntax.TupleType:
		return rewriteDelimited(ctx, "", typeList(ctx, x.Elems, x.Sp), delimOpts{
			open: "(", close: ")", maxWidth: ctx.Config.MaxWidth, forceSingleTrailing: true,
		}, sh)
	case *syntax.FnPtrType:
		return rewriteFnPtr(ctx, x, sh)
	case *syntax.ImplTraitType:
		return rewriteBoundsAfter(ctx, "impl ", x.Bounds, sh)
	case *syntax.DynTraitType:
		prefix := ""
		if strings.HasPrefix(ctx.snippet(x.Sp), "dyn") {
			prefix = "dyn "
		}
		return rewriteBoundsAfter(ctx, prefix, x.Bounds, sh)
	case *syntax.InferType:
		return wrapStr(ctx, "_", sh)
	case *syntax.NeverType:
		return wrapStr(ctx, "!", sh)
	case *syntax.MacType:
		return rewriteMacro(ctx, x.Mac, macroTypePos, sh)
	}
	return "", false
}

// rewriteTypeWrapped renders prefix + t + suffix.
func rewriteTypeWrapped(ctx *RewriteContext, prefix string, t syntax.Type, suffix string, sh shape.Shape) (string, bool) {
	inner, ok := sh.OffsetLeft(len(prefix))
	if ok {
		inner, ok = inner.SubWidth(len(suffix))
	}
	if !ok {
		return "", false
	}
	text, ok := rewriteType(ctx, t, inner)
	if !ok {
		return "", false
	}
	return prefix + text + suffix, true
}

func typeList(ctx *RewriteContext, types []syntax.Type, span syntax.Span) delimited[syntax.Type] {
	return delimited[syntax.Type]{
		items: types,
		span:  span,
		render: func(t syntax.Type, sh shape.Shape) (string, bool) {
			return rewriteType(ctx, t, sh)
		},
	}
}

// rewritePath renders a path, with its generic arguments, in expression,
// pattern or type position.
func rewritePath(ctx *RewriteContext, qself *syntax.QSelf, path *syntax.Path, sh shape.Shape) (string, bool) {
	result := ""
	if qself != nil {
		inner, ok := sh.OffsetLeft(1)
		if !ok {
			return "", false
		}
		ty, ok := rewriteType(ctx, qself.Type, inner)
		if !ok {
			return "", false
		}
		result = "<" + ty
		if qself.Trait != nil {
			result, ok = rewriteSegments(ctx, result+" as ", qself.Trait, false, sh)
			if !ok {
				return "", false
			}
		}
		result += ">"
	}
	return rewriteSegments(ctx, result, path, qself != nil, sh)
}

// rewriteSegments appends the segments of path to prefix. qualified puts a
// `::` before the first segment, as after `<T as Trait>`.
func rewriteSegments(ctx *RewriteContext, prefix string, path *syntax.Path, qualified bool, sh shape.Shape) (string, bool) {
	result := prefix
	if path.Global {
		result += "::"
	}
	for i, seg := range path.Segments {
		if i > 0 || qualified {
			result += "::"
		}
		result += seg.Name.Name
		if seg.Args == nil {
			continue
		}
		var ok bool
		result, ok = rewriteGenericArgs(ctx, result, seg.Args, sh)
		if !ok {
			return "", false
		}
	}
	return wrapStr(ctx, result, sh)
}

func rewriteGenericArgs(ctx *RewriteContext, callee string, args *syntax.GenericArgs, sh shape.Shape) (string, bool) {
	if args.Parenthesized {
		return rewriteParenArgs(ctx, callee, args, sh)
	}
	if args.Turbofish {
		callee += "::"
	}
	return rewriteDelimited(ctx, callee, delimited[*syntax.GenericArg]{
		items: args.Args,
		span:  args.Sp,
		render: func(arg *syntax.GenericArg, s shape.Shape) (string, bool) {
			return rewriteGenericArg(ctx, arg, s)
		},
	}, delimOpts{open: "<", close: ">", maxWidth: ctx.Config.MaxWidth}, sh)
}

// rewriteParenArgs renders the `(A, B) -> C` arguments of an Fn-family
// bound.
func rewriteParenArgs(ctx *RewriteContext, callee string, args *syntax.GenericArgs, sh shape.Shape) (string, bool) {
	span := args.Sp
	if args.Output != nil {
		head := ctx.snippet(syntax.Sp(span.Lo, args.Output.Span().Lo))
		span.Hi = span.Lo + strings.LastIndexByte(head, ')') + 1
	}
	text, ok := rewriteDelimited(ctx, callee, typeList(ctx, args.Inputs, span), delimOpts{
		open: "(", close: ")", maxWidth: ctx.Widths.FnCall,
	}, sh)
	if !ok || args.Output == nil {
		return text, ok
	}
	after, ok := shapeAfter(ctx, sh, text+" -> ", 0)
	if !ok {
		return "", false
	}
	out, ok := rewriteType(ctx, args.Output, after)
	if !ok {
		return "", false
	}
	return text + " -> " + out, true
}

func rewriteGenericArg(ctx *RewriteContext, arg *syntax.GenericArg, sh shape.Shape) (string, bool) {
	switch arg.Kind {
	case syntax.ArgLifetime:
		return wrapStr(ctx, arg.Lifetime, sh)
	case syntax.ArgConst:
		return rewriteExpr(ctx, arg.Const, sh)
	case syntax.ArgBinding:
		return rewriteTypeWrapped(ctx, arg.Name.Name+" = ", arg.Type, "", sh)
	case syntax.ArgConstraint:
		return rewriteBoundsAfter(ctx, arg.Name.Name+": ", arg.Bounds, sh)
	default:
		return rewriteType(ctx, arg.Type, sh)
	}
}

func forLifetimes(lifetimes []string) string {
	if len(lifetimes) == 0 {
		return ""
	}
	return "for<" + strings.Join(lifetimes, ", ") + "> "
}

func rewriteBound(ctx *RewriteContext, b *syntax.GenericBound, sh shape.Shape) (string, bool) {
	if b.Trait == nil {
		return wrapStr(ctx, b.Lifetime, sh)
	}
	prefix := forLifetimes(b.ForLifetimes)
	if b.Maybe {
		prefix = "?" + prefix
	}
	suffix := ""
	if b.Paren {
		prefix = "(" + prefix
		suffix = ")"
	}
	inner, ok := sh.OffsetLeft(len(prefix))
	if ok {
		inner, ok = inner.SubWidth(len(suffix))
	}
	if !ok {
		return "", false
	}
	path, ok := rewritePath(ctx, nil, b.Trait, inner)
	if !ok {
		return "", false
	}
	return prefix + path + suffix, true
}

// rewriteBoundsAfter renders prefix followed by bounds joined with `+`.
// Bounds that do not fit on one line continue on block-indented lines
// starting with `+`.
func rewriteBoundsAfter(ctx *RewriteContext, prefix string, bounds []*syntax.GenericBound, sh shape.Shape) (string, bool) {
	inner, ok := sh.OffsetLeft(len(prefix))
	if !ok {
		return "", false
	}
	parts := make([]string, 0, len(bounds))
	for _, b := range bounds {
		text, ok := rewriteBound(ctx, b, inner)
		if !ok {
			return "", false
		}
		parts = append(parts, text)
	}
	one := prefix + strings.Join(parts, " + ")
	if !shape.IsMultiline(one) && shape.TextWidth(one) <= sh.Width {
		return one, true
	}
	cont := sh.Indent.BlockOnly().BlockIndentBy(ctx.Config).StringWithNewline(ctx.Config) + "+ "
	return prefix + strings.Join(parts, cont), true
}

func rewriteFnPtr(ctx *RewriteContext, fp *syntax.FnPtrType, sh shape.Shape) (string, bool) {
	prefix := forLifetimes(fp.ForLifetimes)
	if fp.Unsafe {
		prefix += "unsafe "
	}
	if fp.Extern {
		prefix += "extern "
		if fp.Abi != "" {
			prefix += fp.Abi + " "
		}
	}
	prefix += "fn"
	text, ok := rewriteDelimited(ctx, prefix, delimited[*syntax.Param]{
		items: fp.Params,
		span:  fp.ParamsSp,
		render: func(p *syntax.Param, s shape.Shape) (string, bool) {
			return rewriteParam(ctx, p, s)
		},
	}, delimOpts{open: "(", close: ")", maxWidth: ctx.Widths.FnCall}, sh)
	if !ok || fp.Ret == nil {
		return text, ok
	}
	return rewriteReturnType(ctx, text, fp.Ret, sh)
}

// rewriteReturnType appends ` -> T` to head.
func rewriteReturnType(ctx *RewriteContext, head string, ret syntax.Type, sh shape.Shape) (string, bool) {
	after, ok := shapeAfter(ctx, sh, head+" -> ", 0)
	if !ok {
		return "", false
	}
	ty, ok := rewriteType(ctx, ret, after)
	if !ok {
		return "", false
	}
	return head + " -> " + ty, true
}

// rewriteGenericParams appends the `<...>` parameter list of g to head.
func rewriteGenericParams(ctx *RewriteContext, head string, g *syntax.Generics, sh shape.Shape) (string, bool) {
	if g == nil || len(g.Params) == 0 {
		return head, true
	}
	return rewriteDelimited(ctx, head, delimited[*syntax.GenericParam]{
		items: g.Params,
		span:  g.Sp,
		render: func(p *syntax.GenericParam, s shape.Shape) (string, bool) {
			return rewriteGenericParam(ctx, p, s)
		},
	}, delimOpts{open: "<", close: ">", maxWidth: ctx.Config.MaxWidth}, sh)
}

func rewriteGenericParam(ctx *RewriteContext, p *syntax.GenericParam, sh shape.Shape) (string, bool) {
	prefix := rewriteOuterAttrs(ctx, p.Attrs, sh, true)
	switch p.Kind {
	case syntax.ParamConst:
		result, ok := rewriteTypeWrapped(ctx, prefix+"const "+p.Name.Name+": ", p.ConstType, "", sh)
		if !ok || p.ConstDefault == nil {
			return result, ok
		}
		return rewriteAssignRHS(ctx, result+" =", p.ConstDefault, sh)
	default:
		result := prefix + p.Name.Name
		if len(p.Bounds) > 0 {
			var ok bool
			result, ok = rewriteBoundsAfter(ctx, result+": ", p.Bounds, sh)
			if !ok {
				return "", false
			}
		}
		if p.Default == nil {
			return result, true
		}
		after, ok := shapeAfter(ctx, sh, result+" = ", 0)
		if !ok {
			return "", false
		}
		ty, ok := rewriteType(ctx, p.Default, after)
		if !ok {
			return "", false
		}
		return result + " = " + ty, true
	}
}

// rewriteWhereClause renders a where clause on the lines following the
// signature it belongs to, one predicate per line. It returns "" when
// there is nothing to render. noComma drops the trailing comma of an item
// closed by `;` right after the clause.
func rewriteWhereClause(ctx *RewriteContext, g *syntax.Generics, sh shape.Shape, noComma bool) (string, bool) {
	if g == nil || g.Where == nil || len(g.Where.Predicates) == 0 {
		return "", true
	}
	cfg := ctx.Config
	where := g.Where
	indent := sh.Indent.BlockOnly()
	nested := shape.Indented(indent.BlockIndentBy(cfg), cfg)
	render := func(p *syntax.WherePredicate) (string, bool) { return rewriteWherePredicate(ctx, p, nested) }

	items := lists.Itemize(lists.Source[*syntax.WherePredicate]{
		File:       ctx.File,
		Items:      where.Predicates,
		Separator:  ",",
		Terminator: "{",
		Lo:         spanLo[*syntax.WherePredicate],
		Hi:         spanHi[*syntax.WherePredicate],
		Render:     render,
		Start:      where.Sp.Lo + len("where"),
		End:        where.Sp.Hi,
	})

	if cfg.WhereSingleLine && len(items) == 1 && !items[0].HasComment() && !items[0].Refused {
		one := "where " + items[0].Item
		if !shape.IsMultiline(one) && shape.TextWidth(one) <= sh.Width {
			return indent.StringWithNewline(cfg) + one, true
		}
	}

	f := lists.NewFormatting(nested, cfg)
	f.Tactic = lists.Vertical
	f.Trailing = lists.TrailingFromConfig(cfg.TrailingComma)
	if noComma {
		f.Trailing = lists.SeparatorNever
	}
	list, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}
	return indent.StringWithNewline(cfg) + "where" + nested.Indent.StringWithNewline(cfg) + list, true
}

func rewriteWherePredicate(ctx *RewriteContext, p *syntax.WherePredicate, sh shape.Shape) (string, bool) {
	if p.Type == nil {
		return rewriteBoundsAfter(ctx, p.Lifetime+": ", p.Bounds, sh)
	}
	prefix := forLifetimes(p.ForLifetimes)
	inner, ok := sh.OffsetLeft(len(prefix))
	if !ok {
		return "", false
	}
	ty, ok := rewriteType(ctx, p.Type, inner)
	if !ok {
		return "", false
	}
	return rewriteBoundsAfter(ctx, prefix+ty+": ", p.Bounds, sh)
}
