package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// rewriteItem renders an item that has no body of inner items. lo is the
// first offset after the item's outer attributes.
func rewriteItem(ctx *RewriteContext, item syntax.Item, lo int, sh shape.Shape) (string, bool) {
	switch it := item.(type) {
	case *syntax.UseItem:
		return rewriteUse(ctx, it, sh)
	case *syntax.ExternCrateItem:
		text := visibilityStr(it.Vis) + "extern crate " + it.Name.Name
		if it.Rename != nil {
			text += " as " + it.Rename.Name
		}
		return text + ";", true
	case *syntax.ModItem:
		if it.Inline {
			return "", false
		}
		head, _ := rewriteModHeader(ctx, it, lo, sh)
		return head + ";", true
	case *syntax.FnItem:
		if it.Body != nil {
			return "", false
		}
		return rewriteFnDecl(ctx, it, sh)
	case *syntax.StructItem:
		return rewriteStruct(ctx, it, sh)
	case *syntax.EnumItem:
		return rewriteEnum(ctx, it, sh)
	case *syntax.ConstItem:
		head := visibilityStr(it.Vis)
		if it.Default {
			head += "default "
		}
		return rewriteStatic(ctx, head+"const "+it.Name.Name, it.Type, it.Value, sh)
	case *syntax.StaticItem:
		head := visibilityStr(it.Vis) + "static "
		if it.Mut {
			head += "mut "
		}
		return rewriteStatic(ctx, head+it.Name.Name, it.Type, it.Value, sh)
	case *syntax.TypeAliasItem:
		return rewriteTypeAlias(ctx, it, sh)
	case *syntax.MacroRulesItem:
		return rewriteMacroRules(ctx, it, lo, sh), true
	case *syntax.MacItem:
		text, ok := rewriteMacro(ctx, it.Mac, macroItemPos, sh)
		if !ok {
			return "", false
		}
		if it.Semi {
			text += ";"
		}
		return text, true
	}
	return "", false
}

func unsafeStr(unsafe bool) string {
	if unsafe {
		return "unsafe "
	}
	return ""
}

func rewriteModHeader(_ *RewriteContext, item syntax.Item, _ int, _ shape.Shape) (string, bool) {
	m, ok := item.(*syntax.ModItem)
	if !ok {
		return "", false
	}
	return visibilityStr(m.Vis) + unsafeStr(m.Unsafe) + "mod " + m.Name.Name, true
}

func rewriteTraitHeader(ctx *RewriteContext, item syntax.Item, _ int, sh shape.Shape) (string, bool) {
	t, ok := item.(*syntax.TraitItem)
	if !ok {
		return "", false
	}
	head := visibilityStr(t.Vis) + unsafeStr(t.Unsafe)
	if t.Auto {
		head += "auto "
	}
	head, ok = rewriteGenericParams(ctx, head+"trait "+t.Name.Name, t.Generics, sh)
	if !ok {
		return "", false
	}
	if len(t.Bounds) > 0 {
		if head, ok = rewriteBoundsAfter(ctx, head+": ", t.Bounds, sh); !ok {
			return "", false
		}
	}
	where, ok := rewriteWhereClause(ctx, t.Generics, sh, false)
	if !ok {
		return "", false
	}
	return head + where, true
}

// rewriteImplHeader renders `impl<T> Trait for Type`, moving `for Type`
// to a block-indented line when the header is too long.
func rewriteImplHeader(ctx *RewriteContext, item syntax.Item, _ int, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	im, ok := item.(*syntax.ImplItem)
	if !ok {
		return "", false
	}
	head := ""
	if im.Default {
		head += "default "
	}
	head, ok = rewriteGenericParams(ctx, head+unsafeStr(im.Unsafe)+"impl", im.Generics, sh)
	if !ok {
		return "", false
	}
	where, ok := rewriteWhereClause(ctx, im.Generics, sh, false)
	if !ok {
		return "", false
	}
	reserve := 2
	if where != "" {
		reserve = 0
	}

	if im.Trait == nil {
		ts, ok := shapeAfter(ctx, sh, head+" ", reserve)
		if !ok {
			return "", false
		}
		ty, ok := rewriteType(ctx, im.SelfType, ts)
		if !ok {
			return "", false
		}
		return head + " " + ty + where, true
	}

	neg := ""
	if im.Negative {
		neg = "!"
	}
	ps, ok := shapeAfter(ctx, sh, head+" "+neg, 0)
	if !ok {
		return "", false
	}
	trait, ok := rewritePath(ctx, nil, im.Trait, ps)
	if !ok {
		return "", false
	}
	head += " " + neg + trait

	if ts, ok := shapeAfter(ctx, sh, head+" for ", reserve); ok {
		if ty, ok := rewriteType(ctx, im.SelfType, ts); ok && !shape.IsMultiline(ty) {
			return head + " for " + ty + where, true
		}
	}
	indent := sh.Indent.BlockOnly().BlockIndentBy(cfg)
	ts, ok := shape.Indented(indent, cfg).OffsetLeft(len("for "))
	if ok {
		ts, ok = ts.SubWidth(reserve)
	}
	if !ok {
		return "", false
	}
	ty, ok := rewriteType(ctx, im.SelfType, ts)
	if !ok {
		return "", false
	}
	return head + indent.StringWithNewline(cfg) + "for " + ty + where, true
}

func rewriteExternBlockHeader(_ *RewriteContext, item syntax.Item, _ int, _ shape.Shape) (string, bool) {
	eb, ok := item.(*syntax.ExternBlockItem)
	if !ok {
		return "", false
	}
	head := unsafeStr(eb.Unsafe) + "extern"
	if eb.Abi != "" {
		head += " " + eb.Abi
	}
	return head, true
}

func itemGenerics(item syntax.Item) *syntax.Generics {
	switch it := item.(type) {
	case *syntax.TraitItem:
		return it.Generics
	case *syntax.ImplItem:
		return it.Generics
	case *syntax.StructItem:
		return it.Generics
	case *syntax.EnumItem:
		return it.Generics
	case *syntax.FnItem:
		return it.Sig.Generics
	case *syntax.TypeAliasItem:
		return it.Generics
	}
	return nil
}

func hasWhereClause(item syntax.Item) bool {
	g := itemGenerics(item)
	return g != nil && g.Where != nil && len(g.Where.Predicates) > 0
}

// fnQualifiers renders everything of a function header before its name.
func fnQualifiers(fn *syntax.FnItem) string {
	var sb strings.Builder
	sb.WriteString(visibilityStr(fn.Vis))
	if fn.Default {
		sb.WriteString("default ")
	}
	sig := fn.Sig
	if sig.Const {
		sb.WriteString("const ")
	}
	if sig.Async {
		sb.WriteString("async ")
	}
	sb.WriteString(unsafeStr(sig.Unsafe))
	if sig.Extern {
		sb.WriteString("extern ")
		if sig.Abi != "" {
			sb.WriteString(sig.Abi + " ")
		}
	}
	sb.WriteString("fn ")
	return sb.String()
}

// rewriteFnSig renders a function signature up to the opening brace of
// its body.
func rewriteFnSig(ctx *RewriteContext, fn *syntax.FnItem, sh shape.Shape) (string, bool) {
	return rewriteFnBase(ctx, fn, len(" {"), sh)
}

// rewriteFnDecl renders a function without a body, as found in traits and
// extern blocks.
func rewriteFnDecl(ctx *RewriteContext, fn *syntax.FnItem, sh shape.Shape) (string, bool) {
	sig, ok := rewriteFnBase(ctx, fn, len(";"), sh)
	if !ok {
		return "", false
	}
	return sig + ";", true
}

// rewriteSingleLineFn renders `fn f() -> T { expr }` when the body is a
// lone expression and the whole function fits on one line.
func rewriteSingleLineFn(ctx *RewriteContext, fn *syntax.FnItem, sh shape.Shape) (string, bool) {
	if hasWhereClause(fn) || ctx.Config.BraceStyle == config.BraceAlwaysNextLine {
		return "", false
	}
	sig, ok := rewriteFnSig(ctx, fn, sh)
	if !ok || shape.IsMultiline(sig) {
		return "", false
	}
	if blockIsEmpty(ctx, fn.Body) {
		return sig + " {}", true
	}
	x, ok := simpleBlockExpr(ctx, fn.Body)
	if !ok {
		return "", false
	}
	budget := sh.Width - shape.TextWidth(sig) - len(" {  }")
	if budget <= 0 {
		return "", false
	}
	body, ok := rewriteExpr(ctx, x, shape.Legacy(budget, shape.Empty()))
	if !ok || shape.IsMultiline(body) {
		return "", false
	}
	return sig + " { " + body + " }", true
}

// rewriteFnBase renders the header, parameters, return type and where
// clause of fn. suffix is the width of what follows the signature on its
// last line.
func rewriteFnBase(ctx *RewriteContext, fn *syntax.FnItem, suffix int, sh shape.Shape) (string, bool) {
	sig := fn.Sig
	head, ok := rewriteGenericParams(ctx, fnQualifiers(fn)+fn.Name.Name, sig.Generics, sh)
	if !ok {
		return "", false
	}
	where, ok := rewriteWhereClause(ctx, sig.Generics, sh, fn.Body == nil)
	if !ok {
		return "", false
	}
	if where != "" {
		suffix = 0
	}
	params, ok := rewriteFnParams(ctx, sig, head, suffix, sh)
	if !ok {
		return "", false
	}
	return params + where, true
}

func itemizeParams(ctx *RewriteContext, sig *syntax.FnSig, sh shape.Shape) []lists.ListItem {
	return lists.Itemize(lists.Source[*syntax.Param]{
		File:       ctx.File,
		Items:      sig.Params,
		Separator:  ",",
		Terminator: ")",
		Lo:         func(p *syntax.Param) int { return attrsLo(p.Attrs, p.Sp.Lo) },
		Hi:         spanHi[*syntax.Param],
		Render: func(p *syntax.Param) (string, bool) {
			return rewriteParam(ctx, p, sh)
		},
		Start: sig.ParamsSp.Lo + 1,
		End:   max(sig.ParamsSp.Lo+1, sig.ParamsSp.Hi-1),
	})
}

// rewriteFnParams appends the parameter list and return type to head. The
// parameters stay on the header line when everything fits; otherwise they
// go on block-indented lines laid out as fn_params_layout says, and the
// return type follows the closing parenthesis.
func rewriteFnParams(ctx *RewriteContext, sig *syntax.FnSig, head string, suffix int, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	inner := ctx.snippet(syntax.Sp(sig.ParamsSp.Lo+1, max(sig.ParamsSp.Lo+1, sig.ParamsSp.Hi-1)))
	if len(sig.Params) == 0 && !comment.ContainsComment(inner) {
		return withReturnType(ctx, head+"()", sig, suffix, sh)
	}

	forceVertical := cfg.FnParamsLayout == config.ParamsVertical && len(sig.Params) > 1
	if !forceVertical {
		if oneShape, ok := shapeAfter(ctx, sh, head+"(", 1); ok {
			items := itemizeParams(ctx, sig, oneShape)
			if lists.DefinitiveTactic(items, lists.HorizontalVertical, ",", oneShape.Width) == lists.Horizontal {
				f := lists.NewFormatting(oneShape, cfg)
				f.EndsWithNewline = false
				if list, ok := lists.WriteList(items, f); ok {
					text, ok := withReturnType(ctx, head+"("+list+")", sig, suffix, sh)
					if ok && !shape.IsMultiline(text[len(head):]) {
						return text, true
					}
				}
			}
		}
	}

	indent := sh.Indent.BlockOnly()
	nested := shape.Indented(indent.BlockIndentBy(cfg), cfg)
	items := itemizeParams(ctx, sig, nested)
	f := lists.NewFormatting(nested, cfg)
	f.Tactic = lists.Vertical
	if cfg.FnParamsLayout == config.ParamsCompressed {
		f.Tactic = lists.DefinitiveTactic(items, lists.Mixed, ",", nested.Width)
	}
	f.Trailing = lists.TrailingFromConfig(cfg.TrailingComma)
	if f.Tactic != lists.Vertical && cfg.TrailingComma != config.TrailingNever {
		f.Trailing = lists.SeparatorAlways
	}
	if len(sig.Params) > 0 && sig.Params[len(sig.Params)-1].Variadic {
		f.Trailing = lists.SeparatorNever
	}
	f.PreserveNewline = true
	list, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}
	text := head + "(" + nested.Indent.StringWithNewline(cfg) + list + indent.StringWithNewline(cfg) + ")"
	return withReturnType(ctx, text, sig, suffix, sh)
}

// withReturnType appends ` -> T`, refusing a result that leaves no room
// for suffix on its last line.
func withReturnType(ctx *RewriteContext, text string, sig *syntax.FnSig, suffix int, sh shape.Shape) (string, bool) {
	if sig.Ret != nil {
		var ok bool
		if text, ok = rewriteReturnType(ctx, text, sig.Ret, sh); !ok {
			return "", false
		}
	}
	limit := ctx.Config.MaxWidth - suffix
	if !shape.IsMultiline(text) {
		limit = sh.Width - suffix
	}
	if shape.LastLineWidth(text) > limit {
		return "", false
	}
	return text, true
}

// rewriteParam renders one function or fn pointer parameter.
func rewriteParam(ctx *RewriteContext, p *syntax.Param, sh shape.Shape) (string, bool) {
	attrs := rewriteOuterAttrs(ctx, p.Attrs, sh, true)
	if p.Self != nil {
		return rewriteSelfParam(ctx, attrs, p.Self, sh)
	}
	if p.Variadic {
		if p.Pat == nil {
			return attrs + "...", true
		}
		pat, ok := rewritePat(ctx, p.Pat, sh)
		if !ok {
			return "", false
		}
		return attrs + pat + ": ...", true
	}
	if p.Pat == nil {
		ty, ok := rewriteType(ctx, p.Type, sh)
		if !ok {
			return "", false
		}
		return attrs + ty, true
	}
	pat, ok := rewritePat(ctx, p.Pat, sh)
	if !ok {
		return "", false
	}
	return rewriteTypeWrapped(ctx, attrs+pat+": ", p.Type, "", sh)
}

func rewriteSelfParam(ctx *RewriteContext, attrs string, s *syntax.SelfParam, sh shape.Shape) (string, bool) {
	text := attrs
	if s.Ref {
		text += "&"
		if s.Lifetime != "" {
			text += s.Lifetime + " "
		}
	}
	if s.Mut {
		text += "mut "
	}
	text += "self"
	if s.Type == nil {
		return text, true
	}
	return rewriteTypeWrapped(ctx, text+": ", s.Type, "", sh)
}

// rewriteStatic renders `const` and `static` items: `head: Type = value;`.
func rewriteStatic(ctx *RewriteContext, head string, ty syntax.Type, value syntax.Expr, sh shape.Shape) (string, bool) {
	suffix := 1
	if value != nil {
		suffix = len(" =")
	}
	lhs, ok := rewriteTypeWrapped(ctx, head+": ", ty, "", sh)
	if !ok {
		return "", false
	}
	if !fitsShape(ctx, lhs, shrink(sh, suffix)) {
		return "", false
	}
	if value == nil {
		return lhs + ";", true
	}
	rhsShape, ok := sh.SubWidth(1)
	if !ok {
		return "", false
	}
	text, ok := rewriteAssignRHS(ctx, lhs+" =", value, rhsShape)
	if !ok {
		return "", false
	}
	return text + ";", true
}

func shrink(sh shape.Shape, n int) shape.Shape {
	if s, ok := sh.SubWidth(n); ok {
		return s
	}
	return shape.Shape{Indent: sh.Indent, Offset: sh.Offset}
}

// rewriteTypeAlias renders `type Name<T>: Bounds = Type;`. A where clause
// keeps its place before or after the aliased type.
func rewriteTypeAlias(ctx *RewriteContext, ta *syntax.TypeAliasItem, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	head := visibilityStr(ta.Vis)
	if ta.Default {
		head += "default "
	}
	head, ok := rewriteGenericParams(ctx, head+"type "+ta.Name.Name, ta.Generics, sh)
	if !ok {
		return "", false
	}
	if len(ta.Bounds) > 0 {
		if head, ok = rewriteBoundsAfter(ctx, head+": ", ta.Bounds, sh); !ok {
			return "", false
		}
	}
	whereFirst := ta.Type == nil ||
		(ta.Generics.Where != nil && ta.Generics.Where.Sp.Lo < ta.Type.Span().Lo)
	where, ok := rewriteWhereClause(ctx, ta.Generics, sh, !whereFirst || ta.Type == nil)
	if !ok {
		return "", false
	}
	if ta.Type == nil {
		return head + where + ";", true
	}
	if where != "" && whereFirst {
		indent := sh.Indent.BlockOnly()
		ts, ok := shape.Indented(indent, cfg).OffsetLeft(len("= "))
		if ok {
			ts, ok = ts.SubWidth(1)
		}
		if !ok {
			return "", false
		}
		ty, ok := rewriteType(ctx, ta.Type, ts)
		if !ok {
			return "", false
		}
		return head + where + indent.StringWithNewline(cfg) + "= " + ty + ";", true
	}
	rhsShape, ok := sh.SubWidth(1)
	if !ok {
		return "", false
	}
	text, ok := rewriteAssignRHSWith(ctx, head+" =", func(s shape.Shape) (string, bool) {
		return rewriteType(ctx, ta.Type, s)
	}, rhsShape)
	if !ok {
		return "", false
	}
	return text + where + ";", true
}

// rewriteMacroRules keeps a macro_rules! definition as written, moving it
// to the current indentation.
func rewriteMacroRules(ctx *RewriteContext, m *syntax.MacroRulesItem, lo int, sh shape.Shape) string {
	body := ctx.snippet(syntax.Sp(m.Inner.Lo-1, m.Inner.Hi+1))
	text := visibilityStr(m.Vis) + "macro_rules! " + m.Name.Name + " " +
		reindent(ctx, body, sourceIndent(ctx, lo), sh.Indent)
	if m.Semi {
		text += ";"
	}
	ctx.markVerbatim(text)
	return text
}

func rewriteStruct(ctx *RewriteContext, s *syntax.StructItem, sh shape.Shape) (string, bool) {
	kw := "struct "
	if s.Union {
		kw = "union "
	}
	head, ok := rewriteGenericParams(ctx, visibilityStr(s.Vis)+kw+s.Name.Name, s.Generics, sh)
	if !ok {
		return "", false
	}
	return rewriteVariantData(ctx, head, s.Kind, s.Fields, s.Body, s.Generics, 0, sh)
}

// rewriteVariantData renders the fields of a struct or enum variant after
// head, with the where clause of the item when it has one. oneLineWidth
// is how wide `{ a: A }` may get on the header line; zero keeps named
// fields on their own lines.
func rewriteVariantData(
	ctx *RewriteContext,
	head string,
	kind syntax.VariantKind,
	fields []*syntax.FieldDef,
	body syntax.Span,
	generics *syntax.Generics,
	oneLineWidth int,
	sh shape.Shape,
) (string, bool) {
	cfg := ctx.Config
	isItem := generics != nil
	switch kind {
	case syntax.VariantUnit:
		where, ok := rewriteWhereClause(ctx, generics, sh, true)
		if !ok {
			return "", false
		}
		if isItem {
			return head + where + ";", true
		}
		return head, true

	case syntax.VariantTuple:
		list, ok := rewriteDelimited(ctx, head, delimited[*syntax.FieldDef]{
			items: fields,
			span:  body,
			render: func(f *syntax.FieldDef, s shape.Shape) (string, bool) {
				return rewriteFieldDef(ctx, f, s, true)
			},
		}, delimOpts{open: "(", close: ")", maxWidth: ctx.Widths.FnCall}, shrink(sh, 1))
		if !ok {
			return "", false
		}
		if !isItem {
			return list, true
		}
		where, ok := rewriteWhereClause(ctx, generics, sh, true)
		if !ok {
			return "", false
		}
		return list + where + ";", true
	}

	where, ok := rewriteWhereClause(ctx, generics, sh, false)
	if !ok {
		return "", false
	}
	head += where
	brace := " {"
	if where != "" && cfg.BraceStyle != config.BracePreferSameLine || cfg.BraceStyle == config.BraceAlwaysNextLine && isItem {
		brace = sh.Indent.BlockOnly().StringWithNewline(cfg) + "{"
	}
	inner := ctx.snippet(syntax.Sp(body.Lo+1, max(body.Lo+1, body.Hi-1)))
	if len(fields) == 0 {
		if comment.ContainsComment(inner) {
			return "", false
		}
		return head + brace + "}", true
	}

	indent := sh.Indent.BlockOnly()
	nested := shape.Indented(indent.BlockIndentBy(cfg), cfg)
	if oneLineWidth > 0 && !shape.IsMultiline(head) {
		budget := min(oneLineWidth, sh.Width-shape.TextWidth(head)-len(" {  }"))
		if budget > 0 {
			items := itemizeFields(ctx, fields, body, shape.Legacy(budget, shape.Empty()), false)
			if lists.DefinitiveTactic(items, lists.Horizontal, ",", budget) == lists.Horizontal &&
				lists.OneLineWidth(items, ",") <= budget && !anyComment(items) {
				f := lists.NewFormatting(shape.Legacy(budget, shape.Empty()), cfg)
				f.EndsWithNewline = false
				if list, ok := lists.WriteList(items, f); ok && !shape.IsMultiline(list) {
					return head + " { " + list + " }", true
				}
			}
		}
	}

	fieldShape, ok := nested.SubWidth(1)
	if !ok {
		return "", false
	}
	items := itemizeFields(ctx, fields, body, fieldShape, false)
	f := lists.NewFormatting(nested, cfg)
	f.Tactic = lists.Vertical
	f.Trailing = lists.TrailingFromConfig(cfg.TrailingComma)
	f.PreserveNewline = true
	list, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}
	return head + brace + nested.Indent.StringWithNewline(cfg) + list + indent.StringWithNewline(cfg) + "}", true
}

func anyComment(items []lists.ListItem) bool {
	for _, li := range items {
		if li.HasComment() {
			return true
		}
	}
	return false
}

func itemizeFields(ctx *RewriteContext, fields []*syntax.FieldDef, body syntax.Span, sh shape.Shape, sameLine bool) []lists.ListItem {
	return lists.Itemize(lists.Source[*syntax.FieldDef]{
		File:       ctx.File,
		Items:      fields,
		Separator:  ",",
		Terminator: "}",
		Lo:         func(f *syntax.FieldDef) int { return attrsLo(f.Attrs, f.Sp.Lo) },
		Hi:         spanHi[*syntax.FieldDef],
		Render: func(f *syntax.FieldDef) (string, bool) {
			return rewriteFieldDef(ctx, f, sh, sameLine)
		},
		Start: body.Lo + 1,
		End:   max(body.Lo+1, body.Hi-1),
	})
}

// rewriteFieldDef renders `vis name: Type`, or `vis Type` for a positional
// field. Attributes of named fields go on their own lines.
func rewriteFieldDef(ctx *RewriteContext, f *syntax.FieldDef, sh shape.Shape, sameLine bool) (string, bool) {
	if hasSkipAttr(f.Attrs) {
		checkAttrs(ctx, f.Attrs)
		text := ctx.snippet(syntax.Sp(attrsLo(f.Attrs, f.Sp.Lo), f.Sp.Hi))
		ctx.markVerbatim(text)
		return text, true
	}
	prefix := rewriteOuterAttrs(ctx, f.Attrs, sh, sameLine || f.Name == nil) + visibilityStr(f.Vis)
	if f.Name != nil {
		prefix += f.Name.Name + ": "
	}
	if shape.IsMultiline(prefix) {
		last := prefix[strings.LastIndexByte(prefix, '\n')+1:]
		ty, ok := rewriteTypeWrapped(ctx, strings.TrimLeft(last, " \t"), f.Type, "", sh)
		if !ok {
			return "", false
		}
		return prefix[:len(prefix)-len(strings.TrimLeft(last, " \t"))] + ty, true
	}
	return rewriteTypeWrapped(ctx, prefix, f.Type, "", sh)
}

// rewriteEnum renders an enum with one variant per line. Struct variants
// stay on one line up to struct_variant_width.
func rewriteEnum(ctx *RewriteContext, e *syntax.EnumItem, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	head, ok := rewriteGenericParams(ctx, visibilityStr(e.Vis)+"enum "+e.Name.Name, e.Generics, sh)
	if !ok {
		return "", false
	}
	where, ok := rewriteWhereClause(ctx, e.Generics, sh, false)
	if !ok {
		return "", false
	}
	head += where
	indent := sh.Indent.BlockOnly()
	brace := " {"
	if where != "" && cfg.BraceStyle != config.BracePreferSameLine || cfg.BraceStyle == config.BraceAlwaysNextLine {
		brace = indent.StringWithNewline(cfg) + "{"
	}
	inner := ctx.snippet(syntax.Sp(e.Body.Lo+1, max(e.Body.Lo+1, e.Body.Hi-1)))
	if len(e.Variants) == 0 {
		if comment.ContainsComment(inner) {
			return "", false
		}
		return head + brace + "}", true
	}

	nested := shape.Indented(indent.BlockIndentBy(cfg), cfg)
	variantShape, ok := nested.SubWidth(1)
	if !ok {
		return "", false
	}
	items := lists.Itemize(lists.Source[*syntax.Variant]{
		File:       ctx.File,
		Items:      e.Variants,
		Separator:  ",",
		Terminator: "}",
		Lo:         func(v *syntax.Variant) int { return attrsLo(v.Attrs, v.Sp.Lo) },
		Hi:         spanHi[*syntax.Variant],
		Render: func(v *syntax.Variant) (string, bool) {
			return rewriteVariant(ctx, v, variantShape)
		},
		Start: e.Body.Lo + 1,
		End:   e.Body.Hi - 1,
	})
	f := lists.NewFormatting(nested, cfg)
	f.Tactic = lists.Vertical
	f.Trailing = lists.TrailingFromConfig(cfg.TrailingComma)
	f.PreserveNewline = true
	list, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}
	return head + brace + nested.Indent.StringWithNewline(cfg) + list + indent.StringWithNewline(cfg) + "}", true
}

func rewriteVariant(ctx *RewriteContext, v *syntax.Variant, sh shape.Shape) (string, bool) {
	if hasSkipAttr(v.Attrs) {
		checkAttrs(ctx, v.Attrs)
		text := ctx.snippet(syntax.Sp(attrsLo(v.Attrs, v.Sp.Lo), v.Sp.Hi))
		ctx.markVerbatim(text)
		return text, true
	}
	attrs := rewriteOuterAttrs(ctx, v.Attrs, sh, false)
	text, ok := rewriteVariantData(ctx, visibilityStr(v.Vis)+v.Name.Name, v.Kind, v.Fields, v.Body, nil,
		ctx.Widths.StructVariant, sh)
	if !ok {
		return "", false
	}
	if v.Discriminant == nil {
		return attrs + text, true
	}
	text, ok = rewriteAssignRHS(ctx, text+" =", v.Discriminant, sh)
	if !ok {
		return "", false
	}
	return attrs + text, true
}
