package format

import (
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/lists"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// structLitField is a field of a struct literal or its `..base` tail.
type structLitField struct {
	field *syntax.FieldInit
	rest  *syntax.StructRest
}

func (f structLitField) span() syntax.Span {
	if f.field != nil {
		return f.field.Sp
	}
	return f.rest.Sp
}

// rewriteStructLit renders `Path { a: x, b, ..base }`.
func rewriteStructLit(ctx *RewriteContext, s *syntax.StructExpr, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	pathShape, ok := sh.SubWidth(2)
	if !ok {
		return "", false
	}
	path, ok := rewritePath(ctx, s.QSelf, s.Path, pathShape)
	if !ok {
		return "", false
	}

	bodySrc := ctx.snippet(syntax.Sp(s.Path.Sp.Hi, s.Sp.Hi))
	bodyLo := s.Path.Sp.Hi + comment.FindUncommented(bodySrc, "{") + 1
	inner := ctx.snippet(syntax.Sp(bodyLo, s.Sp.Hi-1))
	switch {
	case len(s.Fields) == 0 && s.Rest == nil && !comment.ContainsComment(inner):
		return path + " {}", true
	case len(s.Fields) == 0 && s.Rest != nil && s.Rest.Base == nil && !comment.ContainsComment(inner):
		return path + " { .. }", true
	}
	hasRest := s.Rest != nil

	hShape, hasH, vShape := lists.StructLitShape(sh, cfg, shape.TextWidth(path)+3, 2)
	oneLineWidth := 0
	if hasH {
		oneLineWidth = hShape.Width
	}

	fields := make([]structLitField, 0, len(s.Fields)+1)
	for _, f := range s.Fields {
		fields = append(fields, structLitField{field: f})
	}
	if hasRest {
		fields = append(fields, structLitField{rest: s.Rest})
	}
	items := lists.Itemize(lists.Source[structLitField]{
		File:       ctx.File,
		Items:      fields,
		Separator:  ",",
		Terminator: "}",
		Lo:         func(f structLitField) int { return f.span().Lo },
		Hi:         func(f structLitField) int { return f.span().Hi },
		Render: func(f structLitField) (string, bool) {
			if f.field != nil {
				fs, ok := vShape.SubWidth(1)
				if !ok {
					return "", false
				}
				return rewriteFieldInit(ctx, f.field, fs)
			}
			if f.rest.Base == nil {
				return "..", true
			}
			bs, ok := vShape.OffsetLeft(2)
			if !ok {
				return "", false
			}
			base, ok := rewriteExpr(ctx, f.rest.Base, bs)
			if !ok {
				return "", false
			}
			return ".." + base, true
		},
		Start: bodyLo,
		End:   s.Sp.Hi - 1,
	})

	tactic := lists.StructLitTactic(hShape, hasH, cfg, items)
	nested := lists.ShapeForTactic(tactic, hShape, vShape)
	noTrailing := hasRest || (ctx.insideMacro && !hasTrailingComma(ctx, syntax.Sp(bodyLo-1, s.Sp.Hi)))
	f := lists.StructLitFormatting(nested, tactic, cfg, noTrailing)
	list, ok := lists.WriteList(items, f)
	if !ok {
		return "", false
	}
	return path + " {" + wrapStructFields(ctx, list, sh, vShape, oneLineWidth) + "}", true
}

// rewriteFieldInit renders `name: value`, collapsing `name: name` under
// use_field_init_shorthand.
func rewriteFieldInit(ctx *RewriteContext, f *syntax.FieldInit, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	if hasSkipAttr(f.Attrs) {
		checkAttrs(ctx, f.Attrs)
		text := ctx.snippet(f.Sp)
		ctx.markVerbatim(text)
		return text, true
	}
	attrs := rewriteOuterAttrs(ctx, f.Attrs, sh, false)
	name := f.Name.Name
	if f.Shorthand {
		return attrs + name, true
	}
	if vs, ok := sh.OffsetLeft(len(name) + 2); ok {
		if value, ok := rewriteExpr(ctx, f.Value, vs); ok {
			_, isLit := f.Value.(*syntax.LitExpr)
			if !isLit && value == name && cfg.UseFieldInitShorthand {
				return attrs + name, true
			}
			return attrs + name + ": " + value, true
		}
	}
	indent := sh.Indent.BlockIndentBy(cfg)
	value, ok := rewriteExpr(ctx, f.Value, shape.Indented(indent, cfg))
	if !ok {
		return "", false
	}
	return attrs + name + ":" + indent.StringWithNewline(cfg) + value, true
}

