package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// pairParts are the fixed strings around the two halves of a pair:
// prefix lhs infix rhs suffix.
type pairParts struct {
	prefix, infix, suffix string
}

type renderFunc func(shape.Shape) (string, bool)

// rewritePair lays out two expressions joined by pp.infix, on one line
// when possible, otherwise with the right-hand side block-indented on the
// next line and the infix on whichever side place asks for.
func rewritePair(ctx *RewriteContext, pp pairParts, lhs, rhs renderFunc, sh shape.Shape, place config.SeparatorPlace) (string, bool) {
	cfg := ctx.Config
	overhead := sh.UsedWidth()
	if place == config.SeparatorBack {
		overhead += len(pp.prefix) + len(strings.TrimRight(pp.infix, " "))
	}
	lhsShape := sh
	lhsShape.Width = ctx.budget(overhead)
	left, ok := lhs(lhsShape)
	if !ok {
		return "", false
	}
	left = pp.prefix + left

	if rs, ok := sh.OffsetLeft(shape.LastLineWidth(left) + len(pp.infix)); ok {
		if rs, ok = rs.SubWidth(len(pp.suffix)); ok {
			if right, ok := rhs(rs); ok {
				sameLine := shape.TextWidth(left) <= cfg.TabSpaces || firstLineEndsWith(right, '{')
				if !shape.IsMultiline(right) || sameLine {
					width := shape.LastLineWidth(left) + len(pp.infix) + shape.FirstLineWidth(right) + len(pp.suffix)
					if width <= sh.Width {
						return left + pp.infix + right + pp.suffix, true
					}
				}
			}
		}
	}

	rhsShape, ok := shape.Indented(sh.Indent.BlockIndentBy(cfg), cfg).SubWidth(sh.RHSOverhead(cfg))
	if !ok {
		return "", false
	}
	infix := strings.TrimRight(pp.infix, " ")
	if place == config.SeparatorFront {
		infix = strings.TrimLeft(pp.infix, " ")
		if rhsShape, ok = rhsShape.OffsetLeft(len(infix)); !ok {
			return "", false
		}
	}
	right, ok := rhs(rhsShape)
	if !ok {
		return "", false
	}
	newline := rhsShape.Indent.StringWithNewline(cfg)
	if place == config.SeparatorBack {
		return left + infix + newline + right + pp.suffix, true
	}
	return left + newline + infix + right + pp.suffix, true
}

// operand is one element of a flattened run of a binary operator.
type operand struct {
	expr syntax.Expr
	// op precedes the operand; it is empty for the first one.
	op string
	// pre holds the comments between op and the operand, post those
	// between the operand and the next operator.
	pre, post string
}

// flattenBinary turns a left-leaning tree of one operator into its operands
// in source order, with the comments found around each operator.
func flattenBinary(ctx *RewriteContext, e *syntax.BinaryExpr) []operand {
	var nodes []*syntax.BinaryExpr
	var node syntax.Expr = e
	for {
		b, ok := node.(*syntax.BinaryExpr)
		if !ok || b.Op != e.Op {
			break
		}
		nodes = append(nodes, b)
		node = b.X
	}
	list := []operand{{expr: node}}
	for i := len(nodes) - 1; i >= 0; i-- {
		b := nodes[i]
		prev := &list[len(list)-1]
		prev.post = ctx.snippet(syntax.Sp(prev.expr.Span().Hi, b.OpSp.Lo))
		list = append(list, operand{
			expr: b.Y,
			op:   b.Op,
			pre:  ctx.snippet(syntax.Sp(b.OpSp.Hi, b.Y.Span().Lo)),
		})
	}
	return list
}

// binaryRun is a flattened operator run ready for layout.
type binaryRun struct {
	ops []operand
	rws []string
	oks []bool
	// pre and post are the rewritten comments of each operand.
	pre, post   []string
	hasComments bool
	lineComment bool
}

func rewriteBinary(ctx *RewriteContext, e *syntax.BinaryExpr, sh shape.Shape) (string, bool) {
	cfg := ctx.Config
	nested, ok := sh.BlockIndent(cfg.TabSpaces).WithMaxWidth(cfg).SubWidth(sh.RHSOverhead(cfg))
	if !ok {
		return "", false
	}
	run, ok := buildRun(ctx, flattenBinary(ctx, e), sh, nested)
	if !ok {
		return "", false
	}
	if text, ok := run.oneLine(ctx, sh); ok {
		return text, true
	}
	if text, ok := run.multiline(ctx, sh, nested); ok {
		return text, true
	}
	if run.hasComments {
		return "", false
	}
	return rewritePair(ctx, pairParts{infix: " " + e.Op + " "},
		func(s shape.Shape) (string, bool) { return rewriteExpr(ctx, e.X, s) },
		func(s shape.Shape) (string, bool) { return rewriteExpr(ctx, e.Y, s) },
		sh, cfg.BinopSeparator)
}

func buildRun(ctx *RewriteContext, ops []operand, sh, nested shape.Shape) (*binaryRun, bool) {
	cfg := ctx.Config
	run := &binaryRun{
		ops:  ops,
		rws:  make([]string, len(ops)),
		oks:  make([]bool, len(ops)),
		pre:  make([]string, len(ops)),
		post: make([]string, len(ops)),
	}
	commentShape := nested.Comment(cfg)
	for i, o := range ops {
		var ok bool
		if run.pre[i], ok = comment.RecoverMissingComment(o.pre, commentShape, cfg); !ok {
			return nil, false
		}
		if run.post[i], ok = comment.RecoverMissingComment(o.post, commentShape, cfg); !ok {
			return nil, false
		}
		for _, c := range []string{run.pre[i], run.post[i]} {
			if c == "" {
				continue
			}
			run.hasComments = true
			if comment.LastLineIsLineComment(c) || shape.IsMultiline(c) {
				run.lineComment = true
			}
		}

		s := sh
		if i > 0 {
			s = nested
			if cfg.BinopSeparator == config.SeparatorFront {
				if s, ok = nested.OffsetLeft(len(o.op) + 1); !ok {
					continue
				}
			}
		}
		run.rws[i], run.oks[i] = rewriteExpr(ctx, o.expr, s)
	}
	return run, true
}

// piece is operand i with the comments that travel with it on one line.
func (r *binaryRun) piece(i int, rw string) string {
	if r.pre[i] != "" {
		rw = r.pre[i] + " " + rw
	}
	if r.post[i] != "" {
		rw += " " + r.post[i]
	}
	return rw
}

func (r *binaryRun) oneLine(ctx *RewriteContext, sh shape.Shape) (string, bool) {
	if r.lineComment {
		return "", false
	}
	last := len(r.ops) - 1
	var sb strings.Builder
	for i := range last {
		if !r.oks[i] || shape.IsMultiline(r.rws[i]) || sb.Len() > sh.Width {
			return "", false
		}
		sb.WriteString(r.piece(i, r.rws[i]))
		sb.WriteString(" " + r.ops[i+1].op + " ")
	}
	prefixLen := sb.Len()
	lead := 0
	if r.pre[last] != "" {
		lead = shape.TextWidth(r.pre[last]) + 1
	}
	cur, ok := sh.Block().OffsetLeft(shape.TextWidth(sb.String()) + lead)
	if !ok {
		return "", false
	}
	lastRw, ok := rewriteExpr(ctx, r.ops[last].expr, cur)
	if !ok {
		return "", false
	}
	sb.WriteString(r.piece(last, lastRw))
	result := sb.String()
	if shape.FirstLineWidth(result) > sh.Width {
		return "", false
	}
	if shape.IsMultiline(result) && !strings.HasPrefix(lastRw, "{") &&
		(strings.HasPrefix(lastRw, "(") || prefixLen > ctx.Config.TabSpaces) {
		return "", false
	}
	return wrapStr(ctx, result, sh)
}

func (r *binaryRun) multiline(ctx *RewriteContext, sh, nested shape.Shape) (string, bool) {
	cfg := ctx.Config
	if !r.oks[0] {
		return "", false
	}
	newline := nested.Indent.StringWithNewline(cfg)
	result := r.rws[0]
	for i := 1; i < len(r.ops); i++ {
		op := r.ops[i].op
		post := r.post[i-1]
		pre := r.pre[i]

		if post == "" && pre == "" {
			offset := sh.UsedWidth()
			if shape.IsMultiline(result) {
				offset = 0
			}
			if shape.LastLineWidth(result)+offset <= nested.UsedWidth() {
				if ls, ok := sh.OffsetLeft(len(op) + 2 + shape.TrimmedLastLineWidth(result)); ok {
					if rw, ok := rewriteExpr(ctx, r.ops[i].expr, ls); ok {
						result += " " + op + " " + rw
						continue
					}
				}
			}
		}
		if !r.oks[i] {
			return "", false
		}
		rw := r.rws[i]
		if pre != "" {
			if comment.LastLineIsLineComment(pre) {
				rw = pre + newline + rw
			} else {
				rw = pre + " " + rw
			}
		}
		if cfg.BinopSeparator == config.SeparatorBack {
			// The comment stays in front of the operator it preceded; a
			// line comment there would swallow the operator.
			if post != "" {
				if comment.LastLineIsLineComment(post) {
					return "", false
				}
				result += " " + post
			}
			result += " " + op + newline + rw
			continue
		}
		if post != "" {
			result += " " + post
		}
		result += newline + op + " " + rw
	}
	return result, true
}
