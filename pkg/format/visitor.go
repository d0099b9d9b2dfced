package format

import (
	"bytes"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// FmtVisitor walks items and statements in source order, appending their
// rewrites to a buffer and replaying the source between them (comments,
// blank lines and anything the parser kept no node for).
type FmtVisitor struct {
	ctx     *RewriteContext
	buf     []byte
	lastPos int
	indent  shape.Indent

	// top is set on the visitor that owns the output buffer of the file.
	// Nested visitors render blocks inside expressions and report verbatim
	// text through the context instead.
	top     bool
	skipped report.RangeSet

	// afterBlockComment is set right after a block comment was emitted.
	afterBlockComment bool

	// ifElseBlock is set while opening the then block of an if that has
	// an else branch.
	ifElseBlock bool
}

func newVisitor(ctx *RewriteContext, indent shape.Indent, top bool) *FmtVisitor {
	return &FmtVisitor{ctx: ctx, indent: indent, top: top}
}

func (v *FmtVisitor) push(s string) {
	v.buf = append(v.buf, s...)
	v.afterBlockComment = false
}

func (v *FmtVisitor) output() string {
	return string(v.buf)
}

func (v *FmtVisitor) endsWith(c byte) bool {
	return len(v.buf) > 0 && v.buf[len(v.buf)-1] == c
}

func (v *FmtVisitor) trimTrailingBlanks() {
	v.buf = bytes.TrimRight(v.buf, " \t")
}

func (v *FmtVisitor) trailingNewlines() int {
	n := 0
	for i := len(v.buf) - 1; i >= 0 && v.buf[i] == '\n'; i-- {
		n++
	}
	return n
}

// lastNonBlank is the last byte of the buffer that is not a space or tab,
// or 0 for an empty buffer.
func (v *FmtVisitor) lastNonBlank() byte {
	for i := len(v.buf) - 1; i >= 0; i-- {
		if c := v.buf[i]; c != ' ' && c != '\t' {
			return c
		}
	}
	return 0
}

func (v *FmtVisitor) lastLineWidth() int {
	line := v.buf[bytes.LastIndexByte(v.buf, '\n')+1:]
	return shape.DisplayWidth(string(line), v.ctx.tabSpaces())
}

func (v *FmtVisitor) currentLine() int {
	return bytes.Count(v.buf, []byte{'\n'}) + 1
}

// pushRewrite appends formatted text. On the top visitor the verbatim
// fragments produced while rendering it are located in text and turned
// into unformatted line ranges.
func (v *FmtVisitor) pushRewrite(text string) {
	if v.top {
		v.claimVerbatim(text)
	}
	v.push(text)
}

// pushVerbatim appends source text that is reproduced unformatted.
func (v *FmtVisitor) pushVerbatim(text string) {
	if v.top {
		v.ctx.outcome.verbatim = v.ctx.outcome.verbatim[:0]
		line := v.currentLine()
		v.skipped.Add(line, line+strings.Count(text, "\n"))
	} else {
		v.ctx.markVerbatim(text)
	}
	v.push(text)
}

func (v *FmtVisitor) claimVerbatim(text string) {
	base := v.currentLine()
	from := 0
	for _, frag := range v.ctx.outcome.verbatim {
		if frag == "" {
			continue
		}
		idx := strings.Index(text[from:], frag)
		if idx < 0 {
			if idx = strings.Index(text, frag); idx < 0 {
				continue
			}
		} else {
			idx += from
		}
		lo := base + strings.Count(text[:idx], "\n")
		v.skipped.Add(lo, lo+strings.Count(frag, "\n"))
		from = idx + len(frag)
	}
	v.ctx.outcome.verbatim = v.ctx.outcome.verbatim[:0]
}

// pushNode splices the rewrite of the node spanning [lo, hi). A refused
// rewrite, or one that would lose a comment of the source, is replaced by
// the source text itself. Such fallbacks are not unformatted ranges: their
// lines are still checked for overflow.
func (v *FmtVisitor) pushNode(lo, hi int, text string, ok bool) {
	v.formatMissingWithIndent(lo)
	src := v.ctx.snippet(syntax.Sp(lo, hi))
	switch {
	case !ok:
		v.pushRewrite(src)
	case comment.Changed(src, text):
		v.ctx.warn(report.LostComment, lo, "formatting would drop a comment; left as is")
		v.pushRewrite(src)
	default:
		v.pushRewrite(text)
	}
	v.lastPos = hi
}

// codeStart is the first offset in [from, to) that is neither whitespace
// nor part of a comment.
func (v *FmtVisitor) codeStart(from, to int) int {
	return codeStartIn(v.ctx, from, to)
}

func codeStartIn(ctx *RewriteContext, from, to int) int {
	snippet := ctx.File.Src[from:to]
	classes := comment.Classes(snippet)
	for i := 0; i < len(snippet); i++ {
		switch snippet[i] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if classes[i].IsCode() {
			return from + i
		}
	}
	return to
}

// visitCrate renders a whole file.
func (v *FmtVisitor) visitCrate(crate *syntax.Crate) {
	src := v.ctx.File.Src
	if hasSkipAttr(crate.InnerAttrs) {
		checkAttrs(v.ctx, crate.InnerAttrs)
		v.formatMissingWithIndent(v.lastPos)
		v.pushVerbatim(src[v.lastPos:])
		v.lastPos = len(src)
		return
	}
	v.visitAttrs(crate.InnerAttrs)
	v.visitItems(crate.Items)
	v.formatMissingWithIndent(len(src))
}

// visitAttrs renders attributes one per line, keeping the comments between
// them.
func (v *FmtVisitor) visitAttrs(attrs []*syntax.Attribute) {
	checkAttrs(v.ctx, attrs)
	for _, attr := range attrs {
		v.formatMissingWithIndent(attr.Sp.Lo)
		v.pushRewrite(rewriteAttr(v.ctx, attr, shape.Indented(v.indent, v.ctx.Config)))
		v.lastPos = attr.Sp.Hi
	}
}

func (v *FmtVisitor) visitItems(items []syntax.Item) {
	for i := 0; i < len(items); {
		if n := v.reorderRunLen(items[i:]); n > 1 {
			v.visitReorderRun(items[i : i+n])
			i += n
			continue
		}
		v.visitItem(items[i])
		i++
	}
}

// withScope runs fn with the skip-macro names of attrs in effect.
func (v *FmtVisitor) withScope(attrs []*syntax.Attribute, fn func()) {
	names := skipMacroNames(attrs)
	if len(names) == 0 {
		fn()
		return
	}
	saved := v.ctx
	v.ctx = v.ctx.withSkipMacros(names)
	defer func() { v.ctx = saved }()
	fn()
}

func (v *FmtVisitor) visitItem(item syntax.Item) {
	base := item.Base()
	span := item.Span()
	if hasSkipAttr(base.Attrs) {
		checkAttrs(v.ctx, base.Attrs)
		v.formatMissingWithIndent(span.Lo)
		v.pushVerbatim(v.ctx.snippet(span))
		v.lastPos = span.Hi
		return
	}
	v.withScope(base.Attrs, func() {
		v.visitAttrs(base.Attrs)
		lo := span.Lo
		if len(base.Attrs) > 0 {
			lo = v.codeStart(base.Attrs[len(base.Attrs)-1].Sp.Hi, span.Hi)
		}
		switch it := item.(type) {
		case *syntax.FnItem:
			v.visitFn(it, lo)
		case *syntax.ModItem:
			if it.Inline {
				v.visitBodyItem(item, lo, rewriteModHeader, it.InnerAttrs, it.Items, it.Body)
				return
			}
			text, ok := rewriteItem(v.ctx, item, lo, shape.Indented(v.indent, v.ctx.Config))
			v.pushNode(lo, span.Hi, text, ok)
		case *syntax.TraitItem:
			v.visitBodyItem(item, lo, rewriteTraitHeader, it.InnerAttrs, it.Items, it.Body)
		case *syntax.ImplItem:
			v.visitBodyItem(item, lo, rewriteImplHeader, it.InnerAttrs, it.Items, it.Body)
		case *syntax.ExternBlockItem:
			v.visitBodyItem(item, lo, rewriteExternBlockHeader, it.InnerAttrs, it.Items, it.Body)
		default:
			text, ok := rewriteItem(v.ctx, item, lo, shape.Indented(v.indent, v.ctx.Config))
			v.pushNode(lo, span.Hi, text, ok)
		}
	})
}

// headerFunc renders everything of an item with a braced body up to, but
// not including, the opening brace.
type headerFunc func(ctx *RewriteContext, item syntax.Item, lo int, sh shape.Shape) (string, bool)

// visitBodyItem renders a trait, impl, extern block or inline module: the
// header, then the inner items through the visitor.
func (v *FmtVisitor) visitBodyItem(
	item syntax.Item,
	lo int,
	header headerFunc,
	innerAttrs []*syntax.Attribute,
	items []syntax.Item,
	body syntax.Span,
) {
	cfg := v.ctx.Config
	head, ok := header(v.ctx, item, lo, shape.Indented(v.indent, cfg))
	headSrc := v.ctx.snippet(syntax.Sp(lo, body.Lo))
	if !ok || comment.Changed(headSrc, head) {
		if ok {
			v.ctx.warn(report.LostComment, lo, "formatting would drop a comment; left as is")
		}
		v.pushNode(lo, item.Span().Hi, "", false)
		return
	}
	v.formatMissingWithIndent(lo)
	v.pushRewrite(head)
	v.pushBrace(item)
	v.lastPos = body.Lo + 1

	if hasSkipAttr(innerAttrs) {
		checkAttrs(v.ctx, innerAttrs)
		v.pushVerbatim(v.ctx.snippet(syntax.Sp(body.Lo+1, body.Hi)))
		v.lastPos = body.Hi
		return
	}
	inner := v.ctx.snippet(syntax.Sp(body.Lo+1, body.Hi-1))
	if len(items) == 0 && len(innerAttrs) == 0 && !comment.ContainsComment(inner) {
		if cfg.EmptyItemSingleLine {
			v.push("}")
		} else {
			v.push(v.indent.StringWithNewline(cfg) + "}")
		}
		v.lastPos = body.Hi
		return
	}

	v.indent = v.indent.BlockIndentBy(cfg)
	v.withScope(innerAttrs, func() {
		v.visitAttrs(innerAttrs)
		v.skipLeadingBlankLines(body.Hi - 1)
		v.visitItems(items)
	})
	v.closeBlock(body.Hi-1, false)
	v.lastPos = body.Hi
}

// pushBrace emits the opening brace after an item header according to
// brace_style.
func (v *FmtVisitor) pushBrace(item syntax.Item) {
	cfg := v.ctx.Config
	nextLine := false
	switch cfg.BraceStyle {
	case config.BraceAlwaysNextLine:
		nextLine = true
	case config.BraceSameLineWhere:
		nextLine = hasWhereClause(item)
	case config.BracePreferSameLine:
	}
	if nextLine {
		v.push(v.indent.StringWithNewline(cfg) + "{")
		return
	}
	v.push(" {")
}

// skipLeadingBlankLines moves lastPos past blank lines that open a block.
func (v *FmtVisitor) skipLeadingBlankLines(end int) {
	if v.lastPos >= end {
		return
	}
	gap := v.ctx.File.Src[v.lastPos:end]
	lead := gap[:len(gap)-len(strings.TrimLeft(gap, " \t\r\n"))]
	if nl := strings.LastIndexByte(lead, '\n'); nl >= 0 {
		v.lastPos += nl
	}
}

func (v *FmtVisitor) visitFn(fn *syntax.FnItem, lo int) {
	cfg := v.ctx.Config
	span := fn.Span()
	sh := shape.Indented(v.indent, cfg)
	if fn.Body == nil {
		text, ok := rewriteFnDecl(v.ctx, fn, sh)
		v.pushNode(lo, span.Hi, text, ok)
		return
	}

	if cfg.FnSingleLine {
		if text, ok := rewriteSingleLineFn(v.ctx, fn, sh); ok {
			v.pushNode(lo, span.Hi, text, true)
			return
		}
	}

	sig, ok := rewriteFnSig(v.ctx, fn, sh)
	sigSrc := v.ctx.snippet(syntax.Sp(lo, fn.Body.Sp.Lo))
	if !ok || comment.Changed(sigSrc, sig) {
		if ok {
			v.ctx.warn(report.LostComment, lo, "formatting would drop a comment; left as is")
		}
		v.pushNode(lo, span.Hi, "", false)
		return
	}
	v.formatMissingWithIndent(lo)
	v.pushRewrite(sig)
	v.pushFnBrace(fn)
	v.visitBlockBody(fn.Body)
}

func (v *FmtVisitor) pushFnBrace(fn *syntax.FnItem) {
	cfg := v.ctx.Config
	hasWhere := fn.Sig.Generics != nil && fn.Sig.Generics.Where != nil && len(fn.Sig.Generics.Where.Predicates) > 0
	if cfg.BraceStyle == config.BraceAlwaysNextLine || (hasWhere && cfg.BraceStyle == config.BraceSameLineWhere) {
		v.push(v.indent.StringWithNewline(cfg) + "{")
		return
	}
	v.push(" {")
}

// visitBlockBody renders the statements of a block whose opening brace is
// already in the buffer.
func (v *FmtVisitor) visitBlockBody(b *syntax.Block) {
	cfg := v.ctx.Config
	hangComments := v.ifElseBlock
	v.ifElseBlock = false
	v.lastPos = b.Sp.Lo + 1
	if hasSkipAttr(b.InnerAttrs) {
		checkAttrs(v.ctx, b.InnerAttrs)
		v.pushVerbatim(v.ctx.snippet(syntax.Sp(b.Sp.Lo+1, b.Sp.Hi)))
		v.lastPos = b.Sp.Hi
		return
	}
	if blockIsEmpty(v.ctx, b) {
		v.push("}")
		v.lastPos = b.Sp.Hi
		return
	}

	v.indent = v.indent.BlockIndentBy(cfg)
	v.withScope(b.InnerAttrs, func() {
		v.visitAttrs(b.InnerAttrs)
		v.skipLeadingBlankLines(b.Sp.Hi - 1)
		v.walkStmts(b.Stmts)
	})
	// Trailing comments of an if block with an else hang at the level of
	// `} else {`.
	hangComments = hangComments && hasStmts(b) &&
		v.lastPos < b.Sp.Hi-1 && comment.ContainsComment(v.ctx.snippet(syntax.Sp(v.lastPos, b.Sp.Hi-1)))
	v.closeBlock(b.Sp.Hi-1, hangComments)
	v.lastPos = b.Sp.Hi
}

// hasStmts reports whether b holds anything besides empty statements.
func hasStmts(b *syntax.Block) bool {
	for _, stmt := range b.Stmts {
		if _, ok := stmt.(*syntax.EmptyStmt); !ok {
			return true
		}
	}
	return false
}

// blockIsEmpty reports a block with nothing to render between its braces.
func blockIsEmpty(ctx *RewriteContext, b *syntax.Block) bool {
	if len(b.InnerAttrs) > 0 {
		return false
	}
	for _, stmt := range b.Stmts {
		if _, ok := stmt.(*syntax.EmptyStmt); !ok {
			return false
		}
	}
	return !comment.ContainsComment(ctx.snippet(syntax.Sp(b.Sp.Lo+1, b.Sp.Hi-1)))
}

func (v *FmtVisitor) walkStmts(stmts []syntax.Stmt) {
	last := len(stmts) - 1
	for last >= 0 {
		if _, ok := stmts[last].(*syntax.EmptyStmt); !ok {
			break
		}
		last--
	}
	for i := 0; i < len(stmts); i++ {
		if items := leadingItems(stmts[i:]); len(items) > 1 {
			if n := v.reorderRunLen(items); n > 1 {
				v.visitReorderRun(items[:n])
				i += n - 1
				continue
			}
		}
		v.visitStmt(stmts[i], i == last)
	}
}

// leadingItems collects the items of consecutive item statements.
func leadingItems(stmts []syntax.Stmt) []syntax.Item {
	var items []syntax.Item
	for _, stmt := range stmts {
		is, ok := stmt.(*syntax.ItemStmt)
		if !ok {
			break
		}
		items = append(items, is.Item)
	}
	return items
}

func (v *FmtVisitor) visitStmt(stmt syntax.Stmt, last bool) {
	span := stmt.Span()
	var attrs []*syntax.Attribute
	switch s := stmt.(type) {
	case *syntax.EmptyStmt:
		return
	case *syntax.ItemStmt:
		v.visitItem(s.Item)
		v.lastPos = span.Hi
		return
	case *syntax.LetStmt:
		attrs = s.Attrs
	case *syntax.ExprStmt:
		attrs = s.Attrs
	case *syntax.MacStmt:
		attrs = s.Attrs
	}
	if hasSkipAttr(attrs) {
		checkAttrs(v.ctx, attrs)
		v.formatMissingWithIndent(span.Lo)
		v.pushVerbatim(v.ctx.snippet(span))
		v.lastPos = span.Hi
		return
	}
	v.withScope(attrs, func() {
		v.visitAttrs(attrs)
		lo := span.Lo
		if len(attrs) > 0 {
			lo = v.codeStart(attrs[len(attrs)-1].Sp.Hi, span.Hi)
		}
		text, ok := rewriteStmt(v.ctx, stmt, shape.Indented(v.indent, v.ctx.Config), last)
		v.pushNode(lo, span.Hi, text, ok)
	})
}

// rewriteBlock renders b as a block expression at sh through a nested
// visitor. prefix is placed before the opening brace.
func rewriteBlock(ctx *RewriteContext, b *syntax.Block, prefix string, sh shape.Shape) (string, bool) {
	return renderBlock(ctx, b, prefix, false, sh)
}

// renderBlock is rewriteBlock for the then block of an if as well. hasElse
// makes the trailing comments of the block hang one level out.
func renderBlock(ctx *RewriteContext, b *syntax.Block, prefix string, hasElse bool, sh shape.Shape) (string, bool) {
	if !shape.IsMultiline(prefix) && shape.TextWidth(prefix)+1 > sh.Width {
		return "", false
	}
	if blockIsEmpty(ctx, b) {
		return prefix + "{}", true
	}
	v := newVisitor(ctx, sh.Indent.BlockOnly(), false)
	v.ifElseBlock = hasElse
	v.push(prefix + "{")
	v.visitBlockBody(b)
	return v.output(), true
}
