package format

import (
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// RewriteContext is the read-only state every rewrite rule receives: the
// file being formatted, the configuration and the resolved width
// heuristics. The outcome it points at is owned by the visitor call that
// created the context.
type RewriteContext struct {
	File   *syntax.File
	Config *config.Config
	Widths config.WidthHeuristics

	// skipMacros names the macros left verbatim in the current scope.
	skipMacros map[string]bool

	// insideMacro is set while rewriting the arguments of a macro call.
	insideMacro bool

	outcome *outcome
}

// outcome is what a rewrite reports besides its text. The visitor folds it
// into the file result after splicing the rewrite.
type outcome struct {
	macroFailed bool
	// verbatim holds rendered fragments that reproduce source unformatted.
	verbatim []string
	diags    []report.FormatError
	// seen holds the diagnostics already recorded; layouts that are tried
	// and dropped must not report twice.
	seen map[diagKey]bool
}

type diagKey struct {
	kind report.ErrorKind
	pos  int
	msg  string
}

func newContext(file *syntax.File, cfg *config.Config) *RewriteContext {
	return &RewriteContext{
		File:       file,
		Config:     cfg,
		Widths:     cfg.Widths(),
		skipMacros: map[string]bool{},
		outcome:    &outcome{seen: map[diagKey]bool{}},
	}
}

// withSkipMacros returns a context that also skips names.
func (ctx *RewriteContext) withSkipMacros(names []string) *RewriteContext {
	if len(names) == 0 {
		return ctx
	}
	child := *ctx
	child.skipMacros = make(map[string]bool, len(ctx.skipMacros)+len(names))
	for name := range ctx.skipMacros {
		child.skipMacros[name] = true
	}
	for _, name := range names {
		child.skipMacros[name] = true
	}
	return &child
}

func (ctx *RewriteContext) inMacro() *RewriteContext {
	if ctx.insideMacro {
		return ctx
	}
	child := *ctx
	child.insideMacro = true
	return &child
}

func (ctx *RewriteContext) snippet(sp syntax.Span) string {
	return ctx.File.Snippet(sp)
}

// budget is what is left of a line after used columns.
func (ctx *RewriteContext) budget(used int) int {
	return max(0, ctx.Config.MaxWidth-used)
}

func (ctx *RewriteContext) markVerbatim(text string) {
	ctx.outcome.verbatim = append(ctx.outcome.verbatim, text)
}

// markMacroFailed records that the macro call at pos was kept as written.
func (ctx *RewriteContext) markMacroFailed(pos int, name, text string) {
	ctx.outcome.macroFailed = true
	ctx.markVerbatim(text)
	ctx.warn(report.MacroRewriteFailure, pos, "could not format arguments of `"+name+"`; left as is")
}

// warn records a diagnostic against the source line of pos, once.
func (ctx *RewriteContext) warn(kind report.ErrorKind, pos int, msg string) {
	key := diagKey{kind: kind, pos: pos, msg: msg}
	if ctx.outcome.seen[key] {
		return
	}
	ctx.outcome.seen[key] = true
	line := ctx.File.Line(pos)
	ctx.outcome.diags = append(ctx.outcome.diags, report.FormatError{
		Kind:     kind,
		Line:     line,
		LineText: ctx.File.LineText(line),
		Message:  msg,
	})
}

func (ctx *RewriteContext) tabSpaces() int {
	return ctx.Config.TabSpaces
}

// nestedShape is the block-indented shape for the contents of a delimited
// construct whose opening line is at sh.
func (ctx *RewriteContext) nestedShape(sh shape.Shape) shape.Shape {
	return shape.Indented(sh.Indent.BlockIndentBy(ctx.Config), ctx.Config)
}
