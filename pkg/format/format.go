// Package format is the rewrite engine: it turns a parsed source file into
// its canonical layout under a configuration.
//
// Formatting never fails part way. Every node either renders within the
// width it is given or is reproduced from the source as it was written;
// such verbatim regions are reported as non-formatted line ranges.
package format

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// Result is the outcome of formatting one file.
type Result struct {
	// Text is the formatted file.
	Text string

	// Changed is set when Text differs from the input.
	Changed bool

	// NonFormatted lists the output lines reproduced verbatim.
	NonFormatted []report.NonFormattedRange

	// MacroRewriteFailed is set when a macro call was left as written
	// because its arguments could not be formatted.
	MacroRewriteFailed bool

	// Errors holds the diagnostics of the file, sorted by line.
	Errors []report.FormatError
}

// Format formats src, the contents of the file called name. The only
// error it returns is a parse failure, wrapping syntax.ErrParse.
func Format(name, src string, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if cfg.DisableAllFormatting {
		return &Result{Text: src}, nil
	}

	input := strings.ReplaceAll(src, "\r\n", "\n")
	file := syntax.NewFile(name, input)
	crate, err := syntax.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}

	ctx := newContext(file, cfg)
	v := newVisitor(ctx, shape.Empty(), true)
	v.visitCrate(crate)

	text := finishText(v.output())
	fr := &report.FileReport{Path: name}
	for _, d := range ctx.outcome.diags {
		fr.Add(d)
	}
	for _, d := range checkLines(text, cfg, &v.skipped) {
		fr.Add(d)
	}
	for _, d := range checkLicense(text, cfg) {
		fr.Add(d)
	}
	fr.SortErrors()

	if nl := cfg.NewlineFor(src, runtime.GOOS == "windows"); nl != "\n" {
		text = strings.ReplaceAll(text, "\n", nl)
	}
	return &Result{
		Text:               text,
		Changed:            text != src,
		NonFormatted:       v.skipped.Ranges(),
		MacroRewriteFailed: ctx.outcome.macroFailed,
		Errors:             fr.Errors,
	}, nil
}

// finishText ends the file with exactly one newline, or leaves it empty.
func finishText(text string) string {
	text = strings.TrimRight(text, " \t\n")
	if text == "" {
		return ""
	}
	return text + "\n"
}
