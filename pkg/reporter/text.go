package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rsfmt/internal/ui/pretty"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

// TextReporter formats results as styled terminal output. In check mode
// every file that would change is shown as "Diff in" chunks.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to format."))
		}
		return 0, nil
	}

	reported := 0
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return reported, fmt.Errorf("report: %w", err)
		}
		if r.reportFile(file) {
			reported++
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Check))
	}
	return reported, nil
}

// reportFile writes the mismatches and diagnostics of one file and reports
// whether anything was written.
func (r *TextReporter) reportFile(file runner.FileOutcome) bool {
	wrote := false

	if r.opts.Check && file.Changed() {
		r.writeMismatches(file)
		wrote = true
	}

	if file.Skipped {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(file.Path),
			r.styles.Warning.Render("skipped: "+file.SkipReason),
		)
		wrote = true
	}

	if file.Report == nil || len(file.Report.Errors) == 0 {
		return wrote
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(file.Report.Errors)))
	for _, diag := range file.Report.Errors {
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(file.Path, diag, r.opts.ShowContext))
	}
	fmt.Fprintln(r.bw)
	return true
}

// writeMismatches writes the changes formatting would make:
//
//	Diff in src/lib.rs:3:
//	 context
//	-original
//	+formatted
func (r *TextReporter) writeMismatches(file runner.FileOutcome) {
	mismatches := Mismatches(file.Original, file.Formatted, diffContextLines)
	if len(mismatches) == 0 {
		fmt.Fprintf(r.bw, "%s\n\n", r.styles.DiffHeader.Render(
			fmt.Sprintf("Diff in %s: line endings differ", file.Path)))
		return
	}

	for _, m := range mismatches {
		fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(fmt.Sprintf("Diff in %s:%d:", file.Path, m.OriginalBegin)))
		for _, line := range m.Lines {
			switch line.Kind {
			case LineOriginal:
				fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("-"+line.Text))
			case LineExpected:
				fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+"+line.Text))
			default:
				fmt.Fprintln(r.bw, r.styles.DiffContext.Render(" "+line.Text))
			}
		}
		fmt.Fprintln(r.bw)
	}
}
