package reporter

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/rsfmt/internal/ui/pretty"
	"github.com/yaklabco/rsfmt/pkg/format/report"
)

// Table layout constants for summary output.
const (
	tableWidth       = 80
	kindColWidth     = 30
	fileColWidth     = 50
	numColWidth      = 8
	changedColWidth  = 8
	maxFilePathWidth = 48
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats a report as aggregated tables: diagnostics per
// kind and per file.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

type kindCount struct {
	kind  report.ErrorKind
	count int
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, rep *report.Report) error {
	if rep.ChangedFiles() == 0 && !rep.HasErrors() && !rep.HasWarnings() {
		_, err := fmt.Fprintln(r.out, r.styles.Success.Render("All files formatted correctly"))
		return err
	}

	r.renderKindTable(rep)
	r.renderFileTable(rep)
	if table := pretty.NewTableFormatter(r.styles, tableWidth).FormatTable(rep); table != "" {
		fmt.Fprintln(r.out, r.styles.Bold.Render("Diagnostics"))
		fmt.Fprintln(r.out, table)
	}
	r.renderTotals(rep)
	return nil
}

func (r *SummaryRenderer) renderKindTable(rep *report.Report) {
	counts := rep.Counts()
	if len(counts) == 0 {
		return
	}

	rows := make([]kindCount, 0, len(counts))
	for kind, count := range counts {
		rows = append(rows, kindCount{kind: kind, count: count})
	}
	slices.SortFunc(rows, func(a, b kindCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.kind.String(), b.kind.String())
	})

	fmt.Fprintln(r.out, r.styles.Bold.Render("Diagnostics by Kind"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s\n",
		r.styles.TableHeader.Render(padRight("Kind", kindColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
	)
	r.separator()
	for _, row := range rows {
		fmt.Fprintf(r.out, "%s %s\n",
			padRight(row.kind.String(), kindColWidth),
			padLeft(strconv.Itoa(row.count), numColWidth),
		)
	}
	fmt.Fprintln(r.out)
}

func (r *SummaryRenderer) renderFileTable(rep *report.Report) {
	changedLabel := "Changed"
	if r.opts.Check {
		changedLabel = "Differs"
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft(changedLabel, changedColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", numColWidth)),
	)
	r.separator()

	for _, file := range rep.Files {
		if !file.Changed && len(file.Errors) == 0 {
			continue
		}

		var errs, warns int
		for _, diag := range file.Errors {
			if diag.IsWarning() {
				warns++
			} else {
				errs++
			}
		}

		path := pretty.TruncateFilePath(file.Path, maxFilePathWidth)
		padded := padRight(path, fileColWidth)
		switch {
		case errs > 0:
			padded = r.styles.TableErrorRow.Render(padded)
		case warns > 0:
			padded = r.styles.TableWarnRow.Render(padded)
		}

		changed := ""
		if file.Changed {
			changed = "yes"
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			padded,
			padLeft(changed, changedColWidth),
			padLeft(strconv.Itoa(errs), numColWidth),
			padLeft(strconv.Itoa(warns), numColWidth),
		)
	}
	fmt.Fprintln(r.out)
}

func (r *SummaryRenderer) renderTotals(rep *report.Report) {
	var errs, warns int
	for _, file := range rep.Files {
		for _, diag := range file.Errors {
			if diag.IsWarning() {
				warns++
			} else {
				errs++
			}
		}
	}

	verb := "changed"
	if r.opts.Check {
		verb = "would be reformatted"
	}
	changed := rep.ChangedFiles()
	fileWord := "files"
	if changed == 1 {
		fileWord = "file"
	}

	parts := []string{fmt.Sprintf("%d %s %s", changed, fileWord, verb)}
	if errs > 0 {
		parts = append(parts, r.styles.Error.Render(fmt.Sprintf("%d errors", errs)))
	}
	if warns > 0 {
		parts = append(parts, r.styles.Warning.Render(fmt.Sprintf("%d warnings", warns)))
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+strings.Join(parts, ", "))
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}
