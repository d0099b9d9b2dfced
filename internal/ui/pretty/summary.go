package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, singular, pluralWord string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralWord)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Examples:
//
//	"2 files would be reformatted, 1 warning (5 files checked)"
//	"Formatted 5 files, 2 changed"
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, check bool) string {
	var parts []string

	switch {
	case check && stats.FilesChanged > 0:
		parts = append(parts, s.Failure.Render(
			plural(stats.FilesChanged, "file", "files")+" would be reformatted"))
	case check:
		parts = append(parts, s.Success.Render("All files formatted correctly"))
	default:
		msg := "Formatted " + plural(stats.FilesFormatted, "file", "files")
		if stats.FilesChanged > 0 {
			msg += fmt.Sprintf(", %d changed", stats.FilesChanged)
		}
		parts = append(parts, s.Success.Render(msg))
	}

	if stats.Errors > 0 {
		parts = append(parts, s.Error.Render(plural(stats.Errors, "error", "errors")))
	}
	if stats.Warnings > 0 {
		parts = append(parts, s.Warning.Render(plural(stats.Warnings, "warning", "warnings")))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(plural(stats.FilesErrored, "file", "files")+" failed"))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	line := strings.Join(parts, ", ")
	if check {
		line += s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesDiscovered, "file", "files")))
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats, check bool) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString("  " + padRight(label, 20) + value + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files found:", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Files formatted:", s.SummaryValue.Render(strconv.Itoa(stats.FilesFormatted)))
	if stats.FilesChanged > 0 {
		label := "Files changed:"
		if check {
			label = "Files to reformat:"
		}
		row(label, s.Failure.Render(strconv.Itoa(stats.FilesChanged)))
	}
	if stats.FilesWritten > 0 {
		row("Files written:", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped:", s.Dim.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files failed:", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}
	if stats.FilesNonFormatted > 0 {
		row("Partly verbatim:", s.Warning.Render(strconv.Itoa(stats.FilesNonFormatted)))
	}

	builder.WriteString("\n")
	if stats.Errors > 0 {
		row("Errors:", s.Error.Render(strconv.Itoa(stats.Errors)))
	}
	if stats.Warnings > 0 {
		row("Warnings:", s.Warning.Render(strconv.Itoa(stats.Warnings)))
	}

	switch {
	case stats.Errors > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed"))
	case check && stats.FilesChanged > 0:
		builder.WriteString(s.Failure.Render("Check failed"))
	case stats.Warnings > 0:
		builder.WriteString(s.Warning.Render("Formatted with warnings"))
	case check:
		builder.WriteString(s.Success.Render("Check passed"))
	default:
		builder.WriteString(s.Success.Render("Formatting complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func padRight(text string, width int) string {
	if len(text) >= width {
		return text + " "
	}
	return text + strings.Repeat(" ", width-len(text))
}
