package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/yaklabco/rsfmt/pkg/format/report"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // FILE, LINE, KIND, MESSAGE
	minFileWidth     = 16
	minLineWidth     = 4
	minKindWidth     = 12
	minMessageWidth  = 30
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableRow represents a single row in the diagnostic table.
type TableRow struct {
	File     string
	Line     string
	Kind     string
	Message  string
	Severity string
}

// TableFormatter formats diagnostics as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type columnWidths struct {
	file, line, kind, message int
}

func (w columnWidths) total() int {
	return w.file + w.line + w.kind + w.message + tablePadding*tableColumnCount
}

// FormatTable renders the diagnostics of rep grouped by file. It returns
// the empty string when there is nothing to show.
func (t *TableFormatter) FormatTable(rep *report.Report) string {
	groups := collectRows(rep)
	if len(groups) == 0 {
		return ""
	}

	widths := t.columnWidths(groups)

	var builder strings.Builder
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s ",
		widths.file, "FILE",
		widths.line, "LINE",
		widths.kind, "KIND",
		widths.message, "MESSAGE",
	)
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.separator(widths, heavySeparator) + "\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.separator(widths, lightSeparator) + "\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths) + "\n")
		}
	}

	builder.WriteString(t.separator(widths, heavySeparator) + "\n")
	return builder.String()
}

func collectRows(rep *report.Report) [][]TableRow {
	if rep == nil {
		return nil
	}

	var groups [][]TableRow
	for _, file := range rep.Files {
		if len(file.Errors) == 0 {
			continue
		}
		rows := make([]TableRow, 0, len(file.Errors))
		for _, diag := range file.Errors {
			line := "-"
			if diag.Line > 0 {
				line = strconv.Itoa(diag.Line)
			}
			rows = append(rows, TableRow{
				File:     file.Path,
				Line:     line,
				Kind:     diag.Kind.String(),
				Message:  diag.Message,
				Severity: diag.Severity(),
			})
		}
		groups = append(groups, rows)
	}
	return groups
}

func (t *TableFormatter) columnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		line:    minLineWidth,
		kind:    minKindWidth,
		message: minMessageWidth,
	}
	for _, group := range groups {
		for _, row := range group {
			widths.file = max(widths.file, uniseg.StringWidth(row.File))
			widths.line = max(widths.line, len(row.Line))
			widths.kind = max(widths.kind, len(row.Kind))
			widths.message = max(widths.message, uniseg.StringWidth(row.Message))
		}
	}

	// Shrink the message first, then the file column.
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.message = max(minMessageWidth, widths.message-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}
	return widths
}

func (t *TableFormatter) separator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, widths.total()))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := " " + padCell(TruncateFilePath(row.File, widths.file), widths.file) +
		"  " + padCell(row.Line, widths.line) +
		"  " + padCell(row.Kind, widths.kind) +
		"  " + padCell(Truncate(row.Message, widths.message), widths.message) + " "
	return t.rowStyle(row.Severity).Render(content)
}

func (t *TableFormatter) rowStyle(severity string) lipgloss.Style {
	switch severity {
	case "error":
		return t.styles.TableErrorRow
	case "warning":
		return t.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

// padCell pads text with spaces to the given display width.
func padCell(text string, width int) string {
	if w := uniseg.StringWidth(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}

// Truncate shortens text to at most maxWidth display columns, ending
// with "..." when cut.
func Truncate(text string, maxWidth int) string {
	if uniseg.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return takeWidth(text, maxWidth)
	}
	return takeWidth(text, maxWidth-3) + "..."
}

// TruncateFilePath shortens a path from the front so the file name stays
// visible.
func TruncateFilePath(path string, maxWidth int) string {
	if len(path) <= maxWidth {
		return path
	}
	if maxWidth <= 3 {
		return path[len(path)-maxWidth:]
	}
	return "..." + path[len(path)-maxWidth+3:]
}

// takeWidth returns the longest prefix of text whose display width fits.
func takeWidth(text string, width int) string {
	var (
		out   strings.Builder
		used  int
		state = -1
	)
	for len(text) > 0 {
		var cluster string
		var w int
		cluster, text, w, state = uniseg.FirstGraphemeClusterInString(text, state)
		if used+w > width {
			break
		}
		out.WriteString(cluster)
		used += w
	}
	return out.String()
}
