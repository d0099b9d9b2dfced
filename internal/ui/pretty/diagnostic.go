package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/format/report"
)

// FormatDiagnostic formats a single diagnostic for terminal output:
//
//	path:line  warning  message  (kind)
//
// followed by the offending line when showContext is set.
func (s *Styles) FormatDiagnostic(path string, diag report.FormatError, showContext bool) string {
	var builder strings.Builder

	location := s.FilePath.Render(path)
	if diag.Line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d", diag.Line))
	}

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity()),
		s.Message.Render(diag.Message),
		s.Kind.Render("("+diag.Kind.String()+")"),
	)

	if showContext && diag.LineText != "" {
		builder.WriteString(s.FormatSourceContext(diag.LineText))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(severity string) string {
	switch severity {
	case "error":
		return s.Error.Render("error")
	case "warning":
		return s.Warning.Render("warning")
	default:
		return severity
	}
}

// FormatSourceContext formats the source line under a diagnostic.
func (s *Styles) FormatSourceContext(line string) string {
	const indent = "        "
	return indent + s.SourceLine.Render(line) + "\n"
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
