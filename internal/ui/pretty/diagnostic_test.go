package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rsfmt/internal/ui/pretty"
	"github.com/yaklabco/rsfmt/pkg/format/report"
)

func TestFormatDiagnostic(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := report.FormatError{
		Kind:     report.LineOverflow,
		Line:     12,
		LineText: "let x = 1;",
		Message:  "line exceeded maximum width (120 > 100)",
	}

	got := styles.FormatDiagnostic("src/lib.rs", diag, false)
	assert.Equal(t, "  src/lib.rs:12  warning  line exceeded maximum width (120 > 100)  (line_overflow)\n", got)

	withContext := styles.FormatDiagnostic("src/lib.rs", diag, true)
	assert.True(t, strings.HasSuffix(withContext, "        let x = 1;\n"))
}

func TestFormatDiagnostic_NoLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := report.FormatError{Kind: report.IOError, Message: "permission denied"}
	got := styles.FormatDiagnostic("a.rs", diag, true)

	assert.Equal(t, "  a.rs  error  permission denied  (io_error)\n", got)
}

func TestFormatDiagnostic_ErrFlagPromotesSeverity(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := report.FormatError{Kind: report.LineOverflow, Line: 1, Message: "too long", Err: true}
	assert.Contains(t, styles.FormatDiagnostic("a.rs", diag, false), "  error  ")
}

func TestFormatSeverity(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "error", styles.FormatSeverity("error"))
	assert.Equal(t, "warning", styles.FormatSeverity("warning"))
	assert.Equal(t, "note", styles.FormatSeverity("note"))
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.rs", styles.FormatFileHeader("a.rs", 0))
	assert.Equal(t, "a.rs (1 issue)", styles.FormatFileHeader("a.rs", 1))
	assert.Equal(t, "a.rs (3 issues)", styles.FormatFileHeader("a.rs", 3))
}
