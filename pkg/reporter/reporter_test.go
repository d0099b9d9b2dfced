package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/reporter"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

const (
	original  = "use std::io;\nfn  main() {}\n"
	formatted = "use std::io;\nfn main() {}\n"
)

// sampleResult has one changed file, one clean file with a warning and
// one file that failed to parse.
func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:      "src/a.rs",
				Report:    &report.FileReport{Path: "src/a.rs", Changed: true},
				Original:  original,
				Formatted: formatted,
			},
			{
				Path: "src/b.rs",
				Report: &report.FileReport{Path: "src/b.rs", Errors: []report.FormatError{
					{Kind: report.TrailingWhitespace, Line: 4, LineText: "let x = 1;  ", Message: "trailing whitespace"},
				}},
			},
			{
				Path: "src/c.rs",
				Report: &report.FileReport{Path: "src/c.rs", Errors: []report.FormatError{
					{Kind: report.ParseError, Line: 2, Message: "expected `}`"},
				}},
				Error: errors.New("parse failed"),
			},
			{
				Path:   "src/d.rs",
				Report: &report.FileReport{Path: "src/d.rs"},
			},
		},
		Stats: runner.Stats{
			FilesDiscovered: 4,
			FilesFormatted:  3,
			FilesChanged:    1,
			FilesErrored:    1,
			Errors:          1,
			Warnings:        1,
		},
	}
}

func newReporter(t *testing.T, format config.OutputFormat, check bool) (reporter.Reporter, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &buf,
		Format:      format,
		Color:       "never",
		ShowContext: true,
		ShowSummary: true,
		Check:       check,
	})
	require.NoError(t, err)
	return rep, &buf
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	for _, format := range config.OutputFormats() {
		_, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: format})
		require.NoError(t, err, format)
	}

	_, err := reporter.New(reporter.Options{Format: ""})
	require.NoError(t, err, "empty format means text")

	_, err = reporter.New(reporter.Options{Format: "sarif"})
	require.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.OutputFormat = config.FormatDiff
	cfg.Color = "always"
	cfg.Check = true

	opts := reporter.OptionsFromConfig(cfg)
	assert.Equal(t, config.FormatDiff, opts.Format)
	assert.Equal(t, "always", opts.Color)
	assert.True(t, opts.Check)

	assert.Equal(t, config.FormatText, reporter.OptionsFromConfig(nil).Format)
}

func TestTextReporter_CheckMode(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatText, true)
	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	want := strings.Join([]string{
		"Diff in src/a.rs:1:",
		" use std::io;",
		"-fn  main() {}",
		"+fn main() {}",
		"",
		"src/b.rs (1 issue)",
		"  src/b.rs:4  warning  trailing whitespace  (trailing_whitespace)",
		"        let x = 1;  ",
		"",
		"src/c.rs (1 issue)",
		"  src/c.rs:2  error  expected `}`  (parse_error)",
		"",
		"1 file would be reformatted, 1 error, 1 warning, 1 file failed (4 files checked)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_WriteModeOmitsDiffs(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatText, false)
	_, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "Diff in")
	assert.Contains(t, out, "trailing whitespace")
	assert.True(t, strings.HasSuffix(out, "Formatted 3 files, 1 changed, 1 error, 1 warning, 1 file failed\n"))
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatText, false)
	count, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, "No files to format.\n", buf.String())
}

func TestTextReporter_Skipped(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatText, false)
	result := &runner.Result{Files: []runner.FileOutcome{{
		Path:       "a.rs",
		Report:     &report.FileReport{Path: "a.rs", Changed: true},
		Skipped:    true,
		SkipReason: "file modified during formatting",
	}}}
	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "a.rs: skipped: file modified during formatting\n")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatJSON, true)
	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var files []reporter.JSONFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &files))
	require.Len(t, files, 3)

	assert.Equal(t, "src/a.rs", files[0].Name)
	assert.Equal(t, []reporter.JSONMismatch{{
		OriginalBeginLine: 2,
		OriginalEndLine:   2,
		ExpectedBeginLine: 2,
		ExpectedEndLine:   2,
		Original:          "fn  main() {}",
		Expected:          "fn main() {}",
	}}, files[0].Mismatches)
	assert.Empty(t, files[0].Errors)

	assert.Empty(t, files[1].Mismatches)
	assert.Equal(t, []reporter.JSONError{{
		Kind: "trailing_whitespace", Severity: "warning", Line: 4, Message: "trailing whitespace",
	}}, files[1].Errors)

	assert.Equal(t, "error", files[2].Errors[0].Severity)
}

func TestJSONReporter_EmptyIsArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: config.FormatJSON, Compact: true})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestCheckstyleReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatCheckstyle, true)
	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<checkstyle version="4.3">
  <file name="src/a.rs">
    <error line="2" severity="warning" message="Should be ` + "`fn main() {}`" + `" source="rsfmt"></error>
  </file>
  <file name="src/b.rs">
    <error line="4" severity="warning" message="trailing whitespace" source="rsfmt.trailing_whitespace"></error>
  </file>
  <file name="src/c.rs">
    <error line="2" severity="error" message="expected ` + "`}`" + `" source="rsfmt.parse_error"></error>
  </file>
</checkstyle>
`
	assert.Equal(t, want, buf.String())
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatDiff, true)
	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	want := strings.Join([]string{
		"diff --git a/src/a.rs b/src/a.rs",
		"--- a/src/a.rs",
		"+++ b/src/a.rs",
		"@@ -1,2 +1,2 @@",
		" use std::io;",
		"-fn  main() {}",
		"+fn main() {}",
		"",
	}, "\n")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, want), out)
	assert.Contains(t, out, "src/c.rs: error: parse failed\n")
	assert.True(t, strings.HasSuffix(out, "1 file changed, 1 insertion(+), 1 deletion(-)\n"))
}

func TestUnifiedDiff_NoChange(t *testing.T) {
	t.Parallel()

	diff, err := reporter.UnifiedDiff("a.rs", formatted, formatted)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestUnifiedDiff_Lines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		original  string
		formatted string
		want      string
	}{
		{
			name:      "no phantom last line",
			original:  "fn  main() {}\n",
			formatted: "fn main() {}\n",
			want: "--- a/a.rs\n+++ b/a.rs\n@@ -1 +1 @@\n" +
				"-fn  main() {}\n+fn main() {}\n",
		},
		{
			name:      "missing final newline",
			original:  "fn main() {}",
			formatted: "fn main() {}\n",
			want: "--- a/a.rs\n+++ b/a.rs\n@@ -1 +1 @@\n" +
				"-fn main() {}\n\\ No newline at end of file\n+fn main() {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diff, err := reporter.UnifiedDiff("a.rs", tt.original, tt.formatted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, diff)
		})
	}
}

func TestSummaryRenderer(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatSummary, true)
	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	out := buf.String()
	assert.Contains(t, out, "Diagnostics by Kind")
	assert.Contains(t, out, "trailing_whitespace")
	assert.Contains(t, out, "Files Summary")
	assert.Contains(t, out, "Differs")
	assert.NotContains(t, out, "src/d.rs")
	assert.Contains(t, out, "Total: 1 file would be reformatted, 1 errors, 1 warnings")
}

func TestSummaryRenderer_Clean(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, config.FormatSummary, false)
	count, err := rep.Report(context.Background(), &runner.Result{Files: []runner.FileOutcome{
		{Path: "a.rs", Report: &report.FileReport{Path: "a.rs"}},
	}})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, "All files formatted correctly\n", buf.String())
}
