package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rsfmt/internal/ui/pretty"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		check bool
		want  string
	}{
		{
			name:  "write mode",
			stats: runner.Stats{FilesDiscovered: 5, FilesFormatted: 5, FilesChanged: 2},
			want:  "Formatted 5 files, 2 changed\n",
		},
		{
			name:  "write mode single unchanged",
			stats: runner.Stats{FilesDiscovered: 1, FilesFormatted: 1},
			want:  "Formatted 1 file\n",
		},
		{
			name:  "check clean",
			stats: runner.Stats{FilesDiscovered: 3, FilesFormatted: 3},
			check: true,
			want:  "All files formatted correctly (3 files checked)\n",
		},
		{
			name:  "check dirty with diagnostics",
			stats: runner.Stats{FilesDiscovered: 4, FilesFormatted: 3, FilesChanged: 1, FilesErrored: 1, Errors: 1, Warnings: 2},
			check: true,
			want:  "1 file would be reformatted, 1 error, 2 warnings, 1 file failed (4 files checked)\n",
		},
		{
			name:  "skipped",
			stats: runner.Stats{FilesDiscovered: 2, FilesFormatted: 2, FilesChanged: 2, FilesSkipped: 1},
			want:  "Formatted 2 files, 2 changed, 1 skipped\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats, tt.check))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatSummary(runner.Stats{
		FilesDiscovered: 10,
		FilesFormatted:  9,
		FilesChanged:    3,
		FilesErrored:    1,
		Errors:          1,
		Warnings:        4,
	}, true)

	assert.Contains(t, got, "Summary")
	assert.Contains(t, got, "Files found:        10")
	assert.Contains(t, got, "Files to reformat:  3")
	assert.Contains(t, got, "Files failed:       1")
	assert.Contains(t, got, "Warnings:           4")
	assert.True(t, strings.HasSuffix(got, "Formatting failed\n"))
}

func TestFormatSummary_Status(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Contains(t, styles.FormatSummary(runner.Stats{FilesChanged: 1}, true), "Check failed")
	assert.Contains(t, styles.FormatSummary(runner.Stats{}, true), "Check passed")
	assert.Contains(t, styles.FormatSummary(runner.Stats{Warnings: 1}, false), "Formatted with warnings")
	assert.Contains(t, styles.FormatSummary(runner.Stats{FilesChanged: 1}, false), "Formatting complete")
	assert.NotContains(t, styles.FormatSummary(runner.Stats{}, false), "Files changed:")
}

func TestTableFormatter(t *testing.T) {
	styles := pretty.NewStyles(false)
	table := pretty.NewTableFormatter(styles, 0)

	assert.Empty(t, table.FormatTable(nil))
	assert.Empty(t, table.FormatTable(&report.Report{Files: []*report.FileReport{{Path: "clean.rs"}}}))

	rep := &report.Report{Files: []*report.FileReport{
		{Path: "a.rs", Errors: []report.FormatError{
			{Kind: report.TrailingWhitespace, Line: 3, Message: "trailing whitespace"},
		}},
		{Path: "b.rs", Errors: []report.FormatError{
			{Kind: report.ParseError, Line: 1, Message: "expected `)`"},
			{Kind: report.IOError, Message: "denied"},
		}},
	}}

	got := table.FormatTable(rep)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")

	// header, heavy, row, light, row, row, heavy
	assert.Len(t, lines, 7)
	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "KIND")
	assert.Contains(t, lines[2], "trailing_whitespace")
	assert.True(t, strings.HasPrefix(lines[3], "---"))
	assert.Contains(t, lines[5], "io_error")
	assert.Contains(t, lines[5], " -  ")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", pretty.Truncate("short", 10))
	assert.Equal(t, "abcdefg...", pretty.Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", pretty.Truncate("abcdef", 2))
	assert.Equal(t, "...src/lib.rs", pretty.TruncateFilePath("crates/core/src/lib.rs", 13))
}
