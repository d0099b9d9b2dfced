package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rsfmt/pkg/format/report"
)

func TestRangeSet_Merge(t *testing.T) {
	var set report.RangeSet
	set.Add(10, 12)
	set.Add(1, 2)
	set.Add(4, 5)
	assert.Equal(t, []report.NonFormattedRange{{Lo: 1, Hi: 2}, {Lo: 4, Hi: 5}, {Lo: 10, Hi: 12}}, set.Ranges())

	// Adjacent to both [1,2] and [4,5].
	set.Add(3, 3)
	assert.Equal(t, []report.NonFormattedRange{{Lo: 1, Hi: 5}, {Lo: 10, Hi: 12}}, set.Ranges())

	// Swallows an existing range.
	set.Add(8, 20)
	assert.Equal(t, []report.NonFormattedRange{{Lo: 1, Hi: 5}, {Lo: 8, Hi: 20}}, set.Ranges())
	assert.Equal(t, "{1-5, 8-20}", set.String())
}

func TestRangeSet_Contains(t *testing.T) {
	var set report.RangeSet
	set.Add(3, 5)
	set.Add(9, 9)

	for line, want := range map[int]bool{1: false, 3: true, 5: true, 6: false, 9: true, 10: false} {
		assert.Equal(t, want, set.Contains(line), "line %d", line)
	}
}

func TestFormatError_IsWarning(t *testing.T) {
	assert.True(t, report.FormatError{Kind: report.LineOverflow}.IsWarning())
	assert.True(t, report.FormatError{Kind: report.LicenseCheck}.IsWarning())
	assert.False(t, report.FormatError{Kind: report.LineOverflow, Err: true}.IsWarning())
	assert.False(t, report.FormatError{Kind: report.ParseError}.IsWarning())
}

func TestReport(t *testing.T) {
	var r report.Report
	clean := &report.FileReport{Path: "a.rs"}
	warned := &report.FileReport{Path: "b.rs", Changed: true}
	warned.Add(report.FormatError{Kind: report.TrailingWhitespace, Line: 2})
	warned.Add(report.FormatError{Kind: report.LineOverflow, Line: 1})
	r.Add(clean)
	r.Add(warned)

	assert.False(t, r.HasErrors())
	assert.True(t, r.HasWarnings())
	assert.Equal(t, 1, r.ChangedFiles())
	assert.Equal(t, 1, r.Count(report.LineOverflow))
	assert.Equal(t, map[report.ErrorKind]int{report.LineOverflow: 1, report.TrailingWhitespace: 1}, r.Counts())

	warned.SortErrors()
	assert.Equal(t, report.LineOverflow, warned.Errors[0].Kind)

	failed := &report.FileReport{Path: "c.rs"}
	failed.Add(report.FormatError{Kind: report.ParseError, Message: "expected `;`"})
	r.Add(failed)
	assert.True(t, r.HasErrors())
	assert.Equal(t, "parse_error: expected `;`", failed.Errors[0].Error())
}
