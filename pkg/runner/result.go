package runner

import (
	"time"

	"github.com/yaklabco/rsfmt/pkg/format/report"
)

// FileOutcome is the result of formatting one file.
type FileOutcome struct {
	// Path is the file path that was processed, relative to the working
	// directory when possible.
	Path string

	// Report holds the diagnostics of the file. It is set even when the
	// file failed, carrying the parse or I/O error.
	Report *report.FileReport

	// Original and Formatted are kept for changed files so that diffs can
	// be rendered. With stdout emission Formatted is set for every file
	// that did not fail.
	Original  string
	Formatted string

	// Written is set when the formatted text replaced the file on disk.
	Written bool

	// BackupPath is the backup written before overwriting, if any.
	BackupPath string

	// Skipped is set when the file was left alone; SkipReason says why.
	Skipped    bool
	SkipReason string

	// Error is set if the file could not be read, parsed or written.
	Error error
}

// Changed reports whether formatting altered the file.
func (o FileOutcome) Changed() bool {
	return o.Report != nil && o.Report.Changed
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesFormatted  int
	FilesChanged    int
	FilesWritten    int
	FilesSkipped    int
	FilesErrored    int

	// Errors and Warnings count diagnostics across all files.
	Errors   int
	Warnings int

	// FilesNonFormatted counts files with lines left verbatim.
	FilesNonFormatted int

	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed or carries an error
// diagnostic.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.Errors > 0
}

// HasChanges reports whether any file needed formatting.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > 0
}

// Report collects the file reports of the run.
func (r *Result) Report() *report.Report {
	rep := &report.Report{}
	if r == nil {
		return rep
	}
	for _, f := range r.Files {
		if f.Report != nil {
			rep.Add(f.Report)
		}
	}
	return rep
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Report != nil {
		for _, diag := range outcome.Report.Errors {
			if diag.IsWarning() {
				r.Stats.Warnings++
			} else {
				r.Stats.Errors++
			}
		}
		if len(outcome.Report.NonFormatted) > 0 {
			r.Stats.FilesNonFormatted++
		}
	}

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesFormatted++
	if outcome.Changed() {
		r.Stats.FilesChanged++
	}
	if outcome.Written {
		r.Stats.FilesWritten++
	}
	if outcome.Skipped {
		r.Stats.FilesSkipped++
	}
}

// NewResult builds a Result from outcomes produced outside Run, such as
// those of FormatSource.
func NewResult(outcomes ...FileOutcome) *Result {
	r := &Result{Files: make([]FileOutcome, 0, len(outcomes))}
	r.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		r.accumulate(outcome)
	}
	return r
}
