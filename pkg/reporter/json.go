package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

// JSONFile is one entry of the JSON output: a file that would change or
// carries diagnostics.
type JSONFile struct {
	Name       string         `json:"name"`
	Mismatches []JSONMismatch `json:"mismatches"`
	Errors     []JSONError    `json:"errors,omitempty"`
}

// JSONMismatch is a changed run of lines without context.
type JSONMismatch struct {
	OriginalBeginLine int    `json:"original_begin_line"`
	OriginalEndLine   int    `json:"original_end_line"`
	ExpectedBeginLine int    `json:"expected_begin_line"`
	ExpectedEndLine   int    `json:"expected_end_line"`
	Original          string `json:"original"`
	Expected          string `json:"expected"`
}

// JSONError is a diagnostic of a file.
type JSONError struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

// JSONReporter formats results as a JSON array of files.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildJSON(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return len(output), nil
}

// BuildJSON converts a run result into JSON entries. Files that are
// already formatted and have no diagnostics are left out.
func BuildJSON(result *runner.Result) []JSONFile {
	output := make([]JSONFile, 0)
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		entry := JSONFile{Name: file.Path, Mismatches: make([]JSONMismatch, 0)}

		if file.Changed() {
			for _, m := range Mismatches(file.Original, file.Formatted, 0) {
				entry.Mismatches = append(entry.Mismatches, JSONMismatch{
					OriginalBeginLine: m.OriginalBegin,
					OriginalEndLine:   m.OriginalEnd,
					ExpectedBeginLine: m.ExpectedBegin,
					ExpectedEndLine:   m.ExpectedEnd,
					Original:          m.Original(),
					Expected:          m.Expected(),
				})
			}
		}

		if file.Report != nil {
			for _, diag := range file.Report.Errors {
				entry.Errors = append(entry.Errors, JSONError{
					Kind:     diag.Kind.String(),
					Severity: diag.Severity(),
					Line:     diag.Line,
					Message:  diag.Message,
				})
			}
		}

		if file.Changed() || len(entry.Errors) > 0 {
			output = append(output, entry)
		}
	}

	return output
}
