package reporter

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

const checkstyleVersion = "4.3"

type checkstyleOutput struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string            `xml:"name,attr"`
	Errors []checkstyleError `xml:"error"`
}

type checkstyleError struct {
	Line     int    `xml:"line,attr"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr,omitempty"`
}

// CheckstyleReporter formats results as checkstyle XML. Every mismatch is
// an error entry at its first original line whose message quotes the
// expected text.
type CheckstyleReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewCheckstyleReporter creates a new checkstyle reporter.
func NewCheckstyleReporter(opts Options) *CheckstyleReporter {
	return &CheckstyleReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *CheckstyleReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := buildCheckstyle(result)
	if err := writeCheckstyle(r.bw, output); err != nil {
		return 0, err
	}
	return len(output.Files), nil
}

func buildCheckstyle(result *runner.Result) checkstyleOutput {
	output := checkstyleOutput{Version: checkstyleVersion}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		entry := checkstyleFile{Name: file.Path}

		if file.Changed() {
			for _, m := range Mismatches(file.Original, file.Formatted, 0) {
				entry.Errors = append(entry.Errors, checkstyleError{
					Line:     m.OriginalBegin,
					Severity: "warning",
					Message:  "Should be `" + m.Expected() + "`",
					Source:   "rsfmt",
				})
			}
		}

		if file.Report != nil {
			for _, diag := range file.Report.Errors {
				entry.Errors = append(entry.Errors, checkstyleError{
					Line:     diag.Line,
					Severity: diag.Severity(),
					Message:  diag.Message,
					Source:   "rsfmt." + diag.Kind.String(),
				})
			}
		}

		if len(entry.Errors) > 0 {
			output.Files = append(output.Files, entry)
		}
	}
	return output
}

func writeCheckstyle(w io.Writer, output checkstyleOutput) error {
	var sb strings.Builder
	sb.WriteString(xml.Header)

	encoder := xml.NewEncoder(&sb)
	encoder.Indent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode checkstyle: %w", err)
	}
	sb.WriteString("\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write checkstyle: %w", err)
	}
	return nil
}
