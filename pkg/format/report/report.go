// Package report collects the diagnostics produced while formatting: per
// file format errors, the lines left unformatted, and run-level counts.
package report

import (
	"fmt"
	"slices"
	"sort"
)

// ErrorKind classifies a FormatError.
type ErrorKind int

const (
	// LineOverflow is a line longer than max_width.
	LineOverflow ErrorKind = iota
	// TrailingWhitespace is a line ending in spaces or tabs.
	TrailingWhitespace
	// LicenseCheck is a file header that does not match license_template.
	LicenseCheck
	// MacroRewriteFailure is a macro call that was left verbatim.
	MacroRewriteFailure
	// DeprecatedAttr is a deprecated rsfmt attribute.
	DeprecatedAttr
	// BadAttr is an unknown rsfmt attribute.
	BadAttr
	// LostComment is a node left verbatim because formatting it would drop
	// a comment.
	LostComment
	// ParseError is a file that could not be parsed.
	ParseError
	// IOError is a file that could not be read or written.
	IOError
)

//nolint:gochecknoglobals // Static lookup table.
var kindNames = map[ErrorKind]string{
	LineOverflow:        "line_overflow",
	TrailingWhitespace:  "trailing_whitespace",
	LicenseCheck:        "license_check",
	MacroRewriteFailure: "macro_rewrite_failure",
	DeprecatedAttr:      "deprecated_attr",
	BadAttr:             "bad_attr",
	LostComment:         "lost_comment",
	ParseError:          "parse_error",
	IOError:             "io_error",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FormatError is a diagnostic attached to a line of a formatted file.
type FormatError struct {
	Kind     ErrorKind `json:"kind"`
	Line     int       `json:"line"`
	LineText string    `json:"line_text,omitempty"`
	Message  string    `json:"message"`

	// Err marks the diagnostic as an error even though its kind is
	// normally a warning, as with error_on_line_overflow.
	Err bool `json:"-"`
}

// IsWarning reports whether the diagnostic only warns.
func (e FormatError) IsWarning() bool {
	if e.Err {
		return false
	}
	return e.Kind != ParseError && e.Kind != IOError
}

// Severity is "error" or "warning".
func (e FormatError) Severity() string {
	if e.IsWarning() {
		return "warning"
	}
	return "error"
}

func (e FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d: %s: %s", e.Line, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// FileReport is the diagnostics for one file.
type FileReport struct {
	Path               string              `json:"path"`
	Changed            bool                `json:"changed"`
	MacroRewriteFailed bool                `json:"macro_rewrite_failed,omitempty"`
	NonFormatted       []NonFormattedRange `json:"non_formatted,omitempty"`
	Errors             []FormatError       `json:"errors,omitempty"`
}

// HasErrors reports whether any diagnostic of the file is an error.
func (r *FileReport) HasErrors() bool {
	return slices.ContainsFunc(r.Errors, func(e FormatError) bool { return !e.IsWarning() })
}

// HasWarnings reports whether any diagnostic of the file is a warning.
func (r *FileReport) HasWarnings() bool {
	return slices.ContainsFunc(r.Errors, FormatError.IsWarning)
}

// Add appends a diagnostic.
func (r *FileReport) Add(err FormatError) {
	r.Errors = append(r.Errors, err)
}

// SortErrors orders the diagnostics by line, then kind.
func (r *FileReport) SortErrors() {
	sort.SliceStable(r.Errors, func(i, j int) bool {
		if r.Errors[i].Line != r.Errors[j].Line {
			return r.Errors[i].Line < r.Errors[j].Line
		}
		return r.Errors[i].Kind < r.Errors[j].Kind
	})
}

// Report aggregates the file reports of a run.
type Report struct {
	Files []*FileReport `json:"files"`
}

// Add appends a file report.
func (r *Report) Add(file *FileReport) {
	r.Files = append(r.Files, file)
}

// HasErrors reports whether any file has an error.
func (r *Report) HasErrors() bool {
	return slices.ContainsFunc(r.Files, (*FileReport).HasErrors)
}

// HasWarnings reports whether any file has a warning.
func (r *Report) HasWarnings() bool {
	return slices.ContainsFunc(r.Files, (*FileReport).HasWarnings)
}

// Count returns the number of diagnostics of kind across all files.
func (r *Report) Count(kind ErrorKind) int {
	n := 0
	for _, f := range r.Files {
		for _, e := range f.Errors {
			if e.Kind == kind {
				n++
			}
		}
	}
	return n
}

// Counts returns the number of diagnostics per kind.
func (r *Report) Counts() map[ErrorKind]int {
	counts := make(map[ErrorKind]int)
	for _, f := range r.Files {
		for _, e := range f.Errors {
			counts[e.Kind]++
		}
	}
	return counts
}

// ChangedFiles is the number of files whose formatting differs.
func (r *Report) ChangedFiles() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}
