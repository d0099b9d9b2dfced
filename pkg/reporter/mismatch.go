package reporter

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// LineKind classifies a line of a Mismatch.
type LineKind int

const (
	// LineContext is unchanged text around a change.
	LineContext LineKind = iota
	// LineOriginal is a line of the input that formatting replaces.
	LineOriginal
	// LineExpected is a line of the formatted output.
	LineExpected
)

// DiffLine is one line of a Mismatch, without its newline.
type DiffLine struct {
	Kind LineKind
	Text string
}

// Mismatch is a run of lines where the formatted text differs from the
// original. Line numbers are 1-based and inclusive. A side with no lines
// has End = Begin - 1.
type Mismatch struct {
	OriginalBegin int
	OriginalEnd   int
	ExpectedBegin int
	ExpectedEnd   int
	Lines         []DiffLine
}

// Original returns the replaced lines joined with newlines.
func (m Mismatch) Original() string {
	return m.join(LineOriginal)
}

// Expected returns the formatted lines joined with newlines.
func (m Mismatch) Expected() string {
	return m.join(LineExpected)
}

func (m Mismatch) join(kind LineKind) string {
	var lines []string
	for _, l := range m.Lines {
		if l.Kind == kind {
			lines = append(lines, l.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// Mismatches compares original and formatted line by line and groups the
// differences, keeping up to context unchanged lines around each change.
// Changes separated by more than twice context unchanged lines end up in
// separate mismatches.
func Mismatches(original, formatted string, context int) []Mismatch {
	if original == formatted {
		return nil
	}
	context = max(context, 0)

	a := splitMismatchLines(original)
	b := splitMismatchLines(formatted)
	matcher := difflib.NewMatcher(a, b)

	var out []Mismatch
	for _, group := range matcher.GetGroupedOpCodes(context) {
		first, last := group[0], group[len(group)-1]
		m := Mismatch{
			OriginalBegin: first.I1 + 1,
			OriginalEnd:   last.I2,
			ExpectedBegin: first.J1 + 1,
			ExpectedEnd:   last.J2,
		}
		for _, op := range group {
			switch op.Tag {
			case 'e':
				for _, line := range a[op.I1:op.I2] {
					m.Lines = append(m.Lines, DiffLine{Kind: LineContext, Text: line})
				}
			case 'd', 'r', 'i':
				for _, line := range a[op.I1:op.I2] {
					m.Lines = append(m.Lines, DiffLine{Kind: LineOriginal, Text: line})
				}
				for _, line := range b[op.J1:op.J2] {
					m.Lines = append(m.Lines, DiffLine{Kind: LineExpected, Text: line})
				}
			}
		}
		out = append(out, m)
	}
	return out
}

// splitMismatchLines splits text at "\n". A final newline does not start an extra
// empty line; "\r" stays part of the line so newline changes show up.
func splitMismatchLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
