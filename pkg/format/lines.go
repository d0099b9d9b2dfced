package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
)

// checkLines scans formatted text for lines wider than max_width and for
// trailing whitespace. Lines reproduced verbatim are only checked under
// error_on_unformatted.
func checkLines(text string, cfg *config.Config, skipped *report.RangeSet) []report.FormatError {
	var diags []report.FormatError
	lineNo := 0
	for line := range strings.SplitSeq(text, "\n") {
		lineNo++
		if skipped.Contains(lineNo) && !cfg.ErrorOnUnformatted {
			continue
		}
		if w := shape.DisplayWidth(line, cfg.TabSpaces); w > cfg.MaxWidth {
			diags = append(diags, report.FormatError{
				Kind:     report.LineOverflow,
				Line:     lineNo,
				LineText: line,
				Message: fmt.Sprintf("line formatted, but exceeded maximum width (maximum: %d (see `max_width` option), found: %d)",
					cfg.MaxWidth, w),
				Err: cfg.ErrorOnLineOverflow,
			})
		}
		if trimmed := strings.TrimRight(line, " \t"); len(trimmed) != len(line) {
			diags = append(diags, report.FormatError{
				Kind:     report.TrailingWhitespace,
				Line:     lineNo,
				LineText: line,
				Message:  "left behind trailing whitespace",
				Err:      cfg.ErrorOnUnformatted && skipped.Contains(lineNo),
			})
		}
	}
	return diags
}

// checkLicense matches the start of text against license_template.
func checkLicense(text string, cfg *config.Config) []report.FormatError {
	if cfg.LicenseTemplate == "" {
		return nil
	}
	re, err := regexp.Compile(`\A(?:` + cfg.LicenseTemplate + `)`)
	if err != nil {
		return []report.FormatError{{
			Kind:    report.LicenseCheck,
			Message: fmt.Sprintf("invalid license_template: %v", err),
			Err:     true,
		}}
	}
	if re.MatchString(text) {
		return nil
	}
	first, _, _ := strings.Cut(text, "\n")
	return []report.FormatError{{
		Kind:     report.LicenseCheck,
		Line:     1,
		LineText: first,
		Message:  "file header does not match license_template",
	}}
}
