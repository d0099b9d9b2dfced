package config

import (
	"fmt"
	"slices"
)

// OutputFormats lists the report formats accepted by --output-format.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatCheckstyle, FormatDiff, FormatSummary}
}

// ParseOutputFormat validates a report format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	if s == "" {
		return FormatText, nil
	}
	format := OutputFormat(s)
	if !slices.Contains(OutputFormats(), format) {
		return "", fmt.Errorf("%w: output format %q", ErrInvalidValue, s)
	}
	return format, nil
}

// ParseEmitMode validates an emit mode name.
func ParseEmitMode(s string) (EmitMode, error) {
	switch EmitMode(s) {
	case "", EmitFiles:
		return EmitFiles, nil
	case EmitStdout:
		return EmitStdout, nil
	default:
		return "", fmt.Errorf("%w: emit mode %q", ErrInvalidValue, s)
	}
}

// NewlineFor resolves the line terminator for a file whose original text
// is src. Auto keeps the first terminator found in src.
func (c *Config) NewlineFor(src string, nativeWindows bool) string {
	switch c.NewlineStyle {
	case NewlineWindows:
		return "\r\n"
	case NewlineUnix:
		return "\n"
	case NewlineNative:
		if nativeWindows {
			return "\r\n"
		}
		return "\n"
	default:
		for i := range len(src) {
			if src[i] == '\n' {
				if i > 0 && src[i-1] == '\r' {
					return "\r\n"
				}
				return "\n"
			}
		}
		return "\n"
	}
}
