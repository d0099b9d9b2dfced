package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// diffContextLines is the number of unchanged lines shown around a change.
const diffContextLines = 3

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format config.OutputFormat

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext prints the offending source line under a diagnostic.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Check reports files that would be reformatted instead of files that
	// were reformatted, and prints their mismatches in text output.
	Check bool

	// Compact uses minified JSON output.
	Compact bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      config.FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
	}
}

// OptionsFromConfig derives reporter options from the CLI fields of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.OutputFormat != "" {
		opts.Format = cfg.OutputFormat
	}
	if cfg.Color != "" {
		opts.Color = cfg.Color
	}
	opts.Check = cfg.Check
	return opts
}
