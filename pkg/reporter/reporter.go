// Package reporter renders the outcome of a formatting run: diagnostics,
// mismatches between the original and the formatted text, and summaries.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of files reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer Renderer
}

// Report implements Reporter by collecting the file reports and rendering
// them.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	rep := result.Report()
	if err := f.renderer.Render(ctx, rep); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return countReported(rep), nil
}

func countReported(rep *report.Report) int {
	n := 0
	for _, f := range rep.Files {
		if f.Changed || len(f.Errors) > 0 {
			n++
		}
	}
	return n
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = DefaultOptions().ErrorWriter
	}

	format, err := config.ParseOutputFormat(string(opts.Format))
	if err != nil {
		return nil, fmt.Errorf("unsupported format: %w", err)
	}

	switch format {
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatCheckstyle:
		return NewCheckstyleReporter(opts), nil
	case config.FormatDiff:
		return NewDiffReporter(opts), nil
	case config.FormatSummary:
		return &reporterFacade{renderer: NewSummaryRenderer(opts)}, nil
	default:
		return NewTextReporter(opts), nil
	}
}
