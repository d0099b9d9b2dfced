package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/fsutil"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// Formatter formats the contents of one file.
type Formatter func(name, src string, cfg *config.Config) (*format.Result, error)

// Runner formats files concurrently with a Formatter.
type Runner struct {
	Format Formatter
}

// New creates a Runner using format.Format.
func New() *Runner {
	return &Runner{Format: format.Format}
}

// NewWithFormatter creates a Runner with a custom formatter.
func NewWithFormatter(f Formatter) *Runner {
	return &Runner{Format: f}
}

// Run discovers files under opts.Paths and formats them with at most
// opts.Jobs workers. A failing file does not stop the others; its outcome
// carries the error. The returned error is only set for discovery failures
// and cancellation, in which case the partial result is still returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each worker writes only its own slot.
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.processFile(gctx, path, relativeTo(workDir, path), opts)
			done[i] = true
			return nil
		})
	}
	waitErr := group.Wait()

	for i := range files {
		if done[i] {
			result.accumulate(outcomes[i])
		}
	}
	result.Stats.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	return result, nil
}

// processFile formats one file on disk.
func (r *Runner) processFile(ctx context.Context, path, display string, opts Options) FileOutcome {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return failed(display, report.IOError, 0, err)
	}

	outcome := r.formatSource(display, string(content), opts.config())
	if outcome.Error == nil && !outcome.Changed() && opts.Emit == config.EmitStdout {
		outcome.Formatted = string(content)
	}
	if outcome.Error != nil || !outcome.Changed() || !opts.writes() {
		return outcome
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return failed(display, report.IOError, 0, err)
	}
	if modified {
		outcome.Skipped = true
		outcome.SkipReason = fsutil.ErrModified.Error()
		return outcome
	}

	if opts.Backup {
		backup, err := fsutil.CreateBackup(ctx, info, content)
		if err != nil {
			return failed(display, report.IOError, 0, err)
		}
		outcome.BackupPath = backup
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(outcome.Formatted), info.Mode)
	if err != nil {
		return failed(display, report.IOError, 0, err)
	}
	outcome.Written = written
	return outcome
}

// FormatSource formats text that does not come from a file on disk, such
// as standard input. Nothing is written.
func (r *Runner) FormatSource(name, src string, cfg *config.Config) FileOutcome {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return r.formatSource(name, src, cfg)
}

func (r *Runner) formatSource(name, src string, cfg *config.Config) FileOutcome {
	res, err := r.Format(name, src, cfg)
	if err != nil {
		line := 0
		if perr, ok := syntax.AsError(err); ok {
			line = perr.Line
		}
		return failed(name, report.ParseError, line, err)
	}

	outcome := FileOutcome{
		Path: name,
		Report: &report.FileReport{
			Path:               name,
			Changed:            res.Changed,
			MacroRewriteFailed: res.MacroRewriteFailed,
			NonFormatted:       res.NonFormatted,
			Errors:             res.Errors,
		},
	}
	if res.Changed {
		outcome.Original = src
		outcome.Formatted = res.Text
	}
	return outcome
}

// failed builds the outcome of a file that could not be formatted.
func failed(path string, kind report.ErrorKind, line int, err error) FileOutcome {
	msg := err.Error()
	if perr, ok := syntax.AsError(err); ok {
		msg = perr.Message
	}
	return FileOutcome{
		Path: path,
		Report: &report.FileReport{
			Path:   path,
			Errors: []report.FormatError{{Kind: kind, Line: line, Message: msg}},
		},
		Error: err,
	}
}

// IsCancelled reports whether err stems from cancellation or the run timeout.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
