package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/rsfmt/internal/configloader"
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/fsutil"
	"github.com/yaklabco/rsfmt/pkg/runner"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// Exit codes for rsfmt.
const (
	// ExitSuccess indicates every file was formatted or already formatted.
	ExitSuccess = 0

	// ExitCheckFailed indicates --check found files that would be
	// reformatted.
	ExitCheckFailed = 1

	// ExitFormattingErrors indicates a file failed to parse or carries an
	// error diagnostic.
	ExitFormattingErrors = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrCheckFailed is returned when --check finds unformatted files.
	ErrCheckFailed = errors.New("files would be reformatted")

	// ErrFormattingFailed is returned when a file could not be formatted
	// or has error diagnostics.
	ErrFormattingFailed = errors.New("formatting failed")

	// ErrInvalidUsage wraps command-line mistakes.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrCheckFailed):
		return ExitCheckFailed
	case errors.Is(err, ErrFormattingFailed), errors.Is(err, syntax.ErrParse):
		return ExitFormattingErrors
	case errors.Is(err, configloader.ErrLoad),
		errors.Is(err, configloader.ErrInvalidConfig),
		errors.Is(err, configloader.ErrBadOverride):
		return ExitConfigError
	case errors.Is(err, ErrInvalidUsage),
		errors.Is(err, config.ErrInvalidValue),
		errors.Is(err, config.ErrUnknownOption):
		return ExitInvalidUsage
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// ExitCodeFromResult determines the exit code of a finished run.
// Failures outrank unformatted files in check mode.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasFailures() {
		return ExitFormattingErrors
	}
	if check && result.HasChanges() {
		return ExitCheckFailed
	}
	return ExitSuccess
}

// resultError converts a run result into the error a command returns.
func resultError(result *runner.Result, check bool) error {
	switch ExitCodeFromResult(result, check) {
	case ExitFormattingErrors:
		return ErrFormattingFailed
	case ExitCheckFailed:
		return ErrCheckFailed
	default:
		return nil
	}
}
