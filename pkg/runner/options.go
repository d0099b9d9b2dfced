// Package runner formats many files concurrently: it discovers Rust
// sources, formats each one in isolation, and writes results back safely.
package runner

import (
	"time"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// SourceExtension is the extension of the files the runner discovers.
const SourceExtension = ".rs"

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// to match ExcludeGlobs against. Defaults to the process working directory.
	WorkingDir string

	// ExcludeGlobs are doublestar patterns of files or directories to skip.
	ExcludeGlobs []string

	// IncludeVendored walks into vendored directories (vendor/,
	// third_party/ and the like), which are skipped by default. A vendored
	// directory named in Paths is always processed.
	IncludeVendored bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent workers; 0 means GOMAXPROCS.
	Jobs int

	// Check formats without writing; changed files are reported.
	Check bool

	// Emit selects whether formatted files are written back or only kept
	// in the outcome for printing.
	Emit config.EmitMode

	// Backup writes a .bk copy of each file before overwriting it.
	Backup bool

	// Timeout bounds the whole run; zero means no limit.
	Timeout time.Duration

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// OptionsFromConfig builds run options from a resolved configuration.
func OptionsFromConfig(paths []string, cfg *config.Config) Options {
	return Options{
		Paths:        paths,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Check:        cfg.Check,
		Emit:         cfg.Emit,
		Backup:       cfg.Backup,
		Timeout:      cfg.Timeout,
		Config:       cfg,
	}
}

// writes reports whether formatted files go back to disk.
func (o Options) writes() bool {
	return !o.Check && o.Emit != config.EmitStdout
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
