// Package main is the entry point for the rsfmt CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/rsfmt/internal/cli"
	"github.com/yaklabco/rsfmt/internal/logging"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	// The reporter has already explained these.
	if !errors.Is(err, cli.ErrCheckFailed) && !errors.Is(err, cli.ErrFormattingFailed) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}
