// Package cli provides the Cobra command structure for rsfmt.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rsfmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root rsfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var (
		debug      bool
		configPath string
		color      string
	)

	rootCmd := &cobra.Command{
		Use:   "rsfmt",
		Short: "A pretty-printer for Rust source code",
		Long: `rsfmt reformats Rust source files to a canonical layout.

It re-indents blocks, normalises spacing, wraps long expressions and
signatures to the configured width, and preserves comments. Configuration
is read from .rsfmt.yml or rsfmt.toml files and an existing rustfmt.toml
is understood as well.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(
		newFormatCommand(),
		newOptionsCommand(),
		newInitCommand(),
		newMigrateCommand(),
		newVersionCommand(info),
	)

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
