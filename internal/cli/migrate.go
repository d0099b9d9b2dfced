package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rsfmt/internal/configloader"
	"github.com/yaklabco/rsfmt/internal/logging"
)

type migrateFlags struct {
	force  bool
	output string
}

func newMigrateCommand() *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate [rustfmt.toml]",
		Short: "Convert a rustfmt.toml to rsfmt format",
		Long: `Convert an existing rustfmt.toml or .rustfmt.toml to an rsfmt
configuration file (` + configloader.MigratedConfigName + ` by default).

Without an argument the command looks for a rustfmt configuration in the
current directory. Options rsfmt does not implement are dropped with a
warning; deprecated option names are rewritten to their replacements.

Examples:
  rsfmt migrate                        Convert ./rustfmt.toml
  rsfmt migrate ../other/rustfmt.toml  Convert a specific file
  rsfmt migrate --output fmt.yml       Write to a custom path`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runMigrate(ctx, input, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing output file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.MigratedConfigName, "output file path")

	return cmd
}

func runMigrate(ctx context.Context, inputPath string, flags *migrateFlags) error {
	logger := logging.NewInteractive()

	if inputPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		inputPath = configloader.FindRustfmtConfig(cwd)
		if inputPath == "" {
			return fmt.Errorf("%w: no rustfmt.toml found in %s", os.ErrNotExist, cwd)
		}
		logger.Info("found rustfmt config", logging.FieldPath, inputPath)
	}

	if !configloader.CanMigrate(inputPath) {
		if _, err := os.Stat(inputPath); err != nil {
			return fmt.Errorf("read %s: %w", inputPath, err)
		}
		return fmt.Errorf("%w: %s is not a TOML file", ErrInvalidUsage, inputPath)
	}

	absOutput, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	if _, err := os.Stat(absOutput); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: %q already exists; use --force to overwrite", ErrInvalidUsage, flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	result, err := configloader.ConvertRustfmtConfig(inputPath)
	if err != nil {
		return fmt.Errorf("%w: convert %s: %w", configloader.ErrLoad, inputPath, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	if err := configloader.WriteConfig(ctx, result.Config, absOutput); err != nil {
		return err
	}

	logger.Info("migration complete", logging.FieldInput, inputPath, logging.FieldOutput, flags.output)
	if len(result.Warnings) > 0 {
		logger.Warn("review the warnings above and check the migrated configuration")
	}

	return nil
}
