package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/fsutil"
)

// Default file names written by init.
const (
	defaultYAMLConfig = ".rsfmt.yml"
	defaultTOMLConfig = "rsfmt.toml"
)

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an rsfmt configuration file",
		Long: `Create a configuration file in the current directory holding the
most common options at their default values. With --full every option is
written, each documented with its accepted values.

Examples:
  rsfmt init                      Create .rsfmt.yml
  rsfmt init --full               Document every option
  rsfmt init --format toml        Create rsfmt.toml instead
  rsfmt init --output fmt.yml     Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runInit(ctx, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every option with its documentation")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "file format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output path (default: "+defaultYAMLConfig+" or "+defaultTOMLConfig+")")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	logger := logging.NewInteractive()

	outputPath := flags.output
	switch flags.format {
	case config.TemplateYAML:
		if outputPath == "" {
			outputPath = defaultYAMLConfig
		}
	case config.TemplateTOML:
		if outputPath == "" {
			outputPath = defaultTOMLConfig
		}
	default:
		return fmt.Errorf("%w: --format must be yaml or toml, got %q", ErrInvalidUsage, flags.format)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'rsfmt options' to see every available option")

	return nil
}
