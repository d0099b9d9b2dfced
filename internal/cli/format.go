package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/rsfmt/internal/configloader"
	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/reporter"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

// stdinName is the file name reported for standard input.
const stdinName = "<stdin>"

type formatFlags struct {
	check        bool
	emit         string
	outputFormat string
	jobs         int
	backup       bool
	timeout      time.Duration
	overrides    []string
	stdin        bool
	noContext    bool
	compact      bool
	quiet        bool
	vendored     bool
}

func newFormatCommand() *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:     "format [paths...]",
		Aliases: []string{"fmt"},
		Short:   "Format Rust source files",
		Long:    formatLongDescription + envHelp(),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags)
		},
	}

	addFormatFlags(cmd, flags)

	return cmd
}

const formatLongDescription = `Format Rust source files in place.

By default, formats every .rs file under the current directory. Hidden
directories, vendored directories and files matching the ignore globs are
skipped. When no paths are given and standard input is not a terminal, the
source is read from standard input and the formatted text is written to
standard output.

Examples:
  rsfmt format                         # Format the current directory
  rsfmt format src/ build.rs           # Format specific paths
  rsfmt format --check                 # Exit non-zero if files would change
  rsfmt format --check --output-format json
  rsfmt format --emit stdout lib.rs    # Print instead of writing
  rsfmt format --config-override max_width=80
  cat main.rs | rsfmt format           # Format standard input`

// envHelp lists the environment variables for the long description.
func envHelp() string {
	var sb strings.Builder
	sb.WriteString("\n\nEnvironment:\n")
	for _, pair := range configloader.ListCLIEnvVars() {
		fmt.Fprintf(&sb, "  %-20s %s\n", pair[0], pair[1])
	}
	sb.WriteString("  Every configuration option can also be set as RSFMT_<OPTION>, e.g. RSFMT_MAX_WIDTH.")
	return sb.String()
}

func runFormat(cmd *cobra.Command, args []string, flags *formatFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()

	cliCfg, err := cliConfig(cmd, flags)
	if err != nil {
		return err
	}

	stdinMode := flags.stdin || (len(args) == 0 && !isTerminal(cmd.InOrStdin()))
	if flags.stdin && len(args) > 0 {
		return fmt.Errorf("%w: --stdin does not take paths", ErrInvalidUsage)
	}

	cfg, err := loadConfig(ctx, cmd, cliCfg, flags.overrides, stdinMode)
	if err != nil {
		return err
	}

	if stdinMode {
		return formatStdin(ctx, cmd, cfg, flags)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := runner.OptionsFromConfig(args, cfg)
	opts.WorkingDir = workDir
	opts.IncludeVendored = flags.vendored

	logger.Debug("starting format run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
		logging.FieldCheck, opts.Check,
	)

	result, runErr := runner.New().Run(ctx, opts)
	if result == nil {
		return fmt.Errorf("format run: %w", runErr)
	}

	logger.Debug("format run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldDuration, result.Stats.Duration,
	)

	out := cmd.OutOrStdout()
	if cfg.Emit == config.EmitStdout && !cfg.Check {
		if err := emitFiles(out, result); err != nil {
			return err
		}
		out = cmd.ErrOrStderr()
	}

	if err := report(ctx, cmd, out, cfg, flags, result); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("format run: %w", runErr)
	}
	return resultError(result, cfg.Check)
}

// cliConfig collects the CLI-only fields set by flags.
func cliConfig(cmd *cobra.Command, flags *formatFlags) (*config.Config, error) {
	cfg := &config.Config{
		Check:   flags.check,
		Jobs:    flags.jobs,
		Backup:  flags.backup,
		Timeout: flags.timeout,
	}

	if cmd.Flags().Changed("emit") {
		emit, err := config.ParseEmitMode(flags.emit)
		if err != nil {
			return nil, fmt.Errorf("%w: --emit: %w", ErrInvalidUsage, err)
		}
		cfg.Emit = emit
	}
	if cmd.Flags().Changed("output-format") {
		format, err := config.ParseOutputFormat(flags.outputFormat)
		if err != nil {
			return nil, fmt.Errorf("%w: --output-format: %w", ErrInvalidUsage, err)
		}
		cfg.OutputFormat = format
	}
	if flag := cmd.Flags().Lookup("color"); flag != nil && flag.Changed {
		cfg.Color = flag.Value.String()
	}
	if flags.jobs < 0 {
		return nil, fmt.Errorf("%w: --jobs must not be negative", ErrInvalidUsage)
	}
	return cfg, nil
}

// loadConfig resolves the configuration and logs its warnings.
func loadConfig(
	ctx context.Context,
	cmd *cobra.Command,
	cliCfg *config.Config,
	overrides []string,
	nonInteractive bool,
) (*config.Config, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:     workDir,
		ExplicitPath:   configPath,
		NonInteractive: nonInteractive,
		Overrides:      overrides,
		CLIConfig:      cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldSource, loadResult.LoadedFrom)
	}
	return loadResult.Config, nil
}

// formatStdin formats standard input to standard output. Diagnostics go to
// standard error so that the output stays a valid source file.
func formatStdin(ctx context.Context, cmd *cobra.Command, cfg *config.Config, flags *formatFlags) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	outcome := runner.New().FormatSource(stdinName, string(src), cfg)
	result := runner.NewResult(outcome)

	if !cfg.Check && outcome.Error == nil {
		text := string(src)
		if outcome.Changed() {
			text = outcome.Formatted
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	}

	out := cmd.ErrOrStderr()
	if cfg.Check {
		out = cmd.OutOrStdout()
	}
	quiet := *flags
	quiet.quiet = true
	if err := report(ctx, cmd, out, cfg, &quiet, result); err != nil {
		return err
	}

	if outcome.Error != nil {
		return fmt.Errorf("%s: %w", stdinName, outcome.Error)
	}
	return resultError(result, cfg.Check)
}

// emitFiles prints formatted files to w. With several files each one is
// preceded by its path.
func emitFiles(w io.Writer, result *runner.Result) error {
	var emitted []runner.FileOutcome
	for _, file := range result.Files {
		if file.Error == nil {
			emitted = append(emitted, file)
		}
	}

	for i, file := range emitted {
		if len(emitted) > 1 {
			sep := ""
			if i > 0 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%s%s:\n\n", sep, file.Path); err != nil {
				return fmt.Errorf("write stdout: %w", err)
			}
		}
		if _, err := io.WriteString(w, file.Formatted); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	}
	return nil
}

// report renders result with the configured reporter.
func report(
	ctx context.Context,
	cmd *cobra.Command,
	out io.Writer,
	cfg *config.Config,
	flags *formatFlags,
	result *runner.Result,
) error {
	opts := reporter.OptionsFromConfig(cfg)
	opts.Writer = out
	opts.ErrorWriter = cmd.ErrOrStderr()
	opts.ShowContext = !flags.noContext
	opts.ShowSummary = !flags.quiet
	opts.Compact = flags.compact

	rep, err := reporter.New(opts)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		logging.Default().Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

func addFormatFlags(cmd *cobra.Command, flags *formatFlags) {
	cmd.Flags().BoolVar(&flags.check, "check", false, "report files that would change instead of writing them")
	cmd.Flags().StringVar(&flags.emit, "emit", "files", "where to write formatted output: files, stdout")
	cmd.Flags().StringVar(&flags.outputFormat, "output-format", "text",
		"report format: "+joinFormats())
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "write a .bk copy of each file before overwriting it")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "abort the run after this long (0 = no limit)")
	cmd.Flags().StringArrayVar(&flags.overrides, "config-override", nil,
		"set a configuration option as key=value (repeatable)")
	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "read source from standard input")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source lines under diagnostics")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "omit the summary line")
	cmd.Flags().BoolVar(&flags.vendored, "include-vendored", false,
		"also format vendored directories such as vendor/ and third_party/")
}

func joinFormats() string {
	formats := config.OutputFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
