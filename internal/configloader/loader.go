// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered overlays of
// YAML and TOML files, environment variable support, validation, and
// rustfmt.toml migration.
package configloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// ErrLoad is wrapped by every error reading or decoding a config file.
var ErrLoad = errors.New("load configuration")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// IgnoreRustfmt skips rustfmt.toml detection and migration.
	IgnoreRustfmt bool

	// NonInteractive disables interactive prompts (e.g., in CI).
	NonInteractive bool

	// Overrides are key=value pairs from --config-override, applied last.
	Overrides []string

	// CLIConfig carries the CLI-only fields set by flags.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string

	// MigrationPerformed is true if a rustfmt.toml was converted.
	MigrationPerformed bool
}

// Load resolves the final configuration by overlaying all sources.
// Precedence (highest to lowest):
//  1. --config-override pairs and CLI flags
//  2. Environment variables (RSFMT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.rsfmt.yml upward search, else rustfmt.toml)
//  5. User config ($XDG_CONFIG_HOME/rsfmt/config.yaml)
//  6. System config (/etc/rsfmt/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}

	if !opts.IgnoreRustfmt && !opts.IgnoreProjectConfig {
		if err := handleRustfmtConfig(ctx, workDir, result, opts); err != nil {
			return nil, err
		}
	}

	cfg := config.NewConfig()
	layers := []struct {
		path string
		skip bool
	}{
		{paths.System, opts.IgnoreSystemConfig},
		{paths.User, opts.IgnoreUserConfig},
		{paths.Project, opts.IgnoreProjectConfig},
		{paths.Explicit, false},
	}
	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		warnings, err := overlayFile(cfg, layer.path)
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	mergeCLI(cfg, opts.CLIConfig)
	if err := applyOverrides(cfg, opts.Overrides); err != nil {
		return nil, err
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// overlayFile applies the options set in a YAML or TOML file onto cfg.
func overlayFile(cfg *config.Config, path string) ([]string, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	normalized, warnings := normalizeKeys(raw, path)
	if err := applyRaw(cfg, normalized); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return warnings, nil
}

// readRaw decodes a config file into a generic document.
func readRaw(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	raw := map[string]any{}
	if IsTOMLConfig(path) {
		if _, err := toml.Decode(string(content), &raw); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
		return raw, nil
	}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return raw, nil
}

// applyRaw overlays a normalized document onto cfg through the typed YAML
// decoder, so both file formats get the same type checking.
func applyRaw(cfg *config.Config, raw map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-encode options: %w", err)
	}
	if err := config.DecodeYAML(data, cfg); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// handleRustfmtConfig uses a rustfmt.toml as the project config when no
// rsfmt config exists, offering to convert it in interactive sessions.
func handleRustfmtConfig(ctx context.Context, workDir string, result *LoadResult, opts LoadOptions) error {
	paths := result.Paths
	if paths.Rustfmt == "" {
		return nil
	}
	if paths.Project != "" {
		if filepath.Dir(paths.Project) == filepath.Dir(paths.Rustfmt) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("both %s and %s exist; using %s", paths.Project, paths.Rustfmt, paths.Project))
		}
		return nil
	}

	if opts.NonInteractive || !isInteractive() {
		paths.Project = paths.Rustfmt
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("reading %s; run 'rsfmt migrate' to convert it to %s", paths.Rustfmt, MigratedConfigName))
		return nil
	}

	shouldMigrate, err := promptMigration(paths.Rustfmt)
	if err != nil {
		return err
	}
	if !shouldMigrate {
		paths.Project = paths.Rustfmt
		return nil
	}

	migration, err := ConvertRustfmtConfig(paths.Rustfmt)
	if err != nil {
		return fmt.Errorf("convert rustfmt config: %w", err)
	}
	result.Warnings = append(result.Warnings, migration.Warnings...)

	outputPath := filepath.Join(workDir, MigratedConfigName)
	if err := WriteConfig(ctx, migration.Config, outputPath); err != nil {
		return err
	}

	paths.Project = outputPath
	result.MigrationPerformed = true
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("migrated %s to %s; you can now delete the old file", paths.Rustfmt, outputPath))
	return nil
}

func promptMigration(rustfmtPath string) (bool, error) {
	prompt := "Found " + rustfmtPath + " but no " + MigratedConfigName + "\nConvert it? [Y/n] "
	if _, err := os.Stdout.WriteString(prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "" || response == "y" || response == "yes", nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
