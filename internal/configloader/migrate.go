package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/fsutil"
)

// MigratedConfigName is the file a migrated rustfmt.toml is written to.
const MigratedConfigName = ".rsfmt.yml"

// rustfmtOnlyKeys are rustfmt options that select toolchain behaviour
// rather than layout.
//
//nolint:gochecknoglobals // Read-only lookup table.
var rustfmtOnlyKeys = map[string]string{
	"edition":           "the edition is always 2021",
	"style_edition":     "only the 2021 style is implemented",
	"version":           "only the 2021 style is implemented",
	"required_version":  "version pinning is not supported",
	"unstable_features": "every implemented option is always available",
}

// MigrationResult contains the result of converting a rustfmt config.
type MigrationResult struct {
	// Config is the converted configuration.
	Config *config.Config

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string

	// SourcePath is the path to the original rustfmt config.
	SourcePath string
}

// ConvertRustfmtConfig converts a rustfmt.toml to an rsfmt configuration.
// Unsupported keys are dropped with a warning.
func ConvertRustfmtConfig(path string) (*MigrationResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]any
	if _, err := toml.Decode(string(content), &raw); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	result := &MigrationResult{SourcePath: path}
	normalized, warnings := normalizeKeys(raw, filepath.Base(path))
	result.Warnings = warnings

	cfg := config.NewConfig()
	if err := applyRaw(cfg, normalized); err != nil {
		return nil, err
	}
	result.Config = cfg
	return result, nil
}

// CanMigrate reports whether path is a rustfmt config that can be converted.
func CanMigrate(path string) bool {
	return IsTOMLConfig(path) && fileExists(path)
}

// WriteConfig writes cfg as YAML with the template header.
func WriteConfig(ctx context.Context, cfg *config.Config, path string) error {
	content, err := cfg.ToYAMLWithHeader(config.DefaultTemplateHeader())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, path, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
