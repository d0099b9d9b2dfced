package configloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// ErrBadOverride is returned for a --config-override argument that is not
// of the form key=value.
var ErrBadOverride = errors.New("config override must be key=value")

// mergeCLI copies the CLI-only fields set in override onto cfg.
// Booleans can only be switched on; a false flag leaves cfg unchanged.
func mergeCLI(cfg, override *config.Config) {
	if override == nil {
		return
	}
	if override.Check {
		cfg.Check = true
	}
	if override.Backup {
		cfg.Backup = true
	}
	if override.Emit != "" {
		cfg.Emit = override.Emit
	}
	if override.OutputFormat != "" {
		cfg.OutputFormat = override.OutputFormat
	}
	if override.Jobs != 0 {
		cfg.Jobs = override.Jobs
	}
	if override.Color != "" {
		cfg.Color = override.Color
	}
	if override.Timeout != 0 {
		cfg.Timeout = override.Timeout
	}
}

// ParseOverride splits a key=value override. The key is resolved through
// CanonicalOption.
func ParseOverride(arg string) (key, value string, err error) {
	rawKey, value, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(rawKey) == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadOverride, arg)
	}
	key, _, found := CanonicalOption(rawKey)
	if !found {
		return "", "", fmt.Errorf("%w: %s", config.ErrUnknownOption, rawKey)
	}
	return key, strings.TrimSpace(value), nil
}

// applyOverrides sets each key=value override on cfg, in order.
func applyOverrides(cfg *config.Config, overrides []string) error {
	for _, arg := range overrides {
		key, value, err := ParseOverride(arg)
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return fmt.Errorf("config override: %w", err)
		}
	}
	return nil
}
