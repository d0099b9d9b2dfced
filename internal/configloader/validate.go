package configloader

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// ErrInvalidConfig is wrapped by every ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the option name (e.g., "blank_lines_upper_bound").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// knownColors lists valid --color values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColors = []string{"auto", "always", "never"}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateEnums(cfg, result)
	validateWidths(cfg, result)

	if cfg.BlankLinesLowerBound < 0 {
		result.fail("blank_lines_lower_bound", cfg.BlankLinesLowerBound, "must be >= 0")
	}
	if cfg.BlankLinesLowerBound > cfg.BlankLinesUpperBound {
		result.fail("blank_lines_lower_bound", cfg.BlankLinesLowerBound,
			"must not exceed blank_lines_upper_bound (%d)", cfg.BlankLinesUpperBound)
	}

	if cfg.LicenseTemplate != "" {
		if _, err := regexp.Compile(cfg.LicenseTemplate); err != nil {
			result.fail("license_template", cfg.LicenseTemplate, "invalid regular expression: %v", err)
		}
	}

	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern %q", pattern)
		}
	}

	validateCLI(cfg, result)
	return result
}

// validateEnums checks every option with a fixed set of values.
func validateEnums(cfg *config.Config, result *ValidationResult) {
	for _, info := range config.Options() {
		if len(info.Values) == 0 {
			continue
		}
		value, _ := cfg.Get(info.Name)
		if !slices.Contains(info.Values, value) {
			result.fail(info.Name, value, "invalid value %q; must be one of: %s",
				value, strings.Join(info.Values, ", "))
		}
	}
}

func validateWidths(cfg *config.Config, result *ValidationResult) {
	if cfg.MaxWidth <= 0 {
		result.fail("max_width", cfg.MaxWidth, "must be > 0")
	}
	if cfg.TabSpaces <= 0 {
		result.fail("tab_spaces", cfg.TabSpaces, "must be > 0")
	}
	if cfg.CommentWidth <= 0 {
		result.fail("comment_width", cfg.CommentWidth, "must be > 0")
	}
	if cfg.ShortArrayElementWidth < 0 {
		result.fail("short_array_element_width_threshold", cfg.ShortArrayElementWidth, "must be >= 0")
	}

	for _, w := range []struct {
		name  string
		value *int
	}{
		{"fn_call_width", cfg.FnCallWidth},
		{"attr_fn_like_width", cfg.AttrFnLikeWidth},
		{"struct_lit_width", cfg.StructLitWidth},
		{"struct_variant_width", cfg.StructVariantWidth},
		{"array_width", cfg.ArrayWidth},
		{"chain_width", cfg.ChainWidth},
		{"single_line_if_else_max_width", cfg.SingleLineIfElseMaxWidth},
		{"single_line_let_else_max_width", cfg.SingleLineLetElseWidth},
	} {
		switch {
		case w.value == nil:
		case *w.value < 0:
			result.fail(w.name, *w.value, "must be >= 0")
		case *w.value > cfg.MaxWidth:
			result.warn(w.name, *w.value, "exceeds max_width (%d); it will be capped", cfg.MaxWidth)
		}
	}
}

func validateCLI(cfg *config.Config, result *ValidationResult) {
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "must be >= 0 (0 means auto)")
	}
	if cfg.Timeout < 0 {
		result.fail("timeout", cfg.Timeout, "must not be negative")
	}
	if cfg.Color != "" && !slices.Contains(knownColors, cfg.Color) {
		result.fail("color", cfg.Color, "invalid value %q; must be one of: %s",
			cfg.Color, strings.Join(knownColors, ", "))
	}
	if cfg.OutputFormat != "" {
		if _, err := config.ParseOutputFormat(string(cfg.OutputFormat)); err != nil {
			result.fail("output_format", cfg.OutputFormat, "%v", err)
		}
	}
	if cfg.Emit != "" {
		if _, err := config.ParseEmitMode(string(cfg.Emit)); err != nil {
			result.fail("emit", cfg.Emit, "%v", err)
		}
	}
	if cfg.Check && cfg.Emit == config.EmitStdout {
		result.warn("emit", cfg.Emit, "ignored in check mode")
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
