package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
)

func TestConvertRustfmtConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rustfmt.toml")
	writeFile(t, path, `
edition = "2021"
max_width = 90
hard_tabs = true
brace_style = "AlwaysNextLine"
fn_args_layout = "Compressed"
imports_granularity = "Crate"
ignore = ["target/**"]
`)

	result, err := ConvertRustfmtConfig(path)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, 90, cfg.MaxWidth)
	assert.True(t, cfg.HardTabs)
	assert.Equal(t, config.BraceAlwaysNextLine, cfg.BraceStyle)
	assert.Equal(t, config.ParamsCompressed, cfg.FnParamsLayout)
	assert.Equal(t, []string{"target/**"}, cfg.Ignore)

	assert.Len(t, result.Warnings, 3)
	assert.Contains(t, result.Warnings[0], `"edition" is not supported`)
	assert.Contains(t, result.Warnings[1], `"fn_args_layout" is deprecated`)
	assert.Contains(t, result.Warnings[2], `unknown option "imports_granularity"`)
}

func TestConvertRustfmtConfig_Invalid(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rustfmt.toml")
	writeFile(t, path, "max_width = = 3\n")

	_, err := ConvertRustfmtConfig(path)
	require.Error(t, err)

	_, err = ConvertRustfmtConfig(filepath.Join(tmpDir, "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.MaxWidth = 77
	cfg.WrapComments = true

	path := filepath.Join(t.TempDir(), MigratedConfigName)
	require.NoError(t, WriteConfig(context.Background(), cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# rsfmt configuration")

	loaded, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, 77, loaded.MaxWidth)
	assert.True(t, loaded.WrapComments)
}

func TestCanMigrate(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	toml := filepath.Join(tmpDir, ".rustfmt.toml")
	writeFile(t, toml, "max_width = 100\n")

	assert.True(t, CanMigrate(toml))
	assert.False(t, CanMigrate(filepath.Join(tmpDir, "rustfmt.toml")))
	assert.Equal(t, toml, FindRustfmtConfig(tmpDir))
}

func TestCanonicalOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key        string
		name       string
		deprecated bool
		found      bool
	}{
		{key: "max_width", name: "max_width", found: true},
		{key: "Max-Width", name: "max_width", found: true},
		{key: "fn_args_layout", name: "fn_params_layout", deprecated: true, found: true},
		{key: "write_mode", name: "", deprecated: true},
		{key: "bogus", name: "bogus"},
	}
	for _, tt := range tests {
		name, deprecated, found := CanonicalOption(tt.key)
		assert.Equal(t, tt.name, name, tt.key)
		assert.Equal(t, tt.deprecated, deprecated, tt.key)
		assert.Equal(t, tt.found, found, tt.key)
	}
}

func TestSnakeCase(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"SameLineWhere":   "same_line_where",
		"Unix":            "unix",
		"same_line_where": "same_line_where",
		"Max":             "max",
	} {
		assert.Equal(t, want, snakeCase(in))
	}
}
