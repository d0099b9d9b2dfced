package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
		NonInteractive:     true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfigYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rsfmt.yml"), `
max_width: 80
hard_tabs: true
brace_style: always_next_line
fn_call_width: 40
ignore:
  - "generated/**"
`)

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, 80, cfg.MaxWidth)
	assert.True(t, cfg.HardTabs)
	assert.Equal(t, config.BraceAlwaysNextLine, cfg.BraceStyle)
	require.NotNil(t, cfg.FnCallWidth)
	assert.Equal(t, 40, *cfg.FnCallWidth)
	assert.Equal(t, []string{"generated/**"}, cfg.Ignore)
	assert.Equal(t, 4, cfg.TabSpaces, "unset keys keep defaults")
	assert.Equal(t, []string{filepath.Join(tmpDir, ".rsfmt.yml")}, result.LoadedFrom)
}

func TestLoad_ProjectConfigTOML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "rsfmt.toml"), `
max_width = 120
newline_style = "Unix"
reorder_imports = false
`)

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)

	assert.Equal(t, 120, result.Config.MaxWidth)
	assert.Equal(t, config.NewlineUnix, result.Config.NewlineStyle)
	assert.False(t, result.Config.ReorderImports)
}

func TestLoad_UpwardSearch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".rsfmt.yaml"), "tab_spaces: 2\n")
	nested := filepath.Join(root, "crates", "core", "src")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Config.TabSpaces)
	assert.Equal(t, filepath.Join(root, ".rsfmt.yaml"), result.Paths.Project)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rsfmt.yml"), "max_width: 80\nhard_tabs: true\n")
	explicit := filepath.Join(tmpDir, "ci", "strict.yml")
	writeFile(t, explicit, "max_width: 90\nerror_on_line_overflow: true\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit
	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 90, result.Config.MaxWidth)
	assert.True(t, result.Config.HardTabs)
	assert.True(t, result.Config.ErrorOnLineOverflow)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_FalseOverridesTrue(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	explicit := filepath.Join(tmpDir, "off.yml")
	writeFile(t, explicit, "reorder_modules: false\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit
	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Config.ReorderModules)
}

func TestLoad_CLIAndOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rsfmt.yml"), "max_width: 80\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{Check: true, Jobs: 3, Timeout: time.Minute, OutputFormat: config.FormatJSON}
	opts.Overrides = []string{"max_width=72", "fn-args-layout=compressed"}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, 72, cfg.MaxWidth)
	assert.Equal(t, config.ParamsCompressed, cfg.FnParamsLayout)
	assert.True(t, cfg.Check)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, config.FormatJSON, cfg.OutputFormat)
	assert.Equal(t, config.EmitFiles, cfg.Emit)
}

func TestLoad_BadOverride(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.Overrides = []string{"max_width"}
	_, err := Load(context.Background(), opts)
	require.ErrorIs(t, err, ErrBadOverride)

	opts.Overrides = []string{"no_such_option=1"}
	_, err = Load(context.Background(), opts)
	require.ErrorIs(t, err, config.ErrUnknownOption)
}

func TestLoad_UnknownAndDeprecatedKeys(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rsfmt.yml"), "fn_args_layout: Vertical\nimaginary_option: 3\nreport_todo: Always\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)

	assert.Equal(t, config.ParamsVertical, result.Config.FnParamsLayout)
	require.Len(t, result.Warnings, 3)
	assert.Contains(t, result.Warnings[0], `"fn_args_layout" is deprecated`)
	assert.Contains(t, result.Warnings[1], `unknown option "imaginary_option"`)
	assert.Contains(t, result.Warnings[2], `"report_todo" was removed`)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "bad yaml", content: "max_width: [\n", wantErr: ErrLoad},
		{name: "wrong type", content: "max_width: wide\n", wantErr: ErrLoad},
		{name: "bad enum", content: "brace_style: sideways\n", wantErr: ErrInvalidConfig},
		{name: "bounds", content: "blank_lines_lower_bound: 3\n", wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, ".rsfmt.yml"), tt.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_RustfmtConfigNonInteractive(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "rustfmt.toml"), "max_width = 110\nuse_small_heuristics = \"Max\"\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)

	assert.Equal(t, 110, result.Config.MaxWidth)
	assert.Equal(t, config.HeuristicsMax, result.Config.UseSmallHeuristics)
	assert.False(t, result.MigrationPerformed)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "rsfmt migrate")
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"RSFMT_MAX_WIDTH":     "88",
		"RSFMT_HARD_TABS":     "true",
		"RSFMT_IGNORE":        "a/**, b.rs",
		"RSFMT_CHECK":         "1",
		"RSFMT_OUTPUT_FORMAT": "checkstyle",
		"RSFMT_TIMEOUT":       "30s",
		"RSFMT_JOBS":          "",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := config.NewConfig()
	require.NoError(t, loadFromEnv(cfg, lookup))

	assert.Equal(t, 88, cfg.MaxWidth)
	assert.True(t, cfg.HardTabs)
	assert.Equal(t, []string{"a/**", "b.rs"}, cfg.Ignore)
	assert.True(t, cfg.Check)
	assert.Equal(t, config.FormatCheckstyle, cfg.OutputFormat)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.Jobs)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Parallel()

	for key, value := range map[string]string{
		"RSFMT_MAX_WIDTH":     "wide",
		"RSFMT_BRACE_STYLE":   "sideways",
		"RSFMT_CHECK":         "maybe",
		"RSFMT_TIMEOUT":       "soon",
		"RSFMT_OUTPUT_FORMAT": "sarif",
	} {
		lookup := func(k string) (string, bool) {
			if k == key {
				return value, true
			}
			return "", false
		}
		err := loadFromEnv(config.NewConfig(), lookup)
		require.ErrorIs(t, err, config.ErrInvalidValue, key)
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	require.NotEmpty(t, vars)

	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v[0]
	}
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "RSFMT_MAX_WIDTH")
	assert.Contains(t, names, "RSFMT_OUTPUT_FORMAT")
}
