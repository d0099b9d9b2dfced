package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/internal/cli"
	"github.com/yaklabco/rsfmt/internal/configloader"
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/runner"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

const (
	messy = "fn   main ( ) {  }\n"
	tidy  = "fn main() {}\n"
)

type execResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with args. stdin, if non-nil, replaces
// standard input.
func execute(t *testing.T, stdin *string, args ...string) execResult {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(strings.NewReader(*stdin))
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	require.NotNil(t, cmd)
	assert.Equal(t, "rsfmt", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "global flag %q", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})

	tests := map[string]string{
		"format":  "format",
		"fmt":     "format",
		"options": "options",
		"init":    "init",
		"migrate": "migrate",
		"version": "version",
	}
	for arg, want := range tests {
		sub, _, err := cmd.Find([]string{arg})
		require.NoError(t, err, arg)
		assert.Equal(t, want, sub.Name())
	}
}

func TestFormatCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	formatCmd, _, err := cmd.Find([]string{"format"})
	require.NoError(t, err)

	for _, name := range []string{
		"check", "emit", "output-format", "jobs", "backup", "timeout",
		"config-override", "stdin", "no-context", "compact", "quiet", "include-vendored",
	} {
		assert.NotNil(t, formatCmd.Flags().Lookup(name), "flag %q", name)
	}
	require.NoError(t, formatCmd.Args(formatCmd, []string{"a.rs", "src/"}))
	assert.Contains(t, formatCmd.Long, "RSFMT_MAX_WIDTH")
}

func TestHelpIsStyledWithoutColor(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "--color", "never", "format", "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "rsfmt format [paths...]")
	assert.Contains(t, res.stdout, "--check")
	assert.Contains(t, res.stdout, "Global Flags:")
	assert.NotContains(t, res.stdout, "\x1b[")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "rsfmt")
	assert.Contains(t, res.stdout, "1.2.3")
	assert.Contains(t, res.stdout, "abc123")
}

func TestFormat_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "src/main.rs", messy)

	res := execute(t, nil, "format", "--color", "never", dir)
	require.NoError(t, res.err)
	assert.Equal(t, tidy, readFile(t, path))
	assert.Contains(t, res.stdout, "Formatted 1 file")
}

func TestFormat_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "lib.rs", messy)
	writeFile(t, dir, "ok.rs", tidy)

	res := execute(t, nil, "format", "--check", "--color", "never", dir)
	require.Error(t, res.err)
	require.ErrorIs(t, res.err, cli.ErrCheckFailed)
	assert.Equal(t, cli.ExitCheckFailed, cli.ExitCode(res.err))

	assert.Equal(t, messy, readFile(t, path))
	assert.Contains(t, res.stdout, "Diff in ")
	assert.Contains(t, res.stdout, "-"+strings.TrimSuffix(messy, "\n"))
	assert.Contains(t, res.stdout, "+"+strings.TrimSuffix(tidy, "\n"))
	assert.Contains(t, res.stdout, "1 file would be reformatted")
}

func TestFormat_CheckPasses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "lib.rs", tidy)

	res := execute(t, nil, "format", "--check", "-q", dir)
	require.NoError(t, res.err)
	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(res.err))
	assert.Empty(t, res.stdout)
}

func TestFormat_CheckJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "lib.rs", messy)

	res := execute(t, nil, "format", "--check", "--output-format", "json", dir)
	require.ErrorIs(t, res.err, cli.ErrCheckFailed)

	var files []struct {
		Name       string `json:"name"`
		Mismatches []struct {
			Original string `json:"original"`
			Expected string `json:"expected"`
		} `json:"mismatches"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &files))
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(files[0].Name), "lib.rs"))
	require.Len(t, files[0].Mismatches, 1)
	assert.Equal(t, strings.TrimSuffix(tidy, "\n"), files[0].Mismatches[0].Expected)
}

func TestFormat_EmitStdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "lib.rs", messy)

	res := execute(t, nil, "format", "--emit", "stdout", "-q", path)
	require.NoError(t, res.err)
	assert.Equal(t, tidy, res.stdout)
	assert.Equal(t, messy, readFile(t, path))
}

func TestFormat_Stdin(t *testing.T) {
	t.Parallel()

	src := messy
	res := execute(t, &src, "format")
	require.NoError(t, res.err)
	assert.Equal(t, tidy, res.stdout)
}

func TestFormat_StdinFlagRejectsPaths(t *testing.T) {
	t.Parallel()

	src := messy
	res := execute(t, &src, "format", "--stdin", "lib.rs")
	require.ErrorIs(t, res.err, cli.ErrInvalidUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
}

func TestFormat_StdinParseError(t *testing.T) {
	t.Parallel()

	src := "fn main( {\n"
	res := execute(t, &src, "format", "--color", "never")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitFormattingErrors, cli.ExitCode(res.err))
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "parse_error")
}

func TestFormat_ParseErrorInFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bad.rs", "fn main( {\n")
	good := writeFile(t, dir, "good.rs", messy)

	res := execute(t, nil, "format", "--color", "never", dir)
	require.ErrorIs(t, res.err, cli.ErrFormattingFailed)
	assert.Equal(t, cli.ExitFormattingErrors, cli.ExitCode(res.err))
	assert.Equal(t, tidy, readFile(t, good))
	assert.Contains(t, res.stdout, "bad.rs")
}

func TestFormat_InvalidUsage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"output format", []string{"format", "--output-format", "sarif", dir}},
		{"emit mode", []string{"format", "--emit", "coverage", dir}},
		{"negative jobs", []string{"format", "--jobs", "-1", dir}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := execute(t, nil, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
		})
	}
}

func TestFormat_BadOverride(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "format", "--config-override", "max_width", t.TempDir())
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(res.err))
}

func TestFormat_ConfigOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "lib.rs", "fn main() {\n  let x = 1;\n}\n")

	res := execute(t, nil, "format", "--config-override", "tab_spaces=2", "-q", path)
	require.NoError(t, res.err)
	assert.Equal(t, "fn main() {\n  let x = 1;\n}\n", readFile(t, path))
}

func TestFormat_MissingPath(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "format", filepath.Join(t.TempDir(), "nope.rs"))
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(res.err))
}

func TestOptionsCommand_JSON(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "options", "--format", "json")
	require.NoError(t, res.err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, len(config.Options()))

	byName := make(map[string]map[string]any, len(entries))
	for _, e := range entries {
		byName[e["name"].(string)] = e
	}
	require.Contains(t, byName, "max_width")
	assert.Equal(t, "100", byName["max_width"]["default"])
	assert.Equal(t, "RSFMT_MAX_WIDTH", byName["max_width"]["env_var"])
}

func TestOptionsCommand_Text(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "--color", "never", "options")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "max_width <int>")
	assert.Contains(t, res.stdout, "env:     RSFMT_TAB_SPACES")

	res = execute(t, nil, "options", "--format", "xml")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), ".rsfmt.yml")

	res := execute(t, nil, "init", "--output", out)
	require.NoError(t, res.err)
	assert.Contains(t, readFile(t, out), "max_width")

	res = execute(t, nil, "init", "--output", out)
	require.ErrorIs(t, res.err, cli.ErrInvalidUsage)

	res = execute(t, nil, "init", "--output", out, "--force", "--full")
	require.NoError(t, res.err)
	assert.Contains(t, readFile(t, out), "match_block_trailing_comma")
}

func TestInitCommand_TOML(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "rsfmt.toml")

	res := execute(t, nil, "init", "--format", "toml", "--output", out)
	require.NoError(t, res.err)
	assert.Contains(t, readFile(t, out), "max_width =")

	res = execute(t, nil, "init", "--format", "ini", "--output", out+".ini")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
}

func TestMigrateCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "rustfmt.toml", "max_width = 80\nedition = \"2021\"\n")
	out := filepath.Join(dir, configloader.MigratedConfigName)

	res := execute(t, nil, "migrate", input, "--output", out)
	require.NoError(t, res.err)
	assert.Contains(t, readFile(t, out), "max_width: 80")

	res = execute(t, nil, "migrate", input, "--output", out)
	require.ErrorIs(t, res.err, cli.ErrInvalidUsage)
}

func TestMigrateCommand_MissingInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res := execute(t, nil, "migrate", filepath.Join(dir, "rustfmt.toml"), "--output", filepath.Join(dir, "out.yml"))
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(res.err))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, cli.ExitSuccess},
		{cli.ErrCheckFailed, cli.ExitCheckFailed},
		{fmt.Errorf("run: %w", cli.ErrFormattingFailed), cli.ExitFormattingErrors},
		{fmt.Errorf("stdin: %w", syntax.ErrParse), cli.ExitFormattingErrors},
		{fmt.Errorf("load: %w", configloader.ErrInvalidConfig), cli.ExitConfigError},
		{configloader.ErrBadOverride, cli.ExitConfigError},
		{fmt.Errorf("%w: max_width", config.ErrUnknownOption), cli.ExitInvalidUsage},
		{fmt.Errorf("stat: %w", os.ErrNotExist), cli.ExitIOError},
		{fmt.Errorf("write: %w", os.ErrPermission), cli.ExitIOError},
		{errors.New("boom"), cli.ExitInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cli.ExitCode(tt.err), "%v", tt.err)
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, true))

	changed := runner.NewResult(runner.New().FormatSource("a.rs", messy, nil))
	assert.Equal(t, cli.ExitCheckFailed, cli.ExitCodeFromResult(changed, true))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(changed, false))

	broken := runner.NewResult(
		runner.New().FormatSource("a.rs", messy, nil),
		runner.New().FormatSource("b.rs", "fn main( {\n", nil),
	)
	assert.Equal(t, cli.ExitFormattingErrors, cli.ExitCodeFromResult(broken, true))
}
