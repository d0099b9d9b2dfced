package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format"
	"github.com/yaklabco/rsfmt/pkg/format/report"
	"github.com/yaklabco/rsfmt/pkg/runner"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

const (
	messy = "fn   main ( ) {  }\n"
	tidy  = "fn main() {}\n"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
	assert.False(t, result.HasFailures())
	assert.False(t, result.HasChanges())
}

func TestRunner_Run_WritesChangedFiles(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.rs": messy, "b.rs": tidy})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: root, Jobs: 2})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, "a.rs", result.Files[0].Path)
	assert.True(t, result.Files[0].Written)
	assert.True(t, result.Files[0].Changed())
	assert.False(t, result.Files[1].Changed())
	assert.False(t, result.Files[1].Written)

	assert.Equal(t, tidy, readFile(t, filepath.Join(root, "a.rs")))
	assert.Equal(t, 2, result.Stats.FilesFormatted)
	assert.Equal(t, 1, result.Stats.FilesChanged)
	assert.Equal(t, 1, result.Stats.FilesWritten)
	assert.True(t, result.HasChanges())
}

func TestRunner_Run_CheckMode(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.rs": messy})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: root, Check: true})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	outcome := result.Files[0]
	assert.True(t, outcome.Changed())
	assert.False(t, outcome.Written)
	assert.Equal(t, messy, outcome.Original)
	assert.Equal(t, tidy, outcome.Formatted)
	assert.Equal(t, messy, readFile(t, filepath.Join(root, "a.rs")))
}

func TestRunner_Run_EmitStdoutDoesNotWrite(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.rs": messy})

	result, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: root,
		Emit:       config.EmitStdout,
	})
	require.NoError(t, err)
	assert.Equal(t, tidy, result.Files[0].Formatted)
	assert.Equal(t, messy, readFile(t, filepath.Join(root, "a.rs")))
}

func TestRunner_Run_EmitStdoutKeepsUnchangedText(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.rs": tidy})

	result, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: root,
		Emit:       config.EmitStdout,
	})
	require.NoError(t, err)
	assert.False(t, result.Files[0].Changed())
	assert.Equal(t, tidy, result.Files[0].Formatted)
}

func TestRunner_Run_Backup(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"lib.rs": messy})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: root, Backup: true})
	require.NoError(t, err)

	backup := filepath.Join(root, "lib.bk")
	assert.Equal(t, backup, result.Files[0].BackupPath)
	assert.Equal(t, messy, readFile(t, backup))
	assert.Equal(t, tidy, readFile(t, filepath.Join(root, "lib.rs")))
}

func TestRunner_Run_ParseErrorIsolated(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"bad.rs":  "fn main( {\n",
		"good.rs": messy,
	})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	bad := result.Files[0]
	require.Error(t, bad.Error)
	require.ErrorIs(t, bad.Error, syntax.ErrParse)
	require.Len(t, bad.Report.Errors, 1)
	assert.Equal(t, report.ParseError, bad.Report.Errors[0].Kind)
	assert.Equal(t, 1, bad.Report.Errors[0].Line)

	assert.True(t, result.Files[1].Written)
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.Errors)
	assert.True(t, result.HasFailures())
}

func TestRunner_Run_Diagnostics(t *testing.T) {
	t.Parallel()

	long := "// " + strings.Repeat("x", 120) + "\nfn main() {}\n"
	root := makeTree(t, map[string]string{"a.rs": long})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Warnings)
	assert.Equal(t, 0, result.Stats.Errors)
	assert.False(t, result.HasFailures())

	rep := result.Report()
	require.Len(t, rep.Files, 1)
	assert.Equal(t, 1, rep.Count(report.LineOverflow))
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files["src/"+name+".rs"] = messy
	}

	run := func(jobs int) []string {
		root := makeTree(t, files)
		result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: root, Jobs: jobs, Check: true})
		require.NoError(t, err)
		paths := make([]string, len(result.Files))
		for i, f := range result.Files {
			paths[i] = filepath.ToSlash(f.Path)
		}
		return paths
	}

	assert.Equal(t, run(1), run(8))
}

func TestRunner_Run_UsesFormatter(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.rs": "x", "b.rs": "y", "c.rs": "z"})

	var calls atomic.Int32
	r := runner.NewWithFormatter(func(name, src string, _ *config.Config) (*format.Result, error) {
		calls.Add(1)
		return &format.Result{Text: src + "\n", Changed: true}, nil
	})

	result, err := r.Run(context.Background(), runner.Options{WorkingDir: root, Check: true, Jobs: 3})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, result.Stats.FilesChanged)
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.rs": messy})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New().Run(ctx, runner.Options{WorkingDir: root})
	require.Error(t, err)
	assert.True(t, runner.IsCancelled(err))
}

func TestRunner_Run_Timeout(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.rs": "x", "b.rs": "y"})

	r := runner.NewWithFormatter(func(_, src string, _ *config.Config) (*format.Result, error) {
		time.Sleep(150 * time.Millisecond)
		return &format.Result{Text: src}, nil
	})

	result, err := r.Run(context.Background(), runner.Options{
		WorkingDir: root,
		Jobs:       1,
		Timeout:    30 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, runner.IsCancelled(err))
	require.NotNil(t, result)
	assert.Less(t, len(result.Files), 2)
}

func TestRunner_FormatSource(t *testing.T) {
	t.Parallel()

	outcome := runner.New().FormatSource("<stdin>", messy, nil)
	require.NoError(t, outcome.Error)
	assert.True(t, outcome.Changed())
	assert.Equal(t, tidy, outcome.Formatted)
	assert.Equal(t, "<stdin>", outcome.Report.Path)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"target/**"}
	cfg.Jobs = 4
	cfg.Check = true
	cfg.Timeout = time.Second

	opts := runner.OptionsFromConfig([]string{"src"}, cfg)
	assert.Equal(t, []string{"src"}, opts.Paths)
	assert.Equal(t, []string{"target/**"}, opts.ExcludeGlobs)
	assert.Equal(t, 4, opts.Jobs)
	assert.True(t, opts.Check)
	assert.Equal(t, time.Second, opts.Timeout)
	assert.Same(t, cfg, opts.Config)
}
