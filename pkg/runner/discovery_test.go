package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

// makeTree creates files (relative paths) under a new temp dir.
func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()

	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"src/main.rs":       "",
		"src/lib.rs":        "",
		"src/util/mod.rs":   "",
		"README.md":         "",
		"build.rs":          "",
		".hidden/skip.rs":   "",
		"src/.secret.rs":    "",
		"target/debug/x.rs": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"target/**"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"build.rs", "src/lib.rs", "src/main.rs", "src/util/mod.rs"}, relAll(t, root, files))
}

func TestDiscover_ExcludeBaseName(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"a.rs":          "",
		"gen/b_gen.rs":  "",
		"deep/c_gen.rs": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"*_gen.rs"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rs"}, relAll(t, root, files))
}

func TestDiscover_ExplicitFile(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"script.rs.in": "",
		"skip.rs":      "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   root,
		Paths:        []string{"script.rs.in", "skip.rs"},
		ExcludeGlobs: []string{"skip.rs"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"script.rs.in"}, relAll(t, root, files))
}

func TestDiscover_Deduplication(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"src/a.rs": "", "src/b.rs": ""})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: root,
		Paths:      []string{"src", "src/a.rs", "."},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.rs", "src/b.rs"}, relAll(t, root, files))
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"missing.rs"},
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.rs": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	t.Parallel()

	root := makeTree(t, map[string]string{"real/a.rs": "", "main.rs": ""})
	outside := makeTree(t, map[string]string{"linked.rs": ""})
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestDiscover_SkipsVendoredDirectories(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"src/lib.rs":                "",
		"vendor/serde/src/lib.rs":   "",
		"third_party/zlib/build.rs": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs"}, relAll(t, root, files))

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, IncludeVendored: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"src/lib.rs",
		"third_party/zlib/build.rs",
		"vendor/serde/src/lib.rs",
	}, relAll(t, root, files))

	files, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir: root,
		Paths:      []string{"vendor"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/serde/src/lib.rs"}, relAll(t, root, files))
}
