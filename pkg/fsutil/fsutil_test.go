package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reads content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "lib.rs", "fn main() {}\n")
		content, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "fn main() {}\n", string(content))
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(len(content)), info.Size)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(ctx, filepath.Join(t.TempDir(), "nope.rs"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(ctx, t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := fsutil.ReadFile(cancelled, "whatever.rs")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.rs", "x")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("content changed", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.rs", "x")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("yz"), 0o600))
		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("same size and time, different content", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.rs", "x")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("y"), 0o600))
		require.NoError(t, os.Chtimes(path, info.ModTime, info.ModTime))
		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.rs", "x")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))
		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "new.rs")
		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("fn f() {}\n"), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "fn f() {}\n", string(got))

		if runtime.GOOS != "windows" {
			stat, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeFile(t, dir, "a.rs", "old")
		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("new"), 0o600))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.rs", entries[0].Name())
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "a.rs")
		require.Error(t, fsutil.WriteAtomic(ctx, path, []byte("x"), 0))
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := writeFile(t, t.TempDir(), "a.rs", "same\n")
	before, err := os.Stat(path)
	require.NoError(t, err)

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("same\n"), 0o600)
	require.NoError(t, err)
	assert.False(t, written)
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("different\n"), 0o600)
	require.NoError(t, err)
	assert.True(t, written)

	fresh := filepath.Join(filepath.Dir(path), "b.rs")
	written, err = fsutil.WriteAtomicIfChanged(ctx, fresh, []byte("x"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestBackup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	assert.Equal(t, filepath.Join("src", "lib.bk"), fsutil.BackupPath(filepath.Join("src", "lib.rs")))
	assert.Equal(t, "noext.bk", fsutil.BackupPath("noext"))

	dir := t.TempDir()
	path := writeFile(t, dir, "main.rs", "original")
	content, info, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)

	backup, err := fsutil.CreateBackup(ctx, info, content)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "main.bk"), backup)

	got, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	// A second backup replaces the first.
	info.ModTime = time.Now()
	_, err = fsutil.CreateBackup(ctx, info, []byte("second"))
	require.NoError(t, err)
	got, err = os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	_, err = fsutil.CreateBackup(ctx, nil, nil)
	require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
}

func FuzzBackupPath(f *testing.F) {
	for _, seed := range []string{"lib.rs", "a/b/c.rs", "noext", ".hidden", "dir.d/file"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, path string) {
		got := fsutil.BackupPath(path)
		if filepath.Ext(got) != fsutil.BackupExt {
			t.Fatalf("BackupPath(%q) = %q, want %s extension", path, got, fsutil.BackupExt)
		}
	})
}
