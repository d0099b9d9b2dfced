package fsutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// BackupExt is the extension of backup files. A backup of `src/lib.rs` is
// `src/lib.bk`.
const BackupExt = ".bk"

// BackupPath returns where the backup of path is written.
func BackupPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + BackupExt
}

// CreateBackup copies the file described by info, as it was read, to its
// backup path. An existing backup is replaced. It returns the backup path.
func CreateBackup(ctx context.Context, info *FileInfo, original []byte) (string, error) {
	if info == nil {
		return "", ErrNilFileInfo
	}
	backup := BackupPath(info.Path)
	if err := WriteAtomic(ctx, backup, original, info.Mode); err != nil {
		return "", fmt.Errorf("write backup %s: %w", backup, err)
	}
	return backup, nil
}
