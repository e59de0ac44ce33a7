// Package fsutil defines the narrow filesystem seam the auxiliary file
// writer (4.C) and invocation runner (4.D) depend on, plus the real
// os-backed implementation used outside of tests.
//
// Grounded in the teacher's directory-preparation idiom in
// internal/plugins/symlink and internal/plugins/copy, generalized into an
// injectable interface. Dry-run mode does not swap this seam out: callers
// check their dryRun flag and skip the mutating calls themselves.
package fsutil

import (
	"os"
	"path/filepath"
)

// Filesystem is the seam spec section 6 names: getDirectoryName,
// testForDirectory, createDirectory, testForExecute.
type Filesystem interface {
	DirectoryName(path string) string
	IsDirectory(path string) bool
	CreateDirectory(path string) error
	IsExecutable(path string) bool
}

// OS is the real, disk-backed Filesystem.
type OS struct{}

var _ Filesystem = OS{}

// DirectoryName returns the parent directory of path.
func (OS) DirectoryName(path string) string {
	return filepath.Dir(path)
}

// IsDirectory reports whether path exists and is a directory.
func (OS) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CreateDirectory recursively creates path, including intermediate
// components; it is idempotent.
func (OS) CreateDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

// IsExecutable reports whether path exists and any execute bit is set.
func (OS) IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&0o111 != 0
}
