// Package filesys provides the small set of filesystem operations the
// engine and segment-discovery code need: creating the database directory
// and globbing for segment files within it.
package filesys

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrIsNotDir is returned by CreateDir when the target path exists and is
// a regular file rather than a directory.
var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates dirPath with the given permission, including any
// missing parents.
//
// If the path already exists:
//   - force=true proceeds without error (the common case: opening an
//     existing database directory).
//   - force=false returns an error, treating re-creation as a caller
//     mistake: os.ErrExist, or the stat error if the path could not be
//     checked.
//
// With force=true, it returns ErrIsNotDir if the existing path is a file.
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if !force && err == nil {
		return os.ErrExist
	}
	if !force && !os.IsNotExist(err) {
		return err
	}
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}

	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}
	return os.Chmod(dirPath, permission)
}

// ReadDir expands a glob pattern (e.g. "mydir/*.bcdata") into matching
// paths.
func ReadDir(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}
