package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Entry kinds returned by Kind.
const (
	KindAbsent  = "absent"
	KindFile    = "file"
	KindDir     = "dir"
	KindSymlink = "symlink"
	KindOther   = "other"
)

// CreateSymlink creates a symbolic link at link pointing to target.
// Missing parent directories of link are created.
func CreateSymlink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", link, err)
	}
	return os.Symlink(target, link)
}

// RemovePath removes whatever occupies path: a file, a symlink (live or
// dangling, never followed), or a directory tree. A missing path is not an
// error.
func RemovePath(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// ReadSymlinkTarget returns the target of the symlink at path.
func ReadSymlinkTarget(path string) (string, error) {
	return os.Readlink(path)
}

// Kind reports what currently occupies path without following symlinks.
func Kind(path string) (string, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return KindAbsent, nil
	}
	if err != nil {
		return "", err
	}

	switch mode := info.Mode(); {
	case mode&os.ModeSymlink != 0:
		return KindSymlink, nil
	case mode.IsDir():
		return KindDir, nil
	case mode.IsRegular():
		return KindFile, nil
	default:
		return KindOther, nil
	}
}

// PointsTo reports whether link is a symlink whose target is target.
// Relative targets are resolved against the link's parent directory.
func PointsTo(link, target string) bool {
	got, err := os.Readlink(link)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(got) {
		got = filepath.Join(filepath.Dir(link), got)
	}
	return filepath.Clean(got) == filepath.Clean(target)
}
