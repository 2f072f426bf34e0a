// Package fsutil provides the directory mirroring and scoped removal
// primitives the publish pipeline is built on.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyDir recursively replicates the tree rooted at src into dst,
// creating dst and any missing intermediate directories. Files already
// present at the same relative path in dst are overwritten. The copy is
// not atomic: a failure partway through leaves a partial dst, and
// callers staging a tree must treat that the same as a total failure.
func CopyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", src)
	}

	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		targetPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(targetPath, info.Mode())
		}
		return copyFile(path, targetPath)
	})
}

// copyFile copies a single file, replacing dst if it exists.
func copyFile(src, dst string) error {
	// #nosec G304 -- paths derive from a tree walk rooted at caller-chosen directories
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G304 -- see above
	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// EnsureRemoved deletes path and everything under it. A path that does
// not exist counts as success, so removing twice is the same as
// removing once.
func EnsureRemoved(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
