// Package fsutil holds the small filesystem helpers shared by the registry
// loader, discovery and the runner.
package fsutil

import (
	"os"
	"path/filepath"
)

// Canonical returns the absolute, cleaned, symlink-resolved form of path.
// A path that does not exist (or cannot be resolved) yields "".
func Canonical(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return ""
	}
	return resolved
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadText reads path as text. It is the default file reader used by the
// audit runner.
func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
