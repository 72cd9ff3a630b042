// Package testfs lays out fixture projects described as txtar archives.
package testfs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// RootVar is replaced by the fixture's root directory in every file body.
const RootVar = "$ROOT"

// Write extracts archive into a fresh temporary directory and returns the
// directory's canonical path. Occurrences of $ROOT in file bodies are
// replaced by that path, so a fixture can carry absolute paths.
func Write(t testing.TB, archive string) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ar := txtar.Parse([]byte(archive))
	for _, f := range ar.Files {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		body := strings.ReplaceAll(string(f.Data), RootVar, root)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// Path joins slash-separated elements onto root.
func Path(root string, elem ...string) string {
	return filepath.Join(append([]string{root}, filepath.FromSlash(strings.Join(elem, "/")))...)
}
