// Package registry loads the compiled template path registry: the mapping from
// logical template name to template file path written by the application's
// cache warmer.
package registry

import (
	"maps"
	"path/filepath"
	"slices"

	"github.com/abiiranathan/twigcheck/internal/fsutil"
)

// Registry maps logical template names to absolute file paths.
// It is immutable once built. An empty path means the entry exists but its
// file could not be resolved on disk.
type Registry struct {
	paths map[string]string
}

// New builds a Registry over a copy of paths without touching the filesystem.
func New(paths map[string]string) Registry {
	return Registry{paths: maps.Clone(paths)}
}

// Canonicalize builds a Registry whose values are canonical absolute paths.
// Relative values are resolved against base. Values that do not resolve to an
// existing file become "" rather than failing the load.
func Canonicalize(raw map[string]string, base string) Registry {
	paths := make(map[string]string, len(raw))
	for name, p := range raw {
		if p != "" && !filepath.IsAbs(p) && base != "" {
			p = filepath.Join(base, p)
		}
		paths[name] = fsutil.Canonical(p)
	}
	return Registry{paths: paths}
}

// Lookup returns the path registered under name.
// ok is false when name is not a registry key; a key with a missing file
// returns ok == true and an empty path.
func (r Registry) Lookup(name string) (path string, ok bool) {
	path, ok = r.paths[name]
	return path, ok
}

// Len returns the number of entries.
func (r Registry) Len() int {
	return len(r.paths)
}

// Missing returns the sorted names whose file could not be resolved.
func (r Registry) Missing() []string {
	var names []string
	for name, p := range r.paths {
		if p == "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
