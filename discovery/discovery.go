// Package discovery enumerates the template and source files of a project.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/abiiranathan/twigcheck/internal/fsutil"
)

// ErrRootsMissing is returned when none of the required scan roots exist.
var ErrRootsMissing = errors.New("scan roots not found")

// Excluded reports whether a directory with this base name is listed in
// exclude. Walks never descend into excluded directories.
func Excluded(name string, exclude []string) bool {
	return slices.Contains(exclude, name)
}

// ExistingRoots joins every candidate onto base and keeps those that exist as
// directories, preserving order. If none exist it returns ErrRootsMissing.
func ExistingRoots(base string, candidates []string) ([]string, error) {
	roots := make([]string, 0, len(candidates))
	for _, c := range candidates {
		dir := c
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, c)
		}
		if fsutil.IsDir(dir) {
			roots = append(roots, dir)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: none of %s under %s", ErrRootsMissing, strings.Join(candidates, ", "), base)
	}
	return roots, nil
}

// RequireRoot returns base/dir, or ErrRootsMissing if it is not a directory.
func RequireRoot(base, dir string) (string, error) {
	root := dir
	if !filepath.IsAbs(root) {
		root = filepath.Join(base, dir)
	}
	if !fsutil.IsDir(root) {
		return "", fmt.Errorf("%w: %s", ErrRootsMissing, root)
	}
	return root, nil
}

// Discover walks every root and returns the canonical absolute paths of the
// regular files whose base name matches pattern. Every directory below a root
// is walked except those whose base name is in exclude.
//
// Roots are walked concurrently. Results are sorted within each root and
// concatenated in root order, so output is deterministic; a file reachable
// from two roots (nested roots, symlinks) is listed once, at its first
// position. Unreadable entries are skipped.
func Discover(ctx context.Context, roots []string, pattern *regexp.Regexp, exclude ...string) ([]string, error) {
	perRoot := make([][]string, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			files, err := walk(ctx, root, pattern, exclude)
			if err != nil {
				return fmt.Errorf("walk %s: %w", root, err)
			}
			perRoot[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	for _, list := range perRoot {
		for _, f := range list {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

// walk recursively collects matching files under root.
func walk(ctx context.Context, root string, pattern *regexp.Regexp, exclude []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors, don't fail entire walk
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != root && Excluded(d.Name(), exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !pattern.MatchString(d.Name()) {
			return nil
		}

		// Follow symlinked files but keep only regular targets.
		canonical := fsutil.Canonical(path)
		if canonical == "" || fsutil.IsDir(canonical) {
			return nil
		}
		files = append(files, canonical)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}
