// Package watch re-runs an action whenever files under a set of directories
// change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/abiiranathan/twigcheck/discovery"
	"github.com/abiiranathan/twigcheck/internal/fsutil"
)

// DefaultDebounce is how long the watcher waits for a burst of events
// (a cache rebuild, a git checkout) to settle before acting.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Recursive directories are watched with all their subdirectories.
	Recursive []string
	// Flat directories are watched without descending.
	Flat []string
	// Exclude lists directory base names not descended into.
	Exclude []string
	// Match selects the file events that trigger the action; nil means all.
	Match func(path string) bool
	// Debounce delays the action after the last matching event.
	Debounce time.Duration
	// Logger receives diagnostics; nil means slog.Default().
	Logger *slog.Logger
}

// Run watches the configured directories and calls onChange after every
// settled burst of matching events, until ctx is cancelled.
// Directories created while watching are picked up.
func Run(ctx context.Context, opts Options, onChange func(context.Context)) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range opts.Recursive {
		addTree(w, dir, opts.Exclude, logger)
	}
	for _, dir := range opts.Flat {
		if err := w.Add(dir); err != nil {
			logger.Warn("cannot watch directory", "dir", dir, "err", err)
		}
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && fsutil.IsDir(ev.Name) {
				addTree(w, ev.Name, opts.Exclude, logger)
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if opts.Match != nil && !opts.Match(ev.Name) {
				continue
			}
			logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)

		case <-fire:
			fire = nil
			onChange(ctx)
		}
	}
}

// addTree adds dir and its subdirectories to w, skipping the directories
// discovery skips.
func addTree(w *fsnotify.Watcher, dir string, exclude []string, logger *slog.Logger) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != dir && discovery.Excluded(d.Name(), exclude) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn("cannot watch directory", "dir", path, "err", err)
		}
		return nil
	})
}
