// Package logging builds the diagnostic logger. Console output is the
// reporter's job; this logger only records what a run did, for debugging.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 2
	maxAgeDays = 28
)

// New returns a text logger writing to file through a rotating writer, and
// the closer releasing it. An empty file yields a logger that discards
// everything. Debug records are kept when debug is true.
func New(file string, debug bool) (*slog.Logger, io.Closer, error) {
	if file == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, nil, err
	}

	w := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("app", "twigcheck"), w, nil
}
