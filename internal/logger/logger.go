// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	global *slog.Logger
	debug  bool
	mu     sync.RWMutex
)

// Setup installs a text logger writing to w, at Debug level when debug is
// set and Info otherwise, and returns it.
func Setup(w io.Writer, debugEnabled bool) *slog.Logger {
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(debugEnabled)}))
	SetGlobal(l, debugEnabled)
	return l
}

// SetGlobal sets the global logger and debug state.
func SetGlobal(l *slog.Logger, debugEnabled bool) {
	mu.Lock()
	defer mu.Unlock()
	global = l
	debug = debugEnabled
}

// Get returns the global logger, or a stderr text logger when none is set.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level(debug)}))
}

// IsDebug reports whether debug logging is enabled. Callers use it to skip
// building expensive log attributes.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debug
}

func level(debugEnabled bool) slog.Level {
	if debugEnabled {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
