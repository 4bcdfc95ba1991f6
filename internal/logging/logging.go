// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tessro/patchdeck/internal/config"
)

// ParseLevel maps a config level name to a slog level. Unknown or empty
// names map to info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w at the configured level.
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}))
}

// Open returns a logger for cfg. When cfg.File is set the log is appended to
// that file; otherwise it goes to stderr. The returned close function is
// always non-nil.
func Open(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.File == "" {
		return New(os.Stderr, cfg), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, cfg), f.Close, nil
}
