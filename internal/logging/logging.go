// Package logging configures the process logger. Stdout belongs to the
// launcher feedback JSON, so logs go to a rotating file or stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging settings.
type Config struct {
	Level      string // debug, info, warn, error
	FilePath   string // empty = stderr
	MaxSizeMB  int
	MaxBackups int
}

// DefaultConfig returns settings suited to a per-keystroke tool: small
// files, few backups.
func DefaultConfig() Config {
	return Config{Level: "info", MaxSizeMB: 5, MaxBackups: 1}
}

// Setup installs the default slog logger and returns a cleanup func.
func Setup(cfg Config) (func() error, error) {
	var writer io.Writer = os.Stderr
	cleanup := func() error { return nil }

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		}
		writer = lj
		cleanup = lj.Close
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
