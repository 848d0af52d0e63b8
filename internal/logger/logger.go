// Package logger builds the process-wide slog logger from configuration.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"eventpulse/internal/config"
)

// New builds a slog.Logger per the logging configuration and returns it
// together with a close function for the underlying writer.
func New(level string, cfg config.LoggingConfig) (*slog.Logger, func() error, error) {
	w, closeFn, err := createWriter(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler), closeFn, nil
}

// createWriter selects the log destination. File output rotates through
// lumberjack.
func createWriter(cfg config.LoggingConfig) (io.Writer, func() error, error) {
	nop := func() error { return nil }

	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		return os.Stdout, nop, nil
	case "stderr":
		return os.Stderr, nop, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logger: file_path is required when output is file")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logger: create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		return lj, lj.Close, nil
	default:
		return nil, nil, fmt.Errorf("logger: unknown output %q", cfg.Output)
	}
}

// parseLevel converts a config log level string to a slog.Level. Unknown
// values fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
