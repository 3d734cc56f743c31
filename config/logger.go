package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log levels accepted in LOG_LEVEL.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func parseLogLevel(s string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", s)
	}
	return level, nil
}

// NewLogger returns the process logger for cfg. Production writes JSON to
// stdout, every other environment writes text.
func NewLogger(cfg *Config) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", "devevent", "store", cfg.StoreDriver)
}
