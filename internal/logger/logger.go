// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
)

// Init installs a text logger on w as the slog default. Debug records are
// kept only when verbose is set.
func Init(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
