// Package logging sets up the process-wide structured logger, grounded in
// the teacher's api/tools/logger.go (slog.New(slog.NewJSONHandler(...))).
package logging

import (
	"log/slog"
	"os"
)

// Logger is the global structured logger instance.
var Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// SetQuiet raises the logger's level to Warn when the quiet configuration
// option is set, suppressing Info-level lines such as the change summary
// the generate command logs.
func SetQuiet(quiet bool) {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
