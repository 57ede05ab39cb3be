package common

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the structured logger every command uses: JSON to
// stderr, errors only when quiet, and optionally duplicated to a
// size-rotated log file.
func NewLogger(quiet bool, logFile string) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
		})
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
