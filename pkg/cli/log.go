package cli

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Verbose mode enables debug records;
// otherwise only warnings and errors reach the terminal so structured logs
// never mix with command output on stdout.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
