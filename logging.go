package jsonfields

import (
	"io"
	"log/slog"
)

// newNopLogger returns a logger that discards everything.
func newNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loggerOrNop returns logger, or a discarding logger when it is nil.
func loggerOrNop(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return newNopLogger()
	}
	return logger
}
