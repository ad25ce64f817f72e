package main

import (
	"fmt"
	"io"
	"log/slog"
)

// initLogger builds a text logger at the named level. Diagnostics go to w,
// which is stderr in normal runs; stdout carries the report lines only.
func initLogger(level string, w io.Writer) (*slog.Logger, error) {
	var slogLevel slog.Level

	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel,
	})
	return slog.New(handler), nil
}
