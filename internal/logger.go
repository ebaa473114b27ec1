package internal

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the process logger. Development gets human-readable
// text; everything else gets JSON for log shipping. Every record carries
// the component name so server and agent logs can share a sink.
func NewLogger(w io.Writer, env, level, component string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	}

	var h slog.Handler
	if env == "development" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(h)
	if component != "" {
		logger = logger.With("component", component)
	}
	return logger
}

// ParseLogLevel maps LOG_LEVEL values to slog levels. Unknown values mean
// info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
