package server

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type handlerFactory func(w io.Writer, opts *slog.HandlerOptions) slog.Handler

// NewLogger returns a structured logger writing to w in the configured
// format ("json" or "text") at the configured level.
func NewLogger(cfg LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	newHandler, err := handlerFor(cfg.Format)
	if err != nil {
		return nil, err
	}

	return slog.New(newHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func handlerFor(format string) (handlerFactory, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return func(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
			return slog.NewJSONHandler(w, opts)
		}, nil
	case "text":
		return func(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
			return slog.NewTextHandler(w, opts)
		}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
