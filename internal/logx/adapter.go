package logx

import (
	"context"
	"log/slog"
	"strings"
)

// SlogAdapter backs Logger with a *slog.Logger.
type SlogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter wraps l.
func NewSlogAdapter(l *slog.Logger) Logger {
	return &SlogAdapter{l: l}
}

// Debug logs at debug level.
func (s *SlogAdapter) Debug(msg string, fields ...Field) { s.log(slog.LevelDebug, msg, fields) }

// Info logs at info level.
func (s *SlogAdapter) Info(msg string, fields ...Field) { s.log(slog.LevelInfo, msg, fields) }

// Warn logs at warn level.
func (s *SlogAdapter) Warn(msg string, fields ...Field) { s.log(slog.LevelWarn, msg, fields) }

// Error logs at error level.
func (s *SlogAdapter) Error(msg string, fields ...Field) { s.log(slog.LevelError, msg, fields) }

// With returns a child logger that always carries fields.
func (s *SlogAdapter) With(fields ...Field) Logger {
	return &SlogAdapter{l: s.l.With(toSlogArgs(fields)...)}
}

// Sync is a no-op; slog handlers write synchronously.
func (s *SlogAdapter) Sync() error { return nil }

func (s *SlogAdapter) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, msg, toSlogArgs(fields)...)
}

func toSlogArgs(fields []Field) []any {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, slog.Any(f.Key, f.Value))
	}
	return args
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
