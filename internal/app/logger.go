package app

import (
	"log/slog"
	"os"

	"service-courier-dispatch/internal/config"
	"service-courier-dispatch/internal/logx"
)

// NewLogger builds the JSON logger used by both binaries.
func NewLogger(cfg *config.Config) logx.Logger {
	base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logx.ParseLevel(cfg.LogLevel),
	}))
	return logx.NewSlogAdapter(base)
}
