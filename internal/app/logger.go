package app

import (
	"io"
	"log/slog"

	"github.com/you/adminconsole/internal/config"
)

// NewLogger builds the process logger from the log section of the config
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
