// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/smartcity/airquality/internal/config"
)

// New returns a colored text logger in dev and a JSON logger otherwise
func New(cfg config.Config, appName string) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg, appName)
}

// NewWithWriter is New writing to w
func NewWithWriter(w io.Writer, cfg config.Config, appName string) *slog.Logger {
	if cfg.IsDev() {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"env", cfg.AppEnv,
	)
}
