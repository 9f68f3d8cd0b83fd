// Package logger builds the service's slog logger from configuration.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"marksentry/internal/config"
	"strings"
)

// New returns a JSON or text slog logger writing to w.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", "marksentry"))
}

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

// RecoveryLogger adapts slog to the Println logger gorilla/handlers expects.
type RecoveryLogger struct {
	Logger *slog.Logger
}

func (l RecoveryLogger) Println(v ...interface{}) {
	l.Logger.Error("panic recovered", slog.String("detail", strings.TrimSpace(fmt.Sprintln(v...))))
}
