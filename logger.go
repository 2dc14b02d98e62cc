// logger.go
package prefdoc

import (
	"log/slog"
	"os"
)

// Logger is the logging contract used by the persistence surface. Args are
// alternating key-value pairs, as in log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type slogLogger struct {
	slogger *slog.Logger
}

// NewDefaultLogger returns a Logger backed by a slog JSON handler writing
// to os.Stderr at Info level.
func NewDefaultLogger() Logger {
	return &slogLogger{
		slogger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})),
	}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.slogger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.slogger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.slogger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.slogger.Error(msg, args...) }
