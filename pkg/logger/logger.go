// Package logger is a thin package-level wrapper over log/slog backed by a
// charmbracelet/log handler.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(newHandler(os.Stderr, slog.LevelInfo)))
}

// Init replaces the package logger with one writing to stderr at level.
func Init(level slog.Level) {
	InitWriter(os.Stderr, level)
}

// InitWriter replaces the package logger with one writing to w at level.
func InitWriter(w io.Writer, level slog.Level) {
	l := slog.New(newHandler(w, level))
	current.Store(l)
	slog.SetDefault(l)
}

func newHandler(w io.Writer, level slog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           charmlog.Level(level),
	})
}

// ParseLevel maps a textual level to slog.Level. Unknown values yield info.
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

// L returns the current logger.
func L() *slog.Logger {
	return current.Load()
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }

func Info(msg string, args ...any) { L().Info(msg, args...) }

func Warn(msg string, args ...any) { L().Warn(msg, args...) }

func Error(msg string, args ...any) { L().Error(msg, args...) }
