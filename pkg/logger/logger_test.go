package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseLevel(tt.input))
	}
}

func TestInit(t *testing.T) {
	// Verify it doesn't panic
	Init(slog.LevelDebug)
	Debug("test message")
	Info("test message")
	Warn("test message")
	Error("test message")
}

func TestInitWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelWarn)
	t.Cleanup(func() { Init(slog.LevelInfo) })

	Info("hidden message")
	Warn("feed skipped", "module", "service", "feed_url", "http://x/rss")

	out := buf.String()
	require.NotContains(t, out, "hidden message")
	require.Contains(t, out, "feed skipped")
	require.Contains(t, out, "http://x/rss")
}
