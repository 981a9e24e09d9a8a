package observability

import (
	"log/slog"
	"testing"

	"github.com/couchcryptid/disdrometer-etl/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level   string
		enabled slog.Level
		below   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"", slog.LevelInfo, slog.LevelDebug},
		{"verbose", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		logger := NewLogger(&config.Config{LogLevel: tt.level})
		assert.True(t, logger.Enabled(t.Context(), tt.enabled), tt.level)
		assert.False(t, logger.Enabled(t.Context(), tt.below), tt.level)
	}
}

func TestNewLogger_InstallsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	NewLogger(&config.Config{LogFormat: "text", LogLevel: "debug"})
	_, isText := slog.Default().Handler().(*slog.TextHandler)
	assert.True(t, isText)
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))

	NewLogger(&config.Config{LogFormat: "json", LogLevel: "error"})
	_, isJSON := slog.Default().Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelWarn))
}
