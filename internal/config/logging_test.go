package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		env     string
		verbose bool
		want    slog.Level
	}{
		{"configured", LogLevelWarn, "", false, slog.LevelWarn},
		{"env override", LogLevelWarn, "error", false, slog.LevelError},
		{"verbose wins", LogLevelError, "error", true, slog.LevelDebug},
		{"unknown falls back to info", LogLevel("loud"), "", false, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LogLevelEnv, tt.env)
			logger := NewLogger(LoggingConfig{Level: tt.level}, tt.verbose, &bytes.Buffer{})
			assert.True(t, logger.Enabled(t.Context(), tt.want))
			assert.False(t, logger.Enabled(t.Context(), tt.want-1))
		})
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Format: LogFormatJSON}, false, &buf)
	logger.Info("hello", "page", "guide/index.md")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "guide/index.md", record["page"])
}
