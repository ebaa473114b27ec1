package internal

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestNewLogger_ProductionJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production", "info", "server")

	logger.Debug("hidden")
	logger.Info("sweep done", "sent", 3)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "exactly one JSON record expected")
	assert.Equal(t, "sweep done", rec["msg"])
	assert.Equal(t, "server", rec["component"])
	assert.Equal(t, float64(3), rec["sent"])
}

func TestNewLogger_DevelopmentText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "development", "debug", "agent")

	logger.Debug("poll")

	assert.Contains(t, buf.String(), "msg=poll")
	assert.Contains(t, buf.String(), "component=agent")
}
