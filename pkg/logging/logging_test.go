package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewParsesLevel(t *testing.T) {
	logger, err := New(Options{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New(Options{Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestTelemetryRecordsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	telemetry := NewTelemetry(zap.New(core))

	telemetry.Record(context.Background(), "dashboard.widget.add", map[string]any{
		"widget_id": "w1",
		"area":      "admin.dashboard.main",
	})
	telemetry.Record(context.Background(), "dashboard.widget.provider_error", map[string]any{
		"error": errors.New("boom"),
	})

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, zapcore.DebugLevel, first.Level)
	assert.Equal(t, "telemetry", first.LoggerName)
	ctx := first.ContextMap()
	assert.Equal(t, "dashboard.widget.add", ctx["event"])
	assert.Equal(t, "w1", ctx["widget_id"])
	assert.Equal(t, "area", first.Context[1].Key, "payload fields are sorted")

	second := entries[1]
	assert.Equal(t, zapcore.WarnLevel, second.Level)
	assert.Equal(t, "boom", second.ContextMap()["error"])
}

func TestNilTelemetryIsSafe(t *testing.T) {
	var telemetry *Telemetry
	telemetry.Record(context.Background(), "x", nil)
	NewTelemetry(nil).Record(context.Background(), "x", map[string]any{"k": 1})
}
