// Package logging builds the process logger and adapts it to the event
// recorders used across the console.
package logging

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger level and encoding.
type Options struct {
	Level  string
	Format string
}

// New builds a production JSON logger, or a development console logger when
// Format is "console".
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	config := zap.NewProductionConfig()
	if opts.Format == "console" {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger, nil
}

// Telemetry writes recorded events as structured log lines.
type Telemetry struct {
	logger *zap.Logger
}

// NewTelemetry wraps logger. A nil logger discards events.
func NewTelemetry(logger *zap.Logger) *Telemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telemetry{logger: logger.Named("telemetry")}
}

// Record logs event with one field per payload key, in key order. Events
// ending in "_error" are logged at warn level.
func (t *Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t == nil {
		return
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys)+1)
	fields = append(fields, zap.String("event", event))
	for _, k := range keys {
		if err, ok := payload[k].(error); ok {
			fields = append(fields, zap.NamedError(k, err))
			continue
		}
		fields = append(fields, zap.Any(k, payload[k]))
	}

	if strings.HasSuffix(event, "_error") {
		t.logger.Warn(event, fields...)
		return
	}
	t.logger.Debug(event, fields...)
}
