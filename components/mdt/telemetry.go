package mdt

import (
	"context"

	"go.uber.org/zap"
)

// Telemetry records controller events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a function into Telemetry.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

// Record calls f.
func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

// LogTelemetry writes events to a zap logger at debug level.
type LogTelemetry struct {
	Logger *zap.SugaredLogger
}

// Record logs the event with its payload as structured fields.
func (t LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t.Logger == nil {
		return
	}
	fields := make([]any, 0, len(payload)*2)
	for k, v := range payload {
		fields = append(fields, k, v)
	}
	t.Logger.Debugw("telemetry: "+event, fields...)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
