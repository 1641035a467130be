package commands

import "context"

// Telemetry receives the mdt.command.* events emitted after each command runs.
// mdt.LogTelemetry and mdt.TelemetryFunc satisfy it.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type discardTelemetry struct{}

func (discardTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return discardTelemetry{}
	}
	return t
}
