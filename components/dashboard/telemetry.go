package dashboard

import "context"

// Events recorded by the service and its hooks.
const (
	EventWidgetAdd      = "dashboard.widget.add"
	EventWidgetUpdate   = "dashboard.widget.update"
	EventWidgetRemove   = "dashboard.widget.remove"
	EventWidgetReorder  = "dashboard.widget.reorder"
	EventWidgetNotify   = "dashboard.widget.event"
	EventProviderError  = "dashboard.widget.provider_error"
	EventLayoutResolve  = "dashboard.layout.resolve"
	EventAreaResolve    = "dashboard.area.resolve"
	EventPreferenceSave = "dashboard.preferences.save"
	EventRefreshPublish = "dashboard.refresh.publish"
)

// Telemetry receives one call per event with flat, loggable fields. Payload
// maps are owned by the callee once passed.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a function to Telemetry.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

var discardTelemetry Telemetry = TelemetryFunc(func(context.Context, string, map[string]any) {})

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return discardTelemetry
	}
	return t
}
