package dashboard

import (
	"context"

	"go.uber.org/multierr"
)

// RefreshHooks fans a widget event out to every hook in order. All hooks run
// even when an earlier one fails; their errors are combined.
type RefreshHooks []RefreshHook

var _ RefreshHook = RefreshHooks(nil)

func (hooks RefreshHooks) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var err error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		err = multierr.Append(err, hook.WidgetUpdated(ctx, event))
	}
	return err
}

// TelemetryHook records every published widget event as a
// "dashboard.refresh.publish" telemetry entry.
type TelemetryHook struct {
	Telemetry Telemetry
}

func (h TelemetryHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	fields := map[string]any{
		"area":       event.AreaCode,
		"reason":     event.Reason,
		"instance":   event.Instance.ID,
		"definition": event.Instance.DefinitionID,
	}
	if activity, ok := ActivityFromContext(ctx); ok {
		fields["actor_id"] = activity.ActorID
		fields["session_id"] = activity.SessionID
	}
	normalizeTelemetry(h.Telemetry).Record(ctx, EventRefreshPublish, fields)
	return nil
}
