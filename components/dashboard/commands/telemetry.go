package commands

import (
	"context"
	"fmt"

	dashboard "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

// Telemetry is the same sink the dashboard service records to.
type Telemetry = dashboard.Telemetry

// Events recorded after a command succeeds.
const (
	EventAssign     = "dashboard.widget.assign"
	EventUpdate     = "dashboard.widget.update"
	EventRemove     = "dashboard.widget.remove"
	EventReorder    = "dashboard.widget.reorder"
	EventRefresh    = "dashboard.widget.refresh"
	EventPreference = "dashboard.preferences.save"
	EventSeed       = "dashboard.seed"
	EventNavToggle  = "navigation.group.toggle"
	EventNavRail    = "navigation.rail.set"

	EventUserSelect    = "directory.selection.toggle"
	EventUserSelectAll = "directory.selection.toggle_all"
)

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return dashboard.TelemetryFunc(func(context.Context, string, map[string]any) {})
	}
	return t
}

// invalidInput marks a message rejected before reaching the service.
func invalidInput(command, format string, args ...any) error {
	return fmt.Errorf("%s command: %s: %w", command, fmt.Sprintf(format, args...), gamification.ErrInvalidArgument)
}

// withActivity tags ctx with the caller so service telemetry can name them.
// An activity already on ctx wins.
func withActivity(ctx context.Context, actorID, sessionID string) context.Context {
	if actorID == "" && sessionID == "" {
		return ctx
	}
	if _, ok := dashboard.ActivityFromContext(ctx); ok {
		return ctx
	}
	return dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{ActorID: actorID, SessionID: sessionID})
}
