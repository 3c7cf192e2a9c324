package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-nexus/components/dashboard"
)

const defaultRefreshReason = "refresh"

// RefreshWidgetInput asks listeners to re-render a widget or a whole area.
type RefreshWidgetInput struct {
	Event dashboard.WidgetEvent
}

type refreshNotifier interface {
	NotifyWidgetUpdated(ctx context.Context, event dashboard.WidgetEvent) error
}

// RefreshWidgetCommand publishes a refresh event through the service hooks.
type RefreshWidgetCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshWidgetCommand creates the command.
func NewRefreshWidgetCommand(service refreshNotifier, telemetry Telemetry) *RefreshWidgetCommand {
	return &RefreshWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshWidgetInput] = (*RefreshWidgetCommand)(nil)

// Execute needs an area or a widget id to target. A blank reason becomes
// "refresh".
func (c *RefreshWidgetCommand) Execute(ctx context.Context, msg RefreshWidgetInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	event := msg.Event
	if event.AreaCode == "" && event.Instance.ID == "" {
		return invalidInput("refresh", "event needs an area code or widget id")
	}
	if event.Reason == "" {
		event.Reason = defaultRefreshReason
	}
	if err := c.service.NotifyWidgetUpdated(ctx, event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, EventRefresh, map[string]any{
		"area_code": event.AreaCode,
		"widget_id": event.Instance.ID,
		"reason":    event.Reason,
	})
	return nil
}
