package commands

import (
	"context"
	"errors"
	"slices"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-nexus/components/dashboard"
)

// UpdateWidgetInput replaces a widget's configuration and merges metadata.
// At least one of the two must be set.
type UpdateWidgetInput struct {
	WidgetID      string         `json:"widget_id"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ActorID       string         `json:"actor_id,omitempty"`
	SessionID     string         `json:"session_id,omitempty"`
}

type updateService interface {
	UpdateWidget(ctx context.Context, widgetID string, req dashboard.UpdateWidgetRequest) error
}

type UpdateWidgetCommand struct {
	service   updateService
	telemetry Telemetry
}

func NewUpdateWidgetCommand(service updateService, telemetry Telemetry) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	switch {
	case msg.WidgetID == "":
		return invalidInput("update", "widget id is required")
	case msg.Configuration == nil && len(msg.Metadata) == 0:
		return invalidInput("update", "widget %s: nothing to update", msg.WidgetID)
	}
	ctx = withActivity(ctx, msg.ActorID, msg.SessionID)
	err := c.service.UpdateWidget(ctx, msg.WidgetID, dashboard.UpdateWidgetRequest{
		Configuration: msg.Configuration,
		Metadata:      msg.Metadata,
	})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, EventUpdate, map[string]any{
		"widget_id":     msg.WidgetID,
		"configuration": msg.Configuration != nil,
		"metadata_keys": sortedKeys(msg.Metadata),
	})
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
