package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-nexus/components/dashboard"
)

type assignService interface {
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) error
}

// AssignWidgetCommand places a new widget instance in an area.
type AssignWidgetCommand struct {
	service   assignService
	telemetry Telemetry
}

// NewAssignWidgetCommand creates a command instance.
func NewAssignWidgetCommand(service assignService, telemetry Telemetry) *AssignWidgetCommand {
	return &AssignWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[dashboard.AddWidgetRequest] = (*AssignWidgetCommand)(nil)

// Execute checks the request shape, then hands it to the service with the
// requesting user attached as the activity actor.
func (c *AssignWidgetCommand) Execute(ctx context.Context, msg dashboard.AddWidgetRequest) error {
	if c.service == nil {
		return errors.New("assign command requires service")
	}
	switch {
	case msg.DefinitionID == "":
		return invalidInput("assign", "definition id is required")
	case msg.AreaCode == "":
		return invalidInput("assign", "area code is required")
	case msg.Position != nil && *msg.Position < 0:
		return invalidInput("assign", "position %d is negative", *msg.Position)
	case msg.StartAt != nil && msg.EndAt != nil && msg.EndAt.Before(*msg.StartAt):
		return invalidInput("assign", "visibility window ends before it starts")
	}
	ctx = withActivity(ctx, msg.UserID, "")
	if err := c.service.AddWidget(ctx, msg); err != nil {
		return err
	}
	payload := map[string]any{
		"definition_id": msg.DefinitionID,
		"area_code":     msg.AreaCode,
	}
	if msg.Position != nil {
		payload["position"] = *msg.Position
	}
	c.telemetry.Record(ctx, EventAssign, payload)
	return nil
}
