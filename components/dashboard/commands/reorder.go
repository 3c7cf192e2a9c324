package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ReorderWidgetsInput lists an area's widget ids in their new order.
type ReorderWidgetsInput struct {
	AreaCode  string   `json:"area_code"`
	WidgetIDs []string `json:"widget_ids"`
}

type reorderService interface {
	ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error
}

// ReorderWidgetsCommand rewrites the placement order of one area.
type ReorderWidgetsCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderWidgetsCommand builds the command.
func NewReorderWidgetsCommand(service reorderService, telemetry Telemetry) *ReorderWidgetsCommand {
	return &ReorderWidgetsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderWidgetsInput] = (*ReorderWidgetsCommand)(nil)

// Execute drops blank and repeated ids, keeping the first occurrence, before
// applying the order.
func (c *ReorderWidgetsCommand) Execute(ctx context.Context, msg ReorderWidgetsInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	if msg.AreaCode == "" {
		return invalidInput("reorder", "area code is required")
	}
	ids := uniqueIDs(msg.WidgetIDs)
	if len(ids) == 0 {
		return invalidInput("reorder", "no widget ids for %s", msg.AreaCode)
	}
	if err := c.service.ReorderWidgets(ctx, msg.AreaCode, ids); err != nil {
		return err
	}
	c.telemetry.Record(ctx, EventReorder, map[string]any{
		"area_code": msg.AreaCode,
		"count":     len(ids),
		"dropped":   len(msg.WidgetIDs) - len(ids),
	})
	return nil
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
