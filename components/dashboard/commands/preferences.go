package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-nexus/components/dashboard"
)

// SaveLayoutPreferencesInput is a viewer's full set of layout overrides. It
// replaces whatever was saved before.
type SaveLayoutPreferencesInput struct {
	Viewer        dashboard.ViewerContext          `json:"viewer"`
	Locale        string                           `json:"locale,omitempty"`
	AreaOrder     map[string][]string              `json:"area_order,omitempty"`
	AreaRows      map[string][]dashboard.LayoutRow `json:"layout_rows,omitempty"`
	HiddenWidgets []string                         `json:"hidden_widget_ids,omitempty"`
}

type preferenceService interface {
	SavePreferences(ctx context.Context, viewer dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error
}

type SaveLayoutPreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

func NewSaveLayoutPreferencesCommand(service preferenceService, telemetry Telemetry) *SaveLayoutPreferencesCommand {
	return &SaveLayoutPreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveLayoutPreferencesInput] = (*SaveLayoutPreferencesCommand)(nil)

// Execute drops blank area keys and duplicate ids before saving.
func (c *SaveLayoutPreferencesCommand) Execute(ctx context.Context, msg SaveLayoutPreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if msg.Viewer.UserID == "" {
		return invalidInput("preferences", "viewer user id is required")
	}
	order := make(map[string][]string, len(msg.AreaOrder))
	for area, ids := range msg.AreaOrder {
		if ids = uniqueIDs(ids); area != "" && len(ids) > 0 {
			order[area] = ids
		}
	}
	hidden := uniqueIDs(msg.HiddenWidgets)
	overrides := dashboard.LayoutOverrides{
		Locale:        msg.Locale,
		AreaOrder:     order,
		AreaRows:      msg.AreaRows,
		HiddenWidgets: make(map[string]bool, len(hidden)),
	}
	for _, id := range hidden {
		overrides.HiddenWidgets[id] = true
	}
	if err := c.service.SavePreferences(ctx, msg.Viewer, overrides); err != nil {
		return err
	}
	c.telemetry.Record(ctx, EventPreference, map[string]any{
		"user_id":    msg.Viewer.UserID,
		"areas":      len(order),
		"rows":       len(msg.AreaRows),
		"hidden_cnt": len(hidden),
	})
	return nil
}
