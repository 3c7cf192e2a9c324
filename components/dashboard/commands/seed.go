package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-nexus/components/dashboard"
)

// SeedDashboardInput controls bootstrap. Widgets replaces the starter layout
// when SeedLayout is set.
type SeedDashboardInput struct {
	SeedLayout bool                         `json:"seed_layout"`
	Widgets    []dashboard.AddWidgetRequest `json:"widgets,omitempty"`
}

// SeedDashboardCommand registers areas and definitions, then optionally
// places the starting widgets.
type SeedDashboardCommand struct {
	store     dashboard.WidgetStore
	registry  dashboard.ProviderRegistry
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedDashboardCommand wires dependencies.
func NewSeedDashboardCommand(store dashboard.WidgetStore, registry dashboard.ProviderRegistry, service *dashboard.Service, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{
		store:     store,
		registry:  registry,
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.store == nil {
		return errors.New("seed command requires widget store")
	}
	if msg.SeedLayout && c.service == nil {
		return errors.New("seed command requires service to place widgets")
	}
	if err := dashboard.RegisterAreas(ctx, c.store); err != nil {
		return err
	}
	if err := dashboard.RegisterDefinitions(ctx, c.store, c.registry); err != nil {
		return err
	}
	placed := 0
	if msg.SeedLayout {
		if err := dashboard.SeedLayout(ctx, c.service, msg.Widgets...); err != nil {
			return err
		}
		placed = len(msg.Widgets)
		if placed == 0 {
			placed = len(dashboard.DefaultSeedWidgets())
		}
	}
	c.telemetry.Record(ctx, EventSeed, map[string]any{
		"seed_layout": msg.SeedLayout,
		"placed":      placed,
	})
	return nil
}
