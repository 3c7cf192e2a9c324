package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var errMissingSeedService = errors.New("dashboard: seeding requires a service")

// RegisterAreas makes sure every built-in area exists. Safe to call on each
// start.
func RegisterAreas(ctx context.Context, store WidgetStore) error {
	if store == nil {
		return errMissingWidgetStore
	}
	for _, area := range DefaultAreaDefinitions() {
		if _, err := store.EnsureArea(ctx, area); err != nil {
			return fmt.Errorf("dashboard: ensure area %s: %w", area.Code, err)
		}
	}
	return nil
}

// RegisterDefinitions stores the built-in widget definitions together with
// any the registry already knows (manifest widgets included). Built-ins the
// registry is missing are registered with it as well.
func RegisterDefinitions(ctx context.Context, store WidgetStore, registry ProviderRegistry) error {
	if store == nil {
		return errMissingWidgetStore
	}
	builtins := DefaultWidgetDefinitions()
	defs := make([]WidgetDefinition, 0, len(builtins))
	seen := make(map[string]bool, len(builtins))
	for _, def := range builtins {
		seen[def.Code] = true
		defs = append(defs, def)
		if registry == nil {
			continue
		}
		if _, ok := registry.Definition(def.Code); ok {
			continue
		}
		if err := registry.RegisterDefinition(def); err != nil {
			return fmt.Errorf("dashboard: registry definition %s: %w", def.Code, err)
		}
	}
	if registry != nil {
		for _, def := range registry.Definitions() {
			if !seen[def.Code] {
				seen[def.Code] = true
				defs = append(defs, def)
			}
		}
	}
	for _, def := range defs {
		if _, err := store.EnsureDefinition(ctx, def); err != nil {
			return fmt.Errorf("dashboard: ensure definition %s: %w", def.Code, err)
		}
	}
	return nil
}

// SeedLayout places the given widgets, or the starter layout when none are
// passed. Every placement is attempted; failures are combined.
func SeedLayout(ctx context.Context, service *Service, widgets ...AddWidgetRequest) error {
	if service == nil {
		return errMissingSeedService
	}
	if len(widgets) == 0 {
		widgets = DefaultSeedWidgets()
	}
	var errs error
	for _, req := range widgets {
		if err := service.AddWidget(ctx, req); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("dashboard: seed %s: %w", req.DefinitionID, err))
		}
	}
	return errs
}
