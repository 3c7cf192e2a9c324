// Package admin bootstraps the console shell: it makes sure the dashboard is
// reachable from the navigation menu and that the widget store is seeded.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	core "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/components/dashboard/commands"
	dashboardpkg "github.com/goliatone/go-nexus/pkg/dashboard"
	"github.com/goliatone/go-nexus/pkg/navigation"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// NavigationMenuBuilder adds top-level leaves to the tree behind a session
// store. Sessions are rebound so no expanded key outlives the old tree.
type NavigationMenuBuilder struct {
	mu       sync.Mutex
	sessions *navigation.SessionStore
}

// NewNavigationMenuBuilder binds the builder to sessions.
func NewNavigationMenuBuilder(sessions *navigation.SessionStore) *NavigationMenuBuilder {
	return &NavigationMenuBuilder{sessions: sessions}
}

// EnsureMenuItem inserts item unless some node already links to its route.
func (b *NavigationMenuBuilder) EnsureMenuItem(_ context.Context, item MenuItem) error {
	if b.sessions == nil {
		return errors.New("admin: navigation sessions are required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	tree := b.sessions.Tree()
	if tree.HasPath(item.Route) {
		return nil
	}
	next, err := tree.Insert(item.Position, navigation.NewLeaf(item.Label, item.Route, item.Icon))
	if err != nil {
		return fmt.Errorf("admin: insert menu item %q: %w", item.Label, err)
	}
	b.sessions.Rebind(next)
	return nil
}

// Config wires dashboard service + feature flags into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	Store           dashboardpkg.WidgetStore
	Registry        core.ProviderRegistry
	DefaultMenuItem MenuItem
	Telemetry       commands.Telemetry
	// SeedLayout adds the starter widgets when the main area is empty.
	SeedLayout bool
	// SeedWidgets replaces the starter widgets when set.
	SeedWidgets []core.AddWidgetRequest
}

// Admin exposes helpers for applications embedding the console.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed dashboard menus and widgets.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("admin: dashboard service is required when enabled")
	}
	if cfg.SeedLayout && cfg.Store == nil {
		return nil, errors.New("admin: widget store is required to seed the layout")
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Dashboard"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "/"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "layout-dashboard"
	}
	return &Admin{cfg: cfg}, nil
}

// Dashboard exposes the configured dashboard service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds menu entries, widget areas and definitions, and the
// starter layout when dashboard support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard {
		return nil
	}
	if a.cfg.MenuBuilder != nil {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.DefaultMenuItem); err != nil {
			return err
		}
	}
	if a.cfg.Store == nil {
		return nil
	}
	seed := a.cfg.SeedLayout
	if seed {
		empty, err := a.seedAreasEmpty(ctx)
		if err != nil {
			return err
		}
		seed = empty
	}
	cmd := commands.NewSeedDashboardCommand(a.cfg.Store, a.cfg.Registry, a.cfg.Service, a.cfg.Telemetry)
	return cmd.Execute(ctx, commands.SeedDashboardInput{SeedLayout: seed, Widgets: a.cfg.SeedWidgets})
}

// seedAreasEmpty reports whether none of the areas the seed set targets hold
// widgets yet.
func (a *Admin) seedAreasEmpty(ctx context.Context) (bool, error) {
	widgets := a.cfg.SeedWidgets
	if len(widgets) == 0 {
		widgets = core.DefaultSeedWidgets()
	}
	checked := map[string]bool{}
	for _, w := range widgets {
		if w.AreaCode == "" || checked[w.AreaCode] {
			continue
		}
		checked[w.AreaCode] = true
		resolved, err := a.cfg.Store.ResolveArea(ctx, core.ResolveAreaInput{AreaCode: w.AreaCode})
		if err != nil {
			return false, err
		}
		if len(resolved.Widgets) > 0 {
			return false, nil
		}
	}
	return true, nil
}
