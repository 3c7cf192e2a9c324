// Package dashboard is the public entry point for embedding the console
// dashboard without importing components/ paths.
package dashboard

import (
	core "github.com/goliatone/go-nexus/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Controller renders console pages.
type Controller = core.Controller

// ControllerOptions wires a Controller.
type ControllerOptions = core.ControllerOptions

// WidgetStore persists areas, definitions and widget placements.
type WidgetStore = core.WidgetStore

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewController proxies to the internal constructor.
func NewController(opts ControllerOptions) *Controller {
	return core.NewController(opts)
}

// NewMemoryWidgetStore returns the process-local widget store.
func NewMemoryWidgetStore() *core.MemoryWidgetStore {
	return core.NewMemoryWidgetStore()
}
