package dashboard

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

var (
	ErrUnknownDefinition = fmt.Errorf("dashboard: widget definition not registered: %w", gamification.ErrInvalidArgument)
	errBlankCode         = fmt.Errorf("dashboard: widget code is required: %w", gamification.ErrInvalidArgument)
)

// WidgetHook adds widgets to every registry built after it is installed.
// Packages install hooks from init().
type WidgetHook func(reg *Registry) error

var (
	hooksMu sync.Mutex
	hooks   []WidgetHook
)

// RegisterWidgetHook installs h for registries created from now on.
func RegisterWidgetHook(h WidgetHook) {
	hooksMu.Lock()
	hooks = append(hooks, h)
	hooksMu.Unlock()
}

// Registry is the in-process ProviderRegistry. It starts with the built-in
// widgets, then anything installed by hooks, then manifests and explicit
// registrations from the host.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]WidgetDefinition
	providers   map[string]Provider
	manifest    map[string]ManifestWidget
	sources     ProviderSources
}

// RegistryOption customizes a Registry before the built-ins are added.
type RegistryOption func(*Registry)

// WithSources sets the data sources behind the built-in providers.
func WithSources(src ProviderSources) RegistryOption {
	return func(r *Registry) { r.sources = src }
}

// NewRegistry builds a registry holding the built-in widgets. Without
// WithSources they serve demo data. Hook errors are ignored so a broken
// plugin cannot prevent the console from starting; call ApplyHooks to see
// them.
func NewRegistry(opts ...RegistryOption) *Registry {
	reg := &Registry{
		definitions: map[string]WidgetDefinition{},
		providers:   map[string]Provider{},
		manifest:    map[string]ManifestWidget{},
	}
	for _, opt := range opts {
		opt(reg)
	}
	builtins := defaultProviders(reg.sources)
	for _, def := range DefaultWidgetDefinitions() {
		_ = reg.Register(def, builtins[def.Code])
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks runs every installed hook against r and stops at the first
// failure.
func (r *Registry) ApplyHooks() error {
	hooksMu.Lock()
	installed := append([]WidgetHook(nil), hooks...)
	hooksMu.Unlock()
	for _, hook := range installed {
		if err := hook(r); err != nil {
			return fmt.Errorf("dashboard: widget hook: %w", err)
		}
	}
	return nil
}

// ChartOptions are the chart options hooks pass to the chart providers they
// add.
func (r *Registry) ChartOptions() []EChartsProviderOption {
	return append([]EChartsProviderOption(nil), r.sources.ChartOptions...)
}

// Register stores def and, when provider is non-nil, binds it.
func (r *Registry) Register(def WidgetDefinition, provider Provider) error {
	if err := r.RegisterDefinition(def); err != nil {
		return err
	}
	if provider == nil {
		return nil
	}
	return r.RegisterProvider(def.Code, provider)
}

// RegisterDefinition adds or replaces a definition.
func (r *Registry) RegisterDefinition(def WidgetDefinition) error {
	if def.Code == "" {
		return errBlankCode
	}
	def.normalizeLocalizedFields()
	r.mu.Lock()
	r.definitions[def.Code] = def
	r.mu.Unlock()
	return nil
}

// RegisterProvider binds provider to an already registered definition.
func (r *Registry) RegisterProvider(code string, provider Provider) error {
	if code == "" {
		return errBlankCode
	}
	if provider == nil {
		return fmt.Errorf("dashboard: nil provider for %s: %w", code, gamification.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDefinition, code)
	}
	r.providers[code] = provider
	return nil
}

func (r *Registry) Definition(code string) (WidgetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[code]
	return p, ok
}

// Definitions lists every definition ordered by code.
func (r *Registry) Definitions() []WidgetDefinition {
	r.mu.RLock()
	defs := make([]WidgetDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	r.mu.RUnlock()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}

// ProviderMetadata returns the provider block a manifest declared for code.
func (r *Registry) ProviderMetadata(code string) (ManifestProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.manifest[code]
	if !ok || w.Provider.isZero() {
		return ManifestProvider{}, false
	}
	return w.Provider, true
}

// WidgetTemplates maps widget codes to the templates their manifests named.
// The result can be passed as ControllerOptions.WidgetTemplates.
func (r *Registry) WidgetTemplates() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string)
	for code, w := range r.manifest {
		if w.Template != "" {
			out[code] = w.Template
		}
	}
	return out
}

func (r *Registry) recordManifestWidget(w ManifestWidget) {
	if w.Provider.isZero() && w.Template == "" {
		return
	}
	r.mu.Lock()
	r.manifest[w.Definition.Code] = w
	r.mu.Unlock()
}
