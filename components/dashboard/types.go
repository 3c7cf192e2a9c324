package dashboard

import (
	"context"
	"time"
)

// Area codes rendered on the overview page, top to bottom.
const (
	AreaStats   = "admin.dashboard.stats"
	AreaMain    = "admin.dashboard.main"
	AreaSidebar = "admin.dashboard.sidebar"
	AreaFooter  = "admin.dashboard.footer"
)

// WidgetStore encapsulates widget persistence. Implementations ensure thread
// safety and idempotency.
type WidgetStore interface {
	EnsureArea(ctx context.Context, def WidgetAreaDefinition) (bool, error)
	EnsureDefinition(ctx context.Context, def WidgetDefinition) (bool, error)
	CreateInstance(ctx context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error)
	Instance(ctx context.Context, instanceID string) (WidgetInstance, error)
	UpdateInstance(ctx context.Context, input UpdateWidgetInstanceInput) (WidgetInstance, error)
	DeleteInstance(ctx context.Context, instanceID string) error
	AssignInstance(ctx context.Context, input AssignWidgetInput) error
	ReorderArea(ctx context.Context, input ReorderAreaInput) error
	ResolveArea(ctx context.Context, input ResolveAreaInput) (ResolvedArea, error)
}

// Authorizer determines if a viewer can see a widget instance.
type Authorizer interface {
	CanViewWidget(ctx context.Context, viewer ViewerContext, instance WidgetInstance) bool
}

// PreferenceStore returns layout overrides per viewer.
type PreferenceStore interface {
	LayoutOverrides(ctx context.Context, viewer ViewerContext) (LayoutOverrides, error)
	SaveLayoutOverrides(ctx context.Context, viewer ViewerContext, overrides LayoutOverrides) error
}

// ProviderRegistry stores widget definitions/providers discoverable via hooks or manifests.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (WidgetDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook notifies transports (REST/WebSocket) about widget changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// WidgetAreaDefinition models a dashboard widget area (stats/main/sidebar/footer).
type WidgetAreaDefinition struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// WidgetDefinition describes a widget type and its configuration schema.
type WidgetDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
}

// WidgetInstance is a configured widget placed in an area.
type WidgetInstance struct {
	ID            string         `json:"id"`
	DefinitionID  string         `json:"definition_id"`
	AreaCode      string         `json:"area_code,omitempty"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Data returns the provider payload attached during layout resolution.
func (w WidgetInstance) Data() WidgetData {
	if w.Metadata == nil {
		return nil
	}
	data, _ := w.Metadata["data"].(WidgetData)
	return data
}

// CreateWidgetInstanceInput configures new instances.
type CreateWidgetInstanceInput struct {
	DefinitionID  string
	Configuration map[string]any
	Visibility    WidgetVisibility
	Metadata      map[string]any
}

// UpdateWidgetInstanceInput replaces an instance configuration and merges
// metadata keys. A nil Configuration keeps the stored one.
type UpdateWidgetInstanceInput struct {
	InstanceID    string
	Configuration map[string]any
	Metadata      map[string]any
}

// WidgetVisibility defines runtime visibility constraints.
type WidgetVisibility struct {
	Roles    []string   `json:"roles,omitempty"`
	StartAt  *time.Time `json:"start_at,omitempty"`
	EndAt    *time.Time `json:"end_at,omitempty"`
	Audience []string   `json:"audience,omitempty"`
}

// Active reports whether the window contains at.
func (v WidgetVisibility) Active(at time.Time) bool {
	if v.StartAt != nil && at.Before(*v.StartAt) {
		return false
	}
	if v.EndAt != nil && at.After(*v.EndAt) {
		return false
	}
	return true
}

// AssignWidgetInput associates a widget instance with an area.
type AssignWidgetInput struct {
	AreaCode   string
	InstanceID string
	Position   *int
}

// ReorderAreaInput represents a new ordering for widgets within an area.
type ReorderAreaInput struct {
	AreaCode  string
	WidgetIDs []string
}

// ResolveAreaInput requests widget instances for a given area and audience.
type ResolveAreaInput struct {
	AreaCode string
	Audience []string
	Locale   string
	// At filters out widgets whose visibility window does not contain it.
	// Zero disables the check.
	At time.Time
}

// ResolvedArea is a container for widgets returned by the store.
type ResolvedArea struct {
	AreaCode string           `json:"area_code"`
	Widgets  []WidgetInstance `json:"widgets"`
}

// LayoutOverrides captures per-user adjustments.
type LayoutOverrides struct {
	Locale        string                 `json:"locale,omitempty"`
	AreaOrder     map[string][]string    `json:"area_order,omitempty"`
	AreaRows      map[string][]LayoutRow `json:"area_rows,omitempty"`
	HiddenWidgets map[string]bool        `json:"hidden_widgets,omitempty"`
}

// LayoutRow is one row of a twelve column grid.
type LayoutRow struct {
	Widgets []WidgetSlot `json:"widgets"`
}

// WidgetSlot places a widget in a row with a column width between 1 and 12.
type WidgetSlot struct {
	ID    string `json:"id"`
	Width int    `json:"width"`
}

// ViewerContext captures the active user, locale and colour mode needed to
// render dashboards.
type ViewerContext struct {
	UserID string    `json:"user_id"`
	Roles  []string  `json:"roles,omitempty"`
	Locale string    `json:"locale,omitempty"`
	Theme  ThemeMode `json:"theme,omitempty"`
}

// Layout describes the resolved widget instances per dashboard area.
type Layout struct {
	Areas map[string][]WidgetInstance `json:"areas"`
}

// WidgetEvent describes changes that transports might care about.
type WidgetEvent struct {
	AreaCode string         `json:"area_code,omitempty"`
	Instance WidgetInstance `json:"instance"`
	Reason   string         `json:"reason"`
}
