package dashboard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

var defaultAreas = []string{
	AreaStats,
	AreaMain,
	AreaSidebar,
	AreaFooter,
}

const defaultProviderConcurrency = 8

var (
	errMissingWidgetStore = errors.New("dashboard: widget store not configured")
	errInvalidArea        = fmt.Errorf("dashboard: area code is required: %w", gamification.ErrInvalidArgument)
	errInvalidDefinition  = fmt.Errorf("dashboard: definition id is required: %w", gamification.ErrInvalidArgument)
	errInvalidWidget      = fmt.Errorf("dashboard: widget id is required: %w", gamification.ErrInvalidArgument)
	errMissingViewer      = fmt.Errorf("dashboard: viewer context missing user id: %w", gamification.ErrInvalidArgument)
)

// Options wires the Service. Only WidgetStore is required.
type Options struct {
	WidgetStore     WidgetStore
	Authorizer      Authorizer
	PreferenceStore PreferenceStore
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Translator      TranslationService
	Areas           []string
	Clock           func() time.Time

	// ProviderTimeout bounds each provider Fetch. Zero leaves it to the
	// caller's context.
	ProviderTimeout time.Duration
	// ProviderConcurrency caps parallel Fetch calls per area.
	ProviderConcurrency int
}

// Service places widgets into areas and resolves them into a per-viewer
// Layout with provider data attached.
type Service struct {
	opts Options
}

func NewService(opts Options) *Service {
	if opts.Authorizer == nil {
		opts.Authorizer = allowAllAuthorizer{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	if opts.PreferenceStore == nil {
		opts.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.ProviderConcurrency <= 0 {
		opts.ProviderConcurrency = defaultProviderConcurrency
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// AddWidgetRequest places a new instance of DefinitionID in AreaCode.
// Position nil appends.
type AddWidgetRequest struct {
	DefinitionID  string         `json:"definition_id" yaml:"definition_id"`
	AreaCode      string         `json:"area_code" yaml:"area_code"`
	Configuration map[string]any `json:"configuration,omitempty" yaml:"configuration,omitempty"`
	Position      *int           `json:"position,omitempty" yaml:"position,omitempty"`
	Roles         []string       `json:"roles,omitempty" yaml:"roles,omitempty"`
	StartAt       *time.Time     `json:"start_at,omitempty" yaml:"start_at,omitempty"`
	EndAt         *time.Time     `json:"end_at,omitempty" yaml:"end_at,omitempty"`
	UserID        string         `json:"user_id,omitempty" yaml:"user_id,omitempty"`
}

func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	switch {
	case req.AreaCode == "":
		return errInvalidArea
	case req.DefinitionID == "":
		return errInvalidDefinition
	}
	if err := s.validateConfiguration(req.DefinitionID, req.Configuration); err != nil {
		return err
	}
	instance, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
		DefinitionID:  req.DefinitionID,
		Configuration: req.Configuration,
		Visibility:    WidgetVisibility{Roles: req.Roles, StartAt: req.StartAt, EndAt: req.EndAt},
		Metadata:      map[string]any{"user_id": req.UserID},
	})
	if err != nil {
		return err
	}
	err = store.AssignInstance(ctx, AssignWidgetInput{
		AreaCode:   req.AreaCode,
		InstanceID: instance.ID,
		Position:   req.Position,
	})
	if err != nil {
		// An instance without a placement is never shown; drop it.
		return multierr.Append(err, store.DeleteInstance(context.WithoutCancel(ctx), instance.ID))
	}
	instance.AreaCode = req.AreaCode
	return s.publish(ctx, WidgetEvent{AreaCode: req.AreaCode, Instance: instance, Reason: "add"},
		EventWidgetAdd, map[string]any{"area_code": req.AreaCode, "definition_id": req.DefinitionID})
}

// UpdateWidgetRequest replaces the configuration and merges metadata of an
// existing instance. A nil Configuration keeps the stored one.
type UpdateWidgetRequest struct {
	Configuration map[string]any `json:"configuration,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

func (s *Service) UpdateWidget(ctx context.Context, widgetID string, req UpdateWidgetRequest) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errInvalidWidget
	}
	if req.Configuration != nil {
		current, err := store.Instance(ctx, widgetID)
		if err != nil {
			return err
		}
		if err := s.validateConfiguration(current.DefinitionID, req.Configuration); err != nil {
			return err
		}
	}
	updated, err := store.UpdateInstance(ctx, UpdateWidgetInstanceInput{
		InstanceID:    widgetID,
		Configuration: req.Configuration,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return err
	}
	return s.publish(ctx, WidgetEvent{AreaCode: updated.AreaCode, Instance: updated, Reason: "update"},
		EventWidgetUpdate, map[string]any{"widget_id": widgetID, "definition_id": updated.DefinitionID})
}

func (s *Service) RemoveWidget(ctx context.Context, widgetID string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errInvalidWidget
	}
	if err := store.DeleteInstance(ctx, widgetID); err != nil {
		return err
	}
	return s.publish(ctx, WidgetEvent{Instance: WidgetInstance{ID: widgetID}, Reason: "delete"},
		EventWidgetRemove, map[string]any{"widget_id": widgetID})
}

// ReorderWidgets sets the order of widgetIDs in areaCode. Widgets of the area
// that are not listed keep their relative order after the listed ones.
func (s *Service) ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if areaCode == "" {
		return errInvalidArea
	}
	if err := store.ReorderArea(ctx, ReorderAreaInput{AreaCode: areaCode, WidgetIDs: widgetIDs}); err != nil {
		return err
	}
	return s.publish(ctx, WidgetEvent{AreaCode: areaCode, Reason: "reorder"},
		EventWidgetReorder, map[string]any{"area_code": areaCode, "count": len(widgetIDs)})
}

// NotifyWidgetUpdated forwards event to the refresh hook on behalf of
// commands and transports.
func (s *Service) NotifyWidgetUpdated(ctx context.Context, event WidgetEvent) error {
	return s.publish(ctx, event, EventWidgetNotify, map[string]any{
		"area_code": event.AreaCode,
		"widget_id": event.Instance.ID,
		"reason":    event.Reason,
	})
}

// publish runs the refresh hook and, when it succeeds, records telemetry.
func (s *Service) publish(ctx context.Context, event WidgetEvent, name string, payload map[string]any) error {
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, name, payload)
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	if meta, ok := ActivityFromContext(ctx); ok {
		if payload == nil {
			payload = map[string]any{}
		}
		if meta.ActorID != "" {
			payload["actor_id"] = meta.ActorID
		}
		if meta.SessionID != "" {
			payload["session_id"] = meta.SessionID
		}
	}
	s.opts.Telemetry.Record(ctx, event, payload)
}

// ConfigureLayout resolves every area for viewer. Widgets the viewer hid or
// may not see are dropped before any provider runs; the rest are ordered and
// sized by the viewer's preferences.
func (s *Service) ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error) {
	store, err := s.widgetStore()
	if err != nil {
		return Layout{}, err
	}
	overrides, err := s.opts.PreferenceStore.LayoutOverrides(ctx, viewer)
	if err != nil {
		return Layout{}, err
	}
	layout := Layout{Areas: make(map[string][]WidgetInstance)}
	for _, area := range s.areaList() {
		resolved, err := s.resolve(ctx, store, viewer, area, overrides)
		if err != nil {
			return Layout{}, err
		}
		layout.Areas[area] = resolved.Widgets
	}
	s.recordTelemetry(ctx, EventLayoutResolve, map[string]any{"viewer": viewer.UserID})
	return layout, nil
}

// ResolveArea resolves one area the same way ConfigureLayout does.
func (s *Service) ResolveArea(ctx context.Context, viewer ViewerContext, areaCode string) (ResolvedArea, error) {
	store, err := s.widgetStore()
	if err != nil {
		return ResolvedArea{}, err
	}
	if areaCode == "" {
		return ResolvedArea{}, errInvalidArea
	}
	overrides, err := s.opts.PreferenceStore.LayoutOverrides(ctx, viewer)
	if err != nil {
		return ResolvedArea{}, err
	}
	resolved, err := s.resolve(ctx, store, viewer, areaCode, overrides)
	if err != nil {
		return ResolvedArea{}, err
	}
	s.recordTelemetry(ctx, EventAreaResolve, map[string]any{"viewer": viewer.UserID, "areaCode": areaCode})
	return resolved, nil
}

func (s *Service) resolve(ctx context.Context, store WidgetStore, viewer ViewerContext, area string, overrides LayoutOverrides) (ResolvedArea, error) {
	resolved, err := store.ResolveArea(ctx, ResolveAreaInput{
		AreaCode: area,
		Audience: viewer.Roles,
		Locale:   viewer.Locale,
		At:       s.opts.Clock(),
	})
	if err != nil {
		return ResolvedArea{}, err
	}
	widgets := applyHiddenFilter(resolved.Widgets, overrides.HiddenWidgets)
	visible := make([]WidgetInstance, 0, len(widgets))
	for _, w := range widgets {
		w.AreaCode = area
		if s.opts.Authorizer.CanViewWidget(ctx, viewer, w) {
			visible = append(visible, w)
		}
	}
	visible = applyOrderOverride(visible, overrides.AreaOrder[area])
	visible = applyWidths(visible, slotWidths(overrides.AreaRows[area]))
	resolved.Widgets = s.attachProviderData(ctx, viewer, visible)
	return resolved, nil
}

type providerFailure struct {
	definition string
	err        error
}

// attachProviderData runs the providers of widgets in parallel and stores each
// result under Metadata["data"]. A failing provider leaves its widget in
// place without data and is reported through telemetry.
func (s *Service) attachProviderData(ctx context.Context, viewer ViewerContext, widgets []WidgetInstance) []WidgetInstance {
	if len(widgets) == 0 || s.opts.Providers == nil {
		return widgets
	}
	now := s.opts.Clock()
	failures := make([]*providerFailure, len(widgets))

	var group errgroup.Group
	group.SetLimit(s.opts.ProviderConcurrency)
	for i := range widgets {
		provider, ok := s.opts.Providers.Provider(widgets[i].DefinitionID)
		if !ok || provider == nil {
			continue
		}
		group.Go(func() error {
			inst := &widgets[i]
			data, err := s.fetch(ctx, provider, WidgetContext{
				Instance:   *inst,
				Viewer:     viewer,
				Translator: s.opts.Translator,
				Now:        now,
			})
			if err != nil {
				failures[i] = &providerFailure{definition: inst.DefinitionID, err: err}
				return nil
			}
			meta := maps.Clone(inst.Metadata)
			if meta == nil {
				meta = make(map[string]any, 1)
			}
			meta["data"] = data
			inst.Metadata = meta
			return nil
		})
	}
	_ = group.Wait()

	for _, f := range failures {
		if f == nil {
			continue
		}
		s.recordTelemetry(ctx, EventProviderError, map[string]any{
			"definition_id": f.definition,
			"error":         f.err.Error(),
		})
	}
	return widgets
}

func (s *Service) fetch(ctx context.Context, provider Provider, meta WidgetContext) (data WidgetData, err error) {
	if s.opts.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ProviderTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dashboard: provider %s panicked: %v", meta.Instance.DefinitionID, r)
		}
	}()
	return provider.Fetch(ctx, meta)
}

// SavePreferences stores viewer's layout overrides.
func (s *Service) SavePreferences(ctx context.Context, viewer ViewerContext, overrides LayoutOverrides) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	if overrides.AreaOrder == nil {
		overrides.AreaOrder = map[string][]string{}
	}
	if overrides.HiddenWidgets == nil {
		overrides.HiddenWidgets = map[string]bool{}
	}
	if err := s.opts.PreferenceStore.SaveLayoutOverrides(ctx, viewer, overrides); err != nil {
		return err
	}
	s.recordTelemetry(ctx, EventPreferenceSave, map[string]any{
		"viewer": viewer.UserID,
		"hidden": len(overrides.HiddenWidgets),
	})
	return nil
}

func (s *Service) Preferences(ctx context.Context, viewer ViewerContext) (LayoutOverrides, error) {
	return s.opts.PreferenceStore.LayoutOverrides(ctx, viewer)
}

// Definitions lists the registered widget definitions by code.
func (s *Service) Definitions() []WidgetDefinition {
	if s.opts.Providers == nil {
		return nil
	}
	defs := s.opts.Providers.Definitions()
	slices.SortFunc(defs, func(a, b WidgetDefinition) int { return strings.Compare(a.Code, b.Code) })
	return defs
}

func (s *Service) widgetStore() (WidgetStore, error) {
	if s.opts.WidgetStore == nil {
		return nil, errMissingWidgetStore
	}
	return s.opts.WidgetStore, nil
}

// validateConfiguration skips definitions the registry does not know; the
// store rejects those.
func (s *Service) validateConfiguration(definitionID string, config map[string]any) error {
	if s.opts.ConfigValidator == nil || s.opts.Providers == nil {
		return nil
	}
	def, ok := s.opts.Providers.Definition(definitionID)
	if !ok {
		return nil
	}
	return s.opts.ConfigValidator.Validate(def, config)
}

func (s *Service) areaList() []string {
	if len(s.opts.Areas) > 0 {
		return s.opts.Areas
	}
	return defaultAreas
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanViewWidget(context.Context, ViewerContext, WidgetInstance) bool {
	return true
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error { return nil }
