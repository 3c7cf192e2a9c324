package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	dashboard "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/gamification"
	"github.com/goliatone/go-nexus/pkg/navigation"
)

func TestSeedDashboardCommand(t *testing.T) {
	store := newStubStore()
	reg := &stubRegistry{}
	service := dashboard.NewService(dashboard.Options{WidgetStore: store})
	telemetry := &stubTelemetry{}
	cmd := NewSeedDashboardCommand(store, reg, service, telemetry)
	if err := cmd.Execute(context.Background(), SeedDashboardInput{SeedLayout: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if store.ensureAreaCalls != len(dashboard.DefaultAreaDefinitions()) {
		t.Fatalf("expected %d areas, got %d", len(dashboard.DefaultAreaDefinitions()), store.ensureAreaCalls)
	}
	if reg.count != len(dashboard.DefaultWidgetDefinitions()) {
		t.Fatalf("expected registry count %d, got %d", len(dashboard.DefaultWidgetDefinitions()), reg.count)
	}
	if store.assignCalls != len(dashboard.DefaultSeedWidgets()) {
		t.Fatalf("expected %d assign calls, got %d", len(dashboard.DefaultSeedWidgets()), store.assignCalls)
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record events")
	}
}

func TestAssignWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewAssignWidgetCommand(service, nil)
	req := dashboard.AddWidgetRequest{DefinitionID: "admin.widget.xp_progress", AreaCode: "admin.dashboard.main"}
	if err := cmd.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.addCalls != 1 {
		t.Fatalf("expected add call")
	}
}

func TestRemoveWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRemoveWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{WidgetID: "widget-1", ActorID: "alex"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.removeCalls != 1 {
		t.Fatalf("expected remove call")
	}
	if service.lastActor != "alex" {
		t.Fatalf("expected actor on context, got %q", service.lastActor)
	}
}

func TestReorderWidgetsCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewReorderWidgetsCommand(service, nil)
	if err := cmd.Execute(context.Background(), ReorderWidgetsInput{
		AreaCode:  "admin.dashboard.main",
		WidgetIDs: []string{"w1", "w2"},
	}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.reorderCalls != 1 {
		t.Fatalf("expected reorder call")
	}
}

func TestRefreshWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRefreshWidgetCommand(service, nil)
	event := dashboard.WidgetEvent{AreaCode: "admin.dashboard.main"}
	if err := cmd.Execute(context.Background(), RefreshWidgetInput{Event: event}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.refreshCalls != 1 {
		t.Fatalf("expected refresh call")
	}
}

type stubService struct {
	addCalls     int
	removeCalls  int
	reorderCalls int
	refreshCalls int
	lastOrder    []string
	lastEvent    dashboard.WidgetEvent
	updateCalls  int
	lastActor    string
	lastUpdate   dashboard.UpdateWidgetRequest
	saved        dashboard.LayoutOverrides
}

func (s *stubService) UpdateWidget(ctx context.Context, id string, req dashboard.UpdateWidgetRequest) error {
	s.updateCalls++
	s.lastUpdate = req
	if meta, ok := dashboard.ActivityFromContext(ctx); ok {
		s.lastActor = meta.ActorID
	}
	return nil
}

func (s *stubService) SavePreferences(ctx context.Context, viewer dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error {
	s.saved = overrides
	return nil
}

func (s *stubService) AddWidget(ctx context.Context, _ dashboard.AddWidgetRequest) error {
	s.addCalls++
	if meta, ok := dashboard.ActivityFromContext(ctx); ok {
		s.lastActor = meta.ActorID
	}
	return nil
}

func (s *stubService) RemoveWidget(ctx context.Context, _ string) error {
	s.removeCalls++
	if meta, ok := dashboard.ActivityFromContext(ctx); ok {
		s.lastActor = meta.ActorID
	}
	return nil
}

func (s *stubService) ReorderWidgets(_ context.Context, _ string, ids []string) error {
	s.reorderCalls++
	s.lastOrder = ids
	return nil
}

func (s *stubService) NotifyWidgetUpdated(_ context.Context, event dashboard.WidgetEvent) error {
	s.refreshCalls++
	s.lastEvent = event
	return nil
}

type stubRegistry struct {
	count int
}

func (s *stubRegistry) RegisterDefinition(def dashboard.WidgetDefinition) error {
	s.count++
	return nil
}

func (s *stubRegistry) RegisterProvider(string, dashboard.Provider) error { return nil }
func (s *stubRegistry) Definition(string) (dashboard.WidgetDefinition, bool) {
	return dashboard.WidgetDefinition{}, false
}
func (s *stubRegistry) Provider(string) (dashboard.Provider, bool) { return nil, false }
func (s *stubRegistry) Definitions() []dashboard.WidgetDefinition  { return nil }

type stubStore struct {
	ensureAreaCalls int
	assignCalls     int
}

func newStubStore() *stubStore { return &stubStore{} }

func (s *stubStore) EnsureArea(context.Context, dashboard.WidgetAreaDefinition) (bool, error) {
	s.ensureAreaCalls++
	return true, nil
}

func (s *stubStore) EnsureDefinition(context.Context, dashboard.WidgetDefinition) (bool, error) {
	return true, nil
}

func (s *stubStore) CreateInstance(ctx context.Context, input dashboard.CreateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	return dashboard.WidgetInstance{ID: input.DefinitionID + "-instance", DefinitionID: input.DefinitionID}, nil
}

func (s *stubStore) Instance(ctx context.Context, id string) (dashboard.WidgetInstance, error) {
	return dashboard.WidgetInstance{ID: id}, nil
}

func (s *stubStore) UpdateInstance(ctx context.Context, input dashboard.UpdateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	return dashboard.WidgetInstance{ID: input.InstanceID, Configuration: input.Configuration}, nil
}

func (s *stubStore) DeleteInstance(context.Context, string) error { return nil }

func (s *stubStore) AssignInstance(context.Context, dashboard.AssignWidgetInput) error {
	s.assignCalls++
	return nil
}

func (s *stubStore) ReorderArea(context.Context, dashboard.ReorderAreaInput) error { return nil }

func (s *stubStore) ResolveArea(context.Context, dashboard.ResolveAreaInput) (dashboard.ResolvedArea, error) {
	return dashboard.ResolvedArea{}, nil
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) {
	s.calls++
}

func TestUpdateWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewUpdateWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), UpdateWidgetInput{}); err == nil {
		t.Fatalf("expected error for missing widget id")
	}
	err := cmd.Execute(context.Background(), UpdateWidgetInput{
		WidgetID:      "w1",
		Configuration: map[string]any{"weeks": 8},
		ActorID:       "alex",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.updateCalls != 1 || service.lastUpdate.Configuration["weeks"] != 8 {
		t.Fatalf("unexpected update call: %+v", service.lastUpdate)
	}
	if service.lastActor != "alex" {
		t.Fatalf("expected actor on context, got %q", service.lastActor)
	}
}

func TestSaveLayoutPreferencesCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewSaveLayoutPreferencesCommand(service, nil)
	if err := cmd.Execute(context.Background(), SaveLayoutPreferencesInput{}); err == nil {
		t.Fatalf("expected error without viewer")
	}
	err := cmd.Execute(context.Background(), SaveLayoutPreferencesInput{
		Viewer:        dashboard.ViewerContext{UserID: "alex"},
		Locale:        "es",
		HiddenWidgets: []string{"w2"},
		AreaRows: map[string][]dashboard.LayoutRow{
			dashboard.AreaMain: {{Widgets: []dashboard.WidgetSlot{{ID: "w1", Width: 6}}}},
		},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !service.saved.HiddenWidgets["w2"] || service.saved.Locale != "es" {
		t.Fatalf("unexpected overrides: %+v", service.saved)
	}
	if len(service.saved.AreaRows[dashboard.AreaMain]) != 1 {
		t.Fatalf("expected layout rows to be forwarded")
	}
}

func TestToggleNavGroupCommand(t *testing.T) {
	sessions := navigation.NewSessionStore(navigation.DefaultTree())
	telemetry := &stubTelemetry{}
	cmd := NewToggleNavGroupCommand(sessions, telemetry)

	if err := cmd.Execute(context.Background(), ToggleNavGroupInput{Key: "Security"}); err == nil {
		t.Fatalf("expected error without session id")
	}

	var result NavStateResult
	if err := cmd.Execute(context.Background(), ToggleNavGroupInput{SessionID: "s1", Key: "Security", Result: &result}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !result.Applied || len(result.State.Expanded) != 1 || result.State.Expanded[0] != "Security" {
		t.Fatalf("expected Security expanded, got %+v", result)
	}

	if err := cmd.Execute(context.Background(), ToggleNavGroupInput{SessionID: "s1", Key: "Dashboard", Result: &result}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Applied {
		t.Fatalf("toggling a leaf must not apply")
	}
	if telemetry.calls != 2 {
		t.Fatalf("expected 2 telemetry events, got %d", telemetry.calls)
	}
}

func TestSetRailCollapsedCommandSuppressesToggle(t *testing.T) {
	sessions := navigation.NewSessionStore(navigation.DefaultTree())
	rail := NewSetRailCollapsedCommand(sessions, nil)
	toggle := NewToggleNavGroupCommand(sessions, nil)

	var result NavStateResult
	if err := rail.Execute(context.Background(), SetRailCollapsedInput{SessionID: "s1", Collapsed: true, Result: &result}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !result.State.RailCollapsed {
		t.Fatalf("expected rail collapsed")
	}
	if err := toggle.Execute(context.Background(), ToggleNavGroupInput{SessionID: "s1", Key: "Security", Result: &result}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Applied || len(result.State.Expanded) != 0 {
		t.Fatalf("toggle while collapsed must be suppressed, got %+v", result)
	}
}

func TestAssignWidgetCommandValidates(t *testing.T) {
	service := &stubService{}
	cmd := NewAssignWidgetCommand(service, nil)
	neg := -1
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	cases := map[string]dashboard.AddWidgetRequest{
		"missing definition": {AreaCode: dashboard.AreaMain},
		"missing area":       {DefinitionID: "admin.widget.xp_progress"},
		"negative position":  {DefinitionID: "admin.widget.xp_progress", AreaCode: dashboard.AreaMain, Position: &neg},
		"inverted window":    {DefinitionID: "admin.widget.xp_progress", AreaCode: dashboard.AreaMain, StartAt: &start, EndAt: &end},
	}
	for name, req := range cases {
		if err := cmd.Execute(context.Background(), req); !errors.Is(err, gamification.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}
	if service.addCalls != 0 {
		t.Fatalf("invalid requests must not reach the service")
	}
}

func TestAssignWidgetCommandSetsActor(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewAssignWidgetCommand(service, telemetry)
	req := dashboard.AddWidgetRequest{DefinitionID: "admin.widget.streak", AreaCode: dashboard.AreaSidebar, UserID: "alex"}
	if err := cmd.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.lastActor != "alex" {
		t.Fatalf("expected actor alex, got %q", service.lastActor)
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected one telemetry event, got %d", telemetry.calls)
	}
}

func TestReorderWidgetsCommandDedupes(t *testing.T) {
	service := &stubService{}
	cmd := NewReorderWidgetsCommand(service, nil)
	err := cmd.Execute(context.Background(), ReorderWidgetsInput{
		AreaCode:  dashboard.AreaMain,
		WidgetIDs: []string{"w2", "", "w1", "w2"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(service.lastOrder) != 2 || service.lastOrder[0] != "w2" || service.lastOrder[1] != "w1" {
		t.Fatalf("unexpected order %v", service.lastOrder)
	}
	if err := cmd.Execute(context.Background(), ReorderWidgetsInput{WidgetIDs: []string{"w1"}}); !errors.Is(err, gamification.ErrInvalidArgument) {
		t.Fatalf("expected missing area to fail, got %v", err)
	}
	if err := cmd.Execute(context.Background(), ReorderWidgetsInput{AreaCode: dashboard.AreaMain, WidgetIDs: []string{""}}); !errors.Is(err, gamification.ErrInvalidArgument) {
		t.Fatalf("expected empty ids to fail, got %v", err)
	}
}

func TestRefreshWidgetCommandDefaultsReason(t *testing.T) {
	service := &stubService{}
	cmd := NewRefreshWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), RefreshWidgetInput{}); !errors.Is(err, gamification.ErrInvalidArgument) {
		t.Fatalf("expected untargeted event to fail, got %v", err)
	}
	event := dashboard.WidgetEvent{Instance: dashboard.WidgetInstance{ID: "w1"}}
	if err := cmd.Execute(context.Background(), RefreshWidgetInput{Event: event}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.lastEvent.Reason != "refresh" {
		t.Fatalf("expected default reason, got %q", service.lastEvent.Reason)
	}
}

func TestRemoveWidgetCommandRequiresID(t *testing.T) {
	service := &stubService{}
	cmd := NewRemoveWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{}); !errors.Is(err, gamification.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSeedDashboardCommandCustomWidgets(t *testing.T) {
	store := newStubStore()
	service := dashboard.NewService(dashboard.Options{WidgetStore: store})
	cmd := NewSeedDashboardCommand(store, nil, service, nil)
	err := cmd.Execute(context.Background(), SeedDashboardInput{
		SeedLayout: true,
		Widgets: []dashboard.AddWidgetRequest{
			{DefinitionID: "admin.widget.streak", AreaCode: dashboard.AreaSidebar},
		},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if store.assignCalls != 1 {
		t.Fatalf("expected one placement, got %d", store.assignCalls)
	}
}

func TestSeedDashboardCommandNeedsServiceToPlace(t *testing.T) {
	cmd := NewSeedDashboardCommand(newStubStore(), nil, nil, nil)
	if err := cmd.Execute(context.Background(), SeedDashboardInput{SeedLayout: true}); err == nil {
		t.Fatalf("expected error without service")
	}
	if err := cmd.Execute(context.Background(), SeedDashboardInput{}); err != nil {
		t.Fatalf("registration alone should succeed: %v", err)
	}
}

func TestUpdateWidgetCommandRequiresChanges(t *testing.T) {
	service := &stubService{}
	cmd := NewUpdateWidgetCommand(service, nil)
	err := cmd.Execute(context.Background(), UpdateWidgetInput{WidgetID: "w1"})
	if !errors.Is(err, gamification.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if service.updateCalls != 0 {
		t.Fatalf("service should not be called")
	}
	if err := cmd.Execute(context.Background(), UpdateWidgetInput{WidgetID: "w1", Metadata: map[string]any{"pinned": true}}); err != nil {
		t.Fatalf("metadata-only update should pass, got %v", err)
	}
}

func TestSaveLayoutPreferencesCommandCleansInput(t *testing.T) {
	service := &stubService{}
	cmd := NewSaveLayoutPreferencesCommand(service, nil)
	err := cmd.Execute(context.Background(), SaveLayoutPreferencesInput{
		Viewer: dashboard.ViewerContext{UserID: "alex"},
		AreaOrder: map[string][]string{
			dashboard.AreaMain:    {"w1", "w1", "", "w2"},
			dashboard.AreaSidebar: {""},
			"":                    {"w3"},
		},
		HiddenWidgets: []string{"w4", "w4", ""},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got := service.saved.AreaOrder; len(got) != 1 || len(got[dashboard.AreaMain]) != 2 {
		t.Fatalf("unexpected area order: %+v", got)
	}
	if len(service.saved.HiddenWidgets) != 1 || !service.saved.HiddenWidgets["w4"] {
		t.Fatalf("unexpected hidden widgets: %+v", service.saved.HiddenWidgets)
	}
}
