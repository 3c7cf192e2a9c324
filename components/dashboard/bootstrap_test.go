package dashboard

import (
	"context"
	"errors"
	"testing"
)

type memoryStore struct {
	areas       map[string]WidgetAreaDefinition
	defs        map[string]WidgetDefinition
	assignCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		areas: map[string]WidgetAreaDefinition{},
		defs:  map[string]WidgetDefinition{},
	}
}

func (m *memoryStore) EnsureArea(ctx context.Context, def WidgetAreaDefinition) (bool, error) {
	if _, ok := m.areas[def.Code]; ok {
		return false, nil
	}
	m.areas[def.Code] = def
	return true, nil
}

func (m *memoryStore) EnsureDefinition(ctx context.Context, def WidgetDefinition) (bool, error) {
	if _, ok := m.defs[def.Code]; ok {
		return false, nil
	}
	m.defs[def.Code] = def
	return true, nil
}

func (m *memoryStore) CreateInstance(ctx context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	return WidgetInstance{ID: input.DefinitionID + "-instance", DefinitionID: input.DefinitionID}, nil
}

func (m *memoryStore) Instance(context.Context, string) (WidgetInstance, error) {
	return WidgetInstance{}, ErrWidgetNotFound
}

func (m *memoryStore) UpdateInstance(context.Context, UpdateWidgetInstanceInput) (WidgetInstance, error) {
	return WidgetInstance{}, ErrWidgetNotFound
}

func (m *memoryStore) DeleteInstance(context.Context, string) error { return nil }

func (m *memoryStore) AssignInstance(context.Context, AssignWidgetInput) error {
	m.assignCalls++
	return nil
}

func (m *memoryStore) ReorderArea(context.Context, ReorderAreaInput) error { return nil }

func (m *memoryStore) ResolveArea(context.Context, ResolveAreaInput) (ResolvedArea, error) {
	return ResolvedArea{Widgets: []WidgetInstance{}}, nil
}

type fakeRegistry struct {
	count int
}

func (f *fakeRegistry) RegisterDefinition(def WidgetDefinition) error {
	if def.Code == "" {
		return errors.New("missing code")
	}
	f.count++
	return nil
}

func (fakeRegistry) RegisterProvider(string, Provider) error { return nil }
func (fakeRegistry) Definition(string) (WidgetDefinition, bool) {
	return WidgetDefinition{}, false
}
func (fakeRegistry) Provider(string) (Provider, bool) { return nil, false }
func (fakeRegistry) Definitions() []WidgetDefinition  { return nil }

func TestRegisterAreasIdempotent(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	if err := RegisterAreas(ctx, store); err != nil {
		t.Fatalf("RegisterAreas returned error: %v", err)
	}
	firstCount := len(store.areas)
	if firstCount != len(DefaultAreaDefinitions()) {
		t.Fatalf("expected %d areas, got %d", len(DefaultAreaDefinitions()), firstCount)
	}
	if err := RegisterAreas(ctx, store); err != nil {
		t.Fatalf("RegisterAreas second run returned error: %v", err)
	}
	if len(store.areas) != firstCount {
		t.Fatalf("expected idempotent area registration")
	}
}

func TestRegisterDefinitionsRegistersRegistry(t *testing.T) {
	store := newMemoryStore()
	reg := &fakeRegistry{}
	if err := RegisterDefinitions(context.Background(), store, reg); err != nil {
		t.Fatalf("RegisterDefinitions returned error: %v", err)
	}
	if len(store.defs) != len(DefaultWidgetDefinitions()) {
		t.Fatalf("expected %d defs, got %d", len(DefaultWidgetDefinitions()), len(store.defs))
	}
	if reg.count != len(DefaultWidgetDefinitions()) {
		t.Fatalf("expected registry to receive %d defs, got %d", len(DefaultWidgetDefinitions()), reg.count)
	}
}

func TestSeedLayoutAddsWidgets(t *testing.T) {
	store := newMemoryStore()
	service := NewService(Options{WidgetStore: store})
	if err := SeedLayout(context.Background(), service); err != nil {
		t.Fatalf("SeedLayout returned error: %v", err)
	}
	if store.assignCalls != len(DefaultSeedWidgets()) {
		t.Fatalf("expected %d assign calls, got %d", len(DefaultSeedWidgets()), store.assignCalls)
	}
}

func TestRegisterDefinitionsStoresRegistryExtras(t *testing.T) {
	store := newMemoryStore()
	reg := NewRegistry()
	if err := reg.RegisterDefinition(WidgetDefinition{Code: "acme.widget.badges", Name: "Badges"}); err != nil {
		t.Fatalf("RegisterDefinition returned error: %v", err)
	}
	if err := RegisterDefinitions(context.Background(), store, reg); err != nil {
		t.Fatalf("RegisterDefinitions returned error: %v", err)
	}
	if _, ok := store.defs["acme.widget.badges"]; !ok {
		t.Fatalf("expected registry definition to reach the store")
	}
	if len(store.defs) != len(DefaultWidgetDefinitions())+1 {
		t.Fatalf("expected built-ins plus one extra, got %d", len(store.defs))
	}
}

func TestSeedLayoutCustomWidgets(t *testing.T) {
	store := newMemoryStore()
	service := NewService(Options{WidgetStore: store})
	err := SeedLayout(context.Background(), service,
		AddWidgetRequest{DefinitionID: "acme.widget.badges", AreaCode: AreaSidebar},
		AddWidgetRequest{AreaCode: AreaMain},
	)
	if err == nil {
		t.Fatalf("expected missing definition id to fail")
	}
	if store.assignCalls != 1 {
		t.Fatalf("expected the valid widget to be placed, got %d", store.assignCalls)
	}
}

func TestSeedLayoutRequiresService(t *testing.T) {
	if err := SeedLayout(context.Background(), nil); !errors.Is(err, errMissingSeedService) {
		t.Fatalf("expected errMissingSeedService, got %v", err)
	}
}
