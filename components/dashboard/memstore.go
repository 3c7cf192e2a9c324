package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

var (
	// ErrWidgetNotFound is returned when an instance id is not stored.
	ErrWidgetNotFound = errors.New("dashboard: widget instance not found")
	// ErrAreaNotFound is returned when assigning into an area that was never ensured.
	ErrAreaNotFound = fmt.Errorf("dashboard: widget area not registered: %w", gamification.ErrInvalidArgument)
)

// MemoryWidgetStore keeps areas, definitions and placements in process memory.
type MemoryWidgetStore struct {
	mu          sync.RWMutex
	areas       map[string]WidgetAreaDefinition
	definitions map[string]WidgetDefinition
	instances   map[string]storedInstance
	assignments map[string][]string
	newID       func() string
}

type storedInstance struct {
	instance   WidgetInstance
	visibility WidgetVisibility
}

// NewMemoryWidgetStore returns an empty store that issues UUID instance ids.
func NewMemoryWidgetStore() *MemoryWidgetStore {
	return &MemoryWidgetStore{
		areas:       map[string]WidgetAreaDefinition{},
		definitions: map[string]WidgetDefinition{},
		instances:   map[string]storedInstance{},
		assignments: map[string][]string{},
		newID:       func() string { return uuid.NewString() },
	}
}

var _ WidgetStore = (*MemoryWidgetStore)(nil)

func (s *MemoryWidgetStore) EnsureArea(_ context.Context, def WidgetAreaDefinition) (bool, error) {
	if def.Code == "" {
		return false, errInvalidArea
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.areas[def.Code]
	s.areas[def.Code] = def
	return !exists, nil
}

func (s *MemoryWidgetStore) EnsureDefinition(_ context.Context, def WidgetDefinition) (bool, error) {
	if def.Code == "" {
		return false, errInvalidDefinition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.definitions[def.Code]
	s.definitions[def.Code] = def
	return !exists, nil
}

func (s *MemoryWidgetStore) CreateInstance(_ context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	if input.DefinitionID == "" {
		return WidgetInstance{}, errInvalidDefinition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.definitions) > 0 {
		if _, ok := s.definitions[input.DefinitionID]; !ok {
			return WidgetInstance{}, fmt.Errorf("dashboard: unknown widget definition %q: %w", input.DefinitionID, gamification.ErrInvalidArgument)
		}
	}
	instance := WidgetInstance{
		ID:            s.newID(),
		DefinitionID:  input.DefinitionID,
		Configuration: cloneMap(input.Configuration),
		Metadata:      cloneMap(input.Metadata),
	}
	s.instances[instance.ID] = storedInstance{instance: instance, visibility: input.Visibility}
	return instance, nil
}

func (s *MemoryWidgetStore) DeleteInstance(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[instanceID]; !ok {
		return ErrWidgetNotFound
	}
	delete(s.instances, instanceID)
	for area, ids := range s.assignments {
		s.assignments[area] = filterIDs(ids, instanceID)
	}
	return nil
}

func (s *MemoryWidgetStore) AssignInstance(_ context.Context, input AssignWidgetInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.areas[input.AreaCode]; !ok && len(s.areas) > 0 {
		return ErrAreaNotFound
	}
	if _, ok := s.instances[input.InstanceID]; !ok {
		return ErrWidgetNotFound
	}
	for area, ids := range s.assignments {
		s.assignments[area] = filterIDs(ids, input.InstanceID)
	}
	order := s.assignments[input.AreaCode]
	if input.Position != nil && *input.Position >= 0 && *input.Position <= len(order) {
		idx := *input.Position
		next := make([]string, 0, len(order)+1)
		next = append(next, order[:idx]...)
		next = append(next, input.InstanceID)
		next = append(next, order[idx:]...)
		order = next
	} else {
		order = append(order, input.InstanceID)
	}
	s.assignments[input.AreaCode] = order
	return nil
}

// ReorderArea applies the requested order. Ids not assigned to the area are
// ignored and assigned ids missing from the request keep their relative order
// at the end.
func (s *MemoryWidgetStore) ReorderArea(_ context.Context, input ReorderAreaInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[input.AreaCode] = reorderIDs(s.assignments[input.AreaCode], input.WidgetIDs)
	return nil
}

func (s *MemoryWidgetStore) ResolveArea(_ context.Context, input ResolveAreaInput) (ResolvedArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.assignments[input.AreaCode]
	widgets := make([]WidgetInstance, 0, len(ids))
	for _, id := range ids {
		stored, ok := s.instances[id]
		if !ok || !visibleTo(stored.visibility, input) {
			continue
		}
		inst := stored.instance
		inst.AreaCode = input.AreaCode
		inst.Configuration = cloneMap(inst.Configuration)
		inst.Metadata = cloneMap(inst.Metadata)
		widgets = append(widgets, inst)
	}
	return ResolvedArea{AreaCode: input.AreaCode, Widgets: widgets}, nil
}

func (s *MemoryWidgetStore) Instance(_ context.Context, id string) (WidgetInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.instances[id]
	if !ok {
		return WidgetInstance{}, ErrWidgetNotFound
	}
	inst := stored.instance
	inst.AreaCode = s.areaOf(id)
	inst.Configuration = cloneMap(inst.Configuration)
	inst.Metadata = cloneMap(inst.Metadata)
	return inst, nil
}

func (s *MemoryWidgetStore) UpdateInstance(_ context.Context, input UpdateWidgetInstanceInput) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.instances[input.InstanceID]
	if !ok {
		return WidgetInstance{}, ErrWidgetNotFound
	}
	if input.Configuration != nil {
		stored.instance.Configuration = cloneMap(input.Configuration)
	}
	if len(input.Metadata) > 0 {
		merged := cloneMap(stored.instance.Metadata)
		if merged == nil {
			merged = map[string]any{}
		}
		for k, v := range input.Metadata {
			merged[k] = v
		}
		stored.instance.Metadata = merged
	}
	s.instances[input.InstanceID] = stored
	updated := stored.instance
	updated.AreaCode = s.areaOf(input.InstanceID)
	return updated, nil
}

func (s *MemoryWidgetStore) areaOf(id string) string {
	for area, ids := range s.assignments {
		for _, candidate := range ids {
			if candidate == id {
				return area
			}
		}
	}
	return ""
}

func visibleTo(v WidgetVisibility, input ResolveAreaInput) bool {
	if !input.At.IsZero() && !v.Active(input.At) {
		return false
	}
	if len(v.Roles) == 0 {
		return true
	}
	for _, want := range v.Roles {
		for _, have := range input.Audience {
			if want == have {
				return true
			}
		}
	}
	return false
}

func reorderIDs(current, requested []string) []string {
	assigned := make(map[string]bool, len(current))
	for _, id := range current {
		assigned[id] = true
	}
	out := make([]string, 0, len(current))
	seen := make(map[string]bool, len(current))
	for _, id := range requested {
		if assigned[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range current {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func filterIDs(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
