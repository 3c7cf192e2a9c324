package dashboard

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// fullWidth is the column span of a slot saved without a valid width.
const fullWidth = 12

// InMemoryPreferenceStore keeps layout overrides per user and locale until the
// process exits. Anonymous viewers always get empty overrides.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]LayoutOverrides
}

func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{data: make(map[string]LayoutOverrides)}
}

func (s *InMemoryPreferenceStore) LayoutOverrides(_ context.Context, viewer ViewerContext) (LayoutOverrides, error) {
	var stored LayoutOverrides
	if viewer.UserID != "" {
		s.mu.RLock()
		stored = cloneOverrides(s.data[preferenceKey(viewer)])
		s.mu.RUnlock()
	}
	return normalizeOverrides(stored, viewer.Locale), nil
}

func (s *InMemoryPreferenceStore) SaveLayoutOverrides(_ context.Context, viewer ViewerContext, overrides LayoutOverrides) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	overrides = normalizeOverrides(cloneOverrides(overrides), viewer.Locale)
	s.mu.Lock()
	s.data[preferenceKey(viewer)] = overrides
	s.mu.Unlock()
	return nil
}

// preferenceKey scopes overrides by locale so a translated layout can differ.
func preferenceKey(viewer ViewerContext) string {
	if viewer.Locale == "" {
		return viewer.UserID
	}
	return viewer.UserID + "::" + viewer.Locale
}

// normalizeOverrides fills nil maps, defaults the locale and widens slots
// with an out of range width to a full row.
func normalizeOverrides(o LayoutOverrides, locale string) LayoutOverrides {
	if o.Locale == "" {
		o.Locale = locale
	}
	if o.AreaOrder == nil {
		o.AreaOrder = map[string][]string{}
	}
	if o.AreaRows == nil {
		o.AreaRows = map[string][]LayoutRow{}
	}
	if o.HiddenWidgets == nil {
		o.HiddenWidgets = map[string]bool{}
	}
	for _, rows := range o.AreaRows {
		for _, row := range rows {
			for i := range row.Widgets {
				if w := row.Widgets[i].Width; w < 1 || w > fullWidth {
					row.Widgets[i].Width = fullWidth
				}
			}
		}
	}
	return o
}

// cloneOverrides deep-copies o so callers cannot mutate stored state.
func cloneOverrides(o LayoutOverrides) LayoutOverrides {
	out := LayoutOverrides{Locale: o.Locale, HiddenWidgets: maps.Clone(o.HiddenWidgets)}
	if o.AreaOrder != nil {
		out.AreaOrder = make(map[string][]string, len(o.AreaOrder))
		for area, ids := range o.AreaOrder {
			out.AreaOrder[area] = slices.Clone(ids)
		}
	}
	if o.AreaRows != nil {
		out.AreaRows = make(map[string][]LayoutRow, len(o.AreaRows))
		for area, rows := range o.AreaRows {
			copied := make([]LayoutRow, len(rows))
			for i, row := range rows {
				copied[i].Widgets = slices.Clone(row.Widgets)
			}
			out.AreaRows[area] = copied
		}
	}
	return out
}
