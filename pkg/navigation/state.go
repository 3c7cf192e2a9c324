package navigation

// UIState is the per-session menu state: which groups are expanded, the
// current location, and whether the rail is collapsed to icons.
//
// The zero value is ready to use with every group collapsed.
type UIState struct {
	expanded      map[string]struct{}
	CurrentPath   string
	RailCollapsed bool
}

// Snapshot is the serialisable form of UIState.
type Snapshot struct {
	Expanded      []string `json:"expanded"`
	CurrentPath   string   `json:"current_path"`
	RailCollapsed bool     `json:"rail_collapsed"`
}

// NewUIState returns a state positioned at currentPath with every group collapsed.
func NewUIState(currentPath string) UIState {
	return UIState{CurrentPath: currentPath}
}

// Toggle flips the expansion of the group at key.
//
// Leaves and unknown keys are ignored. While the rail is collapsed group
// interactions are suppressed. The return value reports whether the state
// changed.
func (s *UIState) Toggle(tree *Tree, key string) bool {
	if s.RailCollapsed || !tree.HasGroup(key) {
		return false
	}
	if s.expanded == nil {
		s.expanded = map[string]struct{}{}
	}
	if _, ok := s.expanded[key]; ok {
		delete(s.expanded, key)
	} else {
		s.expanded[key] = struct{}{}
	}
	return true
}

// IsExpanded reports whether key is in the expanded set. It ignores the rail.
func (s UIState) IsExpanded(key string) bool {
	_, ok := s.expanded[key]
	return ok
}

// Expanded returns the expanded keys in sorted order.
func (s UIState) Expanded() []string {
	return sortedKeys(s.expanded)
}

// SetRailCollapsed collapses or restores the rail. Expanded groups are kept
// so restoring the rail shows them again.
func (s *UIState) SetRailCollapsed(collapsed bool) {
	s.RailCollapsed = collapsed
}

// Navigate records the current location.
func (s *UIState) Navigate(path string) {
	s.CurrentPath = path
}

// Rebind drops expanded keys that are not groups of tree.
func (s *UIState) Rebind(tree *Tree) {
	for key := range s.expanded {
		if !tree.HasGroup(key) {
			delete(s.expanded, key)
		}
	}
}

// Clone returns an independent copy.
func (s UIState) Clone() UIState {
	out := UIState{CurrentPath: s.CurrentPath, RailCollapsed: s.RailCollapsed}
	if len(s.expanded) > 0 {
		out.expanded = make(map[string]struct{}, len(s.expanded))
		for k := range s.expanded {
			out.expanded[k] = struct{}{}
		}
	}
	return out
}

// Snapshot exports the state.
func (s UIState) Snapshot() Snapshot {
	return Snapshot{
		Expanded:      s.Expanded(),
		CurrentPath:   s.CurrentPath,
		RailCollapsed: s.RailCollapsed,
	}
}

// Restore rebuilds a state from a snapshot, keeping only keys known to tree.
func Restore(tree *Tree, snap Snapshot) UIState {
	s := UIState{CurrentPath: snap.CurrentPath, RailCollapsed: snap.RailCollapsed}
	for _, key := range snap.Expanded {
		if tree.HasGroup(key) {
			if s.expanded == nil {
				s.expanded = map[string]struct{}{}
			}
			s.expanded[key] = struct{}{}
		}
	}
	return s
}
