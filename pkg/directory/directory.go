// Package directory holds the people side of the console: user accounts,
// roles with their permission matrix and the team presence list.
package directory

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultMaxSelections = 10_000

// ErrUnknownUser is returned when a selection names a user the directory
// does not hold.
var ErrUnknownUser = errors.New("directory: unknown user")

// Directory is an in-memory catalogue with per-session bulk selections.
// Only non-empty selections are kept, and the least recently changed one
// is dropped when the cap is reached.
type Directory struct {
	mu            sync.RWMutex
	users         []User
	roles         []Role
	team          []Member
	selections    map[string]*sessionSelection
	maxSelections int
	tick          uint64
}

type sessionSelection struct {
	Selection
	touched uint64
}

type Option func(*Directory)

// WithMaxSelections caps how many sessions may hold a selection.
func WithMaxSelections(n int) Option {
	return func(d *Directory) {
		if n > 0 {
			d.maxSelections = n
		}
	}
}

// New builds a directory over the given records.
func New(users []User, roles []Role, team []Member, opts ...Option) *Directory {
	d := &Directory{
		users:         append([]User(nil), users...),
		roles:         append([]Role(nil), roles...),
		team:          append([]Member(nil), team...),
		selections:    map[string]*sessionSelection{},
		maxSelections: defaultMaxSelections,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Sample returns a directory seeded with demo data relative to now.
func Sample(now time.Time) *Directory {
	return New(SampleUsers(now), SampleRoles(), SampleTeam())
}

// Users returns the users passing f.
func (d *Directory) Users(f Filter) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FilterUsers(d.users, f)
}

// Counts tallies every user per status, ignoring filters.
func (d *Directory) Counts() StatusCounts {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return CountByStatus(d.users)
}

// Roles returns the role catalogue.
func (d *Directory) Roles() []Role {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Role(nil), d.roles...)
}

// Role looks up a role by id.
func (d *Directory) Role(id string) (Role, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// Team returns the presence list.
func (d *Directory) Team() []Member {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Member(nil), d.team...)
}

// Selected returns the sorted selected ids for session.
func (d *Directory) Selected(session string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if sel, ok := d.selections[session]; ok {
		return sel.IDs()
	}
	return []string{}
}

// ToggleSelection flips one user in the session's selection.
func (d *Directory) ToggleSelection(session, id string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasUserLocked(id) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, id)
	}
	sel := d.selectionLocked(session)
	sel.Toggle(id)
	return d.settleLocked(session, sel), nil
}

// ToggleAll selects or clears every user visible under f.
func (d *Directory) ToggleAll(session string, f Filter) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.selectionLocked(session)
	sel.ToggleAll(FilterUsers(d.users, f))
	return d.settleLocked(session, sel)
}

// Selections returns the number of sessions holding a selection.
func (d *Directory) Selections() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.selections)
}

func (d *Directory) hasUserLocked(id string) bool {
	for _, u := range d.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (d *Directory) selectionLocked(session string) *sessionSelection {
	d.tick++
	if sel, ok := d.selections[session]; ok {
		sel.touched = d.tick
		return sel
	}
	if len(d.selections) >= d.maxSelections {
		var oldestID string
		var oldest uint64
		for id, sel := range d.selections {
			if oldestID == "" || sel.touched < oldest {
				oldestID, oldest = id, sel.touched
			}
		}
		delete(d.selections, oldestID)
	}
	sel := &sessionSelection{touched: d.tick}
	d.selections[session] = sel
	return sel
}

// settleLocked drops an emptied selection and returns the selected ids.
func (d *Directory) settleLocked(session string, sel *sessionSelection) []string {
	if sel.Len() == 0 {
		delete(d.selections, session)
	}
	return sel.IDs()
}

// SampleUsers returns the demo user table with activity times relative to now.
func SampleUsers(now time.Time) []User {
	return []User{
		{ID: "1", Name: "Alex Johnson", Email: "alex@example.com", Role: "Super Admin", Status: StatusActive,
			LastActive: now.Add(-2 * time.Minute), CreatedAt: date(2024, time.January, 15), TwoFactorEnabled: true},
		{ID: "2", Name: "Sarah Chen", Email: "sarah@example.com", Role: "Admin", Status: StatusActive,
			LastActive: now.Add(-time.Hour), CreatedAt: date(2024, time.February, 3), TwoFactorEnabled: true},
		{ID: "3", Name: "Mike Rodriguez", Email: "mike@example.com", Role: "Manager", Status: StatusPending,
			CreatedAt: date(2024, time.March, 10)},
		{ID: "4", Name: "Emily Davis", Email: "emily@example.com", Role: "Editor", Status: StatusActive,
			LastActive: now.Add(-5 * time.Hour), CreatedAt: date(2024, time.February, 20)},
		{ID: "5", Name: "James Wilson", Email: "james@example.com", Role: "Viewer", Status: StatusSuspended,
			LastActive: now.Add(-3 * 24 * time.Hour), CreatedAt: date(2024, time.January, 28)},
		{ID: "6", Name: "Lisa Thompson", Email: "lisa@example.com", Role: "Editor", Status: StatusInactive,
			LastActive: now.Add(-14 * 24 * time.Hour), CreatedAt: date(2023, time.December, 5), TwoFactorEnabled: true},
	}
}
