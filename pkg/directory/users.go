package directory

import (
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

// Status is the account state of a user.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
)

// FilterAll disables a status or role filter.
const FilterAll = "all"

type statusInfo struct {
	label string
	tone  gamification.Tone
	icon  string
}

var statusTable = map[Status]statusInfo{
	StatusActive:    {label: "Active", tone: gamification.ToneSuccess, icon: "check-circle-2"},
	StatusInactive:  {label: "Inactive", tone: gamification.ToneMuted, icon: "user-x"},
	StatusPending:   {label: "Pending", tone: gamification.ToneWarning, icon: "clock"},
	StatusSuspended: {label: "Suspended", tone: gamification.ToneDestructive, icon: "ban"},
}

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusInactive, StatusPending, StatusSuspended}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Label is the human name of the status.
func (s Status) Label() string { return statusTable[s].label }

// Tone is the badge colour for the status.
func (s Status) Tone() gamification.Tone { return statusTable[s].tone }

// Icon is the status icon name.
func (s Status) Icon() string { return statusTable[s].icon }

// User is a directory record.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Status           Status    `json:"status"`
	LastActive       time.Time `json:"last_active,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
}

// Initials returns the first letter of each name part.
func (u User) Initials() string {
	return initials(u.Name)
}

// LastActiveLabel renders the last activity relative to now, or "Never".
func (u User) LastActiveLabel(now time.Time) string {
	if u.LastActive.IsZero() {
		return "Never"
	}
	return humanize.RelTime(u.LastActive, now, "ago", "from now")
}

// Filter narrows the user table. Empty or "all" fields match everything.
type Filter struct {
	Query  string `json:"query"`
	Status string `json:"status"`
	Role   string `json:"role"`
}

// Match reports whether u passes the filter. The query matches name or
// email case-insensitively.
func (f Filter) Match(u User) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			return false
		}
	}
	if f.Status != "" && f.Status != FilterAll && string(u.Status) != f.Status {
		return false
	}
	if f.Role != "" && f.Role != FilterAll && u.Role != f.Role {
		return false
	}
	return true
}

// FilterUsers returns the users passing f, keeping input order.
func FilterUsers(users []User, f Filter) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if f.Match(u) {
			out = append(out, u)
		}
	}
	return out
}

// StatusCounts tallies users per status.
type StatusCounts map[Status]int

// CountByStatus counts users per status. Every known status is present.
func CountByStatus(users []User) StatusCounts {
	counts := make(StatusCounts, len(statusTable))
	for _, s := range Statuses() {
		counts[s] = 0
	}
	for _, u := range users {
		counts[u.Status]++
	}
	return counts
}

// Selection is the set of users picked for a bulk action.
type Selection struct {
	ids map[string]struct{}
}

// Toggle adds or removes id.
func (s *Selection) Toggle(id string) {
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ToggleAll selects exactly the visible users, or clears the selection when
// it already equals them.
func (s *Selection) ToggleAll(visible []User) {
	if len(visible) > 0 && s.Len() == len(visible) && s.containsAll(visible) {
		s.Clear()
		return
	}
	s.ids = make(map[string]struct{}, len(visible))
	for _, u := range visible {
		s.ids[u.ID] = struct{}{}
	}
}

func (s *Selection) containsAll(users []User) bool {
	for _, u := range users {
		if !s.Has(u.ID) {
			return false
		}
	}
	return true
}

// AllSelected reports whether every visible user is selected.
func (s *Selection) AllSelected(visible []User) bool {
	return len(visible) > 0 && s.Len() == len(visible) && s.containsAll(visible)
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len is the number of selected users.
func (s *Selection) Len() int { return len(s.ids) }

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = nil }

// IDs returns the selected ids sorted.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	return strings.ToUpper(b.String())
}
