package directory

// Presence is a team member's availability.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceAway    Presence = "away"
	PresenceOffline Presence = "offline"
)

// DotClass is the indicator colour for the presence.
func (p Presence) DotClass() string {
	switch p {
	case PresenceOnline:
		return "bg-success"
	case PresenceAway:
		return "bg-warning"
	default:
		return "bg-muted-foreground"
	}
}

// RoleKey identifies a built-in role in the brand catalogue.
type RoleKey string

const (
	RoleSuperAdmin RoleKey = "superAdmin"
	RoleAdmin      RoleKey = "admin"
	RoleManager    RoleKey = "manager"
	RoleEditor     RoleKey = "editor"
	RoleViewer     RoleKey = "viewer"
)

var roleLabels = map[RoleKey]string{
	RoleSuperAdmin: "Super Admin",
	RoleAdmin:      "Admin",
	RoleManager:    "Manager",
	RoleEditor:     "Editor",
	RoleViewer:     "Viewer",
}

// Label is the display name of the role, or the raw key if unknown.
func (k RoleKey) Label() string {
	if label, ok := roleLabels[k]; ok {
		return label
	}
	return string(k)
}

// Member is an entry in the team presence list.
type Member struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       RoleKey  `json:"role"`
	Presence   Presence `json:"presence"`
	LastActive string   `json:"last_active,omitempty"`
}

// Initials returns the first letter of each name part.
func (m Member) Initials() string {
	return initials(m.Name)
}

// StatusLabel is the presence text shown under the name. Offline members
// show when they were last seen.
func (m Member) StatusLabel() string {
	switch m.Presence {
	case PresenceOnline:
		return "Online"
	case PresenceAway:
		return "Away"
	default:
		if m.LastActive != "" {
			return m.LastActive
		}
		return "Offline"
	}
}

// OnlineCount counts members currently online.
func OnlineCount(members []Member) int {
	n := 0
	for _, m := range members {
		if m.Presence == PresenceOnline {
			n++
		}
	}
	return n
}

// SampleTeam returns the demo team list.
func SampleTeam() []Member {
	return []Member{
		{ID: "1", Name: "Alex Johnson", Email: "alex@company.com", Role: RoleSuperAdmin, Presence: PresenceOnline},
		{ID: "2", Name: "Sarah Miller", Email: "sarah@company.com", Role: RoleAdmin, Presence: PresenceOnline},
		{ID: "3", Name: "Mike Chen", Email: "mike@company.com", Role: RoleManager, Presence: PresenceAway},
		{ID: "4", Name: "Emma Wilson", Email: "emma@company.com", Role: RoleEditor, Presence: PresenceOffline, LastActive: "2h ago"},
		{ID: "5", Name: "James Brown", Email: "james@company.com", Role: RoleViewer, Presence: PresenceOffline, LastActive: "1d ago"},
	}
}
