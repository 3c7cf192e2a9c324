package directory

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Module is an area of the product that permissions apply to.
type Module struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var modules = []Module{
	{ID: "users", Name: "Users", Description: "Manage user accounts and profiles", Icon: "users"},
	{ID: "roles", Name: "Roles & Permissions", Description: "Configure roles and access controls", Icon: "shield"},
	{ID: "dashboard", Name: "Dashboard", Description: "View dashboard and analytics", Icon: "layout-dashboard"},
	{ID: "content", Name: "Content", Description: "Create and manage content", Icon: "file-text"},
	{ID: "billing", Name: "Billing", Description: "Manage subscriptions and payments", Icon: "credit-card"},
	{ID: "notifications", Name: "Notifications", Description: "Configure notification settings", Icon: "bell"},
	{ID: "api", Name: "API & Webhooks", Description: "Manage API keys and webhooks", Icon: "key"},
	{ID: "settings", Name: "Settings", Description: "System configuration and preferences", Icon: "settings"},
	{ID: "database", Name: "Database", Description: "Direct database access", Icon: "database"},
}

// Modules returns the permission modules in display order.
func Modules() []Module {
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

// Action is one of the CRUD verbs.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists the CRUD verbs in column order.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
}

var titleCaser = cases.Title(language.English)

// Label returns the title-cased verb.
func (a Action) Label() string {
	return titleCaser.String(string(a))
}

// Short is the single-letter column marker.
func (a Action) Short() string {
	if a == "" {
		return ""
	}
	return titleCaser.String(string(a))[:1]
}

// CRUD holds the four permission flags for a module.
type CRUD struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// Allows reports the flag for a.
func (c CRUD) Allows(a Action) bool {
	switch a {
	case ActionCreate:
		return c.Create
	case ActionRead:
		return c.Read
	case ActionUpdate:
		return c.Update
	case ActionDelete:
		return c.Delete
	default:
		return false
	}
}

// Permission grants CRUD flags on one module.
type Permission struct {
	Module  Module `json:"module"`
	Actions CRUD   `json:"actions"`
}

// Role is a named bundle of permissions.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	UserCount   int          `json:"user_count"`
	System      bool         `json:"system"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	UpdatedBy   string       `json:"updated_by"`
}

// Can reports whether the role grants action on module.
func (r Role) Can(module string, action Action) bool {
	for _, p := range r.Permissions {
		if p.Module.ID == module {
			return p.Actions.Allows(action)
		}
	}
	return false
}

// ModuleCount is the number of modules the role has any access to.
func (r Role) ModuleCount() int {
	return len(r.Permissions)
}

// PermissionBadge describes one CRUD cell.
type PermissionBadge struct {
	Action  Action `json:"action"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Class   string `json:"class"`
	Title   string `json:"title"`
}

// NewPermissionBadge builds the cell for action with its hover title
// ("Create: Enabled").
func NewPermissionBadge(action Action, enabled bool) PermissionBadge {
	state, class := "Disabled", "bg-muted/50 text-muted-foreground/50"
	if enabled {
		state, class = "Enabled", "permission-"+string(action)
	}
	return PermissionBadge{
		Action:  action,
		Label:   action.Short(),
		Enabled: enabled,
		Class:   class,
		Title:   fmt.Sprintf("%s: %s", action.Label(), state),
	}
}

// MatrixRow is one module across every role.
type MatrixRow struct {
	Module Module              `json:"module"`
	Cells  [][]PermissionBadge `json:"cells"`
}

// PermissionMatrix is the module × role access grid.
type PermissionMatrix struct {
	Roles []Role      `json:"roles"`
	Rows  []MatrixRow `json:"rows"`
}

// Matrix builds the access grid for roles over every module.
func Matrix(roles []Role) PermissionMatrix {
	matrix := PermissionMatrix{Roles: roles}
	for _, m := range modules {
		row := MatrixRow{Module: m, Cells: make([][]PermissionBadge, len(roles))}
		for i, r := range roles {
			badges := make([]PermissionBadge, 0, 4)
			for _, a := range Actions() {
				badges = append(badges, NewPermissionBadge(a, r.Can(m.ID, a)))
			}
			row.Cells[i] = badges
		}
		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix
}

func grant(mods []Module, rule func(id string) CRUD) []Permission {
	out := make([]Permission, 0, len(mods))
	for _, m := range mods {
		out = append(out, Permission{Module: m, Actions: rule(m.ID)})
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SampleRoles returns the demo role catalogue.
func SampleRoles() []Role {
	all := Modules()
	return []Role{
		{
			ID: "1", Name: "Super Admin", Description: "Full system access with no restrictions",
			Color: "bg-primary", UserCount: 2, System: true,
			CreatedAt: date(2024, time.January, 1), UpdatedAt: date(2024, time.December, 1), UpdatedBy: "System",
			Permissions: grant(all, func(string) CRUD {
				return CRUD{Create: true, Read: true, Update: true, Delete: true}
			}),
		},
		{
			ID: "2", Name: "Admin", Description: "Administrative access with some restrictions",
			Color: "bg-destructive", UserCount: 5, System: true,
			CreatedAt: date(2024, time.January, 1), UpdatedAt: date(2024, time.November, 15), UpdatedBy: "Alex Johnson",
			Permissions: grant(all, func(id string) CRUD {
				return CRUD{
					Create: id != "database",
					Read:   true,
					Update: id != "database",
					Delete: id != "database" && id != "roles",
				}
			}),
		},
		{
			ID: "3", Name: "Manager", Description: "Team management and content oversight",
			Color: "bg-warning", UserCount: 8,
			CreatedAt: date(2024, time.February, 10), UpdatedAt: date(2024, time.October, 20), UpdatedBy: "Sarah Chen",
			Permissions: grant(all[:5], func(id string) CRUD {
				return CRUD{Create: id == "content", Read: true, Update: id == "content" || id == "users"}
			}),
		},
		{
			ID: "4", Name: "Editor", Description: "Content creation and editing permissions",
			Color: "bg-info", UserCount: 12,
			CreatedAt: date(2024, time.March, 5), UpdatedAt: date(2024, time.September, 8), UpdatedBy: "Mike Rodriguez",
			Permissions: grant(all[:4], func(id string) CRUD {
				return CRUD{Create: id == "content", Read: true, Update: id == "content"}
			}),
		},
		{
			ID: "5", Name: "Viewer", Description: "Read-only access to permitted areas",
			Color: "bg-muted-foreground", UserCount: 24,
			CreatedAt: date(2024, time.January, 15), UpdatedAt: date(2024, time.August, 1), UpdatedBy: "System",
			Permissions: grant(all[:3], func(string) CRUD {
				return CRUD{Read: true}
			}),
		},
	}
}
