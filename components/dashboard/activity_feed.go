package dashboard

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
)

// ActivityKind classifies an entry of the recent activity feed.
type ActivityKind string

const (
	ActivityUserCreated       ActivityKind = "user_created"
	ActivityRoleUpdated       ActivityKind = "role_updated"
	ActivityAPIKeyGenerated   ActivityKind = "api_key_generated"
	ActivityUserDeleted       ActivityKind = "user_deleted"
	ActivityPermissionChanged ActivityKind = "permission_changed"
	ActivityLogin             ActivityKind = "login"
	ActivitySecurityAlert     ActivityKind = "security_alert"
)

type activityStyle struct {
	icon       string
	color      string
	background string
}

var activityStyles = map[ActivityKind]activityStyle{
	ActivityUserCreated:       {icon: "user-plus", color: "text-success", background: "bg-success/10"},
	ActivityRoleUpdated:       {icon: "shield", color: "text-primary", background: "bg-primary/10"},
	ActivityAPIKeyGenerated:   {icon: "key", color: "text-accent", background: "bg-accent/10"},
	ActivityUserDeleted:       {icon: "trash-2", color: "text-destructive", background: "bg-destructive/10"},
	ActivityPermissionChanged: {icon: "edit", color: "text-warning", background: "bg-warning/10"},
	ActivityLogin:             {icon: "log-in", color: "text-muted-foreground", background: "bg-muted"},
	ActivitySecurityAlert:     {icon: "alert-triangle", color: "text-destructive", background: "bg-destructive/10"},
}

// ActivityKinds lists every known kind.
func ActivityKinds() []ActivityKind {
	return []ActivityKind{
		ActivityUserCreated,
		ActivityRoleUpdated,
		ActivityAPIKeyGenerated,
		ActivityUserDeleted,
		ActivityPermissionChanged,
		ActivityLogin,
		ActivitySecurityAlert,
	}
}

// Valid reports whether k has a style entry.
func (k ActivityKind) Valid() bool {
	_, ok := activityStyles[k]
	return ok
}

// Icon returns the icon name; unknown kinds render as logins.
func (k ActivityKind) Icon() string { return k.style().icon }

// ColorClass returns the icon colour class.
func (k ActivityKind) ColorClass() string { return k.style().color }

// BackgroundClass returns the icon background class.
func (k ActivityKind) BackgroundClass() string { return k.style().background }

func (k ActivityKind) style() activityStyle {
	if s, ok := activityStyles[k]; ok {
		return s
	}
	return activityStyles[ActivityLogin]
}

// ActivityItem represents a recent activity entry displayed by the widget.
type ActivityItem struct {
	Kind   ActivityKind `json:"kind"`
	Action string       `json:"action"`
	User   string       `json:"user"`
	Target string       `json:"target,omitempty"`
	At     time.Time    `json:"at"`
}

// Ago renders the entry age relative to now ("2 minutes ago").
func (i ActivityItem) Ago(now time.Time) string {
	return humanize.RelTime(i.At, now, "ago", "from now")
}

// ActivityFeed fetches recent activity entries for the current viewer.
type ActivityFeed interface {
	Recent(ctx context.Context, viewer ViewerContext, limit int) ([]ActivityItem, error)
}

// StaticActivityFeed returns fixed entries useful for demos/tests.
type StaticActivityFeed struct {
	Items []ActivityItem
}

// Recent returns up to limit items from the static list.
func (f StaticActivityFeed) Recent(_ context.Context, _ ViewerContext, limit int) ([]ActivityItem, error) {
	if limit <= 0 || limit >= len(f.Items) {
		return append([]ActivityItem{}, f.Items...), nil
	}
	return append([]ActivityItem{}, f.Items[:limit]...), nil
}

// DefaultActivityFeed provides the demo feed with timestamps relative to now.
func DefaultActivityFeed(now time.Time) ActivityFeed {
	return StaticActivityFeed{
		Items: []ActivityItem{
			{Kind: ActivitySecurityAlert, Action: "Unusual login detected from new IP", User: "System", Target: "192.168.1.100", At: now.Add(-2 * time.Minute)},
			{Kind: ActivityUserCreated, Action: "New user invitation sent", User: "Alex Johnson", Target: "john.doe@example.com", At: now.Add(-15 * time.Minute)},
			{Kind: ActivityRoleUpdated, Action: "Role permissions updated", User: "Sarah Miller", Target: "Editor Role", At: now.Add(-time.Hour)},
			{Kind: ActivityAPIKeyGenerated, Action: "New API key generated", User: "Mike Chen", Target: "Production API", At: now.Add(-2 * time.Hour)},
			{Kind: ActivityLogin, Action: "Successful login", User: "Emma Wilson", At: now.Add(-3 * time.Hour)},
			{Kind: ActivityPermissionChanged, Action: "User permissions modified", User: "Alex Johnson", Target: "james@example.com", At: now.Add(-5 * time.Hour)},
		},
	}
}
