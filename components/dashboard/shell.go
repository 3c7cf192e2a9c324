package dashboard

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
)

// Notification is an entry of the top bar bell menu.
type Notification struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	At      time.Time `json:"at"`
	Read    bool      `json:"read"`
	Warning bool      `json:"warning,omitempty"`
}

// Organization is a tenant the viewer can switch to.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// TopBar is the header state shared by every page.
type TopBar struct {
	Notifications []map[string]any `json:"notifications"`
	Unread        int              `json:"unread"`
	Organizations []Organization   `json:"organizations"`
	Current       Organization     `json:"current"`
	UserName      string           `json:"user_name"`
	UserEmail     string           `json:"user_email"`
}

// ShellSource feeds the top bar.
type ShellSource interface {
	Notifications(ctx context.Context, viewer ViewerContext) ([]Notification, error)
	Organizations(ctx context.Context, viewer ViewerContext) ([]Organization, error)
	Profile(ctx context.Context, viewer ViewerContext) (name, email string)
}

// DemoShell returns fixed notifications and organizations relative to Now.
type DemoShell struct {
	Now func() time.Time
}

func (d DemoShell) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d DemoShell) Notifications(context.Context, ViewerContext) ([]Notification, error) {
	now := d.now()
	return []Notification{
		{ID: "1", Title: "New user registered", At: now.Add(-2 * time.Minute)},
		{ID: "2", Title: "Security alert: Unusual login detected", At: now.Add(-time.Hour), Warning: true},
		{ID: "3", Title: "Weekly report is ready", At: now.Add(-3 * time.Hour), Read: true},
	}, nil
}

func (DemoShell) Organizations(context.Context, ViewerContext) ([]Organization, error) {
	return []Organization{
		{ID: "1", Name: "Acme Corp", Role: "Owner"},
		{ID: "2", Name: "Startup Inc", Role: "Admin"},
		{ID: "3", Name: "Enterprise LLC", Role: "Member"},
	}, nil
}

func (DemoShell) Profile(_ context.Context, viewer ViewerContext) (string, string) {
	if viewer.UserID != "" && viewer.UserID != "alex" {
		return viewer.UserID, ""
	}
	return "Alex Johnson", "alex@example.com"
}

// BuildTopBar collects the header state for viewer. The first organization
// is the current one.
func BuildTopBar(ctx context.Context, source ShellSource, viewer ViewerContext, now time.Time) (TopBar, error) {
	if source == nil {
		source = DemoShell{Now: func() time.Time { return now }}
	}
	notes, err := source.Notifications(ctx, viewer)
	if err != nil {
		return TopBar{}, err
	}
	orgs, err := source.Organizations(ctx, viewer)
	if err != nil {
		return TopBar{}, err
	}
	bar := TopBar{
		Notifications: make([]map[string]any, 0, len(notes)),
		Organizations: orgs,
	}
	bar.UserName, bar.UserEmail = source.Profile(ctx, viewer)
	for _, n := range notes {
		if !n.Read {
			bar.Unread++
		}
		bar.Notifications = append(bar.Notifications, map[string]any{
			"id":      n.ID,
			"title":   n.Title,
			"time":    humanize.RelTime(n.At, now, "ago", "from now"),
			"read":    n.Read,
			"warning": n.Warning,
		})
	}
	if len(orgs) > 0 {
		bar.Current = orgs[0]
	}
	return bar, nil
}
