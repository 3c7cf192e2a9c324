package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-nexus/pkg/brand"
	"github.com/goliatone/go-nexus/pkg/directory"
)

// TeamSource lists the members shown in the team widget.
type TeamSource interface {
	Team() []directory.Member
}

// ProviderSources supplies the data behind the built-in widgets. Zero fields
// fall back to the demo implementations.
type ProviderSources struct {
	Brand        brand.Config
	Progress     ProgressSource
	Stats        StatsRepository
	Activity     ActivityFeed
	Security     SecurityRepository
	Team         TeamSource
	HeatmapWeeks int
	BasePath     string
	ChartOptions []EChartsProviderOption
}

// DemoSources returns sources backed by the bundled sample data.
func DemoSources() ProviderSources {
	return ProviderSources{}.withDefaults()
}

func (src ProviderSources) withDefaults() ProviderSources {
	if src.Brand.Name == "" {
		src.Brand = brand.Default()
	}
	if src.Progress == nil {
		src.Progress = NewDemoProgressSource()
	}
	if src.Stats == nil {
		src.Stats = DemoStatsRepository{}
	}
	if src.Security == nil {
		src.Security = DemoSecurityRepository{}
	}
	if src.Team == nil {
		src.Team = directory.Sample(time.Now())
	}
	return src
}

func defaultProviders(src ProviderSources) map[string]Provider {
	src = src.withDefaults()
	game := NewGamificationProviders(src.Progress, src.Brand, src.HeatmapWeeks, src.ChartOptions...)
	return map[string]Provider{
		"admin.widget.stat_card":         NewStatCardProvider(src.Stats),
		"admin.widget.xp_progress":       game.Progress(),
		"admin.widget.streak":            game.Streak(),
		"admin.widget.weekly_score":      game.WeeklyScore(),
		"admin.widget.activity_heatmap":  game.Heatmap(),
		"admin.widget.achievements":      game.Achievements(),
		"admin.widget.recent_activity":   newRecentActivityProvider(src.Activity),
		"admin.widget.quick_actions":     newQuickActionsProvider(src.BasePath),
		"admin.widget.security_overview": NewSecurityOverviewProvider(src.Security, NewEChartsProvider("gauge", src.ChartOptions...)),
		"admin.widget.team_members":      newTeamProvider(src.Team),
	}
}

func newRecentActivityProvider(feed ActivityFeed) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		now := meta.Now
		if now.IsZero() {
			now = time.Now()
		}
		source := feed
		if source == nil {
			source = DefaultActivityFeed(now)
		}
		limit := intOr(meta.Instance.Configuration["limit"], 10)
		if limit <= 0 {
			limit = 10
		}
		items, err := source.Recent(ctx, meta.Viewer, limit)
		if err != nil {
			return nil, err
		}
		payload := make([]map[string]any, 0, len(items))
		for _, item := range items {
			payload = append(payload, map[string]any{
				"kind":             string(item.Kind),
				"action":           item.Action,
				"user":             item.User,
				"target":           item.Target,
				"ago":              item.Ago(now),
				"icon":             item.Kind.Icon(),
				"color_class":      item.Kind.ColorClass(),
				"background_class": item.Kind.BackgroundClass(),
			})
		}
		return WidgetData{
			"title": translateOrFallback(ctx, meta.Translator, "dashboard.widget.recent_activity.title", meta.Viewer.Locale, "Recent Activity", nil),
			"live":  boolOr(meta.Instance.Configuration["live"], true),
			"items": payload,
		}, nil
	})
}

// QuickAction is a shortcut tile.
type QuickAction struct {
	Key         string
	Label       string
	Description string
	Icon        string
	Route       string
	Primary     bool
}

func defaultQuickActions() []QuickAction {
	return []QuickAction{
		{Key: "add_user", Label: "Add User", Description: "Invite new team member", Icon: "user-plus", Route: "/users", Primary: true},
		{Key: "new_role", Label: "New Role", Description: "Create custom role", Icon: "shield", Route: "/roles"},
		{Key: "api_key", Label: "API Key", Description: "Generate new key", Icon: "key", Route: "/api/keys"},
		{Key: "audit_log", Label: "Audit Log", Description: "View recent logs", Icon: "file-text", Route: "/security/audit"},
		{Key: "alert_rule", Label: "Alert Rule", Description: "Set up notification", Icon: "bell", Route: "/notifications"},
		{Key: "settings", Label: "Settings", Description: "Configure system", Icon: "settings", Route: "/settings"},
	}
}

func newQuickActionsProvider(basePath string) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		actions := defaultQuickActions()
		if limit := intOr(meta.Instance.Configuration["limit"], 0); limit > 0 && limit < len(actions) {
			actions = actions[:limit]
		}
		payload := make([]map[string]any, 0, len(actions))
		for _, action := range actions {
			key := "dashboard.widget.quick_actions." + action.Key
			payload = append(payload, map[string]any{
				"key":         action.Key,
				"label":       translateOrFallback(ctx, meta.Translator, key, meta.Viewer.Locale, action.Label, nil),
				"description": translateOrFallback(ctx, meta.Translator, key+".description", meta.Viewer.Locale, action.Description, nil),
				"icon":        action.Icon,
				"route":       joinRoute(basePath, action.Route),
				"primary":     action.Primary,
			})
		}
		return WidgetData{
			"title":   translateOrFallback(ctx, meta.Translator, "dashboard.widget.quick_actions.title", meta.Viewer.Locale, "Quick Actions", nil),
			"actions": payload,
		}, nil
	})
}

func newTeamProvider(team TeamSource) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		if team == nil {
			return nil, fmt.Errorf("dashboard: team source not configured")
		}
		members := team.Team()
		payload := make([]map[string]any, 0, len(members))
		for _, m := range members {
			payload = append(payload, map[string]any{
				"id":        m.ID,
				"name":      m.Name,
				"email":     m.Email,
				"initials":  m.Initials(),
				"role":      m.Role.Label(),
				"presence":  string(m.Presence),
				"dot_class": m.Presence.DotClass(),
				"status":    m.StatusLabel(),
			})
		}
		online := directory.OnlineCount(members)
		return WidgetData{
			"title":        translateOrFallback(ctx, meta.Translator, "dashboard.widget.team_members.title", meta.Viewer.Locale, "Team Members", nil),
			"members":      payload,
			"online":       online,
			"online_label": fmt.Sprintf("%d online", online),
		}, nil
	})
}

func boolOr(value any, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return boolValue(value)
}

func joinRoute(base, route string) string {
	if base == "" || base == "/" {
		return route
	}
	if route == "/" {
		return base
	}
	return base + route
}
