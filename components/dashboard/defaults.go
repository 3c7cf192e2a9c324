package dashboard

import (
	"time"

	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

// Widget categories.
const (
	CategoryStats        = "stats"
	CategoryGamification = "gamification"
	CategoryActivity     = "activity"
	CategoryActions      = "actions"
	CategorySecurity     = "security"
	CategoryTeam         = "team"
	CategoryCharts       = "charts"
)

var defaultAreaDefinitions = []WidgetAreaDefinition{
	{Code: AreaStats, Name: "Admin Dashboard (Stats)", Description: "Headline metric cards"},
	{Code: AreaMain, Name: "Admin Dashboard (Main)", Description: "Member progress and activity"},
	{Code: AreaSidebar, Name: "Admin Dashboard (Sidebar)", Description: "Security and team widgets"},
	{Code: AreaFooter, Name: "Admin Dashboard (Footer)", Description: "Shortcuts and the activity feed"},
}

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code: "admin.widget.stat_card",
		Name: "Stat Card",
		NameLocalized: map[string]string{
			"es": "Indicador",
		},
		Description: "Headline metric with change against the last period",
		Category:    CategoryStats,
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"metric"},
			"properties": map[string]any{
				"metric": map[string]any{"type": "string", "enum": StatMetrics()},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: "admin.widget.xp_progress",
		Name: "Your Progress",
		NameLocalized: map[string]string{
			"es": "Tu progreso",
		},
		Description: "Level, total XP and distance to the next level",
		DescriptionLocalized: map[string]string{
			"es": "Nivel, XP total y distancia al siguiente nivel",
		},
		Category: CategoryGamification,
		Schema:   emptySchema(),
	},
	{
		Code:        "admin.widget.streak",
		Name:        "Login Streak",
		Description: "Consecutive days with activity",
		Category:    CategoryGamification,
		Schema:      emptySchema(),
	},
	{
		Code: "admin.widget.weekly_score",
		Name: "Productivity Score",
		NameLocalized: map[string]string{
			"es": "Puntuación de productividad",
		},
		Description: "Weekly score against the previous week",
		Category:    CategoryGamification,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chart": map[string]any{"type": "boolean", "default": false},
				"theme": chartThemeSchema(),
			},
			"additionalProperties": false,
		},
	},
	{
		Code: "admin.widget.activity_heatmap",
		Name: "Activity Overview",
		NameLocalized: map[string]string{
			"es": "Resumen de actividad",
		},
		Description: "Daily activity over a trailing window of weeks",
		DescriptionLocalized: map[string]string{
			"es": "Actividad diaria de las últimas semanas",
		},
		Category: CategoryGamification,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"weeks": map[string]any{"type": "integer", "minimum": 1, "maximum": gamification.MaxHeatmapWeeks, "default": gamification.DefaultHeatmapWeeks},
				"chart": map[string]any{"type": "boolean", "default": false},
				"theme": chartThemeSchema(),
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        "admin.widget.achievements",
		Name:        "Achievements",
		Description: "Unlocked and pending badges",
		Category:    CategoryGamification,
		Schema:      emptySchema(),
	},
	{
		Code: "admin.widget.quick_actions",
		Name: "Quick Actions",
		NameLocalized: map[string]string{
			"es": "Acciones rápidas",
		},
		Description: "Common admin shortcuts",
		Category:    CategoryActions,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 6},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: "admin.widget.recent_activity",
		Name: "Recent Activity",
		NameLocalized: map[string]string{
			"es": "Actividad reciente",
		},
		Description: "Latest activity feed entries",
		DescriptionLocalized: map[string]string{
			"es": "Últimos eventos registrados",
		},
		Category: CategoryActivity,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50, "default": 10},
				"live":  map[string]any{"type": "boolean", "default": true},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: "admin.widget.security_overview",
		Name: "Security Overview",
		NameLocalized: map[string]string{
			"es": "Seguridad",
		},
		Description: "Security score and control checklist",
		Category:    CategorySecurity,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chart": map[string]any{"type": "boolean", "default": false},
				"theme": chartThemeSchema(),
				"statuses": map[string]any{
					"type":        "array",
					"uniqueItems": true,
					"items": map[string]any{
						"type": "string",
						"enum": []string{string(CheckGood), string(CheckWarning), string(CheckCritical)},
					},
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        "admin.widget.team_members",
		Name:        "Team Members",
		Description: "Team presence",
		Category:    CategoryTeam,
		Schema:      emptySchema(),
	},
	{
		Code:        "admin.widget.bar_chart",
		Name:        "Bar Chart",
		Description: "Interactive bar chart visualization.",
		Category:    CategoryCharts,
		Schema:      chartConfigSchema(true),
	},
	{
		Code:        "admin.widget.line_chart",
		Name:        "Line Chart",
		Description: "Interactive line chart visualization.",
		Category:    CategoryCharts,
		Schema:      chartConfigSchema(true),
	},
	{
		Code:        "admin.widget.pie_chart",
		Name:        "Pie Chart",
		Description: "Interactive pie chart visualization.",
		Category:    CategoryCharts,
		Schema:      chartConfigSchema(false),
	},
	{
		Code:        "admin.widget.scatter_chart",
		Name:        "Scatter Chart",
		Description: "Value-vs-value scatter visualization.",
		Category:    CategoryCharts,
		Schema:      chartConfigSchema(true),
	},
	{
		Code:        "admin.widget.gauge_chart",
		Name:        "Gauge Chart",
		Description: "Single-value gauge visualization.",
		Category:    CategoryCharts,
		Schema:      chartConfigSchema(false),
	},
	{
		Code:        "admin.widget.heatmap_chart",
		Name:        "Heatmap Chart",
		Description: "Category-by-category heatmap; points carry x, y and value.",
		Category:    CategoryCharts,
		Schema:      heatmapChartSchema(),
	},
}

func emptySchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
	}
}

func chartThemeSchema() map[string]any {
	return map[string]any{
		"type": "string",
		"enum": []string{
			string(types.ThemeWesteros),
			string(types.ThemeWalden),
			string(types.ThemeWonderland),
			string(types.ThemeChalk),
		},
	}
}

func heatmapChartSchema() map[string]any {
	schema := chartConfigSchema(true)
	props := schema["properties"].(map[string]any)
	props["y_axis"] = map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	return schema
}

func chartSeriesSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "data"},
		"properties": map[string]any{
			"name": map[string]any{
				"type":    "string",
				"default": "Series",
			},
			"data": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"oneOf": []map[string]any{
						{"type": "number"},
						{
							"type":     "object",
							"required": []string{"value"},
							"properties": map[string]any{
								"name":  map[string]any{"type": "string"},
								"value": map[string]any{"type": "number"},
								"x":     map[string]any{"type": "number"},
								"y":     map[string]any{"type": "number"},
							},
						},
						{
							"type":     "object",
							"required": []string{"x", "y"},
							"properties": map[string]any{
								"name": map[string]any{"type": "string"},
								"x":    map[string]any{"type": "number"},
								"y":    map[string]any{"type": "number"},
							},
						},
						{
							"type":     "array",
							"minItems": 2,
							"items": map[string]any{
								"type": "number",
							},
						},
					},
				},
			},
		},
	}
}

func chartConfigSchema(includeAxis bool) map[string]any {
	props := map[string]any{
		"title": map[string]any{
			"type":    "string",
			"default": "Chart",
		},
		"subtitle": map[string]any{
			"type": "string",
		},
		"series": map[string]any{
			"type":     "array",
			"items":    chartSeriesSchema(),
			"minItems": 1,
		},
		"footer_note": map[string]any{
			"type": "string",
		},
		"theme": chartThemeSchema(),
		"dynamic": map[string]any{
			"type":    "boolean",
			"default": false,
		},
		"refresh_endpoint": map[string]any{
			"type": "string",
		},
		"show_chart_title": map[string]any{
			"type":    "boolean",
			"default": false,
		},
	}
	if includeAxis {
		props["x_axis"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "string",
			},
			"default": []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		}
	}
	return map[string]any{
		"type":       "object",
		"required":   []string{"series"},
		"properties": props,
	}
}

var defaultSeedConfigs = []AddWidgetRequest{
	{DefinitionID: "admin.widget.stat_card", AreaCode: AreaStats, Configuration: map[string]any{"metric": "total_users"}},
	{DefinitionID: "admin.widget.stat_card", AreaCode: AreaStats, Configuration: map[string]any{"metric": "active_roles"}},
	{DefinitionID: "admin.widget.stat_card", AreaCode: AreaStats, Configuration: map[string]any{"metric": "api_calls"}},
	{DefinitionID: "admin.widget.stat_card", AreaCode: AreaStats, Configuration: map[string]any{"metric": "system_health"}},
	{DefinitionID: "admin.widget.xp_progress", AreaCode: AreaMain, Configuration: map[string]any{}},
	{DefinitionID: "admin.widget.streak", AreaCode: AreaMain, Configuration: map[string]any{}},
	{DefinitionID: "admin.widget.weekly_score", AreaCode: AreaMain, Configuration: map[string]any{}},
	{DefinitionID: "admin.widget.activity_heatmap", AreaCode: AreaMain, Configuration: map[string]any{"weeks": 12}},
	{DefinitionID: "admin.widget.achievements", AreaCode: AreaMain, Configuration: map[string]any{}},
	{DefinitionID: "admin.widget.security_overview", AreaCode: AreaSidebar, Configuration: map[string]any{}},
	{DefinitionID: "admin.widget.team_members", AreaCode: AreaSidebar, Configuration: map[string]any{}},
	{DefinitionID: "admin.widget.quick_actions", AreaCode: AreaFooter, Configuration: map[string]any{}},
	{DefinitionID: "admin.widget.recent_activity", AreaCode: AreaFooter, Configuration: map[string]any{"limit": 6}},
}

// DefaultAreaDefinitions returns copies of built-in area definitions.
func DefaultAreaDefinitions() []WidgetAreaDefinition {
	out := make([]WidgetAreaDefinition, len(defaultAreaDefinitions))
	copy(out, defaultAreaDefinitions)
	return out
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}

// DefaultSeedWidgets returns starter widget configurations.
func DefaultSeedWidgets() []AddWidgetRequest {
	out := make([]AddWidgetRequest, len(defaultSeedConfigs))
	for i, cfg := range defaultSeedConfigs {
		copyCfg := cfg
		if cfg.StartAt != nil {
			start := *cfg.StartAt
			copyCfg.StartAt = &start
		}
		if cfg.EndAt != nil {
			end := *cfg.EndAt
			copyCfg.EndAt = &end
		}
		out[i] = copyCfg
	}
	return out
}

// DefaultWidgetVisibility returns a permissive visibility configuration for seeds.
func DefaultWidgetVisibility() WidgetVisibility {
	now := time.Now().UTC()
	return WidgetVisibility{
		StartAt: &now,
	}
}
