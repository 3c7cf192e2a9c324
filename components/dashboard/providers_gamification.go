package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/goliatone/go-nexus/pkg/brand"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

// GamificationProviders renders the member progress widgets from a single
// ProgressSource and the brand's level and achievement tables.
type GamificationProviders struct {
	source  ProgressSource
	brand   brand.Config
	weeks   int
	gauge   *EChartsProvider
	heatmap *EChartsProvider
}

// NewGamificationProviders builds the provider set. weeks <= 0 selects the
// default heatmap window; larger windows are clamped to
// gamification.MaxHeatmapWeeks.
func NewGamificationProviders(source ProgressSource, cfg brand.Config, weeks int, chartOpts ...EChartsProviderOption) *GamificationProviders {
	if source == nil {
		source = NewDemoProgressSource()
	}
	if weeks <= 0 {
		weeks = gamification.DefaultHeatmapWeeks
	}
	weeks = min(weeks, gamification.MaxHeatmapWeeks)
	return &GamificationProviders{
		source:  source,
		brand:   cfg,
		weeks:   weeks,
		gauge:   NewEChartsProvider("gauge", chartOpts...),
		heatmap: NewEChartsProvider("heatmap", chartOpts...),
	}
}

func (g *GamificationProviders) activity(ctx context.Context, meta WidgetContext) (MemberActivity, time.Time, error) {
	now := meta.Now
	if now.IsZero() {
		now = time.Now()
	}
	member, err := g.source.MemberActivity(ctx, meta.Viewer, now)
	return member, now, err
}

// Progress renders the level bar.
func (g *GamificationProviders) Progress() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		member, _, err := g.activity(ctx, meta)
		if err != nil {
			return nil, err
		}
		progress, err := g.brand.Progress(member.Points)
		if err != nil {
			return nil, err
		}
		data := WidgetData{
			"title":       translateOrFallback(ctx, meta.Translator, "dashboard.widget.xp_progress.title", meta.Viewer.Locale, "Your Progress", nil),
			"level":       progress.Current.Number,
			"level_name":  progress.Current.Name,
			"badge":       progress.Current.Badge,
			"level_label": fmt.Sprintf("Level %d · %s", progress.Current.Number, progress.Current.Name),
			"total":       progress.Total,
			"total_label": humanize.Comma(int64(progress.Total)) + " XP",
			"percent":     progress.Percent(),
			"width":       strconv.FormatFloat(progress.Percent(), 'f', 1, 64) + "%",
			"has_next":    progress.HasNext(),
			"remaining":   progress.PointsRemaining(),
		}
		if progress.Next != nil {
			data["next_level_name"] = progress.Next.Name
			data["next_badge"] = progress.Next.Badge
			data["remaining_label"] = fmt.Sprintf("%s XP to %s", humanize.Comma(int64(progress.PointsRemaining())), progress.Next.Name)
		} else {
			data["remaining_label"] = translateOrFallback(ctx, meta.Translator, "dashboard.widget.xp_progress.max_level", meta.Viewer.Locale, "Max level reached", nil)
		}
		return data, nil
	})
}

// Streak renders the consecutive-day badge.
func (g *GamificationProviders) Streak() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		member, _, err := g.activity(ctx, meta)
		if err != nil {
			return nil, err
		}
		streak, err := gamification.Streak(member.StreakDays)
		if err != nil {
			return nil, err
		}
		return WidgetData{
			"days":  streak.Days,
			"tier":  streak.Tier.String(),
			"class": streak.Tier.Class(),
			"label": streak.Label,
		}, nil
	})
}

// WeeklyScore renders the productivity ring, optionally with a gauge chart.
func (g *GamificationProviders) WeeklyScore() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		member, _, err := g.activity(ctx, meta)
		if err != nil {
			return nil, err
		}
		view := member.Weekly.Evaluate()
		title := translateOrFallback(ctx, meta.Translator, "dashboard.widget.weekly_score.title", meta.Viewer.Locale, "Productivity Score", nil)
		data := WidgetData{
			"title":        title,
			"score":        view.Score,
			"max":          view.Max,
			"percent":      view.Percent,
			"change":       view.Change,
			"change_label": view.ChangeLabel,
			"trend":        string(view.Trend),
			"tone":         string(view.Tone),
			"text_class":   view.Tone.TextClass(),
			"ring":         view.Ring,
		}
		if boolValue(meta.Instance.Configuration["chart"]) {
			chart, err := renderGauge(ctx, g.gauge, meta, title, "Score", view.Percent)
			if err != nil {
				return nil, err
			}
			data["chart_html"] = chart
		}
		return data, nil
	})
}

// Heatmap renders the activity grid, optionally with an ECharts heatmap.
func (g *GamificationProviders) Heatmap() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		member, now, err := g.activity(ctx, meta)
		if err != nil {
			return nil, err
		}
		weeks := intOr(meta.Instance.Configuration["weeks"], g.weeks)
		grid, err := gamification.BuildGrid(member.Samples, weeks, now)
		if err != nil {
			return nil, err
		}
		title := translateOrFallback(ctx, meta.Translator, "dashboard.widget.activity_heatmap.title", meta.Viewer.Locale, "Activity Overview", nil)
		data := WidgetData{
			"title":      title,
			"weeks":      heatmapWeeks(grid),
			"day_labels": heatmapDayLabels(grid),
			"legend":     heatmapLegend(),
			"total":      grid.Total(),
			"summary":    fmt.Sprintf("%s activities in the last %d weeks", humanize.Comma(int64(grid.Total())), len(grid)),
		}
		if boolValue(meta.Instance.Configuration["chart"]) {
			chart, err := renderHeatmap(ctx, g.heatmap, meta, title, grid)
			if err != nil {
				return nil, err
			}
			data["chart_html"] = chart
		}
		return data, nil
	})
}

// Achievements renders the badge board.
func (g *GamificationProviders) Achievements() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		member, _, err := g.activity(ctx, meta)
		if err != nil {
			return nil, err
		}
		board := gamification.Board(g.brand.Achievements, member.Unlocked)
		items := make([]map[string]any, 0, len(board.Items))
		for _, item := range board.Items {
			items = append(items, map[string]any{
				"id":       item.ID,
				"name":     item.Name,
				"icon":     item.Icon,
				"xp":       item.XP,
				"unlocked": item.Unlocked,
				"tooltip":  item.Tooltip(),
			})
		}
		return WidgetData{
			"title":     translateOrFallback(ctx, meta.Translator, "dashboard.widget.achievements.title", meta.Viewer.Locale, "Achievements", nil),
			"summary":   board.Summary(),
			"unlocked":  board.Unlocked,
			"total":     board.Total,
			"earned_xp": board.EarnedXP,
			"items":     items,
		}, nil
	})
}

func heatmapWeeks(grid gamification.Grid) []map[string]any {
	weeks := make([]map[string]any, 0, len(grid))
	for _, week := range grid {
		cells := make([]map[string]any, 0, len(week))
		for _, cell := range week {
			cells = append(cells, map[string]any{
				"date":      cell.Date.Format("2006-01-02"),
				"count":     cell.Count,
				"intensity": int(cell.Intensity),
				"class":     cell.Intensity.Class(),
				"tooltip":   cell.Tooltip(),
			})
		}
		weeks = append(weeks, map[string]any{"cells": cells})
	}
	return weeks
}

// heatmapDayLabels names each grid row by its weekday initial; even rows are
// left blank to keep the column readable.
func heatmapDayLabels(grid gamification.Grid) []string {
	labels := make([]string, gamification.DaysPerWeek)
	if len(grid) == 0 {
		return labels
	}
	for i, cell := range grid[0] {
		if i%2 == 1 {
			labels[i] = cell.Date.Weekday().String()[:1]
		}
	}
	return labels
}

func heatmapLegend() []map[string]any {
	buckets := gamification.Intensities()
	legend := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		legend = append(legend, map[string]any{
			"class": b.Class(),
			"label": b.Legend(),
		})
	}
	return legend
}
