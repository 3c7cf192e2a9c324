package analytics

import (
	"context"
	"time"

	dashboard "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

// NewStatsRepository adapts an analytics client into the stat card repository.
func NewStatsRepository(client StatsClient) dashboard.StatsRepository {
	return &statsRepository{client: client}
}

type statsRepository struct {
	client StatsClient
}

func (r *statsRepository) FetchStat(ctx context.Context, metric string) (dashboard.Stat, error) {
	return r.client.FetchStat(ctx, metric)
}

// NewSecurityRepository adapts the analytics client for the security widget.
func NewSecurityRepository(client SecurityClient) dashboard.SecurityRepository {
	return &securityRepository{client: client}
}

type securityRepository struct {
	client SecurityClient
}

func (r *securityRepository) FetchSecurityReport(ctx context.Context, query dashboard.SecurityQuery) (dashboard.SecurityReport, error) {
	return r.client.FetchSecurity(ctx, query)
}

// NewProgressSource adapts a member client into the gamification widgets'
// progress source. weeks sizes the history window; <= 0 selects the default
// heatmap window.
func NewProgressSource(client MemberClient, weeks int) dashboard.ProgressSource {
	if weeks <= 0 {
		weeks = gamification.DefaultHeatmapWeeks
	}
	return &progressSource{client: client, weeks: weeks}
}

type progressSource struct {
	client MemberClient
	weeks  int
}

func (p *progressSource) MemberActivity(ctx context.Context, viewer dashboard.ViewerContext, now time.Time) (dashboard.MemberActivity, error) {
	since := now.AddDate(0, 0, -(p.weeks*gamification.DaysPerWeek - 1))
	return p.client.FetchMember(ctx, viewer.UserID, since, now)
}
