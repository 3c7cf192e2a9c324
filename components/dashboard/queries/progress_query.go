package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

// ProgressInput identifies the member and the evaluation time. A zero Now
// means time.Now.
type ProgressInput struct {
	Viewer dashboard.ViewerContext
	Now    time.Time
}

// ProgressResult bundles the gamification state of one member.
type ProgressResult struct {
	Progress gamification.Progress         `json:"progress"`
	Streak   gamification.StreakState      `json:"streak"`
	Weekly   gamification.WeeklyScoreView  `json:"weekly"`
	Board    gamification.AchievementBoard `json:"achievements"`
}

// HeatmapInput selects the window of the activity grid.
type HeatmapInput struct {
	Viewer dashboard.ViewerContext
	Weeks  int
	End    time.Time
}

// ProgressQuery computes level progress, streak, weekly score and
// achievements from a ProgressSource.
type ProgressQuery struct {
	source       dashboard.ProgressSource
	levels       []gamification.Level
	achievements []gamification.Achievement
}

// NewProgressQuery builds the query over the given level and achievement tables.
func NewProgressQuery(source dashboard.ProgressSource, levels []gamification.Level, achievements []gamification.Achievement) *ProgressQuery {
	return &ProgressQuery{source: source, levels: levels, achievements: achievements}
}

var _ gocommand.Querier[ProgressInput, ProgressResult] = (*ProgressQuery)(nil)

func (q *ProgressQuery) Query(ctx context.Context, input ProgressInput) (ProgressResult, error) {
	if q.source == nil {
		return ProgressResult{}, errors.New("progress query requires source")
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	member, err := q.source.MemberActivity(ctx, input.Viewer, now)
	if err != nil {
		return ProgressResult{}, err
	}
	progress, err := gamification.ComputeProgress(member.Points, q.levels)
	if err != nil {
		return ProgressResult{}, err
	}
	streak, err := gamification.Streak(member.StreakDays)
	if err != nil {
		return ProgressResult{}, err
	}
	return ProgressResult{
		Progress: progress,
		Streak:   streak,
		Weekly:   member.Weekly.Evaluate(),
		Board:    gamification.Board(q.achievements, member.Unlocked),
	}, nil
}

// HeatmapQuery builds the activity grid for a member.
type HeatmapQuery struct {
	source dashboard.ProgressSource
}

// NewHeatmapQuery builds the query.
func NewHeatmapQuery(source dashboard.ProgressSource) *HeatmapQuery {
	return &HeatmapQuery{source: source}
}

var _ gocommand.Querier[HeatmapInput, gamification.Grid] = (*HeatmapQuery)(nil)

// Query returns Weeks columns ending on End. Zero Weeks selects the default
// window; negative values and values above gamification.MaxHeatmapWeeks are
// rejected with gamification.ErrInvalidArgument.
func (q *HeatmapQuery) Query(ctx context.Context, input HeatmapInput) (gamification.Grid, error) {
	if q.source == nil {
		return nil, errors.New("heatmap query requires source")
	}
	end := input.End
	if end.IsZero() {
		end = time.Now()
	}
	weeks := input.Weeks
	switch {
	case weeks == 0:
		weeks = gamification.DefaultHeatmapWeeks
	case weeks < 0 || weeks > gamification.MaxHeatmapWeeks:
		return nil, fmt.Errorf("heatmap weeks must be between 1 and %d, got %d: %w",
			gamification.MaxHeatmapWeeks, weeks, gamification.ErrInvalidArgument)
	}
	member, err := q.source.MemberActivity(ctx, input.Viewer, end)
	if err != nil {
		return nil, err
	}
	return gamification.BuildGrid(member.Samples, weeks, end)
}
