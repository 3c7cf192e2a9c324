package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/analytics"
	"github.com/goliatone/go-nexus/pkg/brand"
	"github.com/goliatone/go-nexus/pkg/config"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

type inspectCmd struct {
	User   string `default:"alex" help:"Member to inspect."`
	Points *int   `help:"Override the member's XP total."`
	Weeks  int    `help:"Heatmap window in weeks (defaults to NEXUS_HEATMAP_WEEKS)."`

	out   io.Writer        `kong:"-"`
	clock func() time.Time `kong:"-"`
}

func (cmd *inspectCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := config.Load(root.EnvFile...)
	if err != nil {
		return err
	}
	brandCfg, err := brand.LoadFile(cfg.BrandFile)
	if err != nil {
		return err
	}
	weeks := cmd.Weeks
	if weeks <= 0 {
		weeks = cfg.HeatmapWeeks
	}
	source, err := progressSource(cfg, weeks)
	if err != nil {
		return err
	}
	return cmd.print(ctx, source, brandCfg, weeks)
}

func (cmd *inspectCmd) print(ctx context.Context, source dashboard.ProgressSource, brandCfg brand.Config, weeks int) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	now := time.Now()
	if cmd.clock != nil {
		now = cmd.clock()
	}

	member, err := source.MemberActivity(ctx, dashboard.ViewerContext{UserID: cmd.User}, now)
	if err != nil {
		return fmt.Errorf("nexus: load member %q: %w", cmd.User, err)
	}
	if cmd.Points != nil {
		member.Points = *cmd.Points
	}
	progress, err := brandCfg.Progress(member.Points)
	if err != nil {
		return err
	}
	streak, err := gamification.Streak(member.StreakDays)
	if err != nil {
		return err
	}
	grid, err := gamification.BuildGrid(member.Samples, weeks, now)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, renderMember(cmd.User, progress, streak, grid))
	return err
}

func progressSource(cfg config.Config, weeks int) (dashboard.ProgressSource, error) {
	if cfg.AnalyticsURL == "" {
		return dashboard.NewDemoProgressSource(), nil
	}
	client, err := analyticsClient(cfg)
	if err != nil {
		return nil, err
	}
	return analytics.NewProgressSource(client, weeks), nil
}
