package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/brand"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

var inspectNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func TestRenderProgress(t *testing.T) {
	progress, err := gamification.ComputeProgress(847, gamification.DefaultLevels())
	require.NoError(t, err)

	out := renderProgress(progress, 20)
	assert.Contains(t, out, "Level 4 · Expert")
	assert.Contains(t, out, "847 XP")
	assert.Contains(t, out, "153 XP to Master")
	assert.Equal(t, 20, strings.Count(out, "█")+strings.Count(out, "░"))
}

func TestRenderProgressMaxLevel(t *testing.T) {
	progress, err := gamification.ComputeProgress(2500, gamification.DefaultLevels())
	require.NoError(t, err)
	out := renderProgress(progress, 0)
	assert.Contains(t, out, "2,500 XP")
	assert.Contains(t, out, "Max level reached")
}

func TestRenderHeatmapRows(t *testing.T) {
	samples := []gamification.Sample{
		{Date: inspectNow, Count: 12},
		{Date: inspectNow.AddDate(0, 0, -1), Count: 4},
	}
	grid, err := gamification.BuildGrid(samples, 4, inspectNow)
	require.NoError(t, err)

	lines := strings.Split(renderHeatmap(grid), "\n")
	require.GreaterOrEqual(t, len(lines), gamification.DaysPerWeek)
	cells := 0
	for _, line := range lines[:gamification.DaysPerWeek] {
		for _, g := range intensityGlyphs {
			cells += strings.Count(line, g)
		}
	}
	assert.Equal(t, 4*gamification.DaysPerWeek, cells)
	assert.Contains(t, renderHeatmap(grid), "16 activities in the last 4 weeks")
	assert.Contains(t, renderHeatmap(grid), "10+ activities")
}

func TestRenderHeatmapEmpty(t *testing.T) {
	assert.Contains(t, renderHeatmap(nil), "no activity window")
}

func TestInspectPrintsDemoMember(t *testing.T) {
	var buf bytes.Buffer
	cmd := &inspectCmd{User: "alex", out: &buf, clock: func() time.Time { return inspectNow }}
	require.NoError(t, cmd.print(context.Background(), dashboard.NewDemoProgressSource(), brand.Default(), 4))

	out := buf.String()
	assert.Contains(t, out, "alex")
	assert.Contains(t, out, "Expert")
	assert.Contains(t, out, "12 days streak")
	assert.Contains(t, out, "in the last 4 weeks")
}

func TestInspectPointsOverride(t *testing.T) {
	var buf bytes.Buffer
	points := 320
	cmd := &inspectCmd{User: "sam", Points: &points, out: &buf, clock: func() time.Time { return inspectNow }}
	require.NoError(t, cmd.print(context.Background(), dashboard.NewDemoProgressSource(), brand.Default(), 2))
	assert.Contains(t, buf.String(), "Contributor")
	assert.Contains(t, buf.String(), "280 XP to Expert")
}

func TestInspectRejectsNegativePoints(t *testing.T) {
	points := -5
	cmd := &inspectCmd{User: "sam", Points: &points, out: &bytes.Buffer{}, clock: func() time.Time { return inspectNow }}
	err := cmd.print(context.Background(), dashboard.NewDemoProgressSource(), brand.Default(), 2)
	assert.ErrorIs(t, err, gamification.ErrInvalidArgument)
}
