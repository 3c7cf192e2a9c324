package gamification

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildGridSingleWeek(t *testing.T) {
	end := day(2024, time.January, 7)
	grid, err := BuildGrid([]Sample{{Date: end, Count: 12}}, 1, end)
	require.NoError(t, err)
	require.Len(t, grid, 1)

	week := grid[0]
	for i := 0; i < 6; i++ {
		assert.Equal(t, 0, week[i].Count, "cell %d", i)
		assert.Equal(t, IntensityNone, week[i].Intensity, "cell %d", i)
	}
	assert.Equal(t, 12, week[6].Count)
	assert.Equal(t, IntensityMax, week[6].Intensity)
	assert.True(t, week[0].Date.Equal(day(2024, time.January, 1)))
	assert.True(t, week[6].Date.Equal(end))
}

func TestBuildGridLastSampleWinsOnDuplicateDates(t *testing.T) {
	end := day(2024, time.March, 10)
	samples := []Sample{
		{Date: end.Add(2 * time.Hour), Count: 2},
		{Date: end.Add(9 * time.Hour), Count: 7},
	}
	grid, err := BuildGrid(samples, 2, end)
	require.NoError(t, err)
	assert.Equal(t, 7, grid[1][6].Count)
	assert.Equal(t, IntensityHigh, grid[1][6].Intensity)

	reversed := []Sample{samples[1], samples[0]}
	grid, err = BuildGrid(reversed, 2, end)
	require.NoError(t, err)
	assert.Equal(t, 2, grid[1][6].Count)
}

func TestBuildGridIgnoresTimeOfDayAndOutOfWindow(t *testing.T) {
	east := time.FixedZone("UTC-5", -5*3600)
	end := day(2024, time.January, 7)
	samples := []Sample{
		{Date: time.Date(2024, time.January, 7, 23, 30, 0, 0, east), Count: 4},
		{Date: day(2023, time.December, 31), Count: 9},
		{Date: day(2024, time.January, 8), Count: 9},
	}
	grid, err := BuildGrid(samples, 1, end)
	require.NoError(t, err)
	assert.Equal(t, 4, grid[0][6].Count)
	assert.Equal(t, 4, grid.Total())
}

func TestBuildGridRejectsBadInput(t *testing.T) {
	_, err := BuildGrid(nil, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = BuildGrid(nil, -3, time.Now())
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = BuildGrid([]Sample{{Date: time.Now(), Count: -1}}, 1, time.Now())
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuildGridRejectsOversizedWindow(t *testing.T) {
	for _, weeks := range []int{maxGridWeeks + 1, 1 << 60, math.MaxInt} {
		require.NotPanics(t, func() {
			_, err := BuildGrid(nil, weeks, time.Now())
			assert.ErrorIs(t, err, ErrInvalidArgument, "weeks=%d", weeks)
		})
	}
	grid, err := BuildGrid(nil, MaxHeatmapWeeks, time.Now())
	require.NoError(t, err)
	assert.Len(t, grid, MaxHeatmapWeeks)
}

func TestBuildGridCrossesMonthBoundary(t *testing.T) {
	end := day(2024, time.March, 2)
	grid, err := BuildGrid(nil, 1, end)
	require.NoError(t, err)
	assert.True(t, grid[0][0].Date.Equal(day(2024, time.February, 25)))
	assert.True(t, grid[0][4].Date.Equal(day(2024, time.February, 29)))
}

func TestIntensityFor(t *testing.T) {
	cases := []struct {
		count int
		want  Intensity
	}{
		{0, IntensityNone},
		{1, IntensityLow},
		{2, IntensityLow},
		{3, IntensityMedium},
		{5, IntensityMedium},
		{6, IntensityHigh},
		{9, IntensityHigh},
		{10, IntensityMax},
		{250, IntensityMax},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IntensityFor(tc.count), "count %d", tc.count)
	}
	assert.Equal(t, "bg-muted", IntensityNone.Class())
	assert.Equal(t, "10+ activities", IntensityMax.Legend())
	assert.Len(t, Intensities(), 5)
}

func TestCellTooltip(t *testing.T) {
	cell := Cell{Date: day(2024, time.January, 7), Count: 12}
	assert.Equal(t, "12 activities · Sun, Jan 7", cell.Tooltip())
}

func TestGridProperties(t *testing.T) {
	end := day(2024, time.June, 30)
	sampleGen := rapid.Custom(func(rt *rapid.T) Sample {
		back := rapid.IntRange(0, 400).Draw(rt, "back")
		return Sample{
			Date:  end.AddDate(0, 0, -back),
			Count: rapid.IntRange(0, 30).Draw(rt, "count"),
		}
	})

	t.Run("dense regardless of sparsity", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			weeks := rapid.IntRange(1, 60).Draw(rt, "weeks")
			samples := rapid.SliceOfN(sampleGen, 0, 50).Draw(rt, "samples")
			grid, err := BuildGrid(samples, weeks, end)
			if err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}
			if len(grid) != weeks || len(grid.Cells()) != weeks*DaysPerWeek {
				rt.Fatalf("expected %d weeks, got %d", weeks, len(grid))
			}
			cells := grid.Cells()
			for i := 1; i < len(cells); i++ {
				if !cells[i].Date.Equal(cells[i-1].Date.AddDate(0, 0, 1)) {
					rt.Fatalf("cells %d and %d are not consecutive", i-1, i)
				}
			}
			if !cells[len(cells)-1].Date.Equal(end) {
				rt.Fatalf("last cell %v is not the end date", cells[len(cells)-1].Date)
			}
		})
	})

	t.Run("no samples means empty grid", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			weeks := rapid.IntRange(1, 30).Draw(rt, "weeks")
			grid, _ := BuildGrid(nil, weeks, end)
			for _, cell := range grid.Cells() {
				if cell.Count != 0 || cell.Intensity != IntensityNone {
					rt.Fatalf("expected empty cell, got %+v", cell)
				}
			}
		})
	})

	t.Run("end date sample lands in the last cell", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			weeks := rapid.IntRange(1, 30).Draw(rt, "weeks")
			grid, _ := BuildGrid([]Sample{{Date: end, Count: 10}}, weeks, end)
			last := grid[len(grid)-1][DaysPerWeek-1]
			if last.Count != 10 || last.Intensity != IntensityMax {
				rt.Fatalf("unexpected last cell %+v", last)
			}
		})
	})

	t.Run("pure", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			samples := rapid.SliceOfN(sampleGen, 0, 30).Draw(rt, "samples")
			first, _ := BuildGrid(samples, 12, end)
			second, _ := BuildGrid(samples, 12, end)
			if diff := cmp.Diff(first, second); diff != "" {
				rt.Fatalf("grids differ (-first +second):\n%s", diff)
			}
		})
	})
}
