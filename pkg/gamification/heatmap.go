package gamification

import (
	"fmt"
	"time"
)

// DaysPerWeek is the fixed row count of every grid column.
const DaysPerWeek = 7

// DefaultHeatmapWeeks is the trailing window shown on the overview page.
const DefaultHeatmapWeeks = 12

// MaxHeatmapWeeks is the widest window widgets and the heatmap query accept.
const MaxHeatmapWeeks = 53

// maxGridWeeks bounds BuildGrid so an oversized window fails instead of
// exhausting memory.
const maxGridWeeks = 1 << 16

// Sample is one day's activity count. Only the calendar date of Date is used.
type Sample struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Cell is a single day in the activity grid.
type Cell struct {
	Date      time.Time `json:"date"`
	Count     int       `json:"count"`
	Intensity Intensity `json:"intensity"`
}

// Tooltip renders the hover text for the cell ("12 activities · Sun, Jan 7").
func (c Cell) Tooltip() string {
	return fmt.Sprintf("%d activities · %s", c.Count, c.Date.Format("Mon, Jan 2"))
}

// Week holds seven consecutive days, oldest first.
type Week [DaysPerWeek]Cell

// Grid is a dense trailing window of weeks, oldest week first.
type Grid []Week

// Cells flattens the grid in chronological order.
func (g Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g)*DaysPerWeek)
	for _, week := range g {
		out = append(out, week[:]...)
	}
	return out
}

// Total sums every count in the grid.
func (g Grid) Total() int {
	total := 0
	for _, week := range g {
		for _, cell := range week {
			total += cell.Count
		}
	}
	return total
}

type calendarDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) calendarDay {
	y, m, d := t.Date()
	return calendarDay{year: y, month: m, day: d}
}

// BuildGrid lays samples onto a weeks×7 grid ending at end (inclusive).
//
// Days without a sample get a zero count. When two samples fall on the same
// calendar day the later one in samples wins. Each sample's day is taken in
// its own location; grid dates are midnight in end's location.
func BuildGrid(samples []Sample, weeks int, end time.Time) (Grid, error) {
	if weeks <= 0 {
		return nil, invalidArgument("window weeks must be > 0, got %d", weeks)
	}
	if weeks > maxGridWeeks {
		return nil, invalidArgument("window weeks must be <= %d, got %d", maxGridWeeks, weeks)
	}
	counts := make(map[calendarDay]int, len(samples))
	for i, sample := range samples {
		if sample.Count < 0 {
			return nil, invalidArgument("sample %d has negative count %d", i, sample.Count)
		}
		counts[dayOf(sample.Date)] = sample.Count
	}

	y, m, d := end.Date()
	loc := end.Location()
	span := weeks * DaysPerWeek
	grid := make(Grid, weeks)
	for offset := 0; offset < span; offset++ {
		date := time.Date(y, m, d-(span-1)+offset, 0, 0, 0, 0, loc)
		count := counts[dayOf(date)]
		grid[offset/DaysPerWeek][offset%DaysPerWeek] = Cell{
			Date:      date,
			Count:     count,
			Intensity: IntensityFor(count),
		}
	}
	return grid, nil
}
