package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

const progressBarWidth = 32

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4C1D95")).
			Padding(0, 1)
	streakStyles = map[gamification.StreakTier]lipgloss.Style{
		gamification.StreakNone:   mutedStyle,
		gamification.StreakActive: lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
		gamification.StreakHot:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")),
		gamification.StreakOnFire: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
	}
)

// Indexed by gamification.Intensity.
var (
	intensityGlyphs = [...]string{"·", "░", "▒", "▓", "█"}
	intensityStyles = [...]lipgloss.Style{
		mutedStyle,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#4C1D95")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#6D28D9")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#C4B5FD")),
	}
)

func renderProgress(p gamification.Progress, width int) string {
	if width <= 0 {
		width = progressBarWidth
	}
	filled := int(math.Round(p.Fraction * float64(width)))
	if filled > width {
		filled = width
	}
	bar := barStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))

	header := titleStyle.Render(fmt.Sprintf("%s Level %d · %s", p.Current.Badge, p.Current.Number, p.Current.Name))
	next := "Max level reached"
	if p.Next != nil {
		next = fmt.Sprintf("%s XP to %s", humanize.Comma(int64(p.PointsToNext)), p.Next.Name)
	}
	detail := mutedStyle.Render(fmt.Sprintf("%s XP · %s", humanize.Comma(int64(p.Total)), next))
	return lipgloss.JoinVertical(lipgloss.Left, header, bar, detail)
}

func renderStreak(s gamification.StreakState) string {
	style, ok := streakStyles[s.Tier]
	if !ok {
		style = mutedStyle
	}
	return style.Render(fmt.Sprintf("🔥 %s (%s)", s.Label, s.Tier))
}

// renderHeatmap draws one row per weekday with the oldest week on the left.
func renderHeatmap(grid gamification.Grid) string {
	if len(grid) == 0 {
		return mutedStyle.Render("no activity window")
	}
	rows := make([]string, 0, gamification.DaysPerWeek+2)
	for day := 0; day < gamification.DaysPerWeek; day++ {
		var b strings.Builder
		b.WriteString(mutedStyle.Render(grid[0][day].Date.Format("Mon")))
		for _, week := range grid {
			cell := week[day]
			b.WriteByte(' ')
			b.WriteString(glyph(cell.Intensity))
		}
		rows = append(rows, b.String())
	}

	legend := make([]string, 0, len(intensityGlyphs))
	for _, level := range gamification.Intensities() {
		legend = append(legend, glyph(level)+" "+level.Legend())
	}
	rows = append(rows, "", mutedStyle.Render("Less ")+strings.Join(legend, "  ")+mutedStyle.Render(" More"))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("%s activities in the last %d weeks", humanize.Comma(int64(grid.Total())), len(grid))))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func glyph(level gamification.Intensity) string {
	if !level.Valid() {
		level = gamification.IntensityNone
	}
	return intensityStyles[level].Render(intensityGlyphs[level])
}

func renderMember(name string, p gamification.Progress, s gamification.StreakState, grid gamification.Grid) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(name),
		"",
		renderProgress(p, progressBarWidth),
		renderStreak(s),
		"",
		renderHeatmap(grid),
	)
	return boxStyle.Render(body)
}
