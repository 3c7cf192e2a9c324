package gamification

import (
	"fmt"
	"time"
)

// Achievement is an unlockable badge worth a fixed amount of XP.
type Achievement struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	XP          int    `json:"xp" yaml:"xp"`
	Icon        string `json:"icon" yaml:"icon"`
}

var defaultAchievements = []Achievement{
	{ID: "first_login", Name: "First Steps", Description: "Log in for the first time", XP: 10, Icon: "🚀"},
	{ID: "streak_7", Name: "Week Warrior", Description: "7-day login streak", XP: 50, Icon: "🔥"},
	{ID: "streak_30", Name: "Monthly Master", Description: "30-day login streak", XP: 200, Icon: "⚡"},
	{ID: "records_100", Name: "Data Dynamo", Description: "Create 100 records", XP: 100, Icon: "📊"},
	{ID: "team_5", Name: "Team Builder", Description: "Invite 5 team members", XP: 150, Icon: "👥"},
	{ID: "security_pro", Name: "Security Pro", Description: "Enable 2FA", XP: 75, Icon: "🛡️"},
}

// DefaultAchievements returns a copy of the built-in achievement catalogue.
func DefaultAchievements() []Achievement {
	out := make([]Achievement, len(defaultAchievements))
	copy(out, defaultAchievements)
	return out
}

// AchievementStatus pairs a catalogue entry with the member's unlock state.
type AchievementStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Tooltip mirrors the badge hover text.
func (s AchievementStatus) Tooltip() string {
	text := fmt.Sprintf("%s: %s (+%d XP)", s.Name, s.Description, s.XP)
	if s.Unlocked && s.UnlockedAt != nil {
		text += " · Unlocked " + s.UnlockedAt.Format("Jan 2, 2006")
	}
	return text
}

// AchievementBoard is the catalogue annotated with unlocks.
type AchievementBoard struct {
	Items    []AchievementStatus `json:"items"`
	Unlocked int                 `json:"unlocked"`
	Total    int                 `json:"total"`
	EarnedXP int                 `json:"earned_xp"`
}

// Summary returns "k / n unlocked".
func (b AchievementBoard) Summary() string {
	return fmt.Sprintf("%d / %d unlocked", b.Unlocked, b.Total)
}

// Board annotates catalogue with the unlocked ids. Unknown ids are ignored.
func Board(catalogue []Achievement, unlocked map[string]time.Time) AchievementBoard {
	board := AchievementBoard{
		Items: make([]AchievementStatus, 0, len(catalogue)),
		Total: len(catalogue),
	}
	for _, a := range catalogue {
		status := AchievementStatus{Achievement: a}
		if at, ok := unlocked[a.ID]; ok {
			status.Unlocked = true
			if !at.IsZero() {
				status.UnlockedAt = &at
			}
			board.Unlocked++
			board.EarnedXP += a.XP
		}
		board.Items = append(board.Items, status)
	}
	return board
}
