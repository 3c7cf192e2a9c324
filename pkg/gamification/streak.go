package gamification

import "fmt"

// StreakTier classifies a consecutive-day streak.
type StreakTier int

const (
	StreakNone StreakTier = iota
	StreakActive
	StreakHot
	StreakOnFire
)

var streakTiers = [...]struct {
	name  string
	class string
}{
	StreakNone:   {name: "none", class: "bg-muted"},
	StreakActive: {name: "active", class: "bg-accent/20"},
	StreakHot:    {name: "hot", class: "bg-gradient-to-br from-orange-400 to-amber-500"},
	StreakOnFire: {name: "on_fire", class: "bg-gradient-to-br from-orange-500 to-red-500"},
}

func (t StreakTier) String() string {
	if t < StreakNone || t > StreakOnFire {
		return "unknown"
	}
	return streakTiers[t].name
}

// Class returns the CSS class for the streak badge.
func (t StreakTier) Class() string {
	if t < StreakNone || t > StreakOnFire {
		return ""
	}
	return streakTiers[t].class
}

// MarshalText encodes the tier by name.
func (t StreakTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// StreakState is the view of a login streak.
type StreakState struct {
	Days  int        `json:"days"`
	Tier  StreakTier `json:"tier"`
	Label string     `json:"label"`
}

// Streak classifies days: 0 none, 1-6 active, 7-29 hot, 30+ on fire.
func Streak(days int) (StreakState, error) {
	if days < 0 {
		return StreakState{}, invalidArgument("streak days must be >= 0, got %d", days)
	}
	tier := StreakNone
	switch {
	case days >= 30:
		tier = StreakOnFire
	case days >= 7:
		tier = StreakHot
	case days > 0:
		tier = StreakActive
	}
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return StreakState{
		Days:  days,
		Tier:  tier,
		Label: fmt.Sprintf("%d %s streak", days, unit),
	}, nil
}
