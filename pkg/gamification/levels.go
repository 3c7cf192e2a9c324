package gamification

// Level is a breakpoint in the level table: the minimum cumulative points a
// member needs to reach it.
type Level struct {
	Number        int    `json:"level" yaml:"level"`
	Name          string `json:"name" yaml:"name"`
	MinimumPoints int    `json:"xp_required" yaml:"xp_required"`
	Badge         string `json:"badge" yaml:"badge"`
}

// Progress is derived from a point total and a level table. It is never stored.
type Progress struct {
	Total           int     `json:"total"`
	Current         Level   `json:"current"`
	Next            *Level  `json:"next,omitempty"`
	PointsIntoLevel int     `json:"points_into_level"`
	PointsToNext    int     `json:"points_to_next,omitempty"`
	Fraction        float64 `json:"fraction"`
}

var defaultLevels = []Level{
	{Number: 1, Name: "Newcomer", MinimumPoints: 0, Badge: "🌱"},
	{Number: 2, Name: "Explorer", MinimumPoints: 100, Badge: "🔍"},
	{Number: 3, Name: "Contributor", MinimumPoints: 300, Badge: "⭐"},
	{Number: 4, Name: "Expert", MinimumPoints: 600, Badge: "🏆"},
	{Number: 5, Name: "Master", MinimumPoints: 1000, Badge: "👑"},
	{Number: 6, Name: "Legend", MinimumPoints: 2000, Badge: "🌟"},
}

// DefaultLevels returns a copy of the built-in level table.
func DefaultLevels() []Level {
	out := make([]Level, len(defaultLevels))
	copy(out, defaultLevels)
	return out
}

// ValidateLevels checks the invariants every level table must satisfy: at
// least one entry, a zero floor, and strictly increasing numbers and points.
func ValidateLevels(levels []Level) error {
	if len(levels) == 0 {
		return invalidArgument("level table is empty")
	}
	if levels[0].MinimumPoints != 0 {
		return invalidArgument("first level must require 0 points, got %d", levels[0].MinimumPoints)
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if cur.Number <= prev.Number {
			return invalidArgument("level numbers must increase (%d after %d)", cur.Number, prev.Number)
		}
		if cur.MinimumPoints <= prev.MinimumPoints {
			return invalidArgument("level %d must require more than %d points", cur.Number, prev.MinimumPoints)
		}
	}
	return nil
}

// ComputeProgress resolves the current level for total and how far along the
// member is toward the next one.
//
// The current level is the entry with the greatest minimum not exceeding
// total. The fraction is clamped to [0,1] and is 1 on the last level.
func ComputeProgress(total int, levels []Level) (Progress, error) {
	if total < 0 {
		return Progress{}, invalidArgument("total points must be >= 0, got %d", total)
	}
	if len(levels) == 0 {
		return Progress{}, invalidArgument("level table is empty")
	}

	idx := -1
	for i, level := range levels {
		if level.MinimumPoints > total {
			continue
		}
		if idx < 0 || level.MinimumPoints >= levels[idx].MinimumPoints {
			idx = i
		}
	}
	if idx < 0 {
		idx = 0
	}
	current := levels[idx]
	progress := Progress{
		Total:           total,
		Current:         current,
		PointsIntoLevel: total - current.MinimumPoints,
		Fraction:        1,
	}
	if idx+1 >= len(levels) {
		return progress, nil
	}

	next := levels[idx+1]
	progress.Next = &next
	progress.PointsToNext = next.MinimumPoints - current.MinimumPoints
	if progress.PointsToNext > 0 {
		progress.Fraction = clamp01(float64(progress.PointsIntoLevel) / float64(progress.PointsToNext))
	}
	return progress, nil
}

// HasNext reports whether a level exists above the current one.
func (p Progress) HasNext() bool {
	return p.Next != nil
}

// PointsRemaining is the distance from the total to the next level's minimum.
func (p Progress) PointsRemaining() int {
	if p.Next == nil {
		return 0
	}
	if remaining := p.Next.MinimumPoints - p.Total; remaining > 0 {
		return remaining
	}
	return 0
}

// Percent returns the fraction scaled to 0..100.
func (p Progress) Percent() float64 {
	return p.Fraction * 100
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
