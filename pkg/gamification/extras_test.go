package gamification

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakTiers(t *testing.T) {
	cases := []struct {
		days  int
		tier  StreakTier
		label string
	}{
		{0, StreakNone, "0 days streak"},
		{1, StreakActive, "1 day streak"},
		{6, StreakActive, "6 days streak"},
		{7, StreakHot, "7 days streak"},
		{29, StreakHot, "29 days streak"},
		{30, StreakOnFire, "30 days streak"},
	}
	for _, tc := range cases {
		state, err := Streak(tc.days)
		require.NoError(t, err)
		assert.Equal(t, tc.tier, state.Tier, "days %d", tc.days)
		assert.Equal(t, tc.label, state.Label)
	}
	_, err := Streak(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	text, _ := StreakOnFire.MarshalText()
	assert.Equal(t, "on_fire", string(text))
}

func TestWeeklyScoreEvaluate(t *testing.T) {
	view := WeeklyScore{Score: 78, Previous: 65}.Evaluate()
	assert.Equal(t, 100, view.Max)
	assert.InDelta(t, 78.0, view.Percent, 1e-9)
	assert.Equal(t, 13, view.Change)
	assert.InDelta(t, 20.0, view.ChangePercent, 1e-9)
	assert.Equal(t, "+20.0%", view.ChangeLabel)
	assert.Equal(t, TonePrimary, view.Tone)
	assert.Equal(t, TrendUp, view.Trend)
	assert.InDelta(t, 45.0, view.Ring.Radius, 1e-9)

	down := WeeklyScore{Score: 30, Previous: 45}.Evaluate()
	assert.Equal(t, TrendDown, down.Trend)
	assert.Equal(t, ToneDestructive, down.Tone)
	assert.Equal(t, "-33.3%", down.ChangeLabel)

	fresh := WeeklyScore{Score: 50, Previous: 0}.Evaluate()
	assert.Equal(t, 0.0, fresh.ChangePercent)
	assert.Equal(t, ToneWarning, fresh.Tone)

	over := WeeklyScore{Score: 140, Previous: 140, Max: 120}.Evaluate()
	assert.Equal(t, 100.0, over.Percent)
	assert.Equal(t, TrendFlat, over.Trend)
	assert.Equal(t, ToneSuccess, over.Tone)
}

func TestRingGeometry(t *testing.T) {
	r := NewRing(78, 100, 80, 6)
	assert.InDelta(t, 37.0, r.Radius, 1e-9)
	assert.InDelta(t, 2*math.Pi*37, r.Circumference, 1e-9)
	assert.InDelta(t, r.Circumference*0.22, r.DashOffset, 1e-9)
	assert.Equal(t, 40.0, r.Center())

	full := NewRing(150, 100, 80, 6)
	assert.Equal(t, 100.0, full.Percent)
	assert.InDelta(t, 0, full.DashOffset, 1e-9)

	empty := NewRing(10, 0, 80, 6)
	assert.Equal(t, 0.0, empty.Percent)
	assert.InDelta(t, empty.Circumference, empty.DashOffset, 1e-9)

	assert.Equal(t, ToneWarning, r.WithTone(SecurityTone(78)).Tone)
	assert.Equal(t, "stroke-warning", ToneWarning.StrokeClass())
	assert.Equal(t, "text-muted-foreground", ToneMuted.TextClass())
}

func TestAchievementBoard(t *testing.T) {
	unlockedAt := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	board := Board(DefaultAchievements(), map[string]time.Time{
		"first_login":  unlockedAt,
		"streak_7":     {},
		"security_pro": unlockedAt,
		"not_a_badge":  unlockedAt,
	})
	assert.Equal(t, 3, board.Unlocked)
	assert.Equal(t, 6, board.Total)
	assert.Equal(t, 10+50+75, board.EarnedXP)
	assert.Equal(t, "3 / 6 unlocked", board.Summary())
	assert.Nil(t, board.Items[1].UnlockedAt)
	assert.Equal(t, "First Steps: Log in for the first time (+10 XP) · Unlocked May 3, 2024", board.Items[0].Tooltip())
	assert.False(t, board.Items[2].Unlocked)
}

func TestXPTableAward(t *testing.T) {
	table := DefaultXPTable()
	total, err := table.Award(ActionLogin, ActionInviteUser, ActionCompleteTask)
	require.NoError(t, err)
	assert.Equal(t, 45, total)

	_, err = table.Award(Action("teleport"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	table[ActionLogin] = -1
	assert.ErrorIs(t, table.Validate(), ErrInvalidArgument)
}
