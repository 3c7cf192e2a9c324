package dashboard

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

// MemberActivity is the gamification state of one viewer.
type MemberActivity struct {
	Points     int
	StreakDays int
	Weekly     gamification.WeeklyScore
	Samples    []gamification.Sample
	Unlocked   map[string]time.Time
}

// ProgressSource loads the gamification state for a viewer.
type ProgressSource interface {
	MemberActivity(ctx context.Context, viewer ViewerContext, now time.Time) (MemberActivity, error)
}

// DemoProgressSource generates a stable member history: the same viewer and
// day always produce the same activity count.
type DemoProgressSource struct {
	Points     int
	StreakDays int
	Days       int
}

// NewDemoProgressSource returns the stock demo member (847 XP, 12 day streak).
func NewDemoProgressSource() DemoProgressSource {
	return DemoProgressSource{Points: 847, StreakDays: 12, Days: 85}
}

func (s DemoProgressSource) MemberActivity(_ context.Context, viewer ViewerContext, now time.Time) (MemberActivity, error) {
	days := s.Days
	if days <= 0 {
		days = gamification.DefaultHeatmapWeeks * gamification.DaysPerWeek
	}
	samples := make([]gamification.Sample, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		samples = append(samples, gamification.Sample{Date: day, Count: demoCount(viewer.UserID, day)})
	}
	return MemberActivity{
		Points:     s.Points,
		StreakDays: s.StreakDays,
		Weekly:     gamification.WeeklyScore{Score: 78, Previous: 65, Max: 100},
		Samples:    samples,
		Unlocked: map[string]time.Time{
			"first_login":  now.AddDate(0, 0, -days+1),
			"streak_7":     now.AddDate(0, 0, -s.StreakDays+7),
			"security_pro": now.AddDate(0, 0, -30),
		},
	}, nil
}

func demoCount(user string, day time.Time) int {
	h := fnv.New32a()
	h.Write([]byte(user))
	h.Write([]byte(day.Format("2006-01-02")))
	return int(h.Sum32() % 15)
}
