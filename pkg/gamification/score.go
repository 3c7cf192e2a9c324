package gamification

import (
	"fmt"
	"math"
)

// Trend is the direction of a week-over-week change.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// WeeklyScore compares this week's score with the previous one.
type WeeklyScore struct {
	Score    int `json:"score"`
	Previous int `json:"previous"`
	Max      int `json:"max"`
}

// WeeklyScoreView is the computed presentation of a WeeklyScore.
type WeeklyScoreView struct {
	WeeklyScore
	Percent       float64 `json:"percent"`
	Change        int     `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	ChangeLabel   string  `json:"change_label"`
	Tone          Tone    `json:"tone"`
	Trend         Trend   `json:"trend"`
	Ring          Ring    `json:"ring"`
}

// Evaluate derives percentages, tone and trend. Max defaults to 100.
func (w WeeklyScore) Evaluate() WeeklyScoreView {
	if w.Max <= 0 {
		w.Max = 100
	}
	view := WeeklyScoreView{
		WeeklyScore: w,
		Percent:     math.Max(0, math.Min(float64(w.Score)/float64(w.Max)*100, 100)),
		Change:      w.Score - w.Previous,
	}
	if w.Previous > 0 {
		view.ChangePercent = math.Round(float64(view.Change)/float64(w.Previous)*1000) / 10
	}
	view.Tone = ScoreTone(view.Percent)
	switch {
	case view.Change > 0:
		view.Trend = TrendUp
		view.ChangeLabel = fmt.Sprintf("+%.1f%%", view.ChangePercent)
	case view.Change < 0:
		view.Trend = TrendDown
		view.ChangeLabel = fmt.Sprintf("%.1f%%", view.ChangePercent)
	default:
		view.Trend = TrendFlat
		view.ChangeLabel = fmt.Sprintf("%.1f%%", view.ChangePercent)
	}
	view.Ring = NewRing(float64(w.Score), float64(w.Max), 100, 10)
	view.Ring.Tone = view.Tone
	return view
}
