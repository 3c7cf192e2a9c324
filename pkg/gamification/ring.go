package gamification

import "math"

// Ring holds the SVG geometry of a circular progress indicator.
type Ring struct {
	Value         float64 `json:"value"`
	Max           float64 `json:"max"`
	Size          float64 `json:"size"`
	Stroke        float64 `json:"stroke"`
	Percent       float64 `json:"percent"`
	Radius        float64 `json:"radius"`
	Circumference float64 `json:"circumference"`
	DashOffset    float64 `json:"dash_offset"`
	Tone          Tone    `json:"tone"`
}

// NewRing computes ring geometry. The percentage saturates at 100 and is 0
// when limit is not positive.
func NewRing(value, limit, size, stroke float64) Ring {
	r := Ring{Value: value, Max: limit, Size: size, Stroke: stroke, Tone: TonePrimary}
	if limit > 0 {
		r.Percent = math.Max(0, math.Min(value/limit*100, 100))
	}
	r.Radius = (size - stroke) / 2
	if r.Radius < 0 {
		r.Radius = 0
	}
	r.Circumference = 2 * math.Pi * r.Radius
	r.DashOffset = r.Circumference - r.Percent/100*r.Circumference
	return r
}

// Center is the x/y coordinate of the ring centre.
func (r Ring) Center() float64 {
	return r.Size / 2
}

// WithTone returns a copy of the ring with the given tone.
func (r Ring) WithTone(t Tone) Ring {
	r.Tone = t
	return r
}
