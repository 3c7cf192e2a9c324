package gamification

// Intensity is the 0..4 activity bucket for a day.
type Intensity int

const (
	IntensityNone Intensity = iota
	IntensityLow
	IntensityMedium
	IntensityHigh
	IntensityMax
)

type intensityInfo struct {
	class  string
	legend string
	floor  int
}

var intensityTable = [...]intensityInfo{
	IntensityNone:   {class: "bg-muted", legend: "No activity", floor: 0},
	IntensityLow:    {class: "bg-primary/20", legend: "1-2 activities", floor: 1},
	IntensityMedium: {class: "bg-primary/40", legend: "3-5 activities", floor: 3},
	IntensityHigh:   {class: "bg-primary/60", legend: "6-9 activities", floor: 6},
	IntensityMax:    {class: "bg-primary glow-primary", legend: "10+ activities", floor: 10},
}

// IntensityFor maps a daily count to its bucket: 0, 1-2, 3-5, 6-9, 10+.
func IntensityFor(count int) Intensity {
	for i := len(intensityTable) - 1; i > 0; i-- {
		if count >= intensityTable[i].floor {
			return Intensity(i)
		}
	}
	return IntensityNone
}

// Intensities lists every bucket, lowest first, for legends.
func Intensities() []Intensity {
	return []Intensity{IntensityNone, IntensityLow, IntensityMedium, IntensityHigh, IntensityMax}
}

// Valid reports whether i is a known bucket.
func (i Intensity) Valid() bool {
	return i >= IntensityNone && i <= IntensityMax
}

// Class returns the CSS class used to paint the cell.
func (i Intensity) Class() string {
	if !i.Valid() {
		return intensityTable[IntensityNone].class
	}
	return intensityTable[i].class
}

// Legend returns the human label for the bucket.
func (i Intensity) Legend() string {
	if !i.Valid() {
		return ""
	}
	return intensityTable[i].legend
}
