package gamification

// Tone is a semantic colour role shared by rings, scores and badges.
type Tone string

const (
	TonePrimary     Tone = "primary"
	ToneAccent      Tone = "accent"
	ToneSuccess     Tone = "success"
	ToneWarning     Tone = "warning"
	ToneDestructive Tone = "destructive"
	ToneMuted       Tone = "muted"
)

// StrokeClass returns the SVG stroke class for the tone.
func (t Tone) StrokeClass() string {
	if t == "" {
		t = TonePrimary
	}
	return "stroke-" + string(t)
}

// TextClass returns the text colour class for the tone.
func (t Tone) TextClass() string {
	if t == "" {
		t = TonePrimary
	}
	if t == ToneMuted {
		return "text-muted-foreground"
	}
	return "text-" + string(t)
}

// ScoreTone grades a 0..100 percentage: 80 success, 60 primary, 40 warning.
func ScoreTone(percent float64) Tone {
	switch {
	case percent >= 80:
		return ToneSuccess
	case percent >= 60:
		return TonePrimary
	case percent >= 40:
		return ToneWarning
	default:
		return ToneDestructive
	}
}

// SecurityTone grades a security score: 80 success, 60 warning.
func SecurityTone(score float64) Tone {
	switch {
	case score >= 80:
		return ToneSuccess
	case score >= 60:
		return ToneWarning
	default:
		return ToneDestructive
	}
}
