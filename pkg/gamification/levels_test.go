package gamification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func threeLevels() []Level {
	return []Level{
		{Number: 1, Name: "One", MinimumPoints: 0},
		{Number: 2, Name: "Two", MinimumPoints: 100},
		{Number: 3, Name: "Three", MinimumPoints: 300},
	}
}

func TestComputeProgressMidBand(t *testing.T) {
	p, err := ComputeProgress(250, threeLevels())
	require.NoError(t, err)

	assert.Equal(t, 2, p.Current.Number)
	require.NotNil(t, p.Next)
	assert.Equal(t, 3, p.Next.Number)
	assert.Equal(t, 150, p.PointsIntoLevel)
	assert.Equal(t, 200, p.PointsToNext)
	assert.InDelta(t, 0.75, p.Fraction, 1e-9)
	assert.Equal(t, 50, p.PointsRemaining())
	assert.InDelta(t, 75.0, p.Percent(), 1e-9)
}

func TestComputeProgressTopLevel(t *testing.T) {
	p, err := ComputeProgress(300, threeLevels())
	require.NoError(t, err)

	assert.Equal(t, 3, p.Current.Number)
	assert.Nil(t, p.Next)
	assert.False(t, p.HasNext())
	assert.Equal(t, 1.0, p.Fraction)
	assert.Equal(t, 0, p.PointsRemaining())
}

func TestComputeProgressSingleLevel(t *testing.T) {
	p, err := ComputeProgress(42, []Level{{Number: 1, MinimumPoints: 0}})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Current.Number)
	assert.Equal(t, 42, p.PointsIntoLevel)
	assert.Equal(t, 1.0, p.Fraction)
}

func TestComputeProgressZeroWidthBand(t *testing.T) {
	levels := []Level{
		{Number: 1, MinimumPoints: 0},
		{Number: 2, MinimumPoints: 0},
		{Number: 3, MinimumPoints: 50},
	}
	p, err := ComputeProgress(0, levels)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Current.Number)
	assert.Equal(t, 0.0, p.Fraction)
}

func TestComputeProgressRejectsBadInput(t *testing.T) {
	_, err := ComputeProgress(-1, threeLevels())
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ComputeProgress(10, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestDefaultLevelsMatchMemberExample(t *testing.T) {
	p, err := ComputeProgress(847, DefaultLevels())
	require.NoError(t, err)
	assert.Equal(t, "Expert", p.Current.Name)
	assert.Equal(t, "Master", p.Next.Name)
	assert.Equal(t, 153, p.PointsRemaining())
	assert.NoError(t, ValidateLevels(DefaultLevels()))
}

func TestValidateLevels(t *testing.T) {
	cases := map[string][]Level{
		"empty":          nil,
		"nonzero floor":  {{Number: 1, MinimumPoints: 10}},
		"number order":   {{Number: 2, MinimumPoints: 0}, {Number: 1, MinimumPoints: 10}},
		"points order":   {{Number: 1, MinimumPoints: 0}, {Number: 2, MinimumPoints: 0}},
		"points descend": {{Number: 1, MinimumPoints: 0}, {Number: 2, MinimumPoints: 50}, {Number: 3, MinimumPoints: 20}},
	}
	for name, levels := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateLevels(levels), ErrInvalidArgument)
		})
	}
}

func TestProgressProperties(t *testing.T) {
	levels := DefaultLevels()
	last := levels[len(levels)-1]

	t.Run("beyond last level is complete", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			total := rapid.IntRange(last.MinimumPoints, last.MinimumPoints*10).Draw(rt, "total")
			p, err := ComputeProgress(total, levels)
			if err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}
			if p.Next != nil || p.Fraction != 1 {
				rt.Fatalf("total %d: expected no next level and fraction 1, got %+v", total, p)
			}
		})
	})

	t.Run("exact threshold starts a level", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			level := rapid.SampledFrom(levels).Draw(rt, "level")
			p, err := ComputeProgress(level.MinimumPoints, levels)
			if err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}
			if p.Current.Number != level.Number || p.PointsIntoLevel != 0 {
				rt.Fatalf("expected level %d with 0 points in, got %+v", level.Number, p)
			}
		})
	})

	t.Run("fraction is monotonic within a band", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			band := rapid.IntRange(0, len(levels)-2).Draw(rt, "band")
			lo, hi := levels[band].MinimumPoints, levels[band+1].MinimumPoints-1
			a := rapid.IntRange(lo, hi).Draw(rt, "a")
			b := rapid.IntRange(a, hi).Draw(rt, "b")
			pa, _ := ComputeProgress(a, levels)
			pb, _ := ComputeProgress(b, levels)
			if pa.Fraction > pb.Fraction {
				rt.Fatalf("fraction decreased: %d→%v, %d→%v", a, pa.Fraction, b, pb.Fraction)
			}
			if pa.Fraction < 0 || pb.Fraction > 1 {
				rt.Fatalf("fraction out of range")
			}
		})
	})

	t.Run("pure", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			total := rapid.IntRange(0, 5000).Draw(rt, "total")
			first, _ := ComputeProgress(total, levels)
			second, _ := ComputeProgress(total, levels)
			if first.Current != second.Current || first.Fraction != second.Fraction || first.PointsToNext != second.PointsToNext {
				rt.Fatalf("non-deterministic result for %d", total)
			}
		})
	})
}
