package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatDisplay(t *testing.T) {
	cases := []struct {
		stat Stat
		want string
	}{
		{Stat{Value: 2847, Format: StatCount}, "2,847"},
		{Stat{Value: 48200, Format: StatCompact}, "48.2K"},
		{Stat{Value: 950, Format: StatCompact}, "950"},
		{Stat{Value: 99.9, Format: StatPercent}, "99.9%"},
	}
	for _, tc := range cases {
		if got := tc.stat.Display(); got != tc.want {
			t.Fatalf("Display(%v) = %q, want %q", tc.stat.Value, got, tc.want)
		}
	}
}

func TestStatChangeLabel(t *testing.T) {
	assert.Equal(t, "+12.5%", Stat{Change: 12.5}.ChangeLabel())
	assert.Equal(t, "-2.4%", Stat{Change: -2.4}.ChangeLabel())
	assert.Equal(t, "bg-destructive/10 text-destructive", Stat{Change: -2.4}.ChangeClass())
	assert.Equal(t, "bg-muted text-muted-foreground", Stat{}.ChangeClass())
}

type stubStatsRepo struct {
	metric string
	err    error
}

func (s *stubStatsRepo) FetchStat(_ context.Context, metric string) (Stat, error) {
	s.metric = metric
	if s.err != nil {
		return Stat{}, s.err
	}
	return Stat{Metric: metric, Title: "Revenue", Value: 1200, Format: StatCount, Change: 3}, nil
}

func TestStatCardProviderUsesConfiguredMetric(t *testing.T) {
	repo := &stubStatsRepo{}
	data, err := NewStatCardProvider(repo).Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{Configuration: map[string]any{"metric": "revenue"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "revenue", repo.metric)
	assert.Equal(t, "1,200", data["value"])
	assert.Equal(t, "+3.0%", data["change_label"])
	assert.Equal(t, "Revenue", data["title"])
}

func TestStatCardProviderDefaultsAndErrors(t *testing.T) {
	data, err := NewStatCardProvider(nil).Fetch(context.Background(), WidgetContext{})
	require.NoError(t, err)
	assert.Equal(t, "2,847", data["value"])

	boom := errors.New("metrics offline")
	_, err = NewStatCardProvider(&stubStatsRepo{err: boom}).Fetch(context.Background(), WidgetContext{})
	assert.ErrorIs(t, err, boom)

	_, err = DemoStatsRepository{}.FetchStat(context.Background(), "bogus")
	assert.Error(t, err)
}

func TestSecurityOverviewProviderSummarisesChecks(t *testing.T) {
	data, err := NewSecurityOverviewProvider(nil, nil).Fetch(context.Background(), WidgetContext{})
	require.NoError(t, err)
	assert.Equal(t, 78, data["score"])
	checks := data["checks"].([]map[string]any)
	assert.Len(t, checks, 5)

	summary := data["summary"].([]map[string]any)
	require.Len(t, summary, len(CheckStatuses()))
	labels := map[string]string{}
	for _, row := range summary {
		labels[row["status"].(string)] = row["label"].(string)
	}
	assert.Equal(t, "3 Secure", labels[string(CheckGood)])
	assert.Equal(t, "1 Warning", labels[string(CheckWarning)])
	assert.Equal(t, "1 Critical", labels[string(CheckCritical)])
	assert.NotContains(t, data, "chart_html")
}

func TestSecurityOverviewProviderFiltersStatuses(t *testing.T) {
	data, err := NewSecurityOverviewProvider(nil, nil).Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{Configuration: map[string]any{"statuses": []any{"critical"}}},
	})
	require.NoError(t, err)
	checks := data["checks"].([]map[string]any)
	require.Len(t, checks, 1)
	assert.Equal(t, "API Key Rotation", checks[0]["title"])
}

func TestSliceOrAndIntOr(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, sliceOr([]any{"a", "", 3, "b"}, nil))
	assert.Equal(t, []string{"x"}, sliceOr([]any{}, []string{"x"}))
	assert.Equal(t, 12, intOr(float64(12), 4))
	assert.Equal(t, 4, intOr("12", 4))
}
