package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	dashboard "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

// MockData seeds deterministic analytics responses for tests or local demos.
type MockData struct {
	Stats    map[string]dashboard.Stat
	Security dashboard.SecurityReport
	Members  map[string]dashboard.MemberActivity
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

var _ Client = (*MockClient)(nil)

// NewMockClient builds a mock analytics client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// SetMember replaces the fixture for userID.
func (c *MockClient) SetMember(userID string, member dashboard.MemberActivity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data.Members == nil {
		c.data.Members = map[string]dashboard.MemberActivity{}
	}
	c.data.Members[userID] = member
}

// FetchStat returns the configured stat for metric.
func (c *MockClient) FetchStat(_ context.Context, metric string) (dashboard.Stat, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stat, ok := c.data.Stats[metric]
	if !ok {
		return dashboard.Stat{}, fmt.Errorf("analytics: no fixture for metric %q", metric)
	}
	return stat, nil
}

// FetchSecurity returns the configured report filtered by query statuses.
func (c *MockClient) FetchSecurity(_ context.Context, query dashboard.SecurityQuery) (dashboard.SecurityReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filterSecurity(c.data.Security, query), nil
}

// FetchMember returns the member fixture with samples outside [since, until]
// dropped. Unknown members have no history.
func (c *MockClient) FetchMember(_ context.Context, userID string, since, until time.Time) (dashboard.MemberActivity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	member, ok := c.data.Members[userID]
	if !ok {
		return dashboard.MemberActivity{}, nil
	}
	return cloneMember(member, since, until), nil
}

func filterSecurity(report dashboard.SecurityReport, query dashboard.SecurityQuery) dashboard.SecurityReport {
	keep := make(map[dashboard.CheckStatus]bool, len(query.Statuses))
	for _, s := range query.Statuses {
		keep[s] = true
	}
	out := dashboard.SecurityReport{Score: report.Score}
	for _, check := range report.Checks {
		if len(keep) == 0 || keep[check.Status] {
			out.Checks = append(out.Checks, check)
		}
	}
	return out
}

func cloneMember(member dashboard.MemberActivity, since, until time.Time) dashboard.MemberActivity {
	out := dashboard.MemberActivity{
		Points:     member.Points,
		StreakDays: member.StreakDays,
		Weekly:     member.Weekly,
		Samples:    make([]gamification.Sample, 0, len(member.Samples)),
		Unlocked:   make(map[string]time.Time, len(member.Unlocked)),
	}
	first := dayStart(since)
	last := dayStart(until)
	for _, sample := range member.Samples {
		day := dayStart(sample.Date)
		if day.Before(first) || day.After(last) {
			continue
		}
		out.Samples = append(out.Samples, sample)
	}
	for id, at := range member.Unlocked {
		out.Unlocked[id] = at
	}
	return out
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
