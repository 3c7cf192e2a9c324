package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

func TestHTTPClientFetchStat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats/query" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("expected auth header, got %s", got)
		}
		var req statRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := statResponse{Title: "API Calls Today", Value: 48200, Format: "compact", Change: -2.4, Icon: "key"}
		if req.Metric != "api_calls" {
			t.Fatalf("unexpected metric %q", req.Metric)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	stat, err := client.FetchStat(context.Background(), "api_calls")
	if err != nil {
		t.Fatalf("fetch stat: %v", err)
	}
	if stat.Metric != "api_calls" || stat.Display() != "48.2K" {
		t.Fatalf("unexpected stat: %#v", stat)
	}
	if stat.Tone != gamification.TonePrimary {
		t.Fatalf("expected default tone, got %q", stat.Tone)
	}
}

func TestHTTPClientFetchSecurity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req securityRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Statuses) != 1 || req.Statuses[0] != "critical" {
			t.Fatalf("unexpected statuses %v", req.Statuses)
		}
		_ = json.NewEncoder(w).Encode(securityResponse{
			Score:  64,
			Checks: []securityCheck{{Title: "API Key Rotation", Status: "critical", Description: "3 keys need rotation"}},
		})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	report, err := client.FetchSecurity(context.Background(), dashboard.SecurityQuery{Statuses: []dashboard.CheckStatus{dashboard.CheckCritical}})
	require.NoError(t, err)
	assert.Equal(t, 64, report.Score)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, dashboard.CheckCritical, report.Checks[0].Status)
}

func TestHTTPClientFetchMember(t *testing.T) {
	until := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)
	since := until.AddDate(0, 0, -6)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/members/activity" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req memberRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.UserID != "alex" || req.Since != "2026-03-04" || req.Until != "2026-03-10" {
			t.Fatalf("unexpected request %#v", req)
		}
		_ = json.NewEncoder(w).Encode(memberResponse{
			Points:     1250,
			StreakDays: 3,
			Weekly:     weeklyScore{Score: 70, Previous: 80, Max: 100},
			Samples:    []memberSample{{Day: "2026-03-09", Count: 4}, {Day: "2026-03-10", Count: 9}},
			Unlocked:   map[string]string{"first_login": "2026-01-02"},
		})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, Timeout: time.Second})
	require.NoError(t, err)
	member, err := client.FetchMember(context.Background(), "alex", since, until)
	require.NoError(t, err)
	assert.Equal(t, 1250, member.Points)
	require.Len(t, member.Samples, 2)
	assert.Equal(t, 9, member.Samples[1].Count)
	assert.Equal(t, time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), member.Unlocked["first_login"])
}

func TestHTTPClientRejectsBadSampleDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(memberResponse{Samples: []memberSample{{Day: "yesterday", Count: 1}}})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.FetchMember(context.Background(), "alex", time.Now(), time.Now())
	assert.ErrorContains(t, err, "parse sample day")
}

func TestHTTPClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.FetchStat(context.Background(), "total_users")
	assert.ErrorContains(t, err, "remote error 429")
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	assert.Error(t, err)
}
