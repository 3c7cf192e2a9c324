package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dashboard "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient talks to the reporting backend via REST endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for a live reporting API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchStat implements StatsClient by calling the stats endpoint.
func (c *HTTPClient) FetchStat(ctx context.Context, metric string) (dashboard.Stat, error) {
	var resp statResponse
	if err := c.do(ctx, http.MethodPost, "/stats/query", statRequest{Metric: metric}, &resp); err != nil {
		return dashboard.Stat{}, err
	}
	return resp.toStat(metric), nil
}

// FetchSecurity implements SecurityClient via the security endpoint.
func (c *HTTPClient) FetchSecurity(ctx context.Context, query dashboard.SecurityQuery) (dashboard.SecurityReport, error) {
	req := securityRequest{}
	for _, s := range query.Statuses {
		req.Statuses = append(req.Statuses, string(s))
	}
	var resp securityResponse
	if err := c.do(ctx, http.MethodPost, "/security/query", req, &resp); err != nil {
		return dashboard.SecurityReport{}, err
	}
	return resp.toReport(), nil
}

// FetchMember implements MemberClient via the member activity endpoint.
func (c *HTTPClient) FetchMember(ctx context.Context, userID string, since, until time.Time) (dashboard.MemberActivity, error) {
	req := memberRequest{
		UserID: userID,
		Since:  since.Format(time.DateOnly),
		Until:  until.Format(time.DateOnly),
	}
	var resp memberResponse
	if err := c.do(ctx, http.MethodPost, "/members/activity", req, &resp); err != nil {
		return dashboard.MemberActivity{}, err
	}
	return resp.toActivity(until.Location())
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analytics: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

type statRequest struct {
	Metric string `json:"metric"`
}

type statResponse struct {
	Metric string  `json:"metric"`
	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Format string  `json:"format"`
	Change float64 `json:"change"`
	Icon   string  `json:"icon"`
	Tone   string  `json:"tone"`
}

func (r statResponse) toStat(metric string) dashboard.Stat {
	if r.Metric == "" {
		r.Metric = metric
	}
	format := dashboard.StatFormat(r.Format)
	if format == "" {
		format = dashboard.StatCount
	}
	tone := gamification.Tone(r.Tone)
	if tone == "" {
		tone = gamification.TonePrimary
	}
	return dashboard.Stat{
		Metric: r.Metric,
		Title:  r.Title,
		Value:  r.Value,
		Format: format,
		Change: r.Change,
		Icon:   r.Icon,
		Tone:   tone,
	}
}

type securityRequest struct {
	Statuses []string `json:"statuses,omitempty"`
}

type securityCheck struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type securityResponse struct {
	Score  int             `json:"score"`
	Checks []securityCheck `json:"checks"`
}

func (r securityResponse) toReport() dashboard.SecurityReport {
	checks := make([]dashboard.SecurityCheck, len(r.Checks))
	for i, check := range r.Checks {
		checks[i] = dashboard.SecurityCheck{
			Title:       check.Title,
			Status:      dashboard.CheckStatus(check.Status),
			Description: check.Description,
		}
	}
	return dashboard.SecurityReport{Score: r.Score, Checks: checks}
}

type memberRequest struct {
	UserID string `json:"user_id"`
	Since  string `json:"since"`
	Until  string `json:"until"`
}

type memberSample struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type memberResponse struct {
	Points     int               `json:"points"`
	StreakDays int               `json:"streak_days"`
	Weekly     weeklyScore       `json:"weekly"`
	Samples    []memberSample    `json:"samples"`
	Unlocked   map[string]string `json:"unlocked"`
}

type weeklyScore struct {
	Score    int `json:"score"`
	Previous int `json:"previous"`
	Max      int `json:"max"`
}

// toActivity parses sample days in loc so they land on the same calendar day
// the grid is built in.
func (r memberResponse) toActivity(loc *time.Location) (dashboard.MemberActivity, error) {
	if loc == nil {
		loc = time.UTC
	}
	samples := make([]gamification.Sample, len(r.Samples))
	for i, sample := range r.Samples {
		day, err := time.ParseInLocation(time.DateOnly, sample.Day, loc)
		if err != nil {
			return dashboard.MemberActivity{}, fmt.Errorf("analytics: parse sample day %q: %w", sample.Day, err)
		}
		samples[i] = gamification.Sample{Date: day, Count: sample.Count}
	}
	unlocked := make(map[string]time.Time, len(r.Unlocked))
	for id, raw := range r.Unlocked {
		at, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			return dashboard.MemberActivity{}, fmt.Errorf("analytics: parse unlock date for %s: %w", id, err)
		}
		unlocked[id] = at
	}
	return dashboard.MemberActivity{
		Points:     r.Points,
		StreakDays: r.StreakDays,
		Weekly:     gamification.WeeklyScore{Score: r.Weekly.Score, Previous: r.Weekly.Previous, Max: r.Weekly.Max},
		Samples:    samples,
		Unlocked:   unlocked,
	}, nil
}
