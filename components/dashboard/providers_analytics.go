package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

// StatsRepository loads the headline metrics shown as stat cards.
type StatsRepository interface {
	FetchStat(ctx context.Context, metric string) (Stat, error)
}

// SecurityRepository loads the security posture report.
type SecurityRepository interface {
	FetchSecurityReport(ctx context.Context, query SecurityQuery) (SecurityReport, error)
}

// StatFormat selects how a stat value is printed.
type StatFormat string

const (
	StatCount   StatFormat = "count"
	StatCompact StatFormat = "compact"
	StatPercent StatFormat = "percent"
)

// Stat is a single headline metric with its change against the last period.
type Stat struct {
	Metric string
	Title  string
	Value  float64
	Format StatFormat
	Change float64
	Icon   string
	Tone   gamification.Tone
}

// Display formats the value: "2,847", "48.2K" or "99.9%".
func (s Stat) Display() string {
	switch s.Format {
	case StatCompact:
		if s.Value < 1000 {
			return humanize.Comma(int64(s.Value))
		}
		return strings.ToUpper(strings.ReplaceAll(humanize.SIWithDigits(s.Value, 1, ""), " ", ""))
	case StatPercent:
		return fmt.Sprintf("%.1f%%", s.Value)
	default:
		return humanize.Comma(int64(s.Value))
	}
}

// ChangeLabel renders the change with an explicit sign for growth.
func (s Stat) ChangeLabel() string {
	if s.Change > 0 {
		return fmt.Sprintf("+%.1f%%", s.Change)
	}
	return fmt.Sprintf("%.1f%%", s.Change)
}

// ChangeClass colours the change pill.
func (s Stat) ChangeClass() string {
	switch {
	case s.Change > 0:
		return "bg-success/10 text-success"
	case s.Change < 0:
		return "bg-destructive/10 text-destructive"
	default:
		return "bg-muted text-muted-foreground"
	}
}

// CheckStatus grades one security control.
type CheckStatus string

const (
	CheckGood     CheckStatus = "good"
	CheckWarning  CheckStatus = "warning"
	CheckCritical CheckStatus = "critical"
)

type checkStyle struct {
	icon  string
	tone  gamification.Tone
	label string
}

var checkStyles = map[CheckStatus]checkStyle{
	CheckGood:     {icon: "check-circle-2", tone: gamification.ToneSuccess, label: "Secure"},
	CheckWarning:  {icon: "clock", tone: gamification.ToneWarning, label: "Warning"},
	CheckCritical: {icon: "alert-triangle", tone: gamification.ToneDestructive, label: "Critical"},
}

// CheckStatuses lists statuses from best to worst.
func CheckStatuses() []CheckStatus {
	return []CheckStatus{CheckGood, CheckWarning, CheckCritical}
}

// Icon returns the status icon name.
func (s CheckStatus) Icon() string { return s.styleOf().icon }

// Tone returns the status colour role.
func (s CheckStatus) Tone() gamification.Tone { return s.styleOf().tone }

// Label returns the count label noun ("Secure").
func (s CheckStatus) Label() string { return s.styleOf().label }

func (s CheckStatus) styleOf() checkStyle {
	if st, ok := checkStyles[s]; ok {
		return st
	}
	return checkStyles[CheckWarning]
}

// SecurityQuery configures the security report.
type SecurityQuery struct {
	Statuses []CheckStatus
}

// SecurityCheck is one audited control.
type SecurityCheck struct {
	Title       string
	Status      CheckStatus
	Description string
}

// SecurityReport aggregates the security score and its checks.
type SecurityReport struct {
	Score  int
	Checks []SecurityCheck
}

// Counts tallies checks per status. Every status is present.
func (r SecurityReport) Counts() map[CheckStatus]int {
	counts := make(map[CheckStatus]int, len(checkStyles))
	for _, status := range CheckStatuses() {
		counts[status] = 0
	}
	for _, check := range r.Checks {
		counts[check.Status]++
	}
	return counts
}

type statCardProvider struct {
	repo StatsRepository
}

// NewStatCardProvider wires a StatsRepository into a Provider.
func NewStatCardProvider(repo StatsRepository) Provider {
	if repo == nil {
		repo = DemoStatsRepository{}
	}
	return &statCardProvider{repo: repo}
}

func (p *statCardProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	metric := stringOr(meta.Instance.Configuration["metric"], "total_users")
	stat, err := p.repo.FetchStat(ctx, metric)
	if err != nil {
		return nil, err
	}
	title := translateOrFallback(ctx, meta.Translator, "dashboard.widget.stat_card."+metric, meta.Viewer.Locale, stat.Title, nil)
	period := translateOrFallback(ctx, meta.Translator, "dashboard.widget.stat_card.period", meta.Viewer.Locale, "vs last period", nil)
	return WidgetData{
		"metric":       stat.Metric,
		"title":        title,
		"value":        stat.Display(),
		"raw_value":    stat.Value,
		"change":       stat.Change,
		"change_label": stat.ChangeLabel(),
		"change_class": stat.ChangeClass(),
		"period":       period,
		"icon":         stat.Icon,
		"tone":         string(stat.Tone),
		"text_class":   stat.Tone.TextClass(),
	}, nil
}

type securityProvider struct {
	repo  SecurityRepository
	gauge *EChartsProvider
}

// NewSecurityOverviewProvider wires a SecurityRepository into a Provider.
// When gauge is set and the instance enables "chart", the score is also
// rendered as a gauge.
func NewSecurityOverviewProvider(repo SecurityRepository, gauge *EChartsProvider) Provider {
	if repo == nil {
		repo = DemoSecurityRepository{}
	}
	return &securityProvider{repo: repo, gauge: gauge}
}

func (p *securityProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	query := extractSecurityQuery(meta.Instance.Configuration)
	report, err := p.repo.FetchSecurityReport(ctx, query)
	if err != nil {
		return nil, err
	}
	checks := make([]map[string]any, 0, len(report.Checks))
	for _, check := range report.Checks {
		checks = append(checks, map[string]any{
			"title":       check.Title,
			"status":      string(check.Status),
			"description": check.Description,
			"icon":        check.Status.Icon(),
			"text_class":  check.Status.Tone().TextClass(),
		})
	}
	counts := report.Counts()
	summary := make([]map[string]any, 0, len(counts))
	for _, status := range CheckStatuses() {
		summary = append(summary, map[string]any{
			"status":     string(status),
			"count":      counts[status],
			"label":      fmt.Sprintf("%d %s", counts[status], status.Label()),
			"text_class": status.Tone().TextClass(),
		})
	}
	ring := gamification.NewRing(float64(report.Score), 100, 100, 8)
	ring = ring.WithTone(gamification.SecurityTone(float64(report.Score)))
	title := translateOrFallback(ctx, meta.Translator, "dashboard.widget.security_overview.title", meta.Viewer.Locale, "Security Overview", nil)
	data := WidgetData{
		"title":   title,
		"score":   report.Score,
		"ring":    ring,
		"checks":  checks,
		"summary": summary,
	}
	if p.gauge != nil && boolValue(meta.Instance.Configuration["chart"]) {
		chart, err := renderGauge(ctx, p.gauge, meta, title, "Score", float64(report.Score))
		if err != nil {
			return nil, err
		}
		data["chart_html"] = chart
	}
	return data, nil
}

func extractSecurityQuery(config map[string]any) SecurityQuery {
	raw := sliceOr(config["statuses"], nil)
	query := SecurityQuery{}
	for _, s := range raw {
		query.Statuses = append(query.Statuses, CheckStatus(s))
	}
	return query
}

func stringOr(value any, fallback string) string {
	if v, ok := value.(string); ok && v != "" {
		return v
	}
	return fallback
}

func intOr(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

func sliceOr(value any, fallback []string) []string {
	if value == nil {
		return fallback
	}
	result := []string{}
	switch typed := value.(type) {
	case []string:
		result = append(result, typed...)
	case []any:
		for _, item := range typed {
			if s, ok := item.(string); ok && s != "" {
				result = append(result, s)
			}
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

// DemoStatsRepository returns the static headline metrics.
type DemoStatsRepository struct{}

var demoStats = map[string]Stat{
	"total_users":   {Metric: "total_users", Title: "Total Users", Value: 2847, Format: StatCount, Change: 12.5, Icon: "users", Tone: gamification.TonePrimary},
	"active_roles":  {Metric: "active_roles", Title: "Active Roles", Value: 24, Format: StatCount, Change: 4.2, Icon: "shield", Tone: gamification.ToneAccent},
	"api_calls":     {Metric: "api_calls", Title: "API Calls Today", Value: 48200, Format: StatCompact, Change: -2.4, Icon: "key", Tone: gamification.ToneSuccess},
	"system_health": {Metric: "system_health", Title: "System Health", Value: 99.9, Format: StatPercent, Change: 0.1, Icon: "activity", Tone: gamification.ToneWarning},
}

// StatMetrics lists the metrics served by DemoStatsRepository in card order.
func StatMetrics() []string {
	return []string{"total_users", "active_roles", "api_calls", "system_health"}
}

func (DemoStatsRepository) FetchStat(_ context.Context, metric string) (Stat, error) {
	stat, ok := demoStats[metric]
	if !ok {
		return Stat{}, fmt.Errorf("dashboard: unknown stat metric %q", metric)
	}
	return stat, nil
}

// DemoSecurityRepository returns the static security report.
type DemoSecurityRepository struct{}

func (DemoSecurityRepository) FetchSecurityReport(_ context.Context, query SecurityQuery) (SecurityReport, error) {
	checks := []SecurityCheck{
		{Title: "Two-Factor Authentication", Status: CheckGood, Description: "85% of users enabled"},
		{Title: "Password Policy", Status: CheckGood, Description: "All users compliant"},
		{Title: "Session Timeout", Status: CheckWarning, Description: "Consider reducing to 30 min"},
		{Title: "API Key Rotation", Status: CheckCritical, Description: "3 keys need rotation"},
		{Title: "IP Whitelist", Status: CheckGood, Description: "Active for admin users"},
	}
	if len(query.Statuses) > 0 {
		keep := make(map[CheckStatus]bool, len(query.Statuses))
		for _, s := range query.Statuses {
			keep[s] = true
		}
		filtered := checks[:0]
		for _, c := range checks {
			if keep[c.Status] {
				filtered = append(filtered, c)
			}
		}
		checks = filtered
	}
	return SecurityReport{Score: 78, Checks: checks}, nil
}
