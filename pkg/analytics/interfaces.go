package analytics

import (
	"context"
	"time"

	dashboard "github.com/goliatone/go-nexus/components/dashboard"
)

// StatsClient fetches headline metrics from the reporting backend.
type StatsClient interface {
	FetchStat(ctx context.Context, metric string) (dashboard.Stat, error)
}

// SecurityClient fetches the security posture report.
type SecurityClient interface {
	FetchSecurity(ctx context.Context, query dashboard.SecurityQuery) (dashboard.SecurityReport, error)
}

// MemberClient fetches the gamification history of one member.
type MemberClient interface {
	FetchMember(ctx context.Context, userID string, since, until time.Time) (dashboard.MemberActivity, error)
}

// Client is a convenience union for services that implement all analytics calls.
type Client interface {
	StatsClient
	SecurityClient
	MemberClient
}
