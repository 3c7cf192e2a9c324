package httpapi

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/components/dashboard/queries"
	"github.com/goliatone/go-nexus/pkg/gamification"
	"github.com/goliatone/go-nexus/pkg/navigation"
)

// Reader is the read side of the API, answered by go-command queriers.
type Reader interface {
	Layout(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error)
	Area(ctx context.Context, input queries.WidgetAreaInput) (dashboard.ResolvedArea, error)
	Menu(ctx context.Context, input queries.MenuInput) (navigation.Menu, error)
	Users(ctx context.Context, input queries.UsersInput) (queries.UsersResult, error)
	Progress(ctx context.Context, input queries.ProgressInput) (queries.ProgressResult, error)
	Heatmap(ctx context.Context, input queries.HeatmapInput) (gamification.Grid, error)
}

// QueryReader adapts queriers to Reader. Missing queriers answer
// ErrCommandUnavailable.
type QueryReader struct {
	LayoutQuerier   gocommand.Querier[dashboard.ViewerContext, dashboard.Layout]
	AreaQuerier     gocommand.Querier[queries.WidgetAreaInput, dashboard.ResolvedArea]
	MenuQuerier     gocommand.Querier[queries.MenuInput, navigation.Menu]
	UsersQuerier    gocommand.Querier[queries.UsersInput, queries.UsersResult]
	ProgressQuerier gocommand.Querier[queries.ProgressInput, queries.ProgressResult]
	HeatmapQuerier  gocommand.Querier[queries.HeatmapInput, gamification.Grid]
}

var _ Reader = (*QueryReader)(nil)

func (r *QueryReader) Layout(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error) {
	return query(ctx, r.LayoutQuerier, viewer)
}

func (r *QueryReader) Area(ctx context.Context, input queries.WidgetAreaInput) (dashboard.ResolvedArea, error) {
	return query(ctx, r.AreaQuerier, input)
}

func (r *QueryReader) Menu(ctx context.Context, input queries.MenuInput) (navigation.Menu, error) {
	return query(ctx, r.MenuQuerier, input)
}

func (r *QueryReader) Users(ctx context.Context, input queries.UsersInput) (queries.UsersResult, error) {
	return query(ctx, r.UsersQuerier, input)
}

func (r *QueryReader) Progress(ctx context.Context, input queries.ProgressInput) (queries.ProgressResult, error) {
	return query(ctx, r.ProgressQuerier, input)
}

func (r *QueryReader) Heatmap(ctx context.Context, input queries.HeatmapInput) (gamification.Grid, error) {
	return query(ctx, r.HeatmapQuerier, input)
}

func query[I, O any](ctx context.Context, q gocommand.Querier[I, O], input I) (O, error) {
	if q == nil {
		var zero O
		return zero, ErrCommandUnavailable
	}
	return q.Query(ctx, input)
}
