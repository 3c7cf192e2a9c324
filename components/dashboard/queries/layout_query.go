package queries

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

type layoutService interface {
	ConfigureLayout(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error)
}

type areaService interface {
	ResolveArea(ctx context.Context, viewer dashboard.ViewerContext, areaCode string) (dashboard.ResolvedArea, error)
}

// WidgetAreaInput names one area. Short names ("sidebar") are expanded to
// the full area code.
type WidgetAreaInput struct {
	Viewer   dashboard.ViewerContext
	AreaCode string
}

// LayoutQuery resolves every area for a viewer, with provider data attached.
type LayoutQuery struct {
	service layoutService
}

func NewLayoutQuery(service layoutService) *LayoutQuery {
	return &LayoutQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Layout] = (*LayoutQuery)(nil)

func (q *LayoutQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error) {
	if q.service == nil {
		return dashboard.Layout{}, errors.New("layout query requires service")
	}
	return q.service.ConfigureLayout(ctx, viewer)
}

// WidgetAreaQuery resolves a single area.
type WidgetAreaQuery struct {
	service areaService
}

func NewWidgetAreaQuery(service areaService) *WidgetAreaQuery {
	return &WidgetAreaQuery{service: service}
}

var _ gocommand.Querier[WidgetAreaInput, dashboard.ResolvedArea] = (*WidgetAreaQuery)(nil)

func (q *WidgetAreaQuery) Query(ctx context.Context, input WidgetAreaInput) (dashboard.ResolvedArea, error) {
	if q.service == nil {
		return dashboard.ResolvedArea{}, errors.New("area query requires service")
	}
	code := areaCode(input.AreaCode)
	if code == "" {
		return dashboard.ResolvedArea{}, fmt.Errorf("area query: area code is required: %w", gamification.ErrInvalidArgument)
	}
	return q.service.ResolveArea(ctx, input.Viewer, code)
}

func areaCode(name string) string {
	for _, def := range dashboard.DefaultAreaDefinitions() {
		if def.Code == name || def.Code == "admin.dashboard."+name {
			return def.Code
		}
	}
	return name
}
