package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

const defaultChartHeight = "360px"

var (
	ErrUnsupportedChart = fmt.Errorf("dashboard: unsupported chart type: %w", gamification.ErrInvalidArgument)
	ErrMissingSeries    = fmt.Errorf("dashboard: chart series is required: %w", gamification.ErrInvalidArgument)
)

var sharedChartCache = NewChartCache(5 * time.Minute)

// ThemeResolver picks the chart theme for a viewer. Blank means no
// preference.
type ThemeResolver func(ViewerContext) string

// EChartsProvider turns a widget's series configuration into go-echarts HTML.
//
// Recognized configuration keys: title, subtitle, series, x_axis, y_axis,
// theme, dynamic and refresh_endpoint.
type EChartsProvider struct {
	chartType     string
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
}

type EChartsProviderOption func(*EChartsProvider)

// WithChartCache replaces the process-wide cache. nil renders on every call.
func WithChartCache(cache RenderCache) EChartsProviderOption {
	return func(p *EChartsProvider) { p.cache = cache }
}

// WithChartTheme sets the theme used when no resolver answers.
func WithChartTheme(theme string) EChartsProviderOption {
	return func(p *EChartsProvider) { p.theme = theme }
}

func WithChartThemeResolver(resolver ThemeResolver) EChartsProviderOption {
	return func(p *EChartsProvider) { p.themeResolver = resolver }
}

// WithChartAssetsHost loads the echarts scripts from host instead of the
// go-echarts default CDN.
func WithChartAssetsHost(host string) EChartsProviderOption {
	return func(p *EChartsProvider) { p.assetsHost = host }
}

func NewEChartsProvider(chartType string, options ...EChartsProviderOption) *EChartsProvider {
	p := &EChartsProvider{
		chartType: strings.ToLower(strings.TrimSpace(chartType)),
		cache:     sharedChartCache,
		theme:     types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// chartSpec is everything a renderer needs, already translated.
type chartSpec struct {
	Title    string
	Subtitle string
	XAxis    []string
	YAxis    []string
	Series   []ChartSeries
	Theme    string
}

type renderable interface{ Render(io.Writer) error }

type chartRenderer func(spec chartSpec, global []charts.GlobalOpts) renderable

var chartRenderers = map[string]chartRenderer{
	"bar": func(spec chartSpec, global []charts.GlobalOpts) renderable {
		c := charts.NewBar()
		c.SetGlobalOptions(global...)
		c.SetXAxis(spec.XAxis)
		for _, s := range spec.Series {
			c.AddSeries(s.Name, mapPoints(s.Points, func(_ int, p ChartPoint) opts.BarData {
				return opts.BarData{Name: p.Label, Value: p.Value}
			}))
		}
		return c
	},
	"line": func(spec chartSpec, global []charts.GlobalOpts) renderable {
		c := charts.NewLine()
		c.SetGlobalOptions(global...)
		c.SetXAxis(spec.XAxis)
		for _, s := range spec.Series {
			c.AddSeries(s.Name, mapPoints(s.Points, func(_ int, p ChartPoint) opts.LineData {
				return opts.LineData{Name: p.Label, Value: p.Value}
			}))
		}
		c.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return c
	},
	"pie": func(spec chartSpec, global []charts.GlobalOpts) renderable {
		c := charts.NewPie()
		c.SetGlobalOptions(global...)
		for _, s := range spec.Series {
			c.AddSeries(s.Name, mapPoints(s.Points, func(i int, p ChartPoint) opts.PieData {
				if p.Label == "" {
					p.Label = fmt.Sprintf("Slice %d", i+1)
				}
				return opts.PieData{Name: p.Label, Value: p.Value}
			}))
		}
		return c
	},
	"scatter": func(spec chartSpec, global []charts.GlobalOpts) renderable {
		c := charts.NewScatter()
		c.SetGlobalOptions(global...)
		for _, s := range spec.Series {
			c.AddSeries(s.Name, mapPoints(s.Points, func(i int, p ChartPoint) opts.ScatterData {
				xy := []float64{float64(i + 1), p.Value}
				if len(p.Pair) >= 2 {
					xy = p.Pair[:2]
				}
				return opts.ScatterData{Name: p.Label, Value: xy}
			}))
		}
		return c
	},
	"gauge": func(spec chartSpec, global []charts.GlobalOpts) renderable {
		c := charts.NewGauge()
		c.SetGlobalOptions(global...)
		for _, s := range spec.Series {
			// A gauge shows one needle per series: its first value.
			c.AddSeries(s.Name, []opts.GaugeData{{Name: s.Name, Value: s.Points[0].Value}})
		}
		return c
	},
	"heatmap": renderHeatmapChart,
}

// heatmapColors run from an empty day to the busiest bucket.
var heatmapColors = []string{"#1e293b", "#3b3f8f", "#5b5fd6", "#7c7ff2", "#a5a8ff"}

func renderHeatmapChart(spec chartSpec, global []charts.GlobalOpts) renderable {
	var cells []opts.HeatMapData
	peak := 1.0
	for _, s := range spec.Series {
		for _, p := range s.Points {
			if len(p.Pair) < 2 {
				continue
			}
			peak = math.Max(peak, p.Value)
			cells = append(cells, opts.HeatMapData{
				Name:  p.Label,
				Value: [3]any{int(p.Pair[0]), int(p.Pair[1]), p.Value},
			})
		}
	}
	c := charts.NewHeatMap()
	c.SetGlobalOptions(append(global,
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: spec.YAxis}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(peak),
			InRange:    &opts.VisualMapInRange{Color: heatmapColors},
		}),
	)...)
	c.SetXAxis(spec.XAxis)
	name := "Activity"
	if len(spec.Series) > 0 {
		name = spec.Series[0].Name
	}
	c.AddSeries(name, cells)
	return c
}

func mapPoints[T any](points []ChartPoint, fn func(int, ChartPoint) T) []T {
	out := make([]T, len(points))
	for i, p := range points {
		out[i] = fn(i, p)
	}
	return out
}

// ChartTypes lists the chart types NewEChartsProvider can render.
func ChartTypes() []string {
	out := make([]string, 0, len(chartRenderers))
	for name := range chartRenderers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (p *EChartsProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	render, ok := chartRenderers[p.chartType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChart, p.chartType)
	}
	cfg := meta.Instance.Configuration
	spec := chartSpec{
		Title:    stringValue(cfg["title"], "Chart"),
		Subtitle: stringValue(cfg["subtitle"], ""),
		Series:   parseChartSeries(cfg["series"]),
		XAxis:    stringSliceValue(cfg["x_axis"]),
		YAxis:    stringSliceValue(cfg["y_axis"]),
		Theme:    strings.TrimSpace(stringValue(cfg["theme"], "")),
	}
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("%w: widget %s", ErrMissingSeries, meta.Instance.ID)
	}
	if len(spec.XAxis) == 0 {
		spec.XAxis = inferredAxisLabels(spec.Series)
	}
	if spec.Theme == "" {
		spec.Theme = p.resolveTheme(meta.Viewer)
	}
	p.localize(ctx, meta, &spec)

	build := func() (string, error) {
		var buf bytes.Buffer
		if err := render(spec, p.globalOptions(spec)).Render(&buf); err != nil {
			return "", fmt.Errorf("dashboard: render %s chart: %w", p.chartType, err)
		}
		return buf.String(), nil
	}
	var (
		html string
		err  error
	)
	hash, cacheable := configHash(cfg)
	if p.cache == nil || !cacheable {
		html, err = build()
	} else {
		key := strings.Join([]string{meta.Instance.DefinitionID, meta.Instance.ID, p.chartType, meta.Viewer.Locale, spec.Theme, hash}, ":")
		html, err = p.cache.GetOrRender(key, build)
	}
	if err != nil {
		return nil, err
	}

	data := WidgetData{
		"chart_html": html,
		"chart_type": p.chartType,
		"title":      spec.Title,
		"subtitle":   spec.Subtitle,
		"theme":      spec.Theme,
	}
	if boolValue(cfg["dynamic"]) {
		data["dynamic"] = true
		if endpoint := stringValue(cfg["refresh_endpoint"], ""); endpoint != "" {
			data["refresh_endpoint"] = endpoint
		}
	}
	return data, nil
}

// localize translates the title, axis labels and series names. Labels are
// used as their own keys.
func (p *EChartsProvider) localize(ctx context.Context, meta WidgetContext, spec *chartSpec) {
	if meta.Translator == nil {
		return
	}
	locale := meta.Viewer.Locale
	tr := func(key, fallback string) string {
		return translateOrFallback(ctx, meta.Translator, key, locale, fallback, nil)
	}
	spec.Title = tr("dashboard.widget."+meta.Instance.DefinitionID+".title", spec.Title)
	for _, axis := range [][]string{spec.XAxis, spec.YAxis} {
		for i, label := range axis {
			axis[i] = tr(label, label)
		}
	}
	for i, s := range spec.Series {
		spec.Series[i].Name = tr(s.Name, s.Name)
	}
}

func (p *EChartsProvider) globalOptions(spec chartSpec) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:      spec.Theme,
		Width:      "100%",
		Height:     defaultChartHeight,
		AssetsHost: p.assetsHost,
	}
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func (p *EChartsProvider) resolveTheme(viewer ViewerContext) string {
	if p.themeResolver != nil {
		if theme := p.themeResolver(viewer); theme != "" {
			return theme
		}
	}
	if p.theme != "" {
		return p.theme
	}
	return types.ThemeWesteros
}

// renderGauge draws a single-value gauge for providers that offer a
// "chart: true" variant.
func renderGauge(ctx context.Context, p *EChartsProvider, meta WidgetContext, title, name string, value float64) (string, error) {
	return renderDerivedChart(ctx, p, meta, map[string]any{
		"title":  title,
		"series": []map[string]any{{"name": name, "data": []float64{value}}},
	})
}

// renderHeatmap draws grid with weeks as columns and weekdays as rows.
func renderHeatmap(ctx context.Context, p *EChartsProvider, meta WidgetContext, title string, grid gamification.Grid) (string, error) {
	if len(grid) == 0 {
		return "", nil
	}
	weeks := make([]string, len(grid))
	cells := make([]map[string]any, 0, len(grid)*gamification.DaysPerWeek)
	for x, week := range grid {
		weeks[x] = week[0].Date.Format("Jan 2")
		for y, cell := range week {
			cells = append(cells, map[string]any{"x": x, "y": y, "value": cell.Count})
		}
	}
	days := make([]string, gamification.DaysPerWeek)
	for y, cell := range grid[0] {
		days[y] = cell.Date.Weekday().String()[:3]
	}
	return renderDerivedChart(ctx, p, meta, map[string]any{
		"title":  title,
		"x_axis": weeks,
		"y_axis": days,
		"series": []map[string]any{{"name": "Activity", "data": cells}},
	})
}

// renderDerivedChart renders cfg on behalf of another widget, keeping that
// widget's identity so cache keys stay per instance.
func renderDerivedChart(ctx context.Context, p *EChartsProvider, meta WidgetContext, cfg map[string]any) (string, error) {
	if p == nil {
		return "", nil
	}
	if theme := stringValue(meta.Instance.Configuration["theme"], ""); theme != "" {
		cfg["theme"] = theme
	}
	derived := meta
	derived.Instance = WidgetInstance{
		ID:            meta.Instance.ID,
		DefinitionID:  meta.Instance.DefinitionID,
		Configuration: cfg,
	}
	data, err := p.Fetch(ctx, derived)
	if err != nil {
		return "", err
	}
	html, _ := data["chart_html"].(string)
	return html, nil
}

// chartWidgets binds the generic chart widget codes to a chart type.
var chartWidgets = map[string]string{
	"admin.widget.bar_chart":     "bar",
	"admin.widget.line_chart":    "line",
	"admin.widget.pie_chart":     "pie",
	"admin.widget.scatter_chart": "scatter",
	"admin.widget.gauge_chart":   "gauge",
	"admin.widget.heatmap_chart": "heatmap",
}

func init() {
	RegisterWidgetHook(func(reg *Registry) error {
		for code, chartType := range chartWidgets {
			_, bound := reg.Provider(code)
			if _, defined := reg.Definition(code); bound || !defined {
				continue
			}
			if err := reg.RegisterProvider(code, NewEChartsProvider(chartType, reg.ChartOptions()...)); err != nil {
				return err
			}
		}
		return nil
	})
}
