package dashboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ChartSeries is one legend entry and the values plotted for it.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint is a single value. Pair carries x/y coordinates for scatter and
// heatmap series.
type ChartPoint struct {
	Label string
	Value float64
	Pair  []float64
}

// parseChartSeries reads the "series" configuration key. Series without any
// usable point are dropped.
func parseChartSeries(v any) []ChartSeries {
	var out []ChartSeries
	for _, m := range mapsOf(v) {
		s := ChartSeries{
			Name:   stringValue(m["name"], "Series"),
			Points: parseChartPoints(m["data"]),
		}
		if len(s.Points) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func parseChartPoints(v any) []ChartPoint {
	switch data := v.(type) {
	case []float64:
		return scalarPoints(data)
	case []int:
		return scalarPoints(data)
	case []int64:
		return scalarPoints(data)
	case []map[string]any:
		points := make([]ChartPoint, 0, len(data))
		for _, m := range data {
			points = append(points, pointFromMap(m))
		}
		return points
	case []any:
		points := make([]ChartPoint, 0, len(data))
		for _, item := range data {
			if p, ok := pointFrom(item); ok {
				points = append(points, p)
			}
		}
		return points
	}
	return nil
}

func scalarPoints[T int | int64 | float64](values []T) []ChartPoint {
	points := make([]ChartPoint, len(values))
	for i, v := range values {
		points[i].Value = float64(v)
	}
	return points
}

// pointFrom accepts a number, an [x, y] pair or a {name, value, x, y} map.
func pointFrom(item any) (ChartPoint, bool) {
	if n, ok := numberValue(item); ok {
		return ChartPoint{Value: n}, true
	}
	switch val := item.(type) {
	case map[string]any:
		return pointFromMap(val), true
	case []float64:
		if len(val) >= 2 {
			return ChartPoint{Pair: val[:2]}, true
		}
	case []any:
		if len(val) >= 2 {
			return ChartPoint{Pair: []float64{float64Value(val[0]), float64Value(val[1])}}, true
		}
	}
	return ChartPoint{}, false
}

func pointFromMap(m map[string]any) ChartPoint {
	p := ChartPoint{
		Label: stringValue(m["name"], ""),
		Value: float64Value(m["value"]),
	}
	x, hasX := m["x"]
	y, hasY := m["y"]
	if hasX && hasY {
		p.Pair = []float64{float64Value(x), float64Value(y)}
	}
	return p
}

// inferredAxisLabels labels the x axis from the longest series, numbering
// points that carry no label.
func inferredAxisLabels(series []ChartSeries) []string {
	var longest []ChartPoint
	for _, s := range series {
		if len(s.Points) > len(longest) {
			longest = s.Points
		}
	}
	if len(longest) == 0 {
		return nil
	}
	labels := make([]string, len(longest))
	for i, p := range longest {
		labels[i] = p.Label
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("Item %d", i+1)
		}
	}
	return labels
}

func mapsOf(v any) []map[string]any {
	switch val := v.(type) {
	case []map[string]any:
		return val
	case []any:
		out := make([]map[string]any, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func stringSliceValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func float64Value(v any) float64 {
	if n, ok := numberValue(v); ok {
		return n
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// numberValue reports whether v is numeric. YAML yields int, JSON float64 or
// json.Number.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(val))
		return b
	}
	n, ok := numberValue(v)
	return ok && n != 0
}
