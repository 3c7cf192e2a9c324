package dashboard

import "strings"

// DefaultEChartsAssetsHost is where chart pages load the ECharts runtime and
// themes from unless an override is configured.
const DefaultEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// ChartAssetsHost returns override (NEXUS_ECHARTS_CDN) with a trailing slash,
// or the default host when override is blank.
func ChartAssetsHost(override string) string {
	if host := strings.TrimSpace(override); host != "" {
		return ensureTrailingSlash(host)
	}
	return DefaultEChartsAssetsHost
}

func ensureTrailingSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
