// Package config loads process settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

var ErrInvalid = errors.New("config: invalid value")

// Config is the runtime configuration of the console.
type Config struct {
	Addr          string        `env:"NEXUS_ADDR" envDefault:":8080"`
	APIAddr       string        `env:"NEXUS_API_ADDR"`
	BasePath      string        `env:"NEXUS_BASE_PATH" envDefault:"/admin"`
	BrandFile     string        `env:"NEXUS_BRAND_FILE"`
	Store         string        `env:"NEXUS_STORE" envDefault:"memory"`
	SQLiteDSN     string        `env:"NEXUS_SQLITE_DSN" envDefault:"file:nexus?mode=memory&cache=shared"`
	LogLevel      string        `env:"NEXUS_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"NEXUS_LOG_FORMAT" envDefault:"json"`
	HeatmapWeeks  int           `env:"NEXUS_HEATMAP_WEEKS" envDefault:"12"`
	ChartCacheTTL time.Duration `env:"NEXUS_CHART_CACHE_TTL" envDefault:"5m"`
	EChartsCDN    string        `env:"NEXUS_ECHARTS_CDN"`
	Theme         string        `env:"NEXUS_THEME" envDefault:"dark"`
	// ProviderTimeout bounds each widget data fetch. Zero disables it.
	ProviderTimeout time.Duration `env:"NEXUS_PROVIDER_TIMEOUT" envDefault:"5s"`
	// Manifests lists widget manifest files loaded into the registry.
	Manifests []string `env:"NEXUS_MANIFESTS" envSeparator:","`
	// Translations is a YAML catalog of widget labels per locale.
	Translations string `env:"NEXUS_TRANSLATIONS"`

	// Reporting backend for stat cards, security and member progress. Empty
	// AnalyticsURL keeps the bundled demo data.
	AnalyticsURL     string        `env:"NEXUS_ANALYTICS_URL"`
	AnalyticsKey     string        `env:"NEXUS_ANALYTICS_KEY"`
	AnalyticsTimeout time.Duration `env:"NEXUS_ANALYTICS_TIMEOUT" envDefault:"10s"`
}

// Load reads files (".env" when none are given) into the process
// environment, then parses Config. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromMap parses Config from vars alone, ignoring the process environment.
func FromMap(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and enums.
func (c Config) Validate() error {
	if c.HeatmapWeeks <= 0 || c.HeatmapWeeks > gamification.MaxHeatmapWeeks {
		return fmt.Errorf("%w: NEXUS_HEATMAP_WEEKS must be in 1..%d, got %d", ErrInvalid, gamification.MaxHeatmapWeeks, c.HeatmapWeeks)
	}
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("%w: NEXUS_STORE must be %q or %q, got %q", ErrInvalid, StoreMemory, StoreSQLite, c.Store)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: NEXUS_LOG_FORMAT must be json or console, got %q", ErrInvalid, c.LogFormat)
	}
	switch c.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: NEXUS_THEME must be light or dark, got %q", ErrInvalid, c.Theme)
	}
	if c.ChartCacheTTL < 0 {
		return fmt.Errorf("%w: NEXUS_CHART_CACHE_TTL must not be negative", ErrInvalid)
	}
	if c.ProviderTimeout < 0 {
		return fmt.Errorf("%w: NEXUS_PROVIDER_TIMEOUT must not be negative", ErrInvalid)
	}
	if c.AnalyticsURL != "" && c.AnalyticsTimeout <= 0 {
		return fmt.Errorf("%w: NEXUS_ANALYTICS_TIMEOUT must be > 0", ErrInvalid)
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("%w: NEXUS_BASE_PATH must start with /, got %q", ErrInvalid, c.BasePath)
	}
	return nil
}

// Route joins the base path with suffix.
func (c Config) Route(suffix string) string {
	base := strings.TrimSuffix(c.BasePath, "/")
	if suffix == "" || suffix == "/" {
		if base == "" {
			return "/"
		}
		return base
	}
	return base + "/" + strings.TrimPrefix(suffix, "/")
}
