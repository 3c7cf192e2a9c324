package dashboard

import (
	"context"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-nexus/pkg/brand"
)

// ThemeMode is the colour scheme of a rendered page. It travels with the
// ViewerContext of each request; there is no process-wide mode.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ParseThemeMode returns the mode named by value, or fallback when value is
// not a known mode.
func ParseThemeMode(value string, fallback ThemeMode) ThemeMode {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeLight:
		return ThemeLight
	case ThemeDark:
		return ThemeDark
	}
	return fallback
}

// Toggle returns the opposite mode. The zero mode toggles to dark.
func (m ThemeMode) Toggle() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Class is the class set on the document root.
func (m ThemeMode) Class() string {
	if m == ThemeDark {
		return "dark"
	}
	return ""
}

// ChartTheme picks the ECharts theme matching the mode.
func (m ThemeMode) ChartTheme() string {
	if m == ThemeDark {
		return types.ThemeChalk
	}
	return types.ThemeWesteros
}

// ChartThemeForViewer resolves chart themes from the viewer's mode. Use it with
// WithChartThemeResolver.
func ChartThemeForViewer(viewer ViewerContext) string {
	if viewer.Theme == "" {
		return ""
	}
	return viewer.Theme.ChartTheme()
}

// ThemeProvider resolves brand tokens and assets for a selector. It is
// optional; without one pages render with the stock stylesheet.
type ThemeProvider interface {
	SelectTheme(ctx context.Context, selector ThemeSelector) (*ThemeSelection, error)
}

// ThemeSelectorFunc chooses the theme name/variant for a given viewer.
type ThemeSelectorFunc func(ctx context.Context, viewer ViewerContext) ThemeSelector

// ThemeSelector describes the desired theme/variant.
type ThemeSelector struct {
	Name    string
	Variant string
}

// ThemeSelection carries resolved theme details (tokens, assets, templates).
type ThemeSelection struct {
	Name       string
	Variant    string
	Tokens     map[string]string
	Assets     ThemeAssets
	Templates  map[string]string
	ChartTheme string
}

// ThemeAssets provides asset metadata plus optional prefix/resolver.
type ThemeAssets struct {
	Values   map[string]string
	Prefix   string
	Resolver func(string) string
}

// AssetURL resolves the final URL for a named asset (logo, favicon, etc.).
func (assets ThemeAssets) AssetURL(name string) string {
	if len(assets.Values) == 0 {
		return ""
	}
	path := assets.Values[name]
	if path == "" {
		return ""
	}
	if assets.Resolver != nil {
		if resolved := assets.Resolver(path); resolved != "" {
			return resolved
		}
	}
	if assets.Prefix != "" {
		return strings.TrimRight(assets.Prefix, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return path
}

// Resolved returns a map of asset keys to resolved URLs.
func (assets ThemeAssets) Resolved() map[string]string {
	if len(assets.Values) == 0 {
		return nil
	}
	out := make(map[string]string, len(assets.Values))
	for key := range assets.Values {
		if url := assets.AssetURL(key); url != "" {
			out[key] = url
		}
	}
	return out
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme *ThemeSelection) CSSVariables() map[string]string {
	if theme == nil || len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the CSS variable map as a style string.
func (theme *ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	var builder strings.Builder
	for key, value := range vars {
		if value == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

// AssetURL resolves a named asset using the selection assets.
func (theme *ThemeSelection) AssetURL(name string) string {
	if theme == nil {
		return ""
	}
	return theme.Assets.AssetURL(name)
}

// TemplatePath retrieves a theme-specific template if present.
func (theme *ThemeSelection) TemplatePath(key string) string {
	if theme == nil || len(theme.Templates) == 0 {
		return ""
	}
	return theme.Templates[key]
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

// BrandThemeProvider derives a theme selection from brand identity. Variants
// are theme modes; unknown variants resolve to the default mode.
type BrandThemeProvider struct {
	Brand   brand.Config
	Default ThemeMode
	Tokens  map[ThemeMode]map[string]string
}

var _ ThemeProvider = BrandThemeProvider{}

func (p BrandThemeProvider) SelectTheme(_ context.Context, selector ThemeSelector) (*ThemeSelection, error) {
	fallback := p.Default
	if fallback == "" {
		fallback = ThemeDark
	}
	mode := ParseThemeMode(selector.Variant, fallback)
	if mode == ThemeDark && !p.Brand.Features.DarkMode {
		mode = ThemeLight
	}
	name := selector.Name
	if name == "" {
		name = p.Brand.ShortName
	}
	return &ThemeSelection{
		Name:    name,
		Variant: string(mode),
		Tokens:  p.Tokens[mode],
		Assets: ThemeAssets{Values: map[string]string{
			"logo":    p.Brand.LogoURL,
			"favicon": p.Brand.FaviconURL,
		}},
		ChartTheme: mode.ChartTheme(),
	}, nil
}

// SelectorForViewer asks for the viewer's own mode.
func SelectorForViewer(_ context.Context, viewer ViewerContext) ThemeSelector {
	return ThemeSelector{Variant: string(viewer.Theme)}
}
