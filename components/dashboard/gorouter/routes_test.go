package gorouter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-nexus/components/dashboard"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"es-MX,es;q=0.9,en;q=0.8": "es",
		" EN ":                    "en",
		"*;q=0.5, fr":             "fr",
		"pt-BR":                   "pt",
	}
	for header, want := range cases {
		assert.Equal(t, want, parseAcceptLanguage(header), "header %q", header)
	}
}

func TestDefaultRouteConfigKeepsOverrides(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{NavToggle: "/menu/toggle"})
	assert.Equal(t, "/menu/toggle", routes.NavToggle)
	assert.Equal(t, "/nav/rail", routes.NavRail)
	assert.Equal(t, "/dashboard/widgets/:id", routes.WidgetID)
	assert.Equal(t, "/dashboard/ws", routes.WebSocket)
}

func TestPageRoutesCoverMenuPaths(t *testing.T) {
	for path, page := range pageRoutes {
		assert.Equal(t, path, page.Path())
	}
	assert.Equal(t, dashboard.PageOverview, pageRoutes["/"])
}

func TestDefaultRouteConfigQueryPaths(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{Heatmap: "/stats/heatmap"})
	assert.Equal(t, "/stats/heatmap", routes.Heatmap)
	assert.Equal(t, "/dashboard/layout", routes.LayoutData)
	assert.Equal(t, "/dashboard/areas/:code", routes.Area)
	assert.Equal(t, "/nav/menu", routes.Menu)
	assert.Equal(t, "/users/data", routes.UsersData)
	assert.Equal(t, "/me/progress", routes.Progress)
	assert.Equal(t, "/users/select", routes.UserSelect)
	assert.Equal(t, "/users/select-all", routes.UsersSelect)
}
