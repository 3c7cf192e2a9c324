package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/components/dashboard/commands"
	"github.com/goliatone/go-nexus/components/dashboard/httpapi"
	"github.com/goliatone/go-nexus/components/dashboard/queries"
	"github.com/goliatone/go-nexus/pkg/directory"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the console pages, the widget API and the
// refresh stream.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Queries        httpapi.Reader
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	DefaultViewer  dashboard.ViewerContext
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for console endpoints.
type RouteConfig struct {
	HTML        string
	Layout      string
	Widgets     string
	WidgetID    string
	Reorder     string
	Refresh     string
	Preferences string
	NavToggle   string
	NavRail     string
	UserSelect  string
	UsersSelect string
	WebSocket   string
	LayoutData  string
	Area        string
	Menu        string
	UsersData   string
	Progress    string
	Heatmap     string
}

// pageRoutes maps the menu paths to the pages the controller renders.
var pageRoutes = map[string]dashboard.Page{
	"/":         dashboard.PageOverview,
	"/users":    dashboard.PageUsers,
	"/roles":    dashboard.PageRoles,
	"/settings": dashboard.PageSettings,
}

// Register mounts pages, the JSON API and the WebSocket stream on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver(cfg.DefaultViewer)
	}

	group := cfg.Router.Group(strings.TrimSuffix(base, "/"))

	for path, page := range pageRoutes {
		group.Get(path, pageHandler(cfg.Controller, page, viewerResolver))
	}
	group.Get(routes.HTML, pageHandler(cfg.Controller, dashboard.PageOverview, viewerResolver))

	group.Get(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		payload, err := cfg.Controller.LayoutPayload(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Queries != nil {
		registerQueries(group, cfg.Queries, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func pageHandler(controller *dashboard.Controller, page dashboard.Page, resolver ViewerResolver) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		req := dashboard.PageRequest{
			Page:      page,
			Viewer:    resolver(ctx),
			SessionID: sessionID(ctx),
		}
		if page == dashboard.PageUsers {
			req.Filter = directory.Filter{
				Query:  ctx.Query("q"),
				Status: ctx.Query("status"),
				Role:   ctx.Query("role"),
			}
		}
		var buf bytes.Buffer
		if err := controller.RenderPage(ctx.Context(), req, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	})
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload dashboard.AddWidgetRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondDecodeError(ctx, err)
		}
		if payload.UserID == "" {
			payload.UserID = resolver(ctx).UserID
		}
		if err := api.Assign(withActivity(ctx, resolver), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Post(routes.Reorder, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ReorderWidgetsInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondDecodeError(ctx, err)
		}
		if err := api.Reorder(withActivity(ctx, resolver), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "reordered"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondDecodeError(ctx, err)
		}
		if err := api.Refresh(withActivity(ctx, resolver), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Post(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "widget id is required"})
		}
		var payload commands.UpdateWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondDecodeError(ctx, err)
		}
		payload.WidgetID = id
		if err := api.Update(withActivity(ctx, resolver), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "widget id is required"})
		}
		if err := api.Remove(withActivity(ctx, resolver), commands.RemoveWidgetInput{WidgetID: id}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SaveLayoutPreferencesInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondDecodeError(ctx, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.Preferences(withActivity(ctx, resolver), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))

	r.Post(routes.NavToggle, router.WrapHandler(func(ctx router.Context) error {
		var body struct {
			Key string `json:"key"`
		}
		if err := json.Unmarshal(ctx.Body(), &body); err != nil {
			return respondDecodeError(ctx, err)
		}
		var result commands.NavStateResult
		input := commands.ToggleNavGroupInput{SessionID: sessionID(ctx), Key: body.Key, Result: &result}
		if err := api.ToggleNav(withActivity(ctx, resolver), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	r.Post(routes.NavRail, router.WrapHandler(func(ctx router.Context) error {
		var body struct {
			Collapsed bool `json:"collapsed"`
		}
		if err := json.Unmarshal(ctx.Body(), &body); err != nil {
			return respondDecodeError(ctx, err)
		}
		var result commands.NavStateResult
		input := commands.SetRailCollapsedInput{SessionID: sessionID(ctx), Collapsed: body.Collapsed, Result: &result}
		if err := api.SetRail(withActivity(ctx, resolver), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	r.Post(routes.UserSelect, router.WrapHandler(func(ctx router.Context) error {
		var body struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(ctx.Body(), &body); err != nil {
			return respondDecodeError(ctx, err)
		}
		var result commands.UserSelectionResult
		input := commands.ToggleUserSelectionInput{SessionID: sessionID(ctx), UserID: body.UserID, Result: &result}
		if err := api.SelectUser(withActivity(ctx, resolver), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	r.Post(routes.UsersSelect, router.WrapHandler(func(ctx router.Context) error {
		var filter directory.Filter
		if body := ctx.Body(); len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &filter); err != nil {
				return respondDecodeError(ctx, err)
			}
		}
		var result commands.UserSelectionResult
		input := commands.ToggleAllUsersInput{SessionID: sessionID(ctx), Filter: filter, Result: &result}
		if err := api.SelectAllUsers(withActivity(ctx, resolver), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))
}

func registerQueries[T any](r router.Router[T], reader httpapi.Reader, resolver ViewerResolver, routes RouteConfig) {
	r.Get(routes.LayoutData, router.WrapHandler(func(ctx router.Context) error {
		layout, err := reader.Layout(ctx.Context(), resolver(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, layout)
	}))

	r.Get(routes.Area, router.WrapHandler(func(ctx router.Context) error {
		area, err := reader.Area(ctx.Context(), queries.WidgetAreaInput{
			Viewer:   resolver(ctx),
			AreaCode: ctx.Param("code"),
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, area)
	}))

	r.Get(routes.Menu, router.WrapHandler(func(ctx router.Context) error {
		menu, err := reader.Menu(ctx.Context(), queries.MenuInput{
			SessionID: sessionID(ctx),
			Path:      ctx.Query("path"),
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, menu)
	}))

	r.Get(routes.UsersData, router.WrapHandler(func(ctx router.Context) error {
		users, err := reader.Users(ctx.Context(), queries.UsersInput{
			SessionID: sessionID(ctx),
			Filter: directory.Filter{
				Query:  ctx.Query("q"),
				Status: ctx.Query("status"),
				Role:   ctx.Query("role"),
			},
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, users)
	}))

	r.Get(routes.Progress, router.WrapHandler(func(ctx router.Context) error {
		result, err := reader.Progress(ctx.Context(), queries.ProgressInput{Viewer: resolver(ctx)})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	r.Get(routes.Heatmap, router.WrapHandler(func(ctx router.Context) error {
		weeks, err := queryInt(ctx, "weeks")
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		grid, err := reader.Heatmap(ctx.Context(), queries.HeatmapInput{Viewer: resolver(ctx), Weeks: weeks})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"weeks": len(grid), "grid": grid})
	}))
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(ctx router.Context, key string) (int, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return ws.Close()
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func withActivity(ctx router.Context, resolver ViewerResolver) context.Context {
	return dashboard.ContextWithActivity(ctx.Context(), dashboard.ActivityContext{
		ActorID:   resolver(ctx).UserID,
		SessionID: sessionID(ctx),
	})
}

// sessionID reads the navigation session from the query, the X-Session-ID
// header or a "session_id" local set by middleware. Requests without one get
// a fresh id, which starts a new fully collapsed menu.
func sessionID(ctx router.Context) string {
	if id := strings.TrimSpace(ctx.Query("session")); id != "" {
		return id
	}
	if id := strings.TrimSpace(ctx.Header("X-Session-ID")); id != "" {
		return id
	}
	if id, ok := ctx.Locals("session_id").(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	ctx.Locals("session_id", id)
	return id
}

func defaultViewerResolver(fallback dashboard.ViewerContext) ViewerResolver {
	return func(ctx router.Context) dashboard.ViewerContext {
		viewer := fallback
		if v, ok := ctx.Locals("user_id").(string); ok && v != "" {
			viewer.UserID = v
		}
		if roles, ok := ctx.Locals("roles").([]string); ok {
			viewer.Roles = roles
		}
		if locale := inferLocale(ctx); locale != "" {
			viewer.Locale = locale
		}
		viewer.Theme = dashboard.ParseThemeMode(ctx.Query("theme"), viewer.Theme)
		return viewer
	}
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

// parseAcceptLanguage returns the primary subtag of the first language in
// the header ("es-MX,es;q=0.9" is "es").
func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if idx := strings.Index(token, "-"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" && token != "*" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func respondDecodeError(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Layout == "" {
		routes.Layout = "/dashboard/_layout"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboard/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/dashboard/widgets/:id"
	}
	if routes.Reorder == "" {
		routes.Reorder = "/dashboard/widgets/reorder"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/widgets/refresh"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/dashboard/preferences"
	}
	if routes.NavToggle == "" {
		routes.NavToggle = "/nav/toggle"
	}
	if routes.NavRail == "" {
		routes.NavRail = "/nav/rail"
	}
	if routes.UserSelect == "" {
		routes.UserSelect = "/users/select"
	}
	if routes.UsersSelect == "" {
		routes.UsersSelect = "/users/select-all"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	if routes.LayoutData == "" {
		routes.LayoutData = "/dashboard/layout"
	}
	if routes.Area == "" {
		routes.Area = "/dashboard/areas/:code"
	}
	if routes.Menu == "" {
		routes.Menu = "/nav/menu"
	}
	if routes.UsersData == "" {
		routes.UsersData = "/users/data"
	}
	if routes.Progress == "" {
		routes.Progress = "/me/progress"
	}
	if routes.Heatmap == "" {
		routes.Heatmap = "/me/heatmap"
	}
	return routes
}
