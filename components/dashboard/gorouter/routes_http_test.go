package gorouter

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/components/dashboard/commands"
	"github.com/goliatone/go-nexus/components/dashboard/httpapi"
	"github.com/goliatone/go-nexus/components/dashboard/queries"
	"github.com/goliatone/go-nexus/pkg/directory"
)

func newTestApp(t *testing.T) (*fiber.App, *directory.Directory) {
	t.Helper()
	dir := directory.Sample(time.Now())
	progress := dashboard.NewDemoProgressSource()
	server := router.NewFiberAdapter()
	err := Register(Config[*fiber.App]{
		Router:     server.Router(),
		Controller: dashboard.NewController(dashboard.ControllerOptions{Directory: dir}),
		API: &httpapi.CommandExecutor{
			SelectUserCommander: commands.NewToggleUserSelectionCommand(dir, nil),
			SelectAllCommander:  commands.NewToggleAllUsersCommand(dir, nil),
		},
		Queries: &httpapi.QueryReader{
			UsersQuerier:   queries.NewUsersQuery(dir),
			HeatmapQuerier: queries.NewHeatmapQuery(progress),
		},
		DefaultViewer: dashboard.ViewerContext{UserID: "alex"},
	})
	require.NoError(t, err)
	return server.WrappedRouter(), dir
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, payload
}

func TestUserSelectionRoutes(t *testing.T) {
	app, dir := newTestApp(t)

	code, body := do(t, app, http.MethodPost, "/admin/users/select?session=s1", `{"user_id":"2"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	var result commands.UserSelectionResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, []string{"2"}, result.Selected)

	code, _ = do(t, app, http.MethodPost, "/admin/users/select?session=s1", `{"user_id":"99"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, app, http.MethodPost, "/admin/users/select-all?session=s2", `{"status":"active"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 3, result.Count)

	code, body = do(t, app, http.MethodGet, "/admin/users/data?session=s1", "")
	require.Equal(t, http.StatusOK, code, string(body))
	var users queries.UsersResult
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Equal(t, []string{"2"}, users.Selected)
	assert.Equal(t, 2, dir.Selections())
}

func TestHeatmapRouteRejectsOversizedWindow(t *testing.T) {
	app, _ := newTestApp(t)

	code, body := do(t, app, http.MethodGet, "/admin/me/heatmap?weeks=4", "")
	require.Equal(t, http.StatusOK, code, string(body))
	var payload struct {
		Weeks int `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, 4, payload.Weeks)

	for _, weeks := range []string{"54", "10000000", "-2"} {
		code, _ := do(t, app, http.MethodGet, "/admin/me/heatmap?weeks="+weeks, "")
		assert.Equal(t, http.StatusBadRequest, code, "weeks=%s", weeks)
	}
}
