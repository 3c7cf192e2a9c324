package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-nexus/components/dashboard"
)

func TestScaffoldWritesManifestAndStub(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "widgets.yaml")
	stub := filepath.Join(dir, "providers", "badges_provider.go")

	cmd := &scaffoldCmd{
		Code:            "nexus.widget.badges",
		Name:            "Badges",
		Description:     "Badges earned this month.",
		Category:        "gamification",
		ManifestPath:    manifest,
		ProviderPackage: "github.com/acme/console/providers",
		ProviderOut:     stub,
	}
	require.NoError(t, cmd.Run(context.Background()))

	doc, err := dashboard.ReadManifest(manifest)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	assert.Equal(t, "Badges", doc.Widgets[0].Definition.Name)
	assert.Equal(t, "github.com/acme/console/providers.NewBadgesProvider", doc.Widgets[0].Provider.Entry)

	src, err := os.ReadFile(stub)
	require.NoError(t, err)
	assert.Contains(t, string(src), "package providers")
	assert.Contains(t, string(src), `"github.com/goliatone/go-nexus/components/dashboard"`)
	assert.Contains(t, string(src), "func NewBadgesProvider() dashboard.Provider")
	assert.Contains(t, string(src), `"title":     "Badges"`)

	err = cmd.Run(context.Background())
	require.Error(t, err, "second scaffold without --overwrite must fail")
}

func TestProviderStubInDashboardPackage(t *testing.T) {
	src := providerStub("dashboard", "StreakBoardProvider", "admin.widget.streak_board", "Streak Board")
	assert.Contains(t, src, "package dashboard")
	assert.NotContains(t, src, "dashboard.Provider")
	assert.Contains(t, src, "func NewStreakBoardProvider() Provider")
}

func TestDeriveNames(t *testing.T) {
	assert.Equal(t, "WeeklyScore", deriveBaseName("admin.widget.weekly_score"))
	assert.Equal(t, "admin_widget_weekly_score", sanitizeFileName("admin.widget.weekly-score"))
	assert.Equal(t, "providers", packageName(filepath.Join("components", "dashboard", "providers", "x.go")))
	assert.Equal(t, "dashboard", packageName("x.go"))
}

func TestScaffoldRejectsBareCode(t *testing.T) {
	cmd := &scaffoldCmd{Code: "badges"}
	require.Error(t, cmd.validate())
}

func TestCheckDocsManifests(t *testing.T) {
	var out bytes.Buffer
	cmd := &checkCmd{Paths: []string{filepath.Join("..", "..", "docs", "manifests")}, out: &out}
	require.NoError(t, cmd.Run(context.Background()))
	assert.Contains(t, out.String(), "leaderboard.yaml (2 widgets)")
}

func TestCheckReportsCollisions(t *testing.T) {
	dir := t.TempDir()
	builtin := dashboard.DefaultWidgetDefinitions()[0].Code
	writeFile(t, filepath.Join(dir, "a.yaml"), "version: \"1\"\nwidgets:\n  - definition:\n      code: acme.widget.one\n      name: One\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "version: \"1\"\nwidgets:\n  - definition:\n      code: acme.widget.one\n      name: Again\n  - definition:\n      code: "+builtin+"\n      name: Shadow\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	files, err := manifestFiles([]string{dir})
	require.NoError(t, err)
	require.Len(t, files, 2)

	report, err := checkManifests(files)
	require.Error(t, err)
	assert.Len(t, report, 1)
	assert.True(t, strings.HasSuffix(report[0], "a.yaml (1 widgets)"))
	assert.Contains(t, err.Error(), "acme.widget.one already defined by")
	assert.Contains(t, err.Error(), builtin+" already defined by built-in")
}

func TestCheckReportsBadSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "version: \"1\"\nwidgets:\n  - definition:\n      code: acme.widget.bad\n      name: Bad\n      schema:\n        type: bogus\n")
	_, err := checkManifests([]string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme.widget.bad")
}

func TestCheckReportsUnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmpl.yaml")
	writeFile(t, path, "version: \"1\"\nwidgets:\n  - definition:\n      code: acme.widget.tmpl\n      name: Tmpl\n    template: widgets/nope.html\n")
	_, err := checkManifests([]string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template widgets/nope.html")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestListIncludesManifestWidgets(t *testing.T) {
	rows, err := widgetRows([]string{filepath.Join("..", "..", "docs", "manifests", "leaderboard.yaml")}, "en")
	require.NoError(t, err)

	byCode := map[string]widgetRow{}
	for _, r := range rows {
		byCode[r.Code] = r
	}
	builtin := dashboard.DefaultWidgetDefinitions()[0].Code
	assert.True(t, byCode[builtin].Provider)
	assert.Len(t, rows, len(dashboard.DefaultWidgetDefinitions())+2)

	var out bytes.Buffer
	cmd := &listCmd{JSON: true, out: &out}
	require.NoError(t, cmd.Run(context.Background()))
	assert.Contains(t, out.String(), `"code": "`+builtin+`"`)
}
