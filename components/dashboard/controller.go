package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goliatone/go-nexus/pkg/brand"
	"github.com/goliatone/go-nexus/pkg/directory"
	"github.com/goliatone/go-nexus/pkg/navigation"
)

// Page names a console screen.
type Page string

const (
	PageOverview Page = "overview"
	PageUsers    Page = "users"
	PageRoles    Page = "roles"
	PageSettings Page = "settings"
)

// Path is the menu path of the page, relative to the console base path.
func (p Page) Path() string {
	if p == PageOverview || p == "" {
		return "/"
	}
	return "/" + string(p)
}

var errUnknownPage = errors.New("dashboard: unknown page")

// LayoutResolver resolves widget layouts for a viewer.
type LayoutResolver interface {
	ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error)
}

// ControllerOptions wires the controller. Only Service and Renderer are
// needed to render the overview; the rest default to the demo data.
type ControllerOptions struct {
	Service       LayoutResolver
	Renderer      Renderer
	Template      string
	Pages         map[Page]string
	Navigation    *navigation.SessionStore
	Directory     *directory.Directory
	Brand         brand.Config
	Shell         ShellSource
	Theme         ThemeProvider
	ThemeSelector ThemeSelectorFunc
	DefaultTheme  ThemeMode
	BasePath      string
	AssetsHost    string
	Clock         func() time.Time
	// WidgetTemplates maps a definition code to the template that renders
	// it, for widgets whose name has no matching file under widgets/.
	WidgetTemplates map[string]string
}

// Controller renders console pages.
type Controller struct {
	opts ControllerOptions
}

// NewController applies defaults and returns a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = "dashboard.html"
	}
	pages := map[Page]string{
		PageOverview: opts.Template,
		PageUsers:    "users.html",
		PageRoles:    "roles.html",
		PageSettings: "settings.html",
	}
	for page, name := range opts.Pages {
		pages[page] = name
	}
	opts.Pages = pages
	if opts.Brand.Name == "" {
		opts.Brand = brand.Default()
	}
	if opts.Navigation == nil {
		opts.Navigation = navigation.NewSessionStore(navigation.DefaultTree())
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Directory == nil {
		opts.Directory = directory.Sample(opts.Clock())
	}
	if opts.DefaultTheme == "" {
		opts.DefaultTheme = ThemeDark
	}
	if opts.Theme == nil {
		opts.Theme = BrandThemeProvider{Brand: opts.Brand, Default: opts.DefaultTheme}
	}
	if opts.ThemeSelector == nil {
		opts.ThemeSelector = SelectorForViewer
	}
	if opts.AssetsHost == "" {
		opts.AssetsHost = DefaultEChartsAssetsHost
	}
	opts.BasePath = strings.TrimSuffix(opts.BasePath, "/")
	return &Controller{opts: opts}
}

// PageRequest describes one page render.
type PageRequest struct {
	Page      Page
	Viewer    ViewerContext
	SessionID string
	Filter    directory.Filter
}

// RenderTemplate renders the overview page.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	return c.RenderPage(ctx, PageRequest{Page: PageOverview, Viewer: viewer}, out)
}

// RenderPage resolves the page payload and executes its template into out.
func (c *Controller) RenderPage(ctx context.Context, req PageRequest, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	name, ok := c.opts.Pages[req.Page]
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownPage, req.Page)
	}
	payload, err := c.PagePayload(ctx, req)
	if err != nil {
		return err
	}
	if theme, ok := payload["theme"].(map[string]any); ok {
		if override, ok := theme["template"].(string); ok && override != "" {
			name = override
		}
	}
	_, err = c.opts.Renderer.Render(name, payload, out)
	return err
}

// LayoutPayload is the JSON form of the overview widget layout.
func (c *Controller) LayoutPayload(ctx context.Context, viewer ViewerContext) (map[string]any, error) {
	if c.opts.Service == nil {
		return nil, errors.New("dashboard: controller requires a layout service")
	}
	layout, err := c.opts.Service.ConfigureLayout(ctx, viewer)
	if err != nil {
		return nil, err
	}
	areas := make(map[string]any, len(layout.Areas))
	for _, code := range defaultAreas {
		areas[areaKey(code)] = c.widgetViews(layout.Areas[code])
	}
	for code, widgets := range layout.Areas {
		if _, ok := areas[areaKey(code)]; !ok {
			areas[areaKey(code)] = c.widgetViews(widgets)
		}
	}
	return map[string]any{
		"areas":     areas,
		"locale":    viewer.Locale,
		"theme":     string(c.themeMode(viewer)),
		"generated": c.opts.Clock().UTC().Format(time.RFC3339),
	}, nil
}

// PagePayload builds the template data for req: the shell (brand, menu, top
// bar, theme) plus the page body.
func (c *Controller) PagePayload(ctx context.Context, req PageRequest) (map[string]any, error) {
	if _, ok := c.opts.Pages[req.Page]; !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownPage, req.Page)
	}
	req.Viewer.Theme = c.themeMode(req.Viewer)
	now := c.opts.Clock()

	menu := c.opts.Navigation.Menu(req.SessionID, req.Page.Path())
	topbar, err := BuildTopBar(ctx, c.opts.Shell, req.Viewer, now)
	if err != nil {
		return nil, fmt.Errorf("dashboard: top bar: %w", err)
	}
	theme, err := c.resolveTheme(ctx, req.Viewer, req.Page)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"page":        string(req.Page),
		"brand":       c.opts.Brand,
		"base_path":   c.opts.BasePath,
		"session_id":  req.SessionID,
		"menu":        menu,
		"topbar":      topbar,
		"theme":       theme,
		"viewer":      req.Viewer,
		"assets_host": c.opts.AssetsHost,
	}
	if item, ok := menu.ActiveItem(); ok {
		payload["title"] = item.Title
	}

	switch req.Page {
	case PageOverview:
		layout, err := c.LayoutPayload(ctx, req.Viewer)
		if err != nil {
			return nil, err
		}
		payload["layout"] = layout
	case PageUsers:
		users := c.opts.Directory.Users(req.Filter)
		selected := c.opts.Directory.Selected(req.SessionID)
		picked := make(map[string]bool, len(selected))
		for _, id := range selected {
			picked[id] = true
		}
		allSelected := len(users) > 0
		rows := make([]map[string]any, 0, len(users))
		for _, u := range users {
			allSelected = allSelected && picked[u.ID]
			rows = append(rows, map[string]any{
				"user":        u,
				"selected":    picked[u.ID],
				"initials":    u.Initials(),
				"status":      u.Status.Label(),
				"status_icon": u.Status.Icon(),
				"tone":        string(u.Status.Tone()),
				"last_active": u.LastActiveLabel(now),
			})
		}
		payload["users"] = rows
		payload["counts"] = c.opts.Directory.Counts()
		payload["selected"] = selected
		payload["all_selected"] = allSelected
		payload["filter"] = req.Filter
		payload["statuses"] = directory.Statuses()
	case PageRoles:
		roles := c.opts.Directory.Roles()
		payload["roles"] = roles
		payload["matrix"] = directory.Matrix(roles)
	case PageSettings:
		payload["features"] = c.opts.Brand.Features
		payload["levels"] = c.opts.Brand.Levels
		payload["xp_per_action"] = c.opts.Brand.XPPerAction
	}
	return payload, nil
}

func (c *Controller) themeMode(viewer ViewerContext) ThemeMode {
	mode := viewer.Theme
	if mode == "" {
		mode = c.opts.DefaultTheme
	}
	if mode == ThemeDark && !c.opts.Brand.Features.DarkMode {
		mode = ThemeLight
	}
	return mode
}

func (c *Controller) resolveTheme(ctx context.Context, viewer ViewerContext, page Page) (map[string]any, error) {
	mode := c.themeMode(viewer)
	out := map[string]any{
		"mode":   string(mode),
		"class":  mode.Class(),
		"toggle": string(mode.Toggle()),
		"chart":  mode.ChartTheme(),
	}
	selection, err := c.opts.Theme.SelectTheme(ctx, c.opts.ThemeSelector(ctx, viewer))
	if err != nil {
		return nil, fmt.Errorf("dashboard: select theme: %w", err)
	}
	if selection == nil {
		return out, nil
	}
	out["name"] = selection.Name
	out["css_vars"] = selection.CSSVariablesInline()
	out["assets"] = selection.Assets.Resolved()
	if selection.ChartTheme != "" {
		out["chart"] = selection.ChartTheme
	}
	if tpl := selection.TemplatePath(string(page)); tpl != "" {
		out["template"] = tpl
	}
	return out, nil
}

func (c *Controller) widgetViews(widgets []WidgetInstance) []map[string]any {
	views := make([]map[string]any, 0, len(widgets))
	for _, w := range widgets {
		view := map[string]any{
			"id":            w.ID,
			"definition":    w.DefinitionID,
			"template":      c.widgetTemplate(w.DefinitionID),
			"area":          w.AreaCode,
			"configuration": w.Configuration,
			"data":          w.Data(),
		}
		if width, ok := w.Metadata["width"]; ok {
			view["width"] = width
		}
		if hidden, ok := w.Metadata["hidden"].(bool); ok && hidden {
			view["hidden"] = true
		}
		views = append(views, view)
	}
	return views
}

// widgetTemplate maps "admin.widget.xp_progress" to "widgets/xp_progress.html"
// unless WidgetTemplates names another template.
func (c *Controller) widgetTemplate(definition string) string {
	if name, ok := c.opts.WidgetTemplates[definition]; ok && name != "" {
		return name
	}
	name := definition
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return "widgets/" + name + ".html"
}

// areaKey maps "admin.dashboard.main" to "main".
func areaKey(code string) string {
	if idx := strings.LastIndex(code, "."); idx >= 0 {
		return code[idx+1:]
	}
	return code
}
