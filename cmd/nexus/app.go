package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/components/dashboard/commands"
	"github.com/goliatone/go-nexus/components/dashboard/gorouter"
	"github.com/goliatone/go-nexus/components/dashboard/httpapi"
	"github.com/goliatone/go-nexus/components/dashboard/queries"
	"github.com/goliatone/go-nexus/components/dashboard/sqlitestore"
	"github.com/goliatone/go-nexus/pkg/admin"
	"github.com/goliatone/go-nexus/pkg/analytics"
	"github.com/goliatone/go-nexus/pkg/brand"
	"github.com/goliatone/go-nexus/pkg/config"
	"github.com/goliatone/go-nexus/pkg/directory"
	"github.com/goliatone/go-nexus/pkg/logging"
	"github.com/goliatone/go-nexus/pkg/navigation"
)

const shutdownTimeout = 10 * time.Second

// defaultViewer is the identity used when no auth middleware sets one.
var defaultViewer = dashboard.ViewerContext{UserID: "alex", Roles: []string{"admin"}, Locale: "en"}

type app struct {
	cfg       config.Config
	logger    *zap.Logger
	service   *dashboard.Service
	sessions  *navigation.SessionStore
	broadcast *dashboard.BroadcastHook
	reader    *httpapi.QueryReader
	server    router.Server[*fiber.App]
	api       *http.Server
	closers   []func() error
}

type appOptions struct {
	SeedLayout bool
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, logger: logger}
	if err := a.build(ctx, opts); err != nil {
		return nil, multierr.Append(err, a.Close())
	}
	return a, nil
}

func (a *app) build(ctx context.Context, opts appOptions) error {
	cfg := a.cfg
	telemetry := logging.NewTelemetry(a.logger)

	brandCfg, err := brand.LoadFile(cfg.BrandFile)
	if err != nil {
		return err
	}
	store, prefs, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	sources, err := providerSources(cfg, brandCfg)
	if err != nil {
		return err
	}
	registry := dashboard.NewRegistry(dashboard.WithSources(sources))
	for _, path := range cfg.Manifests {
		doc, err := registry.LoadManifestFile(path)
		if err != nil {
			return err
		}
		a.logger.Info("widget manifest loaded", zap.String("path", path), zap.Int("widgets", len(doc.Widgets)))
	}

	var translator dashboard.TranslationService
	if cfg.Translations != "" {
		catalog, err := dashboard.LoadCatalog(cfg.Translations)
		if err != nil {
			return err
		}
		translator = catalog
	}

	a.broadcast = dashboard.NewBroadcastHook()
	a.service = dashboard.NewService(dashboard.Options{
		WidgetStore:     store,
		PreferenceStore: prefs,
		Providers:       registry,
		Translator:      translator,
		Authorizer:      dashboard.FeatureAuthorizer{Features: brandCfg.Features, Definitions: registry},
		RefreshHook:     dashboard.RefreshHooks{a.broadcast, dashboard.TelemetryHook{Telemetry: telemetry}},
		Telemetry:       telemetry,
		ProviderTimeout: cfg.ProviderTimeout,
	})
	a.sessions = navigation.NewSessionStore(navigation.DefaultTree())

	console, err := admin.New(admin.Config{
		EnableDashboard: true,
		MenuBuilder:     admin.NewNavigationMenuBuilder(a.sessions),
		Service:         a.service,
		Store:           store,
		Registry:        registry,
		Telemetry:       telemetry,
		SeedLayout:      opts.SeedLayout,
	})
	if err != nil {
		return err
	}
	if err := console.Bootstrap(ctx); err != nil {
		return fmt.Errorf("nexus: bootstrap: %w", err)
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return err
	}
	dir := directory.Sample(time.Now())
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:      a.service,
		Renderer:     renderer,
		Navigation:   a.sessions,
		Directory:    dir,
		Brand:        brandCfg,
		BasePath:     cfg.BasePath,
		AssetsHost:   dashboard.ChartAssetsHost(cfg.EChartsCDN),
		DefaultTheme: dashboard.ParseThemeMode(cfg.Theme, dashboard.ThemeDark),

		WidgetTemplates: registry.WidgetTemplates(),
	})

	executor := newExecutor(a.service, a.sessions, dir, telemetry)
	progress := sources.Progress
	if progress == nil {
		progress = dashboard.NewDemoProgressSource()
	}
	a.reader = &httpapi.QueryReader{
		LayoutQuerier:   queries.NewLayoutQuery(a.service),
		AreaQuerier:     queries.NewWidgetAreaQuery(a.service),
		MenuQuerier:     queries.NewMenuQuery(a.sessions),
		UsersQuerier:    queries.NewUsersQuery(dir),
		ProgressQuerier: queries.NewProgressQuery(progress, brandCfg.Levels, brandCfg.Achievements),
		HeatmapQuerier:  queries.NewHeatmapQuery(progress),
	}
	a.server = router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:        a.server.Router(),
		Controller:    controller,
		API:           executor,
		Queries:       a.reader,
		Broadcast:     a.broadcast,
		BasePath:      cfg.BasePath,
		DefaultViewer: defaultViewer,
	}); err != nil {
		return err
	}

	if cfg.APIAddr != "" {
		handlers := &httpapi.Handlers{
			Assign:  executor.AssignCommander,
			Update:  executor.UpdateCommander,
			Remove:  executor.RemoveCommander,
			Reorder: executor.ReorderCommander,
			Refresh: executor.RefreshCommander,
		}
		a.api = &http.Server{
			Addr:              cfg.APIAddr,
			Handler:           handlers.Mux("/api", a.broadcast),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return nil
}

func newExecutor(service *dashboard.Service, sessions *navigation.SessionStore, dir *directory.Directory, telemetry commands.Telemetry) *httpapi.CommandExecutor {
	return &httpapi.CommandExecutor{
		AssignCommander:      commands.NewAssignWidgetCommand(service, telemetry),
		UpdateCommander:      commands.NewUpdateWidgetCommand(service, telemetry),
		RemoveCommander:      commands.NewRemoveWidgetCommand(service, telemetry),
		ReorderCommander:     commands.NewReorderWidgetsCommand(service, telemetry),
		RefreshCommander:     commands.NewRefreshWidgetCommand(service, telemetry),
		PreferencesCommander: commands.NewSaveLayoutPreferencesCommand(service, telemetry),
		ToggleNavCommander:   commands.NewToggleNavGroupCommand(sessions, telemetry),
		RailCommander:        commands.NewSetRailCollapsedCommand(sessions, telemetry),
		SelectUserCommander:  commands.NewToggleUserSelectionCommand(dir, telemetry),
		SelectAllCommander:   commands.NewToggleAllUsersCommand(dir, telemetry),
	}
}

// openStore returns the configured widget and preference stores. The closer
// is nil for the in-memory store.
func openStore(ctx context.Context, cfg config.Config) (dashboard.WidgetStore, dashboard.PreferenceStore, func() error, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sqlitestore.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, nil, nil, multierr.Append(err, store.Close())
		}
		return store, store, store.Close, nil
	default:
		return dashboard.NewMemoryWidgetStore(), dashboard.NewInMemoryPreferenceStore(), nil, nil
	}
}

// providerSources points stat cards, the security overview and member
// progress at the reporting backend when one is configured.
func providerSources(cfg config.Config, brandCfg brand.Config) (dashboard.ProviderSources, error) {
	sources := dashboard.ProviderSources{
		Brand:        brandCfg,
		HeatmapWeeks: cfg.HeatmapWeeks,
		BasePath:     cfg.BasePath,
		ChartOptions: []dashboard.EChartsProviderOption{
			dashboard.WithChartCache(dashboard.NewChartCache(cfg.ChartCacheTTL)),
			dashboard.WithChartAssetsHost(dashboard.ChartAssetsHost(cfg.EChartsCDN)),
		},
	}
	if cfg.AnalyticsURL == "" {
		return sources, nil
	}
	client, err := analyticsClient(cfg)
	if err != nil {
		return dashboard.ProviderSources{}, err
	}
	sources.Stats = analytics.NewStatsRepository(client)
	sources.Security = analytics.NewSecurityRepository(client)
	sources.Progress = analytics.NewProgressSource(client, cfg.HeatmapWeeks)
	return sources, nil
}

func analyticsClient(cfg config.Config) (*analytics.HTTPClient, error) {
	return analytics.NewHTTPClient(analytics.HTTPConfig{
		BaseURL: cfg.AnalyticsURL,
		APIKey:  cfg.AnalyticsKey,
		Timeout: cfg.AnalyticsTimeout,
	})
}

// Run serves the console, and the standalone API when configured, until ctx
// is cancelled or a listener fails.
func (a *app) Run(ctx context.Context) error {
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		a.logger.Info("console listening", zap.String("addr", a.cfg.Addr), zap.String("base_path", a.cfg.BasePath))
		return a.server.Serve(a.cfg.Addr)
	})
	if a.api != nil {
		group.Go(func() error {
			a.logger.Info("api listening", zap.String("addr", a.api.Addr))
			if err := a.api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	group.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		a.broadcast.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(shutdownCtx)
		if a.api != nil {
			err = multierr.Append(err, a.api.Shutdown(shutdownCtx))
		}
		return err
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the store.
func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	a.closers = nil
	return err
}
