// Package app assembles geoform-server from its configuration.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-geoform/api"
	"github.com/goliatone/go-geoform/internal/config"
	"github.com/goliatone/go-geoform/internal/httpapi"
	"github.com/goliatone/go-geoform/internal/metrics"
	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/address/memory"
	"github.com/goliatone/go-geoform/pkg/address/postgres"
	"github.com/goliatone/go-geoform/pkg/address/valkeycache"
	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/render"
	"github.com/goliatone/go-geoform/pkg/territory"
)

// App owns the router and every connection opened for it.
type App struct {
	Router  *gin.Engine
	closers []func()
}

// New validates the OpenAPI document, opens the address source and builds the
// router. Close releases whatever New opened, also after a failure.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{}

	spec, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("routes", len(api.Routes(spec))).Msg("openapi document loaded")

	repos, err := a.repositories(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	builder, err := territory.New(repos)
	if err != nil {
		a.Close()
		return nil, err
	}
	themes, err := render.NewThemes(DefaultThemes()...)
	if err != nil {
		a.Close()
		return nil, err
	}
	selection, err := themes.Select(cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: theme: %w", err)
	}
	renderers, err := render.NewDefaultRegistry(
		render.WithTemplatesDir(cfg.Render.TemplatesDir),
		render.WithGlobals(map[string]any{render.GlobalDefaultTheme: selection.Theme}),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: renderers: %w", err)
	}

	router, err := httpapi.NewRouter(httpapi.Dependencies{
		Builder:        builder,
		Repositories:   repos,
		Renderers:      renderers,
		Themes:         themes,
		Formatter:      mapfield.NewFormatter(),
		Metrics:        metrics.New(),
		Logger:         logger,
		DefaultTheme:   cfg.Theme.Name,
		DefaultVariant: cfg.Theme.Variant,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Router = router
	return a, nil
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) repositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (address.Repositories, error) {
	dataset, err := loadDataset(cfg.Address.Dataset)
	if err != nil {
		return address.Repositories{}, err
	}

	repos := dataset.Repositories()
	if cfg.Address.Source == config.SourcePostgres {
		pool, err := postgres.Open(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
		if err != nil {
			return address.Repositories{}, err
		}
		a.closers = append(a.closers, pool.Close)

		store := postgres.New(pool)
		if cfg.Database.Migrate {
			if err := store.Migrate(ctx); err != nil {
				return address.Repositories{}, err
			}
			if err := store.Seed(ctx, dataset.Dataset()); err != nil {
				return address.Repositories{}, err
			}
			logger.Info().Msg("address tables migrated and seeded")
		}
		repos = store.Repositories()
	}

	if cfg.Cache.Addr != "" {
		client, err := valkeycache.Dial(cfg.Cache.Addr)
		if err != nil {
			return address.Repositories{}, err
		}
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Cache.Addr).Msg("address cache unreachable, lookups fall through")
		}
		repos = valkeycache.Wrap(repos, client,
			valkeycache.WithTTL(cfg.Cache.TTL),
			valkeycache.WithPrefix(cfg.Cache.Prefix),
			valkeycache.WithErrorHandler(func(err error) {
				logger.Warn().Err(err).Msg("address cache")
			}),
		)
	}

	logger.Info().
		Str("source", cfg.Address.Source).
		Bool("cache", cfg.Cache.Addr != "").
		Msg("address repositories ready")
	return repos, nil
}

func loadDataset(path string) (*memory.Store, error) {
	if path == "" {
		return memory.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("app: open dataset: %w", err)
	}
	defer f.Close()
	return memory.Load(f)
}

// DefaultThemes returns the manifests the server registers. The first one is
// the fallback when no theme is configured.
func DefaultThemes() []*theme.Manifest {
	return []*theme.Manifest{
		{
			Name:    "geoform",
			Version: "1.0.0",
			Tokens: map[string]string{
				"geoform-accent":     "#0b6bcb",
				"geoform-error":      "#b3261e",
				"geoform-surface":    "#ffffff",
				"geoform-text":       "#1f1f1f",
				"geoform-map-border": "#d0d7de",
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{
					"geoform-accent":     "#7cb7ff",
					"geoform-surface":    "#161b22",
					"geoform-text":       "#e6edf3",
					"geoform-map-border": "#30363d",
				}},
			},
		},
	}
}
