// Package cli wires configuration into the stores, catalog and session
// manager used by the tamashi commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"

	"github.com/oolestudio/tamashi/internal/config"
	"github.com/oolestudio/tamashi/internal/logging"
	"github.com/oolestudio/tamashi/pkg/adapters/file"
	"github.com/oolestudio/tamashi/pkg/adapters/gdata"
	"github.com/oolestudio/tamashi/pkg/adapters/memory"
	"github.com/oolestudio/tamashi/pkg/adapters/redis"
	"github.com/oolestudio/tamashi/pkg/catalog"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/observability"
	"github.com/oolestudio/tamashi/pkg/persona"
	"github.com/oolestudio/tamashi/pkg/ports"
	"github.com/oolestudio/tamashi/pkg/session"
)

// App is everything a command needs, built from one Config.
type App struct {
	Config      config.Config
	Logger      *slog.Logger
	Persona     domain.Persona
	Personas    *persona.Repository
	Preferences ports.PreferenceStore
	Catalog     ports.Catalog
	Sessions    *session.Manager
	Registry    *prometheus.Registry
	Metrics     *observability.Metrics

	redis *backend.Client
}

// AppOptions tweak NewApp for a single command.
type AppOptions struct {
	// CatalogPath overrides catalog.path from the config.
	CatalogPath string
	// LogLevel overrides log.level from the config.
	LogLevel string
	// Debug adds a hook that logs every lifecycle event.
	Debug bool
	// LenientCatalog loads tutorials even when their step graph is broken.
	LenientCatalog bool
}

// NewApp builds an App. The caller must Close it.
func NewApp(ctx context.Context, cfg config.Config, opts AppOptions) (*App, error) {
	if opts.CatalogPath != "" {
		cfg.Catalog.Path = opts.CatalogPath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := createLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	if cfg.Store.Backend == config.BackendRedis || cfg.Preferences.Backend == config.BackendRedis {
		rc := cfg.Store.Redis
		app.redis = redis.NewClient(rc.Addr, rc.Password, rc.DB)
		if err := app.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", rc.Addr, err)
		}
	}

	if app.Preferences, err = app.openPreferences(); err != nil {
		return nil, err
	}
	if app.Personas, err = persona.New(ctx, app.Preferences); err != nil {
		return nil, fmt.Errorf("read persona preferences: %w", err)
	}
	app.Persona = resolvePersona(ctx, cfg.Persona, app.Personas)

	var catalogOpts []catalog.Option
	if opts.LenientCatalog {
		catalogOpts = append(catalogOpts, catalog.Lenient())
	}
	if app.Catalog, err = catalog.Open(cfg.Catalog.Path, app.Persona, catalogOpts...); err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = observability.NewMetrics(app.Registry)

	hooks := []domain.LifecycleHooks{app.Metrics.Hooks()}
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithLifecycleHooks(observability.Combine(hooks...)),
	}
	var store ports.SnapshotStore
	switch cfg.Store.Backend {
	case config.BackendRedis:
		store = redis.NewFromClient(app.redis, redis.WithTTL(cfg.Store.Redis.TTL))
		if cfg.Store.Redis.Lock {
			sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(app.redis, redis.DefaultPrefix)))
		}
	case config.BackendFile:
		store = file.New(cfg.Store.File.Dir)
	default:
		store = memory.NewStore()
	}
	app.Sessions = session.NewManager(store, sessionOpts...)

	logger.Debug("app ready",
		"store", cfg.Store.Backend,
		"preferences", cfg.Preferences.Backend,
		"catalog", cfg.Catalog.Path,
		"persona", app.Persona.Name,
	)
	ok = true
	return app, nil
}

// Close releases the redis connection, if any.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func (a *App) openPreferences() (ports.PreferenceStore, error) {
	switch a.Config.Preferences.Backend {
	case config.BackendRedis:
		return redis.NewPreferences(a.redis, ""), nil
	case config.BackendGdata:
		prefs, err := gdata.Open(a.Config.Preferences.AppName)
		if err != nil {
			// The guide choice is a nicety; run without remembering it.
			a.Logger.Warn("preferences unavailable, persona choice will not be kept",
				"app_name", a.Config.Preferences.AppName,
				"err", err,
			)
			return memory.NewPreferences(), nil
		}
		return prefs, nil
	default:
		return memory.NewPreferences(), nil
	}
}

// resolvePersona prefers the configured guide, then the stored choice, then
// the default one.
func resolvePersona(ctx context.Context, cfg config.PersonaConfig, repo *persona.Repository) domain.Persona {
	if cfg.Name != "" {
		p, known := persona.Lookup(cfg.Name)
		if !known {
			p = domain.Persona{Name: cfg.Name}
		}
		if cfg.Asset != "" {
			p.AssetRef = cfg.Asset
		}
		return p
	}
	return repo.Resolve(ctx)
}

func createLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format := logging.FormatText
	switch cfg.Format {
	case "", "text":
	case "json":
		format = logging.FormatJSON
	default:
		return nil, errors.New("log.format must be text or json")
	}
	// Logs go to stderr so stdout stays free for output and MCP stdio.
	return logging.NewWithFormat(os.Stderr, level, format), nil
}
