// Package cli wires configuration, stores, metrics and demo pages into the
// pieces the bloom command runs: the console runner and the HTTP host.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/bloom/internal/config"
	"github.com/aretw0/bloom/internal/demo"
	"github.com/aretw0/bloom/internal/logging"
	httpadapter "github.com/aretw0/bloom/pkg/adapters/http"
	"github.com/aretw0/bloom/pkg/adapters/file"
	"github.com/aretw0/bloom/pkg/adapters/memory"
	"github.com/aretw0/bloom/pkg/adapters/redis"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/observability"
	"github.com/aretw0/bloom/pkg/persistence/middleware"
	"github.com/aretw0/bloom/pkg/ports"
	"github.com/aretw0/bloom/pkg/registry"
	"github.com/aretw0/bloom/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"
)

// lockPrefix namespaces distributed session locks in Redis.
const lockPrefix = "bloom:"

// App holds everything built from a Config.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Routes   *registry.Registry
	Profiles *demo.ProfileBook
	Store    ports.SnapshotStore
	Locker   ports.DistributedLocker
	Metrics  *observability.Metrics
	Gatherer *prometheus.Registry

	redis   *backend.Client
	closers []func() error
}

// NewApp builds an App. Logs go to logOut.
func NewApp(cfg config.Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(logOut, level, cfg.Log.Format)

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Profiles: demo.NewProfileBook(),
		Routes: registry.NewRegistry(
			registry.WithStrict(cfg.Routes.Strict),
			registry.WithLogger(logger),
		),
		Gatherer: prometheus.NewRegistry(),
	}
	app.Metrics = observability.NewMetrics(app.Gatherer)

	if err := demo.Register(app.Routes, app.Profiles); err != nil {
		return nil, fmt.Errorf("failed to register pages: %w", err)
	}

	switch cfg.Store.Driver {
	case config.DriverRedis:
		rc := cfg.Store.Redis
		client := backend.NewClient(&backend.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		app.Store = redis.NewFromClient(client, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		app.Locker = redis.NewLocker(client, lockPrefix)
		app.redis = client
		app.closers = append(app.closers, client.Close)
		logger.Info("Using Redis session store", "addr", rc.Addr, "prefix", rc.Prefix)
	case config.DriverFile:
		app.Store = file.New(cfg.Store.File.Dir)
		logger.Info("Using file session store", "dir", cfg.Store.File.Dir)
	default:
		app.Store = memory.NewStore()
		logger.Debug("Using in-memory session store")
	}

	mws, err := storeMiddleware(cfg.Store)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Store = middleware.Chain(app.Store, mws...)

	return app, nil
}

// storeMiddleware masks before sealing so masked values never reach the cipher.
func storeMiddleware(sc config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(sc.Mask) > 0 {
		mask, err := middleware.NewMaskMiddleware(sc.Mask)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mask)
	}
	if sc.Encryption.Enabled() {
		active, fallbacks, err := sc.Encryption.Keys()
		if err != nil {
			return nil, err
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallbacks})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}

// Hooks returns the lifecycle hooks every sequencer of the app carries.
func (a *App) Hooks() domain.LifecycleHooks {
	return observability.Compose(observability.LogHooks(a.Logger), a.Metrics.Hooks())
}

// Sessions creates the session manager backing the HTTP host.
func (a *App) Sessions() *session.Manager {
	opts := []session.Option{
		session.WithLogger(a.Logger),
		session.WithLifecycleHooks(a.Hooks()),
	}
	if a.Locker != nil {
		opts = append(opts, session.WithLocker(a.Locker), session.WithLockTTL(a.Config.Store.Redis.LockTTL))
	}
	return session.NewManager(a.Routes, a.Store, opts...)
}

// Server builds the HTTP host, with /metrics when enabled.
func (a *App) Server() *httpadapter.Server {
	opts := []httpadapter.Option{httpadapter.WithLogger(a.Logger)}
	if a.Config.Server.Metrics {
		opts = append(opts, httpadapter.WithMetricsHandler(promhttp.HandlerFor(a.Gatherer, promhttp.HandlerOpts{})))
	}
	return httpadapter.NewServer(a.Sessions(), opts...)
}

// Handler builds the HTTP handler of a fresh Server.
func (a *App) Handler() http.Handler {
	return a.Server().Routes()
}

// Ping checks the store backend is reachable.
func (a *App) Ping(ctx context.Context) error {
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis unreachable: %w", err)
		}
	}
	return nil
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
