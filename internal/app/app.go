// Package app assembles the session client from configuration: the
// session store backend, the API gateway, the services and the form
// presenter. Both the CLI commands and the route server start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/api"
	"github.com/digitallog/console/internal/api/handler"
	"github.com/digitallog/console/internal/core/ports"
	"github.com/digitallog/console/internal/core/service"
	"github.com/digitallog/console/internal/forms"
	"github.com/digitallog/console/internal/infrastructure/config"
	mongodb "github.com/digitallog/console/internal/infrastructure/db/mongo"
	redisdb "github.com/digitallog/console/internal/infrastructure/db/redis"
	"github.com/digitallog/console/internal/infrastructure/db/sqlite"
	"github.com/digitallog/console/internal/infrastructure/localstore"
	"github.com/digitallog/console/internal/infrastructure/queue"
	"github.com/digitallog/console/internal/infrastructure/remote"
	"github.com/digitallog/console/internal/messages"
	"github.com/digitallog/console/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config *config.Config

	Store     ports.SessionStore
	API       *remote.Client
	Auth      *service.AuthService
	Refresh   *service.RefreshService
	Logout    *service.LogoutService
	Settings  *service.SettingsService
	Localizer *messages.Localizer
	Presenter *forms.Presenter

	log     zerolog.Logger
	closers []func(context.Context) error
}

// New opens the configured session backend and wires the services on top
// of it. Call Close when done.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, log: log}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	cookieFile := ""
	if cfg.Session.Backend != config.BackendMemory {
		if err := os.MkdirAll(cfg.Session.Dir, 0o700); err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("session dir: %w", err)
		}
		cookieFile = cfg.CookieFile()
	}

	client, err := remote.New(remote.Options{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.HTTPTimeout,
		CookieFile: cookieFile,
		Logger:     logger.Named(log, "remote"),
	})
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.API = client

	svcLog := logger.Named(log, "service")
	a.Auth = service.NewAuthService(client, store, svcLog)
	a.Refresh = service.NewRefreshService(client, store, cfg.RefreshSkew, svcLog)
	a.Logout = service.NewLogoutService(client, store, svcLog)
	a.Settings = service.NewSettingsService(client, store, svcLog)

	a.Localizer = messages.NewLocalizer(cfg.Locale)
	a.Presenter = forms.NewPresenter(forms.NewValidator(), a.Localizer, a.Auth, a.Settings)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (ports.SessionStore, error) {
	cfg := a.Config
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return localstore.NewMemoryStore(), nil

	case config.BackendFile:
		return localstore.NewFileStore(cfg.Session.Dir, cfg.Session.Profile, cfg.Session.Passphrase)

	case config.BackendSQLite:
		db, err := sqlite.Connect(ctx, sqlite.Config{Path: cfg.SQLite.Path})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		return sqlite.NewSessionStore(db, cfg.Session.Profile), nil

	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		return redisdb.NewSessionStore(client, cfg.Session.Profile), nil

	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		return mongodb.NewSessionStore(db, cfg.Session.Profile), nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// Checks lists what the readiness probe pings: the API always, the store
// when its backend is remote.
func (a *App) Checks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{"api": a.API}
	if p, ok := a.Store.(handler.Pinger); ok {
		checks["store"] = p
	}
	return checks
}

// Serve runs the route server on Config.ListenAddr until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	serializer := queue.NewSerializer(logger.Named(a.log, "queue"))
	serializer.Start(ctx)

	e := api.NewRouter(api.Deps{
		Store:       a.Store,
		Presenter:   a.Presenter,
		Refresher:   a.Refresh,
		Logout:      a.Logout,
		Queue:       serializer,
		Checks:      a.Checks(),
		CORSOrigins: a.Config.CORSOrigins,
		Logger:      logger.Named(a.log, "http"),
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.Config.ListenAddr).Str("backend", a.Config.Session.Backend).Msg("route server listening")
		if err := e.Start(a.Config.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down route server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases store connections in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
