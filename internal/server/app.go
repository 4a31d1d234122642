// Package server wires and runs the web frontend process: session storage,
// the backend client, the session registry and the HTTP server. It handles
// graceful shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/config"
	"github.com/dmitrijs2005/ums/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/client/web"
	"github.com/dmitrijs2005/ums/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    sessions.Repository
	registry *session.Registry
	server   *http.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	store, err := sessions.Open(ctx, sessions.Options{
		Kind:          c.SessionStore,
		SQLitePath:    c.SQLitePath,
		PostgresDSN:   c.PostgresDSN,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		TTL:           c.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("session store init error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := apiclient.New(c.BackendURL,
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(apiclient.NewMetrics(reg)),
	)
	registry := session.NewRegistry(store, client, logger, c.SessionTTL)

	srv, err := web.NewServer(web.Options{
		CookieName:   c.CookieName,
		CookieSecure: c.CookieSecure,
		PageSize:     c.PageSize,
	}, registry, logger, reg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("web init error: %w", err)
	}

	return &App{
		config:   c,
		logger:   logger,
		store:    store,
		registry: registry,
		server:   &http.Server{Addr: c.ListenAddr, Handler: srv.Router()},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "listening", "addr", app.config.ListenAddr, "backend", app.config.BackendURL)
	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// shutdown waits for ctx to end, then drains in-flight requests.
func (app *App) shutdown(ctx context.Context) {
	<-ctx.Done()
	app.logger.Info(context.Background(), "shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(sctx); err != nil {
		app.logger.Error(sctx, "http shutdown failed", "error", err)
	}
}

// Run blocks until a signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	app.registry.Start(ctx, app.config.PurgeInterval)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.shutdown(ctx)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(context.Background(), "session store close failed", "error", err)
	}
	app.logger.Info(context.Background(), "stopped")
}
