// Package app wires configuration, storage, services and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/cobrexhq/cobrex/internal/http"
	"github.com/cobrexhq/cobrex/internal/notify"
	"github.com/cobrexhq/cobrex/internal/service"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/internal/store/drivers/memory"
	"github.com/cobrexhq/cobrex/internal/store/drivers/sqlite"
	"github.com/cobrexhq/cobrex/pkg/jwtx"
	"github.com/cobrexhq/cobrex/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application holds the wired service graph.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authService     *service.AuthService
	userService     *service.UserService
	auditService    *service.AuditService
	customerService *service.CustomerService
	billingService  *service.BillingService

	server *http.Server
	router *httpapi.Router
}

// New builds an Application from config. Nothing starts listening until Run.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "cobrex",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	hs, err := jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices(hs)
	app.initHTTP(hs)

	if err := app.seedAdmin(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the server and blocks until a shutdown signal or a server
// error.
func (app *Application) Run() error {
	app.logger.Info("cobrex starting", "addr", app.cfg.Addr, "version", BuildVersion, "store", app.cfg.StoreDriver)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("stopped")
	return nil
}

func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "memory":
		app.db = memory.NewStore(app.cfg.AuditLogCap)
		app.logger.Warn("using in-memory store, data is lost on restart")
		return nil

	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn, app.cfg.AuditLogCap)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("apply migrations: %w", err)
		}
		app.db = db
		app.logger.Info("database migrations applied")
		return nil
	}

	return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
}

func (app *Application) initServices(hs *jwtx.HS256) {
	app.auditService = &service.AuditService{Store: app.db}
	app.authService = &service.AuthService{
		Store:    app.db,
		Signer:   hs,
		Verifier: hs,
		Audit:    app.auditService,
		TokenTTL: app.cfg.TokenTTL,
	}
	app.userService = &service.UserService{Store: app.db, Audit: app.auditService}
	app.customerService = &service.CustomerService{Store: app.db, Audit: app.auditService}
	app.billingService = &service.BillingService{
		Store:    app.db,
		Audit:    app.auditService,
		Notifier: notify.NewLogNotifier(app.logger),
	}
}

func (app *Application) initHTTP(hs *jwtx.HS256) {
	router := httpapi.NewRouter(hs, BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.UserService = app.userService
	router.AuditService = app.auditService
	router.CustomerService = app.customerService
	router.BillingService = app.billingService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              app.cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
