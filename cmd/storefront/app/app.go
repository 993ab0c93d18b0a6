// Package app provides the application context and dependency management
// for the storefront CLI. It centralizes configuration, dependency
// injection, and lifecycle management.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hormonegroup/storefront/internal/content"
	"github.com/hormonegroup/storefront/internal/payments"
	"github.com/hormonegroup/storefront/internal/reconcile"
	"github.com/hormonegroup/storefront/internal/server"
	"github.com/hormonegroup/storefront/pkg/errors"
)

// App represents the storefront application with all its dependencies.
// Clients are lazy-initialized singletons so commands that never touch the
// payment provider do not require a provider key.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	mu         sync.Mutex
	content    *content.Client
	payments   *payments.Client
	reconciler *reconcile.Reconciler
	server     *server.Server
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// ContentClient returns the content store client, creating it on first use.
func (a *App) ContentClient() (*content.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.contentClientLocked()
}

func (a *App) contentClientLocked() (*content.Client, error) {
	if a.content != nil {
		return a.content, nil
	}

	client, err := content.NewClient(content.Config{
		ProjectID:  a.config.ContentProjectID,
		Dataset:    a.config.ContentDataset,
		ReadToken:  a.config.ContentReadToken,
		WriteToken: a.config.ContentWriteToken,
		BaseURL:    a.config.ContentBaseURL,
	}, a.logger)
	if err != nil {
		return nil, err
	}

	a.content = client
	return client, nil
}

// PaymentsClient returns the payment provider client, creating it on first use.
func (a *App) PaymentsClient() (*payments.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paymentsClientLocked()
}

func (a *App) paymentsClientLocked() (*payments.Client, error) {
	if a.payments != nil {
		return a.payments, nil
	}

	client, err := payments.NewClient(a.config.StripeSecretKey, a.logger)
	if err != nil {
		return nil, err
	}

	a.payments = client
	return client, nil
}

// Reconciler returns the catalog reconciler, creating it and its clients on
// first use.
func (a *App) Reconciler() (*reconcile.Reconciler, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reconciler != nil {
		return a.reconciler, nil
	}

	store, err := a.contentClientLocked()
	if err != nil {
		return nil, err
	}
	gateway, err := a.paymentsClientLocked()
	if err != nil {
		return nil, err
	}

	a.reconciler = reconcile.New(store, gateway, a.logger)
	return a.reconciler, nil
}

// Server returns the HTTP server, creating it and all its dependencies on
// first use.
func (a *App) Server() (*server.Server, error) {
	reconciler, err := a.Reconciler()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		return a.server, nil
	}

	catalog, err := a.contentClientLocked()
	if err != nil {
		return nil, err
	}
	checkout, err := a.paymentsClientLocked()
	if err != nil {
		return nil, err
	}

	cfg := server.DefaultConfig()
	cfg.Host = a.config.HTTPHost
	cfg.Port = a.config.HTTPPort
	cfg.ProvisionSecret = a.config.ProvisionSecret
	cfg.StripeWebhookSecret = a.config.StripeWebhookSecret
	cfg.SiteURL = a.config.SiteURL

	a.server = server.New(reconciler, catalog, checkout, cfg, a.logger)
	return a.server, nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}
