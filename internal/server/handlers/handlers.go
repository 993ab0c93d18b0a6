// Package handlers provides HTTP request handlers for the storefront API.
package handlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hormonegroup/storefront/internal/content"
	"github.com/hormonegroup/storefront/internal/payments"
	"github.com/hormonegroup/storefront/internal/reconcile"
)

// Reconciler runs the product/price reconciliation and applies
// provider-pushed events.
type Reconciler interface {
	Reconcile(ctx context.Context, req reconcile.Request) (*reconcile.Result, error)
	ApplyProviderEvent(ctx context.Context, event payments.ProviderEvent) error
}

// Catalog reads catalog items for the public listing endpoints.
type Catalog interface {
	ListTests(ctx context.Context) ([]content.CatalogItem, error)
	GetTestBySlug(ctx context.Context, slug string) (*content.CatalogItem, error)
}

// CheckoutCreator creates single-use payment sessions.
type CheckoutCreator interface {
	NewCheckoutSession(ctx context.Context, p payments.CheckoutParams) (string, error)
}

// Config holds handler-level settings.
type Config struct {
	// StripeWebhookSecret verifies provider webhook signatures. Empty is
	// tolerated (events acknowledged and dropped) to avoid provider-side
	// retry storms during setup.
	StripeWebhookSecret string

	// SiteURL is the storefront origin checkout redirects resolve against.
	SiteURL string
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	reconciler Reconciler
	catalog    Catalog
	checkout   CheckoutCreator
	config     Config
	logger     *zerolog.Logger
}

// New creates a new Handlers instance.
func New(reconciler Reconciler, catalog Catalog, checkout CheckoutCreator, config Config, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		reconciler: reconciler,
		catalog:    catalog,
		checkout:   checkout,
		config:     config,
		logger:     logger,
	}
}
