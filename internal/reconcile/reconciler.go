// Package reconcile keeps a catalog item's payment-provider identifiers
// consistent with the provider's own product and price records.
//
// The reconciler is invoked synchronously from the provisioning endpoint and
// the content-store webhook, and asynchronously (reverse direction) from
// provider webhook events. It performs no local retries beyond the single
// retrieval-failure fallback when ensuring a price, and no locking:
// concurrent runs for the same item can race and duplicate provider
// records, which is accepted at this system's call volume.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hormonegroup/storefront/internal/content"
	"github.com/hormonegroup/storefront/internal/payments"
	"github.com/hormonegroup/storefront/pkg/errors"
	"github.com/hormonegroup/storefront/pkg/logging"
)

// ContentStore is the slice of the content-store client the reconciler
// needs: resolve a catalog item, patch identifiers back, and know whether
// a write credential exists at all.
type ContentStore interface {
	GetTestByID(ctx context.Context, id string) (*content.CatalogItem, error)
	GetTestBySlug(ctx context.Context, slug string) (*content.CatalogItem, error)
	SetStripeIdentifiers(ctx context.Context, id, productID, priceID string) error
	CanWrite() bool
}

// PaymentGateway is the slice of the payment-provider client the
// reconciler needs.
type PaymentGateway interface {
	CreateProduct(ctx context.Context, name string, metadata map[string]string) (string, error)
	GetProduct(ctx context.Context, id string) (*payments.Product, error)
	CreatePrice(ctx context.Context, productID string, amountMinor int64) (string, error)
	GetPrice(ctx context.Context, id string) (*payments.Price, error)
}

// Request identifies the catalog item to reconcile, by id or by slug.
type Request struct {
	ID   string
	Slug string
}

// Result carries the identifiers after a successful reconciliation.
type Result struct {
	StripeProductID string
	StripePriceID   string

	// Persisted is false when no write credential was configured and the
	// identifiers were computed but not written back (soft success).
	Persisted bool
}

// Reconciler ensures provider product/price records match a catalog item's
// current price and writes the resulting identifiers back.
type Reconciler struct {
	store   ContentStore
	gateway PaymentGateway
	logger  *zerolog.Logger
}

// New creates a reconciler with injected clients.
func New(store ContentStore, gateway PaymentGateway, logger *zerolog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reconciler{store: store, gateway: gateway, logger: logger}
}

// Reconcile resolves the catalog item, ensures a provider product and a
// matching one-time price exist, and persists the identifiers.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (*Result, error) {
	item, err := r.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	logger := r.logger.With().Str("item_id", item.ID).Str("slug", item.Slug).Logger()

	// Fail on a missing amount before touching the provider.
	if !item.HasPrice() {
		return nil, &errors.MissingPriceError{ItemID: item.ID}
	}
	targetMinor := MinorUnits(*item.PriceAmount)

	productID, err := r.ensureProduct(ctx, item, &logger)
	if err != nil {
		return nil, err
	}

	priceID, err := r.ensurePrice(ctx, item, productID, targetMinor, &logger)
	if err != nil {
		return nil, err
	}

	result := &Result{StripeProductID: productID, StripePriceID: priceID}

	// Persistence is skipped, not failed, when no write credential is
	// configured: the webhook-driven path performs the write itself.
	if !r.store.CanWrite() {
		logger.Warn().
			Str("stripe_product_id", productID).
			Str("stripe_price_id", priceID).
			Msg("No write credential configured; identifiers computed but not saved")
		return result, nil
	}

	if err := r.store.SetStripeIdentifiers(ctx, item.ID, productID, priceID); err != nil {
		return nil, err
	}
	result.Persisted = true

	logger.Info().
		Str("stripe_product_id", productID).
		Str("stripe_price_id", priceID).
		Int64("amount_minor", targetMinor).
		Msg("Catalog item reconciled")
	return result, nil
}

// resolve looks the catalog item up by id if given, else by slug.
func (r *Reconciler) resolve(ctx context.Context, req Request) (*content.CatalogItem, error) {
	switch {
	case req.ID != "":
		return r.store.GetTestByID(ctx, req.ID)
	case req.Slug != "":
		return r.store.GetTestBySlug(ctx, req.Slug)
	default:
		return nil, errors.NewValidationError("", "neither id nor slug supplied")
	}
}

// ensureProduct reuses the item's provider product or creates one. Creation
// carries no idempotency key; a crash between creation and persistence
// leaves a duplicate product on retry (known gap).
func (r *Reconciler) ensureProduct(ctx context.Context, item *content.CatalogItem, logger *zerolog.Logger) (string, error) {
	if item.StripeProductID != "" {
		return item.StripeProductID, nil
	}

	metadata := map[string]string{payments.MetadataItemID: item.ID}
	if item.Slug != "" {
		metadata[payments.MetadataSlug] = item.Slug
	}

	productID, err := r.gateway.CreateProduct(ctx, item.DisplayTitle(), metadata)
	if err != nil {
		return "", err
	}

	logger.Info().Str("stripe_product_id", productID).Msg("Provider product created")
	return productID, nil
}

// ensurePrice reuses the existing provider price when its amount still
// matches, and creates a replacement otherwise. Provider prices are
// immutable, so a changed amount always means a new price; the old one is
// left orphaned. A failed retrieval falls through to creation: the price
// may have been deleted out-of-band, or the call may have failed
// transiently, and both end in a replacement. The log distinguishes the
// two so operators can tell retries from true replacements.
func (r *Reconciler) ensurePrice(ctx context.Context, item *content.CatalogItem, productID string, targetMinor int64, logger *zerolog.Logger) (string, error) {
	if item.StripePriceID != "" {
		existing, err := r.gateway.GetPrice(ctx, item.StripePriceID)
		switch {
		case err == nil:
			if existing.AmountMinor == targetMinor {
				return existing.ID, nil
			}
			logger.Info().
				Str("stripe_price_id", existing.ID).
				Int64("old_amount_minor", existing.AmountMinor).
				Int64("new_amount_minor", targetMinor).
				Msg("Price amount changed; creating replacement price")
		case errors.IsNotFound(err):
			logger.Warn().
				Str("stripe_price_id", item.StripePriceID).
				Msg("Provider price no longer exists; creating replacement price")
		default:
			logger.Warn().
				Err(err).
				Str("stripe_price_id", item.StripePriceID).
				Msg("Price retrieval failed; creating replacement price (may be a transient failure, not a deletion)")
		}
	}

	return r.gateway.CreatePrice(ctx, productID, targetMinor)
}

// MinorUnits converts a major-unit amount to minor units, rounding half
// away from zero: round(amount * 100).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
