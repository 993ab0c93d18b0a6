// Package payments provides the payment-provider gateway for the storefront.
// It wraps the Stripe SDK behind small domain types so the reconciler can be
// exercised against fakes, and decodes provider webhook payloads into a
// strict internal event type before dispatch.
package payments

// Currency is the only currency this storefront sells in.
const Currency = "eur"

// Product is the provider's representation of a sellable item.
type Product struct {
	ID       string
	Name     string
	Metadata map[string]string
}

// Price is the provider's representation of an amount for a product.
// Provider prices are immutable once created; a price change always means
// a new Price.
type Price struct {
	ID        string
	ProductID string

	// AmountMinor is the amount in minor units (cents).
	AmountMinor int64

	Currency string
	OneTime  bool
	Metadata map[string]string
}

// Metadata keys linking provider records back to catalog items.
const (
	MetadataItemID = "catalogItemId"
	MetadataSlug   = "slug"
)
