package payments

import (
	"encoding/json"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/hormonegroup/storefront/pkg/errors"
)

// EventKind tags the normalized provider events this system reacts to.
type EventKind string

// Recognized event kinds.
const (
	EventProductUpserted EventKind = "product.upserted"
	EventPriceUpserted   EventKind = "price.upserted"
)

// ProviderEvent is the strict internal shape of a provider webhook event.
// Incoming payloads are validated and normalized into it before dispatch;
// unrecognized shapes are dropped, never propagated as dynamic data.
type ProviderEvent struct {
	Kind EventKind

	// ProductID is the provider product id: the subject for product
	// events, the parent product for price events.
	ProductID string

	// PriceID is set for price events only.
	PriceID string

	// CatalogItemID is the back-reference carried in the record's own
	// metadata. Empty when the record has none; price events may still be
	// resolvable through the parent product's metadata.
	CatalogItemID string

	Currency string
	OneTime  bool
}

// VerifyWebhook checks the provider signature over the raw request body and
// returns the decoded event envelope.
func VerifyWebhook(payload []byte, sigHeader, secret string) (*stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, &errors.AuthenticationError{Method: "signature", Message: "webhook signature verification failed"}
	}
	return &event, nil
}

// eventProduct is the wire subset of a product event payload.
type eventProduct struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// eventPrice is the wire subset of a price event payload.
type eventPrice struct {
	ID       string            `json:"id"`
	Product  string            `json:"product"`
	Currency string            `json:"currency"`
	Type     string            `json:"type"`
	Metadata map[string]string `json:"metadata"`
}

// DecodeEvent normalizes a provider event envelope into a ProviderEvent.
// It returns ok=false for event types this system does not react to and
// for payloads that fail to decode; both are ignored upstream (fail
// closed), never treated as webhook failures.
func DecodeEvent(event *stripe.Event) (ProviderEvent, bool) {
	switch event.Type {
	case "product.created", "product.updated":
		var product eventProduct
		if err := json.Unmarshal(event.Data.Raw, &product); err != nil || product.ID == "" {
			return ProviderEvent{}, false
		}
		return ProviderEvent{
			Kind:          EventProductUpserted,
			ProductID:     product.ID,
			CatalogItemID: product.Metadata[MetadataItemID],
		}, true

	case "price.created", "price.updated":
		var price eventPrice
		if err := json.Unmarshal(event.Data.Raw, &price); err != nil || price.ID == "" {
			return ProviderEvent{}, false
		}
		return ProviderEvent{
			Kind:          EventPriceUpserted,
			ProductID:     price.Product,
			PriceID:       price.ID,
			CatalogItemID: price.Metadata[MetadataItemID],
			Currency:      price.Currency,
			OneTime:       price.Type == "one_time",
		}, true

	default:
		return ProviderEvent{}, false
	}
}
