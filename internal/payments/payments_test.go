package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/hormonegroup/storefront/pkg/errors"
	"github.com/hormonegroup/storefront/pkg/logging"
)

// newStubbedClient builds a Client whose API calls hit a local test server
// instead of the provider.
func newStubbedClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := &client.API{}
	api.Init("sk_test_123", &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL: stripe.String(srv.URL),
		}),
	})
	return &Client{api: api, logger: &logging.Nop}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", &logging.Nop)
	require.Error(t, err)
	assert.True(t, errors.IsUnconfigured(err))
}

func TestIsMissing(t *testing.T) {
	missing := &stripe.Error{Code: stripe.ErrorCodeResourceMissing}
	assert.True(t, IsMissing(missing))
	assert.True(t, IsMissing(fmt.Errorf("get price: %w", missing)))

	other := &stripe.Error{Code: stripe.ErrorCodeRateLimit}
	assert.False(t, IsMissing(other))
	assert.False(t, IsMissing(fmt.Errorf("plain error")))
	assert.False(t, IsMissing(nil))
}

func TestVerifyWebhook(t *testing.T) {
	const secret = "whsec_test_secret"
	payload := []byte(`{"id": "evt_1", "object": "event", "type": "product.updated", "data": {"object": {"id": "prod_1"}}}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})

	event, err := VerifyWebhook(signed.Payload, signed.Header, secret)
	require.NoError(t, err)
	assert.Equal(t, stripe.EventType("product.updated"), event.Type)
}

func TestVerifyWebhookRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "object": "event", "type": "product.updated", "data": {"object": {}}}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_wrong",
		Timestamp: time.Now(),
	})

	_, err := VerifyWebhook(signed.Payload, signed.Header, "whsec_expected")
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
}

func eventWithRaw(eventType string, raw string) *stripe.Event {
	return &stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: []byte(raw)},
	}
}

func TestDecodeEventProduct(t *testing.T) {
	event := eventWithRaw("product.created", `{"id":"prod_1","metadata":{"catalogItemId":"item-1","slug":"testosterone-check"}}`)

	decoded, ok := DecodeEvent(event)
	require.True(t, ok)
	assert.Equal(t, EventProductUpserted, decoded.Kind)
	assert.Equal(t, "prod_1", decoded.ProductID)
	assert.Equal(t, "item-1", decoded.CatalogItemID)
	assert.Empty(t, decoded.PriceID)
}

func TestDecodeEventPrice(t *testing.T) {
	event := eventWithRaw("price.updated", `{"id":"price_1","product":"prod_1","currency":"eur","type":"one_time","metadata":{"catalogItemId":"item-1"}}`)

	decoded, ok := DecodeEvent(event)
	require.True(t, ok)
	assert.Equal(t, EventPriceUpserted, decoded.Kind)
	assert.Equal(t, "price_1", decoded.PriceID)
	assert.Equal(t, "prod_1", decoded.ProductID)
	assert.Equal(t, "eur", decoded.Currency)
	assert.True(t, decoded.OneTime)
}

func TestDecodeEventPriceWithoutMetadata(t *testing.T) {
	event := eventWithRaw("price.created", `{"id":"price_1","product":"prod_1","currency":"eur","type":"one_time"}`)

	decoded, ok := DecodeEvent(event)
	require.True(t, ok)
	assert.Empty(t, decoded.CatalogItemID)
	assert.Equal(t, "prod_1", decoded.ProductID)
}

func TestDecodeEventRejects(t *testing.T) {
	cases := []struct {
		name  string
		event *stripe.Event
	}{
		{"unhandled type", eventWithRaw("invoice.paid", `{"id":"in_1"}`)},
		{"product deleted", eventWithRaw("product.deleted", `{"id":"prod_1"}`)},
		{"malformed payload", eventWithRaw("product.created", `{not json`)},
		{"missing id", eventWithRaw("price.created", `{"product":"prod_1"}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := DecodeEvent(tc.event)
			assert.False(t, ok)
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "https://shop.example.com/thanks", resolvePath("https://shop.example.com", "/thanks"))
	assert.Equal(t, "https://shop.example.com/thanks", resolvePath("https://shop.example.com/", "/thanks"))
	assert.Equal(t, "https://shop.example.com/thanks", resolvePath("https://shop.example.com", "thanks"))
}

func TestNewCheckoutSessionRequiresPrice(t *testing.T) {
	client, err := NewClient("sk_test_123", &logging.Nop)
	require.NoError(t, err)

	_, err = client.NewCheckoutSession(context.Background(), CheckoutParams{SiteURL: "https://shop.example.com"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNewCheckoutSessionAppliesDefaults(t *testing.T) {
	var form map[string][]string
	c := newStubbedClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = w.Write([]byte(`{"id": "cs_1", "url": "https://checkout.example.com/s/cs_1"}`))
	})

	url, err := c.NewCheckoutSession(context.Background(), CheckoutParams{
		PriceID: "price_1",
		SiteURL: "https://shop.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/s/cs_1", url)

	assert.Equal(t, []string{"payment"}, form["mode"])
	assert.Equal(t, []string{"price_1"}, form["line_items[0][price]"])
	assert.Equal(t, []string{"1"}, form["line_items[0][quantity]"])
	assert.Equal(t, []string{"https://shop.example.com/thanks"}, form["success_url"])
	assert.Equal(t, []string{"https://shop.example.com/tests"}, form["cancel_url"])
	assert.Equal(t, []string{"NL"}, form["shipping_address_collection[allowed_countries][0]"])
}

func TestNewCheckoutSessionCustomPaths(t *testing.T) {
	var form map[string][]string
	c := newStubbedClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = w.Write([]byte(`{"id": "cs_1", "url": "https://checkout.example.com/s/cs_1"}`))
	})

	_, err := c.NewCheckoutSession(context.Background(), CheckoutParams{
		PriceID:     "price_1",
		SiteURL:     "https://shop.example.com",
		SuccessPath: "/order/complete",
		CancelPath:  "/cart",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://shop.example.com/order/complete"}, form["success_url"])
	assert.Equal(t, []string{"https://shop.example.com/cart"}, form["cancel_url"])
}

func TestShippingCountriesAreEUOnly(t *testing.T) {
	assert.Contains(t, ShippingCountries, "NL")
	assert.Contains(t, ShippingCountries, "DE")
	assert.NotContains(t, ShippingCountries, "US")
	assert.NotContains(t, ShippingCountries, "GB")
}
