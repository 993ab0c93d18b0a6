package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hormonegroup/storefront/pkg/errors"
	"github.com/hormonegroup/storefront/pkg/logging"
)

const testDoc = `{
	"_id": "item-1",
	"_type": "labTest",
	"title": "Testosterone Check",
	"slug": {"current": "testosterone-check"},
	"description": "At-home testosterone test",
	"price": 69,
	"stripeProductId": "prod_1",
	"stripePriceId": "price_1"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, writeToken string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Dataset:    "production",
		WriteToken: writeToken,
		BaseURL:    srv.URL,
	}, &logging.Nop)
	require.NoError(t, err)
	return client, srv
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(Config{}, &logging.Nop)
	require.Error(t, err)
	assert.True(t, errors.IsUnconfigured(err))
}

func TestGetTestByID(t *testing.T) {
	var gotQuery, gotParam string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-01-01/data/query/production", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotParam = r.URL.Query().Get("$id")
		_, _ = w.Write([]byte(`{"result": ` + testDoc + `}`))
	}, "")

	item, err := client.GetTestByID(context.Background(), "item-1")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, `_type == "labTest"`)
	assert.Contains(t, gotQuery, "_id == $id")
	assert.Equal(t, `"item-1"`, gotParam)

	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, "testosterone-check", item.Slug)
	assert.Equal(t, "prod_1", item.StripeProductID)
	require.NotNil(t, item.PriceAmount)
	assert.Equal(t, "69", item.PriceAmount.String())
}

func TestGetTestBySlugNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": null}`))
	}, "")

	_, err := client.GetTestBySlug(context.Background(), "unknown")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetTestUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("kaboom"))
	}, "")

	_, err := client.GetTestByID(context.Background(), "item-1")
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
	assert.False(t, errors.IsNotFound(err))
}

func TestListTests(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query"), `path("drafts.**")`)
		_, _ = w.Write([]byte(`{"result": [` + testDoc + `]}`))
	}, "")

	items, err := client.ListTests(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Testosterone Check", items[0].Title)
}

func TestSetStripeIdentifiers(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2024-01-01/data/mutate/production", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"transactionId": "tx-1"}`))
	}, "write-token")

	err := client.SetStripeIdentifiers(context.Background(), "item-1", "prod_1", "price_1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer write-token", gotAuth)

	mutations := gotBody["mutations"].([]any)
	require.Len(t, mutations, 1)
	patch := mutations[0].(map[string]any)["patch"].(map[string]any)
	assert.Equal(t, "item-1", patch["id"])
	set := patch["set"].(map[string]any)
	assert.Equal(t, "prod_1", set["stripeProductId"])
	assert.Equal(t, "price_1", set["stripePriceId"])
}

func TestSetStripeIdentifiersPartialPatch(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{}`))
	}, "write-token")

	require.NoError(t, client.SetStripeIdentifiers(context.Background(), "item-1", "prod_1", ""))

	patch := gotBody["mutations"].([]any)[0].(map[string]any)["patch"].(map[string]any)
	set := patch["set"].(map[string]any)
	assert.Equal(t, "prod_1", set["stripeProductId"])
	_, hasPrice := set["stripePriceId"]
	assert.False(t, hasPrice)
}

func TestSetStripeIdentifiersWithoutWriteToken(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte(`{}`))
	}, "")

	err := client.SetStripeIdentifiers(context.Background(), "item-1", "prod_1", "price_1")
	require.Error(t, err)
	assert.True(t, errors.IsUnconfigured(err))
	assert.False(t, called)
}

func TestDisplayTitle(t *testing.T) {
	withTitle := CatalogItem{Title: "Full Hormone Panel", Slug: "full-hormone-panel"}
	assert.Equal(t, "Full Hormone Panel", withTitle.DisplayTitle())

	fromSlug := CatalogItem{Slug: "cortisol-day-curve"}
	assert.Equal(t, "Cortisol Day Curve", fromSlug.DisplayTitle())
}

func TestFallbackCatalog(t *testing.T) {
	items, err := FallbackCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, items)

	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.Slug)
		require.NotNil(t, item.PriceAmount)
		assert.True(t, item.PriceAmount.IsPositive())

		// Fallback items are browsable, not buyable.
		assert.Empty(t, item.StripeProductID)
		assert.Empty(t, item.StripePriceID)
	}

	// Ordered by title like the live listing.
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Title, items[i].Title)
	}
}
