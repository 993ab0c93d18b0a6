package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hormonegroup/storefront/internal/payments"
	"github.com/hormonegroup/storefront/pkg/errors"
)

func TestApplyProductEventPatchesItem(t *testing.T) {
	store := newFakeStore(testItem("69"))
	r := newReconciler(store, newFakeGateway())

	err := r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:          payments.EventProductUpserted,
		ProductID:     "prod_abc",
		CatalogItemID: "test-1",
	})
	require.NoError(t, err)

	require.Len(t, store.patches, 1)
	assert.Equal(t, patch{"test-1", "prod_abc", ""}, store.patches[0])
}

func TestApplyProductEventWithoutBackReference(t *testing.T) {
	store := newFakeStore(testItem("69"))
	r := newReconciler(store, newFakeGateway())

	err := r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:      payments.EventProductUpserted,
		ProductID: "prod_abc",
	})
	require.NoError(t, err, "unresolvable events are dropped, not failed")
	assert.Empty(t, store.patches)
}

func TestApplyPriceEventDirectBackReference(t *testing.T) {
	store := newFakeStore(testItem("69"))
	r := newReconciler(store, newFakeGateway())

	err := r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:          payments.EventPriceUpserted,
		ProductID:     "prod_abc",
		PriceID:       "price_xyz",
		CatalogItemID: "test-1",
		Currency:      "eur",
		OneTime:       true,
	})
	require.NoError(t, err)

	require.Len(t, store.patches, 1)
	assert.Equal(t, patch{"test-1", "", "price_xyz"}, store.patches[0])
}

func TestApplyPriceEventResolvesThroughParentProduct(t *testing.T) {
	store := newFakeStore(testItem("69"))
	gateway := newFakeGateway()
	gateway.products["prod_abc"] = &payments.Product{
		ID:       "prod_abc",
		Metadata: map[string]string{payments.MetadataItemID: "test-1"},
	}
	r := newReconciler(store, gateway)

	err := r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:      payments.EventPriceUpserted,
		ProductID: "prod_abc",
		PriceID:   "price_xyz",
		Currency:  "eur",
		OneTime:   true,
	})
	require.NoError(t, err)

	require.Len(t, store.patches, 1)
	assert.Equal(t, patch{"test-1", "", "price_xyz"}, store.patches[0])
}

func TestApplyPriceEventIgnoresForeignShapes(t *testing.T) {
	store := newFakeStore(testItem("69"))
	r := newReconciler(store, newFakeGateway())

	// Recurring price.
	err := r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:          payments.EventPriceUpserted,
		PriceID:       "price_sub",
		CatalogItemID: "test-1",
		Currency:      "eur",
		OneTime:       false,
	})
	require.NoError(t, err)

	// Non-EUR price.
	err = r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:          payments.EventPriceUpserted,
		PriceID:       "price_usd",
		CatalogItemID: "test-1",
		Currency:      "usd",
		OneTime:       true,
	})
	require.NoError(t, err)

	assert.Empty(t, store.patches)
}

func TestApplyPriceEventUnresolvableParent(t *testing.T) {
	store := newFakeStore(testItem("69"))
	r := newReconciler(store, newFakeGateway())

	// Parent product lookup fails: event is dropped without error so the
	// provider does not retry forever.
	err := r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:      payments.EventPriceUpserted,
		ProductID: "prod_unknown",
		PriceID:   "price_xyz",
		Currency:  "eur",
		OneTime:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, store.patches)
}

func TestApplyEventWithoutWriteCredential(t *testing.T) {
	store := newFakeStore(testItem("69"))
	store.canWrite = false
	r := newReconciler(store, newFakeGateway())

	err := r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:          payments.EventProductUpserted,
		ProductID:     "prod_abc",
		CatalogItemID: "test-1",
	})
	require.NoError(t, err, "missing credential is tolerated on the webhook path")
	assert.Empty(t, store.patches)
}

func TestApplyEventWriteFailureSurfaces(t *testing.T) {
	store := newFakeStore(testItem("69"))
	store.patchErr = errors.NewUpstreamError("content-store", "mutate", errors.New("503"))
	r := newReconciler(store, newFakeGateway())

	err := r.ApplyProviderEvent(context.Background(), payments.ProviderEvent{
		Kind:          payments.EventProductUpserted,
		ProductID:     "prod_abc",
		CatalogItemID: "test-1",
	})
	assert.True(t, errors.IsUpstream(err))
}
