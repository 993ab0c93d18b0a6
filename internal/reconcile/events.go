package reconcile

import (
	"context"

	"github.com/hormonegroup/storefront/internal/payments"
)

// ApplyProviderEvent mirrors a provider-pushed product or price event back
// into the content store. This is the reverse direction of Reconcile:
// the provider's own identifier is written onto the catalog item its
// metadata points at.
//
// Events without a resolvable back-reference, and events arriving when no
// write credential is configured, are logged and dropped. The provider
// must never see a failure for conditions outside its control, so the only
// errors returned are content-store write failures.
func (r *Reconciler) ApplyProviderEvent(ctx context.Context, event payments.ProviderEvent) error {
	switch event.Kind {
	case payments.EventProductUpserted:
		return r.applyProductEvent(ctx, event)
	case payments.EventPriceUpserted:
		return r.applyPriceEvent(ctx, event)
	default:
		r.logger.Debug().Str("kind", string(event.Kind)).Msg("Ignoring provider event of unhandled kind")
		return nil
	}
}

func (r *Reconciler) applyProductEvent(ctx context.Context, event payments.ProviderEvent) error {
	if event.CatalogItemID == "" {
		r.logger.Debug().
			Str("stripe_product_id", event.ProductID).
			Msg("Provider product carries no catalog back-reference; ignoring")
		return nil
	}
	if !r.store.CanWrite() {
		r.logger.Warn().
			Str("stripe_product_id", event.ProductID).
			Str("item_id", event.CatalogItemID).
			Msg("No write credential configured; dropping provider product event")
		return nil
	}

	if err := r.store.SetStripeIdentifiers(ctx, event.CatalogItemID, event.ProductID, ""); err != nil {
		return err
	}

	r.logger.Info().
		Str("item_id", event.CatalogItemID).
		Str("stripe_product_id", event.ProductID).
		Msg("Mirrored provider product id onto catalog item")
	return nil
}

func (r *Reconciler) applyPriceEvent(ctx context.Context, event payments.ProviderEvent) error {
	// Only one-time EUR prices belong to this storefront's model.
	if !event.OneTime || event.Currency != payments.Currency {
		r.logger.Debug().
			Str("stripe_price_id", event.PriceID).
			Str("currency", event.Currency).
			Bool("one_time", event.OneTime).
			Msg("Ignoring provider price event outside the one-time EUR model")
		return nil
	}

	itemID := event.CatalogItemID
	if itemID == "" && event.ProductID != "" {
		// The price itself carries no back-reference; try the parent
		// product's metadata.
		product, err := r.gateway.GetProduct(ctx, event.ProductID)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("stripe_price_id", event.PriceID).
				Str("stripe_product_id", event.ProductID).
				Msg("Could not resolve parent product for price event; ignoring")
			return nil
		}
		itemID = product.Metadata[payments.MetadataItemID]
	}

	if itemID == "" {
		r.logger.Debug().
			Str("stripe_price_id", event.PriceID).
			Msg("Provider price resolves to no catalog item; ignoring")
		return nil
	}
	if !r.store.CanWrite() {
		r.logger.Warn().
			Str("stripe_price_id", event.PriceID).
			Str("item_id", itemID).
			Msg("No write credential configured; dropping provider price event")
		return nil
	}

	if err := r.store.SetStripeIdentifiers(ctx, itemID, "", event.PriceID); err != nil {
		return err
	}

	r.logger.Info().
		Str("item_id", itemID).
		Str("stripe_price_id", event.PriceID).
		Msg("Mirrored provider price id onto catalog item")
	return nil
}
