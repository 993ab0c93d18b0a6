package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hormonegroup/storefront/internal/reconcile"
	"github.com/hormonegroup/storefront/internal/server/response"
	"github.com/hormonegroup/storefront/pkg/logging"
)

// provisionRequest selects a catalog item by id or slug.
type provisionRequest struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// provisionResponse reports the provider identifiers the reconciliation
// settled on. Persisted is false when the identifiers could not be written
// back to the content store.
type provisionResponse struct {
	StripeProductID string `json:"stripeProductId"`
	StripePriceID   string `json:"stripePriceId"`
	Persisted       bool   `json:"persisted"`
}

// HandleProvision handles POST /api/v1/provision. It runs the full
// catalog-to-provider reconciliation for one item.
func (h *Handlers) HandleProvision(w http.ResponseWriter, r *http.Request) {
	var req provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body", err.Error())
		return
	}

	result, err := h.reconciler.Reconcile(r.Context(), reconcile.Request{ID: req.ID, Slug: req.Slug})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("item_id", req.ID).
			Str("slug", req.Slug).
			Msg("Provisioning failed")
		response.FromError(w, err)
		return
	}

	response.OK(w, provisionResponse{
		StripeProductID: result.StripeProductID,
		StripePriceID:   result.StripePriceID,
		Persisted:       result.Persisted,
	})
}
