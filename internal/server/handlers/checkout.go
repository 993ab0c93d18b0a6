package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hormonegroup/storefront/internal/payments"
	"github.com/hormonegroup/storefront/internal/server/response"
	"github.com/hormonegroup/storefront/pkg/logging"
)

type checkoutRequest struct {
	PriceID     string `json:"priceId"`
	SuccessPath string `json:"successPath"`
	CancelPath  string `json:"cancelPath"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// HandleCheckout handles POST /api/v1/checkout. It creates a single-use
// hosted payment session and returns the redirect URL.
func (h *Handlers) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body", err.Error())
		return
	}

	url, err := h.checkout.NewCheckoutSession(r.Context(), payments.CheckoutParams{
		PriceID:     req.PriceID,
		SuccessPath: req.SuccessPath,
		CancelPath:  req.CancelPath,
		SiteURL:     h.config.SiteURL,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("stripe_price_id", req.PriceID).
			Msg("Checkout session creation failed")
		response.FromError(w, err)
		return
	}

	response.OK(w, checkoutResponse{URL: url})
}
