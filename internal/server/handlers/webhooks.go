package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/hormonegroup/storefront/internal/content"
	"github.com/hormonegroup/storefront/internal/payments"
	"github.com/hormonegroup/storefront/internal/reconcile"
	"github.com/hormonegroup/storefront/internal/server/response"
	"github.com/hormonegroup/storefront/pkg/logging"
)

// maxWebhookBody caps webhook payload reads at 1 MiB.
const maxWebhookBody = 1 << 20

// contentWebhookPayload tolerates the several envelope shapes the content
// store emits depending on how the delivery hook is configured. Only the
// document id and type are read; the rest of the payload is ignored and the
// authoritative document is refetched before reconciling.
type contentWebhookPayload struct {
	ID       string `json:"_id"`
	Type     string `json:"_type"`
	Document struct {
		ID   string `json:"_id"`
		Type string `json:"_type"`
	} `json:"document"`
	Transition string `json:"transition"`
	Action     string `json:"action"`
}

func (p contentWebhookPayload) documentID() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Document.ID
}

func (p contentWebhookPayload) documentType() string {
	if p.Type != "" {
		return p.Type
	}
	return p.Document.Type
}

func (p contentWebhookPayload) isDelete() bool {
	return p.Transition == "disappear" || p.Action == "delete"
}

// HandleContentWebhook handles POST /api/v1/webhooks/content. Publish events
// for catalog items trigger a reconciliation; everything else is
// acknowledged and skipped so the content store never retries deliveries we
// deliberately ignore.
func (h *Handlers) HandleContentWebhook(w http.ResponseWriter, r *http.Request) {
	logger := logging.Ctx(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "failed to read request body", "")
		return
	}

	var payload contentWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		response.BadRequest(w, "invalid JSON body", err.Error())
		return
	}

	id := payload.documentID()
	switch {
	case payload.isDelete():
		logger.Debug().Str("item_id", id).Msg("Ignoring content delete event")
		response.OK(w, map[string]any{"skipped": true, "reason": "delete"})
		return
	case payload.documentType() != content.DocumentType:
		logger.Debug().Str("document_type", payload.documentType()).Msg("Ignoring non-catalog document event")
		response.OK(w, map[string]any{"skipped": true, "reason": "type"})
		return
	case id == "" || strings.HasPrefix(id, "drafts."):
		logger.Debug().Str("item_id", id).Msg("Ignoring draft or unidentified document event")
		response.OK(w, map[string]any{"skipped": true, "reason": "draft"})
		return
	}

	result, err := h.reconciler.Reconcile(r.Context(), reconcile.Request{ID: id})
	if err != nil {
		logger.Error().Err(err).Str("item_id", id).Msg("Webhook-triggered reconciliation failed")
		response.FromError(w, err)
		return
	}

	response.OK(w, provisionResponse{
		StripeProductID: result.StripeProductID,
		StripePriceID:   result.StripePriceID,
		Persisted:       result.Persisted,
	})
}

// HandleStripeWebhook handles POST /api/v1/webhooks/stripe: the reverse sync
// path. Product and price upserts flowing out of the provider dashboard are
// written back to the catalog so the two systems converge no matter which
// side changed first.
func (h *Handlers) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	logger := logging.Ctx(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "failed to read request body", "")
		return
	}

	if h.config.StripeWebhookSecret == "" {
		logger.Warn().Msg("Stripe webhook secret not configured; acknowledging event without processing")
		response.OK(w, map[string]any{"received": true, "processed": false})
		return
	}

	event, err := payments.VerifyWebhook(body, r.Header.Get("Stripe-Signature"), h.config.StripeWebhookSecret)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected stripe webhook with invalid signature")
		response.BadRequest(w, "webhook signature verification failed", "")
		return
	}

	normalized, ok := payments.DecodeEvent(event)
	if !ok {
		logger.Debug().Str("event_type", string(event.Type)).Msg("Ignoring unhandled stripe event type")
		response.OK(w, map[string]any{"received": true, "processed": false})
		return
	}

	if err := h.reconciler.ApplyProviderEvent(r.Context(), normalized); err != nil {
		logger.Error().Err(err).
			Str("event_type", string(event.Type)).
			Str("stripe_product_id", normalized.ProductID).
			Msg("Failed to apply provider event")
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"received": true})
}
