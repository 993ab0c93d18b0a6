package handlers

import (
	"net/http"

	"github.com/hormonegroup/storefront/internal/server/response"
)

// HandleHealth handles GET /health (liveness probe).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "storefront-api",
		"version": "v1",
	})
}
