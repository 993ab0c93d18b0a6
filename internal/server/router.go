package server

import (
	"net/http"
	"strings"

	"github.com/hormonegroup/storefront/internal/server/handlers"
	"github.com/hormonegroup/storefront/internal/server/middleware"
	"github.com/hormonegroup/storefront/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.reconciler,
		s.catalog,
		s.checkout,
		handlers.Config{
			StripeWebhookSecret: s.config.StripeWebhookSecret,
			SiteURL:             s.config.SiteURL,
		},
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoint (no auth required)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)

	// Catalog endpoints
	mux.HandleFunc(prefix+"/tests", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.HandleListTests(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	mux.HandleFunc(prefix+"/tests/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		slug := extractPathParam(r.URL.Path, prefix+"/tests/")
		if slug == "" {
			response.NotFound(w, "Not found", "")
			return
		}
		h.HandleGetTest(w, r, slug)
	})

	// Admin provisioning endpoint (bearer-protected)
	mux.HandleFunc(prefix+"/provision", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.HandleProvision(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	// Webhook endpoints
	mux.HandleFunc(prefix+"/webhooks/content", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.HandleContentWebhook(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	mux.HandleFunc(prefix+"/webhooks/stripe", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.HandleStripeWebhook(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	// Checkout endpoint
	mux.HandleFunc(prefix+"/checkout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.HandleCheckout(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})
}

// applyMiddleware wraps handler with the middleware chain. The stripe
// webhook authenticates via its signature, not a bearer token, so only the
// admin surfaces appear in the protected path list.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	prefix := s.config.PathPrefix

	authConfig := middleware.AuthConfig{
		Secret: s.config.ProvisionSecret,
		ProtectedPaths: []string{
			prefix + "/provision",
			prefix + "/webhooks/content",
		},
	}

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
		middleware.RequestID(),
		middleware.Auth(authConfig, s.logger),
	)(handler)
}

// extractPathParam extracts the first path segment after prefix.
func extractPathParam(path, prefix string) string {
	trimmed := strings.TrimPrefix(path, prefix)
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}
