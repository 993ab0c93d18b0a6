package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// AuthConfig holds bearer authentication configuration.
type AuthConfig struct {
	// Secret is the static shared secret expected in the Authorization
	// header. An empty secret rejects every protected request.
	Secret string

	// ProtectedPaths lists the paths requiring the bearer secret;
	// everything else passes through.
	ProtectedPaths []string
}

// Auth middleware validates the shared bearer secret on protected endpoints.
// The provider webhook is NOT on this list: it authenticates via payload
// signature instead.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProtectedPath(r.URL.Path, config.ProtectedPaths) {
				next.ServeHTTP(w, r)
				return
			}

			token := extractBearer(r)
			if config.Secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(config.Secret)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("token_provided", token != "").
					Msg("Authentication failed")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"data":null,"error":{"code":"UNAUTHORIZED","message":"Invalid or missing bearer token","details":"Provide the shared secret as a bearer token in the Authorization header"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isProtectedPath checks if a path is in the protected paths list.
func isProtectedPath(path string, protectedPaths []string) bool {
	for _, p := range protectedPaths {
		if path == p {
			return true
		}
	}
	return false
}

// extractBearer extracts the bearer token from the Authorization header.
func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
