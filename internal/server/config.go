package server

import "time"

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// ProvisionSecret protects the admin provisioning surface. When empty
	// the protected routes reject every request.
	ProvisionSecret string

	// StripeWebhookSecret verifies provider webhook signatures.
	StripeWebhookSecret string

	// SiteURL is the storefront origin checkout redirects resolve against.
	SiteURL string

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		PathPrefix:   "/api/v1",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
