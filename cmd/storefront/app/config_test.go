package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", config.ContentDataset)
	assert.Equal(t, "http://localhost:3000", config.SiteURL)
	assert.Equal(t, "localhost", config.HTTPHost)
	assert.Equal(t, 8080, config.HTTPPort)
	assert.Equal(t, "stderr", config.LogOutput)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("CONTENT_PROJECT_ID", "abc123")
	t.Setenv("CONTENT_DATASET", "staging")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("SITE_URL", "https://shop.example.com")
	t.Setenv("HTTP_PORT", "9090")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "abc123", config.ContentProjectID)
	assert.Equal(t, "staging", config.ContentDataset)
	assert.Equal(t, "sk_test_123", config.StripeSecretKey)
	assert.Equal(t, "https://shop.example.com", config.SiteURL)
	assert.Equal(t, 9090, config.HTTPPort)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "info", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "debug")
	assert.Equal(t, "debug", config.LogLevel)
}
