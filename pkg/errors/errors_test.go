package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("catalog item", "abc123")
	assert.Equal(t, `catalog item "abc123" not found`, err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsMissingPrice(err))

	noID := NewNotFoundError("catalog item", "")
	assert.Equal(t, "catalog item not found", noID.Error())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("slug", "must not be empty")
	assert.Contains(t, err.Error(), "slug")
	assert.True(t, IsValidationError(err))

	fieldless := NewValidationError("", "neither id nor slug supplied")
	assert.Equal(t, "validation failed: neither id nor slug supplied", fieldless.Error())
	assert.True(t, IsValidationError(fieldless))
}

func TestMissingPriceError(t *testing.T) {
	err := &MissingPriceError{ItemID: "test-42"}
	assert.True(t, IsMissingPrice(err))
	assert.Contains(t, err.Error(), "test-42")
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	cause := New("connection refused")
	err := NewUpstreamError("payment-provider", "create price", cause)

	assert.True(t, IsUpstream(err))
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "payment-provider")
	assert.Contains(t, err.Error(), "create price")
}

func TestWrapUpstreamNil(t *testing.T) {
	assert.NoError(t, WrapUpstream("content-store", "query", nil))
	assert.NoError(t, WrapValidation("slug", nil))
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("stripe", "STRIPE_SECRET_KEY is not set", nil)
	assert.True(t, IsUnconfigured(err))
	assert.Contains(t, err.Error(), "stripe")
}

func TestAuthenticationError(t *testing.T) {
	err := &AuthenticationError{Method: "bearer", Message: "token mismatch"}
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "authentication failed (bearer): token mismatch", err.Error())
}

func TestWrappedChains(t *testing.T) {
	inner := NewNotFoundError("catalog item", "x")
	wrapped := fmt.Errorf("resolving: %w", inner)
	assert.True(t, IsNotFound(wrapped))
}
