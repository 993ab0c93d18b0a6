// Package errors provides custom error types for the storefront system.
// These errors enable programmatic error checking at the request boundary,
// where each kind maps onto a single HTTP status code.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// Common sentinel errors for the storefront system
var (
	// ErrNotFound indicates that a requested catalog item was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a missing or invalid credential on a request
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMissingPrice indicates a catalog item without a usable price amount
	ErrMissingPrice = errors.New("missing price")

	// ErrUpstream indicates that a content-store or payment-provider call failed
	ErrUpstream = errors.New("upstream failure")

	// ErrUnconfigured indicates a required credential is not configured
	ErrUnconfigured = errors.New("not configured")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// MissingPriceError indicates a catalog item whose price amount is
// undefined or not numeric. Reconciliation cannot proceed without it.
type MissingPriceError struct {
	ItemID string
}

// Error implements the error interface
func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("catalog item %q has no usable price amount", e.ItemID)
}

// Is implements errors.Is support
func (e *MissingPriceError) Is(target error) bool {
	return target == ErrMissingPrice
}

// UpstreamError represents a failed call to an external system
// (content store or payment provider).
type UpstreamError struct {
	System    string // "content-store" or "payment-provider"
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s failed: %s", e.System, e.Operation, e.Message)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.System, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(system, operation string, err error) *UpstreamError {
	return &UpstreamError{System: system, Operation: operation, Err: err}
}

// AuthenticationError represents a rejected credential on an inbound request.
type AuthenticationError struct {
	Method  string // "bearer", "signature"
	Message string
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (%s): %s", e.Method, e.Message)
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ConfigError represents a missing or invalid configuration value.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrUnconfigured
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnauthorized checks if an error is an authentication error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsMissingPrice checks if an error indicates an unusable price amount
func IsMissingPrice(err error) bool {
	return errors.Is(err, ErrMissingPrice)
}

// IsUpstream checks if an error came from an external system call
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsUnconfigured checks if an error indicates missing configuration
func IsUnconfigured(err error) bool {
	return errors.Is(err, ErrUnconfigured)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapUpstream wraps an error as an UpstreamError
func WrapUpstream(system, operation string, err error) error {
	if err == nil {
		return nil
	}
	return NewUpstreamError(system, operation, err)
}
