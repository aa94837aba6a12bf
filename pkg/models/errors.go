package models

import (
	"errors"
	"fmt"
)

// Validation errors detected before any network I/O. These short-circuit the
// task without side effects; no state is mutated when they occur.
var (
	ErrUnknownModel          = errors.New("model not found in catalog")
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrMissingCredential     = errors.New("no API key available for provider")
	ErrUnknownPersona        = errors.New("persona not found in catalog")
)

// TransportError is a network-level failure reaching the endpoint.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// VendorError is a non-success response from the endpoint, carrying the
// vendor-supplied message when one was present.
type VendorError struct {
	Provider Provider
	Message  string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// IsValidationError reports whether err belongs to the pre-flight validation
// taxonomy (cheap, synchronous, detected before any network call).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownModel) ||
		errors.Is(err, ErrProviderNotConfigured) ||
		errors.Is(err, ErrMissingCredential)
}
