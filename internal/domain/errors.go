package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingInput       = errors.New("no image provided")
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrModelUnavailable   = errors.New("model unavailable")
	ErrModelNotConfigured = errors.New("model not configured")
	ErrInvalidPayload     = errors.New("invalid image payload")
	ErrContentBlocked     = errors.New("content blocked by model")
)

// ModelAPIError is the provider-neutral form of an error status returned by
// the generative model API.
type ModelAPIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *ModelAPIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("model api status %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("model api status %d: %s", e.StatusCode, e.Message)
}

func (e *ModelAPIError) Unwrap() error {
	return ErrModelUnavailable
}
