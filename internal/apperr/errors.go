// Package apperr holds the error taxonomy shared by every handler:
// validation failures, authentication failures, upstream provider failures
// and provider configuration failures.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// -- Authentication --
	ErrUnauthorized = errors.New("unauthorized")

	// -- Request shape --
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrMalformedBody    = errors.New("malformed request body")

	// -- Providers --
	ErrUpstream              = errors.New("upstream provider failure")
	ErrUnknownProvider       = errors.New("unknown provider")
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func NewValidation(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Field is shorthand for a single-field validation error.
func Field(field, message string) *ValidationError {
	return NewValidation(FieldError{Field: field, Message: message})
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UpstreamError wraps a failure returned by an external provider. It matches
// ErrUpstream with errors.Is while keeping the cause for logs.
type UpstreamError struct {
	Provider string
	Err      error
}

func Upstream(provider string, err error) error {
	return &UpstreamError{Provider: provider, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUpstream, e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Malformed wraps a decoding failure so it maps to a 400 response.
func Malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedBody, err)
}
