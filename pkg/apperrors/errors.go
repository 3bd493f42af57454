// Package apperrors defines the error taxonomy shared across the service.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured indicates a missing upstream credential. Reported to
	// callers generically; the operator sees the detail in logs.
	ErrNotConfigured = errors.New("AI upstream is not configured")
)

// ValidationError reports a client-fault problem with the request payload.
// Field names the offending input where one can be named.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a specific field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// MalformedResponseError indicates the upstream model returned content that
// could not be parsed into a recommendation even after tolerant extraction,
// or a payload missing required fields. Carries the original decode error.
type MalformedResponseError struct {
	Detail string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed AI response: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("malformed AI response: %s", e.Detail)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// NewMalformedResponse creates a MalformedResponseError.
func NewMalformedResponse(detail string, cause error) *MalformedResponseError {
	return &MalformedResponseError{Detail: detail, Cause: cause}
}

// IsMalformedResponse reports whether err is (or wraps) a MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
