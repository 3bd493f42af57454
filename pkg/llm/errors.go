package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrorType classifies upstream failures.
type ErrorType string

const (
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeEndpoint  ErrorType = "endpoint"
	ErrorTypeModel     ErrorType = "model"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error represents a structured upstream error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Retryable  bool      // Whether the operation can be retried
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface.
// This allows the retry package to check retryability without importing llm.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new structured upstream error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// retryableStatus holds the HTTP statuses worth retrying: rate limiting and
// transient server failures. Every other 4xx fails immediately.
var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// ClassifyError categorizes an error and returns a structured Error.
// Retryable: connect failures, timeouts, 429 and 5xx. Non-retryable: any
// other 4xx, bad credentials, unknown models.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	// Already classified
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	// Structured API errors carry the status code directly
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	lower := strings.ToLower(err.Error())

	// Per-attempt timeout or caller cancellation
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded") {
		return NewError(ErrorTypeEndpoint, "request timeout", true, err)
	}

	// Transport-level connect failures
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "connection reset") || strings.Contains(lower, "eof") {
		return NewError(ErrorTypeEndpoint, "connection failed", true, err)
	}

	return NewError(ErrorTypeUnknown, "upstream error", false, err)
}

func classifyStatus(status int, cause error) *Error {
	e := &Error{Cause: cause, StatusCode: status}
	switch {
	case status == 401 || status == 403:
		e.Type = ErrorTypeAuth
		e.Message = "authentication failed"
	case status == 404:
		e.Type = ErrorTypeModel
		e.Message = "model or endpoint not found"
	case status == 429:
		e.Type = ErrorTypeRateLimit
		e.Message = "rate limited"
		e.Retryable = true
	case status >= 500:
		e.Type = ErrorTypeEndpoint
		e.Message = "server error"
		e.Retryable = true
	default:
		e.Type = ErrorTypeUnknown
		e.Message = "upstream error"
		e.Retryable = retryableStatus[status]
	}
	return e
}

// IsRetryable returns true if the error is a retryable upstream error.
func IsRetryable(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}
