package llm

import (
	"context"
)

// LLMClient defines the interface for upstream completion operations.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// GenerateResponse performs one completion attempt and returns the raw
	// assistant content.
	GenerateResponse(ctx context.Context, systemMessage, prompt string) (string, error)

	// Probe checks upstream reachability and credential validity.
	Probe(ctx context.Context) error

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure Client implements LLMClient at compile time.
var _ LLMClient = (*Client)(nil)
