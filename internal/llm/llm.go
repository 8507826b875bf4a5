package llm

import (
	"context"
	"errors"
)

// Client sends a single prompt to a chat-completion provider and returns the
// raw text reply. Implementations must honor ctx cancellation.
type Client interface {
	Complete(ctx context.Context, system string, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient stands in when no provider credentials are set. Every
// completion fails with ErrNotConfigured.
type PlaceholderClient struct{}

func (PlaceholderClient) Complete(ctx context.Context, system string, prompt string) (string, error) {
	_ = ctx
	_ = system
	_ = prompt
	return "", ErrNotConfigured
}
