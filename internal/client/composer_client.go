package client

import (
	"context"
	"fmt"
	"time"
)

// ComposerClient is a client for the message composer service. The engine
// decides WHAT to negotiate; the composer turns the structured ask into prose
// and handles delivery to the supplier.
type ComposerClient struct {
	client *httpClient
}

// NewComposerClient creates a new composer service client
func NewComposerClient(baseURL string, timeout time.Duration) *ComposerClient {
	return &ComposerClient{
		client: newHTTPClient(baseURL, timeout),
	}
}

// ComposeMessage drafts a negotiation message for one round.
func (c *ComposerClient) ComposeMessage(ctx context.Context, req ComposeMessageRequest) (string, error) {
	var resp ComposeMessageResponse
	if err := c.client.Post(ctx, "/api/v1/messages/compose", req, &resp); err != nil {
		return "", fmt.Errorf("failed to compose message: %w", err)
	}
	return resp.Message, nil
}

// ExplainDecision drafts a human-readable explanation of a decision from its
// structured breakdown.
func (c *ComposerClient) ExplainDecision(ctx context.Context, req ExplainDecisionRequest) (string, error) {
	var resp ExplainDecisionResponse
	if err := c.client.Post(ctx, "/api/v1/decisions/explain", req, &resp); err != nil {
		return "", fmt.Errorf("failed to explain decision: %w", err)
	}
	return resp.Explanation, nil
}
