package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// ReliabilityClient is a client for the supplier reliability history service.
type ReliabilityClient struct {
	client *httpClient
}

// NewReliabilityClient creates a new reliability service client
func NewReliabilityClient(baseURL string, timeout time.Duration) *ReliabilityClient {
	return &ReliabilityClient{
		client: newHTTPClient(baseURL, timeout),
	}
}

// GetSupplierReliability returns the supplier's 0-100 reliability score, or
// nil when the service has no history for the supplier.
func (c *ReliabilityClient) GetSupplierReliability(ctx context.Context, supplierID string) (*float64, error) {
	path := fmt.Sprintf("/api/v1/suppliers/%s/reliability", url.PathEscape(supplierID))

	var resp ReliabilityResponse
	if err := c.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to get reliability for %s: %w", supplierID, err)
	}
	if resp.SampleSize == 0 {
		return nil, nil
	}
	score := resp.Score
	return &score, nil
}
