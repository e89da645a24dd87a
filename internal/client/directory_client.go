package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// DirectoryClient is a client for the supplier directory service.
type DirectoryClient struct {
	client *httpClient
}

// NewDirectoryClient creates a new supplier directory client
func NewDirectoryClient(baseURL string, timeout time.Duration) *DirectoryClient {
	return &DirectoryClient{
		client: newHTTPClient(baseURL, timeout),
	}
}

// GetSupplier fetches a supplier's directory record.
func (c *DirectoryClient) GetSupplier(ctx context.Context, supplierID string) (*Supplier, error) {
	path := fmt.Sprintf("/api/v1/suppliers/%s", url.PathEscape(supplierID))

	var resp Supplier
	if err := c.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to get supplier %s: %w", supplierID, err)
	}
	return &resp, nil
}
