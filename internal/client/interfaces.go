package client

import "context"

// ComposerClientInterface defines the interface for the message composer service
type ComposerClientInterface interface {
	ComposeMessage(ctx context.Context, req ComposeMessageRequest) (string, error)
	ExplainDecision(ctx context.Context, req ExplainDecisionRequest) (string, error)
}

// DirectoryClientInterface defines the interface for the supplier directory service
type DirectoryClientInterface interface {
	GetSupplier(ctx context.Context, supplierID string) (*Supplier, error)
}

// ReliabilityClientInterface defines the interface for the reliability service
type ReliabilityClientInterface interface {
	GetSupplierReliability(ctx context.Context, supplierID string) (*float64, error)
}
