package refund

import "context"

// Backend mirrors the refund list somewhere outside the process
type Backend interface {
	// FetchAll returns every refund known to the backend, in display order
	FetchAll(ctx context.Context) ([]Refund, error)

	// Create persists a new refund
	Create(ctx context.Context, r Refund) error

	// Delete removes a refund. Implementations return an error wrapping
	// ErrNotFound when the refund does not exist.
	Delete(ctx context.Context, id string) error
}
