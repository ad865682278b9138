package repository

import (
	"context"
	"errors"

	"tx_streamer/internal/core/domain"
)

// ErrStateNotInitialized indicates that no discovery run has completed yet.
var ErrStateNotInitialized = errors.New("discovery state not initialized")

// DiscoveryStateRepository keeps the outcome of the latest endpoint discovery run.
type DiscoveryStateRepository interface {
	// Get retrieves the last stored discovery outcome.
	Get(ctx context.Context) (domain.DiscoveryState, error)

	// Set replaces the stored discovery outcome.
	Set(ctx context.Context, state domain.DiscoveryState) error
}
