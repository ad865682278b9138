// Package discovery_state provides an in-memory implementation of the DiscoveryStateRepository interface.
package discovery_state

import (
	"context"
	"sync"

	"tx_streamer/internal/core/domain"
	"tx_streamer/internal/core/domain/repository"
)

// InMemoryDiscoveryStateRepo is an in-memory implementation of DiscoveryStateRepository.
type InMemoryDiscoveryStateRepo struct {
	mu    sync.RWMutex
	state *domain.DiscoveryState
}

// Compile-time check to ensure InMemoryDiscoveryStateRepo implements repository.DiscoveryStateRepository
var _ repository.DiscoveryStateRepository = (*InMemoryDiscoveryStateRepo)(nil)

// NewInMemoryDiscoveryStateRepo creates a new InMemoryDiscoveryStateRepo.
func NewInMemoryDiscoveryStateRepo() *InMemoryDiscoveryStateRepo {
	return &InMemoryDiscoveryStateRepo{}
}

// Get retrieves the last discovery outcome.
func (r *InMemoryDiscoveryStateRepo) Get(_ context.Context) (domain.DiscoveryState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state == nil {
		return domain.DiscoveryState{}, repository.ErrStateNotInitialized
	}
	return *r.state, nil
}

// Set stores the discovery outcome.
func (r *InMemoryDiscoveryStateRepo) Set(_ context.Context, state domain.DiscoveryState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stateCopy := state
	r.state = &stateCopy
	return nil
}
