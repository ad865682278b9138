// Package subscription provides an in-memory implementation of the SubscriptionRepository interface.
package subscription

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tx_streamer/internal/core/domain"
	"tx_streamer/internal/core/domain/repository"
)

// InMemorySubscriptionRepo implements the SubscriptionRepository interface using an in-memory map.
type InMemorySubscriptionRepo struct {
	mu            sync.RWMutex
	subscriptions map[string]domain.Subscription
}

// Compile-time check to ensure InMemorySubscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*InMemorySubscriptionRepo)(nil)

// NewInMemorySubscriptionRepo creates a new in-memory subscription registry.
func NewInMemorySubscriptionRepo() *InMemorySubscriptionRepo {
	return &InMemorySubscriptionRepo{
		subscriptions: make(map[string]domain.Subscription),
	}
}

// Add registers an active subscription.
func (r *InMemorySubscriptionRepo) Add(_ context.Context, sub domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subscriptions[sub.ID]; exists {
		return fmt.Errorf("%w: %s", repository.ErrSubscriptionExists, sub.ID)
	}
	r.subscriptions[sub.ID] = sub
	return nil
}

// Remove unregisters a subscription.
func (r *InMemorySubscriptionRepo) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subscriptions[id]; !exists {
		return fmt.Errorf("%w: %s", repository.ErrSubscriptionNotFound, id)
	}
	delete(r.subscriptions, id)
	return nil
}

// FindAll retrieves all active subscriptions, oldest first.
func (r *InMemorySubscriptionRepo) FindAll(_ context.Context) ([]domain.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subList := make([]domain.Subscription, 0, len(r.subscriptions))
	for _, sub := range r.subscriptions {
		subList = append(subList, sub)
	}
	sort.Slice(subList, func(i, j int) bool {
		if subList[i].CreatedAt.Equal(subList[j].CreatedAt) {
			return subList[i].ID < subList[j].ID
		}
		return subList[i].CreatedAt.Before(subList[j].CreatedAt)
	})
	return subList, nil
}

// Count returns the number of active subscriptions.
func (r *InMemorySubscriptionRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subscriptions), nil
}
