// Package repository defines interfaces for data storage and retrieval operations.
//
//go:generate mockery --name=SubscriptionRepository --output=../../application/mocks/mock_repository --outpkg=mock_repository
package repository

import (
	"context"
	"errors"

	"tx_streamer/internal/core/domain"
)

var (
	// ErrSubscriptionExists indicates an attempt to register an id twice.
	ErrSubscriptionExists = errors.New("subscription already registered")

	// ErrSubscriptionNotFound indicates an unknown subscription id.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// SubscriptionRepository tracks the subscriptions whose dispatchers are currently running.
type SubscriptionRepository interface {
	// Add registers an active subscription.
	Add(ctx context.Context, sub domain.Subscription) error

	// Remove unregisters a subscription once its dispatcher has finished.
	Remove(ctx context.Context, id string) error

	// FindAll retrieves all active subscriptions.
	FindAll(ctx context.Context) ([]domain.Subscription, error)

	// Count returns the number of active subscriptions.
	Count(ctx context.Context) (int, error)
}
