// Package application contains the core application service logic for transaction streaming.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tx_streamer/internal/config"
	"tx_streamer/internal/core/domain"
	"tx_streamer/internal/core/domain/client"
	"tx_streamer/internal/core/domain/repository"
	"tx_streamer/internal/logger"
	"tx_streamer/internal/metrics"
	"tx_streamer/pkg/txstream"
)

// StreamServiceImpl implements the txstream.Streamer interface. Each call to Subscribe
// gets a fresh Dispatcher; nothing but the fetcher is shared between subscriptions.
type StreamServiceImpl struct {
	fetcher  client.BlockFetcher
	subRepo  repository.SubscriptionRepository
	logger   logger.AppLogger
	settings StreamSettings
}

// Compile-time check to ensure StreamServiceImpl implements txstream.Streamer
var _ txstream.Streamer = (*StreamServiceImpl)(nil)

// NewStreamService creates a new instance of StreamServiceImpl.
func NewStreamService(
	fetcher client.BlockFetcher,
	subRepo repository.SubscriptionRepository,
	appLogger logger.AppLogger,
	streamCfg config.StreamConfig,
) (*StreamServiceImpl, error) {
	if appLogger == nil {
		return nil, errors.New("NewStreamService: appLogger is nil")
	}
	if fetcher == nil {
		appLogger.Error("NewStreamService: fetcher is nil")
		return nil, errors.New("NewStreamService: fetcher is nil")
	}
	if subRepo == nil {
		appLogger.Error("NewStreamService: subRepo is nil")
		return nil, errors.New("NewStreamService: subRepo is nil")
	}

	settings, err := NewStreamSettings(streamCfg)
	if err != nil {
		return nil, fmt.Errorf("NewStreamService: %w", err)
	}

	return &StreamServiceImpl{
		fetcher:  fetcher,
		subRepo:  subRepo,
		logger:   appLogger.Component("stream_service"),
		settings: settings,
	}, nil
}

// Subscribe runs one subscription to completion on the calling goroutine.
func (s *StreamServiceImpl) Subscribe(
	ctx context.Context,
	sink txstream.Sink,
	caller txstream.Caller,
	req txstream.SubscribeRequest,
) error {
	id := uuid.NewString()
	subLogger := s.logger.With(
		"subscription_id", id,
		"connection_id", caller.ConnectionID,
		"identity", caller.Identity,
	)

	registered := false
	register := func(ref domain.BlockRef, filter domain.Filter) {
		sub := domain.Subscription{
			ID:           id,
			ConnectionID: caller.ConnectionID,
			Identity:     caller.Identity,
			Block:        ref,
			Filter:       filter,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.subRepo.Add(ctx, sub); err != nil {
			subLogger.Error("Failed to register subscription", "error", err)
			return
		}
		registered = true
		metrics.ActiveSubscriptions.Inc()
	}

	dispatcher, err := NewDispatcher(s.fetcher, sink, s.settings, subLogger, WithStartHook(register))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	state := dispatcher.Run(ctx, req)

	if registered {
		metrics.ActiveSubscriptions.Dec()
		if err := s.subRepo.Remove(context.WithoutCancel(ctx), id); err != nil {
			subLogger.Error("Failed to unregister subscription", "error", err)
		}
	}
	metrics.SubscriptionsTotal.WithLabelValues(state.String()).Inc()
	subLogger.Debug("Subscription finished", "state", state.String())

	if state == StateErrored {
		return dispatcher.Err()
	}
	return nil
}
