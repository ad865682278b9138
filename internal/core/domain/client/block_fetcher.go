// Package client defines interfaces for external service clients, such as an Ethereum node client.
//
//go:generate mockery --name=BlockFetcher --output=../../application/mocks/mock_client --outpkg=mock_client
package client

import (
	"context"
	"errors"
	"fmt"

	"tx_streamer/internal/core/domain"
)

var (
	// ErrBlockNotFound indicates that the requested block does not exist on the chain.
	ErrBlockNotFound = errors.New("block not found")

	// ErrUpstreamUnavailable indicates that no node could serve the request.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNoEndpoints indicates that there was no node to ask.
	ErrNoEndpoints = fmt.Errorf("%w: no rpc endpoint available", ErrUpstreamUnavailable)

	// ErrAllEndpointsFailed indicates that every node was tried and none answered.
	ErrAllEndpointsFailed = fmt.Errorf("%w: all rpc endpoints failed", ErrUpstreamUnavailable)
)

// Rejection is a protocol level refusal by a node. Its upstream message holds no
// endpoint details and can be shown to clients.
type Rejection interface {
	error
	UpstreamMessage() string
}

// BlockFetcher retrieves a single block with full transaction objects.
type BlockFetcher interface {
	// GetBlock resolves ref and fetches that block. The latest reference is resolved at call time.
	GetBlock(ctx context.Context, ref domain.BlockRef) (*domain.Block, error)
}
