// Package rpc implements a failover JSON-RPC client over a round-robin pool of Ethereum endpoints.
package rpc

import (
	"sync"

	"tx_streamer/internal/metrics"
)

// Pool is a round-robin list of endpoint URLs. It keeps no health memory:
// every endpoint is handed out in turn regardless of past failures.
type Pool struct {
	mu        sync.Mutex
	endpoints []string
	cursor    int
}

// NewPool creates a pool holding a copy of endpoints.
func NewPool(endpoints []string) *Pool {
	p := &Pool{}
	p.Replace(endpoints)
	return p
}

// Replace swaps the whole endpoint list and resets the cursor.
func (p *Pool) Replace(endpoints []string) {
	cp := make([]string, len(endpoints))
	copy(cp, endpoints)

	p.mu.Lock()
	p.endpoints = cp
	p.cursor = 0
	p.mu.Unlock()

	metrics.PoolSize.Set(float64(len(cp)))
}

// Next returns the endpoint under the cursor and advances it.
func (p *Pool) Next() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.endpoints) == 0 {
		return "", ErrPoolEmpty
	}
	url := p.endpoints[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.endpoints)
	return url, nil
}

// Size returns the number of endpoints.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.endpoints)
}

// Snapshot returns a copy of the current endpoint list.
func (p *Pool) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	cp := make([]string, len(p.endpoints))
	copy(cp, p.endpoints)
	return cp
}
