package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"tx_streamer/internal/logger"
	"tx_streamer/internal/utils"
)

// EndpointCaller performs one JSON-RPC call against a specific endpoint.
type EndpointCaller interface {
	CallEndpoint(ctx context.Context, url, method string, params []any) (json.RawMessage, error)
}

// Prober keeps the candidates that answer eth_blockNumber.
type Prober struct {
	caller  EndpointCaller
	timeout time.Duration
	limit   int
	logger  logger.AppLogger
}

// NewProber creates a prober running at most limit probes at once.
func NewProber(caller EndpointCaller, timeout time.Duration, limit int, log logger.AppLogger) (*Prober, error) {
	if caller == nil {
		return nil, errors.New("endpoint caller cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("probe timeout must be positive, got %s", timeout)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("probe concurrency must be positive, got %d", limit)
	}
	return &Prober{
		caller:  caller,
		timeout: timeout,
		limit:   limit,
		logger:  log.Component("prober"),
	}, nil
}

// Probe returns the healthy candidates in their original order.
func (p *Prober) Probe(ctx context.Context, candidates []string) []string {
	healthy := make([]bool, len(candidates))

	var g errgroup.Group
	g.SetLimit(p.limit)
	for i, candidate := range candidates {
		g.Go(func() error {
			if err := p.probeOne(ctx, candidate); err != nil {
				p.logger.Debug("Endpoint probe failed", "endpoint", candidate, "error", err)
				return nil
			}
			healthy[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(candidates))
	for i, ok := range healthy {
		if ok {
			out = append(out, candidates[i])
		}
	}
	return out
}

func (p *Prober) probeOne(ctx context.Context, endpoint string) error {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result, err := p.caller.CallEndpoint(probeCtx, endpoint, "eth_blockNumber", nil)
	if err != nil {
		return err
	}

	var hexNumber string
	if err := json.Unmarshal(result, &hexNumber); err != nil {
		return fmt.Errorf("unexpected eth_blockNumber result %s: %w", result, err)
	}
	if _, err := utils.HexToInt64(hexNumber); err != nil {
		return fmt.Errorf("unexpected eth_blockNumber result %s: %w", hexNumber, err)
	}
	return nil
}
