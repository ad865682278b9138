package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"tx_streamer/internal/core/domain"
	"tx_streamer/internal/core/domain/repository"
	"tx_streamer/internal/logger"
	"tx_streamer/internal/metrics"
)

// ErrNoEndpoints is returned by Refresh when no usable endpoint was found.
var ErrNoEndpoints = errors.New("discovery found no usable endpoints")

// EndpointPool is the pool the refresher fills.
type EndpointPool interface {
	Replace(endpoints []string)
	Size() int
}

// Refresher periodically rebuilds the endpoint pool from its sources.
type Refresher struct {
	sources   []Source
	prober    *Prober
	pool      EndpointPool
	stateRepo repository.DiscoveryStateRepository
	interval  time.Duration
	logger    logger.AppLogger
}

// NewRefresher creates a refresher. A nil prober disables probing.
func NewRefresher(
	pool EndpointPool,
	stateRepo repository.DiscoveryStateRepository,
	prober *Prober,
	interval time.Duration,
	log logger.AppLogger,
	sources ...Source,
) (*Refresher, error) {
	if pool == nil {
		return nil, errors.New("endpoint pool cannot be nil")
	}
	if stateRepo == nil {
		return nil, errors.New("discovery state repository cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	if len(sources) == 0 {
		return nil, errors.New("at least one endpoint source is required")
	}
	return &Refresher{
		sources:   sources,
		prober:    prober,
		pool:      pool,
		stateRepo: stateRepo,
		interval:  interval,
		logger:    log.Component("discovery"),
	}, nil
}

// Run refreshes immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("Endpoint discovery started", "interval", r.interval.String(), "sources", len(r.sources))

	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("Endpoint refresh failed, keeping current pool", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Warn("Endpoint refresh failed, keeping current pool", "error", err)
			}
		case <-ctx.Done():
			r.logger.Info("Endpoint discovery stopping.")
			return nil
		}
	}
}

// Refresh runs one discovery round. The pool is replaced only when every source
// answered and at least one endpoint survived probing.
func (r *Refresher) Refresh(ctx context.Context) error {
	candidates, err := r.collect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.DiscoveryRefreshTotal.WithLabelValues(metrics.RefreshSourceError).Inc()
		r.storeState(ctx, len(candidates), err)
		return err
	}

	healthy := candidates
	if r.prober != nil {
		healthy = r.prober.Probe(ctx, candidates)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if len(healthy) == 0 {
		metrics.DiscoveryRefreshTotal.WithLabelValues(metrics.RefreshEmpty).Inc()
		r.storeState(ctx, len(candidates), ErrNoEndpoints)
		return fmt.Errorf("%w: %d candidates", ErrNoEndpoints, len(candidates))
	}

	r.pool.Replace(healthy)
	metrics.DiscoveryRefreshTotal.WithLabelValues(metrics.RefreshReplaced).Inc()
	r.storeState(ctx, len(candidates), nil)
	r.logger.Info("Endpoint pool refreshed", "candidates", len(candidates), "endpoints", len(healthy))
	return nil
}

// collect merges every source, dropping duplicates and keeping first-seen order.
func (r *Refresher) collect(ctx context.Context) ([]string, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	var merged []string
	var errs []error

	for _, src := range r.sources {
		endpoints, err := src.Endpoints(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("source %s: %w", src.Name(), err))
			continue
		}
		for _, e := range endpoints {
			if seen.Add(e) {
				merged = append(merged, e)
			}
		}
	}
	return merged, errors.Join(errs...)
}

func (r *Refresher) storeState(ctx context.Context, candidates int, refreshErr error) {
	state := domain.DiscoveryState{
		RefreshedAt:   time.Now().UTC(),
		EndpointCount: r.pool.Size(),
		Candidates:    candidates,
	}
	if refreshErr != nil {
		state.Err = refreshErr.Error()
	}
	if err := r.stateRepo.Set(context.WithoutCancel(ctx), state); err != nil {
		r.logger.Error("Failed to store discovery state", "error", err)
	}
}
