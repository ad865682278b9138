package application

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"tx_streamer/internal/core/domain"
	"tx_streamer/internal/core/domain/client"
	"tx_streamer/internal/logger"
	"tx_streamer/internal/metrics"
	"tx_streamer/pkg/txstream"
)

// State is the lifecycle position of a Dispatcher.
type State int32

// Dispatcher states. Done and Errored are terminal.
const (
	StateIdle State = iota
	StateFetching
	StateStreaming
	StateDone
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ErrAlreadyRun is reported when Run is called on a used dispatcher.
var ErrAlreadyRun = errors.New("dispatcher already run")

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithStartHook registers fn to be called once the request is validated, before the fetch starts.
func WithStartHook(fn func(ref domain.BlockRef, filter domain.Filter)) DispatcherOption {
	return func(d *Dispatcher) {
		d.onStart = fn
	}
}

// Dispatcher serves a single subscription: it fetches one block, filters it once and
// emits the matches to the sink one at a time.
type Dispatcher struct {
	fetcher  client.BlockFetcher
	sink     txstream.Sink
	settings StreamSettings
	logger   logger.AppLogger
	onStart  func(domain.BlockRef, domain.Filter)

	started atomic.Bool
	state   atomic.Int32
	err     atomic.Pointer[error]
}

// NewDispatcher creates a dispatcher bound to one sink.
func NewDispatcher(
	fetcher client.BlockFetcher,
	sink txstream.Sink,
	settings StreamSettings,
	appLogger logger.AppLogger,
	opts ...DispatcherOption,
) (*Dispatcher, error) {
	if appLogger == nil {
		return nil, errors.New("NewDispatcher: appLogger is nil")
	}
	if fetcher == nil {
		return nil, errors.New("NewDispatcher: fetcher is nil")
	}
	if sink == nil {
		return nil, errors.New("NewDispatcher: sink is nil")
	}
	if settings.USDPerEther == nil {
		return nil, errors.New("NewDispatcher: exchange rate is nil")
	}

	d := &Dispatcher{
		fetcher:  fetcher,
		sink:     sink,
		settings: settings,
		logger:   appLogger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// State returns the current state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Err returns the failure that moved the dispatcher to StateErrored, if any.
func (d *Dispatcher) Err() error {
	if p := d.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Run drives the subscription to a terminal state and returns it. A dispatcher runs once;
// later calls return StateErrored without touching the sink.
func (d *Dispatcher) Run(ctx context.Context, req txstream.SubscribeRequest) State {
	if !d.started.CompareAndSwap(false, true) {
		d.logger.Warn("Dispatcher reused, ignoring request")
		return StateErrored
	}

	ref, filter, err := ParseSubscribeRequest(req)
	if err != nil {
		d.logger.Info("Rejected subscribe request", "error", err)
		return d.fail(err, err.Error())
	}

	logger := d.logger.With("block", ref.String(), "filter", filter.String())
	if d.onStart != nil {
		d.onStart(ref, filter)
	}

	d.setState(StateFetching)
	block, err := d.fetcher.GetBlock(ctx, ref)
	if err != nil {
		if d.gone(ctx) {
			logger.Info("Client gone before fetch completed", "error", err)
			return d.setState(StateDone)
		}
		logger.Error("Failed to fetch block", "error", err)
		return d.fail(err, fetchErrorMessage(err, ref))
	}

	matches, err := filter.Apply(block.Transactions, d.settings.USDPerEther)
	if err != nil {
		logger.Error("Failed to apply filter", "error", err)
		return d.fail(err, err.Error())
	}

	logger = logger.With("block_number", block.Number.Value())
	logger.Info("Streaming transactions", "matched", len(matches), "total", len(block.Transactions))

	d.setState(StateStreaming)
	for i, tx := range matches {
		if i > 0 && !d.wait(ctx) {
			logger.Info("Client gone, stopping stream", "emitted", i, "matched", len(matches))
			return d.setState(StateDone)
		}
		if d.gone(ctx) {
			logger.Info("Client gone, stopping stream", "emitted", i, "matched", len(matches))
			return d.setState(StateDone)
		}
		if err := d.sink.Emit(txstream.EventTransaction, mapDomainToTransactionPayload(tx)); err != nil {
			logger.Info("Emit failed, treating as disconnect", "emitted", i, "error", err)
			return d.setState(StateDone)
		}
		metrics.EventsEmittedTotal.WithLabelValues(txstream.EventTransaction).Inc()
	}

	logger.Info("Stream complete", "emitted", len(matches))
	return d.setState(StateDone)
}

// wait pauses for the emit interval. It returns false if the client went away meanwhile.
func (d *Dispatcher) wait(ctx context.Context) bool {
	if d.settings.EmitInterval <= 0 {
		return true
	}
	timer := time.NewTimer(d.settings.EmitInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-d.sink.Disconnected():
		return false
	case <-ctx.Done():
		return false
	}
}

func (d *Dispatcher) gone(ctx context.Context) bool {
	select {
	case <-d.sink.Disconnected():
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// fail records err, reports message to the client once and moves to StateErrored.
func (d *Dispatcher) fail(err error, message string) State {
	d.err.Store(&err)
	if emitErr := d.sink.Emit(txstream.EventError, txstream.ErrorPayload{Message: message}); emitErr != nil {
		d.logger.Warn("Failed to emit error event", "error", emitErr)
	} else {
		metrics.EventsEmittedTotal.WithLabelValues(txstream.EventError).Inc()
	}
	return d.setState(StateErrored)
}

func (d *Dispatcher) setState(s State) State {
	d.state.Store(int32(s))
	return s
}

// fetchErrorMessage turns a fetch failure into a client facing message.
// Transport errors can embed endpoint URLs with API keys and are never echoed;
// a node's own rejection message is.
func fetchErrorMessage(err error, ref domain.BlockRef) string {
	var rejection client.Rejection
	switch {
	case errors.Is(err, client.ErrBlockNotFound):
		return fmt.Sprintf("block %s not found", ref)
	case errors.As(err, &rejection):
		return fmt.Sprintf("failed to fetch block %s: %s", ref, rejection.UpstreamMessage())
	case errors.Is(err, client.ErrNoEndpoints):
		return fmt.Sprintf("failed to fetch block %s: no rpc endpoint available", ref)
	case errors.Is(err, client.ErrAllEndpointsFailed):
		return fmt.Sprintf("failed to fetch block %s: all rpc endpoints failed", ref)
	case errors.Is(err, client.ErrUpstreamUnavailable):
		return fmt.Sprintf("failed to fetch block %s: upstream unavailable", ref)
	default:
		return fmt.Sprintf("failed to fetch block %s", ref)
	}
}
