// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes recorded by RPCAttemptsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeRPCError  = "rpc_error"
	OutcomeTransport = "transport_error"
)

// Refresh results recorded by DiscoveryRefreshTotal.
const (
	RefreshReplaced    = "replaced"
	RefreshEmpty       = "empty"
	RefreshSourceError = "source_error"
)

var (
	// RPCAttemptsTotal counts single-endpoint JSON-RPC attempts.
	RPCAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_streamer_rpc_attempts_total",
		Help: "Total number of JSON-RPC attempts against pool endpoints.",
	}, []string{"method", "outcome"})

	// RPCCallDuration measures a full failover call, all attempts included.
	RPCCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tx_streamer_rpc_call_duration_seconds",
		Help:    "Duration of JSON-RPC calls including failover.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	}, []string{"method"})

	// RPCPoolExhaustedTotal counts calls where every endpoint failed.
	RPCPoolExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_streamer_rpc_pool_exhausted_total",
		Help: "Total number of calls that failed on every pool endpoint.",
	}, []string{"method"})

	// PoolSize shows the number of endpoints currently in the pool.
	PoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tx_streamer_pool_endpoints",
		Help: "Number of endpoints in the RPC pool.",
	})

	// ActiveSubscriptions shows the number of running dispatchers.
	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tx_streamer_active_subscriptions",
		Help: "Number of subscriptions currently streaming.",
	})

	// SubscriptionsTotal counts finished subscriptions by terminal state.
	SubscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_streamer_subscriptions_total",
		Help: "Total number of finished subscriptions by terminal state.",
	}, []string{"state"})

	// EventsEmittedTotal counts events written to sinks.
	EventsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_streamer_events_emitted_total",
		Help: "Total number of events emitted to subscribers.",
	}, []string{"event"})

	// DiscoveryRefreshTotal counts discovery runs by result.
	DiscoveryRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_streamer_discovery_refresh_total",
		Help: "Total number of endpoint discovery runs.",
	}, []string{"result"})
)
