// Package api implements the websocket streaming endpoint and the operational HTTP surface.
package api

import (
	"encoding/json"
	"time"
)

// inboundFrame is a client frame: {"event": "...", "data": {...}}.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// outboundFrame is a server frame.
type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ErrorResponse defines a standard structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse defines the structure for the GET /healthz endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Endpoints int    `json:"endpoints"`
}

// StatusResponse defines the structure for the GET /status endpoint.
type StatusResponse struct {
	Endpoints           []string             `json:"endpoints"`
	ActiveSubscriptions int                  `json:"active_subscriptions"`
	Subscriptions       []SubscriptionStatus `json:"subscriptions"`
	Discovery           *DiscoveryStatus     `json:"discovery,omitempty"`
}

// SubscriptionStatus describes one running subscription.
type SubscriptionStatus struct {
	ID           string    `json:"id"`
	ConnectionID string    `json:"connection_id"`
	Identity     string    `json:"identity"`
	Block        string    `json:"block"`
	Filter       string    `json:"filter"`
	CreatedAt    time.Time `json:"created_at"`
}

// DiscoveryStatus describes the latest endpoint discovery run.
type DiscoveryStatus struct {
	RefreshedAt   time.Time `json:"refreshed_at"`
	EndpointCount int       `json:"endpoint_count"`
	Candidates    int       `json:"candidates"`
	Error         string    `json:"error,omitempty"`
}
