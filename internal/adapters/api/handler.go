package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"tx_streamer/internal/core/domain/repository"
	"tx_streamer/internal/logger"
)

// EndpointSource exposes the current endpoint pool for reporting.
type EndpointSource interface {
	Snapshot() []string
	Size() int
}

// HTTPHandler serves the operational endpoints.
type HTTPHandler struct {
	pool      EndpointSource
	subRepo   repository.SubscriptionRepository
	stateRepo repository.DiscoveryStateRepository
	logger    logger.AppLogger
}

// NewHTTPHandler creates a new handler with the necessary dependencies.
func NewHTTPHandler(
	pool EndpointSource,
	subRepo repository.SubscriptionRepository,
	stateRepo repository.DiscoveryStateRepository,
	appLogger logger.AppLogger,
) (*HTTPHandler, error) {
	if pool == nil {
		return nil, errors.New("pool cannot be nil for HTTPHandler")
	}
	if subRepo == nil {
		return nil, errors.New("subscription repository cannot be nil for HTTPHandler")
	}
	if stateRepo == nil {
		return nil, errors.New("discovery state repository cannot be nil for HTTPHandler")
	}
	if appLogger == nil {
		return nil, errors.New("logger cannot be nil for HTTPHandler")
	}
	return &HTTPHandler{
		pool:      pool,
		subRepo:   subRepo,
		stateRepo: stateRepo,
		logger:    appLogger,
	}, nil
}

// HandleHealth handles requests to GET /healthz.
// The service is healthy while at least one endpoint is available.
func (h *HTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	requestLogger := h.logger.With("method", r.Method, "path", r.URL.Path)

	size := h.pool.Size()
	if size == 0 {
		respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "no endpoints"}, requestLogger)
		return
	}
	respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok", Endpoints: size}, requestLogger)
}

// HandleStatus handles requests to GET /status.
func (h *HTTPHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	requestLogger := h.logger.With("method", r.Method, "path", r.URL.Path)
	ctx := r.Context()

	subs, err := h.subRepo.FindAll(ctx)
	if err != nil {
		requestLogger.Error("Error listing subscriptions", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve subscriptions", requestLogger)
		return
	}

	resp := StatusResponse{
		Endpoints:           redactEndpoints(h.pool.Snapshot()),
		ActiveSubscriptions: len(subs),
		Subscriptions:       make([]SubscriptionStatus, 0, len(subs)),
	}
	for _, sub := range subs {
		resp.Subscriptions = append(resp.Subscriptions, SubscriptionStatus{
			ID:           sub.ID,
			ConnectionID: sub.ConnectionID,
			Identity:     sub.Identity,
			Block:        sub.Block.String(),
			Filter:       sub.Filter.String(),
			CreatedAt:    sub.CreatedAt,
		})
	}

	state, err := h.stateRepo.Get(ctx)
	switch {
	case err == nil:
		resp.Discovery = &DiscoveryStatus{
			RefreshedAt:   state.RefreshedAt,
			EndpointCount: state.EndpointCount,
			Candidates:    state.Candidates,
			Error:         state.Err,
		}
	case errors.Is(err, repository.ErrStateNotInitialized):
	default:
		requestLogger.Warn("Error reading discovery state", "error", err)
	}

	respondWithJSON(w, http.StatusOK, resp, requestLogger)
}

// redactEndpoints strips credentials and query strings, which commonly carry API keys.
func redactEndpoints(endpoints []string) []string {
	out := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		u, err := url.Parse(e)
		if err != nil {
			out = append(out, "[unparsable]")
			continue
		}
		u.User = nil
		if u.RawQuery != "" {
			u.RawQuery = "redacted"
		}
		out = append(out, u.String())
	}
	return out
}

// respondWithError logs a warning and sends a JSON error response with the given code and message.
func respondWithError(w http.ResponseWriter, code int, message string, l logger.AppLogger) {
	if l == nil {
		l = logger.NewSlogAdapter(slog.Default())
	}
	l.Warn("Responding with error", "http_code", code, "message", message)
	respondWithJSON(w, code, ErrorResponse{Error: message}, l)
}

// respondWithJSON marshals the given payload into JSON and writes it to the response writer.
func respondWithJSON(w http.ResponseWriter, code int, payload any, l logger.AppLogger) {
	if l == nil {
		l = logger.NewSlogAdapter(slog.Default())
	}

	response, err := json.Marshal(payload)
	if err != nil {
		l.Error("Error marshaling JSON response",
			"error", err.Error(),
			"payload_type", fmt.Sprintf("%T", payload),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	n, writeErr := w.Write(response)
	if writeErr != nil {
		l.Error("Error writing response body", "error", writeErr, "bytes_written", n)
	}
}
