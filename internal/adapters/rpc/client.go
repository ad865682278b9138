package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"tx_streamer/internal/logger"
	"tx_streamer/internal/metrics"
)

// DefaultRequestTimeout bounds a single HTTP attempt when no client is supplied.
const DefaultRequestTimeout = 20 * time.Second

// Client sends JSON-RPC calls through the pool, failing over to the next endpoint
// on transport errors.
type Client struct {
	pool       *Pool
	httpClient *http.Client
	logger     logger.AppLogger
	requestID  atomic.Int64
}

// NewClient creates a failover RPC client.
func NewClient(pool *Pool, httpClient *http.Client, log logger.AppLogger) (*Client, error) {
	if pool == nil {
		return nil, errors.New("endpoint pool cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	return &Client{
		pool:       pool,
		httpClient: httpClient,
		logger:     log.Component("rpc_client"),
	}, nil
}

// Call performs method against the pool. It makes at most one attempt per endpoint,
// returns a node's *RPCError immediately, and returns ErrPoolExhausted once every
// attempt failed at the transport level.
func (c *Client) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	start := time.Now()
	defer func() {
		metrics.RPCCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	n := c.pool.Size()
	if n == 0 {
		return nil, ErrPoolEmpty
	}

	var (
		lastErr  error
		attempts int
	)
	for attempts < n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url, err := c.pool.Next()
		if err != nil {
			// Pool emptied by a concurrent Replace.
			lastErr = err
			break
		}
		attempts++

		result, err := c.doRPC(ctx, url, method, params)
		if err == nil {
			return result, nil
		}

		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		c.logger.Warn("RPC attempt failed, trying next endpoint",
			"method", method,
			"endpoint", url,
			"attempt", attempts,
			"of", n,
			"error", err,
		)
	}

	metrics.RPCPoolExhaustedTotal.WithLabelValues(method).Inc()
	return nil, fmt.Errorf("%w: %s after %d attempts: %w", ErrPoolExhausted, method, attempts, lastErr)
}

// CallEndpoint performs exactly one attempt against url, bypassing the pool.
func (c *Client) CallEndpoint(ctx context.Context, url, method string, params []any) (json.RawMessage, error) {
	return c.doRPC(ctx, url, method, params)
}

// doRPC performs the actual JSON-RPC call against a single endpoint.
// Any returned error other than *RPCError is a transport failure.
func (c *Client) doRPC(ctx context.Context, url, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	reqBody := JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.requestID.Add(1),
	}

	jsonReqBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal RPC request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonReqBody))
	if err != nil {
		c.countAttempt(method, metrics.OutcomeTransport)
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.countAttempt(method, metrics.OutcomeTransport)
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer func() {
		if errClose := httpResp.Body.Close(); errClose != nil {
			c.logger.Warn("Failed to close response body", "method", method, "error", errClose)
		}
	}()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.countAttempt(method, metrics.OutcomeTransport)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.countAttempt(method, metrics.OutcomeTransport)
		return nil, fmt.Errorf("HTTP request failed with status %s: %s", httpResp.Status, truncate(bodyBytes))
	}

	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(bodyBytes, &rpcResp); err != nil {
		c.countAttempt(method, metrics.OutcomeTransport)
		return nil, fmt.Errorf("%w: %w, body: %s", errNotEnvelope, err, truncate(bodyBytes))
	}

	if rpcResp.Error != nil {
		c.countAttempt(method, metrics.OutcomeRPCError)
		return nil, &RPCError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}

	// A missing result field is distinct from "result": null.
	if len(rpcResp.Result) == 0 {
		c.countAttempt(method, metrics.OutcomeTransport)
		return nil, fmt.Errorf("%w: no result, body: %s", errNotEnvelope, truncate(bodyBytes))
	}

	c.countAttempt(method, metrics.OutcomeSuccess)
	return rpcResp.Result, nil
}

func (c *Client) countAttempt(method, outcome string) {
	metrics.RPCAttemptsTotal.WithLabelValues(method, outcome).Inc()
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
