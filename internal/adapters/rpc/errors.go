package rpc

import (
	"errors"
	"fmt"

	"tx_streamer/internal/core/domain/client"
)

var (
	// ErrPoolEmpty indicates that the endpoint pool holds no endpoints.
	ErrPoolEmpty = fmt.Errorf("%w: pool is empty", client.ErrNoEndpoints)

	// ErrPoolExhausted indicates that every endpoint in the pool failed at the transport level.
	ErrPoolExhausted = fmt.Errorf("%w: pool exhausted", client.ErrAllEndpointsFailed)

	// ErrBlockNotFound indicates that the node returned a null block.
	ErrBlockNotFound = client.ErrBlockNotFound

	// errNotEnvelope marks a 2xx body that is not a JSON-RPC response.
	errNotEnvelope = errors.New("response is not a json-rpc envelope")
)

// RPCError is the error object returned by a node. It is a valid protocol answer,
// so it is returned to the caller without trying other endpoints.
type RPCError struct {
	Code    int
	Message string
}

// Compile-time check to ensure RPCError implements client.Rejection
var _ client.Rejection = (*RPCError)(nil)

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error: code=%d, message='%s'", e.Code, e.Message)
}

// UpstreamMessage implements client.Rejection.
func (e *RPCError) UpstreamMessage() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
