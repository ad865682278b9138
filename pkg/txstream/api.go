// Package txstream defines the public API contracts for the transaction streaming service.
package txstream

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
)

// Event names used on the wire.
const (
	EventSubscribe   = "subscribe"
	EventTransaction = "transaction"
	EventError       = "error"
)

// BlockID is the client supplied block identifier. It accepts a JSON string, a JSON
// number or null. Non-string values are kept as their literal text and validated later.
type BlockID string

// UnmarshalJSON implements json.Unmarshaler.
func (b *BlockID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*b = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*b = BlockID(s)
	default:
		*b = BlockID(trimmed)
	}
	return nil
}

// SubscribeRequest is the data of a "subscribe" event.
type SubscribeRequest struct {
	BlockID BlockID `json:"blockId,omitempty"`
	Type    string  `json:"type,omitempty"`
	Address string  `json:"address,omitempty"`
	Range   string  `json:"range,omitempty"`
}

// TransactionPayload is the data of a "transaction" event.
// ReceiverAddress is null for contract creations.
type TransactionPayload struct {
	SenderAddress   string   `json:"senderAddress"`
	ReceiverAddress *string  `json:"receiverAddress"`
	BlockNumber     int64    `json:"blockNumber"`
	BlockHash       string   `json:"blockHash"`
	TransactionHash string   `json:"transactionHash"`
	GasPriceInWei   *big.Int `json:"gasPriceInWei"`
	ValueInWei      *big.Int `json:"valueInWei"`
}

// ErrorPayload is the data of an "error" event.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Sink is the per-connection outlet a subscription writes to.
type Sink interface {
	// Emit sends one event to the client. An error means the client is gone.
	Emit(event string, payload any) error

	// Disconnected is closed once the client has gone away.
	Disconnected() <-chan struct{}
}

// Caller identifies the connection a subscription belongs to.
type Caller struct {
	ConnectionID string
	Identity     string
}

// Streamer defines the public interface of the streaming service.
type Streamer interface {
	// Subscribe runs one subscription to completion. It returns nil when every matching
	// transaction was emitted or the client went away, and the failure otherwise.
	// A failure has already been reported to the sink as an "error" event.
	Subscribe(ctx context.Context, sink Sink, caller Caller, req SubscribeRequest) error
}
