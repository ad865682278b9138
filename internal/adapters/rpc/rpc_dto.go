package rpc

import (
	"encoding/json"
)

// JSONRPCRequest is a JSON-RPC 2.0 call envelope.
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

// Error is the error member of a reply.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSONRPCResponse is a JSON-RPC 2.0 reply envelope. Nodes echo the id in whatever
// type they like, so it is kept raw.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Transaction holds the fields read from a full transaction object of
// eth_getBlockByNumber. Quantities are hex strings.
type Transaction struct {
	Hash     string  `json:"hash"`
	From     string  `json:"from"`
	To       *string `json:"to"`
	Value    string  `json:"value"`
	GasPrice string  `json:"gasPrice"`
}

// Block holds the header fields used by the streamer plus full transactions.
type Block struct {
	Number       string        `json:"number"`
	Hash         string        `json:"hash"`
	Transactions []Transaction `json:"transactions"`
}
