package rpc_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeNode is an httptest JSON-RPC node whose replies are chosen per method.
type fakeNode struct {
	*httptest.Server
	hits    atomic.Int64
	methods map[string]func(params []json.RawMessage) (result any, rpcErr map[string]any)
}

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int64             `json:"id"`
}

func newFakeNode(t *testing.T) *fakeNode {
	t.Helper()
	n := &fakeNode{methods: map[string]func([]json.RawMessage) (any, map[string]any){}}
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.hits.Add(1)

		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		handler, ok := n.methods[req.Method]
		if !ok {
			writeJSON(w, map[string]any{
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}

		result, rpcErr := handler(req.Params)
		if rpcErr != nil {
			writeJSON(w, map[string]any{"jsonrpc": "2.0", "id": req.ID, "error": rpcErr})
			return
		}
		writeJSON(w, map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	t.Cleanup(n.Close)
	return n
}

func (n *fakeNode) on(method string, result any) *fakeNode {
	n.methods[method] = func([]json.RawMessage) (any, map[string]any) { return result, nil }
	return n
}

func (n *fakeNode) onError(method string, code int, message string) *fakeNode {
	n.methods[method] = func([]json.RawMessage) (any, map[string]any) {
		return nil, map[string]any{"code": code, "message": message}
	}
	return n
}

// newStatusServer always answers with the given HTTP status.
func newStatusServer(t *testing.T, status int, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func hash64(n int) string {
	return fmt.Sprintf("0x%064x", n)
}

func addr40(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

func rpcTx(n int, from, to, value string) map[string]any {
	tx := map[string]any{
		"hash":     hash64(1000 + n),
		"from":     from,
		"value":    value,
		"gasPrice": "0x3b9aca00",
		"gas":      "0x5208",
		"input":    "0x",
		"nonce":    "0x1",
		"type":     "0x0",
	}
	if to != "" {
		tx["to"] = to
	} else {
		tx["to"] = nil
	}
	return tx
}

func rpcBlock(number string, txs ...map[string]any) map[string]any {
	if txs == nil {
		txs = []map[string]any{}
	}
	return map[string]any{
		"number":       number,
		"hash":         hash64(7),
		"parentHash":   hash64(6),
		"timestamp":    "0x65f1a2b3",
		"transactions": txs,
	}
}
