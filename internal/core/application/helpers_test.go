package application_test

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"tx_streamer/internal/core/application"
	"tx_streamer/internal/core/domain"
	"tx_streamer/pkg/txstream"

	"github.com/stretchr/testify/require"
)

const (
	addrA = "0x00000000000000000000000000000000000000aa"
	addrB = "0x00000000000000000000000000000000000000bb"
	addrC = "0x00000000000000000000000000000000000000cc"
)

var errSinkClosed = errors.New("sink closed")

type recordedEvent struct {
	Event   string
	Payload any
	At      time.Time
}

// recordingSink captures events and can simulate a client going away.
type recordingSink struct {
	mu              sync.Mutex
	events          []recordedEvent
	disconnected    chan struct{}
	closeOnce       sync.Once
	disconnectAfter int
	emitErr         error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{disconnected: make(chan struct{})}
}

func (s *recordingSink) Emit(event string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emitErr != nil {
		return s.emitErr
	}
	s.events = append(s.events, recordedEvent{Event: event, Payload: payload, At: time.Now()})
	if s.disconnectAfter > 0 && len(s.events) >= s.disconnectAfter {
		s.disconnect()
	}
	return nil
}

func (s *recordingSink) Disconnected() <-chan struct{} {
	return s.disconnected
}

func (s *recordingSink) disconnect() {
	s.closeOnce.Do(func() { close(s.disconnected) })
}

func (s *recordingSink) snapshot() []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]recordedEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordingSink) byEvent(name string) []recordedEvent {
	var out []recordedEvent
	for _, e := range s.snapshot() {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

func testSettings(interval time.Duration) application.StreamSettings {
	return application.StreamSettings{EmitInterval: interval, USDPerEther: big.NewRat(5000, 1)}
}

func mustAddr(t *testing.T, s string) domain.Address {
	t.Helper()
	if s == "" {
		return domain.Address{}
	}
	a, err := domain.NewAddress(s)
	require.NoError(t, err)
	return a
}

func mustTx(t *testing.T, n int, from, to, wei string) domain.Transaction {
	t.Helper()
	hash, err := domain.NewTransactionHash(fmt.Sprintf("0x%064x", n))
	require.NoError(t, err)
	value, err := domain.NewWeiValue(wei)
	require.NoError(t, err)
	gas, err := domain.NewWeiValue("1000000000")
	require.NoError(t, err)
	bn, err := domain.NewBlockNumber(100)
	require.NoError(t, err)
	bh, err := domain.NewBlockHash(fmt.Sprintf("0x%064x", 100))
	require.NoError(t, err)
	return domain.NewTransaction(hash, mustAddr(t, from), mustAddr(t, to), value, gas, bn, bh)
}

func mustBlock(t *testing.T, txs ...domain.Transaction) *domain.Block {
	t.Helper()
	bn, err := domain.NewBlockNumber(100)
	require.NoError(t, err)
	bh, err := domain.NewBlockHash(fmt.Sprintf("0x%064x", 100))
	require.NoError(t, err)
	b := domain.NewBlock(bn, bh, txs)
	return &b
}

func payloadHashes(events []recordedEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Payload.(txstream.TransactionPayload).TransactionHash)
	}
	return out
}
