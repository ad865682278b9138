package application_test

import (
	"testing"

	"tx_streamer/internal/core/application"
	"tx_streamer/internal/core/domain"
	"tx_streamer/pkg/txstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscribeRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        txstream.SubscribeRequest
		wantKind   domain.FilterKind
		wantAddr   string
		wantLatest bool
		wantErr    error
	}{
		{name: "all", req: txstream.SubscribeRequest{Type: "all"}, wantKind: domain.FilterKindAll, wantLatest: true},
		{name: "all is case insensitive", req: txstream.SubscribeRequest{Type: "ALL"}, wantKind: domain.FilterKindAll, wantLatest: true},
		{
			name:     "all with address",
			req:      txstream.SubscribeRequest{Type: "all", Address: "0x00000000000000000000000000000000000000AA", BlockID: "7"},
			wantKind: domain.FilterKindAllWithAddress,
			wantAddr: addrA,
		},
		{name: "sender", req: txstream.SubscribeRequest{Type: "sender", Address: addrB}, wantKind: domain.FilterKindSender, wantAddr: addrB, wantLatest: true},
		{name: "receiver", req: txstream.SubscribeRequest{Type: "receiver", Address: addrC}, wantKind: domain.FilterKindReceiver, wantAddr: addrC, wantLatest: true},
		{name: "range", req: txstream.SubscribeRequest{Range: ">5000"}, wantKind: domain.FilterKindValueRange, wantLatest: true},
		{name: "range with type", req: txstream.SubscribeRequest{Range: ">5000", Type: "sender", Address: addrA}, wantErr: domain.ErrInvalidFilter},
		{name: "unknown range", req: txstream.SubscribeRequest{Range: "5000+"}, wantErr: domain.ErrInvalidRange},
		{name: "empty request", req: txstream.SubscribeRequest{}, wantErr: domain.ErrInvalidFilter},
		{name: "receiver without address", req: txstream.SubscribeRequest{Type: "receiver"}, wantErr: domain.ErrInvalidFilter},
		{name: "bad address is an invalid filter", req: txstream.SubscribeRequest{Type: "all", Address: "nope"}, wantErr: domain.ErrInvalidFilter},
		{name: "bad block id", req: txstream.SubscribeRequest{BlockID: "latest", Type: "all"}, wantErr: domain.ErrInvalidBlockIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, filter, err := application.ParseSubscribeRequest(tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, filter.Kind())
			assert.Equal(t, tt.wantLatest, ref.IsLatest())
			if tt.wantAddr != "" {
				assert.Equal(t, tt.wantAddr, filter.Address().String())
			}
		})
	}
}
