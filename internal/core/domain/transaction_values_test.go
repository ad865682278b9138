package domain_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tx_streamer/internal/core/domain"
)

func TestNewWeiValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "hex one ether", input: "0xde0b6b3a7640000", want: "1000000000000000000"},
		{name: "hex zero", input: "0x0", want: "0"},
		{name: "decimal", input: "12345", want: "12345"},
		{name: "beyond uint64", input: "0x1000000000000000000", want: "4722366482869645213696"},
		{name: "empty", input: "", wantErr: true},
		{name: "negative decimal", input: "-1", wantErr: true},
		{name: "bad hex", input: "0xzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewWeiValue(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidWeiValueFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestWeiValue_BigIntIsCopy(t *testing.T) {
	v, err := domain.NewWeiValue("100")
	require.NoError(t, err)

	b := v.BigInt()
	b.Add(b, big.NewInt(1))

	assert.Equal(t, "100", v.String())
}

func TestNewTransactionHash(t *testing.T) {
	_, err := domain.NewTransactionHash("0x" + "AB12000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)

	_, err = domain.NewTransactionHash("0x1234")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionHashFormat)
}
