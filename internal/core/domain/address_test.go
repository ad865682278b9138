package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tx_streamer/internal/core/domain"
)

const sampleAddr = "0x71c7656ec7ab88b098defb751b7401b5f6d8976f"

func TestNewAddress(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "lowercase", input: sampleAddr},
		{name: "uppercase with 0X prefix", input: "0X71C7656EC7AB88B098DEFB751B7401B5F6D8976F"},
		{name: "checksummed", input: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"},
		{name: "surrounding whitespace", input: "  " + sampleAddr + "\t"},
		{name: "too short", input: "0x71c7656ec7ab88b098defb751b7401b5f6d8", wantErr: true},
		{name: "too long", input: sampleAddr + "00", wantErr: true},
		{name: "missing prefix", input: "71c7656ec7ab88b098defb751b7401b5f6d8976f", wantErr: true},
		{name: "non hex", input: "0x71c7656ec7ab88b098defb751b7401b5f6d8976g", wantErr: true},
		{name: "prefix only", input: "0x", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.NewAddress(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidAddressFormat)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sampleAddr, got.String())
		})
	}
}

func TestNewOptionalAddress(t *testing.T) {
	empty := " "
	bad := "0x1234"
	valid := sampleAddr

	got, err := domain.NewOptionalAddress(nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.Nil(t, got.Ptr())

	got, err = domain.NewOptionalAddress(&empty)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = domain.NewOptionalAddress(&bad)
	assert.ErrorIs(t, err, domain.ErrInvalidAddressFormat)

	got, err = domain.NewOptionalAddress(&valid)
	require.NoError(t, err)
	require.NotNil(t, got.Ptr())
	assert.Equal(t, sampleAddr, *got.Ptr())
}

func TestAddress_Equals(t *testing.T) {
	a, err := domain.NewAddress("0x71C7656EC7AB88B098DEFB751B7401B5F6D8976F")
	require.NoError(t, err)
	b, err := domain.NewAddress(sampleAddr)
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(domain.Address{}))
	assert.False(t, domain.Address{}.Equals(domain.Address{}))
}
