package api_test

import (
	"net/http/httptest"
	"testing"

	"tx_streamer/internal/adapters/api"
	"tx_streamer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{Tokens: []config.TokenConfig{
		{Token: "alpha-secret", Identity: "alice"},
		{Token: "beta-secret", Identity: "bob"},
	}}
}

func TestAuthenticator_Disabled(t *testing.T) {
	auth := api.NewAuthenticator(config.AuthConfig{})
	assert.False(t, auth.Enabled())

	identity, err := auth.Authenticate(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, api.AnonymousIdentity, identity)
}

func TestAuthenticator_Enabled(t *testing.T) {
	auth := api.NewAuthenticator(testAuthConfig())
	require.True(t, auth.Enabled())

	testCases := []struct {
		name     string
		header   string
		target   string
		identity string
		wantErr  bool
	}{
		{name: "bearer header", header: "Bearer alpha-secret", target: "/ws", identity: "alice"},
		{name: "bearer scheme is case insensitive", header: "bearer beta-secret", target: "/ws", identity: "bob"},
		{name: "raw header", header: "beta-secret", target: "/ws", identity: "bob"},
		{name: "query parameter", target: "/ws?token=alpha-secret", identity: "alice"},
		{name: "header wins over query", header: "Bearer beta-secret", target: "/ws?token=alpha-secret", identity: "bob"},
		{name: "missing token", target: "/ws", wantErr: true},
		{name: "unknown token", header: "Bearer nope", target: "/ws", wantErr: true},
		{name: "prefix of a token", header: "Bearer alpha", target: "/ws", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			identity, err := auth.Authenticate(req)
			if tc.wantErr {
				assert.ErrorIs(t, err, api.ErrUnauthorized)
				assert.Empty(t, identity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.identity, identity)
		})
	}
}
