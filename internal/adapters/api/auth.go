package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"tx_streamer/internal/config"
)

// AnonymousIdentity is assigned to every caller when no tokens are configured.
const AnonymousIdentity = "anonymous"

// ErrUnauthorized indicates a missing or unknown token.
var ErrUnauthorized = errors.New("unauthorized")

// Authenticator resolves the caller identity of a connection from a static token table.
type Authenticator struct {
	tokens []config.TokenConfig
}

// NewAuthenticator creates an Authenticator from the auth configuration.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	tokens := make([]config.TokenConfig, len(cfg.Tokens))
	copy(tokens, cfg.Tokens)
	return &Authenticator{tokens: tokens}
}

// Enabled reports whether tokens are required.
func (a *Authenticator) Enabled() bool {
	return len(a.tokens) > 0
}

// Authenticate returns the identity bound to the request token.
// The token is read from the Authorization header ("Bearer <token>" or the bare token),
// falling back to the "token" query parameter for clients that cannot set headers.
func (a *Authenticator) Authenticate(r *http.Request) (string, error) {
	if !a.Enabled() {
		return AnonymousIdentity, nil
	}

	presented := config.SecretValue(extractToken(r))
	if presented == "" {
		return "", ErrUnauthorized
	}

	identity := ""
	for _, tok := range a.tokens {
		// Every entry is compared so timing does not reveal the position of a match.
		if subtle.ConstantTimeCompare([]byte(tok.Token.Reveal()), []byte(presented.Reveal())) == 1 {
			identity = tok.Identity
		}
	}
	if identity == "" {
		return "", ErrUnauthorized
	}
	return identity, nil
}

func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" {
		if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(rest)
		}
		return header
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
