package auth

import "context"

// Identity is what the server needs from an external identity provider: a
// stable subject identifier plus display profile fields.
type Identity struct {
	Provider  string
	Subject   string
	Name      string
	Email     string
	AvatarURL string
}

// Provider abstracts the OAuth/OIDC handshake. The server never sees
// provider tokens outside the exchange.
type Provider interface {
	Name() string
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (*Identity, error)
}
