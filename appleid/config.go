package appleid

import "github.com/google/uuid"

const (
	// AuthorizeEndpoint is Apple's OAuth 2.0 authorization endpoint.
	AuthorizeEndpoint = "https://appleid.apple.com/auth/authorize"

	// Issuer is the iss claim of identity tokens issued by Apple.
	Issuer = "https://appleid.apple.com"

	// ResponseType requests both an authorization code and an identity token.
	ResponseType = "code id_token"

	// ResponseMode returns the response parameters in the URL fragment.
	ResponseMode = "fragment"
)

// SignInConfig is the per-attempt configuration. It is owned by exactly one
// session and must not change once the authorization URL has been built.
type SignInConfig struct {
	ClientID    string `json:"client_id"`
	RedirectURI string `json:"redirect_uri"`
	Nonce       string `json:"nonce"`
	State       string `json:"state"`
}

// NewSignInConfig creates a config with a fresh state. A fresh nonce is
// generated when nonce is empty.
func NewSignInConfig(clientID, redirectURI, nonce string) SignInConfig {
	if nonce == "" {
		nonce = NewNonce()
	}
	return SignInConfig{
		ClientID:    clientID,
		RedirectURI: redirectURI,
		Nonce:       nonce,
		State:       NewState(),
	}
}

// NewState returns a random UUIDv4 used to bind the redirect to this attempt.
func NewState() string {
	return uuid.NewString()
}

// NewNonce returns a random UUIDv4 bound into the identity token.
func NewNonce() string {
	return uuid.NewString()
}
