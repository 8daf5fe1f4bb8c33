package appleid

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the raw result of a successful sign-in. Either field may be
// empty depending on what the provider returned.
type Credential struct {
	IdentityToken string `json:"identity_token,omitempty"`
	Code          string `json:"code,omitempty"`
}

// UnverifiedClaims decodes the identity token payload WITHOUT checking its
// signature, expiry or audience. Use it for display and debugging only.
func (c Credential) UnverifiedClaims() (jwt.MapClaims, error) {
	if c.IdentityToken == "" {
		return nil, fmt.Errorf("credential has no identity token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.IdentityToken, claims); err != nil {
		return nil, fmt.Errorf("decode identity token: %w", err)
	}
	return claims, nil
}

// NonceClaim returns the unverified nonce claim, or "" when it is absent or
// the token cannot be decoded. Comparing it with the nonce sent for the
// attempt is the caller's responsibility.
func (c Credential) NonceClaim() string {
	claims, err := c.UnverifiedClaims()
	if err != nil {
		return ""
	}
	nonce, _ := claims["nonce"].(string)
	return nonce
}
