// Package appleid builds the "Sign in with Apple" authorization request and
// models the credential it eventually yields.
//
// A SignInConfig is created fresh for every attempt with its own nonce and
// state, and BuildAuthURL turns it into the authorize endpoint URL:
//
//	cfg := appleid.NewSignInConfig("com.example.service", "https://example.com/cb", "")
//	authURL := appleid.BuildAuthURL(cfg)
//
// The identity token inside a Credential is transported as an opaque string.
// UnverifiedClaims decodes its payload for display only; signature and expiry
// checks are left to the caller's backend.
package appleid
