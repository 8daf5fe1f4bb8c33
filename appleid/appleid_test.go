package appleid

import (
	"net/url"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestBuildAuthURL(t *testing.T) {
	cfg := SignInConfig{
		ClientID:    "com.example.service",
		RedirectURI: "https://ex.com/cb",
		Nonce:       "nonce-1",
		State:       "state-1",
	}
	got := BuildAuthURL(cfg)
	want := "https://appleid.apple.com/auth/authorize?client_id=com.example.service" +
		"&redirect_uri=https%3A%2F%2Fex.com%2Fcb" +
		"&response_type=code%20id_token&response_mode=fragment" +
		"&nonce=nonce-1&state=state-1"
	if got != want {
		t.Errorf("BuildAuthURL() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestBuildAuthURLParametersAppearOnce(t *testing.T) {
	tests := []SignInConfig{
		{ClientID: "svc", RedirectURI: "https://ex.com/cb", Nonce: NewNonce(), State: NewState()},
		{ClientID: "a.b.c", RedirectURI: "myapp://callback/path?x=1", Nonce: "n", State: "s"},
		{ClientID: "", RedirectURI: "", Nonce: "", State: ""},
	}
	params := []string{
		"client_id=", "redirect_uri=", "nonce=", "state=",
		"response_type=code%20id_token", "response_mode=fragment",
	}
	for _, cfg := range tests {
		t.Run(cfg.ClientID, func(t *testing.T) {
			got := BuildAuthURL(cfg, WithExtraParam("state", "override"), WithExtraParam("locale", "en_US"))
			if !strings.HasPrefix(got, AuthorizeEndpoint) {
				t.Fatalf("expected prefix %s, got %s", AuthorizeEndpoint, got)
			}
			for _, p := range params {
				if n := strings.Count(got, p); n != 1 {
					t.Errorf("expected %q exactly once, found %d in %s", p, n, got)
				}
			}
			if !strings.HasSuffix(got, "&locale=en_US") {
				t.Errorf("expected extra param appended, got %s", got)
			}
			if strings.Contains(got, "+") {
				t.Errorf("did not expect '+' encoding in %s", got)
			}
		})
	}
}

func TestBuildAuthURLRoundTripsRedirect(t *testing.T) {
	cfg := NewSignInConfig("svc", "https://ex.com/cb?a=1&b=two words", "")
	u, err := url.Parse(BuildAuthURL(cfg))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("redirect_uri") != cfg.RedirectURI {
		t.Errorf("redirect_uri = %q, want %q", q.Get("redirect_uri"), cfg.RedirectURI)
	}
	if q.Get("response_type") != ResponseType {
		t.Errorf("response_type = %q, want %q", q.Get("response_type"), ResponseType)
	}
	if q.Get("state") != cfg.State || q.Get("nonce") != cfg.Nonce {
		t.Errorf("nonce/state not carried: %v", q)
	}
}

func TestNewSignInConfig(t *testing.T) {
	a := NewSignInConfig("svc", "https://ex.com/cb", "")
	b := NewSignInConfig("svc", "https://ex.com/cb", "")
	if a.State == b.State || a.Nonce == b.Nonce {
		t.Error("expected fresh nonce and state per config")
	}
	for _, v := range []string{a.State, a.Nonce} {
		id, err := uuid.Parse(v)
		if err != nil || id.Version() != 4 {
			t.Errorf("expected UUIDv4, got %q (%v)", v, err)
		}
	}

	c := NewSignInConfig("svc", "https://ex.com/cb", "caller-nonce")
	if c.Nonce != "caller-nonce" {
		t.Errorf("expected caller nonce to be kept, got %q", c.Nonce)
	}
}

func TestCredentialUnverifiedClaims(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   Issuer,
		"sub":   "001234.abcd",
		"nonce": "nonce-1",
	})
	raw, err := token.SignedString([]byte("not-apples-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cred := Credential{IdentityToken: raw, Code: "X"}
	claims, err := cred.UnverifiedClaims()
	if err != nil {
		t.Fatalf("UnverifiedClaims: %v", err)
	}
	if claims["sub"] != "001234.abcd" || claims["iss"] != Issuer {
		t.Errorf("unexpected claims %v", claims)
	}
	if cred.NonceClaim() != "nonce-1" {
		t.Errorf("NonceClaim() = %q", cred.NonceClaim())
	}
}

func TestCredentialUnverifiedClaimsErrors(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
	}{
		{"no token", Credential{Code: "X"}},
		{"garbage", Credential{IdentityToken: "not-a-jwt"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.cred.UnverifiedClaims(); err == nil {
				t.Error("expected error")
			}
			if tc.cred.NonceClaim() != "" {
				t.Error("expected empty nonce claim")
			}
		})
	}
}
