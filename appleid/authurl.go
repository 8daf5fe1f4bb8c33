package appleid

import (
	"net/url"
	"sort"
	"strings"
)

// AuthURLOption configures authorization URL generation.
type AuthURLOption func(*AuthURLOptions)

// AuthURLOptions holds optional parameters appended after the fixed ones.
type AuthURLOptions struct {
	ExtraParams map[string]string
}

// WithExtraParam adds a custom query parameter such as "locale". Reserved
// parameter names are ignored so each of them appears exactly once.
func WithExtraParam(key, value string) AuthURLOption {
	return func(o *AuthURLOptions) {
		if o.ExtraParams == nil {
			o.ExtraParams = make(map[string]string)
		}
		o.ExtraParams[key] = value
	}
}

var reservedParams = map[string]bool{
	"client_id":     true,
	"redirect_uri":  true,
	"response_type": true,
	"response_mode": true,
	"nonce":         true,
	"state":         true,
}

// BuildAuthURL returns the authorization URL for cfg:
//
//	https://appleid.apple.com/auth/authorize?client_id=...&redirect_uri=...
//	  &response_type=code%20id_token&response_mode=fragment&nonce=...&state=...
//
// Values are query-escaped; the response type is written literally so the
// space is always %20. No validation of cfg is performed.
func BuildAuthURL(cfg SignInConfig, opts ...AuthURLOption) string {
	var o AuthURLOptions
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder
	b.WriteString(AuthorizeEndpoint)
	b.WriteString("?client_id=")
	b.WriteString(url.QueryEscape(cfg.ClientID))
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(cfg.RedirectURI))
	b.WriteString("&response_type=")
	b.WriteString(strings.ReplaceAll(ResponseType, " ", "%20"))
	b.WriteString("&response_mode=")
	b.WriteString(ResponseMode)
	b.WriteString("&nonce=")
	b.WriteString(url.QueryEscape(cfg.Nonce))
	b.WriteString("&state=")
	b.WriteString(url.QueryEscape(cfg.State))

	keys := make([]string, 0, len(o.ExtraParams))
	for k := range o.ExtraParams {
		if k != "" && !reservedParams[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(o.ExtraParams[k]))
	}
	return b.String()
}
