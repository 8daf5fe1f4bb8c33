package redirect

import (
	"net/url"
	"sort"
	"strings"
)

// Params is the parsed set of redirect parameters. Keys and values are
// never empty.
type Params map[string]string

// Get returns the value for key, or "" if absent.
func (p Params) Get(key string) string {
	return p[key]
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// ExtractFragment returns the substring after the first '#' of rawURL and
// true, or "" and false when rawURL has no fragment.
func ExtractFragment(rawURL string) (string, bool) {
	i := strings.IndexByte(rawURL, '#')
	if i < 0 {
		return "", false
	}
	return rawURL[i+1:], true
}

// ParseParams splits query on '&' and each entry on its first '='. Entries
// without '=' or with an empty key or value are dropped entirely, and the
// last occurrence of a duplicate key wins. Keys and values are
// percent-decoded ('+' is a space); a malformed escape is kept as is.
//
//	ParseParams("a=1&b=")                 // {a: 1}
//	ParseParams("a=1&=x")                 // {a: 1}
//	ParseParams("d=User%20cancelled")     // {d: User cancelled}
func ParseParams(query string) Params {
	params := make(Params)
	if query == "" {
		return params
	}
	for _, entry := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" || value == "" {
			continue
		}
		params[unescape(key)] = unescape(value)
	}
	return params
}

func unescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// EncodeParams encodes the first value of every field with a non-empty name
// and value as k=v pairs joined by '&'. Keys are sorted and both halves are
// query-escaped, so ParseParams returns the original values.
func EncodeParams(fields url.Values) string {
	keys := make([]string, 0, len(fields))
	for k, vs := range fields {
		if k != "" && len(vs) > 0 && vs[0] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fields[k][0]))
	}
	return b.String()
}

// SyntheticURL rebuilds posted form fields as redirectURI#k=v&... so a form
// POST can be handled exactly like a fragment redirect.
func SyntheticURL(redirectURI string, fields url.Values) string {
	return redirectURI + "#" + EncodeParams(fields)
}
