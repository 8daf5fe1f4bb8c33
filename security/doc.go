// Package security holds the TLS settings the relay server uses when the
// registered redirect URI is served over HTTPS.
//
//	cfg := security.TLSConfig{
//	    CertFile: "/path/to/cert.pem",
//	    KeyFile:  "/path/to/key.pem",
//	}
//
//	tlsConfig, err := cfg.Build()
package security
