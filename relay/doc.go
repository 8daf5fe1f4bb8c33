// Package relay is a browser surface for desktop and command-line use. It
// opens the authorization URL in the system browser and receives the
// redirect on a loopback HTTP server, where a small capture page posts the
// URL fragment back to the relay.
//
// The registered redirect URI must reach the relay's callback path, either
// directly or through a tunnel, because the fragment never leaves the
// browser otherwise. With Config.TLS set the relay serves HTTPS, so the
// redirect URI can point straight at it.
//
// A Relay serves one attempt: the browser host closes it when the attempt
// ends, and a closed relay cannot be launched again.
package relay
