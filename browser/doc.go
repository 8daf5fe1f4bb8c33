// Package browser holds the interception policy between a browser surface
// and a sign-in session.
//
// A Surface is whatever renders the provider's pages: a platform web view,
// a test fake or the loopback relay. The Host decides which navigations and
// requests belong to the registered redirect URI, captures their payload
// before the browser performs the real load, and forwards the session's
// terminal outcome to a ResultSink exactly once before closing the surface.
package browser
