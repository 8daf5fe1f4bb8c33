package session

import (
	"github.com/kbukum/applesignin/appleid"
	"github.com/kbukum/applesignin/logger"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStateListener registers a callback invoked with a copy of the UI
// state after every change. It runs on the goroutine that caused the change.
func WithStateListener(fn func(UIState)) Option {
	return func(s *Session) { s.listener = fn }
}

// WithLenientState accepts redirects that carry no state parameter.
// By default a missing state is a security failure.
func WithLenientState() Option {
	return func(s *Session) { s.lenientState = true }
}

// WithAuthURLOptions passes extra options to the authorization URL builder.
func WithAuthURLOptions(opts ...appleid.AuthURLOption) Option {
	return func(s *Session) { s.urlOpts = append(s.urlOpts, opts...) }
}
