// Package session implements the per-attempt sign-in state machine.
//
// A Session moves Idle → AwaitingRedirect → Validating → Terminal. It owns
// the attempt's SignInConfig, validates the redirect's state against the
// expected one and classifies the result as success, provider error or
// cancellation. The first terminal outcome wins; later events are ignored.
package session
