package testutil

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/applesignin/bridge"
	"github.com/kbukum/applesignin/browser"
)

// Responder builds the URL the provider redirects to, given the state of
// the attempt. An empty result means no redirect.
type Responder func(state string) string

// SuccessRedirect answers with code and idToken and the attempt's state.
func SuccessRedirect(redirectURI, code, idToken string) Responder {
	return func(state string) string {
		return redirectURI + "#code=" + url.QueryEscape(code) +
			"&id_token=" + url.QueryEscape(idToken) +
			"&state=" + url.QueryEscape(state)
	}
}

// FixedRedirect always answers with target.
func FixedRedirect(target string) Responder {
	return func(string) string { return target }
}

// Launcher is a fake launcher. Every Launch attaches a new Surface and,
// when a Responder is set, navigates it to the redirect asynchronously.
type Launcher struct {
	respond Responder

	mu       sync.Mutex
	hosts    []*browser.Host
	surfaces []*Surface
}

// NewLauncher creates a launcher. respond may be nil to leave attempts
// pending.
func NewLauncher(respond Responder) *Launcher {
	return &Launcher{respond: respond}
}

func (l *Launcher) Launch(_ context.Context, host *browser.Host) error {
	surface := NewSurface()
	l.mu.Lock()
	l.hosts = append(l.hosts, host)
	l.surfaces = append(l.surfaces, surface)
	l.mu.Unlock()

	host.Attach(surface)
	if l.respond != nil {
		if target := l.respond(host.Session().State()); target != "" {
			go host.ShouldOverrideURLLoading(target)
		}
	}
	return nil
}

// Launches returns the number of launches so far.
func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hosts)
}

// Host returns the host of the i-th launch.
func (l *Launcher) Host(i int) *browser.Host {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hosts[i]
}

// Surface returns the surface of the i-th launch.
func (l *Launcher) Surface(i int) *Surface {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.surfaces[i]
}

// AwaitTimeout bounds Await.
var AwaitTimeout = 3 * time.Second

// Await waits for f and fails the test when it does not complete within
// AwaitTimeout.
func Await[T any](t testing.TB, f *bridge.Future[T]) (T, error) {
	t.Helper()
	select {
	case <-f.Done():
	case <-time.After(AwaitTimeout):
		t.Fatal("future did not complete")
	}
	r, _ := f.Peek()
	return r.Value, r.Err
}
