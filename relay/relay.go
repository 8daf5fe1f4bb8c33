package relay

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/kbukum/applesignin/browser"
	"github.com/kbukum/applesignin/errors"
	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/server"
)

// Paths served next to the callback path.
const (
	PathFragment = "/_relay/fragment"
	PathHealth   = "/_relay/health"
)

// Opener shows url to the user, usually in the system browser.
type Opener func(url string) error

// Option configures a Relay.
type Option func(*Relay)

// WithOpener replaces the system browser opener.
func WithOpener(open Opener) Option {
	return func(r *Relay) {
		if open != nil {
			r.open = open
		}
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(r *Relay) { r.version = version }
}

// Relay is a browser.Surface backed by the system browser and a loopback
// HTTP server. It also implements signin.Launcher.
type Relay struct {
	cfg     Config
	log     *logger.Logger
	open    Opener
	version string
	srv     *server.Server

	mu      sync.Mutex
	host    *browser.Host
	current string
	started bool
	closed  bool

	closeOnce sync.Once
	done      chan struct{}
}

// New creates a relay and registers its routes. The listener is bound by
// the first Launch.
func New(cfg Config, log *logger.Logger, opts ...Option) (*Relay, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	r := &Relay{
		cfg:  cfg,
		log:  log.WithComponent("relay"),
		open: SystemOpener,
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.srv = server.New(cfg.Config, log)
	r.srv.ApplyMiddleware()
	r.registerRoutes(r.srv.GinEngine())
	return r, nil
}

// Launch binds the listener, attaches the relay to host and opens the
// authorization URL.
func (r *Relay) Launch(ctx context.Context, host *browser.Host) error {
	if host == nil {
		return errors.InvalidArgument("host", "Host cannot be nil")
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return errors.Conflict("Relay is closed")
	}
	if r.host != nil && !isDone(r.host) {
		r.mu.Unlock()
		return errors.Conflict("A sign-in is already in progress on this relay")
	}
	if !r.started {
		if err := r.srv.Start(ctx); err != nil {
			r.mu.Unlock()
			return errors.Internal(err).WithDetail(logger.FieldOperation, "relay_listen")
		}
		r.started = true
	}
	r.host = host
	r.current = ""
	r.mu.Unlock()

	redirectURI := host.Session().RedirectURI()
	if u, err := url.Parse(redirectURI); err == nil && u.Path != r.cfg.CallbackPath {
		r.log.Warn("redirect URI path differs from the relay callback path", logger.Fields(
			logger.FieldRedirectURI, redirectURI,
			"callback_path", r.cfg.CallbackPath,
		))
	}
	r.log.Info("relay listening", logger.Fields("url", r.BaseURL()+r.cfg.CallbackPath))

	host.Attach(r)
	return nil
}

// Handler returns the relay's HTTP handler.
func (r *Relay) Handler() http.Handler {
	return r.srv.Handler()
}

// Addr returns the listener address once launched.
func (r *Relay) Addr() string {
	return r.srv.Addr()
}

// BaseURL is the scheme and bound address, e.g. "http://127.0.0.1:8788".
func (r *Relay) BaseURL() string {
	return r.srv.Scheme() + "://" + r.srv.Addr()
}

// CurrentURL returns the last URL the host asked the relay to load.
func (r *Relay) CurrentURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Done is closed once the relay has shut down.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

// Load shows url in the system browser. Only the first load of an attempt
// opens a window; later loads are recorded.
func (r *Relay) Load(target string) {
	r.mu.Lock()
	first := r.current == ""
	r.current = target
	r.mu.Unlock()

	if !first {
		return
	}
	r.log.Info("open this URL to sign in", logger.Fields("url", target))
	if !r.cfg.OpenBrowser {
		return
	}
	go func() {
		if err := r.open(target); err != nil {
			r.log.Warn("opening browser failed", logger.ErrorFields("open_browser", err))
		}
	}()
}

// StopLoading is a no-op: the system browser cannot be stopped.
func (r *Relay) StopLoading() {}

// CanGoBack is always false; back navigation happens in the browser.
func (r *Relay) CanGoBack() bool { return false }

// GoBack is a no-op.
func (r *Relay) GoBack() {}

// Close stops the relay server in the background. An attempt still in
// progress resolves as cancelled. Safe to call more than once.
func (r *Relay) Close() {
	var pending *browser.Host
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		started := r.started
		if r.host != nil && !isDone(r.host) {
			pending = r.host
		}
		r.mu.Unlock()

		go func() {
			defer close(r.done)
			if !started {
				return
			}
			if err := r.srv.Stop(context.Background(), r.cfg.ShutdownTimeout); err != nil {
				r.log.Warn("relay shutdown failed", logger.ErrorFields("relay_shutdown", err))
			}
		}()
	})
	if pending != nil {
		r.log.Info("relay closed before a result, cancelling")
		pending.OnSurfaceDestroyed()
	}
}

func (r *Relay) activeHost() *browser.Host {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.host == nil || isDone(r.host) {
		return nil
	}
	return r.host
}

func isDone(h *browser.Host) bool {
	select {
	case <-h.Session().Done():
		return true
	default:
		return false
	}
}

func trimFragment(body string) string {
	return strings.TrimPrefix(strings.TrimSpace(body), "#")
}
