package signin

import (
	"context"
	"strings"

	"github.com/kbukum/applesignin/appleid"
	"github.com/kbukum/applesignin/bridge"
	"github.com/kbukum/applesignin/config"
	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/observability"
	"github.com/kbukum/applesignin/validation"
)

// Client holds the library configuration shared by all attempts. It is
// immutable after New and safe for concurrent use. A nil or zero Client
// fails every call with NOT_INITIALIZED.
type Client struct {
	clientID     string
	redirectURI  string
	log          *logger.Logger
	exec         bridge.Executor
	metrics      *observability.SignInMetrics
	lenientState bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithExecutor sets where callbacks run. Defaults to a serial executor
// owned by the client, so callbacks never overlap.
func WithExecutor(exec bridge.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithMetrics records attempt metrics on m.
func WithMetrics(m *observability.SignInMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLenientState accepts redirects without a state parameter.
func WithLenientState() Option {
	return func(c *Client) { c.lenientState = true }
}

// New creates a Client. Blank values fail with INVALID_ARGUMENT.
func New(clientID, redirectURI string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	redirectURI = strings.TrimSpace(redirectURI)

	if err := validation.New().Required("client_id", clientID, "Service ID cannot be empty").Validate(); err != nil {
		return nil, err
	}
	if err := validation.New().Required("redirect_uri", redirectURI, "Redirect URI cannot be empty").Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		clientID:    clientID,
		redirectURI: redirectURI,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger()
	}
	c.log = c.log.WithComponent("signin")
	if c.exec == nil {
		c.exec = bridge.NewSerialExecutor().Executor()
	}
	return c, nil
}

// NewFromConfig creates a Client from a loaded AppleConfig.
func NewFromConfig(cfg config.AppleConfig, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.ClientID, cfg.RedirectURI, opts...)
}

// ClientID returns the Services ID.
func (c *Client) ClientID() string {
	if c == nil {
		return ""
	}
	return c.clientID
}

// RedirectURI returns the registered redirect URI.
func (c *Client) RedirectURI() string {
	if c == nil {
		return ""
	}
	return c.redirectURI
}

func (c *Client) initialized() bool {
	return c != nil && c.clientID != "" && c.redirectURI != "" && c.log != nil && c.exec != nil
}

// SignIn starts an attempt and invokes callback exactly once with its
// result, on the client's executor. Only NOT_INITIALIZED and a nil launcher
// are returned synchronously; every other failure reaches the callback.
func (c *Client) SignIn(ctx context.Context, launcher Launcher, callback func(appleid.Credential, error), opts ...AttemptOption) error {
	_, err := c.SignInCancellable(ctx, launcher, callback, opts...)
	return err
}

// SignInCancellable is SignIn returning a handle to cancel the attempt.
func (c *Client) SignInCancellable(ctx context.Context, launcher Launcher, callback func(appleid.Credential, error), opts ...AttemptOption) (*Attempt, error) {
	a, err := c.start(ctx, launcher, opts)
	if err != nil {
		return nil, err
	}
	if callback != nil {
		a.future.Then(c.exec, callback)
	}
	return a, nil
}

// SignInAsync starts an attempt and returns its Future.
func (c *Client) SignInAsync(ctx context.Context, launcher Launcher, opts ...AttemptOption) (*bridge.Future[appleid.Credential], error) {
	a, err := c.start(ctx, launcher, opts)
	if err != nil {
		return nil, err
	}
	return a.future, nil
}

// Flow returns a cold stream: each subscription runs a complete, independent
// sign-in and fails the stream with the attempt's error.
func (c *Client) Flow(launcher Launcher, opts ...AttemptOption) *bridge.Single[appleid.Credential] {
	return bridge.NewSingle(func(ctx context.Context) *bridge.Future[appleid.Credential] {
		a, err := c.start(ctx, launcher, opts)
		if err != nil {
			return bridge.Rejected[appleid.Credential](err)
		}
		return a.future
	})
}
