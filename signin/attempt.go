package signin

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/applesignin/appleid"
	"github.com/kbukum/applesignin/bridge"
	"github.com/kbukum/applesignin/browser"
	"github.com/kbukum/applesignin/errors"
	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/observability"
	"github.com/kbukum/applesignin/session"
)

// AttemptOption configures a single attempt.
type AttemptOption func(*attemptOptions)

type attemptOptions struct {
	nonce   string
	urlOpts []appleid.AuthURLOption
}

// WithNonce uses nonce instead of a generated one, e.g. a hash the backend
// will compare against the identity token.
func WithNonce(nonce string) AttemptOption {
	return func(o *attemptOptions) { o.nonce = nonce }
}

// WithAuthParam adds an extra authorization URL parameter such as "locale".
func WithAuthParam(key, value string) AttemptOption {
	return func(o *attemptOptions) {
		o.urlOpts = append(o.urlOpts, appleid.WithExtraParam(key, value))
	}
}

// Attempt is a running sign-in.
type Attempt struct {
	id      string
	cfg     appleid.SignInConfig
	sess    *session.Session
	host    *browser.Host
	promise *bridge.Promise[appleid.Credential]
	future  *bridge.Future[appleid.Credential]
}

// ID identifies the attempt in logs and traces.
func (a *Attempt) ID() string { return a.id }

// Nonce returns the nonce sent with the authorization request.
func (a *Attempt) Nonce() string { return a.cfg.Nonce }

// State returns the state the redirect must carry.
func (a *Attempt) State() string { return a.cfg.State }

// Host returns the browser host of the attempt.
func (a *Attempt) Host() *browser.Host { return a.host }

// Future returns the attempt's result.
func (a *Attempt) Future() *bridge.Future[appleid.Credential] { return a.future }

// Cancel resolves the attempt as cancelled and closes its surface. It is a
// no-op once the attempt has a result.
func (a *Attempt) Cancel() {
	a.promise.Reject(errors.Cancelled(""))
	a.sess.OnUserCancelled()
}

func (c *Client) start(ctx context.Context, launcher Launcher, opts []AttemptOption) (*Attempt, error) {
	if !c.initialized() {
		return nil, errors.NotInitialized()
	}
	if launcher == nil {
		return nil, errors.InvalidArgument("launcher", "Launcher cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var ao attemptOptions
	for _, opt := range opts {
		opt(&ao)
	}

	id := uuid.NewString()
	log := c.log.WithFields(logger.Fields(logger.FieldAttemptID, id))

	var hostRef atomic.Pointer[browser.Host]
	sessOpts := []session.Option{
		session.WithLogger(log),
		session.WithAuthURLOptions(ao.urlOpts...),
		session.WithStateListener(func(ui session.UIState) {
			if h := hostRef.Load(); h != nil {
				h.OnStateChanged(ui)
			}
		}),
	}
	if c.lenientState {
		sessOpts = append(sessOpts, session.WithLenientState())
	}
	sess := session.New(sessOpts...)
	cfg, err := sess.InitializeAppleSignIn(c.clientID, c.redirectURI, ao.nonce)
	if err != nil {
		return nil, err
	}

	channel, messages := bridge.NewChannel()
	host := browser.NewHost(sess, channel, browser.WithLogger(log))
	hostRef.Store(host)

	promise, future := bridge.NewPromise[appleid.Credential]()
	a := &Attempt{
		id:      id,
		cfg:     cfg,
		sess:    sess,
		host:    host,
		promise: promise,
		future:  future,
	}

	ctx, obs := observability.StartAttempt(ctx, id, c.metrics,
		attribute.String(observability.AttrClientID, c.clientID))
	log.Info("sign-in attempt started", logger.Fields(logger.FieldRedirectURI, c.redirectURI))

	go c.await(ctx, a, messages, obs, log)

	if err := launcher.Launch(ctx, host); err != nil {
		launchErr, ok := errors.AsAppError(err)
		if !ok {
			launchErr = errors.Internal(err).WithDetail(logger.FieldOperation, "launch")
		}
		log.Error("launching browser surface failed", logger.ErrorFields("launch", err))
		promise.Reject(launchErr)
		sess.EmitError("Failed to launch browser surface")
	}
	return a, nil
}

// await turns the channel message into the attempt's result. Cancellation
// of ctx cancels the session, which still resolves the channel.
func (c *Client) await(ctx context.Context, a *Attempt, messages *bridge.Future[bridge.Message], obs *observability.Attempt, log *logger.Logger) {
	select {
	case <-messages.Done():
	case <-ctx.Done():
		log.Debug("context done, cancelling attempt")
		a.sess.OnUserCancelled()
		<-messages.Done()
	}

	msg, _ := messages.Peek()
	cred, err := decodeMessage(msg.Value, a.cfg.State)
	if err != nil {
		a.promise.Reject(err)
	} else {
		a.promise.Resolve(cred)
	}

	result, _ := a.future.Peek()
	outcome, code := classify(result.Err)
	obs.End(context.WithoutCancel(ctx), outcome, code, result.Err)

	fields := logger.Fields(logger.FieldOutcome, outcome, logger.FieldDuration, obs.Duration().Milliseconds())
	if result.Err != nil {
		fields[logger.FieldError] = result.Err.Error()
	}
	log.Info("sign-in attempt finished", fields)
}

func classify(err error) (outcome, code string) {
	if err == nil {
		return "success", ""
	}
	if errors.IsCancelled(err) {
		return "cancelled", string(errors.ErrCodeCancelled)
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return "error", string(appErr.Code)
	}
	return "error", string(errors.ErrCodeInternal)
}
