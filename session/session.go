package session

import (
	"fmt"
	"sync"

	"github.com/kbukum/applesignin/appleid"
	"github.com/kbukum/applesignin/errors"
	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/redirect"
)

// Session is the state machine of a single sign-in attempt. It is safe for
// concurrent use.
type Session struct {
	log          *logger.Logger
	listener     func(UIState)
	lenientState bool
	urlOpts      []appleid.AuthURLOption

	mu         sync.Mutex
	phase      Phase
	cfg        appleid.SignInConfig
	configured bool
	ui         UIState
	outcome    Outcome
	done       chan struct{}
}

// New creates an idle Session.
func New(opts ...Option) *Session {
	s := &Session{
		log:  logger.Nop(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("session")
	return s
}

// InitializeAppleSignIn builds the attempt's config with a fresh state,
// computes the authorization URL and publishes it through the UI state.
// A session can be initialized once.
func (s *Session) InitializeAppleSignIn(clientID, redirectURI, nonce string) (appleid.SignInConfig, error) {
	s.mu.Lock()
	if s.phase != PhaseIdle {
		phase := s.phase
		s.mu.Unlock()
		return appleid.SignInConfig{}, errors.Conflict("sign-in session already initialized").
			WithDetail(logger.FieldPhase, phase.String())
	}

	cfg := appleid.NewSignInConfig(clientID, redirectURI, nonce)
	s.cfg = cfg
	s.configured = true
	s.ui.AuthURL = appleid.BuildAuthURL(cfg, s.urlOpts...)
	s.phase = PhaseAwaitingRedirect
	ui := s.ui
	s.mu.Unlock()

	s.log.Debug("sign-in initialized", logger.Fields(
		logger.FieldRedirectURI, redirectURI,
		logger.FieldPhase, PhaseAwaitingRedirect.String(),
	))
	s.publish(ui)
	return cfg, nil
}

// Config returns the attempt's config and whether the session was initialized.
func (s *Session) Config() (appleid.SignInConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.configured
}

// RedirectURI returns the registered redirect URI, or "" before initialization.
func (s *Session) RedirectURI() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.RedirectURI
}

// State returns the expected state, or "" before initialization.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.State
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// UIState returns a copy of the current UI state.
func (s *Session) UIState() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui
}

// Outcome returns the terminal outcome once the session is terminal.
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome, s.phase == PhaseTerminal
}

// Done is closed when the session reaches its terminal outcome.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// HandleRedirectURL validates a redirect to the registered URI and moves
// the session to its terminal outcome. It never panics.
func (s *Session) HandleRedirectURL(rawURL string) {
	s.mu.Lock()
	if s.phase == PhaseTerminal {
		s.mu.Unlock()
		s.log.Debug("redirect ignored after terminal outcome")
		return
	}
	s.phase = PhaseValidating
	expected := s.cfg.State
	s.mu.Unlock()

	s.finish(s.classify(rawURL, expected))
}

func (s *Session) classify(rawURL, expectedState string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = errorOutcome(ReasonMalformed, fmt.Sprintf("Failed to process redirect: %v", r))
		}
	}()

	fragment, ok := redirect.ExtractFragment(rawURL)
	if !ok {
		return errorOutcome(ReasonMalformed, "Invalid redirect URL format")
	}
	params := redirect.ParseParams(fragment)
	s.log.Debug("redirect received", logger.Fields(logger.FieldParamKeys, logger.KeysOf(params)))

	if expectedState != "" {
		received, present := params["state"]
		switch {
		case present && received != expectedState:
			return errorOutcome(ReasonSecurity, "Security validation failed (state mismatch)")
		case !present && !s.lenientState:
			return errorOutcome(ReasonSecurity, "Security validation failed (state missing)")
		}
	}

	if code := params.Get("error"); code != "" {
		description := params.Get("error_description")
		if description == "" {
			description = "Authentication failed"
		}
		return providerOutcome(code, description)
	}

	data := make(map[string]string, 2)
	if code := params.Get("code"); code != "" {
		data["code"] = code
	}
	if token := params.Get("id_token"); token != "" {
		data["id_token"] = token
	} else if token := params.Get("identity_token"); token != "" {
		data["id_token"] = token
	}
	return successOutcome(data)
}

// UpdateNavigationState records whether the surface has back history.
func (s *Session) UpdateNavigationState(canGoBack bool) {
	s.mu.Lock()
	if s.ui.CanGoBack == canGoBack {
		s.mu.Unlock()
		return
	}
	s.ui.CanGoBack = canGoBack
	ui := s.ui
	s.mu.Unlock()
	s.publish(ui)
}

// OnUserCancelled ends the attempt as cancelled.
func (s *Session) OnUserCancelled() {
	s.finish(Outcome{Kind: OutcomeCancelled})
}

// EmitError ends the attempt with a generic error. The browser host uses it
// when interception fails structurally.
func (s *Session) EmitError(message string) {
	s.finish(errorOutcome(ReasonGeneric, message))
}

// finish records out unless an outcome already exists. It reports whether
// out became the terminal outcome.
func (s *Session) finish(out Outcome) bool {
	s.mu.Lock()
	if s.phase == PhaseTerminal {
		s.mu.Unlock()
		s.log.Debug("outcome ignored after terminal outcome", logger.Fields(logger.FieldOutcome, out.Kind.String()))
		return false
	}
	s.phase = PhaseTerminal
	s.outcome = out
	switch out.Kind {
	case OutcomeSuccess:
		s.ui.IsSuccess = true
	case OutcomeError:
		s.ui.ErrorMessage = out.Description
	}
	ui := s.ui
	close(s.done)
	s.mu.Unlock()

	switch out.Kind {
	case OutcomeError:
		s.log.Warn("sign-in failed", logger.Fields(
			logger.FieldOutcome, out.Kind.String(),
			logger.FieldError, out.Description,
			"reason", out.Reason.String(),
		))
	default:
		s.log.Info("sign-in finished", logger.Fields(
			logger.FieldOutcome, out.Kind.String(),
			logger.FieldParamKeys, logger.KeysOf(out.Data),
		))
	}
	s.publish(ui)
	return true
}

func (s *Session) publish(ui UIState) {
	if s.listener != nil {
		s.listener(ui)
	}
}
