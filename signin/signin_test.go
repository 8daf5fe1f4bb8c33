package signin

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/applesignin/appleid"
	"github.com/kbukum/applesignin/bridge"
	"github.com/kbukum/applesignin/browser"
	"github.com/kbukum/applesignin/config"
	"github.com/kbukum/applesignin/errors"
	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/observability"
	"github.com/kbukum/applesignin/testutil"
)

const redirectURI = "https://ex.com/cb"

var success = testutil.SuccessRedirect(redirectURI, "X", "Y")

func newClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	c, err := New("svc", redirectURI, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsBlankValues(t *testing.T) {
	tests := []struct {
		name        string
		clientID    string
		redirectURI string
		message     string
	}{
		{"blank client id", "  ", redirectURI, "Service ID cannot be empty"},
		{"empty client id", "", "", "Service ID cannot be empty"},
		{"blank redirect", "svc", "\t", "Redirect URI cannot be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.clientID, tc.redirectURI)
			if c != nil {
				t.Error("expected no client")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeInvalidArgument {
				t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
			}
			if appErr.Message != tc.message {
				t.Errorf("message = %q, want %q", appErr.Message, tc.message)
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	c, err := NewFromConfig(config.AppleConfig{ClientID: " svc ", RedirectURI: redirectURI}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if c.ClientID() != "svc" || c.RedirectURI() != redirectURI {
		t.Errorf("unexpected client %q %q", c.ClientID(), c.RedirectURI())
	}

	_, err = NewFromConfig(config.AppleConfig{ClientID: "svc", RedirectURI: "not-absolute"})
	if !errors.IsCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestUninitializedClient(t *testing.T) {
	launcher := testutil.NewLauncher(nil)
	clients := map[string]*Client{"nil": nil, "zero": {}}
	for name, c := range clients {
		t.Run(name, func(t *testing.T) {
			called := false
			err := c.SignIn(context.Background(), launcher, func(appleid.Credential, error) { called = true })
			if !errors.IsCode(err, errors.ErrCodeNotInitialized) {
				t.Errorf("SignIn: expected NOT_INITIALIZED, got %v", err)
			}
			if called {
				t.Error("callback must not run for a synchronous failure")
			}
			if _, err := c.SignInAsync(context.Background(), launcher); !errors.IsCode(err, errors.ErrCodeNotInitialized) {
				t.Errorf("SignInAsync: expected NOT_INITIALIZED, got %v", err)
			}
			if _, err := c.Flow(launcher).First(context.Background()); !errors.IsCode(err, errors.ErrCodeNotInitialized) {
				t.Errorf("Flow: expected NOT_INITIALIZED, got %v", err)
			}
			if c.ClientID() != "" || c.RedirectURI() != "" {
				t.Error("expected empty accessors")
			}
		})
	}
	if launcher.Launches() != 0 {
		t.Error("nothing should have been launched")
	}
}

func TestNilLauncher(t *testing.T) {
	_, err := newClient(t).SignInAsync(context.Background(), nil)
	if !errors.IsCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestSignInEndToEnd(t *testing.T) {
	c := newClient(t)
	launcher := testutil.NewLauncher(success)

	type result struct {
		cred appleid.Credential
		err  error
	}
	results := make(chan result, 2)
	err := c.SignIn(context.Background(), launcher, func(cred appleid.Credential, err error) {
		results <- result{cred, err}
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	select {
	case r := <-results:
		if r.err != nil {
			t.Fatalf("unexpected error: %v", r.err)
		}
		if r.cred.Code != "X" || r.cred.IdentityToken != "Y" {
			t.Errorf("unexpected credential %+v", r.cred)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}

	select {
	case r := <-results:
		t.Errorf("callback invoked twice: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}

	surface := launcher.Surface(0)
	<-launcher.Host(0).Forwarded()
	if closed, hits := surface.Closed(); !closed || hits != 1 {
		t.Errorf("expected surface to be closed once after the result, got %v/%d", closed, hits)
	}
	if loaded := surface.Loaded(); len(loaded) != 1 {
		t.Errorf("expected the authorization URL to be loaded once, got %v", loaded)
	}
}

func TestSignInAsyncOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		respond func(state string) string
		code    errors.ErrorCode
		check   func(t *testing.T, appErr *errors.AppError)
	}{
		{
			name:    "state mismatch",
			respond: func(string) string { return redirectURI + "#code=X&id_token=Y&state=forged" },
			code:    errors.ErrCodeSecurityValidation,
			check: func(t *testing.T, appErr *errors.AppError) {
				if appErr.Message != "Security validation failed (state mismatch)" {
					t.Errorf("unexpected message %q", appErr.Message)
				}
			},
		},
		{
			name: "provider error",
			respond: func(st string) string {
				return redirectURI + "#error=user_cancelled_authorize&error_description=denied&state=" + st
			},
			code: errors.ErrCodeProviderError,
			check: func(t *testing.T, appErr *errors.AppError) {
				if appErr.Details["provider_code"] != "user_cancelled_authorize" || appErr.Message != "denied" {
					t.Errorf("unexpected provider error %+v", appErr)
				}
			},
		},
		{
			name:    "no fragment",
			respond: func(string) string { return redirectURI + "?code=X" },
			code:    errors.ErrCodeMalformedRedirect,
		},
		{
			name:    "no code and no token",
			respond: func(st string) string { return redirectURI + "#user=someone&state=" + st },
			code:    errors.ErrCodeMalformedRedirect,
			check: func(t *testing.T, appErr *errors.AppError) {
				if appErr.Message != "Unknown Apple login result" {
					t.Errorf("unexpected message %q", appErr.Message)
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := newClient(t).SignInAsync(context.Background(), testutil.NewLauncher(tc.respond))
			if err != nil {
				t.Fatalf("SignInAsync: %v", err)
			}
			_, err = testutil.Await(t, f)
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if tc.check != nil {
				tc.check(t, appErr)
			}
		})
	}
}

func TestAttemptCancel(t *testing.T) {
	launcher := testutil.NewLauncher(nil)
	a, err := newClient(t).SignInCancellable(context.Background(), launcher, nil)
	if err != nil {
		t.Fatalf("SignInCancellable: %v", err)
	}
	if a.ID() == "" || a.Nonce() == "" || a.State() == "" || a.Host() == nil {
		t.Fatalf("incomplete attempt handle %+v", a)
	}

	a.Cancel()
	a.Cancel()
	if _, err := testutil.Await(t, a.Future()); !errors.IsCancelled(err) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
	<-a.Host().Forwarded()
	if closed, _ := launcher.Surface(0).Closed(); !closed {
		t.Error("expected surface to be closed on cancel")
	}
}

func TestCancelAfterSuccessIsNoop(t *testing.T) {
	launcher := testutil.NewLauncher(success)
	a, err := newClient(t).SignInCancellable(context.Background(), launcher, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := testutil.Await(t, a.Future()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	a.Cancel()
	if cred, err := testutil.Await(t, a.Future()); err != nil || cred.Code != "X" {
		t.Errorf("result changed after cancel: %+v %v", cred, err)
	}
}

func TestContextCancellationResolvesAsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f, err := newClient(t).SignInAsync(ctx, testutil.NewLauncher(nil))
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	if _, err := testutil.Await(t, f); !errors.IsCancelled(err) {
		t.Errorf("expected CANCELLED, got %v", err)
	}
}

func TestBackPressAndSurfaceDestroyed(t *testing.T) {
	tests := []struct {
		name  string
		event func(h *browser.Host)
	}{
		{"back without history", func(h *browser.Host) { h.OnBackPressed() }},
		{"surface destroyed", func(h *browser.Host) { h.OnSurfaceDestroyed() }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			launcher := testutil.NewLauncher(nil)
			f, err := newClient(t).SignInAsync(context.Background(), launcher)
			if err != nil {
				t.Fatal(err)
			}
			tc.event(launcher.Host(0))
			_, err = testutil.Await(t, f)
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeCancelled || appErr.Message != "User canceled the login" {
				t.Errorf("expected cancellation, got %v", err)
			}
		})
	}
}

func TestLaunchFailure(t *testing.T) {
	boom := stderrors.New("no display")
	launcher := LauncherFunc(func(context.Context, *browser.Host) error { return boom })

	done := make(chan error, 1)
	if err := newClient(t).SignIn(context.Background(), launcher, func(_ appleid.Credential, err error) { done <- err }); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	select {
	case err := <-done:
		if !errors.IsCode(err, errors.ErrCodeInternal) || !stderrors.Is(err, boom) {
			t.Errorf("expected INTERNAL_ERROR wrapping the launch error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
}

func TestFlowStartsNewAttemptPerSubscription(t *testing.T) {
	launcher := testutil.NewLauncher(success)
	flow := newClient(t).Flow(launcher)

	for i := 0; i < 2; i++ {
		cred, err := flow.First(context.Background())
		if err != nil || cred.IdentityToken != "Y" {
			t.Fatalf("subscription %d: %+v %v", i, cred, err)
		}
	}
	if launcher.Launches() != 2 {
		t.Fatalf("expected 2 launches, got %d", launcher.Launches())
	}
	a, _ := launcher.Host(0).Session().Config()
	b, _ := launcher.Host(1).Session().Config()
	if a.Nonce == b.Nonce || a.State == b.State {
		t.Error("subscriptions shared nonce or state")
	}
}

func TestFlowPropagatesFailure(t *testing.T) {
	launcher := testutil.NewLauncher(testutil.FixedRedirect(redirectURI + "#code=X&state=bad"))
	r := <-newClient(t).Flow(launcher).Subscribe(context.Background())
	if !errors.IsCode(r.Err, errors.ErrCodeSecurityValidation) {
		t.Errorf("expected failed stream, got %+v", r)
	}
}

func TestConcurrentAttemptsAreIndependent(t *testing.T) {
	c := newClient(t, WithExecutor(bridge.Goroutine))
	launcher := testutil.NewLauncher(success)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := c.SignInAsync(context.Background(), launcher)
			if err != nil {
				errs <- err
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if _, err := f.Await(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("attempt failed: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		cfg, _ := launcher.Host(i).Session().Config()
		if seen[cfg.Nonce] {
			t.Errorf("nonce reused: %s", cfg.Nonce)
		}
		seen[cfg.Nonce] = true
	}
}

func TestWithNonceAndAuthParam(t *testing.T) {
	launcher := testutil.NewLauncher(nil)
	a, err := newClient(t).SignInCancellable(context.Background(), launcher, nil,
		WithNonce("hashed-nonce"), WithAuthParam("locale", "en_US"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Cancel()
	if a.Nonce() != "hashed-nonce" {
		t.Errorf("expected caller nonce, got %q", a.Nonce())
	}
	ui := a.Host().Session().UIState()
	if want := "&nonce=hashed-nonce&"; !strings.Contains(ui.AuthURL, want) || !strings.HasSuffix(ui.AuthURL, "&locale=en_US") {
		t.Errorf("unexpected auth URL %s", ui.AuthURL)
	}
}

func TestWithMetrics(t *testing.T) {
	metrics, err := observability.NewSignInMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	c := newClient(t, WithMetrics(metrics), WithLenientState())
	launcher := testutil.NewLauncher(testutil.FixedRedirect(redirectURI + "#code=X"))
	f, err := c.SignInAsync(context.Background(), launcher)
	if err != nil {
		t.Fatal(err)
	}
	if cred, err := testutil.Await(t, f); err != nil || cred.Code != "X" {
		t.Errorf("expected lenient success, got %+v %v", cred, err)
	}
}
