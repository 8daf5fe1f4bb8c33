package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/applesignin/appleid"
	"github.com/kbukum/applesignin/errors"
	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/observability"
	"github.com/kbukum/applesignin/relay"
	"github.com/kbukum/applesignin/signin"
	"github.com/kbukum/applesignin/util"
	"github.com/kbukum/applesignin/version"
)

type signInOutput struct {
	Code             string        `json:"code,omitempty"`
	IdentityToken    string        `json:"identity_token,omitempty"`
	Nonce            string        `json:"nonce"`
	NonceMatches     bool          `json:"nonce_matches"`
	UnverifiedClaims jwt.MapClaims `json:"unverified_claims,omitempty"`
}

type urlOutput struct {
	URL   string `json:"url"`
	Nonce string `json:"nonce"`
	State string `json:"state"`
}

func runSignIn(ctx context.Context, f *flags, w io.Writer) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	logger.Init(&cfg.Logging)
	log := logger.GetGlobalLogger()

	timeout, err := time.ParseDuration(f.timeout)
	if err != nil {
		return fmt.Errorf("invalid --timeout: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shutdown, metrics, err := initTelemetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	r, err := relay.New(cfg.Relay, log, relay.WithVersion(version.Short()))
	if err != nil {
		return err
	}
	defer func() {
		r.Close()
		<-r.Done()
	}()

	client, err := signin.NewFromConfig(cfg.Apple, signin.WithLogger(log), signin.WithMetrics(metrics))
	if err != nil {
		return err
	}

	nonce := f.nonce
	if nonce == "" {
		nonce = appleid.NewNonce()
	}
	opts := []signin.AttemptOption{signin.WithNonce(nonce)}
	if f.locale != "" {
		opts = append(opts, signin.WithAuthParam("locale", f.locale))
	}

	cred, err := client.Flow(r, opts...).First(ctx)
	if err != nil {
		if errors.IsCancelled(err) {
			log.Warn("sign-in cancelled")
		}
		return err
	}
	log.Info("signed in", logger.Fields(
		"code", util.MaskSecret(cred.Code, 6),
		"identity_token", util.MaskSecret(cred.IdentityToken, 10),
	))

	out := signInOutput{
		Code:          cred.Code,
		IdentityToken: cred.IdentityToken,
		Nonce:         nonce,
		NonceMatches:  cred.NonceClaim() == nonce,
	}
	if claims, err := cred.UnverifiedClaims(); err == nil {
		out.UnverifiedClaims = claims
	} else if cred.IdentityToken != "" {
		log.Warn("identity token could not be decoded", logger.ErrorFields("decode_token", err))
	}
	return writeJSON(w, out)
}

func runURL(f *flags, w io.Writer) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	sc := appleid.NewSignInConfig(cfg.Apple.ClientID, cfg.Apple.RedirectURI, f.nonce)
	return writeJSON(w, urlOutput{
		URL:   appleid.BuildAuthURL(sc),
		Nonce: sc.Nonce,
		State: sc.State,
	})
}

func runDecode(token string, w io.Writer) error {
	claims, err := appleid.Credential{IdentityToken: token}.UnverifiedClaims()
	if err != nil {
		return err
	}
	return writeJSON(w, claims)
}

// initTelemetry installs the OTLP tracer and meter providers when telemetry
// is enabled.
func initTelemetry(ctx context.Context, cfg *Config, log *logger.Logger) (func(context.Context), *observability.SignInMetrics, error) {
	noop := func(context.Context) {}
	if !cfg.Telemetry.Enabled {
		return noop, nil, nil
	}
	v := version.Short()

	tp, err := observability.InitTracer(ctx, cfg.Telemetry.TracerConfig(cfg.Name, v, cfg.Environment))
	if err != nil {
		return noop, nil, err
	}
	mc := cfg.Telemetry.MeterConfig(cfg.Name, v, cfg.Environment)
	mp, err := observability.InitMeter(ctx, &mc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return noop, nil, err
	}
	metrics, err := observability.NewSignInMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		log.Warn("creating sign-in metrics failed", logger.ErrorFields("init_metrics", err))
	}

	return func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", logger.ErrorFields("shutdown_tracer", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			log.Warn("meter shutdown failed", logger.ErrorFields("shutdown_meter", err))
		}
	}, metrics, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
