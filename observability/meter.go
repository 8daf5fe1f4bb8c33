package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/applesignin/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the application.
	ServiceName string
	// ServiceVersion is the version of the application.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// SignInMetrics holds the instruments recorded per sign-in attempt.
type SignInMetrics struct {
	attemptsStarted   metric.Int64Counter
	attemptsCompleted metric.Int64Counter
	attemptsActive    metric.Int64UpDownCounter
	attemptDuration   metric.Float64Histogram
}

// NewSignInMetrics creates the sign-in instruments on the given meter.
func NewSignInMetrics(meter metric.Meter) (*SignInMetrics, error) {
	started, err := meter.Int64Counter("applesignin.attempts.started",
		metric.WithDescription("Sign-in attempts launched"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating attempts.started counter: %w", err)
	}

	completed, err := meter.Int64Counter("applesignin.attempts.completed",
		metric.WithDescription("Sign-in attempts finished, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating attempts.completed counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("applesignin.attempts.active",
		metric.WithDescription("Sign-in attempts waiting for a result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating attempts.active gauge: %w", err)
	}

	duration, err := meter.Float64Histogram("applesignin.attempt.duration",
		metric.WithDescription("Time from launch to terminal outcome in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating attempt.duration histogram: %w", err)
	}

	return &SignInMetrics{
		attemptsStarted:   started,
		attemptsCompleted: completed,
		attemptsActive:    active,
		attemptDuration:   duration,
	}, nil
}

// RecordAttemptStart counts a launched attempt.
func (m *SignInMetrics) RecordAttemptStart(ctx context.Context) {
	m.attemptsStarted.Add(ctx, 1)
	m.attemptsActive.Add(ctx, 1)
}

// RecordAttemptEnd records a finished attempt with its outcome.
func (m *SignInMetrics) RecordAttemptEnd(ctx context.Context, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrOutcome, outcome))
	m.attemptsActive.Add(ctx, -1)
	m.attemptsCompleted.Add(ctx, 1, attrs)
	m.attemptDuration.Record(ctx, duration.Seconds(), attrs)
}
