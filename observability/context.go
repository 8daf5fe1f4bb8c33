package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attempt holds the observability state of one sign-in attempt.
type Attempt struct {
	ID        string
	StartTime time.Time
	metrics   *SignInMetrics
	span      trace.Span
}

type attemptKey struct{}

// StartAttempt starts the attempt span and records the start metric.
// metrics may be nil.
func StartAttempt(ctx context.Context, id string, metrics *SignInMetrics, attrs ...attribute.KeyValue) (context.Context, *Attempt) {
	ctx, span := StartSpan(ctx, SpanAttempt, trace.WithAttributes(attribute.String(AttrAttemptID, id)))
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	a := &Attempt{
		ID:        id,
		StartTime: time.Now(),
		metrics:   metrics,
		span:      span,
	}
	if metrics != nil {
		metrics.RecordAttemptStart(ctx)
	}
	return context.WithValue(ctx, attemptKey{}, a), a
}

// AttemptFromContext returns the attempt stored by StartAttempt, or nil.
func AttemptFromContext(ctx context.Context) *Attempt {
	if a, ok := ctx.Value(attemptKey{}).(*Attempt); ok {
		return a
	}
	return nil
}

// End ends the span and records the outcome. errCode is the error code of
// a failed attempt and err its error; both are empty on success.
func (a *Attempt) End(ctx context.Context, outcome, errCode string, err error) {
	duration := a.Duration()

	if err != nil {
		a.span.RecordError(err)
		a.span.SetStatus(codes.Error, errCode)
		a.span.SetAttributes(
			attribute.String(AttrErrorCode, errCode),
			attribute.String(AttrErrorMessage, err.Error()),
		)
	}
	a.span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	a.span.End()

	if a.metrics != nil {
		a.metrics.RecordAttemptEnd(ctx, outcome, duration)
	}
}

// Duration returns the elapsed time since the attempt started.
func (a *Attempt) Duration() time.Duration {
	return time.Since(a.StartTime)
}
