// Package observability provides OpenTelemetry tracing and metrics for
// sign-in attempts.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-app"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-app"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewSignInMetrics(observability.Meter("my-app"))
//
// Every attempt is wrapped in an "applesignin.attempt" span:
//
//	ctx, attempt := observability.StartAttempt(ctx, attemptID, metrics)
//	defer attempt.End(ctx, "success", nil)
package observability
