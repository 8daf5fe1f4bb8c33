// Package server provides the loopback HTTP server used to receive
// redirects in environments without an embedded browser. It runs Gin
// behind an h2c handler and applies a small middleware stack. Setting
// Config.TLS serves HTTPS instead.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: Panic recovery with structured logging
//   - RequestID: Request ID generation and propagation
//   - BodySize: Request body size limits
//   - Logging: Request logging with duration tracking
//   - RateLimit: token bucket from the resilience package, applied per route
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - Health: component health aggregation
package server
