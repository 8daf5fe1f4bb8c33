// Package resilience holds the token bucket the relay uses to throttle
// its capture endpoints.
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Name: "capture", Rate: 5, Burst: 10})
//	if !rl.Allow() {
//	    // reject, retry after rl.RetryAfter()
//	}
package resilience
