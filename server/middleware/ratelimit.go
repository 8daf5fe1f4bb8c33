package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/resilience"
)

// RateLimit returns middleware that rejects requests with 429 once rl has
// no tokens left. Retry-After is rounded up to whole seconds.
func RateLimit(rl *resilience.RateLimiter, log *logger.Logger) Middleware {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.Allow() {
				next.ServeHTTP(w, r)
				return
			}
			wait := int(math.Ceil(rl.RetryAfter().Seconds()))
			if wait < 1 {
				wait = 1
			}
			log.Warn("Request rate limited", logger.Fields("path", r.URL.Path, "retry_after", wait))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(wait))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
		})
	}
}
