package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/applesignin/observability"
)

// Health returns a handler that reports service health including component
// statuses. A down component answers 503.
func Health(serviceName, version string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := observability.NewServiceHealth(serviceName, version).
			Check(c.Request.Context(), checkers...)

		httpStatus := http.StatusOK
		if health.Status == observability.HealthStatusDown {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     health.Status,
			"service":    health.Service,
			"version":    health.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": health.Components,
		})
	}
}
