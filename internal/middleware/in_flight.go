package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/jt828/hello-observability/internal/telemetry"
)

func InFlight(metrics *telemetry.RequestMetrics, endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.TrackInFlight(endpoint)
		defer done()
		c.Next()
	}
}
