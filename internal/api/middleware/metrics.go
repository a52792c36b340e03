// internal/api/middleware/metrics.go
package middleware

import (
	"strconv"
	"time"

	"mycars-storefront/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics đếm request và đo latency theo route template (ví dụ /cars/:id).
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.PageRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.PageDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
