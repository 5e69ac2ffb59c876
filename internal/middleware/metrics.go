package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/service"
)

// Metrics records request counts and latency per route. Unmatched paths
// fall back to the raw URL so 404 traffic is still visible.
func Metrics(m *service.MetricsService) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
