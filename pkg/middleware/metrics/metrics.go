package metrics

import (
	"time"

	"github.com/gin-gonic/gin"

	pkgmetrics "github.com/noah-isme/sma-scheduler-api/pkg/metrics"
)

// Middleware captures per-request HTTP metrics using m.
func Middleware(m *pkgmetrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
