package middleware

import (
	"net/http"
	"time"

	"github.com/ecofoods/backend/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request counts and latencies by route template.
// A nil registry disables it.
func HTTPMetrics(registry *metrics.Registry, skipPaths ...string) gin.HandlerFunc {
	if registry == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status == 0 {
			status = http.StatusOK
		}
		registry.ObserveHTTPRequest(c.Request.Method, c.FullPath(), status, time.Since(start))
	}
}
