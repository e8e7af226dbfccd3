package middleware

import (
	"strconv"
	"time"

	"leadgenius_backend/platform/metrics"

	"github.com/gin-gonic/gin"
)

// RequestTimer observes request latency per matched route. Unmatched
// paths share one label to keep cardinality bounded.
func RequestTimer() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
