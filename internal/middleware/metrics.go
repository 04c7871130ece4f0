package middleware

import (
	"strconv"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records latency and a status-class counter per route
// template. Unrouted paths share one label so scanners cannot inflate
// cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.LatencyBucket.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		metrics.HTTPRequests.WithLabelValues(endpoint, statusClass(c.Writer.Status())).Inc()
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}
