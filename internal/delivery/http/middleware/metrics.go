package middleware

import (
	"strconv"

	"trial-intake-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics counts handled requests by method, route template and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
