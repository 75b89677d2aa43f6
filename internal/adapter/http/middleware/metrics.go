package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/core/telemetry"
)

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		metrics.IncrementActiveConnections(ctx)
		defer metrics.DecrementActiveConnections(ctx)

		c.Next()

		path := c.FullPath()

		// unmatched paths share one label
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(ctx, c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
