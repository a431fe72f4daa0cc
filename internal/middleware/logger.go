package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/logger"
)

// RequestLogger attaches a request id to the context and logs one line
// per request with method, path, status and latency.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := logger.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-ID"))
		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", logger.RequestIDFromContext(ctx))

		c.Next()

		log.WithContext(ctx).Info("request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)))
	}
}
