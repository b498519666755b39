package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
)

// RequestLogger logs every handled request with its status and latency.
func RequestLogger(logger outbound.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoWithFields("Request handled", map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
