package middleware

import (
	"time"

	"gigmarket/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware writes one line per request through the context-aware
// logger so the request id attached upstream rides along on every entry.
func LoggingMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		if log == nil {
			return
		}

		log.InfoCtx(c.Request.Context(), "request completed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
