package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
)

// Logger logs one line per request. Bodies are never logged; they carry
// medical data.
func Logger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", TraceID(c),
		}

		if len(c.Errors) > 0 {
			l.Error(c.Errors.Last().Err, "request failed", fields...)
			return
		}
		l.Info("request completed", fields...)
	}
}
