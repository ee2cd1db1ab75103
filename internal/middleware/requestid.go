package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"
)

// RequestID makes sure every request carries a trace ID. Callers may supply
// their own via the header; otherwise one is minted, and either way it is
// echoed back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}

// TraceID returns the request's trace ID, empty outside the middleware chain.
// Error envelopes and log lines use it to correlate a failure with its
// request.
func TraceID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
