package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
)

// ErrorResponse is the error envelope middleware writes directly, outside
// the handlers' normal response path.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler turns errors attached to the context into a typed response
// when a handler aborted without writing one.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := "internal server error"

		var appErr *errors.AppError
		if errors.AsAppError(err, &appErr) {
			status = appErr.StatusCode()
			message = appErr.Message
		}

		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: message,
			TraceID: TraceID(c),
		})
	}
}
