package middleware

import (
	"errors"
	"net/http"

	"contact-sms-relay/internal/delivery/http/response"
	"contact-sms-relay/pkg/apperror"
	"contact-sms-relay/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("request failed",
					"status", appErr.Code,
					"error", err,
					"cause", appErr.Err,
					"request_id", GetRequestID(c),
				)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Detail)
			return
		}

		// Never expose internal error details to clients; log them server-side.
		logger.Log.Error("Internal Server Error", "error", err, "request_id", GetRequestID(c))
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", "")
	}
}
