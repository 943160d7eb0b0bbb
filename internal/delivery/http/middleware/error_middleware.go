package middleware

import (
	"errors"
	"net/http"

	"advanced-form/internal/delivery/http/response"
	"advanced-form/pkg/apperror"
	"advanced-form/pkg/logger"

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
			if appErr.Err != nil {
				logger.Log.Debug("Request failed", "path", c.FullPath(), "code", appErr.Code, "error", appErr.Err)
			}
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Internal Server Error", "path", c.FullPath(), "error", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("Internal Server Error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
