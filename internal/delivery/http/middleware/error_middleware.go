package middleware

import (
	"errors"
	"net/http"
	"trial-intake-api/internal/delivery/http/response"
	"trial-intake-api/pkg/apperror"
	"trial-intake-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const msgInternalError = "Internal error"

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
				logger.Log.Error("request failed", "status", appErr.Code, "path", c.FullPath(), "error", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		// Never expose internal error details to clients
		logger.Log.Error("unhandled error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, msgInternalError)
	}
}

// Recovery turns a panic into the same generic 500 body as any other internal failure.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Log.Error("panic recovered", "path", c.FullPath(), "panic", recovered)
		response.Error(c, http.StatusInternalServerError, msgInternalError)
		c.Abort()
	})
}
