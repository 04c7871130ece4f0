package middleware

import (
	"net/http"

	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler pushed with c.Error as
// {success:false, code, error, details}. Errors that are not AppErrors are
// reported as INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		appErr := apperrors.Wrap(last.Err)
		AddAuditContext(c, "error", appErr.Error())

		fields := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"code", appErr.Type,
			"client_ip", c.ClientIP(),
		}
		switch {
		case appErr.HTTPStatus >= http.StatusInternalServerError:
			logger.LogError(c.Request.Context(), appErr, "request failed", fields...)
		case appErr.Type == apperrors.ErrRateLimited:
			logger.Debug("request throttled", fields...)
		default:
			logger.Warn("request rejected", append(fields, "reason", appErr.Message)...)
		}

		// Recovery or a streaming handler may already have answered.
		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
	}
}
