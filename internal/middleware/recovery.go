package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

const defaultFailureMessage = "Internal server error"

// Recovery turns a panic into a 500 error body. messages maps a route
// template to the user-facing error text for that route.
func Recovery(messages map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}
			logger.Error("panic recovered",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)

			msg, ok := messages[c.FullPath()]
			if !ok {
				msg = defaultFailureMessage
			}
			appErr := apperrors.New(apperrors.ErrInternal, msg, fmt.Errorf("%v", r))
			AddAuditContext(c, "error", appErr.Error())
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
				return
			}
			c.Abort()
		}()
		c.Next()
	}
}
