package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/pkg/apperror"
	"github.com/oksasatya/standup-tracker/pkg/response"
)

// Recovery turns a panic into the Internal error envelope.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"request_id": c.GetString(CtxRequestIDKey),
					"path":       c.Request.URL.Path,
					"stack":      string(debug.Stack()),
				}).Error(fmt.Sprintf("panic: %v", r))
				response.Error[any](c, http.StatusInternalServerError, apperror.CodeInternal, "internal server error", nil)
			}
		}()
		c.Next()
	}
}
