package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/internal/application"
	"github.com/oksasatya/standup-tracker/internal/interface/middleware"
	"github.com/oksasatya/standup-tracker/pkg/apperror"
	"github.com/oksasatya/standup-tracker/pkg/response"
	"github.com/oksasatya/standup-tracker/pkg/validation"
)

const msgValidationFailed = "Validation failed"

// errorWriter renders service errors. Internal failures are logged with the
// request id; their cause is only exposed when ExposeInternal is set.
type errorWriter struct {
	Logger         *logrus.Logger
	ExposeInternal bool
}

func (w errorWriter) fail(c *gin.Context, err error) {
	ae := apperror.From(err)
	if ae.Status >= http.StatusInternalServerError && w.Logger != nil {
		w.Logger.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestIDKey),
			"path":       c.FullPath(),
		}).WithError(ae.Err).Error(ae.Message)
	}
	response.FromError(c, ae, w.ExposeInternal)
}

func (w errorWriter) invalid(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, apperror.CodeValidation, msgValidationFailed, validation.ToDetails(err))
}

func clientMeta(c *gin.Context) application.ClientMeta {
	return application.ClientMeta{UserAgent: c.GetHeader("User-Agent"), IP: middleware.ClientIP(c)}
}
