package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/standup-tracker/pkg/apperror"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type APIResponse[T any] struct {
	Status    int        `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	RequestID string     `json:"request_id,omitempty"`
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Data      T          `json:"data"`
	Meta      any        `json:"meta,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope, aborts the chain and returns the envelope.
func Error[T any](ctx *gin.Context, status int, code, message string, details any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     &ErrorBody{Code: code, Details: details},
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

// FromError renders err through the apperror taxonomy. Causes of internal
// errors are only exposed when exposeInternal is set.
func FromError(ctx *gin.Context, err error, exposeInternal bool) APIResponse[any] {
	ae := apperror.From(err)
	message := ae.Message
	details := ae.Details
	if ae.Status >= http.StatusInternalServerError {
		if exposeInternal && ae.Err != nil {
			details = ae.Err.Error()
		} else {
			details = nil
		}
	}
	return Error[any](ctx, ae.Status, ae.Code, message, details)
}
