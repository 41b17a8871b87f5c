package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/pkg/apperror"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
	"github.com/oksasatya/standup-tracker/pkg/response"
)

// Pinger reports whether the primary store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB     Pinger
	Logger *logrus.Logger
}

func NewHealthHandler(db Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{DB: db, Logger: logger}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		helpers.LogWarn(h.Logger, "health check failed", err, nil)
		response.Error[any](c, http.StatusServiceUnavailable, apperror.CodeUnavailable, "Database unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
}
