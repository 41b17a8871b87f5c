package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/internal/application"
	"github.com/oksasatya/standup-tracker/internal/interface/middleware"
	"github.com/oksasatya/standup-tracker/pkg/apperror"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
	"github.com/oksasatya/standup-tracker/pkg/response"
	"github.com/oksasatya/standup-tracker/pkg/validation"
)

// UserService is implemented by *application.UserService.
type UserService interface {
	ListActive(ctx context.Context) ([]application.UserDTO, error)
	GetProfile(ctx context.Context, userID string) (*application.UserDTO, error)
	UpdateProfile(ctx context.Context, userID string, in application.UpdateProfileInput) (*application.UserDTO, error)
	Deactivate(ctx context.Context, userID string, meta application.ClientMeta) error
	UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string, size int64) (*application.UserDTO, error)
}

type UserHandler struct {
	errorWriter
	Svc     UserService
	Cookies *helpers.Manager
}

func NewUserHandler(svc UserService, cookies *helpers.Manager, logger *logrus.Logger, exposeInternal bool) *UserHandler {
	return &UserHandler{errorWriter: errorWriter{Logger: logger, ExposeInternal: exposeInternal}, Svc: svc, Cookies: cookies}
}

type updateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Timezone     *string `json:"timezone" binding:"omitempty,timezone"`
	ProfileImage *string `json:"profileImage" binding:"omitempty,url"`
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListActive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "Users retrieved successfully", nil)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User retrieved successfully", nil)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), application.UpdateProfileInput{
		Name:         req.Name,
		Timezone:     req.Timezone,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Profile updated successfully", nil)
}

// DeleteMe deactivates the account and signs it out everywhere.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.Svc.Deactivate(c.Request.Context(), middleware.UserID(c), clientMeta(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.Clear(c)
	c.Status(http.StatusNoContent)
}

// UploadAvatar accepts a multipart "file" field.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, apperror.Validation(msgValidationFailed, []validation.FieldError{{Field: "file", Message: "is required"}}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, apperror.Internal("failed to read upload", err))
		return
	}
	defer f.Close()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.UserID(c), f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Avatar updated successfully", nil)
}
