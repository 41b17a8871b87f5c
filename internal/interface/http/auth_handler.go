package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/internal/application"
	"github.com/oksasatya/standup-tracker/internal/interface/middleware"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
	"github.com/oksasatya/standup-tracker/pkg/response"
)

// AuthService is implemented by *application.AuthService.
type AuthService interface {
	Register(ctx context.Context, in application.RegisterInput, meta application.ClientMeta) (*application.AuthResult, error)
	Login(ctx context.Context, email, password string, meta application.ClientMeta) (*application.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, oldToken string, meta application.ClientMeta) (application.TokenPair, error)
	LogoutAll(ctx context.Context, userID string, meta application.ClientMeta) error
	GetCurrentUser(ctx context.Context, userID string) (*application.UserDTO, error)
	ListSessions(ctx context.Context, userID string) ([]application.SessionDTO, error)
}

type AuthHandler struct {
	errorWriter
	Svc     AuthService
	Cookies *helpers.Manager
}

func NewAuthHandler(svc AuthService, cookies *helpers.Manager, logger *logrus.Logger, exposeInternal bool) *AuthHandler {
	return &AuthHandler{errorWriter: errorWriter{Logger: logger, ExposeInternal: exposeInternal}, Svc: svc, Cookies: cookies}
}

type registerRequest struct {
	Email        string  `json:"email" binding:"required,email,max=255"`
	Password     string  `json:"password" binding:"required,pwd,max=72"`
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	Timezone     string  `json:"timezone" binding:"omitempty,timezone"`
	ProfileImage *string `json:"profileImage" binding:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func tokenMeta(p application.TokenPair) gin.H {
	return gin.H{"accessExpiresAt": p.AccessTokenExpiry, "refreshExpiresAt": p.RefreshTokenExpiry}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		Timezone:     req.Timezone,
		ProfileImage: req.ProfileImage,
	}, clientMeta(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetPair(c, res.Tokens.AccessToken, res.Tokens.RefreshToken)
	response.Success(c, http.StatusCreated, res.User, "User registered successfully", tokenMeta(res.Tokens))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetPair(c, res.Tokens.AccessToken, res.Tokens.RefreshToken)
	response.Success(c, http.StatusOK, res.User, "Login successful", tokenMeta(res.Tokens))
}

// Logout is idempotent: cookies are cleared even when the token is unknown.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), h.Cookies.RefreshToken(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.Clear(c)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.Svc.LogoutAll(c.Request.Context(), middleware.UserID(c), clientMeta(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.Clear(c)
	c.Status(http.StatusNoContent)
}

// Refresh rotates the refresh token carried by the refreshToken cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	pair, err := h.Svc.RefreshToken(c.Request.Context(), h.Cookies.RefreshToken(c), clientMeta(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.RefreshToken)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetCurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User retrieved successfully", nil)
}

func (h *AuthHandler) Sessions(c *gin.Context) {
	sessions, err := h.Svc.ListSessions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, sessions, "Sessions retrieved successfully", gin.H{"count": len(sessions)})
}
