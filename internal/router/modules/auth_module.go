package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/standup-tracker/internal/interface/http"
	"github.com/oksasatya/standup-tracker/internal/interface/middleware"
)

// AuthModule
// Public: POST /auth/register, POST /auth/login, POST /auth/refresh-token (refresh cookie)
// Protected: POST /auth/logout, POST /auth/logout-all, GET /auth/me, GET /auth/sessions
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	g := rg.Group("/auth")
	g.POST("/register", registerLimiter, m.Handler.Register)
	g.POST("/login", loginLimiter, m.Handler.Login)
	// the access token may already be expired here; the refresh cookie authenticates
	g.POST("/refresh-token", refreshLimiter, m.Handler.Refresh)

	protected := g.Group("/")
	protected.Use(m.Auth, middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		protected.POST("/logout", m.Handler.Logout)
		protected.POST("/logout-all", m.Handler.LogoutAll)
		protected.GET("/me", m.Handler.Me)
		protected.GET("/sessions", m.Handler.Sessions)
	}
}
