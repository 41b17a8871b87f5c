package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/standup-tracker/internal/interface/http"
	"github.com/oksasatya/standup-tracker/internal/interface/middleware"
)

type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.Use(m.Auth, middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		g.GET("", m.Handler.List)
		g.GET("/me", m.Handler.Me)
		g.PATCH("/me", m.Handler.UpdateMe)
		g.DELETE("/me", m.Handler.DeleteMe)
		g.POST("/me/avatar", middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByUserID(), nil), m.Handler.UploadAvatar)
	}
}
