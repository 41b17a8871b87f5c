package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/standup-tracker/internal/interface/http"
	"github.com/oksasatya/standup-tracker/internal/interface/middleware"
)

type StandupModule struct {
	Handler *handlers.StandupHandler
	Auth    gin.HandlerFunc
	RDB     *redis.Client
}

func NewStandupModule(h *handlers.StandupHandler, auth gin.HandlerFunc, rdb *redis.Client) *StandupModule {
	return &StandupModule{Handler: h, Auth: auth, RDB: rdb}
}

func (m *StandupModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/standups")
	g.Use(m.Auth, middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		g.POST("", m.Handler.Create)
		g.GET("", m.Handler.List)
		g.GET("/search", m.Handler.Search)
		g.GET("/:id", m.Handler.Get)
		g.PATCH("/:id", m.Handler.Update)
	}
}
