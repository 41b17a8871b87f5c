package router

import (
	"github.com/oksasatya/standup-tracker/internal/container"
	handlers "github.com/oksasatya/standup-tracker/internal/interface/http"
	"github.com/oksasatya/standup-tracker/internal/interface/middleware"
	"github.com/oksasatya/standup-tracker/internal/router/modules"
)

// InitModules builds the handlers from c and adds every feature module to r.
func InitModules(r *Registry, c *container.Container) {
	expose := !c.Config.IsProduction()
	auth := middleware.Auth(c.JWT, c.Redis, c.Logger)

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(c.Users, c.Logger)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Cookies, c.Logger, expose), auth, c.Redis))
	r.Add(modules.NewStandupModule(handlers.NewStandupHandler(c.Standup, c.Logger, expose), auth, c.Redis))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.User, c.Cookies, c.Logger, expose), auth, c.Redis))
	if c.Config.DebugMetricsEnabled {
		r.AddRoot(modules.NewDebugModule(c.Redis))
	}
}
