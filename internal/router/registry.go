package router

import "github.com/gin-gonic/gin"

type Registry struct {
	Engine *gin.Engine
	// Root is /api; versioned feature routes live under API (/api/v1).
	Root        *gin.RouterGroup
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	rootModules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	root := engine.Group("/api")
	return &Registry{Engine: engine, Root: root, API: root.Group("/v1")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// AddRoot registers a module on /api instead of /api/v1.
func (r *Registry) AddRoot(mod Module) {
	r.rootModules = append(r.rootModules, mod)
}

func (r *Registry) RegisterAll() {
	// API copied Root's handlers when it was created, so it needs its own Use
	if len(r.middlewares) > 0 {
		r.Root.Use(r.middlewares...)
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.rootModules {
		m.Register(r.Root)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
