package app

import (
	"github.com/gin-gonic/gin"
	"github.com/meshlog/core/internal/middleware"
	"github.com/meshlog/core/internal/modules/meshlog"
	"github.com/meshlog/core/internal/pkg/response"
)

func (a *App) registerRoutes(handler *meshlog.Handler) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting runs on every route (requires Redis).
	r.Use(middleware.RateLimit(a.store.Raw()))

	api := r.Group("/api/v1")
	api.GET("/health", a.health)
	handler.RegisterRoutes(api)
}

func (a *App) health(c *gin.Context) {
	if err := a.store.Ping(c.Request.Context()); err != nil {
		response.Unavailable(c, err)
		return
	}
	response.OK(c, gin.H{"status": "ok", "region": a.cfg.Region})
}
