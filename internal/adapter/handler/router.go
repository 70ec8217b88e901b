package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minhducdev/clipforge/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg          *config.Config
	videoHandler *Video
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, videoHandler *Video) *Router {
	return &Router{
		cfg:          cfg,
		videoHandler: videoHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupVideoRoutes(v1)
}

// setupVideoRoutes configures video generation routes
func (rt *Router) setupVideoRoutes(g *echo.Group) {
	videoGroup := g.Group("/videos")

	videoGroup.POST("", rt.videoHandler.Create)
	videoGroup.GET("", rt.videoHandler.List)
	videoGroup.GET("/:id", rt.videoHandler.Get)
	videoGroup.GET("/:id/download", rt.videoHandler.Download)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
