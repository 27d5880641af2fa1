package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/crowncoastal/landing-backend/internal/handlers"
	"github.com/crowncoastal/landing-backend/internal/middleware"
)

type RouterConfig struct {
	LandingHandler *handlers.LandingHandler
	AdminHandler   *handlers.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("landing-backend"))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.GET("/landing/:city/:slug", cfg.LandingHandler.GetPage)
	}

	// ===============
	// || Admin     ||
	// ===============
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	admin.POST("/landing/:city/:slug/regenerate", cfg.AdminHandler.Regenerate)
	admin.GET("/landing/runs", cfg.AdminHandler.ListRuns)

	return router
}
