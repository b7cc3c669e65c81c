package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analysis_module "github.com/meladine121/reverse-engineertoolforweb-emergent/internal/api/modules/analysis"
	health_module "github.com/meladine121/reverse-engineertoolforweb-emergent/internal/api/modules/health"
	live_module "github.com/meladine121/reverse-engineertoolforweb-emergent/internal/api/modules/live"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/broadcast"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/pipeline"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
	analysisstore "github.com/meladine121/reverse-engineertoolforweb-emergent/internal/stores/analysis"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/pkg/sdk"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/pkg/utils"
)

// Deps holds the shared services the API modules run off of
type Deps struct {
	Registry     *registry.Registry
	Hub          *broadcast.Hub
	Orchestrator *pipeline.Orchestrator
	Store        analysisstore.Store
}

func Start(cfg *utils.Config, deps Deps) {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	// Add app level settings/routes
	engine := gin.Default()
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Route not found", nil).AsGinResponse())
	})

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup)

	analysis_module.RegisterRoutes(baseGroup)
	analysis_module.Init(deps.Orchestrator, deps.Store)

	live_module.RegisterRoutes(baseGroup)
	live_module.Init(deps.Registry, deps.Hub, deps.Orchestrator, deps.Store)

	// Then after performing initial setup, start the server
	if err := engine.Run(":" + port); err != nil {
		log.Fatal("[API-MAIN]: Failed to start server: ", err)
	}
}
