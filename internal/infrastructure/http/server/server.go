// Package server provides the HTTP server and route wiring
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/infrastructure/http/handlers"
	"github.com/pantrychef/v2/internal/infrastructure/http/middleware"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	identity inbound.IdentityService,
	recipes inbound.RecipeService,
	pantry inbound.PantryService,
	catalog inbound.CatalogService,
	redisClient *redis.Client,
) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if len(cfg.Server.TrustedProxies) > 0 {
		router.SetTrustedProxies(cfg.Server.TrustedProxies)
	}

	m := middleware.New(cfg, logger)
	router.Use(
		m.RequestID(),
		m.Logger(),
		m.Recovery(),
		m.CORS(),
		m.Security(),
		m.ErrorHandler(),
	)

	registerRoutes(router, cfg, logger, m, identity, recipes, pantry, catalog, redisClient)

	return &Server{
		config: cfg,
		logger: logger.Named("http-server"),
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}
}

func registerRoutes(
	router *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	m *middleware.Middleware,
	identity inbound.IdentityService,
	recipes inbound.RecipeService,
	pantry inbound.PantryService,
	catalog inbound.CatalogService,
	redisClient *redis.Client,
) {
	health := handlers.NewHealthHandler(cfg.App.Version, redisClient)
	router.GET("/health", health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	catalogHandler := handlers.NewCatalogHandler(catalog, logger)
	catalogGroup := v1.Group("/catalog")
	{
		catalogGroup.GET("/recipe-of-day", catalogHandler.RecipeOfTheDay)
		catalogGroup.GET("/categories", catalogHandler.Categories)
		catalogGroup.GET("/areas", catalogHandler.Areas)
		catalogGroup.GET("/categories/:category/meals", catalogHandler.MealsByCategory)
		catalogGroup.GET("/areas/:area/meals", catalogHandler.MealsByArea)
	}

	auth := m.Auth(identity)

	recipeHandler := handlers.NewRecipeHandler(recipes, logger)
	recipeGroup := v1.Group("/recipes", auth)
	{
		recipeGroup.POST("/resolve", recipeHandler.Resolve)
		recipeGroup.POST("/save", recipeHandler.Save)
		recipeGroup.POST("/unsave", recipeHandler.Unsave)
		recipeGroup.GET("/saved", recipeHandler.Saved)
		recipeGroup.GET("/suggestions", recipeHandler.Suggestions)
	}

	pantryHandler := handlers.NewPantryHandler(pantry, cfg.Server.MaxUploadBytes, logger)
	pantryGroup := v1.Group("/pantry", auth)
	{
		pantryGroup.POST("/scan", pantryHandler.Scan)
		pantryGroup.POST("/commit", pantryHandler.Commit)
		pantryGroup.POST("", pantryHandler.Add)
		pantryGroup.GET("", pantryHandler.List)
		pantryGroup.PUT("/:id", pantryHandler.Update)
		pantryGroup.DELETE("/:id", pantryHandler.Delete)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
