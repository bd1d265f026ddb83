// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"net/http"

	catalogapp "github.com/pantrychef/v2/internal/application/catalog"
	identityapp "github.com/pantrychef/v2/internal/application/identity"
	pantryapp "github.com/pantrychef/v2/internal/application/pantry"
	recipeapp "github.com/pantrychef/v2/internal/application/recipe"
	"github.com/pantrychef/v2/internal/infrastructure/ai/gemini"
	"github.com/pantrychef/v2/internal/infrastructure/cache"
	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/infrastructure/contentstore"
	"github.com/pantrychef/v2/internal/infrastructure/http/server"
	"github.com/pantrychef/v2/internal/infrastructure/mealdb"
	"github.com/pantrychef/v2/internal/infrastructure/ratelimit"
	"github.com/pantrychef/v2/internal/infrastructure/search/unsplash"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	RedisModule,
	StoreModule,
	ExternalModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// RedisModule provides the shared Redis client, the cache repository, and
// the quota gate built on it
var RedisModule = fx.Provide(
	cache.NewRedisClient,
	cache.NewRedisCache,
	func(client *redis.Client, cfg *config.Config, log *zap.Logger) outbound.QuotaGate {
		return ratelimit.NewRedisGate(client, cfg.RateLimit, log)
	},
)

// StoreModule provides the content store adapters
var StoreModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *contentstore.Client {
		return contentstore.NewClient(cfg.ContentStore, log)
	},
	contentstore.NewUserStore,
	contentstore.NewRecipeStore,
	contentstore.NewSavedRecipeStore,
	contentstore.NewPantryStore,
)

// ExternalModule provides the model, image search, and meal catalog clients
var ExternalModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *gemini.Client {
		return gemini.NewClient(cfg.Gemini, log)
	},
	func(c *gemini.Client) outbound.TextModel { return c },
	func(c *gemini.Client) outbound.VisionModel { return c },
	func(cfg *config.Config, log *zap.Logger) outbound.ImageSearch {
		return unsplash.NewClient(cfg.Unsplash, log)
	},
	func(cfg *config.Config, log *zap.Logger) outbound.MealCatalog {
		return mealdb.NewClient(cfg.MealDB, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	identityapp.NewIdentityService,
	recipeapp.NewRecipeService,
	pantryapp.NewPantryService,
	catalogapp.NewCatalogService,
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	redisClient *redis.Client,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}

			_ = log.Sync()

			return nil
		},
	})
}
