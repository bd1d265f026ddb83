// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Auth         AuthConfig         `mapstructure:"auth"`
	ContentStore ContentStoreConfig `mapstructure:"content_store"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Unsplash     UnsplashConfig     `mapstructure:"unsplash"`
	MealDB       MealDBConfig       `mapstructure:"mealdb"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableCORS      bool          `mapstructure:"enable_cors"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// RedisConfig contains Redis configuration. Redis backs the shared rate
// limiter buckets and the catalog cache.
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

// AuthConfig contains session verification configuration. Sessions are
// issued by the external identity provider; this service only verifies.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// ContentStoreConfig contains the external content backend configuration
type ContentStoreConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// GeminiConfig contains the generative model configuration
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UnsplashConfig contains the image search configuration. An empty access
// key disables image enrichment without failing anything.
type UnsplashConfig struct {
	AccessKey string        `mapstructure:"access_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// MealDBConfig contains the public meal catalog configuration
type MealDBConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig contains the shared quota bucket configuration
type RateLimitConfig struct {
	FreeScanLimit     int           `mapstructure:"free_scan_limit"`
	FreeScanWindow    time.Duration `mapstructure:"free_scan_window"`
	FreeSuggestLimit  int           `mapstructure:"free_suggest_limit"`
	FreeSuggestWindow time.Duration `mapstructure:"free_suggest_window"`
	ProLimit          int           `mapstructure:"pro_limit"`
	ProWindow         time.Duration `mapstructure:"pro_window"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pantrychef")
	}

	v.SetEnvPrefix("PANTRYCHEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "PantryChef")
	v.SetDefault("app.version", "2.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.max_header_bytes", 1<<20) // 1MB
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.max_upload_bytes", int64(10<<20)) // 10MB images

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)

	// Content store defaults
	v.SetDefault("content_store.base_url", "http://localhost:1337")
	v.SetDefault("content_store.timeout", "10s")

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-2.5-flash-lite")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.timeout", "60s")

	// Unsplash defaults
	v.SetDefault("unsplash.base_url", "https://api.unsplash.com")
	v.SetDefault("unsplash.timeout", "10s")

	// MealDB defaults
	v.SetDefault("mealdb.base_url", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("mealdb.timeout", "10s")

	// Rate limit defaults: monthly buckets for free, daily for pro
	v.SetDefault("rate_limit.free_scan_limit", 10)
	v.SetDefault("rate_limit.free_scan_window", "720h")
	v.SetDefault("rate_limit.free_suggest_limit", 5)
	v.SetDefault("rate_limit.free_suggest_window", "720h")
	v.SetDefault("rate_limit.pro_limit", 1000)
	v.SetDefault("rate_limit.pro_window", "24h")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.ContentStore.APIToken == "" && c.IsProduction() {
		return fmt.Errorf("content_store.api_token is required in production")
	}

	if c.Auth.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("auth.jwt_secret is required in production")
	}

	if c.Gemini.APIKey == "" && c.IsProduction() {
		return fmt.Errorf("gemini.api_key is required in production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// RedisAddr returns the Redis host:port address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
