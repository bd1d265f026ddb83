package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HealthHandler serves liveness checks
type HealthHandler struct {
	version string
	redis   *redis.Client
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		version: version,
		redis:   redisClient,
		started: time.Now(),
	}
}

// Health handles GET /health. Redis state is reported but never fails the
// check: the service can still serve catalog and store traffic degraded.
func (h *HealthHandler) Health(c *gin.Context) {
	redisStatus := "ok"
	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		redisStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
		"redis":   redisStatus,
	})
}
