package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Baaaki/vwap/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	Version     = "1.0.0"
	pingTimeout = 2 * time.Second
)

// Pinger is anything the health check can probe (the Store, the broker).
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports whether the API and its database are up.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.Log.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "Database is unreachable",
			"version": Version,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Vwap - Vegan Recipe Swap API is running",
		"version": Version,
	})
}

// APIRoot lists the top-level resources.
// GET /api/
func (h *HealthHandler) APIRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Vwap - Vegan Recipe Swap API",
		"version": Version,
		"endpoints": gin.H{
			"health":  "/health",
			"auth":    "/api/auth",
			"users":   "/api/users",
			"recipes": "/api/recipes",
			"swaps":   "/api/swaps",
			"reviews": "/api/reviews",
		},
	})
}
