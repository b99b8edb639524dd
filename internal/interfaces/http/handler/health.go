package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatabaseChecker is the part of persistence.Database the health check needs
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler reports liveness together with database reachability
type HealthHandler struct {
	db      DatabaseChecker
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Check answers 200 when the database responds to a ping and 503 otherwise
//
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"time":     now,
			"database": gin.H{"status": "error"},
		})
		return
	}

	database := gin.H{"status": "ok"}
	if stats, err := h.db.Stats(); err == nil {
		database["pool"] = stats
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"time":     now,
		"database": database,
	})
}
