package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apimodels "github.com/vunguyen00/Netflix/pkg/models"
)

// Service identity reported by the health check
const (
	ServiceName    = "netflix-warranty"
	ServiceVersion = "1.0.0"
)

const (
	checkHealthy     = "healthy"
	checkUnhealthy   = "unhealthy"
	checkUnavailable = "unavailable"
)

// HealthCheck performs a comprehensive health check
// @Summary Perform health check
// @Description Checks database connectivity and the scheduler (Note: this endpoint is not under /api/v1 path)
// @Tags Health Check
// @Produce json
// @Success 200 {object} apimodels.HealthResponse "Health check passed"
// @Failure 503 {object} apimodels.HealthResponse "Service unhealthy"
// @Router /health [get]
func (h *HandlerService) HealthCheck(c *gin.Context) {
	health := apimodels.HealthResponse{
		Status:    checkHealthy,
		Timestamp: time.Now().UTC(),
		Service:   ServiceName,
		Version:   ServiceVersion,
		Checks: map[string]string{
			"database":  h.checkDatabaseHealth(c.Request.Context()),
			"scheduler": checkUnavailable,
		},
	}
	if h.scheduler != nil {
		health.Checks["scheduler"] = checkHealthy
		health.Scheduler = h.scheduler.GetStatus()
	}

	// the scheduler is optional, only the database decides overall health
	if health.Checks["database"] != checkHealthy {
		health.Status = checkUnhealthy
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}

func (h *HandlerService) checkDatabaseHealth(ctx context.Context) string {
	if h.store == nil {
		return checkUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		return checkUnhealthy
	}
	return checkHealthy
}
