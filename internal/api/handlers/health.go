package handlers

import (
	"context"
	"time"

	"github.com/dhima/dbutils/internal/api/response"
	"github.com/dhima/dbutils/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the database connection is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pinger Pinger
	logger logging.Logger
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(pinger Pinger, logger logging.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, logger: logger}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Service  string `json:"service" example:"dbutils"`
	Version  string `json:"version" example:"1.0.0"`
	Database string `json:"database" example:"up"`
} // @name HealthResponse

// Health godoc
// @Summary Health check endpoint
// @Description Pings the database connection and reports its status
// @Tags System
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=HealthResponse}
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := HealthResponse{
		Status:   "ok",
		Service:  "dbutils",
		Version:  "1.0.0",
		Database: "up",
	}

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("health check ping failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		body.Status = "degraded"
		body.Database = "down"
		response.ServiceUnavailable(c, "database unavailable", body)
		return
	}

	response.OK(c, body)
}
