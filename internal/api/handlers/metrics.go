package handlers

import (
	"github.com/dhima/dbutils/internal/api/response"
	"github.com/dhima/dbutils/internal/logging"
	"github.com/dhima/dbutils/internal/models"
	"github.com/gin-gonic/gin"
)

// StatsProvider exposes statement counters.
type StatsProvider interface {
	Stats() models.Stats
}

// MetricsHandler handles metrics requests.
type MetricsHandler struct {
	stats  StatsProvider
	logger logging.Logger
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(stats StatsProvider, logger logging.Logger) *MetricsHandler {
	return &MetricsHandler{stats: stats, logger: logger}
}

// Metrics godoc
// @Summary Get statement counters
// @Description Returns per-operation counts, rows affected and failures since startup
// @Tags System
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=models.Stats}
// @Router /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	response.OK(c, h.stats.Stats())
}
