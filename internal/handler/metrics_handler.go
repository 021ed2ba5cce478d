package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/engabdallh/attendance-registry/internal/service"
)

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs MetricsHandler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus godoc
// @Summary Prometheus metrics
// @Tags Metrics
// @Produce plain
// @Success 200
// @Router /metrics [get]
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
