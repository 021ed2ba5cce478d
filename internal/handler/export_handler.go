package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engabdallh/attendance-registry/internal/service"
	"github.com/engabdallh/attendance-registry/pkg/response"
)

// ExportHandler serves roster downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Roster godoc
// @Summary Download the person roster as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv or pdf)"
// @Success 200
// @Router /persons/export [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	payload, contentType, filename, err := h.exports.RenderRoster(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
