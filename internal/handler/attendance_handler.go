package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engabdallh/attendance-registry/internal/models"
	"github.com/engabdallh/attendance-registry/internal/service"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
	"github.com/engabdallh/attendance-registry/pkg/response"
)

type attendanceService interface {
	CheckAbsences(ctx context.Context, name string, maxOverride *int) (*models.AbsenceReport, error)
	Record(ctx context.Context, req service.RecordAttendanceRequest) (*models.AttendanceRecord, error)
	History(ctx context.Context, name string) ([]models.AttendanceRecord, error)
}

// AttendanceHandler exposes the attendance ledger endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// CheckAbsences godoc
// @Summary Evaluate a person's absences against the threshold
// @Tags Attendance
// @Produce json
// @Param name path string true "Person name"
// @Param max query int false "Absence threshold override"
// @Success 200 {object} response.Envelope
// @Router /persons/{name}/absences [get]
func (h *AttendanceHandler) CheckAbsences(c *gin.Context) {
	var maxOverride *int
	if raw := c.Query("max"); raw != "" {
		value := parseQueryInt(c, "max", 0)
		if value <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "max must be a positive integer"))
			return
		}
		maxOverride = &value
	}

	report, err := h.attendance.CheckAbsences(c.Request.Context(), c.Param("name"), maxOverride)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Record godoc
// @Summary Append an attendance fact (teachers only)
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.RecordAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req service.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// History godoc
// @Summary List a person's attendance facts
// @Tags Attendance
// @Produce json
// @Param name path string true "Person name"
// @Success 200 {object} response.Envelope
// @Router /persons/{name}/attendance [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	records, err := h.attendance.History(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
