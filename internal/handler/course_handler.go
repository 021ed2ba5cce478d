package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
	"github.com/engabdallh/attendance-registry/pkg/response"
)

type courseService interface {
	Open(ctx context.Context, name string, requester models.Role) error
	Close(ctx context.Context, name string, requester models.Role) error
	Status(ctx context.Context, name string) (models.CourseState, error)
	List(ctx context.Context) ([]models.Course, error)
}

// CourseHandler exposes the course registry endpoints.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses and their gate state
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Status godoc
// @Summary Resolve the registration gate for a course
// @Tags Courses
// @Produce json
// @Param name path string true "Course name"
// @Success 200 {object} response.Envelope
// @Router /courses/{name} [get]
func (h *CourseHandler) Status(c *gin.Context) {
	state, err := h.courses.Status(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"name": c.Param("name"), "state": state}, nil)
}

// Open godoc
// @Summary Open a course for registration (teachers only)
// @Tags Courses
// @Produce json
// @Param name path string true "Course name"
// @Success 204
// @Router /courses/{name}/open [post]
func (h *CourseHandler) Open(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	name := c.Param("name")
	if err := h.courses.Open(c.Request.Context(), name, claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Close godoc
// @Summary Close a course for registration (teachers only)
// @Tags Courses
// @Produce json
// @Param name path string true "Course name"
// @Success 204
// @Router /courses/{name}/close [post]
func (h *CourseHandler) Close(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	name := c.Param("name")
	if err := h.courses.Close(c.Request.Context(), name, claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
