package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/engabdallh/attendance-registry/internal/models"
	"github.com/engabdallh/attendance-registry/internal/service"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
	"github.com/engabdallh/attendance-registry/pkg/response"
)

type registrationService interface {
	Register(ctx context.Context, req service.RegisterPersonRequest) (*models.Person, error)
	List(ctx context.Context, filter models.PersonFilter) ([]models.Person, *models.Pagination, error)
	Get(ctx context.Context, name string) (*models.Person, error)
	DeletePerson(ctx context.Context, name string, requester models.Role) error
	UpdatePerson(ctx context.Context, name string, req service.UpdateEnrollmentRequest) (*models.Person, error)
}

// PersonHandler exposes person registration and roster endpoints.
type PersonHandler struct {
	registration registrationService
}

// NewPersonHandler constructs PersonHandler.
func NewPersonHandler(registration registrationService) *PersonHandler {
	return &PersonHandler{registration: registration}
}

// Register godoc
// @Summary Register a person into an open course
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body service.RegisterPersonRequest true "Person payload"
// @Success 201 {object} response.Envelope
// @Router /persons [post]
func (h *PersonHandler) Register(c *gin.Context) {
	var req service.RegisterPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	person, err := h.registration.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// List godoc
// @Summary List registered persons
// @Tags Persons
// @Produce json
// @Param search query string false "Search by name or national ID"
// @Param role query string false "Filter by role"
// @Param course query string false "Filter by course"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /persons [get]
func (h *PersonHandler) List(c *gin.Context) {
	var filter models.PersonFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Course = c.Query("course")
	if role := c.Query("role"); role != "" {
		r := models.Role(role)
		filter.Role = &r
	}
	filter.Page = parseQueryInt(c, "page", 1)
	filter.PageSize = parseQueryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	persons, pagination, err := h.registration.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, persons, pagination)
}

// Get godoc
// @Summary Look up a person by name (first match)
// @Tags Persons
// @Produce json
// @Param name path string true "Person name"
// @Success 200 {object} response.Envelope
// @Router /persons/{name} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.registration.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Update godoc
// @Summary Overwrite a student's enrollment fields
// @Tags Persons
// @Accept json
// @Produce json
// @Param name path string true "Person name"
// @Param payload body service.UpdateEnrollmentRequest true "Enrollment payload"
// @Success 200 {object} response.Envelope
// @Router /persons/{name} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	var req service.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	person, err := h.registration.UpdatePerson(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Delete godoc
// @Summary Delete a person (teachers only)
// @Tags Persons
// @Produce json
// @Param name path string true "Person name"
// @Success 204
// @Router /persons/{name} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.registration.DeletePerson(c.Request.Context(), c.Param("name"), claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
