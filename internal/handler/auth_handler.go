package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engabdallh/attendance-registry/internal/models"
	"github.com/engabdallh/attendance-registry/internal/service"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
	"github.com/engabdallh/attendance-registry/pkg/response"
)

// AuthHandler exposes the role gate endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Exchange a role secret for an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Role credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.auth.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
