package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engabdallh/attendance-registry/internal/middleware"
	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
)

type courseServiceMock struct {
	states     map[string]models.CourseState
	openCalls  int
	closeCalls int
	lastRole   models.Role
}

func (m *courseServiceMock) Open(ctx context.Context, name string, requester models.Role) error {
	m.lastRole = requester
	if requester != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "only teachers can open courses")
	}
	m.openCalls++
	return nil
}

func (m *courseServiceMock) Close(ctx context.Context, name string, requester models.Role) error {
	m.lastRole = requester
	if requester != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "only teachers can close courses")
	}
	m.closeCalls++
	return nil
}

func (m *courseServiceMock) Status(ctx context.Context, name string) (models.CourseState, error) {
	state, ok := m.states[name]
	if !ok {
		return models.CourseStateUnknown, nil
	}
	return state, nil
}

func (m *courseServiceMock) List(ctx context.Context) ([]models.Course, error) {
	return []models.Course{{Name: "math", Open: true}}, nil
}

func TestCourseHandlerOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &courseServiceMock{}
	h := NewCourseHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/courses/math/open", nil)
	c.Params = gin.Params{{Key: "name", Value: "math"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleTeacher})

	h.Open(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, mock.openCalls)
}

func TestCourseHandlerOpenDeniedForStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &courseServiceMock{}
	h := NewCourseHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/courses/math/open", nil)
	c.Params = gin.Params{{Key: "name", Value: "math"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleStudent})

	h.Open(c)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, mock.openCalls)
}

func TestCourseHandlerCloseUnknownCourseSucceeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &courseServiceMock{}
	h := NewCourseHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/courses/ghost/close", nil)
	c.Params = gin.Params{{Key: "name", Value: "ghost"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleTeacher})

	h.Close(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestCourseHandlerCloseWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(&courseServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/courses/math/close", nil)
	c.Params = gin.Params{{Key: "name", Value: "math"}}

	h.Close(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCourseHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &courseServiceMock{states: map[string]models.CourseState{"math": models.CourseStateOpen}}
	h := NewCourseHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/courses/math", nil)
	c.Params = gin.Params{{Key: "name", Value: "math"}}

	h.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"open"`)
}

func TestCourseHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(&courseServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/courses", nil)

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"math"`)
}
