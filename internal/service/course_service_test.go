package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
)

type mockCourseRepo struct {
	flags       map[string]bool
	upsertCalls int
	setCalls    int
	getCalls    int
}

func (m *mockCourseRepo) UpsertOpen(ctx context.Context, name string) error {
	m.upsertCalls++
	if m.flags == nil {
		m.flags = make(map[string]bool)
	}
	m.flags[name] = true
	return nil
}

func (m *mockCourseRepo) SetOpenFlag(ctx context.Context, name string, open bool) (int64, error) {
	m.setCalls++
	if _, ok := m.flags[name]; !ok {
		return 0, nil
	}
	m.flags[name] = open
	return 1, nil
}

func (m *mockCourseRepo) GetOpenFlag(ctx context.Context, name string) (*bool, error) {
	m.getCalls++
	open, ok := m.flags[name]
	if !ok {
		return nil, nil
	}
	return &open, nil
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	for name, open := range m.flags {
		out = append(out, models.Course{Name: name, Open: open})
	}
	return out, nil
}

type stubCache struct {
	store map[string][]byte
}

func (s *stubCache) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCache) Delete(_ context.Context, key string) error {
	delete(s.store, key)
	return nil
}

func TestCourseOpenIsIdempotent(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, time.Minute, zap.NewNop())

	require.NoError(t, svc.Open(context.Background(), "math", models.RoleTeacher))
	require.NoError(t, svc.Open(context.Background(), "math", models.RoleTeacher))
	assert.True(t, repo.flags["math"])

	state, err := svc.Status(context.Background(), "math")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateOpen, state)
}

func TestCourseOpenRequiresTeacher(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, time.Minute, zap.NewNop())

	for _, role := range []models.Role{models.RoleStudent, models.RoleAdmin} {
		err := svc.Open(context.Background(), "math", role)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErrors.FromError(err).Code)
	}
	assert.Zero(t, repo.upsertCalls)
}

func TestCourseCloseUnknownCourseIsSilent(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, time.Minute, zap.NewNop())

	err := svc.Close(context.Background(), "ghost", models.RoleTeacher)
	require.NoError(t, err)

	state, err := svc.Status(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateUnknown, state)
}

func TestCourseCloseFlipsGate(t *testing.T) {
	repo := &mockCourseRepo{flags: map[string]bool{"math": true}}
	svc := NewCourseService(repo, nil, time.Minute, zap.NewNop())

	require.NoError(t, svc.Close(context.Background(), "math", models.RoleTeacher))

	state, err := svc.Status(context.Background(), "math")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateClosed, state)
}

func TestCourseStatusUsesCache(t *testing.T) {
	repo := &mockCourseRepo{flags: map[string]bool{"math": true}}
	cache := &stubCache{}
	svc := NewCourseService(repo, cache, time.Minute, zap.NewNop())

	state, err := svc.Status(context.Background(), "math")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateOpen, state)

	state, err = svc.Status(context.Background(), "math")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateOpen, state)
	assert.Equal(t, 1, repo.getCalls)
}

func TestCourseCloseInvalidatesCachedState(t *testing.T) {
	repo := &mockCourseRepo{flags: map[string]bool{"math": true}}
	cache := &stubCache{}
	svc := NewCourseService(repo, cache, time.Minute, zap.NewNop())

	_, err := svc.Status(context.Background(), "math")
	require.NoError(t, err)

	require.NoError(t, svc.Close(context.Background(), "math", models.RoleTeacher))

	state, err := svc.Status(context.Background(), "math")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateClosed, state)
}
