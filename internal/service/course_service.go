package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
)

type courseRepository interface {
	UpsertOpen(ctx context.Context, name string) error
	SetOpenFlag(ctx context.Context, name string, open bool) (int64, error)
	GetOpenFlag(ctx context.Context, name string) (*bool, error)
	List(ctx context.Context) ([]models.Course, error)
}

type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CourseService tracks which courses exist and whether each is open.
type CourseService struct {
	repo     courseRepository
	cache    cacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, cache cacheRepository, cacheTTL time.Duration, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func courseStateKey(name string) string {
	return fmt.Sprintf("course:state:%s", name)
}

// Open upserts the course with open = true. Idempotent; opening an open
// course succeeds without effect. Teacher-only.
func (s *CourseService) Open(ctx context.Context, name string, requester models.Role) error {
	if requester != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "only teachers can open courses")
	}
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course name is required")
	}
	if err := s.repo.UpsertOpen(ctx, name); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to open course")
	}
	s.invalidate(ctx, name)
	s.logger.Info("course opened", zap.String("course", name))
	return nil
}

// Close sets open = false on an existing course. Closing a course that was
// never opened touches no rows and is reported as a success.
func (s *CourseService) Close(ctx context.Context, name string, requester models.Role) error {
	if requester != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "only teachers can close courses")
	}
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course name is required")
	}
	affected, err := s.repo.SetOpenFlag(ctx, name, false)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to close course")
	}
	if affected == 0 {
		s.logger.Debug("close of unknown course ignored", zap.String("course", name))
		return nil
	}
	s.invalidate(ctx, name)
	s.logger.Info("course closed", zap.String("course", name))
	return nil
}

// Status resolves the tri-state registration gate for a course.
func (s *CourseService) Status(ctx context.Context, name string) (models.CourseState, error) {
	if name == "" {
		return models.CourseStateUnknown, appErrors.Clone(appErrors.ErrValidation, "course name is required")
	}

	key := courseStateKey(name)
	if s.cache != nil {
		var cached models.CourseState
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	flag, err := s.repo.GetOpenFlag(ctx, name)
	if err != nil {
		return models.CourseStateUnknown, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load course state")
	}
	state := models.CourseStateFromFlag(flag)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, state, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache course state", zap.String("course", name), zap.Error(err))
		}
	}
	return state, nil
}

// List returns every known course.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list courses")
	}
	return courses, nil
}

func (s *CourseService) invalidate(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, courseStateKey(name)); err != nil {
		s.logger.Warn("failed to invalidate course state cache", zap.String("course", name), zap.Error(err))
	}
}
