package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
)

type personRepository interface {
	List(ctx context.Context, filter models.PersonFilter) ([]models.Person, int, error)
	FindByID(ctx context.Context, id int64) (*models.Person, error)
	FindByName(ctx context.Context, name string) (*models.Person, error)
	RegisterOpenCourse(ctx context.Context, person *models.Person) (models.CourseState, error)
	UpdateEnrollment(ctx context.Context, id int64, course, department, section string) error
	Delete(ctx context.Context, id int64) error
}

// RegisterPersonRequest holds the payload for registering a person into a
// course. Course is required for every role, including Admin.
type RegisterPersonRequest struct {
	Role       models.Role `json:"role" validate:"required"`
	Name       string      `json:"name" validate:"required"`
	NationalID string      `json:"national_id" validate:"required"`
	Course     string      `json:"course" validate:"required"`
	Department string      `json:"department"`
	Section    string      `json:"section"`
}

// UpdateEnrollmentRequest overwrites a person's enrollment fields. Omitted
// fields are stored empty, not left unchanged.
type UpdateEnrollmentRequest struct {
	Course     string `json:"course"`
	Department string `json:"department"`
	Section    string `json:"section"`
}

// RegistrationService orchestrates the registration, update, deletion and
// lookup workflows, applying role checks and the course-open gate.
type RegistrationService struct {
	repo      personRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(repo personRepository, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, validator: validate, logger: logger}
}

// SetMetrics attaches a recorder for registration outcome counters.
func (s *RegistrationService) SetMetrics(metrics *MetricsService) {
	s.metrics = metrics
}

// Register validates the payload, checks the course gate and persists the
// person, returning it with the store-assigned identity.
func (s *RegistrationService) Register(ctx context.Context, req RegisterPersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, national id and course are required")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported role %q", req.Role))
	}

	person := &models.Person{
		Name:       req.Name,
		NationalID: req.NationalID,
		Role:       req.Role,
		Course:     req.Course,
		Department: req.Department,
		Section:    req.Section,
	}

	state, err := s.repo.RegisterOpenCourse(ctx, person)
	if err != nil {
		s.metrics.ObserveRegistration("storage_failure")
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to register person")
	}
	switch state {
	case models.CourseStateUnknown:
		s.metrics.ObserveRegistration("unknown_course")
		return nil, appErrors.Clone(appErrors.ErrUnknownCourse, fmt.Sprintf("course %q does not exist", req.Course))
	case models.CourseStateClosed:
		s.metrics.ObserveRegistration("course_closed")
		return nil, appErrors.Clone(appErrors.ErrCourseClosed, fmt.Sprintf("course %q is currently closed", req.Course))
	}

	s.metrics.ObserveRegistration("registered")
	s.logger.Info("person registered",
		zap.Int64("person_id", person.ID),
		zap.String("role", string(person.Role)),
		zap.String("course", person.Course),
	)
	return person, nil
}

// List returns persons and pagination metadata.
func (s *RegistrationService) List(ctx context.Context, filter models.PersonFilter) ([]models.Person, *models.Pagination, error) {
	persons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list persons")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return persons, pagination, nil
}

// Get looks up a person by name, first match.
func (s *RegistrationService) Get(ctx context.Context, name string) (*models.Person, error) {
	person, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load person")
	}
	return person, nil
}

// DeletePerson removes the first person matching the name. Only a teacher may
// delete a person.
func (s *RegistrationService) DeletePerson(ctx context.Context, name string, requester models.Role) error {
	if requester != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "only teachers can delete a person")
	}
	person, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load person")
	}
	if !person.Persisted() {
		return appErrors.Clone(appErrors.ErrNotPersisted, "person must exist in the store first")
	}
	if err := s.repo.Delete(ctx, person.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete person")
	}
	s.logger.Info("person deleted", zap.Int64("person_id", person.ID), zap.String("name", person.Name))
	return nil
}

// UpdatePerson overwrites the enrollment fields of the first person matching
// the name. Only a person stored with the Student role may be updated.
func (s *RegistrationService) UpdatePerson(ctx context.Context, name string, req UpdateEnrollmentRequest) (*models.Person, error) {
	person, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load person")
	}
	if person.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "only students can update their data")
	}
	if !person.Persisted() {
		return nil, appErrors.Clone(appErrors.ErrNotPersisted, "person must exist in the store first")
	}
	if err := s.repo.UpdateEnrollment(ctx, person.ID, req.Course, req.Department, req.Section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update person")
	}
	person.Course = req.Course
	person.Department = req.Department
	person.Section = req.Section
	return person, nil
}
