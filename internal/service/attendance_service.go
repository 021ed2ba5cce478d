package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
)

type attendanceRepository interface {
	CountAbsences(ctx context.Context, personID int64) (int, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	HistoryByPerson(ctx context.Context, personID int64) ([]models.AttendanceRecord, error)
}

type personReader interface {
	FindByName(ctx context.Context, name string) (*models.Person, error)
}

type absenceCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RecordAttendanceRequest holds one presence/absence fact to append.
type RecordAttendanceRequest struct {
	Name    string `json:"name" validate:"required"`
	Date    string `json:"date" validate:"required"`
	Present *bool  `json:"present" validate:"required"`
}

// AttendanceService tallies absences against the configured threshold and
// appends ledger entries taken by teachers.
type AttendanceService struct {
	repo        attendanceRepository
	persons     personReader
	cache       absenceCache
	metrics     *MetricsService
	maxAbsences int
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, persons personReader, cache absenceCache, maxAbsences int, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if maxAbsences <= 0 {
		maxAbsences = 10
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:        repo,
		persons:     persons,
		cache:       cache,
		maxAbsences: maxAbsences,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger,
	}
}

// SetMetrics attaches a recorder for absence check and cache counters.
func (s *AttendanceService) SetMetrics(metrics *MetricsService) {
	s.metrics = metrics
}

func absenceReportKey(personID int64, max int) string {
	return fmt.Sprintf("absences:%d:%d", personID, max)
}

// CheckAbsences counts the person's absences over the full history and
// compares them against the threshold. A count exactly equal to the maximum
// is still within the limit.
func (s *AttendanceService) CheckAbsences(ctx context.Context, name string, maxOverride *int) (*models.AbsenceReport, error) {
	person, err := s.persons.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load person")
	}
	if !person.Persisted() {
		return nil, appErrors.Clone(appErrors.ErrNotPersisted, "person must exist in the store first")
	}

	max := s.maxAbsences
	if maxOverride != nil && *maxOverride > 0 {
		max = *maxOverride
	}

	s.metrics.ObserveAbsenceCheck()

	key := absenceReportKey(person.ID, max)
	if s.cache != nil {
		var cached models.AbsenceReport
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.ObserveCacheHit()
			return &cached, nil
		}
		s.metrics.ObserveCacheMiss()
	}

	absences, err := s.repo.CountAbsences(ctx, person.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to count absences")
	}

	report := &models.AbsenceReport{
		PersonID:    person.ID,
		Name:        person.Name,
		Absences:    absences,
		MaxAbsences: max,
		WithinLimit: absences <= max,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache absence report", zap.Int64("person_id", person.ID), zap.Error(err))
		}
	}
	return report, nil
}

// Record appends one attendance fact for the named person.
func (s *AttendanceService) Record(ctx context.Context, req RecordAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, date and present are required")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	person, err := s.persons.FindByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load person")
	}

	record := &models.AttendanceRecord{PersonID: person.ID, Date: date, Present: *req.Present}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to record attendance")
	}

	if s.cache != nil && !record.Present {
		if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("absences:%d:*", person.ID)); err != nil {
			s.logger.Warn("failed to invalidate absence report cache", zap.Int64("person_id", person.ID), zap.Error(err))
		}
	}
	return record, nil
}

// History returns the named person's attendance facts, newest first.
func (s *AttendanceService) History(ctx context.Context, name string) ([]models.AttendanceRecord, error) {
	person, err := s.persons.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load person")
	}
	records, err := s.repo.HistoryByPerson(ctx, person.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load attendance history")
	}
	return records, nil
}
