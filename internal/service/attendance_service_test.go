package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
)

type mockAttendanceRepo struct {
	absences   map[int64]int
	history    map[int64][]models.AttendanceRecord
	created    []*models.AttendanceRecord
	countCalls int
}

func (m *mockAttendanceRepo) CountAbsences(ctx context.Context, personID int64) (int, error) {
	m.countCalls++
	return m.absences[personID], nil
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	record.ID = int64(len(m.created) + 1)
	m.created = append(m.created, record)
	return nil
}

func (m *mockAttendanceRepo) HistoryByPerson(ctx context.Context, personID int64) ([]models.AttendanceRecord, error) {
	return m.history[personID], nil
}

type mockPersonReader struct {
	persons map[string]*models.Person
}

func (m *mockPersonReader) FindByName(ctx context.Context, name string) (*models.Person, error) {
	p, ok := m.persons[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

type mockAbsenceCache struct {
	stubCache
	deletedPatterns []string
}

func (m *mockAbsenceCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.deletedPatterns = append(m.deletedPatterns, pattern)
	m.stubCache.store = nil
	return nil
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func newAttendanceFixture(absences int) (*mockAttendanceRepo, *mockPersonReader) {
	repo := &mockAttendanceRepo{absences: map[int64]int{1: absences}}
	persons := &mockPersonReader{persons: map[string]*models.Person{
		"Alice": {ID: 1, Name: "Alice", Role: models.RoleStudent, Course: "math"},
	}}
	return repo, persons
}

func TestCheckAbsencesAtThresholdIsWithinLimit(t *testing.T) {
	repo, persons := newAttendanceFixture(10)
	svc := NewAttendanceService(repo, persons, nil, 10, time.Minute, nil, zap.NewNop())

	report, err := svc.CheckAbsences(context.Background(), "Alice", nil)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Absences)
	assert.Equal(t, 10, report.MaxAbsences)
	assert.True(t, report.WithinLimit)
}

func TestCheckAbsencesOverThreshold(t *testing.T) {
	repo, persons := newAttendanceFixture(11)
	svc := NewAttendanceService(repo, persons, nil, 10, time.Minute, nil, zap.NewNop())

	report, err := svc.CheckAbsences(context.Background(), "Alice", nil)
	require.NoError(t, err)
	assert.Equal(t, 11, report.Absences)
	assert.False(t, report.WithinLimit)
}

func TestCheckAbsencesMaxOverride(t *testing.T) {
	repo, persons := newAttendanceFixture(5)
	svc := NewAttendanceService(repo, persons, nil, 10, time.Minute, nil, zap.NewNop())

	report, err := svc.CheckAbsences(context.Background(), "Alice", intPtr(3))
	require.NoError(t, err)
	assert.Equal(t, 3, report.MaxAbsences)
	assert.False(t, report.WithinLimit)
}

func TestCheckAbsencesUnknownPerson(t *testing.T) {
	repo, persons := newAttendanceFixture(0)
	svc := NewAttendanceService(repo, persons, nil, 10, time.Minute, nil, zap.NewNop())

	_, err := svc.CheckAbsences(context.Background(), "Ghost", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCheckAbsencesNotPersisted(t *testing.T) {
	repo := &mockAttendanceRepo{}
	persons := &mockPersonReader{persons: map[string]*models.Person{
		"Draft": {ID: 0, Name: "Draft", Role: models.RoleStudent},
	}}
	svc := NewAttendanceService(repo, persons, nil, 10, time.Minute, nil, zap.NewNop())

	_, err := svc.CheckAbsences(context.Background(), "Draft", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotPersisted.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.countCalls)
}

func TestCheckAbsencesCachesReport(t *testing.T) {
	repo, persons := newAttendanceFixture(2)
	cache := &mockAbsenceCache{}
	svc := NewAttendanceService(repo, persons, cache, 10, time.Minute, nil, zap.NewNop())

	_, err := svc.CheckAbsences(context.Background(), "Alice", nil)
	require.NoError(t, err)
	_, err = svc.CheckAbsences(context.Background(), "Alice", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.countCalls)
}

func TestRecordAbsenceInvalidatesReportCache(t *testing.T) {
	repo, persons := newAttendanceFixture(2)
	cache := &mockAbsenceCache{}
	svc := NewAttendanceService(repo, persons, cache, 10, time.Minute, nil, zap.NewNop())

	_, err := svc.CheckAbsences(context.Background(), "Alice", nil)
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), RecordAttendanceRequest{Name: "Alice", Date: "2026-03-09", Present: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, []string{"absences:1:*"}, cache.deletedPatterns)
}

func TestRecordPresenceKeepsReportCache(t *testing.T) {
	repo, persons := newAttendanceFixture(2)
	cache := &mockAbsenceCache{}
	svc := NewAttendanceService(repo, persons, cache, 10, time.Minute, nil, zap.NewNop())

	_, err := svc.Record(context.Background(), RecordAttendanceRequest{Name: "Alice", Date: "2026-03-09", Present: boolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, cache.deletedPatterns)
}

func TestRecordRejectsBadDate(t *testing.T) {
	repo, persons := newAttendanceFixture(0)
	svc := NewAttendanceService(repo, persons, nil, 10, time.Minute, nil, zap.NewNop())

	_, err := svc.Record(context.Background(), RecordAttendanceRequest{Name: "Alice", Date: "09/03/2026", Present: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestRecordRequiresPresentFlag(t *testing.T) {
	repo, persons := newAttendanceFixture(0)
	svc := NewAttendanceService(repo, persons, nil, 10, time.Minute, nil, zap.NewNop())

	_, err := svc.Record(context.Background(), RecordAttendanceRequest{Name: "Alice", Date: "2026-03-09"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHistoryReturnsLedger(t *testing.T) {
	repo, persons := newAttendanceFixture(0)
	repo.history = map[int64][]models.AttendanceRecord{
		1: {{ID: 2, PersonID: 1, Present: true}, {ID: 1, PersonID: 1, Present: false}},
	}
	svc := NewAttendanceService(repo, persons, nil, 10, time.Minute, nil, zap.NewNop())

	records, err := svc.History(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
