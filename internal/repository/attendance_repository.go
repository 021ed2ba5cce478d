package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/engabdallh/attendance-registry/internal/models"
)

// AttendanceRepository reads and appends the per-person attendance ledger.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CountAbsences counts attendance rows with present = false for the person,
// over the full recorded history.
func (r *AttendanceRepository) CountAbsences(ctx context.Context, personID int64) (int, error) {
	var absences int
	const query = `SELECT COUNT(*) FROM attendance WHERE person_id = $1 AND present = false`
	if err := r.db.GetContext(ctx, &absences, query, personID); err != nil {
		return 0, fmt.Errorf("count absences: %w", err)
	}
	return absences, nil
}

// Create appends one presence/absence fact.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	const query = `INSERT INTO attendance (person_id, date, present) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, record.PersonID, record.Date, record.Present).Scan(&record.ID); err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}
	return nil
}

// HistoryByPerson returns the person's attendance facts, newest first.
func (r *AttendanceRepository) HistoryByPerson(ctx context.Context, personID int64) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	const query = `SELECT id, person_id, date, present FROM attendance WHERE person_id = $1 ORDER BY date DESC, id DESC`
	if err := r.db.SelectContext(ctx, &records, query, personID); err != nil {
		return nil, fmt.Errorf("attendance history: %w", err)
	}
	return records, nil
}
