package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/engabdallh/attendance-registry/internal/models"
)

// CourseRepository manages the course rows backing the registration gate.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// UpsertOpen creates the course row with is_open = true, or reopens an
// existing one. Opening an already-open course is a no-op success.
func (r *CourseRepository) UpsertOpen(ctx context.Context, name string) error {
	const query = `INSERT INTO courses (course_name, is_open) VALUES ($1, true)
        ON CONFLICT (course_name) DO UPDATE SET is_open = true`
	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("open course: %w", err)
	}
	return nil
}

// SetOpenFlag flips the open flag of an existing course and reports how many
// rows were touched. A nonexistent course yields zero rows, not an error.
func (r *CourseRepository) SetOpenFlag(ctx context.Context, name string, open bool) (int64, error) {
	result, err := r.db.ExecContext(ctx, "UPDATE courses SET is_open = $2 WHERE course_name = $1", name, open)
	if err != nil {
		return 0, fmt.Errorf("set course flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set course flag rows: %w", err)
	}
	return affected, nil
}

// GetOpenFlag returns the stored open flag, or nil when no row exists.
func (r *CourseRepository) GetOpenFlag(ctx context.Context, name string) (*bool, error) {
	var open bool
	err := r.db.GetContext(ctx, &open, "SELECT is_open FROM courses WHERE course_name = $1", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course flag: %w", err)
	}
	return &open, nil
}

// List returns every known course with its gate state.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, "SELECT course_name, is_open FROM courses ORDER BY course_name"); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
