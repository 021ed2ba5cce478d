package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/engabdallh/attendance-registry/internal/models"
)

// PersonRepository manages persistence for person records.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs a PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

const personColumns = "id, name, national_id, role, course, department, sec, created_at, updated_at"

// List returns persons matching the provided filters.
func (r *PersonRepository) List(ctx context.Context, filter models.PersonFilter) ([]models.Person, int, error) {
	base := "FROM persons"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Course != "" {
		conditions = append(conditions, fmt.Sprintf("course = $%d", len(args)+1))
		args = append(args, filter.Course)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR national_id LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":        true,
		"national_id": true,
		"role":        true,
		"created_at":  true,
	}
	if sortBy == "" || !allowedSorts[sortBy] {
		sortBy = "id"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", personColumns, base, sortBy, order, size, offset)

	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list persons: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count persons: %w", err)
	}
	return persons, total, nil
}

// All returns the complete roster ordered by identity.
func (r *PersonRepository) All(ctx context.Context) ([]models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM persons ORDER BY id", personColumns)
	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, query); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return persons, nil
}

// FindByID fetches a person by identity.
func (r *PersonRepository) FindByID(ctx context.Context, id int64) (*models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM persons WHERE id = $1", personColumns)
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByName fetches the first person matching the given name. The name
// column carries no uniqueness guarantee; lowest identity wins.
func (r *PersonRepository) FindByName(ctx context.Context, name string) (*models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM persons WHERE name = $1 ORDER BY id LIMIT 1", personColumns)
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, name); err != nil {
		return nil, err
	}
	return &person, nil
}

// Create inserts a new person row and assigns the store-generated identity.
// No idempotence guard: calling twice inserts a second row.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	now := time.Now().UTC()
	person.CreatedAt = now
	person.UpdatedAt = now
	const query = `INSERT INTO persons (name, national_id, role, course, department, sec, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		person.Name, person.NationalID, person.Role, person.Course, person.Department, person.Section,
		person.CreatedAt, person.UpdatedAt,
	).Scan(&person.ID); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// RegisterOpenCourse checks the course gate and inserts the person inside one
// transaction, locking the course row so the gate cannot flip between the
// read and the write. The returned state tells the caller why nothing was
// inserted when it is not CourseStateOpen.
func (r *PersonRepository) RegisterOpenCourse(ctx context.Context, person *models.Person) (models.CourseState, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.CourseStateUnknown, fmt.Errorf("begin register tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var open bool
	err = tx.GetContext(ctx, &open, "SELECT is_open FROM courses WHERE course_name = $1 FOR UPDATE", person.Course)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CourseStateUnknown, nil
		}
		return models.CourseStateUnknown, fmt.Errorf("check course gate: %w", err)
	}
	if !open {
		return models.CourseStateClosed, nil
	}

	now := time.Now().UTC()
	person.CreatedAt = now
	person.UpdatedAt = now
	const insert = `INSERT INTO persons (name, national_id, role, course, department, sec, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := tx.QueryRowxContext(ctx, insert,
		person.Name, person.NationalID, person.Role, person.Course, person.Department, person.Section,
		person.CreatedAt, person.UpdatedAt,
	).Scan(&person.ID); err != nil {
		return models.CourseStateOpen, fmt.Errorf("register person: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.CourseStateOpen, fmt.Errorf("commit register tx: %w", err)
	}
	return models.CourseStateOpen, nil
}

// UpdateEnrollment overwrites the enrollment fields of a person. All three
// columns are always rewritten; omitted values end up stored empty.
func (r *PersonRepository) UpdateEnrollment(ctx context.Context, id int64, course, department, section string) error {
	const query = `UPDATE persons SET course = $2, department = $3, sec = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, course, department, section, time.Now().UTC()); err != nil {
		return fmt.Errorf("update person enrollment: %w", err)
	}
	return nil
}

// Delete removes a person row by identity. Attendance rows referencing the
// person are left in place.
func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM persons WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}
