package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engabdallh/attendance-registry/internal/models"
)

func newPersonMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func personRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "national_id", "role", "course", "department", "sec", "created_at", "updated_at"})
}

func TestPersonRepositoryList(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	rows := personRows().
		AddRow(1, "Alice", "1111", models.RoleStudent, "math", "science", "A", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, national_id, role, course, department, sec, created_at, updated_at FROM persons WHERE 1=1 ORDER BY id ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM persons WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	persons, total, err := repo.List(context.Background(), models.PersonFilter{})
	require.NoError(t, err)
	assert.Len(t, persons, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryFindByNameFirstMatch(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, national_id, role, course, department, sec, created_at, updated_at FROM persons WHERE name = $1 ORDER BY id LIMIT 1")).
		WithArgs("Alice").
		WillReturnRows(personRows().AddRow(3, "Alice", "1111", models.RoleStudent, "math", "", "", time.Now(), time.Now()))

	person, err := repo.FindByName(context.Background(), "Alice")
	require.NoError(t, err)
	assert.EqualValues(t, 3, person.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryFindByNameMissing(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectQuery("SELECT id, name, national_id").
		WithArgs("Ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), "Ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectQuery("INSERT INTO persons").
		WithArgs("Alice", "1111", models.RoleStudent, "math", "science", "A", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	person := &models.Person{Name: "Alice", NationalID: "1111", Role: models.RoleStudent, Course: "math", Department: "science", Section: "A"}
	require.False(t, person.Persisted())

	err := repo.Create(context.Background(), person)
	require.NoError(t, err)
	assert.EqualValues(t, 7, person.ID)
	assert.True(t, person.Persisted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryRegisterOpenCourse(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_open FROM courses WHERE course_name = $1 FOR UPDATE")).
		WithArgs("math").
		WillReturnRows(sqlmock.NewRows([]string{"is_open"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO persons").
		WithArgs("Alice", "1111", models.RoleStudent, "math", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	person := &models.Person{Name: "Alice", NationalID: "1111", Role: models.RoleStudent, Course: "math"}
	state, err := repo.RegisterOpenCourse(context.Background(), person)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateOpen, state)
	assert.EqualValues(t, 1, person.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryRegisterUnknownCourse(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT is_open FROM courses").
		WithArgs("history").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	person := &models.Person{Name: "Bob", NationalID: "2222", Role: models.RoleStudent, Course: "history"}
	state, err := repo.RegisterOpenCourse(context.Background(), person)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateUnknown, state)
	assert.False(t, person.Persisted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryRegisterClosedCourse(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT is_open FROM courses").
		WithArgs("math").
		WillReturnRows(sqlmock.NewRows([]string{"is_open"}).AddRow(false))
	mock.ExpectRollback()

	person := &models.Person{Name: "Carl", NationalID: "3333", Role: models.RoleStudent, Course: "math"}
	state, err := repo.RegisterOpenCourse(context.Background(), person)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStateClosed, state)
	assert.False(t, person.Persisted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryUpdateEnrollment(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectExec("UPDATE persons SET course").
		WithArgs(int64(5), "physics", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateEnrollment(context.Background(), 5, "physics", "", "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newPersonMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectExec("DELETE FROM persons").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
