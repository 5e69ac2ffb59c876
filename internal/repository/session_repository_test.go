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

	"github.com/attendease/attendease-api/internal/models"
)

func newSessionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSessionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO attendance_sessions").
		WithArgs("sess-1", "t-1", "sub-1", "CS-A", sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.AttendanceSession{
		ID:           "sess-1",
		TeacherID:    "t-1",
		SubjectID:    "sub-1",
		ClassSection: "CS-A",
		CreatedAt:    time.Now(),
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindActiveByID(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "subject_id", "class_section", "created_at", "is_active"}).
		AddRow("sess-1", "t-1", "sub-1", "CS-A", time.Now(), true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, subject_id, class_section, created_at, is_active FROM attendance_sessions WHERE id = $1 AND is_active = TRUE LIMIT 1")).
		WithArgs("sess-1").
		WillReturnRows(rows)

	session, err := repo.FindActiveByID(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", session.TeacherID)
	assert.True(t, session.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindActiveByIDMissing(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, subject_id, class_section, created_at, is_active FROM attendance_sessions WHERE id = $1 AND is_active = TRUE LIMIT 1")).
		WithArgs("sess-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByID(context.Background(), "sess-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "subject_id", "class_section", "created_at", "is_active"}).
		AddRow("sess-1", "t-1", "sub-1", "CS-A", now, true).
		AddRow("sess-2", "t-1", "sub-2", "CS-B", now.Add(time.Hour), true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, subject_id, class_section, created_at, is_active FROM attendance_sessions WHERE teacher_id = $1 ORDER BY created_at ASC")).
		WithArgs("t-1").
		WillReturnRows(rows)

	sessions, err := repo.ListByTeacher(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sess-1", sessions[0].ID)
	assert.Equal(t, "sess-2", sessions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositorySubjectName(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM subjects WHERE id = $1 LIMIT 1")).
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Algebra"))

	name, err := repo.SubjectName(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
