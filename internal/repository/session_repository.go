package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/attendease/attendease-api/internal/models"
)

// SessionRepository provides database access for attendance sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new attendance session. The caller supplies the id; it is
// the session token carried in the scannable payload.
func (r *SessionRepository) Create(ctx context.Context, session *models.AttendanceSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_sessions (id, teacher_id, subject_id, class_section, created_at, is_active) VALUES (:id, :teacher_id, :subject_id, :class_section, :created_at, :is_active)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindActiveByID returns the session only when it exists and is active.
func (r *SessionRepository) FindActiveByID(ctx context.Context, id string) (*models.AttendanceSession, error) {
	const query = `SELECT id, teacher_id, subject_id, class_section, created_at, is_active FROM attendance_sessions WHERE id = $1 AND is_active = TRUE LIMIT 1`
	var session models.AttendanceSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active session: %w", err)
	}
	return &session, nil
}

// ListByTeacher returns all sessions created by the teacher, oldest first.
func (r *SessionRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.AttendanceSession, error) {
	const query = `SELECT id, teacher_id, subject_id, class_section, created_at, is_active FROM attendance_sessions WHERE teacher_id = $1 ORDER BY created_at ASC`
	sessions := []models.AttendanceSession{}
	if err := r.db.SelectContext(ctx, &sessions, query, teacherID); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// FindOwned returns the session only when owned by the given teacher.
func (r *SessionRepository) FindOwned(ctx context.Context, id, teacherID string) (*models.AttendanceSession, error) {
	const query = `SELECT id, teacher_id, subject_id, class_section, created_at, is_active FROM attendance_sessions WHERE id = $1 AND teacher_id = $2 LIMIT 1`
	var session models.AttendanceSession
	if err := r.db.GetContext(ctx, &session, query, id, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find owned session: %w", err)
	}
	return &session, nil
}

// SubjectName resolves the subject name for a session, if the subject row
// still exists.
func (r *SessionRepository) SubjectName(ctx context.Context, subjectID string) (string, error) {
	const query = `SELECT name FROM subjects WHERE id = $1 LIMIT 1`
	var name string
	if err := r.db.GetContext(ctx, &name, query, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("resolve subject name: %w", err)
	}
	return name, nil
}
