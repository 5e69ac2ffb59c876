package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

// AttendanceRepository provides database access for attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create records a mark inside a single transaction: the session must still
// be active at insert time, and the (session_id, student_id) unique
// constraint rejects duplicates. Returns sql.ErrNoRows when no active
// session matches, ErrConflict when the student already marked it, and
// ErrNotFound when the student row does not exist.
func (r *AttendanceRepository) Create(ctx context.Context, mark *models.AttendanceMark) error {
	if mark.ID == "" {
		mark.ID = uuid.NewString()
	}
	if mark.MarkedAt.IsZero() {
		mark.MarkedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mark tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var active bool
	const sessionQuery = `SELECT is_active FROM attendance_sessions WHERE id = $1 LIMIT 1`
	if err := tx.GetContext(ctx, &active, sessionQuery, mark.SessionID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("verify session: %w", err)
	}
	if !active {
		return sql.ErrNoRows
	}

	const insertQuery = `INSERT INTO attendance_marks (id, session_id, student_id, marked_at) VALUES (:id, :session_id, :student_id, :marked_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, mark); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "attendance already marked")
		}
		// The session is verified above, so a tripped FK is the student ref.
		if IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return fmt.Errorf("insert mark: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark tx: %w", err)
	}
	return nil
}

// ExistsBySessionAndStudent checks whether the student already marked the
// session. Pre-check only; the unique constraint is authoritative.
func (r *AttendanceRepository) ExistsBySessionAndStudent(ctx context.Context, sessionID, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM attendance_marks WHERE session_id = $1 AND student_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, sessionID, studentID); err != nil {
		return false, fmt.Errorf("check existing mark: %w", err)
	}
	return exists, nil
}

// RosterBySession returns marked students for a session ordered by mark time.
func (r *AttendanceRepository) RosterBySession(ctx context.Context, sessionID string) ([]models.RosterRow, error) {
	const query = `SELECT st.fullname AS name, st.roll_no, a.marked_at FROM attendance_marks a JOIN students st ON st.id = a.student_id WHERE a.session_id = $1 ORDER BY a.marked_at ASC`
	rows := []models.RosterRow{}
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("session roster: %w", err)
	}
	return rows, nil
}

// HistoryByStudent returns the student's marks joined with session, subject
// and teacher context. Dangling subject/teacher references are read as
// 'Unknown' instead of dropping the row.
func (r *AttendanceRepository) HistoryByStudent(ctx context.Context, studentID string) ([]models.HistoryRow, error) {
	const query = `SELECT ses.created_at, a.marked_at, COALESCE(sub.name, 'Unknown') AS subject, COALESCE(t.fullname, 'Unknown') AS teacher, ses.class_section FROM attendance_marks a JOIN attendance_sessions ses ON ses.id = a.session_id LEFT JOIN subjects sub ON sub.id = ses.subject_id LEFT JOIN teachers t ON t.id = ses.teacher_id WHERE a.student_id = $1 ORDER BY a.marked_at ASC`
	rows := []models.HistoryRow{}
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("student history: %w", err)
	}
	return rows, nil
}
