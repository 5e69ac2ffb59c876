package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

// SubjectRepository provides database access for per-teacher subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new instance of SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListByTeacher returns all subjects owned by the teacher in insertion order.
func (r *SubjectRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.SubjectView, error) {
	const query = `SELECT id, name FROM subjects WHERE teacher_id = $1 ORDER BY created_at ASC`
	subjects := []models.SubjectView{}
	if err := r.db.SelectContext(ctx, &subjects, query, teacherID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindOwned returns the subject only when it exists under the given teacher.
func (r *SubjectRepository) FindOwned(ctx context.Context, id, teacherID string) (*models.Subject, error) {
	const query = `SELECT id, name, teacher_id FROM subjects WHERE id = $1 AND teacher_id = $2 LIMIT 1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find owned subject: %w", err)
	}
	return &subject, nil
}

// ExistsByTeacherAndName checks the (teacher, name) uniqueness pair.
func (r *SubjectRepository) ExistsByTeacherAndName(ctx context.Context, teacherID, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM subjects WHERE teacher_id = $1 AND name = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, teacherID, name); err != nil {
		return false, fmt.Errorf("check subject name: %w", err)
	}
	return exists, nil
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	const query = `INSERT INTO subjects (id, name, teacher_id) VALUES (:id, :name, :teacher_id)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "subject already exists")
		}
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}
