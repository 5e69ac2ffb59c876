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

// TeacherRepository provides database access for teacher accounts.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new instance of TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByID returns a teacher by identifier.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, fullname, email, password_hash, department, emp_id FROM teachers WHERE id = $1 LIMIT 1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by id: %w", err)
	}
	return &teacher, nil
}

// FindByEmail returns a teacher by email address. Emails are stored
// lowercased; callers normalise before lookup.
func (r *TeacherRepository) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	const query = `SELECT id, fullname, email, password_hash, department, emp_id FROM teachers WHERE email = $1 LIMIT 1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by email: %w", err)
	}
	return &teacher, nil
}

// ExistsByEmail checks whether a teacher with the email already exists.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM teachers WHERE email = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check teacher email: %w", err)
	}
	return exists, nil
}

// ExistsByEmpID checks whether the employee id is already taken.
func (r *TeacherRepository) ExistsByEmpID(ctx context.Context, empID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM teachers WHERE emp_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, empID); err != nil {
		return false, fmt.Errorf("check teacher emp_id: %w", err)
	}
	return exists, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	const query = `INSERT INTO teachers (id, fullname, email, password_hash, department, emp_id) VALUES (:id, :fullname, :email, :password_hash, :department, :emp_id)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "email or employee id already registered")
		}
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}
