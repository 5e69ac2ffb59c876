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

// StudentRepository provides database access for student accounts.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, fullname, email, password_hash, roll_no, course, year, section FROM students WHERE id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// FindByEmail returns a student by email address.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	const query = `SELECT id, fullname, email, password_hash, roll_no, course, year, section FROM students WHERE email = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by email: %w", err)
	}
	return &student, nil
}

// ExistsByEmail checks whether a student with the email already exists.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM students WHERE email = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check student email: %w", err)
	}
	return exists, nil
}

// ExistsByRollNo checks whether the roll number is already taken.
func (r *StudentRepository) ExistsByRollNo(ctx context.Context, rollNo string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM students WHERE roll_no = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, rollNo); err != nil {
		return false, fmt.Errorf("check student roll_no: %w", err)
	}
	return exists, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	const query = `INSERT INTO students (id, fullname, email, password_hash, roll_no, course, year, section) VALUES (:id, :fullname, :email, :password_hash, :roll_no, :course, :year, :section)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "email or roll number already registered")
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
