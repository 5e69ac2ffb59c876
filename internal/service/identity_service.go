package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

// Shape required of account emails: local part, domain with a dot, 2+ letter TLD.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type teacherAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmpID(ctx context.Context, empID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type studentAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRollNo(ctx context.Context, rollNo string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

// RegisterTeacherRequest captures teacher registration fields.
type RegisterTeacherRequest struct {
	FullName   string `json:"fullname" validate:"required"`
	Email      string `json:"email" validate:"required,account_email"`
	Password   string `json:"password" validate:"required"`
	Department string `json:"department" validate:"required"`
	EmpID      string `json:"emp_id" validate:"required"`
}

// RegisterStudentRequest captures student registration fields.
type RegisterStudentRequest struct {
	FullName string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,account_email"`
	Password string `json:"password" validate:"required"`
	RollNo   string `json:"roll_no" validate:"required"`
	Course   string `json:"course" validate:"required"`
	Year     string `json:"year" validate:"required"`
	Section  string `json:"section" validate:"required"`
}

// LoginRequest captures credentials for either account type.
type LoginRequest struct {
	Type     string `json:"type" validate:"required,oneof=teacher student"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// IdentityService handles account registration and credential verification.
type IdentityService struct {
	teachers  teacherAccountRepository
	students  studentAccountRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIdentityService constructs an IdentityService instance.
func NewIdentityService(teachers teacherAccountRepository, students studentAccountRepository, validate *validator.Validate, logger *zap.Logger) *IdentityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &IdentityService{teachers: teachers, students: students, validator: validate, logger: logger}
	svc.validator.RegisterValidation("account_email", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return emailPattern.MatchString(fl.Field().String())
	})
	return svc
}

// RegisterTeacher stores a new teacher account. The email is lowercased
// before the uniqueness check and storage; the password is stored only as a
// bcrypt hash.
func (s *IdentityService) RegisterTeacher(ctx context.Context, req RegisterTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher registration payload")
	}

	req.Email = strings.ToLower(req.Email)

	exists, err := s.teachers.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	exists, err = s.teachers.ExistsByEmpID(ctx, req.EmpID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee id already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	teacher := &models.Teacher{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Department:   req.Department,
		EmpID:        req.EmpID,
	}

	if err := s.teachers.Create(ctx, teacher); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// RegisterStudent stores a new student account, keyed on email and roll number.
func (s *IdentityService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student registration payload")
	}

	req.Email = strings.ToLower(req.Email)

	exists, err := s.students.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	exists, err = s.students.ExistsByRollNo(ctx, req.RollNo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "roll number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		RollNo:       req.RollNo,
		Course:       req.Course,
		Year:         req.Year,
		Section:      req.Section,
	}

	if err := s.students.Create(ctx, student); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Login verifies credentials for the given account type and returns the
// public identity view. The stored hash never leaves this service.
func (s *IdentityService) Login(ctx context.Context, req LoginRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	email := strings.ToLower(req.Email)

	var (
		id       string
		fullName string
		hash     string
	)

	switch req.Type {
	case models.AccountTypeTeacher:
		teacher, err := s.teachers.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher")
		}
		id, fullName, hash = teacher.ID, teacher.FullName, teacher.PasswordHash
	case models.AccountTypeStudent:
		student, err := s.students.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
		}
		id, fullName, hash = student.ID, student.FullName, student.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}

	return &models.UserInfo{
		ID:       id,
		FullName: fullName,
		Email:    email,
		Type:     req.Type,
	}, nil
}
