package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type subjectRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.SubjectView, error)
	ExistsByTeacherAndName(ctx context.Context, teacherID, name string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
}

// AddSubjectRequest captures fields for registering a subject.
type AddSubjectRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
}

// SubjectService handles the per-teacher subject registry.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// Add registers a subject under the teacher, enforcing (teacher, name)
// uniqueness. The name is trimmed before validation and storage.
func (s *SubjectService) Add(ctx context.Context, req AddSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "teacher id and subject name required")
	}

	exists, err := s.repo.ExistsByTeacherAndName(ctx, req.TeacherID, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject already exists")
	}

	subject := &models.Subject{
		Name:      req.Name,
		TeacherID: req.TeacherID,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// List returns the teacher's subjects in insertion order.
func (s *SubjectService) List(ctx context.Context, teacherID string) ([]models.SubjectView, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id required")
	}
	subjects, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}
