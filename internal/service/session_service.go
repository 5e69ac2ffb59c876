package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type sessionTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type sessionSubjectRepository interface {
	FindOwned(ctx context.Context, id, teacherID string) (*models.Subject, error)
}

type sessionRepository interface {
	Create(ctx context.Context, session *models.AttendanceSession) error
}

// codeEncoder renders a serialized payload into a scannable image artifact.
type codeEncoder interface {
	DataURI(payload string) (string, error)
}

// CreateSessionRequest captures fields for starting an attendance session.
type CreateSessionRequest struct {
	TeacherID    string `json:"teacher_id" validate:"required"`
	SubjectID    string `json:"subject_id" validate:"required"`
	ClassSection string `json:"class_section" validate:"required"`
}

// CreateSessionResponse is returned to the teacher starting a session.
type CreateSessionResponse struct {
	SessionID   string             `json:"session_id"`
	QRCode      string             `json:"qr_code"`
	SessionInfo models.SessionInfo `json:"session_info"`
}

// SessionService creates attendance sessions and owns the scannable payload
// codec.
type SessionService struct {
	teachers  sessionTeacherRepository
	subjects  sessionSubjectRepository
	sessions  sessionRepository
	encoder   codeEncoder
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(teachers sessionTeacherRepository, subjects sessionSubjectRepository, sessions sessionRepository, encoder codeEncoder, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{teachers: teachers, subjects: subjects, sessions: sessions, encoder: encoder, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Create starts a session for a teacher-owned subject, persists it as active
// and returns the session id with its rendered code. The subject must belong
// to the requesting teacher, not merely exist.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*CreateSessionResponse, error) {
	req.ClassSection = strings.TrimSpace(req.ClassSection)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "teacher id, subject id and class section required")
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	subject, err := s.subjects.FindOwned(ctx, req.SubjectID, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	session := &models.AttendanceSession{
		ID:           uuid.NewString(),
		TeacherID:    req.TeacherID,
		SubjectID:    req.SubjectID,
		ClassSection: req.ClassSection,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	// The new session must show up in the teacher's records immediately,
	// not after the cached report expires.
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, teacherRecordsCacheKey(req.TeacherID))
	}

	payload := models.SessionPayload{
		SessionID:    session.ID,
		Subject:      subject.Name,
		Teacher:      teacher.FullName,
		ClassSection: req.ClassSection,
	}

	encoded, err := EncodePayload(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode session payload")
	}

	image, err := s.encoder.DataURI(encoded)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render session code")
	}

	s.metrics.RecordSessionCreated()
	s.logger.Info("attendance session created",
		zap.String("session_id", session.ID),
		zap.String("teacher_id", req.TeacherID),
		zap.String("subject_id", req.SubjectID),
	)

	return &CreateSessionResponse{
		SessionID: session.ID,
		QRCode:    image,
		SessionInfo: models.SessionInfo{
			Subject:      subject.Name,
			ClassSection: req.ClassSection,
			Teacher:      teacher.FullName,
		},
	}, nil
}

// EncodePayload serializes the payload into its canonical string form.
// Struct field order fixes the serialization, so the same payload always
// yields the same string.
func EncodePayload(payload models.SessionPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodePayload parses a scanned payload string. A payload that does not
// parse, or that lacks a session id, is a validation failure.
func DecodePayload(raw string) (*models.SessionPayload, error) {
	var payload models.SessionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid session code")
	}
	if payload.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid session code data")
	}
	return &payload, nil
}
