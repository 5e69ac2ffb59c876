package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type attendanceRepository interface {
	Create(ctx context.Context, mark *models.AttendanceMark) error
	ExistsBySessionAndStudent(ctx context.Context, sessionID, studentID string) (bool, error)
	RosterBySession(ctx context.Context, sessionID string) ([]models.RosterRow, error)
	HistoryByStudent(ctx context.Context, studentID string) ([]models.HistoryRow, error)
}

type activeSessionRepository interface {
	FindActiveByID(ctx context.Context, id string) (*models.AttendanceSession, error)
}

// MarkAttendanceRequest is the student-side scan payload.
type MarkAttendanceRequest struct {
	QRData    string `json:"qr_data" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

// AttendanceService owns the attendance ledger: at most one mark per
// (session, student) pair.
type AttendanceService struct {
	marks     attendanceRepository
	sessions  activeSessionRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(marks attendanceRepository, sessions activeSessionRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{marks: marks, sessions: sessions, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Mark records a student's presence for the session encoded in the scanned
// payload. A repeated scan of the same session by the same student is
// rejected with a conflict, never silently absorbed; callers treat that as
// an "already recorded" signal.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "qr data and student id required")
	}

	payload, err := DecodePayload(req.QRData)
	if err != nil {
		return err
	}

	session, err := s.sessions.FindActiveByID(ctx, payload.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found or expired")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	exists, err := s.marks.ExistsBySessionAndStudent(ctx, session.ID, req.StudentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing mark")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "attendance already marked")
	}

	mark := &models.AttendanceMark{
		SessionID: session.ID,
		StudentID: req.StudentID,
	}

	if err := s.marks.Create(ctx, mark); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found or expired")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark attendance")
	}

	s.metrics.RecordMark()
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, teacherRecordsCacheKey(session.TeacherID), studentHistoryCacheKey(req.StudentID))
	}

	s.logger.Info("attendance marked",
		zap.String("session_id", session.ID),
		zap.String("student_id", req.StudentID),
	)
	return nil
}

// Roster returns marked students for a session ordered by mark time.
func (s *AttendanceService) Roster(ctx context.Context, sessionID string) ([]models.RosterRow, error) {
	rows, err := s.marks.RosterBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return rows, nil
}

// History returns all marks of a student with session context.
func (s *AttendanceService) History(ctx context.Context, studentID string) ([]models.HistoryRow, error) {
	rows, err := s.marks.HistoryByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}
	return rows, nil
}
