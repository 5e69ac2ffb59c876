package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/export"
)

type reportSessionRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.AttendanceSession, error)
	FindOwned(ctx context.Context, id, teacherID string) (*models.AttendanceSession, error)
	SubjectName(ctx context.Context, subjectID string) (string, error)
}

type reportAttendanceRepository interface {
	RosterBySession(ctx context.Context, sessionID string) ([]models.RosterRow, error)
	HistoryByStudent(ctx context.Context, studentID string) ([]models.HistoryRow, error)
}

type tableExporter interface {
	Render(table export.Table) ([]byte, error)
}

// Export formats accepted by the roster export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportResult carries rendered export bytes with serving metadata.
type ExportResult struct {
	ContentType string
	Filename    string
	Data        []byte
}

// Placeholder used when a joined subject or teacher row no longer resolves.
const unknownPlaceholder = "Unknown"

// ReportService aggregates sessions, marks and identity data into
// teacher-facing records and student-facing histories.
type ReportService struct {
	sessions reportSessionRepository
	marks    reportAttendanceRepository
	cache    *CacheService
	csv      tableExporter
	pdf      tableExporter
	logger   *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(sessions reportSessionRepository, marks reportAttendanceRepository, cache *CacheService, csv, pdf tableExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{sessions: sessions, marks: marks, cache: cache, csv: csv, pdf: pdf, logger: logger}
}

func teacherRecordsCacheKey(teacherID string) string {
	return "reports:teacher:" + teacherID
}

func studentHistoryCacheKey(studentID string) string {
	return "reports:student:" + studentID
}

// TeacherRecords returns one record per session owned by the teacher, each
// with subject name, mark count and the roster ordered by mark time.
// Dangling subject references render as the Unknown placeholder.
func (s *ReportService) TeacherRecords(ctx context.Context, teacherID string) ([]models.SessionRecord, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id required")
	}

	cacheKey := teacherRecordsCacheKey(teacherID)
	var cached []models.SessionRecord
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	sessions, err := s.sessions.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}

	records := make([]models.SessionRecord, 0, len(sessions))
	for _, session := range sessions {
		subjectName, err := s.subjectNameOrUnknown(ctx, session.SubjectID)
		if err != nil {
			return nil, err
		}

		roster, err := s.marks.RosterBySession(ctx, session.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
		}

		students := make([]models.RosterItem, 0, len(roster))
		for _, row := range roster {
			students = append(students, models.RosterItem{
				Name:     row.Name,
				RollNo:   row.RollNo,
				MarkedAt: row.MarkedAt.Format(models.ReportTimeLayout),
			})
		}

		records = append(records, models.SessionRecord{
			SessionID:       session.ID,
			Subject:         subjectName,
			ClassSection:    session.ClassSection,
			Date:            session.CreatedAt.Format(models.ReportDateLayout),
			Time:            session.CreatedAt.Format(models.ReportTimeLayout),
			AttendanceCount: len(students),
			Students:        students,
		})
	}

	_ = s.cache.Set(ctx, cacheKey, records, 0)
	return records, nil
}

// StudentHistory returns one row per mark by the student with session,
// subject and teacher context; dangling references render as Unknown.
func (s *ReportService) StudentHistory(ctx context.Context, studentID string) ([]models.HistoryItem, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id required")
	}

	cacheKey := studentHistoryCacheKey(studentID)
	var cached []models.HistoryItem
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	rows, err := s.marks.HistoryByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}

	history := make([]models.HistoryItem, 0, len(rows))
	for _, row := range rows {
		history = append(history, models.HistoryItem{
			Date:         row.SessionCreatedAt.Format(models.ReportDateLayout),
			Time:         row.SessionCreatedAt.Format(models.ReportTimeLayout),
			Subject:      row.Subject,
			ClassSection: row.ClassSection,
			Teacher:      row.Teacher,
			MarkedAt:     row.MarkedAt.Format(models.ReportTimeLayout),
		})
	}

	_ = s.cache.Set(ctx, cacheKey, history, 0)
	return history, nil
}

// ExportRoster renders a session roster owned by the teacher as CSV or PDF.
func (s *ReportService) ExportRoster(ctx context.Context, teacherID, sessionID, format string) (*ExportResult, error) {
	if teacherID == "" || sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id and session id required")
	}

	session, err := s.sessions.FindOwned(ctx, sessionID, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	subjectName, err := s.subjectNameOrUnknown(ctx, session.SubjectID)
	if err != nil {
		return nil, err
	}

	roster, err := s.marks.RosterBySession(ctx, session.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	table := export.Table{
		Title:   fmt.Sprintf("%s %s %s", subjectName, session.ClassSection, session.CreatedAt.Format(models.ReportDateLayout)),
		Headers: []string{"Name", "Roll No", "Marked At"},
		Rows:    make([][]string, 0, len(roster)),
	}
	for _, row := range roster {
		table.Rows = append(table.Rows, []string{row.Name, row.RollNo, row.MarkedAt.Format(models.ReportTimeLayout)})
	}

	filename := fmt.Sprintf("roster-%s-%s", session.CreatedAt.Format(models.ReportDateLayout), session.ID)

	switch strings.ToLower(format) {
	case ExportFormatCSV, "":
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{ContentType: "text/csv", Filename: filename + ".csv", Data: data}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{ContentType: "application/pdf", Filename: filename + ".pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *ReportService) subjectNameOrUnknown(ctx context.Context, subjectID string) (string, error) {
	name, err := s.sessions.SubjectName(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return unknownPlaceholder, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject")
	}
	return name, nil
}
