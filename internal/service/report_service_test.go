package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/export"
)

type mockReportSessionRepo struct {
	sessions     []models.AttendanceSession
	owned        *models.AttendanceSession
	subjectNames map[string]string
}

func (m *mockReportSessionRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.AttendanceSession, error) {
	return m.sessions, nil
}

func (m *mockReportSessionRepo) FindOwned(ctx context.Context, id, teacherID string) (*models.AttendanceSession, error) {
	if m.owned == nil || m.owned.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.owned, nil
}

func (m *mockReportSessionRepo) SubjectName(ctx context.Context, subjectID string) (string, error) {
	name, ok := m.subjectNames[subjectID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return name, nil
}

type mockReportAttendanceRepo struct {
	rosters map[string][]models.RosterRow
	history []models.HistoryRow
}

func (m *mockReportAttendanceRepo) RosterBySession(ctx context.Context, sessionID string) ([]models.RosterRow, error) {
	return m.rosters[sessionID], nil
}

func (m *mockReportAttendanceRepo) HistoryByStudent(ctx context.Context, studentID string) ([]models.HistoryRow, error) {
	return m.history, nil
}

func newReportService(sessions *mockReportSessionRepo, marks *mockReportAttendanceRepo) *ReportService {
	return NewReportService(sessions, marks, nil, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())
}

func TestReportServiceTeacherRecords(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	markedAt := time.Date(2026, 3, 14, 9, 35, 12, 0, time.UTC)
	sessions := &mockReportSessionRepo{
		sessions: []models.AttendanceSession{
			{ID: "sess-1", TeacherID: "t-1", SubjectID: "sub-1", ClassSection: "CS-A", CreatedAt: createdAt, IsActive: true},
			{ID: "sess-2", TeacherID: "t-1", SubjectID: "sub-gone", ClassSection: "CS-B", CreatedAt: createdAt, IsActive: true},
		},
		subjectNames: map[string]string{"sub-1": "Algebra"},
	}
	marks := &mockReportAttendanceRepo{rosters: map[string][]models.RosterRow{
		"sess-1": {
			{Name: "John Doe", RollNo: "42", MarkedAt: markedAt},
			{Name: "Mary Major", RollNo: "43", MarkedAt: markedAt.Add(time.Minute)},
		},
	}}
	svc := newReportService(sessions, marks)

	records, err := svc.TeacherRecords(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "sess-1", first.SessionID)
	assert.Equal(t, "Algebra", first.Subject)
	assert.Equal(t, "2026-03-14", first.Date)
	assert.Equal(t, "09:30:00", first.Time)
	assert.Equal(t, 2, first.AttendanceCount)
	require.Len(t, first.Students, 2)
	assert.Equal(t, "John Doe", first.Students[0].Name)
	assert.Equal(t, "09:35:12", first.Students[0].MarkedAt)

	second := records[1]
	assert.Equal(t, "Unknown", second.Subject)
	assert.Equal(t, 0, second.AttendanceCount)
	assert.Empty(t, second.Students)
}

func TestReportServiceTeacherRecordsRequiresID(t *testing.T) {
	svc := newReportService(&mockReportSessionRepo{}, &mockReportAttendanceRepo{})

	_, err := svc.TeacherRecords(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceStudentHistory(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	markedAt := createdAt.Add(5 * time.Minute)
	marks := &mockReportAttendanceRepo{history: []models.HistoryRow{
		{SessionCreatedAt: createdAt, MarkedAt: markedAt, Subject: "Algebra", Teacher: "Jane Roe", ClassSection: "CS-A"},
		{SessionCreatedAt: createdAt, MarkedAt: markedAt, Subject: "Unknown", Teacher: "Unknown", ClassSection: "CS-B"},
	}}
	svc := newReportService(&mockReportSessionRepo{}, marks)

	history, err := svc.StudentHistory(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-03-14", history[0].Date)
	assert.Equal(t, "09:35:00", history[0].MarkedAt)
	assert.Equal(t, "Jane Roe", history[0].Teacher)
	assert.Equal(t, "Unknown", history[1].Subject)
}

func TestReportServiceExportRosterCSV(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	sessions := &mockReportSessionRepo{
		owned:        &models.AttendanceSession{ID: "sess-1", TeacherID: "t-1", SubjectID: "sub-1", ClassSection: "CS-A", CreatedAt: createdAt},
		subjectNames: map[string]string{"sub-1": "Algebra"},
	}
	marks := &mockReportAttendanceRepo{rosters: map[string][]models.RosterRow{
		"sess-1": {{Name: "John Doe", RollNo: "42", MarkedAt: createdAt.Add(time.Minute)}},
	}}
	svc := newReportService(sessions, marks)

	res, err := svc.ExportRoster(context.Background(), "t-1", "sess-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.Equal(t, "roster-2026-03-14-sess-1.csv", res.Filename)

	body := string(res.Data)
	assert.True(t, strings.Contains(body, "John Doe"))
	assert.True(t, strings.Contains(body, "42"))
	assert.True(t, strings.Contains(body, "09:31:00"))
}

func TestReportServiceExportRosterPDF(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	sessions := &mockReportSessionRepo{
		owned:        &models.AttendanceSession{ID: "sess-1", TeacherID: "t-1", SubjectID: "sub-1", CreatedAt: createdAt},
		subjectNames: map[string]string{"sub-1": "Algebra"},
	}
	svc := newReportService(sessions, &mockReportAttendanceRepo{})

	res, err := svc.ExportRoster(context.Background(), "t-1", "sess-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.NotEmpty(t, res.Data)
}

func TestReportServiceExportRosterNotOwned(t *testing.T) {
	svc := newReportService(&mockReportSessionRepo{}, &mockReportAttendanceRepo{})

	_, err := svc.ExportRoster(context.Background(), "t-1", "sess-9", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceExportRosterBadFormat(t *testing.T) {
	sessions := &mockReportSessionRepo{
		owned:        &models.AttendanceSession{ID: "sess-1", TeacherID: "t-1", SubjectID: "sub-1", CreatedAt: time.Now()},
		subjectNames: map[string]string{"sub-1": "Algebra"},
	}
	svc := newReportService(sessions, &mockReportAttendanceRepo{})

	_, err := svc.ExportRoster(context.Background(), "t-1", "sess-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
