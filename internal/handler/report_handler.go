package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/service"
	"github.com/attendease/attendease-api/pkg/response"
)

// ReportHandler wires report and export endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// TeacherRecords godoc
// @Summary Teacher attendance records
// @Description Per-session attendance records with rosters for a teacher
// @Tags Reports
// @Produce json
// @Param teacher_id query string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teacher/attendance-records [get]
func (h *ReportHandler) TeacherRecords(c *gin.Context) {
	records, err := h.service.TeacherRecords(c.Request.Context(), c.Query("teacher_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"records": records})
}

// StudentHistory godoc
// @Summary Student attendance history
// @Description Attendance history rows for a student in scan order
// @Tags Reports
// @Produce json
// @Param student_id query string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/attendance-history [get]
func (h *ReportHandler) StudentHistory(c *gin.Context) {
	history, err := h.service.StudentHistory(c.Request.Context(), c.Query("student_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"history": history})
}

// ExportRoster godoc
// @Summary Export session roster
// @Description Download a session roster as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param teacher_id query string true "Teacher ID"
// @Param session_id query string true "Session ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/attendance-records/export [get]
func (h *ReportHandler) ExportRoster(c *gin.Context) {
	res, err := h.service.ExportRoster(c.Request.Context(), c.Query("teacher_id"), c.Query("session_id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Data(http.StatusOK, res.ContentType, res.Data)
}
