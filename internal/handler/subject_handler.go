package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/service"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/response"
)

// SubjectHandler wires the per-teacher subject registry endpoints.
type SubjectHandler struct {
	service *service.SubjectService
}

// NewSubjectHandler creates a new handler.
func NewSubjectHandler(svc *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List godoc
// @Summary List teacher subjects
// @Description List subjects owned by a teacher in creation order
// @Tags Subjects
// @Produce json
// @Param teacher_id query string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teacher/subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.service.List(c.Request.Context(), c.Query("teacher_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"subjects": subjects})
}

// Add godoc
// @Summary Add subject
// @Description Register a subject for a teacher; names are unique per teacher
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.AddSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teacher/subjects [post]
func (h *SubjectHandler) Add(c *gin.Context) {
	var req service.AddSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}

	subject, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "Subject added successfully", "subject_id": subject.ID})
}
