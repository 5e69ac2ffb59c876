package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/service"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/response"
)

// AuthHandler wires registration and login endpoints to the identity service.
type AuthHandler struct {
	service *service.IdentityService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.IdentityService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// RegisterTeacher godoc
// @Summary Register teacher account
// @Description Create a teacher account with unique email and employee id
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body service.RegisterTeacherRequest true "Teacher registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /register/teacher [post]
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	var req service.RegisterTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	teacher, err := h.service.RegisterTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "Teacher registered successfully", "teacher_id": teacher.ID})
}

// RegisterStudent godoc
// @Summary Register student account
// @Description Create a student account with unique email and roll number
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body service.RegisterStudentRequest true "Student registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /register/student [post]
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req service.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	student, err := h.service.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "Student registered successfully", "student_id": student.ID})
}

// Login godoc
// @Summary Authenticate account
// @Description Verify credentials for a teacher or student account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	info, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Login successful", "user": info})
}
