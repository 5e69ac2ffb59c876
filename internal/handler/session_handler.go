package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/service"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/response"
)

// SessionHandler wires the QR session endpoint.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// GenerateQR godoc
// @Summary Start attendance session
// @Description Create an attendance session and return its scannable QR code
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/generate-qr [post]
func (h *SessionHandler) GenerateQR(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}
