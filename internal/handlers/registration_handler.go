package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
)

type RegistrationHandler struct {
	BaseHandler
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService, logger utils.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler:         NewBaseHandler(logger),
		registrationService: registrationService,
	}
}

// Register creates a registration for the caller in REGISTERED status.
func (h *RegistrationHandler) Register(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering for exam", "exam_id", req.ExamID)

	registration, err := h.registrationService.Register(c.Request.Context(), userID, req.ExamID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

// GetRegistration returns one registration; owners and admins only.
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	registration, err := h.registrationService.GetByID(c.Request.Context(), id, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}
