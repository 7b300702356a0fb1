package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
)

// AdminRegistrationHandler serves the admin roster views of an exam.
type AdminRegistrationHandler struct {
	BaseHandler
	registrationService services.RegistrationService
}

func NewAdminRegistrationHandler(registrationService services.RegistrationService, logger utils.Logger) *AdminRegistrationHandler {
	return &AdminRegistrationHandler{
		BaseHandler:         NewBaseHandler(logger),
		registrationService: registrationService,
	}
}

// ListExamRegistrations lists an exam's registrations joined with user details.
func (h *AdminRegistrationHandler) ListExamRegistrations(c *gin.Context) {
	examID := h.parseUUIDParam(c, "id")
	if examID == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	registrations, err := h.registrationService.GetExamRegistrations(
		c.Request.Context(), examID, parseRegistrationFilters(c), userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registrations)
}

// GetStatusSummary returns per-status registration counts for an exam.
func (h *AdminRegistrationHandler) GetStatusSummary(c *gin.Context) {
	examID := h.parseUUIDParam(c, "id")
	if examID == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.registrationService.GetStatusSummary(
		c.Request.Context(), examID, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
