package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// Enroll moves a single registration to ENROLLED (admin only).
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Enrolling registration", "registration_id", id)

	registration, err := h.enrollmentService.Enroll(c.Request.Context(), id, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// BulkEnroll enrolls a batch of registrations with partial-success semantics.
// The response always reports every input id; HTTP 200 covers mixed outcomes.
func (h *EnrollmentHandler) BulkEnroll(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if len(req.RegistrationIDs) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "registration_ids must not be empty",
		})
		return
	}

	h.LogRequest(c, "Bulk enrolling registrations", "count", len(req.RegistrationIDs))

	result, err := h.enrollmentService.BulkEnroll(c.Request.Context(), req.RegistrationIDs, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
