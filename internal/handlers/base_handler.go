package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
	"github.com/exam-portal/registration-service/internal/validator"
)

// BaseHandler carries the shared handler plumbing: logging and the service
// error to HTTP status translation.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// LogRequest logs with the request-scoped logger when present.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

// parseUUIDParam reads a uuid path parameter, responding with 400 on failure.
// Callers must return when uuid.Nil comes back.
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) uuid.UUID {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: err.Error(),
		})
		return uuid.Nil
	}
	return id
}

// currentUserID reads the authenticated user id set by the auth middleware.
func (h *BaseHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid user identity"})
		return uuid.Nil, false
	}
	return id, true
}

// currentUserRole reads the authenticated role; defaults to USER when absent
// so public endpoints can share handlers with authenticated ones.
func (h *BaseHandler) currentUserRole(c *gin.Context) models.UserRole {
	if value, exists := c.Get("user_role"); exists {
		if role, ok := value.(models.UserRole); ok {
			return role
		}
	}
	return models.RoleUser
}

// handleServiceError translates the service error taxonomy to HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	if conflict, ok := services.AsStatusConflict(err); ok {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Registration status conflict",
			Details: gin.H{
				"registration_id": conflict.ID,
				"current_status":  conflict.Current,
				"expected":        conflict.Expected,
			},
		})
		return
	}
	if conflict, ok := services.AsContentStatusConflict(err); ok {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Content status conflict",
			Details: gin.H{
				"content_id":     conflict.ID,
				"current_status": conflict.Current,
				"expected":       conflict.Expected,
			},
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case services.IsPermissionError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrDuplicateRegistration),
		errors.Is(err, services.ErrAlreadyEnrolled):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrProfileIncomplete),
		errors.Is(err, services.ErrExamNotActive):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	default:
		utils.FromContext(c, h.logger).Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
