package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
)

type ExamHandler struct {
	BaseHandler
	examService services.ExamService
}

func NewExamHandler(examService services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		examService: examService,
	}
}

// CreateExam creates a new exam in DRAFT status (admin only).
func (h *ExamHandler) CreateExam(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// GetExam returns one exam; non-admins only see ACTIVE exams.
func (h *ExamHandler) GetExam(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// ListExams lists exams; non-admins only see ACTIVE exams.
func (h *ExamHandler) ListExams(c *gin.Context) {
	exams, err := h.examService.List(c.Request.Context(), parseExamFilters(c), h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

// UpdateExam updates exam fields (admin only).
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), id, &req, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// DeleteExam soft-deletes an exam (admin only).
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id, userID, h.currentUserRole(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ActivateExam opens an exam for registration (admin only).
func (h *ExamHandler) ActivateExam(c *gin.Context) {
	h.setExamStatus(c, h.examService.Activate)
}

// DeactivateExam returns an exam to DRAFT (admin only).
func (h *ExamHandler) DeactivateExam(c *gin.Context) {
	h.setExamStatus(c, h.examService.Deactivate)
}

func (h *ExamHandler) setExamStatus(c *gin.Context, op func(ctx context.Context, id, actorID uuid.UUID, role models.UserRole) (*services.ExamResponse, error)) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	exam, err := op(c.Request.Context(), id, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}
