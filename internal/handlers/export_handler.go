package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
)

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ExportRegistrationsCSV streams the exam roster as a CSV download.
func (h *ExportHandler) ExportRegistrationsCSV(c *gin.Context) {
	h.export(c, h.exportService.ExportRegistrationsCSV)
}

// ExportRegistrationsXLSX streams the exam roster as an Excel download.
func (h *ExportHandler) ExportRegistrationsXLSX(c *gin.Context) {
	h.export(c, h.exportService.ExportRegistrationsXLSX)
}

type exportFunc func(ctx context.Context, examID, actorID uuid.UUID, role models.UserRole) (*services.ExportResult, error)

func (h *ExportHandler) export(c *gin.Context, op exportFunc) {
	examID := h.parseUUIDParam(c, "id")
	if examID == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting exam registrations", "exam_id", examID)

	result, err := op(c.Request.Context(), examID, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
