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

type ContentHandler struct {
	BaseHandler
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
	}
}

// CreateContent creates content in DRAFT status (admin only).
func (h *ContentHandler) CreateContent(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	content, err := h.contentService.Create(c.Request.Context(), &req, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, content)
}

// GetContent returns one item; non-admins only see PUBLISHED content.
func (h *ContentHandler) GetContent(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}

	content, err := h.contentService.GetByID(c.Request.Context(), id, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}

// ListContent lists content; non-admins only see PUBLISHED items.
func (h *ContentHandler) ListContent(c *gin.Context) {
	contents, err := h.contentService.List(c.Request.Context(), parseContentFilters(c), h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contents)
}

// UpdateContent updates fields on a content item (admin only).
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	content, err := h.contentService.Update(c.Request.Context(), id, &req, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}

// DeleteContent soft-deletes a content item (admin only).
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.contentService.Delete(c.Request.Context(), id, userID, h.currentUserRole(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PublishContent moves DRAFT -> PUBLISHED (admin only).
func (h *ContentHandler) PublishContent(c *gin.Context) {
	h.setContentStatus(c, h.contentService.Publish)
}

// UnpublishContent moves PUBLISHED -> DRAFT (admin only).
func (h *ContentHandler) UnpublishContent(c *gin.Context) {
	h.setContentStatus(c, h.contentService.Unpublish)
}

func (h *ContentHandler) setContentStatus(c *gin.Context, op func(ctx context.Context, id, actorID uuid.UUID, role models.UserRole) (*services.ContentResponse, error)) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	content, err := op(c.Request.Context(), id, userID, h.currentUserRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}
