package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
	"github.com/exam-portal/registration-service/internal/validator"
)

type contentService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	validator    *validator.Validator
	notification NotificationEventService
}

func NewContentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notification NotificationEventService) ContentService {
	return &contentService{
		repo:         repo,
		db:           db,
		logger:       logger,
		validator:    validator,
		notification: notification,
	}
}

func (s *contentService) Create(ctx context.Context, req *CreateContentRequest, actorID uuid.UUID, actorRole models.UserRole) (*ContentResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "content", "create", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	content := &models.Content{
		ID:      uuid.New(),
		Type:    req.Type,
		Title:   req.Title,
		Body:    req.Body,
		Status:  models.ContentDraft,
		Meta:    req.Meta,
		SEOMeta: req.SEOMeta,
	}

	if err := s.repo.Content().Create(ctx, s.db, content); err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	s.logger.Info("Content created", "content_id", content.ID, "type", content.Type)
	return &ContentResponse{Content: content}, nil
}

func (s *contentService) GetByID(ctx context.Context, id uuid.UUID, viewerRole models.UserRole) (*ContentResponse, error) {
	content, err := s.repo.Content().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	// Drafts are only visible to admins.
	if !content.IsPublished() && viewerRole != models.RoleAdmin {
		return nil, ErrContentNotFound
	}

	return &ContentResponse{Content: content}, nil
}

func (s *contentService) Update(ctx context.Context, id uuid.UUID, req *UpdateContentRequest, actorID uuid.UUID, actorRole models.UserRole) (*ContentResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "content", "update", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	content, err := s.repo.Content().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	if req.Title != nil {
		content.Title = *req.Title
	}
	if req.Body != nil {
		content.Body = *req.Body
	}
	if req.Meta != nil {
		content.Meta = req.Meta
	}
	if req.SEOMeta != nil {
		content.SEOMeta = req.SEOMeta
	}

	if err := s.repo.Content().Update(ctx, s.db, content); err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	s.logger.Info("Content updated", "content_id", id)
	return &ContentResponse{Content: content}, nil
}

func (s *contentService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) error {
	if actorRole != models.RoleAdmin {
		return NewPermissionError(actorID, "content", "delete", "admin role required")
	}

	if err := s.repo.Content().Delete(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrContentNotFound
		}
		return fmt.Errorf("failed to delete content: %w", err)
	}

	s.logger.Info("Content deleted", "content_id", id)
	return nil
}

func (s *contentService) List(ctx context.Context, filters repositories.ContentFilters, viewerRole models.UserRole) (*ContentListResponse, error) {
	// Public listings are pinned to PUBLISHED regardless of requested filter.
	if viewerRole != models.RoleAdmin {
		published := models.ContentPublished
		filters.Status = &published
	}

	contents, total, err := s.repo.Content().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}

	responses := make([]*ContentResponse, 0, len(contents))
	for _, content := range contents {
		responses = append(responses, &ContentResponse{Content: content})
	}

	return &ContentListResponse{
		Contents: responses,
		Total:    total,
		Page:     pageFromFilters(filters.Offset, filters.Limit),
		Size:     filters.Limit,
	}, nil
}

// Publish moves DRAFT -> PUBLISHED through the conditional status update, so
// a concurrent publish of the same draft surfaces as a conflict rather than
// a silent double-publish.
func (s *contentService) Publish(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ContentResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "content", "publish", "admin role required")
	}

	content, err := s.repo.Content().UpdateStatus(ctx, s.db, id,
		models.ContentPublished, models.ContentDraft)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	s.notification.ContentPublished(ctx, content)

	s.logger.Info("Content published", "content_id", id)
	return &ContentResponse{Content: content}, nil
}

func (s *contentService) Unpublish(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ContentResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "content", "unpublish", "admin role required")
	}

	content, err := s.repo.Content().UpdateStatus(ctx, s.db, id,
		models.ContentDraft, models.ContentPublished)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	s.logger.Info("Content unpublished", "content_id", id)
	return &ContentResponse{Content: content}, nil
}
