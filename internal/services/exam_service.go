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

type examService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewExamService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ExamService {
	return &examService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *examService) Create(ctx context.Context, req *CreateExamRequest, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "exam", "create", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().ValidateExamDates(req.StartDate, req.EndDate); len(errs) > 0 {
		return nil, errs
	}

	exam := &models.Exam{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Fee:         req.Fee,
		Status:      models.ExamDraft,
	}

	if err := s.repo.Exam().Create(ctx, s.db, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Info("Exam created", "exam_id", exam.ID, "title", exam.Title)
	return buildExamResponse(exam), nil
}

func (s *examService) GetByID(ctx context.Context, id uuid.UUID, viewerRole models.UserRole) (*ExamResponse, error) {
	exam, err := s.repo.Exam().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	// Drafts are indistinguishable from missing exams to non-admins.
	if !exam.IsActive() && viewerRole != models.RoleAdmin {
		return nil, ErrExamNotFound
	}

	return buildExamResponse(exam), nil
}

func (s *examService) Update(ctx context.Context, id uuid.UUID, req *UpdateExamRequest, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "exam", "update", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	applyExamUpdates(exam, req)

	if errs := s.validator.GetBusinessValidator().ValidateExamDates(exam.StartDate, exam.EndDate); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Exam().Update(ctx, s.db, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}

	s.logger.Info("Exam updated", "exam_id", id)
	return buildExamResponse(exam), nil
}

func (s *examService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) error {
	if actorRole != models.RoleAdmin {
		return NewPermissionError(actorID, "exam", "delete", "admin role required")
	}

	if err := s.repo.Exam().Delete(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrExamNotFound
		}
		return fmt.Errorf("failed to delete exam: %w", err)
	}

	s.logger.Info("Exam deleted", "exam_id", id)
	return nil
}

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters, viewerRole models.UserRole) (*ExamListResponse, error) {
	// Non-admin listings are pinned to ACTIVE regardless of requested filter.
	if viewerRole != models.RoleAdmin {
		active := models.ExamActive
		filters.Status = &active
	}

	exams, total, err := s.repo.Exam().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	responses := make([]*ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, buildExamResponse(exam))
	}

	return &ExamListResponse{
		Exams: responses,
		Total: total,
		Page:  pageFromFilters(filters.Offset, filters.Limit),
		Size:  filters.Limit,
	}, nil
}

func (s *examService) Activate(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error) {
	return s.setStatus(ctx, id, models.ExamActive, actorID, actorRole)
}

func (s *examService) Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error) {
	return s.setStatus(ctx, id, models.ExamDraft, actorID, actorRole)
}

func (s *examService) setStatus(ctx context.Context, id uuid.UUID, status models.ExamStatus, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "exam", "change status of", "admin role required")
	}

	if err := s.repo.Exam().UpdateStatus(ctx, s.db, id, status); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to update exam status: %w", err)
	}

	exam, err := s.repo.Exam().GetByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload exam: %w", err)
	}

	s.logger.Info("Exam status changed", "exam_id", id, "status", status)
	return buildExamResponse(exam), nil
}

func applyExamUpdates(exam *models.Exam, req *UpdateExamRequest) {
	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = req.Description
	}
	if req.StartDate != nil {
		exam.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		exam.EndDate = *req.EndDate
	}
	if req.Fee != nil {
		exam.Fee = *req.Fee
	}
}

func buildExamResponse(exam *models.Exam) *ExamResponse {
	return &ExamResponse{
		Exam:               exam,
		IsRegistrationOpen: exam.IsActive(),
	}
}
