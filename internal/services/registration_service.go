package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
)

type registrationService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	notification NotificationEventService
}

func NewRegistrationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, notification NotificationEventService) RegistrationService {
	return &registrationService{
		repo:         repo,
		db:           db,
		logger:       logger,
		notification: notification,
	}
}

func (s *registrationService) Register(ctx context.Context, userID, examID uuid.UUID) (*RegistrationResponse, error) {
	s.logger.Info("Registering user for exam", "user_id", userID, "exam_id", examID)

	user, err := s.repo.User().GetByID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsProfileComplete() {
		return nil, ErrProfileIncomplete
	}

	exam, err := s.repo.Exam().GetByID(ctx, s.db, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if !exam.IsActive() {
		return nil, ErrExamNotActive
	}

	// Advisory fast path; the (user_id, exam_id) unique index decides.
	if _, err := s.repo.Registration().GetByUserAndExam(ctx, s.db, userID, examID); err == nil {
		return nil, ErrDuplicateRegistration
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}

	registration := models.NewExamRegistration(userID, examID)
	if err := s.repo.Registration().Create(ctx, s.db, registration); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.notification.RegistrationCreated(ctx, registration)

	s.logger.Info("Registration created", "registration_id", registration.ID)
	return buildRegistrationResponse(registration), nil
}

func (s *registrationService) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*RegistrationResponse, error) {
	registration, err := s.repo.Registration().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	// Owners and admins only.
	if registration.UserID != actorID && actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "registration", "read", "not owner")
	}

	return buildRegistrationResponse(registration), nil
}

func (s *registrationService) GetUserRegistrations(ctx context.Context, userID uuid.UUID, filters repositories.RegistrationFilters) (*RegistrationListResponse, error) {
	registrations, total, err := s.repo.Registration().GetByUser(ctx, s.db, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	responses := make([]*RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		responses = append(responses, buildRegistrationResponse(registration))
	}

	return &RegistrationListResponse{
		Registrations: responses,
		Total:         total,
		Page:          pageFromFilters(filters.Offset, filters.Limit),
		Size:          filters.Limit,
	}, nil
}

func (s *registrationService) GetExamRegistrations(ctx context.Context, examID uuid.UUID, filters repositories.RegistrationFilters, actorID uuid.UUID, actorRole models.UserRole) (*ExamRegistrationListResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "registration", "list", "admin role required")
	}

	if _, err := s.repo.Exam().GetByID(ctx, s.db, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	registrations, total, err := s.repo.Registration().GetByExam(ctx, s.db, examID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam registrations: %w", err)
	}

	rows := make([]*ExamRegistrationRow, 0, len(registrations))
	for _, registration := range registrations {
		rows = append(rows, &ExamRegistrationRow{
			RegistrationID: registration.ID,
			Status:         registration.Status,
			RegisteredAt:   registration.CreatedAt,
			UserID:         registration.UserID,
			UserName:       registration.User.Name,
			UserEmail:      registration.User.Email,
			UserMobile:     registration.User.Mobile,
		})
	}

	return &ExamRegistrationListResponse{
		Registrations: rows,
		Total:         total,
		Page:          pageFromFilters(filters.Offset, filters.Limit),
		Size:          filters.Limit,
	}, nil
}

func (s *registrationService) GetStatusSummary(ctx context.Context, examID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*RegistrationStatusSummary, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "registration", "summarize", "admin role required")
	}

	if _, err := s.repo.Exam().GetByID(ctx, s.db, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	counts, err := s.repo.Registration().GetStatusCounts(ctx, s.db, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	return &RegistrationStatusSummary{ExamID: examID, Counts: counts, Total: total}, nil
}

func pageFromFilters(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
