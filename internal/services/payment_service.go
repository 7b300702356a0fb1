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

type paymentService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	notification NotificationEventService
}

func NewPaymentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, notification NotificationEventService) PaymentService {
	return &paymentService{
		repo:         repo,
		db:           db,
		logger:       logger,
		notification: notification,
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, registrationID, actorID uuid.UUID) (*RegistrationResponse, error) {
	s.logger.Info("Initiating payment", "registration_id", registrationID, "user_id", actorID)

	registration, err := s.getOwnedRegistration(ctx, registrationID, actorID, "initiate payment for")
	if err != nil {
		return nil, err
	}

	// Payment cannot start against an exam an admin has since deactivated.
	exam, err := s.repo.Exam().GetByID(ctx, s.db, registration.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if !exam.IsActive() {
		return nil, ErrExamNotActive
	}

	updated, err := s.repo.Registration().UpdateStatus(ctx, s.db, registrationID,
		models.RegistrationPaymentPending, models.RegistrationRegistered)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	s.notification.PaymentInitiated(ctx, updated)

	s.logger.Info("Payment initiated", "registration_id", registrationID)
	return buildRegistrationResponse(updated), nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, registrationID, actorID uuid.UUID) (*RegistrationResponse, error) {
	s.logger.Info("Confirming payment", "registration_id", registrationID, "user_id", actorID)

	if _, err := s.getOwnedRegistration(ctx, registrationID, actorID, "confirm payment for"); err != nil {
		return nil, err
	}

	updated, err := s.repo.Registration().UpdateStatus(ctx, s.db, registrationID,
		models.RegistrationPaid, models.RegistrationPaymentPending)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	s.notification.PaymentConfirmed(ctx, updated)

	s.logger.Info("Payment confirmed", "registration_id", registrationID)
	return buildRegistrationResponse(updated), nil
}

// getOwnedRegistration fetches a registration and enforces ownership. The
// returned snapshot is advisory; the conditional update decides transitions.
func (s *paymentService) getOwnedRegistration(ctx context.Context, registrationID, actorID uuid.UUID, action string) (*models.ExamRegistration, error) {
	registration, err := s.repo.Registration().GetByID(ctx, s.db, registrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	if registration.UserID != actorID {
		return nil, NewPermissionError(actorID, "registration", action, "not owner")
	}
	return registration, nil
}
