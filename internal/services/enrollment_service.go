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

type enrollmentService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	notification NotificationEventService
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, notification NotificationEventService) EnrollmentService {
	return &enrollmentService{
		repo:         repo,
		db:           db,
		logger:       logger,
		notification: notification,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, registrationID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*RegistrationResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "registration", "enroll", "admin role required")
	}

	s.logger.Info("Enrolling registration", "registration_id", registrationID, "admin_id", actorID)

	updated, err := s.enrollOne(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Registration enrolled", "registration_id", registrationID)
	return buildRegistrationResponse(updated), nil
}

// BulkEnroll processes each id independently, in input order. The admin gate
// is checked once up front; afterwards no per-item failure aborts the batch,
// and every input id lands in exactly one of the two result lists. Duplicate
// ids in the input are processed independently (the second occurrence fails
// as already enrolled).
func (s *enrollmentService) BulkEnroll(ctx context.Context, registrationIDs []uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*BulkEnrollmentResponse, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "registration", "enroll", "admin role required")
	}

	s.logger.Info("Bulk enrollment started", "count", len(registrationIDs), "admin_id", actorID)

	response := &BulkEnrollmentResponse{
		Success: make([]uuid.UUID, 0, len(registrationIDs)),
		Failed:  make([]FailedEnrollment, 0),
	}

	for i, id := range registrationIDs {
		// Completed items stay enrolled on cancellation; the remainder is
		// reported without being attempted.
		if err := ctx.Err(); err != nil {
			for _, remaining := range registrationIDs[i:] {
				response.Failed = append(response.Failed, FailedEnrollment{
					RegistrationID: remaining,
					Code:           FailureCancelled,
					Reason:         err.Error(),
				})
			}
			break
		}

		updated, err := s.enrollOne(ctx, id)
		if err != nil {
			response.Failed = append(response.Failed, classifyEnrollmentFailure(id, err))
			continue
		}
		response.Success = append(response.Success, updated.ID)
	}

	s.logger.Info("Bulk enrollment finished",
		"succeeded", len(response.Success),
		"failed", len(response.Failed))

	return response, nil
}

// enrollOne issues the conditional transition to ENROLLED. The store decides
// the outcome; there is no advisory status read.
func (s *enrollmentService) enrollOne(ctx context.Context, registrationID uuid.UUID) (*models.ExamRegistration, error) {
	updated, err := s.repo.Registration().UpdateStatus(ctx, s.db, registrationID,
		models.RegistrationEnrolled, models.EnrollableStatuses()...)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		if conflict, ok := AsStatusConflict(err); ok && conflict.Current == models.RegistrationEnrolled {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.notification.RegistrationEnrolled(ctx, updated)
	return updated, nil
}

func classifyEnrollmentFailure(id uuid.UUID, err error) FailedEnrollment {
	item := FailedEnrollment{RegistrationID: id, Reason: err.Error()}

	switch {
	case err == ErrRegistrationNotFound:
		item.Code = FailureNotFound
	case err == ErrAlreadyEnrolled:
		item.Code = FailureAlreadyEnrolled
	default:
		if _, ok := AsStatusConflict(err); ok {
			item.Code = FailureInvalidState
		} else {
			item.Code = FailureInternal
			item.Reason = fmt.Sprintf("enrollment failed: %v", err)
		}
	}

	return item
}
