package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/repositories"
)

// ===== SENTINEL ERRORS =====

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrExamNotFound         = errors.New("exam not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrContentNotFound      = errors.New("content not found")

	ErrDuplicateRegistration = errors.New("user already registered for this exam")
	ErrAlreadyEnrolled       = errors.New("registration already enrolled")
	ErrProfileIncomplete     = errors.New("profile incomplete: a valid 10-digit mobile number is required")
	ErrExamNotActive         = errors.New("exam is not active")
)

// ===== PERMISSION ERRORS =====

// PermissionError indicates the caller is not allowed to perform an action.
type PermissionError struct {
	UserID   uuid.UUID
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID uuid.UUID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

// IsPermissionError reports whether err is a permission failure.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// ===== CONFLICT HELPERS =====

// AsStatusConflict extracts a registration status conflict from err, if any.
func AsStatusConflict(err error) (*repositories.StatusConflictError, bool) {
	var conflict *repositories.StatusConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// AsContentStatusConflict extracts a content status conflict from err, if any.
func AsContentStatusConflict(err error) (*repositories.ContentStatusConflictError, bool) {
	var conflict *repositories.ContentStatusConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// IsNotFound reports whether err maps to a 404 for any resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRegistrationNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrContentNotFound)
}
