package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type RegistrationFilters struct {
	Status    *models.RegistrationStatus `json:"status"`
	UserID    *uuid.UUID                 `json:"user_id"`
	ExamID    *uuid.UUID                 `json:"exam_id"`
	DateFrom  *time.Time                 `json:"date_from"`
	DateTo    *time.Time                 `json:"date_to"`
	Limit     int                        `json:"limit"`
	Offset    int                        `json:"offset"`
	SortBy    string                     `json:"sort_by"`    // "created_at", "status"
	SortOrder string                     `json:"sort_order"` // "asc", "desc"
}

type ExamFilters struct {
	Status    *models.ExamStatus `json:"status"`
	DateFrom  *time.Time         `json:"date_from"`
	DateTo    *time.Time         `json:"date_to"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"` // "created_at", "title", "start_date"
	SortOrder string             `json:"sort_order"`
}

type UserFilters struct {
	Role      *models.UserRole `json:"role"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`
	SortOrder string           `json:"sort_order"`
}

type ContentFilters struct {
	Type      *models.ContentType   `json:"type"`
	Status    *models.ContentStatus `json:"status"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// ===== TRANSITION ERRORS =====

// StatusConflictError is returned by the conditional status update when the
// stored status is outside the expected set. The record is left unmodified.
type StatusConflictError struct {
	ID       uuid.UUID
	Current  models.RegistrationStatus
	Expected []models.RegistrationStatus
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("registration %s status conflict: current %s, expected one of %v",
		e.ID, e.Current, e.Expected)
}

// ContentStatusConflictError is the publish-flow counterpart of
// StatusConflictError.
type ContentStatusConflictError struct {
	ID       uuid.UUID
	Current  models.ContentStatus
	Expected []models.ContentStatus
}

func (e *ContentStatusConflictError) Error() string {
	return fmt.Sprintf("content %s status conflict: current %s, expected one of %v",
		e.ID, e.Current, e.Expected)
}
