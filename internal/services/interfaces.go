package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
	"github.com/exam-portal/registration-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type GoogleLoginRequest = validator.GoogleLoginRequest
type MobileUpdateRequest = validator.MobileUpdateRequest
type RegisterRequest = validator.RegisterRequest
type BulkEnrollRequest = validator.BulkEnrollRequest
type CreateExamRequest = validator.ExamCreateRequest
type UpdateExamRequest = validator.ExamUpdateRequest
type CreateContentRequest = validator.ContentCreateRequest
type UpdateContentRequest = validator.ContentUpdateRequest

type AuthResponse struct {
	Token string       `json:"access_token"`
	User  *models.User `json:"user"`
}

type UserResponse struct {
	*models.User
	ProfileComplete bool `json:"profile_complete"`
}

type RegistrationResponse struct {
	*models.ExamRegistration
	CanInitiatePayment bool `json:"can_initiate_payment"`
	CanConfirmPayment  bool `json:"can_confirm_payment"`
	CanEnroll          bool `json:"can_enroll"`
}

type RegistrationListResponse struct {
	Registrations []*RegistrationResponse `json:"registrations"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	Size          int                     `json:"size"`
}

// ExamRegistrationRow joins a registration with its user for admin listings.
type ExamRegistrationRow struct {
	RegistrationID uuid.UUID                 `json:"registration_id"`
	Status         models.RegistrationStatus `json:"status"`
	RegisteredAt   time.Time                 `json:"registered_at"`
	UserID         uuid.UUID                 `json:"user_id"`
	UserName       string                    `json:"user_name"`
	UserEmail      string                    `json:"user_email"`
	UserMobile     *string                   `json:"user_mobile"`
}

type ExamRegistrationListResponse struct {
	Registrations []*ExamRegistrationRow `json:"registrations"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Size          int                    `json:"size"`
}

type RegistrationStatusSummary struct {
	ExamID uuid.UUID                            `json:"exam_id"`
	Counts map[models.RegistrationStatus]int64 `json:"counts"`
	Total  int64                                `json:"total"`
}

// FailedEnrollment describes one input id the bulk orchestrator could not
// enroll. Code is one of the Failure* constants.
type FailedEnrollment struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	Code           string    `json:"code"`
	Reason         string    `json:"reason"`
}

// Bulk enrollment failure codes
const (
	FailureNotFound        = "NOT_FOUND"
	FailureAlreadyEnrolled = "ALREADY_ENROLLED"
	FailureInvalidState    = "INVALID_STATE"
	FailureCancelled       = "CANCELLED"
	FailureInternal        = "INTERNAL_ERROR"
)

// BulkEnrollmentResponse reports the outcome of every input id: each id lands
// in exactly one of Success or Failed, in input order within each list.
type BulkEnrollmentResponse struct {
	Success []uuid.UUID        `json:"success"`
	Failed  []FailedEnrollment `json:"failed"`
}

type ExamResponse struct {
	*models.Exam
	IsRegistrationOpen bool `json:"is_registration_open"`
}

type ExamListResponse struct {
	Exams []*ExamResponse `json:"exams"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

type ContentResponse struct {
	*models.Content
}

type ContentListResponse struct {
	Contents []*ContentResponse `json:"contents"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
}

// ExportResult is a rendered roster ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	// GoogleLogin upserts the user by email and issues an access token.
	GoogleLogin(ctx context.Context, req *GoogleLoginRequest) (*AuthResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
	UpdateMobile(ctx context.Context, userID uuid.UUID, req *MobileUpdateRequest) (*UserResponse, error)
}

type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error)
	GetByID(ctx context.Context, id uuid.UUID, viewerRole models.UserRole) (*ExamResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateExamRequest, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) error
	List(ctx context.Context, filters repositories.ExamFilters, viewerRole models.UserRole) (*ExamListResponse, error)

	// Visibility management: non-admin callers only ever see ACTIVE exams.
	Activate(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ExamResponse, error)
}

type RegistrationService interface {
	// Register creates a registration in REGISTERED status. The caller must
	// have a complete profile and the exam must be ACTIVE.
	Register(ctx context.Context, userID, examID uuid.UUID) (*RegistrationResponse, error)

	GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*RegistrationResponse, error)
	GetUserRegistrations(ctx context.Context, userID uuid.UUID, filters repositories.RegistrationFilters) (*RegistrationListResponse, error)

	// Admin-only exam roster queries.
	GetExamRegistrations(ctx context.Context, examID uuid.UUID, filters repositories.RegistrationFilters, actorID uuid.UUID, actorRole models.UserRole) (*ExamRegistrationListResponse, error)
	GetStatusSummary(ctx context.Context, examID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*RegistrationStatusSummary, error)
}

type PaymentService interface {
	// InitiatePayment moves the caller's registration REGISTERED -> PAYMENT_PENDING.
	InitiatePayment(ctx context.Context, registrationID, actorID uuid.UUID) (*RegistrationResponse, error)
	// ConfirmPayment moves the caller's registration PAYMENT_PENDING -> PAID.
	ConfirmPayment(ctx context.Context, registrationID, actorID uuid.UUID) (*RegistrationResponse, error)
}

type EnrollmentService interface {
	// Enroll moves a registration to ENROLLED from any enrollable status.
	Enroll(ctx context.Context, registrationID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*RegistrationResponse, error)

	// BulkEnroll enrolls each id independently and reports every input id as
	// either a success or a classified failure. One item failing never aborts
	// the others; already-completed items are not rolled back.
	BulkEnroll(ctx context.Context, registrationIDs []uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*BulkEnrollmentResponse, error)
}

type ContentService interface {
	Create(ctx context.Context, req *CreateContentRequest, actorID uuid.UUID, actorRole models.UserRole) (*ContentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID, viewerRole models.UserRole) (*ContentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateContentRequest, actorID uuid.UUID, actorRole models.UserRole) (*ContentResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) error
	List(ctx context.Context, filters repositories.ContentFilters, viewerRole models.UserRole) (*ContentListResponse, error)

	Publish(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ContentResponse, error)
	Unpublish(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ContentResponse, error)
}

type ExportService interface {
	// ExportRegistrationsCSV renders the exam roster as CSV (admin only).
	ExportRegistrationsCSV(ctx context.Context, examID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ExportResult, error)
	// ExportRegistrationsXLSX renders the exam roster as an Excel workbook (admin only).
	ExportRegistrationsXLSX(ctx context.Context, examID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ExportResult, error)
}

// NotificationEventService publishes lifecycle events. Publishing is
// best-effort: a broker failure is logged and never fails the operation.
type NotificationEventService interface {
	RegistrationCreated(ctx context.Context, registration *models.ExamRegistration)
	PaymentInitiated(ctx context.Context, registration *models.ExamRegistration)
	PaymentConfirmed(ctx context.Context, registration *models.ExamRegistration)
	RegistrationEnrolled(ctx context.Context, registration *models.ExamRegistration)
	ContentPublished(ctx context.Context, content *models.Content)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	User() UserService
	Exam() ExamService
	Registration() RegistrationService
	Payment() PaymentService
	Enrollment() EnrollmentService
	Content() ContentService
	Export() ExportService
	Notification() NotificationEventService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// buildRegistrationResponse derives the allowed next actions from the
// transition table so clients never hardcode the lifecycle.
func buildRegistrationResponse(registration *models.ExamRegistration) *RegistrationResponse {
	return &RegistrationResponse{
		ExamRegistration:   registration,
		CanInitiatePayment: models.CanTransition(registration.Status, models.RegistrationPaymentPending),
		CanConfirmPayment:  models.CanTransition(registration.Status, models.RegistrationPaid),
		CanEnroll:          models.CanTransition(registration.Status, models.RegistrationEnrolled),
	}
}
